package relief

import (
	"context"
	"iter"
)

// Validity is the tri-state outcome of Validate. Elements start out
// Unvalidated; every Validate run recomputes the state from scratch.
type Validity int8

const (
	Unvalidated Validity = iota
	Valid
	Invalid
)

func (v Validity) String() string {
	switch v {
	case Valid:
		return "valid"
	case Invalid:
		return "invalid"
	}
	return "unvalidated"
}

// Element is a node in a coercion tree: raw input on one side, the derived
// value, the error list and the validity on the other.
type Element interface {
	// Raw returns the input exactly as it was given.
	Raw() Value
	// Set replaces the raw input. Containers rebuild their entries from it;
	// error lists are left alone.
	Set(raw Value)
	// Value derives the coerced value on demand. It never fails: problems
	// come back as the Unspecified or NotUnserializable sentinel.
	Value() Value
	// Errors is the ordered list of messages noted so far. Messages repeat
	// when validators run repeatedly without ClearErrors in between.
	Errors() []string
	AddError(msg string)
	ClearErrors()
	IsValid() Validity
	// Validate runs the attached validators, children first for containers,
	// and records the ANDed outcome. ctx may be nil.
	Validate(ctx context.Context) bool
	// Traverse yields the leaf elements below the node paired with their
	// integer paths. Non-container elements yield themselves as the sole
	// leaf at prefix.
	Traverse(prefix Path) iter.Seq[Leaf]
}

// Schema creates elements. Descriptors built by the schema package factories
// are immutable; New may be called from multiple goroutines.
type Schema interface {
	New(raw Value) Element
}

// Validator is the single-method validation protocol. Implementations note
// failures on the element through its error list and report the outcome.
type Validator interface {
	Validate(ctx context.Context, el Element) bool
}

// ValidatorFunc adapts a plain function to the Validator interface.
type ValidatorFunc func(ctx context.Context, el Element) bool

func (f ValidatorFunc) Validate(ctx context.Context, el Element) bool { return f(ctx, el) }

// RunValidators applies vs to el in order and returns the ANDed result.
// Every validator runs; failures do not short-circuit, so a single pass
// notes every applicable message. The observer attached to ctx, if any,
// sees each invocation.
func RunValidators(ctx context.Context, el Element, vs []Validator) bool {
	if ctx == nil {
		ctx = context.Background()
	}
	obs := observerFrom(ctx)
	ok := true
	for _, v := range vs {
		r := v.Validate(ctx, el)
		if obs != nil {
			obs.Validated(ctx, el, v, r)
		}
		ok = ok && r
	}
	return ok
}

// NodeWalker is implemented by containers that can enumerate every element
// below them, themselves included. CollectIssues probes for it so container
// errors are reported alongside leaf errors.
type NodeWalker interface {
	Nodes(prefix Path) iter.Seq[Leaf]
}

// SingleLeaf is the one-leaf sequence non-container elements return from
// Traverse.
func SingleLeaf(p Path, el Element) iter.Seq[Leaf] {
	return func(yield func(Leaf) bool) {
		yield(Leaf{Path: p, Element: el})
	}
}
