package schema

import (
	"context"
	"iter"

	relief "github.com/tonich-sh/relief"
	js "github.com/tonich-sh/relief/jsonschema"
)

// MaybeSchema wraps an inner schema so nil becomes a legitimate value
// instead of a coercion failure.
type MaybeSchema struct {
	inner      relief.Schema
	validators []relief.Validator
}

func MaybeOf(inner relief.Schema) *MaybeSchema {
	return &MaybeSchema{inner: inner}
}

// Using returns a copy with vs appended. The validators run on the wrapper,
// so they see nil as a usable value.
func (s *MaybeSchema) Using(vs ...relief.Validator) *MaybeSchema {
	c := *s
	c.validators = cloneValidators(s.validators, vs)
	return &c
}

// New implements relief.Schema.
func (s *MaybeSchema) New(raw relief.Value) relief.Element { return s.NewMaybe(raw) }

// NewMaybe is the typed constructor.
func (s *MaybeSchema) NewMaybe(raw relief.Value) *Maybe {
	e := &Maybe{schema: s}
	e.Set(raw)
	return e
}

func (s *MaybeSchema) JSONSchema() (*js.Schema, error) {
	return &js.Schema{OneOf: []*js.Schema{{Type: "null"}, projectSchema(s.inner)}}, nil
}

// Maybe passes non-nil raw input through to the inner element. Nil short
// circuits: the value is nil, the inner validators never run. In paths the
// wrapper is invisible; traversal delegates to the inner element.
type Maybe struct {
	base
	schema *MaybeSchema
	child  relief.Element
}

func (e *Maybe) Set(raw relief.Value) {
	e.raw = raw
	e.child = e.schema.inner.New(raw)
}

// Inner exposes the wrapped element.
func (e *Maybe) Inner() relief.Element { return e.child }

func (e *Maybe) Value() relief.Value {
	if e.raw.IsUnspecified() {
		return relief.Unspecified
	}
	if e.nilish() {
		return relief.Of(nil)
	}
	return e.child.Value()
}

func (e *Maybe) Validate(ctx context.Context) bool {
	ok := true
	if !e.raw.IsUnspecified() && !e.nilish() {
		ok = e.child.Validate(ctx) && ok
	}
	ok = relief.RunValidators(ctx, e, e.schema.validators) && ok
	return e.record(ok)
}

func (e *Maybe) Traverse(prefix relief.Path) iter.Seq[relief.Leaf] {
	if e.raw.IsUnspecified() || e.nilish() {
		return relief.SingleLeaf(prefix, e)
	}
	return e.child.Traverse(prefix)
}

// Nodes implements relief.NodeWalker.
func (e *Maybe) Nodes(prefix relief.Path) iter.Seq[relief.Leaf] {
	return func(yield func(relief.Leaf) bool) {
		if !yield(relief.Leaf{Path: prefix, Element: e}) {
			return
		}
		if e.raw.IsUnspecified() || e.nilish() {
			return
		}
		if !yieldNodes(yield, e.child, prefix) {
			return
		}
	}
}

// nilish reports a usable nil raw value.
func (e *Maybe) nilish() bool {
	return e.raw.Usable() && e.raw.Any() == nil
}

var (
	_ relief.Element    = (*Maybe)(nil)
	_ relief.NodeWalker = (*Maybe)(nil)
)
