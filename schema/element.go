package schema

import (
	relief "github.com/tonich-sh/relief"
)

// KV is one raw key/value entry. Mapping constructors accept []KV wherever
// mapping-shaped input is expected, and Update takes trailing KV arguments as
// per-key overrides.
type KV struct {
	Key   any
	Value any
}

// base carries the state shared by every element type: the raw value as it
// was last set, the accumulated error messages, and the validity flag.
type base struct {
	raw      relief.Value
	errors   []string
	validity relief.Validity
}

func (b *base) Raw() relief.Value { return b.raw }

func (b *base) Errors() []string { return b.errors }

func (b *base) AddError(msg string) { b.errors = append(b.errors, msg) }

func (b *base) ClearErrors() { b.errors = nil }

func (b *base) IsValid() relief.Validity { return b.validity }

// record stores the outcome of a validation run and returns it unchanged.
func (b *base) record(ok bool) bool {
	if ok {
		b.validity = relief.Valid
	} else {
		b.validity = relief.Invalid
	}
	return ok
}

func cloneValidators(vs []relief.Validator, extra []relief.Validator) []relief.Validator {
	out := make([]relief.Validator, 0, len(vs)+len(extra))
	out = append(out, vs...)
	out = append(out, extra...)
	return out
}
