// Package schema provides the element types of relief.
//
// Overview
//   - Scalars: Boolean()/Integer()/Float()/Complex()/String()/Bytes() coerce
//     loosely typed raw input into one canonical Go representation.
//   - Mappings: DictOf(key, value) and OrderedDictOf(key, value) hold pairs of
//     elements; both keys and values are full elements with their own raw
//     value, coerced value and error list.
//   - Sequences: ListOf(member) grows and shrinks, TupleOf(members...) has a
//     fixed arity with one schema per position.
//   - Form: FormOf(F(name, schema), ...) declares a fixed set of named fields
//     over mapping-shaped input; unknown keys are stripped or reported
//     depending on the policy.
//   - Maybe: MaybeOf(inner) admits nil before delegating to the inner schema.
//
// Every schema is a factory: New(raw) returns a fresh element carrying the
// raw input. Coercion failures never return an error; they surface as the
// NotUnserializable sentinel on Value(). Validation is opt-in via
// Validate(ctx) and records human readable messages on the elements that
// failed.
//
// Entry points
//   - Boolean().Using(vs...): attach validators; Using copies, schemas are
//     safe to share.
//   - DictOf(k, v).NewDict(raw): typed constructor next to the relief.Schema
//     form New(raw).
//   - FormOf(...).UnknownStrict(): report unknown keys during validation
//     instead of silently dropping them.
//
// File layout (roles)
//   - element.go: the shared element base (raw value, error list, validity).
//   - scalars.go: the six scalar schemas and their coercion rules.
//   - mappings.go: Dict/OrderedDict over an insertion-ordered pair store.
//   - unserialize.go: raw input -> ordered pairs for the mapping types.
//   - sequences.go: List and Tuple.
//   - form.go: fixed-field Form and the unknown-key policy.
//   - maybe.go: nil-admitting wrapper.
package schema
