package relief

// Package relief provides:
//
// - Schema-driven coercion of raw input into element trees (Raw/Value/Errors)
// - Sentinel propagation through a tagged Value (Unspecified / NotUnserializable)
// - Opt-in validation with per-element error lists and tri-state validity
// - Integer-path traversal of leaves for UI and reporting layers
//
// Design policy:
// - Keep only contracts in the root package; concrete elements live under
//   schema/, validators under validation/, input adapters under source/.
// - Data problems never raise: they land in sentinels and error lists.
//   Error returns are reserved for caller mistakes (missing keys without a
//   fallback, argument misuse, popping from an empty container).
// - Prefer black-box testing against public APIs.
//
// Typical usage:
//
//  s := schema.DictOf(schema.String(), schema.Integer())
//  d := s.NewDict(relief.Of(map[string]any{"port": "8080"}))
//  d.Validate(ctx)
//  iss := relief.CollectIssues(d)
//
