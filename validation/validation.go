// Package validation ships the stock validators. Validators are plain
// structs used as literals; the Message field overrides the default
// template from the i18n catalog:
//
//	schema.String().Using(&validation.Present{}, &validation.ShorterThan{Upperbound: 80})
//
// Every value-dependent validator checks the element's value for the
// sentinel states first and fails with its own message when the value is
// unusable. ContainedIn is the exception: it runs its membership test
// unconditionally.
package validation

import (
	"context"
	"fmt"
	"net/url"
	"regexp"
	"strings"

	relief "github.com/tonich-sh/relief"
	"github.com/tonich-sh/relief/i18n"
	"github.com/tonich-sh/relief/internal/compare"
)

// Catalog codes understood by the default Translator. Custom Translators
// switch on these.
const (
	CodePresent           = "present"
	CodeConverted         = "converted"
	CodeIsTrue            = "is_true"
	CodeIsFalse           = "is_false"
	CodeShorterThan       = "shorter_than"
	CodeLongerThan        = "longer_than"
	CodeLengthWithinRange = "length_within_range"
	CodeContainedIn       = "contained_in"
	CodeLessThan          = "less_than"
	CodeGreaterThan       = "greater_than"
	CodeWithinRange       = "within_range"
	CodeItemsEqual        = "items_equal"
	CodeAttributesEqual   = "attributes_equal"
	CodeEmail             = "email"
	CodeMatchesRegex      = "matches_regex"
	CodeIsURL             = "is_url"
	CodeUnknownKey        = "unknown_key"
)

// IsUnusable reports whether the element's value is one of the sentinels.
func IsUnusable(el relief.Element) bool {
	v := el.Value()
	return v.IsUnspecified() || v.IsNotUnserializable()
}

// NoteError substitutes the {placeholder} entries of template and appends
// the result to the element's error list. Messages are never deduplicated.
func NoteError(el relief.Element, template string, subs map[string]string) {
	el.AddError(i18n.Substitute(template, subs))
}

func template(custom, code string) string {
	if custom != "" {
		return custom
	}
	return i18n.T(code, nil)
}

// Present fails when the value is unspecified.
type Present struct {
	Message string
}

func (v *Present) Validate(ctx context.Context, el relief.Element) bool {
	if el.Value().IsUnspecified() {
		NoteError(el, template(v.Message, CodePresent), nil)
		return false
	}
	return true
}

// Converted fails when the value is unusable, i.e. coercion did not produce
// anything a downstream validator could look at.
type Converted struct {
	Message string
}

func (v *Converted) Validate(ctx context.Context, el relief.Element) bool {
	if IsUnusable(el) {
		NoteError(el, template(v.Message, CodeConverted), nil)
		return false
	}
	return true
}

// IsTrue fails when the value is unusable or false-ish.
type IsTrue struct {
	Message string
}

func (v *IsTrue) Validate(ctx context.Context, el relief.Element) bool {
	if IsUnusable(el) || !compare.Truthy(el.Value().Any()) {
		NoteError(el, template(v.Message, CodeIsTrue), nil)
		return false
	}
	return true
}

// IsFalse fails when the value is unusable or true-ish.
type IsFalse struct {
	Message string
}

func (v *IsFalse) Validate(ctx context.Context, el relief.Element) bool {
	if IsUnusable(el) || compare.Truthy(el.Value().Any()) {
		NoteError(el, template(v.Message, CodeIsFalse), nil)
		return false
	}
	return true
}

// ShorterThan fails when the length of the value is equal to or longer than
// Upperbound.
type ShorterThan struct {
	Upperbound int
	Message    string
}

func (v *ShorterThan) Validate(ctx context.Context, el relief.Element) bool {
	n, ok := length(el)
	if !ok || n >= v.Upperbound {
		NoteError(el, template(v.Message, CodeShorterThan), subs("upperbound", v.Upperbound))
		return false
	}
	return true
}

// LongerThan fails when the length of the value is equal to or shorter than
// Lowerbound.
type LongerThan struct {
	Lowerbound int
	Message    string
}

func (v *LongerThan) Validate(ctx context.Context, el relief.Element) bool {
	n, ok := length(el)
	if !ok || n <= v.Lowerbound {
		NoteError(el, template(v.Message, CodeLongerThan), subs("lowerbound", v.Lowerbound))
		return false
	}
	return true
}

// LengthWithinRange fails unless Start < length < End, strict on both ends.
type LengthWithinRange struct {
	Start   int
	End     int
	Message string
}

func (v *LengthWithinRange) Validate(ctx context.Context, el relief.Element) bool {
	if n, ok := length(el); ok && v.Start < n && n < v.End {
		return true
	}
	NoteError(el, template(v.Message, CodeLengthWithinRange), subs("start", v.Start, "end", v.End))
	return false
}

// ContainedIn fails when the value equals none of the options. There is no
// unusable guard: sentinel values fail the membership test unless an option
// is itself a relief.Value sentinel.
type ContainedIn struct {
	Options []any
	Message string
}

func (v *ContainedIn) Validate(ctx context.Context, el relief.Element) bool {
	val := el.Value()
	for _, opt := range v.Options {
		if sentinel, ok := opt.(relief.Value); ok {
			if val.Equal(sentinel) {
				return true
			}
			continue
		}
		if val.Usable() && compare.Equal(val.Any(), opt) {
			return true
		}
	}
	NoteError(el, template(v.Message, CodeContainedIn), nil)
	return false
}

// LessThan fails when the value is greater than or equal to Upperbound.
type LessThan struct {
	Upperbound any
	Message    string
}

func (v *LessThan) Validate(ctx context.Context, el relief.Element) bool {
	if c, ok := order(el, v.Upperbound); !ok || c >= 0 {
		NoteError(el, template(v.Message, CodeLessThan), subs("upperbound", v.Upperbound))
		return false
	}
	return true
}

// GreaterThan fails when the value is less than or equal to Lowerbound.
type GreaterThan struct {
	Lowerbound any
	Message    string
}

func (v *GreaterThan) Validate(ctx context.Context, el relief.Element) bool {
	if c, ok := order(el, v.Lowerbound); !ok || c <= 0 {
		NoteError(el, template(v.Message, CodeGreaterThan), subs("lowerbound", v.Lowerbound))
		return false
	}
	return true
}

// WithinRange fails unless Start < value < End, strict on both ends.
type WithinRange struct {
	Start   any
	End     any
	Message string
}

func (v *WithinRange) Validate(ctx context.Context, el relief.Element) bool {
	lo, okLo := order(el, v.Start)
	hi, okHi := order(el, v.End)
	if okLo && okHi && lo > 0 && hi < 0 {
		return true
	}
	NoteError(el, template(v.Message, CodeWithinRange), subs("start", v.Start, "end", v.End))
	return false
}

// Item names one position inside a mapping value: the key to look up and
// the label substituted into the message.
type Item struct {
	Label string
	Key   any
}

// ItemsEqual fails unless the values at the two keys of the coerced mapping
// compare equal. A missing key counts as unequal.
type ItemsEqual struct {
	A       Item
	B       Item
	Message string
}

func (v *ItemsEqual) Validate(ctx context.Context, el relief.Element) bool {
	if !IsUnusable(el) {
		a, okA := index(el.Value().Any(), v.A.Key)
		b, okB := index(el.Value().Any(), v.B.Key)
		if okA && okB && compare.Equal(a, b) {
			return true
		}
	}
	NoteError(el, template(v.Message, CodeItemsEqual), map[string]string{"a": v.A.Label, "b": v.B.Label})
	return false
}

// Attribute names one child element: the field name to resolve and the
// label substituted into the message.
type Attribute struct {
	Label string
	Name  string
}

// fieldLookup is satisfied by elements with named children, like Form.
type fieldLookup interface {
	Field(name string) (relief.Element, bool)
}

// AttributesEqual fails unless the values of the two named child elements
// compare equal. Elements without named children fail outright.
type AttributesEqual struct {
	A       Attribute
	B       Attribute
	Message string
}

func (v *AttributesEqual) Validate(ctx context.Context, el relief.Element) bool {
	if fl, ok := el.(fieldLookup); ok && !IsUnusable(el) {
		a, okA := fl.Field(v.A.Name)
		b, okB := fl.Field(v.B.Name)
		if okA && okB && a.Value().Equal(b.Value()) {
			return true
		}
	}
	NoteError(el, template(v.Message, CodeAttributesEqual), map[string]string{"a": v.A.Label, "b": v.B.Label})
	return false
}

// ProbablyAnEmailAddress fails when the value does not look like
// local@host with a dot somewhere in the host. The check is a heuristic;
// addresses that pass may still be unparseable or unreachable.
type ProbablyAnEmailAddress struct {
	Message string
}

func (v *ProbablyAnEmailAddress) Validate(ctx context.Context, el relief.Element) bool {
	// Str is false for sentinel values, so the unusable guard is implied.
	if s, ok := el.Value().Str(); ok {
		if at := strings.Index(s, "@"); at >= 0 && strings.Contains(s[at+1:], ".") {
			return true
		}
	}
	NoteError(el, template(v.Message, CodeEmail), nil)
	return false
}

// MatchesRegex fails unless Regex matches a prefix of the value, i.e. a
// match anchored at position 0 rather than a full or floating match.
type MatchesRegex struct {
	Regex   *regexp.Regexp
	Message string
}

func (v *MatchesRegex) Validate(ctx context.Context, el relief.Element) bool {
	if s, ok := el.Value().Str(); ok && v.Regex != nil {
		if loc := v.Regex.FindStringIndex(s); loc != nil && loc[0] == 0 {
			return true
		}
	}
	NoteError(el, template(v.Message, CodeMatchesRegex), nil)
	return false
}

// IsURL fails unless the value parses as an absolute URL: non-empty scheme
// and non-empty host.
type IsURL struct {
	Message string
}

func (v *IsURL) Validate(ctx context.Context, el relief.Element) bool {
	if s, ok := el.Value().Str(); ok {
		if u, err := url.Parse(s); err == nil && u.Scheme != "" && u.Host != "" {
			return true
		}
	}
	NoteError(el, template(v.Message, CodeIsURL), nil)
	return false
}

func length(el relief.Element) (int, bool) {
	if IsUnusable(el) {
		return 0, false
	}
	return compare.Length(el.Value().Any())
}

func order(el relief.Element, bound any) (int, bool) {
	if IsUnusable(el) {
		return 0, false
	}
	return compare.Compare(el.Value().Any(), bound)
}

// index looks a key up inside a coerced mapping payload.
func index(payload any, key any) (any, bool) {
	switch m := payload.(type) {
	case map[any]any:
		v, ok := m[key]
		return v, ok
	case map[string]any:
		s, ok := key.(string)
		if !ok {
			return nil, false
		}
		v, ok := m[s]
		return v, ok
	case interface{ Get(key any) (any, bool) }:
		return m.Get(key)
	case interface{ Get(key string) (any, bool) }:
		s, ok := key.(string)
		if !ok {
			return nil, false
		}
		return m.Get(s)
	}
	return nil, false
}

func subs(kv ...any) map[string]string {
	m := make(map[string]string, len(kv)/2)
	for i := 0; i+1 < len(kv); i += 2 {
		m[fmt.Sprint(kv[i])] = fmt.Sprint(kv[i+1])
	}
	return m
}
