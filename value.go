package relief

import (
	"fmt"
	"reflect"
)

// Kind discriminates the three states a Value can be in.
type Kind int8

const (
	// KindUnspecified marks input that never arrived.
	KindUnspecified Kind = iota
	// KindNotUnserializable marks input a schema could not interpret.
	KindNotUnserializable
	// KindSpecified marks a present payload, including a present nil.
	KindSpecified
)

func (k Kind) String() string {
	switch k {
	case KindUnspecified:
		return "unspecified"
	case KindNotUnserializable:
		return "not_unserializable"
	case KindSpecified:
		return "specified"
	}
	return "unknown"
}

// Value carries raw and coerced data through element trees. The zero value
// is Unspecified; a specified nil (Of(nil)) is a different state. Payloads
// may be uncomparable, so compare Values with Equal or the Is* helpers
// rather than ==.
type Value struct {
	kind Kind
	data any
}

var (
	Unspecified       = Value{}
	NotUnserializable = Value{kind: KindNotUnserializable}
)

// Of wraps v as a specified Value. Passing a Value returns it unchanged, so
// raw input that is already tagged flows through untouched.
func Of(v any) Value {
	if vv, ok := v.(Value); ok {
		return vv
	}
	return Value{kind: KindSpecified, data: v}
}

func (v Value) Kind() Kind { return v.kind }

func (v Value) IsUnspecified() bool { return v.kind == KindUnspecified }

func (v Value) IsNotUnserializable() bool { return v.kind == KindNotUnserializable }

// Usable reports whether v carries a payload validators can inspect.
func (v Value) Usable() bool { return v.kind == KindSpecified }

// Any returns the payload; sentinel states return nil.
func (v Value) Any() any {
	if v.kind != KindSpecified {
		return nil
	}
	return v.data
}

func (v Value) Str() (string, bool) {
	s, ok := v.Any().(string)
	return s, ok
}

func (v Value) Int() (int64, bool) {
	switch n := v.Any().(type) {
	case int64:
		return n, true
	case int:
		return int64(n), true
	}
	return 0, false
}

func (v Value) Float() (float64, bool) {
	switch n := v.Any().(type) {
	case float64:
		return n, true
	case int64:
		return float64(n), true
	case int:
		return float64(n), true
	}
	return 0, false
}

func (v Value) Bool() (bool, bool) {
	b, ok := v.Any().(bool)
	return b, ok
}

func (v Value) Bytes() ([]byte, bool) {
	b, ok := v.Any().([]byte)
	return b, ok
}

func (v Value) Complex() (complex128, bool) {
	c, ok := v.Any().(complex128)
	return c, ok
}

// Equal compares kind and payload; payloads compare structurally.
func (v Value) Equal(o Value) bool {
	if v.kind != o.kind {
		return false
	}
	return reflect.DeepEqual(v.data, o.data)
}

func (v Value) String() string {
	switch v.kind {
	case KindUnspecified:
		return "<unspecified>"
	case KindNotUnserializable:
		return "<not unserializable>"
	}
	return fmt.Sprintf("%v", v.data)
}
