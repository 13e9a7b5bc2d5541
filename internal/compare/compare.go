// Package compare holds the loose value semantics validators need when they
// look at coerced payloads: logical length, cross-representation numeric
// ordering, and truthiness.
package compare

import (
	"bytes"
	"encoding/json"
	"reflect"
	"strings"
	"unicode/utf8"
)

// Length reports the logical length of a payload: runes for strings, bytes
// for byte slices, entries for slices, arrays, maps and anything exposing
// Len() int.
func Length(v any) (int, bool) {
	switch x := v.(type) {
	case string:
		return utf8.RuneCountInString(x), true
	case []byte:
		return len(x), true
	}
	if l, ok := v.(interface{ Len() int }); ok {
		return l.Len(), true
	}
	rv := reflect.ValueOf(v)
	switch rv.Kind() {
	case reflect.Slice, reflect.Array, reflect.Map:
		return rv.Len(), true
	}
	return 0, false
}

// Number widens any numeric payload, json.Number included, into a float64.
func Number(v any) (float64, bool) {
	switch n := v.(type) {
	case int:
		return float64(n), true
	case int8:
		return float64(n), true
	case int16:
		return float64(n), true
	case int32:
		return float64(n), true
	case int64:
		return float64(n), true
	case uint:
		return float64(n), true
	case uint8:
		return float64(n), true
	case uint16:
		return float64(n), true
	case uint32:
		return float64(n), true
	case uint64:
		return float64(n), true
	case float32:
		return float64(n), true
	case float64:
		return n, true
	case json.Number:
		f, err := n.Float64()
		return f, err == nil
	}
	return 0, false
}

// Compare orders two payloads when both are numbers, both strings, or both
// byte slices. The int follows the strings.Compare convention.
func Compare(a, b any) (int, bool) {
	if fa, ok := Number(a); ok {
		fb, ok2 := Number(b)
		if !ok2 {
			return 0, false
		}
		switch {
		case fa < fb:
			return -1, true
		case fa > fb:
			return 1, true
		}
		return 0, true
	}
	switch x := a.(type) {
	case string:
		if y, ok := b.(string); ok {
			return strings.Compare(x, y), true
		}
	case []byte:
		if y, ok := b.([]byte); ok {
			return bytes.Compare(x, y), true
		}
	}
	return 0, false
}

// Equal reports loose equality: numeric payloads compare across their
// representations, everything else compares structurally.
func Equal(a, b any) bool {
	if fa, ok := Number(a); ok {
		if fb, ok2 := Number(b); ok2 {
			return fa == fb
		}
		return false
	}
	return reflect.DeepEqual(a, b)
}

// Truthy reports truthiness the way the coercion layer means it: nil,
// false, zero numbers and empty containers are false, everything else is
// true.
func Truthy(v any) bool {
	if v == nil {
		return false
	}
	switch x := v.(type) {
	case bool:
		return x
	case string:
		return x != ""
	case []byte:
		return len(x) != 0
	case complex64:
		return x != 0
	case complex128:
		return x != 0
	}
	if f, ok := Number(v); ok {
		return f != 0
	}
	if l, ok := Length(v); ok {
		return l != 0
	}
	return true
}
