package schema

import (
	"context"
	"encoding/json"
	"iter"
	"math"
	"strconv"
	"unicode/utf8"

	relief "github.com/tonich-sh/relief"
	js "github.com/tonich-sh/relief/jsonschema"
)

// ScalarSchema describes one scalar kind: a coercion rule plus attached
// validators. The factories below cover the built-in kinds; Using derives a
// schema with extra validators without mutating the receiver.
type ScalarSchema struct {
	name       string
	jsType     string
	jsFormat   string
	coerce     func(relief.Value) relief.Value
	validators []relief.Validator
}

// Boolean coerces bool values and the strconv.ParseBool string forms.
func Boolean() *ScalarSchema {
	return &ScalarSchema{name: "boolean", jsType: "boolean", coerce: coerceBool}
}

// Integer coerces the integer family, integral floats and numeric strings to
// int64. Fractional input is refused rather than truncated.
func Integer() *ScalarSchema {
	return &ScalarSchema{name: "integer", jsType: "integer", coerce: coerceInt}
}

// Float coerces the numeric family and numeric strings to float64.
func Float() *ScalarSchema {
	return &ScalarSchema{name: "float", jsType: "number", coerce: coerceFloat}
}

// Complex coerces numbers and strconv.ParseComplex strings to complex128.
func Complex() *ScalarSchema {
	return &ScalarSchema{name: "complex", jsType: "string", jsFormat: "complex", coerce: coerceComplex}
}

// String coerces string values and valid UTF-8 byte slices.
func String() *ScalarSchema {
	return &ScalarSchema{name: "string", jsType: "string", coerce: coerceString}
}

// Bytes coerces byte slices and strings to a fresh []byte.
func Bytes() *ScalarSchema {
	return &ScalarSchema{name: "bytes", jsType: "string", jsFormat: "byte", coerce: coerceBytes}
}

// Using returns a copy of the schema with vs appended to its validators.
func (s *ScalarSchema) Using(vs ...relief.Validator) *ScalarSchema {
	c := *s
	c.validators = cloneValidators(s.validators, vs)
	return &c
}

// New implements relief.Schema.
func (s *ScalarSchema) New(raw relief.Value) relief.Element { return s.NewScalar(raw) }

// NewScalar is the typed constructor.
func (s *ScalarSchema) NewScalar(raw relief.Value) *Scalar {
	e := &Scalar{schema: s}
	e.Set(raw)
	return e
}

// JSONSchema projects the scalar kind.
func (s *ScalarSchema) JSONSchema() (*js.Schema, error) {
	out := &js.Schema{Type: s.jsType}
	if s.jsFormat != "" {
		out.Format = s.jsFormat
	}
	return out, nil
}

// Scalar is the element produced by the scalar schemas.
type Scalar struct {
	base
	schema *ScalarSchema
}

func (e *Scalar) Set(raw relief.Value) { e.raw = raw }

func (e *Scalar) Value() relief.Value {
	if e.raw.IsUnspecified() {
		return relief.Unspecified
	}
	return e.schema.coerce(e.raw)
}

func (e *Scalar) Validate(ctx context.Context) bool {
	return e.record(relief.RunValidators(ctx, e, e.schema.validators))
}

func (e *Scalar) Traverse(prefix relief.Path) iter.Seq[relief.Leaf] {
	return relief.SingleLeaf(prefix, e)
}

func coerceBool(raw relief.Value) relief.Value {
	switch v := raw.Any().(type) {
	case bool:
		return relief.Of(v)
	case string:
		b, err := strconv.ParseBool(v)
		if err != nil {
			return relief.NotUnserializable
		}
		return relief.Of(b)
	}
	return relief.NotUnserializable
}

func coerceInt(raw relief.Value) relief.Value {
	switch v := raw.Any().(type) {
	case string:
		n, err := strconv.ParseInt(v, 10, 64)
		if err != nil {
			return relief.NotUnserializable
		}
		return relief.Of(n)
	case json.Number:
		if n, err := v.Int64(); err == nil {
			return relief.Of(n)
		}
		if f, err := v.Float64(); err == nil {
			return integralToValue(f)
		}
		return relief.NotUnserializable
	case float64:
		return integralToValue(v)
	case float32:
		return integralToValue(float64(v))
	default:
		if n, ok := intFromAny(v); ok {
			return relief.Of(n)
		}
	}
	return relief.NotUnserializable
}

func coerceFloat(raw relief.Value) relief.Value {
	switch v := raw.Any().(type) {
	case float64:
		return relief.Of(v)
	case float32:
		return relief.Of(float64(v))
	case string:
		f, err := strconv.ParseFloat(v, 64)
		if err != nil {
			return relief.NotUnserializable
		}
		return relief.Of(f)
	case json.Number:
		f, err := v.Float64()
		if err != nil {
			return relief.NotUnserializable
		}
		return relief.Of(f)
	default:
		if n, ok := intFromAny(v); ok {
			return relief.Of(float64(n))
		}
	}
	return relief.NotUnserializable
}

func coerceComplex(raw relief.Value) relief.Value {
	switch v := raw.Any().(type) {
	case complex128:
		return relief.Of(v)
	case complex64:
		return relief.Of(complex128(v))
	case float64:
		return relief.Of(complex(v, 0))
	case float32:
		return relief.Of(complex(float64(v), 0))
	case string:
		c, err := strconv.ParseComplex(v, 128)
		if err != nil {
			return relief.NotUnserializable
		}
		return relief.Of(c)
	case json.Number:
		f, err := v.Float64()
		if err != nil {
			return relief.NotUnserializable
		}
		return relief.Of(complex(f, 0))
	default:
		if n, ok := intFromAny(v); ok {
			return relief.Of(complex(float64(n), 0))
		}
	}
	return relief.NotUnserializable
}

func coerceString(raw relief.Value) relief.Value {
	switch v := raw.Any().(type) {
	case string:
		return relief.Of(v)
	case []byte:
		if !utf8.Valid(v) {
			return relief.NotUnserializable
		}
		return relief.Of(string(v))
	}
	return relief.NotUnserializable
}

func coerceBytes(raw relief.Value) relief.Value {
	switch v := raw.Any().(type) {
	case []byte:
		out := make([]byte, len(v))
		copy(out, v)
		return relief.Of(out)
	case string:
		return relief.Of([]byte(v))
	}
	return relief.NotUnserializable
}

// intFromAny converts the signed and unsigned integer kinds to int64.
func intFromAny(v any) (int64, bool) {
	switch n := v.(type) {
	case int:
		return int64(n), true
	case int8:
		return int64(n), true
	case int16:
		return int64(n), true
	case int32:
		return int64(n), true
	case int64:
		return n, true
	case uint:
		return int64(n), uint64(n) <= math.MaxInt64
	case uint8:
		return int64(n), true
	case uint16:
		return int64(n), true
	case uint32:
		return int64(n), true
	case uint64:
		return int64(n), n <= math.MaxInt64
	case uintptr:
		return int64(n), uint64(n) <= math.MaxInt64
	}
	return 0, false
}

// integralToValue admits floats without a fractional part.
func integralToValue(f float64) relief.Value {
	if math.IsNaN(f) || math.IsInf(f, 0) || math.Trunc(f) != f {
		return relief.NotUnserializable
	}
	if f < math.MinInt64 || f >= math.MaxInt64 {
		return relief.NotUnserializable
	}
	return relief.Of(int64(f))
}
