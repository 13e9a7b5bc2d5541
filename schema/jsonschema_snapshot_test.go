package schema_test

import (
	"encoding/json"
	"errors"
	"reflect"
	"testing"

	relief "github.com/tonich-sh/relief"
	js "github.com/tonich-sh/relief/jsonschema"
	"github.com/tonich-sh/relief/schema"
)

// normalize marshals v to JSON and unmarshals back into interface{} so
// snapshots compare shape, not struct identity.
func normalize(v any) any {
	b, err := json.Marshal(v)
	if err != nil {
		return nil
	}
	var out any
	_ = json.Unmarshal(b, &out)
	return out
}

func TestJSONSchema_Scalars(t *testing.T) {
	cases := []struct {
		name string
		s    js.Projector
		want map[string]any
	}{
		{"boolean", schema.Boolean(), map[string]any{"type": "boolean"}},
		{"integer", schema.Integer(), map[string]any{"type": "integer"}},
		{"float", schema.Float(), map[string]any{"type": "number"}},
		{"complex", schema.Complex(), map[string]any{"type": "string", "format": "complex"}},
		{"string", schema.String(), map[string]any{"type": "string"}},
		{"bytes", schema.Bytes(), map[string]any{"type": "string", "format": "byte"}},
	}
	for _, c := range cases {
		s, err := c.s.JSONSchema()
		if err != nil {
			t.Fatalf("%s JSONSchema err: %v", c.name, err)
		}
		got, want := normalize(s), normalize(c.want)
		if !reflect.DeepEqual(got, want) {
			t.Fatalf("%s schema mismatch\n got=%v\nwant=%v", c.name, got, want)
		}
	}
}

func TestJSONSchema_List(t *testing.T) {
	s, err := schema.ListOf(schema.String()).JSONSchema()
	if err != nil {
		t.Fatalf("list JSONSchema err: %v", err)
	}
	got := normalize(s)
	want := normalize(map[string]any{
		"type":  "array",
		"items": map[string]any{"type": "string"},
	})
	if !reflect.DeepEqual(got, want) {
		t.Fatalf("list schema mismatch\n got=%v\nwant=%v", got, want)
	}
}

func TestJSONSchema_Tuple(t *testing.T) {
	s, err := schema.TupleOf(schema.String(), schema.Integer()).JSONSchema()
	if err != nil {
		t.Fatalf("tuple JSONSchema err: %v", err)
	}
	got := normalize(s)
	want := normalize(map[string]any{
		"type": "array",
		"prefixItems": []any{
			map[string]any{"type": "string"},
			map[string]any{"type": "integer"},
		},
		"minItems": 2,
		"maxItems": 2,
	})
	if !reflect.DeepEqual(got, want) {
		t.Fatalf("tuple schema mismatch\n got=%v\nwant=%v", got, want)
	}
}

func TestJSONSchema_Maybe(t *testing.T) {
	s, err := schema.MaybeOf(schema.Integer()).JSONSchema()
	if err != nil {
		t.Fatalf("maybe JSONSchema err: %v", err)
	}
	got := normalize(s)
	want := normalize(map[string]any{
		"oneOf": []any{
			map[string]any{"type": "null"},
			map[string]any{"type": "integer"},
		},
	})
	if !reflect.DeepEqual(got, want) {
		t.Fatalf("maybe schema mismatch\n got=%v\nwant=%v", got, want)
	}
}

func TestJSONSchema_Mappings(t *testing.T) {
	want := normalize(map[string]any{
		"type":                 "object",
		"additionalProperties": map[string]any{"type": "integer"},
	})

	s, err := schema.DictOf(schema.String(), schema.Integer()).JSONSchema()
	if err != nil {
		t.Fatalf("dict JSONSchema err: %v", err)
	}
	if got := normalize(s); !reflect.DeepEqual(got, want) {
		t.Fatalf("dict schema mismatch\n got=%v\nwant=%v", got, want)
	}

	s, err = schema.OrderedDictOf(schema.String(), schema.Integer()).JSONSchema()
	if err != nil {
		t.Fatalf("ordered dict JSONSchema err: %v", err)
	}
	if got := normalize(s); !reflect.DeepEqual(got, want) {
		t.Fatalf("ordered dict schema mismatch\n got=%v\nwant=%v", got, want)
	}
}

func TestJSONSchema_Form_UnknownPolicies(t *testing.T) {
	form := schema.FormOf(
		schema.F("name", schema.String()),
		schema.F("age", schema.Integer()),
	)

	// Strict → additionalProperties=false
	s, err := form.UnknownStrict().JSONSchema()
	if err != nil {
		t.Fatalf("form(strict) JSONSchema err: %v", err)
	}
	got := normalize(s)
	want := normalize(map[string]any{
		"type": "object",
		"properties": map[string]any{
			"name": map[string]any{"type": "string"},
			"age":  map[string]any{"type": "integer"},
		},
		"additionalProperties": false,
	})
	if !reflect.DeepEqual(got, want) {
		t.Fatalf("form(strict) schema mismatch\n got=%v\nwant=%v", got, want)
	}

	// Strip (the default) → unknown keys are dropped before coercion, so
	// the projection leaves additionalProperties open.
	s, err = form.UnknownStrip().JSONSchema()
	if err != nil {
		t.Fatalf("form(strip) JSONSchema err: %v", err)
	}
	got = normalize(s)
	want = normalize(map[string]any{
		"type": "object",
		"properties": map[string]any{
			"name": map[string]any{"type": "string"},
			"age":  map[string]any{"type": "integer"},
		},
	})
	if !reflect.DeepEqual(got, want) {
		t.Fatalf("form(strip) schema mismatch\n got=%v\nwant=%v", got, want)
	}
}

// opaque is a schema with no JSON Schema rendering.
type opaque struct{}

func (opaque) New(raw relief.Value) relief.Element { return schema.String().New(raw) }

func TestFromSchema(t *testing.T) {
	s, err := js.FromSchema(schema.Boolean())
	if err != nil {
		t.Fatalf("FromSchema err: %v", err)
	}
	if s.Type != "boolean" {
		t.Fatalf("expected boolean projection, got %q", s.Type)
	}

	if _, err := js.FromSchema(opaque{}); !errors.Is(err, js.ErrNoProjection) {
		t.Fatalf("expected ErrNoProjection, got %v", err)
	}
}
