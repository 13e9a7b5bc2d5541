package schema

import (
	"context"
	"fmt"
	"iter"
	"sort"

	orderedmap "github.com/wk8/go-ordered-map/v2"

	relief "github.com/tonich-sh/relief"
	"github.com/tonich-sh/relief/i18n"
	js "github.com/tonich-sh/relief/jsonschema"
)

// UnknownPolicy decides what happens to input keys no field is declared
// for.
type UnknownPolicy int

const (
	// UnknownStrip drops unknown keys silently. The default.
	UnknownStrip UnknownPolicy = iota
	// UnknownStrict keeps the form coercing but notes an error per unknown
	// key when Validate runs.
	UnknownStrict
)

// FormField declares one named field.
type FormField struct {
	Name   string
	Schema relief.Schema
}

// F is the short form constructor used in FormOf literals.
func F(name string, s relief.Schema) FormField { return FormField{Name: name, Schema: s} }

// FormSchema builds Form elements with a fixed, ordered field set.
type FormSchema struct {
	fields     []FormField
	unknown    UnknownPolicy
	validators []relief.Validator
}

// FormOf declares a form. Field names must be non-empty and unique; a bad
// declaration is a programming mistake and panics.
func FormOf(fields ...FormField) *FormSchema {
	seen := make(map[string]struct{}, len(fields))
	for _, f := range fields {
		if f.Name == "" {
			panic("schema: form field with empty name")
		}
		if f.Schema == nil {
			panic(fmt.Sprintf("schema: form field %q has no schema", f.Name))
		}
		if _, dup := seen[f.Name]; dup {
			panic(fmt.Sprintf("schema: duplicate form field %q", f.Name))
		}
		seen[f.Name] = struct{}{}
	}
	return &FormSchema{fields: fields}
}

// Using returns a copy with vs appended.
func (s *FormSchema) Using(vs ...relief.Validator) *FormSchema {
	c := *s
	c.validators = cloneValidators(s.validators, vs)
	return &c
}

// UnknownStrict returns a copy that reports unknown input keys during
// validation.
func (s *FormSchema) UnknownStrict() *FormSchema {
	c := *s
	c.unknown = UnknownStrict
	return &c
}

// UnknownStrip returns a copy that drops unknown input keys silently.
func (s *FormSchema) UnknownStrip() *FormSchema {
	c := *s
	c.unknown = UnknownStrip
	return &c
}

// New implements relief.Schema.
func (s *FormSchema) New(raw relief.Value) relief.Element { return s.NewForm(raw) }

// NewForm is the typed constructor.
func (s *FormSchema) NewForm(raw relief.Value) *Form {
	f := &Form{schema: s}
	f.Set(raw)
	return f
}

// JSONSchema projects the declared fields as object properties.
func (s *FormSchema) JSONSchema() (*js.Schema, error) {
	props := make(map[string]*js.Schema, len(s.fields))
	for _, f := range s.fields {
		props[f.Name] = projectSchema(f.Schema)
	}
	out := &js.Schema{Type: "object", Properties: props}
	if s.unknown == UnknownStrict {
		out.AdditionalProperties = false
	}
	return out, nil
}

// formKey coerces declared field names into key elements for traversal.
var formKey = String()

// Form is a mapping with a fixed field set. Declared fields always exist;
// fields missing from the input stay Unspecified. Unknown input keys are
// stripped or reported depending on the schema policy.
type Form struct {
	base
	schema  *FormSchema
	keys    []relief.Element
	fields  []relief.Element
	unknown []string
}

// Set records raw verbatim and rebuilds every declared field from it.
func (f *Form) Set(raw relief.Value) {
	f.raw = raw
	f.keys = make([]relief.Element, len(f.schema.fields))
	f.fields = make([]relief.Element, len(f.schema.fields))
	f.unknown = nil

	byName := make(map[string]relief.Value, len(f.schema.fields))
	if !raw.IsUnspecified() {
		if kvs, ok := toPairs(raw.Any()); ok {
			declared := make(map[string]struct{}, len(f.schema.fields))
			for _, fd := range f.schema.fields {
				declared[fd.Name] = struct{}{}
			}
			for _, kv := range kvs {
				name, ok := kv.Key.(string)
				if !ok {
					f.unknown = append(f.unknown, fmt.Sprintf("%v", kv.Key))
					continue
				}
				if _, ok := declared[name]; !ok {
					f.unknown = append(f.unknown, name)
					continue
				}
				byName[name] = relief.Of(kv.Value)
			}
			sort.Strings(f.unknown)
		}
	}

	for i, fd := range f.schema.fields {
		f.keys[i] = formKey.New(relief.Of(fd.Name))
		fieldRaw := relief.Unspecified
		if v, ok := byName[fd.Name]; ok {
			fieldRaw = v
		}
		f.fields[i] = fd.Schema.New(fieldRaw)
	}
}

func (f *Form) Value() relief.Value {
	if f.raw.IsUnspecified() {
		return relief.Unspecified
	}
	if !rawIsMapping(f.raw.Any()) {
		return relief.NotUnserializable
	}
	out := orderedmap.New[string, any]()
	for i, fd := range f.schema.fields {
		v := f.fields[i].Value()
		if v.IsNotUnserializable() {
			return relief.NotUnserializable
		}
		if v.IsUnspecified() {
			continue
		}
		out.Set(fd.Name, v.Any())
	}
	return relief.Of(out)
}

// Field returns the element for a declared field name.
func (f *Form) Field(name string) (relief.Element, bool) {
	for i, fd := range f.schema.fields {
		if fd.Name == name {
			return f.fields[i], true
		}
	}
	return nil, false
}

// Fields yields name and element in declared order.
func (f *Form) Fields() iter.Seq2[string, relief.Element] {
	return func(yield func(string, relief.Element) bool) {
		for i, fd := range f.schema.fields {
			if !yield(fd.Name, f.fields[i]) {
				return
			}
		}
	}
}

// Len is the number of declared fields.
func (f *Form) Len() int { return len(f.schema.fields) }

// Unknown lists the input keys no field was declared for, sorted.
func (f *Form) Unknown() []string { return f.unknown }

// Validate recurses into every field, then enforces the unknown-key policy,
// then runs the form's own validators.
func (f *Form) Validate(ctx context.Context) bool {
	ok := true
	for i := range f.fields {
		ok = f.keys[i].Validate(ctx) && ok
		ok = f.fields[i].Validate(ctx) && ok
	}
	if f.schema.unknown == UnknownStrict {
		for _, k := range f.unknown {
			f.AddError(i18n.T("unknown_key", map[string]string{"key": k}))
			ok = false
		}
	}
	ok = relief.RunValidators(ctx, f, f.schema.validators) && ok
	return f.record(ok)
}

// Traverse yields field leaves with the mapping path scheme: the i-th
// declared field has its name leaf at prefix/i/0 and its value leaves at
// prefix/i/1.
func (f *Form) Traverse(prefix relief.Path) iter.Seq[relief.Leaf] {
	return func(yield func(relief.Leaf) bool) {
		for i := range f.fields {
			for l := range f.keys[i].Traverse(prefix.Child(i).Child(0)) {
				if !yield(l) {
					return
				}
			}
			for l := range f.fields[i].Traverse(prefix.Child(i).Child(1)) {
				if !yield(l) {
					return
				}
			}
		}
	}
}

// Nodes implements relief.NodeWalker.
func (f *Form) Nodes(prefix relief.Path) iter.Seq[relief.Leaf] {
	return func(yield func(relief.Leaf) bool) {
		if !yield(relief.Leaf{Path: prefix, Element: f}) {
			return
		}
		for i := range f.fields {
			if !yieldNodes(yield, f.keys[i], prefix.Child(i).Child(0)) {
				return
			}
			if !yieldNodes(yield, f.fields[i], prefix.Child(i).Child(1)) {
				return
			}
		}
	}
}

var (
	_ relief.Element    = (*Form)(nil)
	_ relief.NodeWalker = (*Form)(nil)
)
