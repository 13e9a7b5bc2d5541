package schema

import (
	"context"
	"iter"
	"reflect"

	relief "github.com/tonich-sh/relief"
	js "github.com/tonich-sh/relief/jsonschema"
)

// ListSchema builds List elements with one member schema for every item.
type ListSchema struct {
	member     relief.Schema
	validators []relief.Validator
}

func ListOf(member relief.Schema) *ListSchema {
	return &ListSchema{member: member}
}

// Using returns a copy with vs appended.
func (s *ListSchema) Using(vs ...relief.Validator) *ListSchema {
	c := *s
	c.validators = cloneValidators(s.validators, vs)
	return &c
}

// New implements relief.Schema.
func (s *ListSchema) New(raw relief.Value) relief.Element { return s.NewList(raw) }

// NewList is the typed constructor.
func (s *ListSchema) NewList(raw relief.Value) *List {
	e := &List{schema: s}
	e.Set(raw)
	return e
}

func (s *ListSchema) JSONSchema() (*js.Schema, error) {
	return &js.Schema{Type: "array", Items: projectSchema(s.member)}, nil
}

// List coerces sequence-shaped raw input item by item and grows or shrinks
// afterwards through Append, Extend, Insert and PopIndex.
type List struct {
	base
	schema   *ListSchema
	children []relief.Element
}

func (e *List) Set(raw relief.Value) {
	e.raw = raw
	e.children = nil
	if raw.IsUnspecified() {
		return
	}
	items, ok := toItems(raw.Any())
	if !ok {
		return
	}
	e.children = make([]relief.Element, 0, len(items))
	for _, item := range items {
		e.children = append(e.children, e.schema.member.New(relief.Of(item)))
	}
}

func (e *List) Value() relief.Value {
	if e.raw.IsUnspecified() {
		return relief.Unspecified
	}
	if _, ok := toItems(e.raw.Any()); !ok {
		return relief.NotUnserializable
	}
	out := make([]any, 0, len(e.children))
	for _, c := range e.children {
		v := c.Value()
		if v.IsNotUnserializable() {
			return relief.NotUnserializable
		}
		out = append(out, v.Any())
	}
	return relief.Of(out)
}

func (e *List) At(i int) (relief.Element, bool) {
	if i < 0 || i >= len(e.children) {
		return nil, false
	}
	return e.children[i], true
}

func (e *List) Len() int { return len(e.children) }

func (e *List) All() iter.Seq[relief.Element] {
	return func(yield func(relief.Element) bool) {
		for _, c := range e.children {
			if !yield(c) {
				return
			}
		}
	}
}

// Append coerces item through the member schema and adds it at the end.
func (e *List) Append(item any) {
	e.children = append(e.children, e.schema.member.New(relief.Of(item)))
}

// Extend appends every item in order.
func (e *List) Extend(items ...any) {
	for _, item := range items {
		e.Append(item)
	}
}

// Insert adds the coerced item at position i; i is clamped into range.
func (e *List) Insert(i int, item any) {
	if i < 0 {
		i = 0
	}
	if i > len(e.children) {
		i = len(e.children)
	}
	c := e.schema.member.New(relief.Of(item))
	e.children = append(e.children, nil)
	copy(e.children[i+1:], e.children[i:])
	e.children[i] = c
}

// PopIndex removes and returns the element at i.
func (e *List) PopIndex(i int) (relief.Element, error) {
	if i < 0 || i >= len(e.children) {
		return nil, &relief.NotFoundError{Key: i}
	}
	c := e.children[i]
	e.children = append(e.children[:i], e.children[i+1:]...)
	return c, nil
}

func (e *List) Validate(ctx context.Context) bool {
	ok := true
	for _, c := range e.children {
		ok = c.Validate(ctx) && ok
	}
	ok = relief.RunValidators(ctx, e, e.schema.validators) && ok
	return e.record(ok)
}

// Traverse yields the item leaves; the i-th item sits under prefix/i.
func (e *List) Traverse(prefix relief.Path) iter.Seq[relief.Leaf] {
	return func(yield func(relief.Leaf) bool) {
		for i, c := range e.children {
			for l := range c.Traverse(prefix.Child(i)) {
				if !yield(l) {
					return
				}
			}
		}
	}
}

// Nodes implements relief.NodeWalker.
func (e *List) Nodes(prefix relief.Path) iter.Seq[relief.Leaf] {
	return func(yield func(relief.Leaf) bool) {
		if !yield(relief.Leaf{Path: prefix, Element: e}) {
			return
		}
		for i, c := range e.children {
			if !yieldNodes(yield, c, prefix.Child(i)) {
				return
			}
		}
	}
}

// TupleSchema builds Tuple elements with one schema per position.
type TupleSchema struct {
	members    []relief.Schema
	validators []relief.Validator
}

func TupleOf(members ...relief.Schema) *TupleSchema {
	return &TupleSchema{members: members}
}

// Using returns a copy with vs appended.
func (s *TupleSchema) Using(vs ...relief.Validator) *TupleSchema {
	c := *s
	c.validators = cloneValidators(s.validators, vs)
	return &c
}

// New implements relief.Schema.
func (s *TupleSchema) New(raw relief.Value) relief.Element { return s.NewTuple(raw) }

// NewTuple is the typed constructor.
func (s *TupleSchema) NewTuple(raw relief.Value) *Tuple {
	e := &Tuple{schema: s}
	e.Set(raw)
	return e
}

func (s *TupleSchema) JSONSchema() (*js.Schema, error) {
	items := make([]*js.Schema, 0, len(s.members))
	for _, m := range s.members {
		items = append(items, projectSchema(m))
	}
	n := len(s.members)
	return &js.Schema{Type: "array", PrefixItems: items, MinItems: &n, MaxItems: &n}, nil
}

// Tuple has a fixed arity. Sequence input of any other length keeps the
// children empty and Value reports NotUnserializable.
type Tuple struct {
	base
	schema   *TupleSchema
	children []relief.Element
}

func (e *Tuple) Set(raw relief.Value) {
	e.raw = raw
	e.children = nil
	if raw.IsUnspecified() {
		return
	}
	items, ok := toItems(raw.Any())
	if !ok || len(items) != len(e.schema.members) {
		return
	}
	e.children = make([]relief.Element, 0, len(items))
	for i, item := range items {
		e.children = append(e.children, e.schema.members[i].New(relief.Of(item)))
	}
}

func (e *Tuple) Value() relief.Value {
	if e.raw.IsUnspecified() {
		return relief.Unspecified
	}
	if _, ok := toItems(e.raw.Any()); !ok {
		return relief.NotUnserializable
	}
	if len(e.children) != len(e.schema.members) {
		return relief.NotUnserializable
	}
	out := make([]any, 0, len(e.children))
	for _, c := range e.children {
		v := c.Value()
		if v.IsNotUnserializable() {
			return relief.NotUnserializable
		}
		out = append(out, v.Any())
	}
	return relief.Of(out)
}

func (e *Tuple) At(i int) (relief.Element, bool) {
	if i < 0 || i >= len(e.children) {
		return nil, false
	}
	return e.children[i], true
}

func (e *Tuple) Len() int { return len(e.children) }

func (e *Tuple) All() iter.Seq[relief.Element] {
	return func(yield func(relief.Element) bool) {
		for _, c := range e.children {
			if !yield(c) {
				return
			}
		}
	}
}

func (e *Tuple) Validate(ctx context.Context) bool {
	ok := true
	for _, c := range e.children {
		ok = c.Validate(ctx) && ok
	}
	ok = relief.RunValidators(ctx, e, e.schema.validators) && ok
	return e.record(ok)
}

func (e *Tuple) Traverse(prefix relief.Path) iter.Seq[relief.Leaf] {
	return func(yield func(relief.Leaf) bool) {
		for i, c := range e.children {
			for l := range c.Traverse(prefix.Child(i)) {
				if !yield(l) {
					return
				}
			}
		}
	}
}

// Nodes implements relief.NodeWalker.
func (e *Tuple) Nodes(prefix relief.Path) iter.Seq[relief.Leaf] {
	return func(yield func(relief.Leaf) bool) {
		if !yield(relief.Leaf{Path: prefix, Element: e}) {
			return
		}
		for i, c := range e.children {
			if !yieldNodes(yield, c, prefix.Child(i)) {
				return
			}
		}
	}
}

// toItems interprets raw as a sequence. Strings and byte slices are scalar
// input here, never sequences of their parts.
func toItems(raw any) ([]any, bool) {
	switch v := raw.(type) {
	case []any:
		return v, true
	case []byte, string, nil:
		return nil, false
	}
	rv := reflect.ValueOf(raw)
	if k := rv.Kind(); k != reflect.Slice && k != reflect.Array {
		return nil, false
	}
	out := make([]any, 0, rv.Len())
	for i := 0; i < rv.Len(); i++ {
		out = append(out, rv.Index(i).Interface())
	}
	return out, true
}

func projectSchema(s relief.Schema) *js.Schema {
	if p, ok := s.(js.Projector); ok {
		if out, err := p.JSONSchema(); err == nil {
			return out
		}
	}
	return &js.Schema{}
}

var (
	_ relief.Element    = (*List)(nil)
	_ relief.Element    = (*Tuple)(nil)
	_ relief.NodeWalker = (*List)(nil)
	_ relief.NodeWalker = (*Tuple)(nil)
)
