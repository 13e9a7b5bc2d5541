package schema

import (
	"context"
	"fmt"
	"iter"

	orderedmap "github.com/wk8/go-ordered-map/v2"

	relief "github.com/tonich-sh/relief"
	js "github.com/tonich-sh/relief/jsonschema"
)

// Mapping is the read side shared by the mapping elements. Keys, Values and
// Items yield full elements, not plain values; the raw key passed to the
// keyed operations is the key as it appeared in the input, before coercion.
type Mapping interface {
	relief.Element
	// At returns the value element stored under key.
	At(key any) (relief.Element, bool)
	// Get is GetDefault with a nil fallback.
	Get(key any) relief.Element
	// GetDefault returns the stored value element, or a fresh element
	// coercing fallback when key is absent. The fresh element is not
	// inserted.
	GetDefault(key, fallback any) relief.Element
	Contains(key any) bool
	Len() int
	Keys() iter.Seq[relief.Element]
	Values() iter.Seq[relief.Element]
	Items() iter.Seq2[relief.Element, relief.Element]
}

// MutableMapping adds the write side.
type MutableMapping interface {
	Mapping
	// Put coerces key and value through the member schemas and stores the
	// pair, replacing any entry with an equal raw key in place. The raw key
	// must be comparable; an uncomparable key panics, like any Go map
	// write.
	Put(key, value any)
	// SetDefault returns the stored value element, inserting the coercion
	// of fallback first when key is absent.
	SetDefault(key, fallback any) relief.Element
	// Delete removes the entry. Absent keys are a NotFoundError.
	Delete(key any) error
	// Pop removes and returns the value element. With no fallback an absent
	// key is a NotFoundError; with one fallback the value schema's coercion
	// of it is returned instead. More than one fallback is
	// ErrTooManyFallbacks.
	Pop(key any, fallback ...any) (relief.Element, error)
	// PopItem removes and returns the most recently inserted pair, or
	// ErrEmpty.
	PopItem() (key, value relief.Element, err error)
	// Update applies at most one positional source (anything Set accepts as
	// mapping-shaped input) followed by KV overrides, later entries winning
	// on key collision. A second source is ErrTooManySources; an
	// uncomparable override key is ErrUnusableKey. Arguments are checked
	// before anything is stored, so an error leaves the entries untouched.
	Update(args ...any) error
	Clear()
}

// pair is one stored entry. Both halves are full elements with their own
// raw value, coerced value and error list.
type pair struct {
	key   relief.Element
	value relief.Element
}

// store keeps pairs in insertion order, keyed by raw key. Overwriting an
// existing key keeps its position.
type store struct {
	om *orderedmap.OrderedMap[any, *pair]
}

func newStore() *store {
	return &store{om: orderedmap.New[any, *pair]()}
}

func (s *store) get(key any) (*pair, bool) { return s.om.Get(key) }

func (s *store) put(key any, p *pair) { s.om.Set(key, p) }

func (s *store) delete(key any) (*pair, bool) { return s.om.Delete(key) }

func (s *store) len() int { return s.om.Len() }

func (s *store) clear() { s.om = orderedmap.New[any, *pair]() }

func (s *store) pairs() iter.Seq[*pair] {
	return func(yield func(*pair) bool) {
		for e := s.om.Oldest(); e != nil; e = e.Next() {
			if !yield(e.Value) {
				return
			}
		}
	}
}

func (s *store) reversed() iter.Seq[*pair] {
	return func(yield func(*pair) bool) {
		for e := s.om.Newest(); e != nil; e = e.Prev() {
			if !yield(e.Value) {
				return
			}
		}
	}
}

func (s *store) newest() (any, *pair, bool) {
	e := s.om.Newest()
	if e == nil {
		return nil, nil, false
	}
	return e.Key, e.Value, true
}

func (s *store) oldest() (any, *pair, bool) {
	e := s.om.Oldest()
	if e == nil {
		return nil, nil, false
	}
	return e.Key, e.Value, true
}

// mapping implements everything Dict and OrderedDict share. self points at
// the outer element so validators and node walks see the concrete type.
type mapping struct {
	base
	self        relief.Element
	keySchema   relief.Schema
	valueSchema relief.Schema
	validators  []relief.Validator
	entries     *store
}

func (m *mapping) init(self relief.Element, key, value relief.Schema, vs []relief.Validator) {
	m.self = self
	m.keySchema = key
	m.valueSchema = value
	m.validators = vs
	m.entries = newStore()
}

// Set records raw verbatim and rebuilds the entries from it. Input that is
// not mapping-shaped leaves the entries empty; Value reports the sentinel.
func (m *mapping) Set(raw relief.Value) {
	m.raw = raw
	m.entries.clear()
	if raw.IsUnspecified() {
		return
	}
	kvs, ok := toPairs(raw.Any())
	if !ok {
		return
	}
	for _, kv := range kvs {
		m.Put(kv.Key, kv.Value)
	}
}

func (m *mapping) At(key any) (relief.Element, bool) {
	p, ok := m.entries.get(key)
	if !ok {
		return nil, false
	}
	return p.value, true
}

func (m *mapping) Get(key any) relief.Element { return m.GetDefault(key, nil) }

func (m *mapping) GetDefault(key, fallback any) relief.Element {
	if p, ok := m.entries.get(key); ok {
		return p.value
	}
	return m.valueSchema.New(relief.Of(fallback))
}

func (m *mapping) Contains(key any) bool {
	_, ok := m.entries.get(key)
	return ok
}

func (m *mapping) Len() int { return m.entries.len() }

func (m *mapping) Keys() iter.Seq[relief.Element] {
	return func(yield func(relief.Element) bool) {
		for p := range m.entries.pairs() {
			if !yield(p.key) {
				return
			}
		}
	}
}

func (m *mapping) Values() iter.Seq[relief.Element] {
	return func(yield func(relief.Element) bool) {
		for p := range m.entries.pairs() {
			if !yield(p.value) {
				return
			}
		}
	}
}

func (m *mapping) Items() iter.Seq2[relief.Element, relief.Element] {
	return func(yield func(relief.Element, relief.Element) bool) {
		for p := range m.entries.pairs() {
			if !yield(p.key, p.value) {
				return
			}
		}
	}
}

func (m *mapping) Put(key, value any) {
	if !usableKey(key) {
		panic(fmt.Sprintf("schema: uncomparable mapping key %T", key))
	}
	p := &pair{
		key:   m.keySchema.New(relief.Of(key)),
		value: m.valueSchema.New(relief.Of(value)),
	}
	m.entries.put(key, p)
}

func (m *mapping) SetDefault(key, fallback any) relief.Element {
	if p, ok := m.entries.get(key); ok {
		return p.value
	}
	m.Put(key, fallback)
	p, _ := m.entries.get(key)
	return p.value
}

func (m *mapping) Delete(key any) error {
	if _, ok := m.entries.delete(key); !ok {
		return &relief.NotFoundError{Key: key}
	}
	return nil
}

func (m *mapping) Pop(key any, fallback ...any) (relief.Element, error) {
	if len(fallback) > 1 {
		return nil, relief.ErrTooManyFallbacks
	}
	if p, ok := m.entries.delete(key); ok {
		return p.value, nil
	}
	if len(fallback) == 1 {
		return m.valueSchema.New(relief.Of(fallback[0])), nil
	}
	return nil, &relief.NotFoundError{Key: key}
}

func (m *mapping) PopItem() (relief.Element, relief.Element, error) {
	key, p, ok := m.entries.newest()
	if !ok {
		return nil, nil, relief.ErrEmpty
	}
	m.entries.delete(key)
	return p.key, p.value, nil
}

func (m *mapping) Update(args ...any) error {
	var source []KV
	var overrides []KV
	haveSource := false
	for _, a := range args {
		if kv, ok := a.(KV); ok {
			if !usableKey(kv.Key) {
				return relief.ErrUnusableKey
			}
			overrides = append(overrides, kv)
			continue
		}
		if haveSource {
			return relief.ErrTooManySources
		}
		kvs, ok := toPairs(a)
		if !ok {
			return relief.ErrUnusableSource
		}
		source = kvs
		haveSource = true
	}
	for _, kv := range source {
		m.Put(kv.Key, kv.Value)
	}
	for _, kv := range overrides {
		m.Put(kv.Key, kv.Value)
	}
	return nil
}

func (m *mapping) Clear() { m.entries.clear() }

// Validate recurses into every key and value element before the mapping's
// own validators. Every child runs even after a failure so all messages are
// noted in one pass.
func (m *mapping) Validate(ctx context.Context) bool {
	ok := true
	for p := range m.entries.pairs() {
		ok = p.key.Validate(ctx) && ok
		ok = p.value.Validate(ctx) && ok
	}
	ok = relief.RunValidators(ctx, m.self, m.validators) && ok
	return m.record(ok)
}

// Traverse yields the leaves below the mapping: for the i-th pair the key
// leaves sit under prefix/i/0 and the value leaves under prefix/i/1.
func (m *mapping) Traverse(prefix relief.Path) iter.Seq[relief.Leaf] {
	return func(yield func(relief.Leaf) bool) {
		i := 0
		for p := range m.entries.pairs() {
			for l := range p.key.Traverse(prefix.Child(i).Child(0)) {
				if !yield(l) {
					return
				}
			}
			for l := range p.value.Traverse(prefix.Child(i).Child(1)) {
				if !yield(l) {
					return
				}
			}
			i++
		}
	}
}

// Nodes implements relief.NodeWalker: the mapping itself first, then every
// key and value node, containers included.
func (m *mapping) Nodes(prefix relief.Path) iter.Seq[relief.Leaf] {
	return func(yield func(relief.Leaf) bool) {
		if !yield(relief.Leaf{Path: prefix, Element: m.self}) {
			return
		}
		i := 0
		for p := range m.entries.pairs() {
			if !yieldNodes(yield, p.key, prefix.Child(i).Child(0)) {
				return
			}
			if !yieldNodes(yield, p.value, prefix.Child(i).Child(1)) {
				return
			}
			i++
		}
	}
}

func yieldNodes(yield func(relief.Leaf) bool, el relief.Element, p relief.Path) bool {
	if w, ok := el.(relief.NodeWalker); ok {
		for l := range w.Nodes(p) {
			if !yield(l) {
				return false
			}
		}
		return true
	}
	for l := range el.Traverse(p) {
		if !yield(l) {
			return false
		}
	}
	return true
}

// DictSchema builds Dict elements.
type DictSchema struct {
	key        relief.Schema
	value      relief.Schema
	validators []relief.Validator
}

// DictOf pairs a key schema with a value schema.
func DictOf(key, value relief.Schema) *DictSchema {
	return &DictSchema{key: key, value: value}
}

// Using returns a copy with vs appended.
func (s *DictSchema) Using(vs ...relief.Validator) *DictSchema {
	c := *s
	c.validators = cloneValidators(s.validators, vs)
	return &c
}

// New implements relief.Schema.
func (s *DictSchema) New(raw relief.Value) relief.Element { return s.NewDict(raw) }

// NewDict is the typed constructor.
func (s *DictSchema) NewDict(raw relief.Value) *Dict {
	d := &Dict{}
	d.init(d, s.key, s.value, s.validators)
	d.Set(raw)
	return d
}

// JSONSchema projects to an object whose property values follow the value
// schema. Key coercion has no JSON Schema counterpart and is not projected.
func (s *DictSchema) JSONSchema() (*js.Schema, error) {
	return &js.Schema{Type: "object", AdditionalProperties: projectionOf(s.value)}, nil
}

// Dict makes no ordering promise; iteration happens to be stable for a
// given entry set, but callers must not rely on it. Value projects to a
// plain map.
type Dict struct {
	mapping
}

func (d *Dict) Value() relief.Value {
	if d.raw.IsUnspecified() {
		return relief.Unspecified
	}
	if !rawIsMapping(d.raw.Any()) {
		return relief.NotUnserializable
	}
	out := make(map[any]any, d.entries.len())
	for p := range d.entries.pairs() {
		kv, vv := p.key.Value(), p.value.Value()
		if kv.IsNotUnserializable() || vv.IsNotUnserializable() {
			return relief.NotUnserializable
		}
		out[kv.Any()] = vv.Any()
	}
	return relief.Of(out)
}

// OrderedDictSchema builds OrderedDict elements.
type OrderedDictSchema struct {
	key        relief.Schema
	value      relief.Schema
	validators []relief.Validator
}

// OrderedDictOf pairs a key schema with a value schema.
func OrderedDictOf(key, value relief.Schema) *OrderedDictSchema {
	return &OrderedDictSchema{key: key, value: value}
}

// Using returns a copy with vs appended.
func (s *OrderedDictSchema) Using(vs ...relief.Validator) *OrderedDictSchema {
	c := *s
	c.validators = cloneValidators(s.validators, vs)
	return &c
}

// New implements relief.Schema.
func (s *OrderedDictSchema) New(raw relief.Value) relief.Element { return s.NewOrderedDict(raw) }

// NewOrderedDict is the typed constructor.
func (s *OrderedDictSchema) NewOrderedDict(raw relief.Value) *OrderedDict {
	d := &OrderedDict{}
	d.init(d, s.key, s.value, s.validators)
	d.Set(raw)
	return d
}

// JSONSchema projects like DictSchema; property order is not expressible.
func (s *OrderedDictSchema) JSONSchema() (*js.Schema, error) {
	return &js.Schema{Type: "object", AdditionalProperties: projectionOf(s.value)}, nil
}

// OrderedDict keeps insertion order: iteration, traversal, the projected
// value and reverse iteration all follow it. Overwriting a key keeps its
// position; deletion and re-insertion moves it to the end.
type OrderedDict struct {
	mapping
}

func (d *OrderedDict) Value() relief.Value {
	if d.raw.IsUnspecified() {
		return relief.Unspecified
	}
	if !rawIsMapping(d.raw.Any()) {
		return relief.NotUnserializable
	}
	out := orderedmap.New[any, any]()
	for p := range d.entries.pairs() {
		kv, vv := p.key.Value(), p.value.Value()
		if kv.IsNotUnserializable() || vv.IsNotUnserializable() {
			return relief.NotUnserializable
		}
		out.Set(kv.Any(), vv.Any())
	}
	return relief.Of(out)
}

// Reversed yields the key elements newest first.
func (d *OrderedDict) Reversed() iter.Seq[relief.Element] {
	return func(yield func(relief.Element) bool) {
		for p := range d.entries.reversed() {
			if !yield(p.key) {
				return
			}
		}
	}
}

// PopItemFirst removes and returns the oldest pair, or ErrEmpty. PopItem
// removes the newest.
func (d *OrderedDict) PopItemFirst() (relief.Element, relief.Element, error) {
	key, p, ok := d.entries.oldest()
	if !ok {
		return nil, nil, relief.ErrEmpty
	}
	d.entries.delete(key)
	return p.key, p.value, nil
}

// projectionOf asks a schema to describe itself, falling back to an open
// schema.
func projectionOf(s relief.Schema) any {
	if p, ok := s.(js.Projector); ok {
		if out, err := p.JSONSchema(); err == nil {
			return out
		}
	}
	return true
}

var (
	_ MutableMapping    = (*Dict)(nil)
	_ MutableMapping    = (*OrderedDict)(nil)
	_ relief.NodeWalker = (*Dict)(nil)
	_ relief.NodeWalker = (*OrderedDict)(nil)
)
