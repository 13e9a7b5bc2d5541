package schema_test

import (
	"errors"
	"testing"

	orderedmap "github.com/wk8/go-ordered-map/v2"

	relief "github.com/tonich-sh/relief"
	"github.com/tonich-sh/relief/schema"
	"github.com/tonich-sh/relief/validation"
)

func TestDict_CoercesKeysAndValues(t *testing.T) {
	d := schema.DictOf(schema.String(), schema.Integer()).
		NewDict(relief.Of(map[string]any{"a": "1", "b": 2}))

	if d.Len() != 2 {
		t.Fatalf("expected 2 entries, got %d", d.Len())
	}
	el, ok := d.At("a")
	if !ok {
		t.Fatalf("expected entry for a")
	}
	if n, _ := el.Value().Int(); n != 1 {
		t.Fatalf("expected coerced 1, got %v", el.Value())
	}

	v := d.Value()
	if !v.Usable() {
		t.Fatalf("expected usable value, got %v", v)
	}
	m, ok := v.Any().(map[any]any)
	if !ok {
		t.Fatalf("expected map[any]any, got %T", v.Any())
	}
	if m["a"] != int64(1) || m["b"] != int64(2) {
		t.Fatalf("unexpected projection: %#v", m)
	}
}

func TestDict_UnspecifiedStaysUnspecified(t *testing.T) {
	d := schema.DictOf(schema.String(), schema.Integer()).NewDict(relief.Unspecified)
	if d.Len() != 0 {
		t.Fatalf("expected no entries, got %d", d.Len())
	}
	if !d.Value().IsUnspecified() {
		t.Fatalf("expected unspecified value, got %v", d.Value())
	}
}

func TestDict_NonMappingInput(t *testing.T) {
	d := schema.DictOf(schema.String(), schema.Integer()).NewDict(relief.Of(42))
	if d.Len() != 0 {
		t.Fatalf("expected no entries, got %d", d.Len())
	}
	if !d.Value().IsNotUnserializable() {
		t.Fatalf("expected NotUnserializable, got %v", d.Value())
	}
}

// Pair lists populate entries but the projected value still reports
// NotUnserializable: only mapping-shaped raw input projects.
func TestDict_PairListPopulatesButDoesNotProject(t *testing.T) {
	d := schema.DictOf(schema.String(), schema.Integer()).
		NewDict(relief.Of([]schema.KV{{Key: "a", Value: 1}, {Key: "b", Value: 2}}))

	if d.Len() != 2 {
		t.Fatalf("expected 2 entries, got %d", d.Len())
	}
	if !d.Value().IsNotUnserializable() {
		t.Fatalf("expected NotUnserializable, got %v", d.Value())
	}
}

func TestDict_ValuePoisonedByBadEntry(t *testing.T) {
	d := schema.DictOf(schema.String(), schema.Integer()).
		NewDict(relief.Of(map[string]any{"a": "x", "b": 2}))

	el, _ := d.At("a")
	if !el.Value().IsNotUnserializable() {
		t.Fatalf("expected entry a to fail coercion, got %v", el.Value())
	}
	if !d.Value().IsNotUnserializable() {
		t.Fatalf("expected poisoned projection, got %v", d.Value())
	}
}

// Entries added while the raw value is still Unspecified are reachable via
// At but invisible in Value: the projection is gated on the raw input.
func TestDict_ValueGatedOnRawInput(t *testing.T) {
	d := schema.DictOf(schema.String(), schema.Integer()).NewDict(relief.Unspecified)
	d.Put("a", 1)

	if _, ok := d.At("a"); !ok {
		t.Fatalf("expected entry after Put")
	}
	if !d.Value().IsUnspecified() {
		t.Fatalf("expected unspecified value, got %v", d.Value())
	}
}

func TestDict_TraversePathScheme(t *testing.T) {
	d := schema.DictOf(schema.String(), schema.Integer()).
		NewDict(relief.Of(map[string]any{"a": 1, "b": 2}))

	var paths []string
	for l := range d.Traverse(nil) {
		paths = append(paths, l.Path.Pointer())
	}
	want := []string{"/0/0", "/0/1", "/1/0", "/1/1"}
	if len(paths) != len(want) {
		t.Fatalf("expected %d leaves, got %d (%v)", len(want), len(paths), paths)
	}
	for i := range want {
		if paths[i] != want[i] {
			t.Fatalf("leaf %d: expected %s, got %s", i, want[i], paths[i])
		}
	}
}

func TestDict_GetAndSetDefault(t *testing.T) {
	d := schema.DictOf(schema.String(), schema.Integer()).
		NewDict(relief.Of(map[string]any{"a": 1}))

	// GetDefault coerces the fallback without inserting it.
	el := d.GetDefault("missing", 7)
	if n, _ := el.Value().Int(); n != 7 {
		t.Fatalf("expected coerced fallback 7, got %v", el.Value())
	}
	if d.Contains("missing") {
		t.Fatalf("GetDefault must not insert")
	}

	// Get falls back to nil, which the integer schema refuses.
	if !d.Get("missing").Value().IsNotUnserializable() {
		t.Fatalf("expected NotUnserializable for nil fallback")
	}

	// SetDefault inserts on miss and returns the stored element on hit.
	el = d.SetDefault("missing", 7)
	if n, _ := el.Value().Int(); n != 7 {
		t.Fatalf("expected inserted 7, got %v", el.Value())
	}
	if !d.Contains("missing") {
		t.Fatalf("SetDefault must insert")
	}
	again := d.SetDefault("missing", 99)
	if n, _ := again.Value().Int(); n != 7 {
		t.Fatalf("expected stored value 7, got %v", again.Value())
	}
}

func TestDict_DeleteAndPop(t *testing.T) {
	d := schema.DictOf(schema.String(), schema.Integer()).
		NewDict(relief.Of(map[string]any{"a": 1, "b": 2}))

	if err := d.Delete("a"); err != nil {
		t.Fatalf("unexpected err: %v", err)
	}
	var nf *relief.NotFoundError
	if err := d.Delete("a"); !errors.As(err, &nf) {
		t.Fatalf("expected NotFoundError, got %v", err)
	}

	el, err := d.Pop("b")
	if err != nil {
		t.Fatalf("unexpected err: %v", err)
	}
	if n, _ := el.Value().Int(); n != 2 {
		t.Fatalf("expected popped 2, got %v", el.Value())
	}
	if d.Len() != 0 {
		t.Fatalf("expected empty dict, got %d entries", d.Len())
	}

	if _, err := d.Pop("missing"); !errors.As(err, &nf) {
		t.Fatalf("expected NotFoundError, got %v", err)
	}

	el, err = d.Pop("missing", 7)
	if err != nil {
		t.Fatalf("unexpected err: %v", err)
	}
	if n, _ := el.Value().Int(); n != 7 {
		t.Fatalf("expected coerced fallback 7, got %v", el.Value())
	}

	if _, err := d.Pop("missing", 7, 8); !errors.Is(err, relief.ErrTooManyFallbacks) {
		t.Fatalf("expected ErrTooManyFallbacks, got %v", err)
	}
}

func TestDict_PopItem(t *testing.T) {
	d := schema.DictOf(schema.String(), schema.Integer()).NewDict(relief.Unspecified)

	if _, _, err := d.PopItem(); !errors.Is(err, relief.ErrEmpty) {
		t.Fatalf("expected ErrEmpty, got %v", err)
	}

	d.Put("a", 1)
	d.Put("b", 2)
	k, v, err := d.PopItem()
	if err != nil {
		t.Fatalf("unexpected err: %v", err)
	}
	if s, _ := k.Value().Str(); s != "b" {
		t.Fatalf("expected newest entry b, got %v", k.Value())
	}
	if n, _ := v.Value().Int(); n != 2 {
		t.Fatalf("expected value 2, got %v", v.Value())
	}
}

func TestDict_Update(t *testing.T) {
	d := schema.DictOf(schema.String(), schema.Integer()).NewDict(relief.Unspecified)

	err := d.Update(map[string]any{"a": 1, "b": 2}, schema.KV{Key: "b", Value: 20})
	if err != nil {
		t.Fatalf("unexpected err: %v", err)
	}
	el, _ := d.At("b")
	if n, _ := el.Value().Int(); n != 20 {
		t.Fatalf("expected override to win, got %v", el.Value())
	}

	err = d.Update(map[string]any{}, map[string]any{})
	if !errors.Is(err, relief.ErrTooManySources) {
		t.Fatalf("expected ErrTooManySources, got %v", err)
	}

	err = d.Update(42)
	if !errors.Is(err, relief.ErrUnusableSource) {
		t.Fatalf("expected ErrUnusableSource, got %v", err)
	}
}

func TestDict_UpdateUncomparableOverrideKey(t *testing.T) {
	d := schema.DictOf(schema.String(), schema.Integer()).NewDict(relief.Unspecified)
	if err := d.Update(map[string]any{"a": 1}); err != nil {
		t.Fatalf("unexpected err: %v", err)
	}

	err := d.Update(map[string]any{"b": 2}, schema.KV{Key: []int{1}, Value: 3})
	if !errors.Is(err, relief.ErrUnusableKey) {
		t.Fatalf("expected ErrUnusableKey, got %v", err)
	}
	// The erroring call stored nothing, source included.
	if d.Len() != 1 || !d.Contains("a") || d.Contains("b") {
		t.Fatalf("expected entries untouched, got len %d", d.Len())
	}
}

func TestDict_PutUncomparableKeyPanics(t *testing.T) {
	defer func() {
		if recover() == nil {
			t.Fatalf("expected panic for uncomparable key")
		}
	}()
	d := schema.DictOf(schema.String(), schema.Integer()).NewDict(relief.Unspecified)
	d.Put([]int{1}, 1)
}

func TestDict_UpdateFromMappingElement(t *testing.T) {
	src := schema.DictOf(schema.String(), schema.Integer()).
		NewDict(relief.Of(map[string]any{"a": "1"}))
	dst := schema.DictOf(schema.String(), schema.Float()).NewDict(relief.Unspecified)

	if err := dst.Update(src); err != nil {
		t.Fatalf("unexpected err: %v", err)
	}
	el, ok := dst.At("a")
	if !ok {
		t.Fatalf("expected entry a after update")
	}
	// The raw value flows across, the destination schema re-coerces it.
	if f, _ := el.Value().Float(); f != 1 {
		t.Fatalf("expected re-coerced 1.0, got %v", el.Value())
	}
}

func TestMapping_ValidateAggregatesChildren(t *testing.T) {
	d := schema.DictOf(
		schema.String().Using(&validation.LongerThan{Lowerbound: 2}),
		schema.Integer(),
	).NewDict(relief.Of(map[string]any{"a": 1, "xyz": 2}))

	if d.Validate(nil) {
		t.Fatalf("expected aggregate failure")
	}
	if d.IsValid() != relief.Invalid {
		t.Fatalf("expected Invalid, got %v", d.IsValid())
	}

	iss := relief.CollectIssues(d)
	if len(iss) != 1 {
		t.Fatalf("expected one issue, got %v", iss)
	}
	if iss[0].Path != "/0/0" {
		t.Fatalf("expected issue at /0/0, got %s", iss[0].Path)
	}
	if iss[0].Message != "Must be longer than 2." {
		t.Fatalf("unexpected message: %q", iss[0].Message)
	}
}

func TestMapping_OwnValidatorsRunAfterChildren(t *testing.T) {
	d := schema.DictOf(schema.String(), schema.Integer()).
		Using(&validation.ShorterThan{Upperbound: 2}).
		NewDict(relief.Of(map[string]any{"a": 1, "b": 2}))

	if d.Validate(nil) {
		t.Fatalf("expected own validator to fail on length 2")
	}
	iss := relief.CollectIssues(d)
	if len(iss) != 1 || iss[0].Path != "/" {
		t.Fatalf("expected container issue at /, got %v", iss)
	}
	if iss[0].Message != "Must be shorter than 2." {
		t.Fatalf("unexpected message: %q", iss[0].Message)
	}
}

func TestMapping_RevalidationRecomputes(t *testing.T) {
	s := schema.DictOf(schema.String(), schema.Integer().Using(&validation.GreaterThan{Lowerbound: 0}))
	d := s.NewDict(relief.Of(map[string]any{"a": -1}))

	if d.Validate(nil) {
		t.Fatalf("expected failure for -1")
	}

	d.Set(relief.Of(map[string]any{"a": 5}))
	if !d.Validate(nil) {
		t.Fatalf("expected success after Set")
	}
	if d.IsValid() != relief.Valid {
		t.Fatalf("expected Valid, got %v", d.IsValid())
	}
}

func TestOrderedDict_KeepsInsertionOrder(t *testing.T) {
	d := schema.OrderedDictOf(schema.String(), schema.Integer()).
		NewOrderedDict(relief.Of([]schema.KV{
			{Key: "b", Value: 2},
			{Key: "a", Value: 1},
			{Key: "c", Value: 3},
		}))

	var keys []string
	for k := range d.Keys() {
		s, _ := k.Value().Str()
		keys = append(keys, s)
	}
	want := []string{"b", "a", "c"}
	for i := range want {
		if keys[i] != want[i] {
			t.Fatalf("expected order %v, got %v", want, keys)
		}
	}

	// Overwriting keeps the position.
	d.Put("a", 10)
	keys = keys[:0]
	for k := range d.Keys() {
		s, _ := k.Value().Str()
		keys = append(keys, s)
	}
	for i := range want {
		if keys[i] != want[i] {
			t.Fatalf("expected stable order %v after overwrite, got %v", want, keys)
		}
	}

	// Deleting and re-inserting moves to the end.
	if err := d.Delete("b"); err != nil {
		t.Fatalf("unexpected err: %v", err)
	}
	d.Put("b", 2)
	keys = keys[:0]
	for k := range d.Keys() {
		s, _ := k.Value().Str()
		keys = append(keys, s)
	}
	want = []string{"a", "c", "b"}
	for i := range want {
		if keys[i] != want[i] {
			t.Fatalf("expected order %v after reinsert, got %v", want, keys)
		}
	}
}

func TestOrderedDict_Reversed(t *testing.T) {
	d := schema.OrderedDictOf(schema.String(), schema.Integer()).
		NewOrderedDict(relief.Of([]schema.KV{
			{Key: "a", Value: 1},
			{Key: "b", Value: 2},
		}))

	var keys []string
	for k := range d.Reversed() {
		s, _ := k.Value().Str()
		keys = append(keys, s)
	}
	if len(keys) != 2 || keys[0] != "b" || keys[1] != "a" {
		t.Fatalf("expected b,a got %v", keys)
	}
}

func TestOrderedDict_PopItemEnds(t *testing.T) {
	d := schema.OrderedDictOf(schema.String(), schema.Integer()).
		NewOrderedDict(relief.Of([]schema.KV{
			{Key: "a", Value: 1},
			{Key: "b", Value: 2},
			{Key: "c", Value: 3},
		}))

	k, _, err := d.PopItem()
	if err != nil {
		t.Fatalf("unexpected err: %v", err)
	}
	if s, _ := k.Value().Str(); s != "c" {
		t.Fatalf("expected newest c, got %v", k.Value())
	}

	k, _, err = d.PopItemFirst()
	if err != nil {
		t.Fatalf("unexpected err: %v", err)
	}
	if s, _ := k.Value().Str(); s != "a" {
		t.Fatalf("expected oldest a, got %v", k.Value())
	}

	d.Clear()
	if _, _, err := d.PopItem(); !errors.Is(err, relief.ErrEmpty) {
		t.Fatalf("expected ErrEmpty, got %v", err)
	}
	if _, _, err := d.PopItemFirst(); !errors.Is(err, relief.ErrEmpty) {
		t.Fatalf("expected ErrEmpty, got %v", err)
	}
}

func TestOrderedDict_ValueKeepsOrder(t *testing.T) {
	src := orderedmap.New[any, any]()
	src.Set("b", 2)
	src.Set("a", 1)

	d := schema.OrderedDictOf(schema.String(), schema.Integer()).
		NewOrderedDict(relief.Of(src))

	v := d.Value()
	out, ok := v.Any().(*orderedmap.OrderedMap[any, any])
	if !ok {
		t.Fatalf("expected ordered map projection, got %T", v.Any())
	}
	first := out.Oldest()
	if first == nil || first.Key != "b" || first.Value != int64(2) {
		t.Fatalf("expected b first, got %v", first)
	}
}

func TestMapping_ItemsYieldElements(t *testing.T) {
	d := schema.DictOf(schema.String(), schema.Integer()).
		NewDict(relief.Of(map[string]any{"a": "7"}))

	for k, v := range d.Items() {
		if s, _ := k.Value().Str(); s != "a" {
			t.Fatalf("expected key element a, got %v", k.Value())
		}
		if n, _ := v.Value().Int(); n != 7 {
			t.Fatalf("expected coerced 7, got %v", v.Value())
		}
	}
}

func TestMapping_NestedTraversal(t *testing.T) {
	inner := schema.DictOf(schema.String(), schema.Integer())
	d := schema.DictOf(schema.String(), inner).
		NewDict(relief.Of(map[string]any{
			"outer": map[string]any{"inner": 1},
		}))

	var paths []string
	for l := range d.Traverse(nil) {
		paths = append(paths, l.Path.Pointer())
	}
	// outer key, then the nested dict's key and value leaves.
	want := []string{"/0/0", "/0/1/0/0", "/0/1/0/1"}
	if len(paths) != len(want) {
		t.Fatalf("expected %d leaves, got %v", len(want), paths)
	}
	for i := range want {
		if paths[i] != want[i] {
			t.Fatalf("leaf %d: expected %s, got %s", i, want[i], paths[i])
		}
	}
}
