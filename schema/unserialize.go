package schema

import (
	"fmt"
	"reflect"
	"sort"

	orderedmap "github.com/wk8/go-ordered-map/v2"
)

// toPairs interprets raw as an ordered list of key/value entries. Accepted
// shapes: Go maps of any key and value type, the ordered map types, another
// Mapping element (its raw keys and values are re-coerced through the
// receiver's schemas), []KV, [][2]any, and []any whose items are pairs.
// Unordered Go maps are sorted by a type-qualified rendering of the key so
// entry order is deterministic. The second result is false when raw is not
// mapping-shaped or a key cannot be used as a map key.
func toPairs(raw any) ([]KV, bool) {
	switch src := raw.(type) {
	case map[string]any:
		keys := make([]string, 0, len(src))
		for k := range src {
			keys = append(keys, k)
		}
		sort.Strings(keys)
		out := make([]KV, 0, len(keys))
		for _, k := range keys {
			out = append(out, KV{Key: k, Value: src[k]})
		}
		return out, true
	case map[any]any:
		return sortedAnyPairs(src), true
	case *orderedmap.OrderedMap[any, any]:
		out := make([]KV, 0, src.Len())
		for e := src.Oldest(); e != nil; e = e.Next() {
			out = append(out, KV{Key: e.Key, Value: e.Value})
		}
		return out, true
	case *orderedmap.OrderedMap[string, any]:
		out := make([]KV, 0, src.Len())
		for e := src.Oldest(); e != nil; e = e.Next() {
			out = append(out, KV{Key: e.Key, Value: e.Value})
		}
		return out, true
	case Mapping:
		var out []KV
		for k, v := range src.Items() {
			out = append(out, KV{Key: k.Raw().Any(), Value: v.Raw().Any()})
		}
		return out, true
	case []KV:
		if !usableKeys(src) {
			return nil, false
		}
		out := make([]KV, len(src))
		copy(out, src)
		return out, true
	case [][2]any:
		out := make([]KV, 0, len(src))
		for _, p := range src {
			out = append(out, KV{Key: p[0], Value: p[1]})
		}
		if !usableKeys(out) {
			return nil, false
		}
		return out, true
	case []any:
		out := make([]KV, 0, len(src))
		for _, item := range src {
			kv, ok := pairOf(item)
			if !ok {
				return nil, false
			}
			out = append(out, kv)
		}
		if !usableKeys(out) {
			return nil, false
		}
		return out, true
	case []byte, string, nil:
		return nil, false
	}
	rv := reflect.ValueOf(raw)
	if rv.Kind() == reflect.Map {
		m := make(map[any]any, rv.Len())
		it := rv.MapRange()
		for it.Next() {
			m[it.Key().Interface()] = it.Value().Interface()
		}
		return sortedAnyPairs(m), true
	}
	return nil, false
}

// rawIsMapping is the gate Value uses: only raw input that is itself a
// mapping shape projects to a mapping. Pair lists populate entries through
// Set but keep Value at NotUnserializable.
func rawIsMapping(raw any) bool {
	switch raw.(type) {
	case map[string]any, map[any]any:
		return true
	case *orderedmap.OrderedMap[any, any], *orderedmap.OrderedMap[string, any]:
		return true
	case Mapping:
		return true
	case nil:
		return false
	}
	return reflect.ValueOf(raw).Kind() == reflect.Map
}

func pairOf(item any) (KV, bool) {
	switch p := item.(type) {
	case KV:
		return p, true
	case [2]any:
		return KV{Key: p[0], Value: p[1]}, true
	case []any:
		if len(p) != 2 {
			return KV{}, false
		}
		return KV{Key: p[0], Value: p[1]}, true
	}
	return KV{}, false
}

// usableKey refuses keys that would blow up the backing map.
func usableKey(key any) bool {
	return key == nil || reflect.TypeOf(key).Comparable()
}

func usableKeys(kvs []KV) bool {
	for _, kv := range kvs {
		if !usableKey(kv.Key) {
			return false
		}
	}
	return true
}

func sortedAnyPairs(src map[any]any) []KV {
	type entry struct {
		token string
		key   any
	}
	entries := make([]entry, 0, len(src))
	for k := range src {
		entries = append(entries, entry{token: fmt.Sprintf("%T:%v", k, k), key: k})
	}
	sort.Slice(entries, func(i, j int) bool { return entries[i].token < entries[j].token })
	out := make([]KV, 0, len(entries))
	for _, e := range entries {
		out = append(out, KV{Key: e.key, Value: src[e.key]})
	}
	return out
}
