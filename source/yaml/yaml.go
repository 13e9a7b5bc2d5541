// Package yaml decodes YAML documents into raw input for schemas. Mappings
// come back as ordered maps so OrderedDict elements see keys in document
// order. Anchors and aliases are resolved while walking the node tree.
package yaml

import (
	"bytes"
	"errors"
	"fmt"
	"io"
	"reflect"

	orderedmap "github.com/wk8/go-ordered-map/v2"
	yamlv3 "gopkg.in/yaml.v3"
)

// maxAliasDepth bounds alias expansion so a self-referential document
// cannot recurse forever.
const maxAliasDepth = 1000

// Decode reads the first document from b.
func Decode(b []byte) (any, error) {
	return DecodeReader(bytes.NewReader(b))
}

// DecodeReader reads the first document from r.
func DecodeReader(r io.Reader) (any, error) {
	var node yamlv3.Node
	if err := yamlv3.NewDecoder(r).Decode(&node); err != nil {
		if errors.Is(err, io.EOF) {
			return nil, nil
		}
		return nil, err
	}
	w := &walker{}
	return w.value(&node)
}

// DecodeAll reads every document from b, in order.
func DecodeAll(b []byte) ([]any, error) {
	dec := yamlv3.NewDecoder(bytes.NewReader(b))
	var docs []any
	for {
		var node yamlv3.Node
		if err := dec.Decode(&node); err != nil {
			if errors.Is(err, io.EOF) {
				return docs, nil
			}
			return nil, err
		}
		w := &walker{}
		v, err := w.value(&node)
		if err != nil {
			return nil, err
		}
		docs = append(docs, v)
	}
}

type walker struct {
	aliasDepth int
}

func (w *walker) value(n *yamlv3.Node) (any, error) {
	switch n.Kind {
	case yamlv3.DocumentNode:
		if len(n.Content) == 0 {
			return nil, nil
		}
		return w.value(n.Content[0])
	case yamlv3.MappingNode:
		out := orderedmap.New[any, any]()
		for i := 0; i+1 < len(n.Content); i += 2 {
			k, err := w.value(n.Content[i])
			if err != nil {
				return nil, err
			}
			if k != nil && !reflect.TypeOf(k).Comparable() {
				return nil, fmt.Errorf("yaml: unsupported mapping key at line %d", n.Content[i].Line)
			}
			v, err := w.value(n.Content[i+1])
			if err != nil {
				return nil, err
			}
			out.Set(k, v)
		}
		return out, nil
	case yamlv3.SequenceNode:
		out := make([]any, 0, len(n.Content))
		for _, c := range n.Content {
			v, err := w.value(c)
			if err != nil {
				return nil, err
			}
			out = append(out, v)
		}
		return out, nil
	case yamlv3.ScalarNode:
		var v any
		if err := n.Decode(&v); err != nil {
			return nil, err
		}
		return v, nil
	case yamlv3.AliasNode:
		w.aliasDepth++
		if w.aliasDepth > maxAliasDepth {
			return nil, fmt.Errorf("yaml: alias expansion too deep at line %d", n.Line)
		}
		v, err := w.value(n.Alias)
		w.aliasDepth--
		return v, err
	}
	return nil, fmt.Errorf("yaml: unsupported node kind %d at line %d", n.Kind, n.Line)
}
