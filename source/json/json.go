// Package json decodes JSON documents into raw input for schemas. Objects
// come back as ordered maps so OrderedDict elements see keys in document
// order, and numbers stay json.Number so integer precision survives until a
// schema decides what the value is.
package json

import (
	"bytes"
	"fmt"
	"io"

	gojson "github.com/goccy/go-json"
	orderedmap "github.com/wk8/go-ordered-map/v2"
)

// Decode reads one JSON document from b.
func Decode(b []byte) (any, error) {
	return DecodeReader(bytes.NewReader(b))
}

// DecodeReader reads one JSON document from r. Trailing input after the
// document is an error.
func DecodeReader(r io.Reader) (any, error) {
	dec := gojson.NewDecoder(r)
	dec.UseNumber()
	v, err := decodeValue(dec)
	if err != nil {
		return nil, err
	}
	if _, err := dec.Token(); err != io.EOF {
		return nil, fmt.Errorf("json: trailing data after document")
	}
	return v, nil
}

func decodeValue(dec *gojson.Decoder) (any, error) {
	tok, err := dec.Token()
	if err != nil {
		if err == io.EOF {
			return nil, fmt.Errorf("json: unexpected end of input")
		}
		return nil, err
	}
	d, ok := tok.(gojson.Delim)
	if !ok {
		// string, json.Number, bool or null.
		return tok, nil
	}
	switch d {
	case '{':
		out := orderedmap.New[string, any]()
		for dec.More() {
			kt, err := dec.Token()
			if err != nil {
				return nil, err
			}
			key, ok := kt.(string)
			if !ok {
				return nil, fmt.Errorf("json: object key %v", kt)
			}
			v, err := decodeValue(dec)
			if err != nil {
				return nil, err
			}
			out.Set(key, v)
		}
		if _, err := dec.Token(); err != nil {
			return nil, err
		}
		return out, nil
	case '[':
		out := []any{}
		for dec.More() {
			v, err := decodeValue(dec)
			if err != nil {
				return nil, err
			}
			out = append(out, v)
		}
		if _, err := dec.Token(); err != nil {
			return nil, err
		}
		return out, nil
	}
	return nil, fmt.Errorf("json: unexpected delimiter %v", d)
}
