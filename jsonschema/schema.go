package jsonschema

import "errors"

// Schema is a minimal JSON Schema representation used for export.
// Keep this struct small for MVP and extend incrementally.
type Schema struct {
	// Core
	Type    string `json:"type,omitempty"`
	Format  string `json:"format,omitempty"`
	Default any    `json:"default,omitempty"`

	// Object
	Properties           map[string]*Schema `json:"properties,omitempty"`
	Required             []string           `json:"required,omitempty"`
	AdditionalProperties any                `json:"additionalProperties,omitempty"`

	// Array
	Items       *Schema   `json:"items,omitempty"`
	PrefixItems []*Schema `json:"prefixItems,omitempty"`
	MinItems    *int      `json:"minItems,omitempty"`
	MaxItems    *int      `json:"maxItems,omitempty"`

	// Union
	OneOf []*Schema `json:"oneOf,omitempty"`
}

// Projector is implemented by schemas that can describe themselves.
type Projector interface {
	JSONSchema() (*Schema, error)
}

// ErrNoProjection reports a schema with no JSON Schema rendering.
var ErrNoProjection = errors.New("jsonschema: schema does not project")

// FromSchema projects any schema value that implements Projector.
func FromSchema(s any) (*Schema, error) {
	if p, ok := s.(Projector); ok {
		return p.JSONSchema()
	}
	return nil, ErrNoProjection
}
