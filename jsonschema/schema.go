// Package jsonschema holds the plain JSON Schema representation the schema
// generator emits. It is a serialization surface, not a validator.
package jsonschema

import (
	"github.com/goccy/go-json"
)

// Version is the dialect every generated document declares.
const Version = "https://json-schema.org/draft/2020-12/schema"

// Schema is a JSON Schema fragment. Optional numeric keywords are pointers
// so zero is distinguishable from absent.
type Schema struct {
	// Core
	Ref         string `json:"$ref,omitempty"`
	Type        string `json:"type,omitempty"`
	Format      string `json:"format,omitempty"`
	Description string `json:"description,omitempty"`
	Default     any    `json:"default,omitempty"`

	// Closed value sets
	Const *any  `json:"const,omitempty"`
	Enum  []any `json:"enum,omitempty"`

	// Object
	Properties           map[string]*Schema `json:"properties,omitempty"`
	Required             []string           `json:"required,omitempty"`
	AdditionalProperties any                `json:"additionalProperties,omitempty"`

	// Array
	Items       *Schema   `json:"items,omitempty"`
	PrefixItems []*Schema `json:"prefixItems,omitempty"`
	MinItems    *int      `json:"minItems,omitempty"`
	MaxItems    *int      `json:"maxItems,omitempty"`

	// String
	MinLength *int `json:"minLength,omitempty"`
	MaxLength *int `json:"maxLength,omitempty"`

	// Number
	Minimum *float64 `json:"minimum,omitempty"`
	Maximum *float64 `json:"maximum,omitempty"`

	// Composition
	AnyOf []*Schema `json:"anyOf,omitempty"`
	OneOf []*Schema `json:"oneOf,omitempty"`
	AllOf []*Schema `json:"allOf,omitempty"`

	// Extra carries keywords the struct does not model, emitted verbatim.
	// Custom codecs use it to contribute whole fragments.
	Extra map[string]any `json:"-"`
}

// Document is a generated schema root: the dialect declaration, the root
// fragment, and the definitions the root refers into.
type Document struct {
	SchemaURI string `json:"$schema,omitempty"`
	Schema
	Defs map[string]*Schema `json:"$defs,omitempty"`
}

// MarshalJSON merges Extra keywords into the struct's own output. Struct
// fields win on collision.
func (s *Schema) MarshalJSON() ([]byte, error) {
	type plain Schema
	b, err := json.Marshal((*plain)(s))
	if err != nil {
		return nil, err
	}
	if len(s.Extra) == 0 {
		return b, nil
	}
	var merged map[string]any
	if err := json.Unmarshal(b, &merged); err != nil {
		return nil, err
	}
	for k, v := range s.Extra {
		if _, taken := merged[k]; !taken {
			merged[k] = v
		}
	}
	return json.Marshal(merged)
}

// MarshalJSON flattens the root fragment and adds the $schema and $defs
// keywords beside it. Without this the embedded Schema's marshaller would be
// promoted and the two document keywords lost.
func (d *Document) MarshalJSON() ([]byte, error) {
	b, err := d.Schema.MarshalJSON()
	if err != nil {
		return nil, err
	}
	var merged map[string]any
	if err := json.Unmarshal(b, &merged); err != nil {
		return nil, err
	}
	if d.SchemaURI != "" {
		merged["$schema"] = d.SchemaURI
	}
	if len(d.Defs) > 0 {
		merged["$defs"] = d.Defs
	}
	return json.Marshal(merged)
}

// ConstOf wraps a value for the Const field, which is a pointer so that a
// null const survives omitempty.
func ConstOf(v any) *any {
	return &v
}
