package typewire

import (
	"net/url"

	"github.com/typewire/typewire/jsonschema"
)

// Serializer binds a node tree to a fixed Options and exposes the three
// engines behind one handle. It is safe for concurrent use.
type Serializer struct {
	node Node
	opt  Options
}

// NewSerializer builds a serializer for n. The zero Options keeps wire keys
// verbatim and validates on load.
func NewSerializer(n Node, opt Options) *Serializer {
	return &Serializer{node: n, opt: opt}
}

// Node returns the bound node tree.
func (s *Serializer) Node() Node { return s.node }

// Dump encodes a typed value into its wire form.
func (s *Serializer) Dump(v any) (any, error) {
	return Encode(s.node, v, s.opt)
}

// Load decodes and validates a wire value.
func (s *Serializer) Load(v any) (any, error) {
	return Decode(s.node, v, s.opt)
}

// LoadLax decodes without constraint validation. Shape checks still apply:
// a value that cannot be transformed at all is still an error.
func (s *Serializer) LoadLax(v any) (any, error) {
	opt := s.opt
	opt.SkipValidation = true
	return Decode(s.node, v, opt)
}

// LoadQuery decodes URL query parameters. See DecodeQuery.
func (s *Serializer) LoadQuery(q url.Values) (any, error) {
	return DecodeQuery(s.node, q, s.opt)
}

// DumpJSON encodes a typed value and marshals the wire form as JSON.
func (s *Serializer) DumpJSON(v any) ([]byte, error) {
	return EncodeJSON(s.node, v, s.opt)
}

// LoadJSON parses JSON and decodes the result.
func (s *Serializer) LoadJSON(data []byte) (any, error) {
	return DecodeJSON(s.node, data, s.opt)
}

// JSONSchema renders the bound node as a JSON Schema document.
func (s *Serializer) JSONSchema() *jsonschema.Document {
	return JSONSchema(s.node, s.opt)
}
