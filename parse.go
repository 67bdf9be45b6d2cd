package typewire

import (
	"bytes"
	"fmt"

	"github.com/goccy/go-json"
)

// DecodeJSON parses raw JSON and decodes the result against n. Numbers stay
// json.Number until a node claims them, so int64 precision is not rounded
// through float64 on the way in.
func DecodeJSON(n Node, data []byte, opt Options) (any, error) {
	dec := json.NewDecoder(bytes.NewReader(data))
	dec.UseNumber()
	var v any
	if err := dec.Decode(&v); err != nil {
		return nil, fmt.Errorf("typewire: invalid JSON: %w", err)
	}
	return Decode(n, v, opt)
}

// EncodeJSON encodes v against n and marshals the wire form.
func EncodeJSON(n Node, v any, opt Options) ([]byte, error) {
	wire, err := Encode(n, v, opt)
	if err != nil {
		return nil, err
	}
	return json.Marshal(wire)
}
