package jsonschema

import (
	"github.com/goccy/go-json"
	"gopkg.in/yaml.v3"
)

// ToYAML renders a document as YAML, for OpenAPI-adjacent tooling that
// prefers it over JSON. The document is routed through its JSON form first
// so the keyword names and Extra merging stay identical across both formats.
func ToYAML(d *Document) ([]byte, error) {
	b, err := json.Marshal(d)
	if err != nil {
		return nil, err
	}
	var tree map[string]any
	if err := json.Unmarshal(b, &tree); err != nil {
		return nil, err
	}
	return yaml.Marshal(tree)
}
