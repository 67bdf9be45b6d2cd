package jsonschema_test

import (
	"testing"

	"github.com/goccy/go-json"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/typewire/typewire/jsonschema"
)

func TestDocumentMarshalKeepsRootKeywords(t *testing.T) {
	doc := &jsonschema.Document{
		SchemaURI: jsonschema.Version,
		Schema:    jsonschema.Schema{Ref: "#/$defs/User"},
		Defs: map[string]*jsonschema.Schema{
			"User": {Type: "object"},
		},
	}
	b, err := json.Marshal(doc)
	require.NoError(t, err)

	var out map[string]any
	require.NoError(t, json.Unmarshal(b, &out))
	assert.Equal(t, jsonschema.Version, out["$schema"])
	assert.Equal(t, "#/$defs/User", out["$ref"])
	defs, ok := out["$defs"].(map[string]any)
	require.True(t, ok)
	assert.Contains(t, defs, "User")
}

func TestSchemaExtraMergesWithoutOverriding(t *testing.T) {
	s := &jsonschema.Schema{
		Type:  "string",
		Extra: map[string]any{"pattern": "^a", "type": "number"},
	}
	b, err := json.Marshal(s)
	require.NoError(t, err)

	var out map[string]any
	require.NoError(t, json.Unmarshal(b, &out))
	assert.Equal(t, "^a", out["pattern"])
	// struct fields win on collision
	assert.Equal(t, "string", out["type"])
}

func TestConstNullSurvives(t *testing.T) {
	s := &jsonschema.Schema{Const: jsonschema.ConstOf(nil)}
	b, err := json.Marshal(s)
	require.NoError(t, err)
	assert.JSONEq(t, `{"const":null}`, string(b))
}

func TestToYAML(t *testing.T) {
	doc := &jsonschema.Document{
		SchemaURI: jsonschema.Version,
		Schema:    jsonschema.Schema{Type: "object"},
	}
	b, err := jsonschema.ToYAML(doc)
	require.NoError(t, err)
	assert.Contains(t, string(b), "$schema:")
	assert.Contains(t, string(b), "type: object")
}
