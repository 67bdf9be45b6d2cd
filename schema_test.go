package typewire_test

import (
	"testing"

	"github.com/goccy/go-json"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	typewire "github.com/typewire/typewire"
	"github.com/typewire/typewire/jsonschema"
)

func TestJSONSchemaRootEntity(t *testing.T) {
	user := typewire.MustEntity("User", []typewire.Field{
		{Name: "user_id", Type: &typewire.UUID{}, Required: true},
		{Name: "age", Type: &typewire.Integer{Min: typewire.Ptr(int64(0))}, Required: true},
		{Name: "nick", Type: &typewire.String{}, Default: "anon", HasDefault: true, Required: true},
	})
	doc := typewire.JSONSchema(user, typewire.Options{Case: typewire.CaseCamel})

	assert.Equal(t, jsonschema.Version, doc.SchemaURI)
	assert.Equal(t, "#/$defs/User", doc.Ref)
	def := doc.Defs["User"]
	require.NotNil(t, def)
	assert.Equal(t, "object", def.Type)
	assert.Equal(t, "string", def.Properties["userId"].Type)
	assert.Equal(t, "uuid", def.Properties["userId"].Format)
	assert.Equal(t, float64(0), *def.Properties["age"].Minimum)
	// a field with a default is not required on the wire
	assert.ElementsMatch(t, []string{"userId", "age"}, def.Required)
	assert.Equal(t, "anon", def.Properties["nick"].Default)
}

func TestJSONSchemaSharedEntityDefinedOnce(t *testing.T) {
	addr := typewire.MustEntity("Address", []typewire.Field{
		{Name: "city", Type: &typewire.String{}, Required: true},
	})
	user := typewire.MustEntity("User", []typewire.Field{
		{Name: "home", Type: addr, Required: true},
		{Name: "work", Type: addr, Required: true},
	})
	doc := typewire.JSONSchema(user, typewire.Options{})

	require.Len(t, doc.Defs, 2)
	def := doc.Defs["User"]
	assert.Equal(t, "#/$defs/Address", def.Properties["home"].Ref)
	assert.Equal(t, "#/$defs/Address", def.Properties["work"].Ref)
}

func TestJSONSchemaOptional(t *testing.T) {
	doc := typewire.JSONSchema(&typewire.Optional{Inner: &typewire.Integer{}}, typewire.Options{})
	require.Len(t, doc.AnyOf, 2)
	assert.Equal(t, "null", doc.AnyOf[0].Type)
	assert.Equal(t, "integer", doc.AnyOf[1].Type)
	assert.Empty(t, doc.Defs)
}

func TestJSONSchemaTuple(t *testing.T) {
	node := &typewire.Tuple{Items: []typewire.Node{&typewire.String{}, &typewire.Integer{}}}
	doc := typewire.JSONSchema(node, typewire.Options{})
	assert.Equal(t, "array", doc.Type)
	require.Len(t, doc.PrefixItems, 2)
	assert.Equal(t, 2, *doc.MinItems)
	assert.Equal(t, 2, *doc.MaxItems)
}

func TestJSONSchemaDecimal(t *testing.T) {
	doc := typewire.JSONSchema(&typewire.Decimal{}, typewire.Options{})
	require.Len(t, doc.OneOf, 2)
	assert.Equal(t, "string", doc.OneOf[0].Type)
	assert.Equal(t, "number", doc.OneOf[1].Type)
}

func TestJSONSchemaEnumAndLiteral(t *testing.T) {
	doc := typewire.JSONSchema(typewire.NewEnum("Color", "red", "green"), typewire.Options{})
	assert.Equal(t, []any{"red", "green"}, doc.Enum)

	doc = typewire.JSONSchema(typewire.NewLiteral("cat"), typewire.Options{})
	require.NotNil(t, doc.Const)
	assert.Equal(t, "cat", *doc.Const)
}

func TestJSONSchemaDiscriminated(t *testing.T) {
	cat := typewire.MustEntity("Cat", []typewire.Field{
		{Name: "kind", Type: typewire.NewLiteral("cat"), Required: true, IsDiscriminator: true},
	})
	dog := typewire.MustEntity("Dog", []typewire.Field{
		{Name: "kind", Type: typewire.NewLiteral("dog"), Required: true, IsDiscriminator: true},
	})
	pet, err := typewire.NewDiscriminated("kind", map[string]typewire.Node{"cat": cat, "dog": dog})
	require.NoError(t, err)

	doc := typewire.JSONSchema(pet, typewire.Options{})
	require.Len(t, doc.OneOf, 2)
	// tags sort, so cat comes first
	member := doc.OneOf[0]
	require.Len(t, member.AllOf, 2)
	assert.Equal(t, "#/$defs/Cat", member.AllOf[0].Ref)
	pin := member.AllOf[1]
	require.NotNil(t, pin.Properties["kind"].Const)
	assert.Equal(t, "cat", *pin.Properties["kind"].Const)
	assert.Equal(t, []string{"kind"}, pin.Required)
}

func TestJSONSchemaRecursiveTerminates(t *testing.T) {
	r := typewire.NewResolver()
	hole := r.Begin("Tree")
	tree := typewire.MustEntity("Tree", []typewire.Field{
		{Name: "value", Type: &typewire.Integer{}, Required: true},
		{Name: "left", Type: &typewire.Optional{Inner: hole}},
	})
	r.Finish("Tree", tree)

	doc := typewire.JSONSchema(tree, typewire.Options{})
	def := doc.Defs["Tree"]
	require.NotNil(t, def)
	left := def.Properties["left"]
	require.Len(t, left.AnyOf, 2)
	assert.Equal(t, "#/$defs/Tree", left.AnyOf[1].Ref)
}

func TestJSONSchemaFlatten(t *testing.T) {
	addr := typewire.MustEntity("Address", []typewire.Field{
		{Name: "city", Type: &typewire.String{}, Required: true},
	})
	user := typewire.MustEntity("User", []typewire.Field{
		{Name: "name", Type: &typewire.String{}, Required: true},
		{Name: "address", Type: addr, Required: true, Flatten: typewire.FlattenStruct},
		{
			Name:    "extra",
			Type:    &typewire.Dictionary{Key: &typewire.String{}, Value: &typewire.String{}},
			Flatten: typewire.FlattenDict,
		},
	})
	doc := typewire.JSONSchema(user, typewire.Options{})
	def := doc.Defs["User"]
	// flattened record properties live beside the parent's own
	assert.Contains(t, def.Properties, "city")
	assert.NotContains(t, def.Properties, "address")
	assert.Equal(t, true, def.AdditionalProperties)
}

type fragmentCodec struct{}

func (fragmentCodec) Dump(v any) (any, error) { return v, nil }
func (fragmentCodec) Load(v any) (any, error) { return v, nil }
func (fragmentCodec) JSONSchema() map[string]any {
	return map[string]any{"type": "string", "format": "duration"}
}

func TestJSONSchemaCustomFragment(t *testing.T) {
	doc := typewire.JSONSchema(&typewire.Custom{Codec: fragmentCodec{}}, typewire.Options{})
	b, err := json.Marshal(doc)
	require.NoError(t, err)
	assert.Contains(t, string(b), `"format":"duration"`)
	assert.Contains(t, string(b), `"type":"string"`)
}
