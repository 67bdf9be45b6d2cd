package typewire_test

import (
	"testing"
	"time"

	"cloud.google.com/go/civil"
	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	typewire "github.com/typewire/typewire"
)

func TestEncodeTypedScalars(t *testing.T) {
	id := uuid.MustParse("4b1a7b3e-18b0-4b6e-9a34-3f0c0b2a8f11")
	cases := []struct {
		name string
		node typewire.Node
		in   any
		want any
	}{
		{"uuid", &typewire.UUID{}, id, id.String()},
		{"decimal", &typewire.Decimal{}, decimal.RequireFromString("1.50"), "1.5"},
		{"date", &typewire.Date{}, civil.Date{Year: 2023, Month: 4, Day: 5}, "2023-04-05"},
		{"datetime", &typewire.DateTime{}, time.Date(2023, 4, 5, 6, 7, 8, 0, time.UTC), "2023-04-05T06:07:08Z"},
		{"int", &typewire.Integer{}, int64(9), int64(9)},
		{"bytes", &typewire.Bytes{}, []byte("raw"), []byte("raw")},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			got, err := typewire.Encode(tc.node, tc.in, typewire.Options{})
			require.NoError(t, err)
			assert.Equal(t, tc.want, got)
		})
	}
}

func TestEncodeIgnoresConstraints(t *testing.T) {
	// dump never validates bounds
	node := &typewire.Integer{Min: typewire.Ptr(int64(10))}
	got, err := typewire.Encode(node, int64(3), typewire.Options{})
	require.NoError(t, err)
	assert.Equal(t, int64(3), got)
}

func TestEncodeShapeError(t *testing.T) {
	user := typewire.MustEntity("User", []typewire.Field{
		{Name: "age", Type: &typewire.Integer{}, Required: true},
	})
	_, err := typewire.Encode(user, map[string]any{"age": "old"}, typewire.Options{})
	require.Error(t, err)
	assert.Contains(t, err.Error(), "age")
}

func TestEncodeOmitNone(t *testing.T) {
	node := typewire.MustEntity("Profile", []typewire.Field{
		{Name: "id", Type: &typewire.Integer{}, Required: true},
		{Name: "nick", Type: &typewire.Optional{Inner: &typewire.String{}}},
		{Name: "bio", Type: &typewire.Optional{Inner: &typewire.String{}}, Required: true},
	})
	in := map[string]any{"id": int64(1), "nick": nil, "bio": nil}

	got, err := typewire.Encode(node, in, typewire.Options{OmitNone: true})
	require.NoError(t, err)
	// a required null always survives; only the optional one drops
	assert.Equal(t, map[string]any{"id": int64(1), "bio": nil}, got)

	got, err = typewire.Encode(node, in, typewire.Options{})
	require.NoError(t, err)
	assert.Equal(t, map[string]any{"id": int64(1), "nick": nil, "bio": nil}, got)
}

func TestEncodeCamelCaseKeys(t *testing.T) {
	user := typewire.MustEntity("User", []typewire.Field{
		{Name: "user_id", Type: &typewire.Integer{}, Required: true},
	})
	got, err := typewire.Encode(user, map[string]any{"user_id": int64(7)}, typewire.Options{Case: typewire.CaseCamel})
	require.NoError(t, err)
	assert.Equal(t, map[string]any{"userId": int64(7)}, got)
}

func TestEncodeStructFlattenInlines(t *testing.T) {
	addr := typewire.MustEntity("Address", []typewire.Field{
		{Name: "city", Type: &typewire.String{}, Required: true},
	})
	user := typewire.MustEntity("User", []typewire.Field{
		{Name: "name", Type: &typewire.String{}, Required: true},
		{Name: "address", Type: addr, Required: true, Flatten: typewire.FlattenStruct},
	})
	got, err := typewire.Encode(user, map[string]any{
		"name":    "ann",
		"address": map[string]any{"city": "oslo"},
	}, typewire.Options{})
	require.NoError(t, err)
	assert.Equal(t, map[string]any{"name": "ann", "city": "oslo"}, got)
}

func TestEncodeDictFlattenSplats(t *testing.T) {
	node := typewire.MustEntity("Labels", []typewire.Field{
		{Name: "name", Type: &typewire.String{}, Required: true},
		{
			Name:    "extra",
			Type:    &typewire.Dictionary{Key: &typewire.String{}, Value: &typewire.String{}},
			Flatten: typewire.FlattenDict,
		},
	})
	got, err := typewire.Encode(node, map[string]any{
		"name":  "n",
		"extra": map[string]any{"env": "prod"},
	}, typewire.Options{})
	require.NoError(t, err)
	assert.Equal(t, map[string]any{"name": "n", "env": "prod"}, got)
}

func TestEncodeDictFlattenOmitNone(t *testing.T) {
	node := typewire.MustEntity("Labels", []typewire.Field{
		{Name: "name", Type: &typewire.String{}, Required: true},
		{
			Name: "extra",
			Type: &typewire.Dictionary{
				Key:      &typewire.String{},
				Value:    &typewire.Optional{Inner: &typewire.String{}},
				OmitNone: true,
			},
			Flatten: typewire.FlattenDict,
		},
	})
	got, err := typewire.Encode(node, map[string]any{
		"name":  "n",
		"extra": map[string]any{"keep": "v", "drop": nil},
	}, typewire.Options{})
	require.NoError(t, err)
	// flattened entries drop nulls exactly like the nested dictionary would
	assert.Equal(t, map[string]any{"name": "n", "keep": "v"}, got)
}

func TestEncodeAbsentFlattenFields(t *testing.T) {
	details := typewire.MustEntity("Details", []typewire.Field{
		{Name: "city", Type: &typewire.String{}},
	})
	node := typewire.MustEntity("User", []typewire.Field{
		{Name: "name", Type: &typewire.String{}, Required: true},
		{Name: "details", Type: details, Flatten: typewire.FlattenStruct},
		{
			Name:    "extra",
			Type:    &typewire.Dictionary{Key: &typewire.String{}, Value: &typewire.Any{}},
			Flatten: typewire.FlattenDict,
		},
	})
	// hand-built typed values need not synthesize the flatten fields
	got, err := typewire.Encode(node, map[string]any{"name": "n"}, typewire.Options{})
	require.NoError(t, err)
	assert.Equal(t, map[string]any{"name": "n"}, got)

	// a required struct-flatten field still has to be there
	strict := typewire.MustEntity("User", []typewire.Field{
		{Name: "details", Type: details, Required: true, Flatten: typewire.FlattenStruct},
	})
	_, err = typewire.Encode(strict, map[string]any{}, typewire.Options{})
	require.Error(t, err)
	assert.Contains(t, err.Error(), "details")
}

func TestEncodeDiscriminatedInjectsTag(t *testing.T) {
	cat := typewire.MustEntity("Cat", []typewire.Field{
		{Name: "pet_kind", Type: typewire.NewLiteral("cat"), Required: true, IsDiscriminator: true},
		{Name: "lives", Type: &typewire.Integer{}, Required: true},
	})
	pet, err := typewire.NewDiscriminated("pet_kind", map[string]typewire.Node{"cat": cat})
	require.NoError(t, err)

	got, err := typewire.Encode(pet, map[string]any{"pet_kind": "cat", "lives": int64(9)}, typewire.Options{Case: typewire.CaseCamel})
	require.NoError(t, err)
	assert.Equal(t, map[string]any{"petKind": "cat", "lives": int64(9)}, got)
}

func TestEncodeDecodeRoundTrip(t *testing.T) {
	order := typewire.MustEntity("Order", []typewire.Field{
		{Name: "order_id", Type: &typewire.UUID{}, Required: true},
		{Name: "total", Type: &typewire.Decimal{}, Required: true},
		{Name: "items", Type: &typewire.Array{Item: &typewire.String{}}, Required: true},
		{Name: "note", Type: &typewire.Optional{Inner: &typewire.String{}}},
	})
	opt := typewire.Options{Case: typewire.CaseCamel}
	wire := map[string]any{
		"orderId": "4b1a7b3e-18b0-4b6e-9a34-3f0c0b2a8f11",
		"total":   "12.34",
		"items":   []any{"a", "b"},
		"note":    "hi",
	}
	typed, err := typewire.Decode(order, wire, opt)
	require.NoError(t, err)
	back, err := typewire.Encode(order, typed, opt)
	require.NoError(t, err)
	assert.Equal(t, wire, back)
}

func TestEncodeOverride(t *testing.T) {
	node := &typewire.String{}
	node.Override = &typewire.Override{
		Dump: func(v any) (any, error) { return "***", nil },
	}
	got, err := typewire.Encode(node, "secret", typewire.Options{})
	require.NoError(t, err)
	assert.Equal(t, "***", got)
}
