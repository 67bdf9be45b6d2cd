package codec_test

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	typewire "github.com/typewire/typewire"
	"github.com/typewire/typewire/codec"
)

func TestDurationRoundTrip(t *testing.T) {
	node := codec.Duration()

	typed, err := typewire.Decode(node, "1h30m", typewire.Options{})
	require.NoError(t, err)
	assert.Equal(t, 90*time.Minute, typed)

	wire, err := typewire.Encode(node, typed, typewire.Options{})
	require.NoError(t, err)
	assert.Equal(t, "1h30m0s", wire)
}

func TestDurationLoadErrors(t *testing.T) {
	node := codec.Duration()

	_, err := typewire.Decode(node, "soon", typewire.Options{})
	require.Error(t, err)
	iss, ok := typewire.AsIssues(err)
	require.True(t, ok)
	assert.Equal(t, typewire.CodeCustom, iss[0].Code)

	_, err = typewire.Decode(node, 5, typewire.Options{})
	assert.Error(t, err)
}

func TestDurationSchemaFragment(t *testing.T) {
	doc := typewire.JSONSchema(codec.Duration(), typewire.Options{})
	assert.Equal(t, "duration", doc.Extra["format"])
}
