package typewire_test

import (
	"fmt"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	typewire "github.com/typewire/typewire"
)

func TestIssuesErrorSummary(t *testing.T) {
	iss := typewire.Issues{
		{Path: "age", Code: typewire.CodeTooSmall, Message: "-1 is less than the minimum of 0"},
		{Path: "", Code: typewire.CodeRequired, Message: `"name" is a required property`},
	}
	assert.Equal(t,
		`too_small at age: -1 is less than the minimum of 0; required: "name" is a required property`,
		iss.Error())
}

func TestIssuesErrorTruncates(t *testing.T) {
	var iss typewire.Issues
	for i := 0; i < 5; i++ {
		iss = typewire.AppendIssues(iss, typewire.Issue{
			Path:    fmt.Sprintf("f%d", i),
			Code:    typewire.CodeInvalidType,
			Message: "bad",
		})
	}
	assert.Contains(t, iss.Error(), "... (total 5)")
}

func TestAsIssues(t *testing.T) {
	_, err := typewire.Decode(&typewire.Integer{}, "x", typewire.Options{})
	require.Error(t, err)

	iss, ok := typewire.AsIssues(err)
	assert.True(t, ok)
	assert.Len(t, iss, 1)

	_, ok = typewire.AsIssues(fmt.Errorf("plain"))
	assert.False(t, ok)

	_, ok = typewire.AsIssues(nil)
	assert.False(t, ok)
}
