package typewire

import (
	"errors"
	"fmt"
	"strings"
)

// Issue codes. Stable strings, matched by consumers.
const (
	CodeInvalidType          = "invalid_type"
	CodeInvalidFormat        = "invalid_format"
	CodeRequired             = "required"
	CodeTooSmall             = "too_small"
	CodeTooBig               = "too_big"
	CodeTooShort             = "too_short"
	CodeTooLong              = "too_long"
	CodeTooFewItems          = "too_few_items"
	CodeTooManyItems         = "too_many_items"
	CodeInvalidEnum          = "invalid_enum"
	CodeDiscriminatorMissing = "discriminator_missing"
	CodeDiscriminatorUnknown = "discriminator_unknown"
	CodeUnionMismatch        = "union_mismatch"
	CodeCoercion             = "coercion_failed"
	CodeCustom               = "custom_error"
)

// Issue represents a single validation failure.
type Issue struct {
	Path    string // Dotted instance path, e.g. "items[2].price"; "" is the root.
	Code    string // One of the codes listed above.
	Message string
	Cause   error // Optional: underlying error.
	// Params carries structured parameters (e.g., {"max": 10, "got": 123})
	// for observability.
	Params map[string]any
}

// Issues is a collection of validation failures that implements error.
type Issues []Issue

// Error summarizes the first few issues.
func (iss Issues) Error() string {
	if len(iss) == 0 {
		return ""
	}
	const maxShown = 3
	b := &strings.Builder{}
	n := len(iss)
	lim := n
	if lim > maxShown {
		lim = maxShown
	}
	for i := 0; i < lim; i++ {
		if i > 0 {
			b.WriteString("; ")
		}
		it := iss[i]
		if it.Path == "" {
			fmt.Fprintf(b, "%s: %s", it.Code, it.Message)
		} else {
			fmt.Fprintf(b, "%s at %s: %s", it.Code, it.Path, it.Message)
		}
	}
	if n > lim {
		fmt.Fprintf(b, "; ... (total %d)", n)
	}
	return b.String()
}

// AppendIssues appends issues to the destination, initializing the slice when
// needed.
func AppendIssues(dst Issues, more ...Issue) Issues {
	if dst == nil {
		dst = Issues{}
	}
	dst = append(dst, more...)
	return dst
}

// AsIssues extracts Issues from an error using errors.As internally.
func AsIssues(err error) (Issues, bool) {
	if err == nil {
		return nil, false
	}
	var iss Issues
	if errors.As(err, &iss) {
		return iss, true
	}
	return nil, false
}
