package typewire

import (
	"strings"
	"time"
)

// CaseFormat selects the transform applied to a field's logical name when no
// explicit wire-key alias is set.
type CaseFormat int

const (
	CaseNone CaseFormat = iota
	// CaseCamel maps foo_field to fooField on the wire.
	CaseCamel
)

// Options bundles the per-call traversal policy. The zero value means: no
// case transform, keep nulls, strict (non-coercing) load, validation on,
// naive timestamps in UTC.
//
// Options travel through each traversal as an explicit value, never ambient
// state, so concurrent calls with different options over one shared tree
// cannot interfere.
type Options struct {
	// Case rewrites derived wire keys for Entity fields and discriminators.
	Case CaseFormat

	// OmitNone drops null-valued optional entries when dumping records and
	// dictionaries, in addition to any per-node omit-none flag.
	OmitNone bool

	// CoerceStrings accepts string-encoded scalars on load ("123" -> 123).
	// Query-string decoding forces this on.
	CoerceStrings bool

	// SkipValidation disables bound/length checks and enum/literal membership
	// on load. Structural shape and required-field checks still apply.
	SkipValidation bool

	// NaiveLocation is the zone applied to zone-less timestamps on load.
	// nil means time.UTC.
	NaiveLocation *time.Location
}

func (o Options) naiveLocation() *time.Location {
	if o.NaiveLocation != nil {
		return o.NaiveLocation
	}
	return time.UTC
}

// toCamelCase rewrites snake_case to camelCase: a non-leading underscore
// followed by a letter collapses into the letter upper-cased, and trailing
// underscores are stripped.
func toCamelCase(s string) string {
	var b strings.Builder
	b.Grow(len(s))
	for i := 0; i < len(s); i++ {
		c := s[i]
		if c == '_' && i > 0 && i+1 < len(s) && isASCIILetter(s[i+1]) {
			i++
			b.WriteByte(s[i] &^ 0x20)
			continue
		}
		b.WriteByte(c)
	}
	return strings.TrimRight(b.String(), "_")
}

func isASCIILetter(c byte) bool {
	return (c >= 'a' && c <= 'z') || (c >= 'A' && c <= 'Z')
}

func applyCase(c CaseFormat, name string) string {
	if c == CaseCamel {
		return toCamelCase(name)
	}
	return name
}
