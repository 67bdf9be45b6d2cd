package typewire

import (
	"fmt"
	"strings"

	"github.com/shopspring/decimal"
)

// fmtValue renders a wire value the way validation messages quote it:
// strings in double quotes, everything else bare.
func fmtValue(v any) string {
	if v == nil {
		return "null"
	}
	if s, ok := v.(string); ok {
		return fmt.Sprintf("%q", s)
	}
	return fmt.Sprintf("%v", v)
}

func invalidType(path *instancePath, want string, got any) Issue {
	return Issue{
		Path:    path.String(),
		Code:    CodeInvalidType,
		Message: fmt.Sprintf(`%s is not of type "%s"`, fmtValue(got), want),
		Params:  map[string]any{"expected": want},
	}
}

// requiredProperty reports a missing key at the parent's path, naming the key.
func requiredProperty(path *instancePath, key string) Issue {
	return Issue{
		Path:    path.String(),
		Code:    CodeRequired,
		Message: fmt.Sprintf("%q is a required property", key),
		Params:  map[string]any{"property": key},
	}
}

func coercionFailed(path *instancePath, want string, got string, cause error) Issue {
	return Issue{
		Path:    path.String(),
		Code:    CodeCoercion,
		Message: fmt.Sprintf("%q cannot be coerced to %s", got, want),
		Cause:   cause,
		Params:  map[string]any{"expected": want},
	}
}

func checkInt64Bounds(v int64, min, max *int64, path *instancePath) Issues {
	var iss Issues
	if min != nil && v < *min {
		iss = AppendIssues(iss, tooSmall(path, v, *min))
	}
	if max != nil && v > *max {
		iss = AppendIssues(iss, tooBig(path, v, *max))
	}
	return iss
}

func checkFloatBounds(v float64, min, max *float64, path *instancePath) Issues {
	var iss Issues
	if min != nil && v < *min {
		iss = AppendIssues(iss, tooSmall(path, v, *min))
	}
	if max != nil && v > *max {
		iss = AppendIssues(iss, tooBig(path, v, *max))
	}
	return iss
}

func checkDecimalBounds(v decimal.Decimal, min, max *decimal.Decimal, path *instancePath) Issues {
	var iss Issues
	if min != nil && v.LessThan(*min) {
		iss = AppendIssues(iss, tooSmall(path, v, *min))
	}
	if max != nil && v.GreaterThan(*max) {
		iss = AppendIssues(iss, tooBig(path, v, *max))
	}
	return iss
}

func tooSmall(path *instancePath, got, min any) Issue {
	return Issue{
		Path:    path.String(),
		Code:    CodeTooSmall,
		Message: fmt.Sprintf("%v is less than the minimum of %v", got, min),
		Params:  map[string]any{"minimum": min, "got": got},
	}
}

func tooBig(path *instancePath, got, max any) Issue {
	return Issue{
		Path:    path.String(),
		Code:    CodeTooBig,
		Message: fmt.Sprintf("%v is greater than the maximum of %v", got, max),
		Params:  map[string]any{"maximum": max, "got": got},
	}
}

// checkLength bounds a string in code points, not bytes.
func checkLength(v string, min, max *int, path *instancePath) Issues {
	if min == nil && max == nil {
		return nil
	}
	n := len([]rune(v))
	var iss Issues
	if min != nil && n < *min {
		iss = AppendIssues(iss, Issue{
			Path:    path.String(),
			Code:    CodeTooShort,
			Message: fmt.Sprintf("%q is shorter than %d characters", v, *min),
			Params:  map[string]any{"minLength": *min, "got": n},
		})
	}
	if max != nil && n > *max {
		iss = AppendIssues(iss, Issue{
			Path:    path.String(),
			Code:    CodeTooLong,
			Message: fmt.Sprintf("%q is longer than %d characters", v, *max),
			Params:  map[string]any{"maxLength": *max, "got": n},
		})
	}
	return iss
}

func checkItems(n int, min, max *int, path *instancePath) Issues {
	var iss Issues
	if min != nil && n < *min {
		iss = AppendIssues(iss, Issue{
			Path:    path.String(),
			Code:    CodeTooFewItems,
			Message: fmt.Sprintf("value has less than %d items", *min),
			Params:  map[string]any{"minItems": *min, "got": n},
		})
	}
	if max != nil && n > *max {
		iss = AppendIssues(iss, Issue{
			Path:    path.String(),
			Code:    CodeTooManyItems,
			Message: fmt.Sprintf("value has more than %d items", *max),
			Params:  map[string]any{"maxItems": *max, "got": n},
		})
	}
	return iss
}

func invalidEnum(path *instancePath, got any, allowed []any) Issue {
	return Issue{
		Path:    path.String(),
		Code:    CodeInvalidEnum,
		Message: fmt.Sprintf("%s is not one of %s", fmtValue(got), fmtAllowed(allowed)),
		Params:  map[string]any{"allowed": allowed, "got": got},
	}
}

func fmtAllowed(allowed []any) string {
	parts := make([]string, len(allowed))
	for i, v := range allowed {
		parts[i] = fmtValue(v)
	}
	return "[" + strings.Join(parts, ", ") + "]"
}

func unknownDiscriminator(path *instancePath, got string, tags []string) Issue {
	parts := make([]string, len(tags))
	for i, t := range tags {
		parts[i] = fmt.Sprintf("%q", t)
	}
	return Issue{
		Path:    path.String(),
		Code:    CodeDiscriminatorUnknown,
		Message: fmt.Sprintf("%q is not one of [%s] discriminator values", got, strings.Join(parts, ", ")),
		Params:  map[string]any{"allowed": tags, "got": got},
	}
}
