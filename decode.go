package typewire

import (
	"encoding/json"
	"fmt"
	"math"
	"sort"
	"strconv"
	"strings"
	"time"

	"cloud.google.com/go/civil"
	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// Decode transforms and validates a wire value into a typed value. On
// failure it returns Issues carrying every failure found, each tagged with
// the location of the offending wire sub-structure.
//
// Sibling fields and elements of an aggregate are all attempted before their
// errors merge; a type mismatch only stops validation of its own subtree.
func Decode(n Node, v any, opt Options) (any, error) {
	d := &decoder{opt: opt}
	out, iss := d.decode(n, v, rootPath)
	if len(iss) > 0 {
		return nil, iss
	}
	return out, nil
}

type decoder struct {
	opt Options
}

func (d *decoder) decode(n Node, v any, path *instancePath) (any, Issues) {
	if b := n.base(); b.Override != nil && b.Override.Load != nil {
		out, err := b.Override.Load(v)
		if err != nil {
			return nil, Issues{customIssue(path, err)}
		}
		return out, nil
	}

	switch t := n.(type) {
	case *Integer:
		return d.decodeInteger(t, v, path)
	case *Float:
		return d.decodeFloat(t, v, path)
	case *Decimal:
		return d.decodeDecimal(t, v, path)
	case *String:
		return d.decodeString(t, v, path)
	case *Boolean:
		return d.decodeBoolean(v, path)
	case *UUID:
		return d.decodeUUID(v, path)
	case *Date:
		return d.decodeDate(v, path)
	case *Time:
		return d.decodeTime(v, path)
	case *DateTime:
		return d.decodeDateTime(v, path)
	case *Bytes:
		return d.decodeBytes(v, path)
	case *Any:
		return v, nil
	case *Optional:
		if v == nil {
			return nil, nil
		}
		return d.decode(t.Inner, v, path)
	case *Array:
		return d.decodeArray(t, v, path)
	case *Tuple:
		return d.decodeTuple(t, v, path)
	case *Dictionary:
		return d.decodeDictionary(t, v, path)
	case *Enum:
		return d.decodeMembership(t.Values, v, path)
	case *Literal:
		return d.decodeMembership(t.Values, v, path)
	case *Entity:
		m, ok := v.(map[string]any)
		if !ok {
			return nil, Issues{invalidType(path, "object", v)}
		}
		consumed := map[string]bool{}
		d.reserveWireKeys(t, consumed)
		return d.decodeEntity(t, m, path, consumed)
	case *Union:
		return d.decodeUnion(t, v, path)
	case *Discriminated:
		return d.decodeDiscriminated(t, v, path)
	case *Recursion:
		return d.decode(t.Resolve(), v, path)
	case *Custom:
		out, err := t.Codec.Load(v)
		if err != nil {
			return nil, Issues{customIssue(path, err)}
		}
		return out, nil
	default:
		panic(fmt.Sprintf("typewire: unknown node type %T", n))
	}
}

func customIssue(path *instancePath, err error) Issue {
	return Issue{Path: path.String(), Code: CodeCustom, Message: err.Error(), Cause: err}
}

// ---- scalars ----

func (d *decoder) decodeInteger(t *Integer, v any, path *instancePath) (any, Issues) {
	i, ok := asInt64(v)
	if !ok {
		s, isStr := v.(string)
		if !isStr || !d.opt.CoerceStrings {
			return nil, Issues{invalidType(path, "integer", v)}
		}
		parsed, err := strconv.ParseInt(strings.TrimSpace(s), 10, 64)
		if err != nil {
			return nil, Issues{coercionFailed(path, "integer", s, err)}
		}
		i = parsed
	}
	if !d.opt.SkipValidation {
		if iss := checkInt64Bounds(i, t.Min, t.Max, path); len(iss) > 0 {
			return nil, iss
		}
	}
	return i, nil
}

func (d *decoder) decodeFloat(t *Float, v any, path *instancePath) (any, Issues) {
	f, ok := asFloat64(v)
	if !ok {
		s, isStr := v.(string)
		if !isStr || !d.opt.CoerceStrings {
			return nil, Issues{invalidType(path, "number", v)}
		}
		parsed, err := strconv.ParseFloat(strings.TrimSpace(s), 64)
		if err != nil {
			return nil, Issues{coercionFailed(path, "number", s, err)}
		}
		f = parsed
	}
	if !d.opt.SkipValidation {
		if iss := checkFloatBounds(f, t.Min, t.Max, path); len(iss) > 0 {
			return nil, iss
		}
	}
	return f, nil
}

func (d *decoder) decodeDecimal(t *Decimal, v any, path *instancePath) (any, Issues) {
	var (
		dec decimal.Decimal
		err error
	)
	switch x := v.(type) {
	case decimal.Decimal:
		dec = x
	case string:
		dec, err = decimal.NewFromString(strings.TrimSpace(x))
	case json.Number:
		dec, err = decimal.NewFromString(x.String())
	case float64:
		dec = decimal.NewFromFloat(x)
	case int:
		dec = decimal.NewFromInt(int64(x))
	case int64:
		dec = decimal.NewFromInt(x)
	default:
		return nil, Issues{invalidType(path, "decimal", v)}
	}
	if err != nil {
		return nil, Issues{coercionFailed(path, "decimal", fmt.Sprintf("%v", v), err)}
	}
	if !d.opt.SkipValidation {
		if iss := checkDecimalBounds(dec, t.Min, t.Max, path); len(iss) > 0 {
			return nil, iss
		}
	}
	return dec, nil
}

func (d *decoder) decodeString(t *String, v any, path *instancePath) (any, Issues) {
	s, ok := v.(string)
	if !ok {
		return nil, Issues{invalidType(path, "string", v)}
	}
	if !d.opt.SkipValidation {
		if iss := checkLength(s, t.MinLength, t.MaxLength, path); len(iss) > 0 {
			return nil, iss
		}
	}
	return s, nil
}

func (d *decoder) decodeBoolean(v any, path *instancePath) (any, Issues) {
	if b, ok := v.(bool); ok {
		return b, nil
	}
	if s, ok := v.(string); ok && d.opt.CoerceStrings {
		switch strings.ToLower(strings.TrimSpace(s)) {
		case "true", "1":
			return true, nil
		case "false", "0":
			return false, nil
		}
		return nil, Issues{coercionFailed(path, "boolean", s, nil)}
	}
	return nil, Issues{invalidType(path, "boolean", v)}
}

func (d *decoder) decodeUUID(v any, path *instancePath) (any, Issues) {
	s, ok := v.(string)
	if !ok {
		if u, isUUID := v.(uuid.UUID); isUUID {
			return u, nil
		}
		return nil, Issues{invalidType(path, "uuid", v)}
	}
	u, err := uuid.Parse(s)
	if err != nil {
		return nil, Issues{invalidFormat(path, "uuid", s, err)}
	}
	return u, nil
}

func (d *decoder) decodeDate(v any, path *instancePath) (any, Issues) {
	s, ok := v.(string)
	if !ok {
		if cd, isDate := v.(civil.Date); isDate {
			return cd, nil
		}
		return nil, Issues{invalidType(path, "date", v)}
	}
	cd, err := civil.ParseDate(s)
	if err != nil {
		return nil, Issues{invalidFormat(path, "date", s, err)}
	}
	return cd, nil
}

func (d *decoder) decodeTime(v any, path *instancePath) (any, Issues) {
	s, ok := v.(string)
	if !ok {
		if ct, isTime := v.(civil.Time); isTime {
			return ct, nil
		}
		return nil, Issues{invalidType(path, "time", v)}
	}
	ct, err := civil.ParseTime(s)
	if err != nil {
		// HH:MM shorthand without seconds
		if hm, err2 := time.Parse("15:04", s); err2 == nil {
			return civil.TimeOf(hm), nil
		}
		return nil, Issues{invalidFormat(path, "time", s, err)}
	}
	return ct, nil
}

func (d *decoder) decodeDateTime(v any, path *instancePath) (any, Issues) {
	s, ok := v.(string)
	if !ok {
		if tt, isTime := v.(time.Time); isTime {
			return tt, nil
		}
		return nil, Issues{invalidType(path, "datetime", v)}
	}
	tt, err := parseDateTime(s, d.opt.naiveLocation())
	if err != nil {
		return nil, Issues{invalidFormat(path, "datetime", s, err)}
	}
	return tt, nil
}

var naiveLayouts = []string{
	"2006-01-02T15:04:05.999999999",
	"2006-01-02 15:04:05.999999999",
	"2006-01-02T15:04",
}

func parseDateTime(s string, loc *time.Location) (time.Time, error) {
	t, err := time.Parse(time.RFC3339Nano, s)
	if err == nil {
		return t, nil
	}
	for _, layout := range naiveLayouts {
		if t, err2 := time.ParseInLocation(layout, s, loc); err2 == nil {
			return t, nil
		}
	}
	return time.Time{}, err
}

func (d *decoder) decodeBytes(v any, path *instancePath) (any, Issues) {
	switch x := v.(type) {
	case []byte:
		return x, nil
	case string:
		return []byte(x), nil
	default:
		return nil, Issues{invalidType(path, "bytes", v)}
	}
}

func invalidFormat(path *instancePath, want, got string, cause error) Issue {
	return Issue{
		Path:    path.String(),
		Code:    CodeInvalidFormat,
		Message: fmt.Sprintf("%q is not a valid %s", got, want),
		Cause:   cause,
		Params:  map[string]any{"expected": want},
	}
}

// ---- containers ----

func (d *decoder) decodeArray(t *Array, v any, path *instancePath) (any, Issues) {
	arr, ok := v.([]any)
	if !ok {
		return nil, Issues{invalidType(path, "array", v)}
	}
	var iss Issues
	if !d.opt.SkipValidation {
		iss = AppendIssues(iss, checkItems(len(arr), t.MinItems, t.MaxItems, path)...)
	}
	out := make([]any, len(arr))
	for i, item := range arr {
		dv, i2 := d.decode(t.Item, item, path.Index(i))
		if len(i2) > 0 {
			iss = AppendIssues(iss, i2...)
			continue
		}
		out[i] = dv
	}
	if len(iss) > 0 {
		return nil, iss
	}
	return out, nil
}

func (d *decoder) decodeTuple(t *Tuple, v any, path *instancePath) (any, Issues) {
	arr, ok := v.([]any)
	if !ok {
		return nil, Issues{invalidType(path, "array", v)}
	}
	// arity is structural, enforced even with validation off
	want := len(t.Items)
	if iss := checkItems(len(arr), &want, &want, path); len(iss) > 0 {
		return nil, iss
	}
	var iss Issues
	out := make([]any, len(arr))
	for i, item := range arr {
		dv, i2 := d.decode(t.Items[i], item, path.Index(i))
		if len(i2) > 0 {
			iss = AppendIssues(iss, i2...)
			continue
		}
		out[i] = dv
	}
	if len(iss) > 0 {
		return nil, iss
	}
	return out, nil
}

func (d *decoder) decodeDictionary(t *Dictionary, v any, path *instancePath) (any, Issues) {
	m, ok := v.(map[string]any)
	if !ok {
		return nil, Issues{invalidType(path, "object", v)}
	}
	// wire map keys are strings by definition, so key validation always
	// coerces; a string key against an Integer key node is not a mismatch
	kd := *d
	kd.opt.CoerceStrings = true
	var iss Issues
	out := make(map[string]any, len(m))
	for _, k := range sortedKeys(m) {
		kp := path.Key(k)
		// the key must itself satisfy the key node; the decoded form is
		// discarded and the raw string keeps keying the result
		if _, i2 := kd.decode(t.Key, k, kp); len(i2) > 0 {
			iss = AppendIssues(iss, i2...)
			continue
		}
		dv, i2 := d.decode(t.Value, m[k], kp)
		if len(i2) > 0 {
			iss = AppendIssues(iss, i2...)
			continue
		}
		out[k] = dv
	}
	if len(iss) > 0 {
		return nil, iss
	}
	return out, nil
}

// ---- records ----

// reserveWireKeys marks every named wire key of t's inlined key space as
// spoken for, walking struct-flatten fields the way construction-time
// collision checking does. Dict-flatten collection runs against this set, so
// a named field declared after the flatten point still keeps its key out of
// the collected extras.
func (d *decoder) reserveWireKeys(t *Entity, consumed map[string]bool) {
	for i := range t.Fields {
		f := &t.Fields[i]
		switch f.Flatten {
		case FlattenStruct:
			d.reserveWireKeys(deref(f.Type).(*Entity), consumed)
		case FlattenDict:
		default:
			consumed[f.wireKey(d.opt)] = true
		}
	}
}

// decodeEntity reads t's fields out of m. consumed is shared with
// struct-flatten parents so inlined fields and dict-flatten collection agree
// on which wire keys are spoken for.
func (d *decoder) decodeEntity(t *Entity, m map[string]any, path *instancePath, consumed map[string]bool) (map[string]any, Issues) {
	out := make(map[string]any, len(t.Fields))
	var iss Issues
	for i := range t.Fields {
		f := &t.Fields[i]
		switch f.Flatten {
		case FlattenDict:
			continue // collected after every named field is accounted for
		case FlattenStruct:
			inner := deref(f.Type).(*Entity)
			dv, i2 := d.decodeEntity(inner, m, path, consumed)
			if len(i2) > 0 {
				iss = AppendIssues(iss, i2...)
				continue
			}
			out[f.Name] = dv
			continue
		}
		key := f.wireKey(d.opt)
		raw, exists := m[key]
		if exists {
			dv, i2 := d.decode(f.Type, raw, path.Key(key))
			if len(i2) > 0 {
				iss = AppendIssues(iss, i2...)
				continue
			}
			out[f.Name] = dv
			continue
		}
		// The discriminator is always required on load, regardless of any
		// default the member record declares for it.
		if f.IsDiscriminator {
			iss = AppendIssues(iss, requiredProperty(path, key))
			continue
		}
		if f.HasDefault {
			out[f.Name] = f.Default
			continue
		}
		if f.DefaultFactory != nil {
			out[f.Name] = f.DefaultFactory()
			continue
		}
		if f.Required {
			iss = AppendIssues(iss, requiredProperty(path, key))
		}
	}
	if t.dictFlatten != 0 {
		f := &t.Fields[t.dictFlatten-1]
		dict := deref(f.Type).(*Dictionary)
		extra := map[string]any{}
		for _, k := range sortedKeys(m) {
			if consumed[k] {
				continue
			}
			consumed[k] = true
			dv, i2 := d.decode(dict.Value, m[k], path.Key(k))
			if len(i2) > 0 {
				iss = AppendIssues(iss, i2...)
				continue
			}
			extra[k] = dv
		}
		out[f.Name] = extra
	}
	if len(iss) > 0 {
		return nil, iss
	}
	return out, nil
}

// ---- closed value sets ----

func (d *decoder) decodeMembership(allowed []any, v any, path *instancePath) (any, Issues) {
	nv := normalizeScalar(v)
	for _, a := range allowed {
		if looseEqual(a, nv) {
			return a, nil
		}
	}
	if s, ok := nv.(string); ok && d.opt.CoerceStrings {
		if i, err := strconv.ParseInt(strings.TrimSpace(s), 10, 64); err == nil {
			for _, a := range allowed {
				if looseEqual(a, i) {
					return a, nil
				}
			}
		}
	}
	if d.opt.SkipValidation {
		return nv, nil
	}
	return nil, Issues{invalidEnum(path, v, allowed)}
}

// ---- unions ----

func (d *decoder) decodeUnion(t *Union, v any, path *instancePath) (any, Issues) {
	for _, m := range t.Members {
		if out, i2 := d.decode(m, v, path); len(i2) == 0 {
			return out, nil
		}
	}
	label := t.Label
	if label == "" {
		label = "union"
	}
	return nil, Issues{{
		Path:    path.String(),
		Code:    CodeUnionMismatch,
		Message: fmt.Sprintf("%s does not match any member of %s", fmtValue(v), label),
		Params:  map[string]any{"union": label},
	}}
}

func (d *decoder) decodeDiscriminated(t *Discriminated, v any, path *instancePath) (any, Issues) {
	m, ok := v.(map[string]any)
	if !ok {
		return nil, Issues{invalidType(path, "object", v)}
	}
	key := t.wireKey(d.opt)
	raw, exists := m[key]
	if !exists {
		return nil, Issues{{
			Path:    path.String(),
			Code:    CodeDiscriminatorMissing,
			Message: fmt.Sprintf("%q is a required property", key),
			Params:  map[string]any{"property": key},
		}}
	}
	tag, ok := raw.(string)
	if !ok {
		return nil, Issues{invalidType(path.Key(key), "string", raw)}
	}
	member, ok := t.Mapping[tag]
	if !ok {
		return nil, Issues{unknownDiscriminator(path.Key(key), tag, t.Tags)}
	}
	return d.decode(member, v, path)
}

// ---- wire value helpers ----

func sortedKeys(m map[string]any) []string {
	ks := make([]string, 0, len(m))
	for k := range m {
		ks = append(ks, k)
	}
	sort.Strings(ks)
	return ks
}

func asInt64(v any) (int64, bool) {
	switch x := v.(type) {
	case int:
		return int64(x), true
	case int8:
		return int64(x), true
	case int16:
		return int64(x), true
	case int32:
		return int64(x), true
	case int64:
		return x, true
	case uint:
		return int64(x), true
	case uint8:
		return int64(x), true
	case uint16:
		return int64(x), true
	case uint32:
		return int64(x), true
	case uint64:
		if x > math.MaxInt64 {
			return 0, false
		}
		return int64(x), true
	case float64:
		// int64(x) saturates out of range, so the bounds must be checked
		// before converting. math.MaxInt64 rounds up to 2^63 as a float64,
		// which is the first value that does not fit, hence the strict <.
		if x == math.Trunc(x) && !math.IsInf(x, 0) &&
			x >= math.MinInt64 && x < math.MaxInt64 {
			return int64(x), true
		}
		return 0, false
	case json.Number:
		i, err := x.Int64()
		if err != nil {
			return 0, false
		}
		return i, true
	default:
		return 0, false
	}
}

func asFloat64(v any) (float64, bool) {
	switch x := v.(type) {
	case float64:
		return x, true
	case float32:
		return float64(x), true
	case json.Number:
		f, err := x.Float64()
		if err != nil {
			return 0, false
		}
		return f, true
	default:
		if i, ok := asInt64(v); ok {
			return float64(i), true
		}
		return 0, false
	}
}

// normalizeScalar folds json.Number into int64 (when integral) or float64 so
// closed-set membership compares values, not lexical forms.
func normalizeScalar(v any) any {
	if n, ok := v.(json.Number); ok {
		if i, err := n.Int64(); err == nil {
			return i
		}
		if f, err := n.Float64(); err == nil {
			return f
		}
		return n.String()
	}
	return v
}

// looseEqual compares an allowed closed-set member with a normalized wire
// value across Go's numeric kinds.
func looseEqual(allowed, v any) bool {
	if allowed == v {
		return true
	}
	ai, aok := asInt64(allowed)
	vi, vok := asInt64(v)
	if aok && vok {
		return ai == vi
	}
	af, aok := asFloat64(allowed)
	vf, vok := asFloat64(v)
	if aok && vok {
		return af == vf
	}
	return false
}
