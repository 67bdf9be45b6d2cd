package typewire

import (
	"fmt"
	"time"

	"cloud.google.com/go/civil"
	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// Encode transforms a typed value into its wire form. Unlike Decode it runs
// no constraint validation; it fails only when the input does not have the
// shape the node describes, or when a custom codec or override rejects it.
func Encode(n Node, v any, opt Options) (any, error) {
	e := &encoder{opt: opt}
	return e.encode(n, v, rootPath)
}

type encoder struct {
	opt Options
}

func (e *encoder) encode(n Node, v any, path *instancePath) (any, error) {
	// hook errors propagate as-is; a failing dump hook is a caller defect,
	// not a schema condition
	if b := n.base(); b.Override != nil && b.Override.Dump != nil {
		return b.Override.Dump(v)
	}

	switch t := n.(type) {
	case *Integer:
		i, ok := asInt64(v)
		if !ok {
			return nil, encodeShapeErr(path, "integer", v)
		}
		return i, nil
	case *Float:
		f, ok := asFloat64(v)
		if !ok {
			return nil, encodeShapeErr(path, "number", v)
		}
		return f, nil
	case *Decimal:
		return e.encodeDecimal(v, path)
	case *String:
		s, ok := v.(string)
		if !ok {
			return nil, encodeShapeErr(path, "string", v)
		}
		return s, nil
	case *Boolean:
		b, ok := v.(bool)
		if !ok {
			return nil, encodeShapeErr(path, "boolean", v)
		}
		return b, nil
	case *UUID:
		switch x := v.(type) {
		case uuid.UUID:
			return x.String(), nil
		case string:
			return x, nil
		}
		return nil, encodeShapeErr(path, "uuid", v)
	case *Date:
		switch x := v.(type) {
		case civil.Date:
			return x.String(), nil
		case string:
			return x, nil
		}
		return nil, encodeShapeErr(path, "date", v)
	case *Time:
		switch x := v.(type) {
		case civil.Time:
			return x.String(), nil
		case string:
			return x, nil
		}
		return nil, encodeShapeErr(path, "time", v)
	case *DateTime:
		switch x := v.(type) {
		case time.Time:
			return x.Format(time.RFC3339Nano), nil
		case string:
			return x, nil
		}
		return nil, encodeShapeErr(path, "datetime", v)
	case *Bytes:
		b, ok := v.([]byte)
		if !ok {
			return nil, encodeShapeErr(path, "bytes", v)
		}
		return b, nil
	case *Any:
		return v, nil
	case *Optional:
		if v == nil {
			return nil, nil
		}
		return e.encode(t.Inner, v, path)
	case *Array:
		arr, ok := v.([]any)
		if !ok {
			return nil, encodeShapeErr(path, "array", v)
		}
		out := make([]any, len(arr))
		for i, item := range arr {
			ev, err := e.encode(t.Item, item, path.Index(i))
			if err != nil {
				return nil, err
			}
			out[i] = ev
		}
		return out, nil
	case *Tuple:
		arr, ok := v.([]any)
		if !ok {
			return nil, encodeShapeErr(path, "array", v)
		}
		if len(arr) != len(t.Items) {
			return nil, encodeErr(path, fmt.Sprintf("tuple needs %d items, got %d", len(t.Items), len(arr)))
		}
		out := make([]any, len(arr))
		for i, item := range arr {
			ev, err := e.encode(t.Items[i], item, path.Index(i))
			if err != nil {
				return nil, err
			}
			out[i] = ev
		}
		return out, nil
	case *Dictionary:
		m, ok := v.(map[string]any)
		if !ok {
			return nil, encodeShapeErr(path, "object", v)
		}
		out := make(map[string]any, len(m))
		for _, k := range sortedKeys(m) {
			if (t.OmitNone || e.opt.OmitNone) && m[k] == nil {
				continue
			}
			ev, err := e.encode(t.Value, m[k], path.Key(k))
			if err != nil {
				return nil, err
			}
			out[k] = ev
		}
		return out, nil
	case *Enum:
		return normalizeScalar(v), nil
	case *Literal:
		return normalizeScalar(v), nil
	case *Entity:
		m, ok := v.(map[string]any)
		if !ok {
			return nil, encodeShapeErr(path, "object", v)
		}
		out := make(map[string]any, len(t.Fields))
		if err := e.encodeEntity(t, m, path, out); err != nil {
			return nil, err
		}
		return out, nil
	case *Union:
		var lastErr error
		for _, member := range t.Members {
			ev, err := e.encode(member, v, path)
			if err == nil {
				return ev, nil
			}
			lastErr = err
		}
		if lastErr == nil {
			return nil, encodeErr(path, "union has no members")
		}
		return nil, lastErr
	case *Discriminated:
		return e.encodeDiscriminated(t, v, path)
	case *Recursion:
		return e.encode(t.Resolve(), v, path)
	case *Custom:
		return t.Codec.Dump(v)
	default:
		panic(fmt.Sprintf("typewire: unknown node type %T", n))
	}
}

func (e *encoder) encodeDecimal(v any, path *instancePath) (any, error) {
	switch x := v.(type) {
	case decimal.Decimal:
		return x.String(), nil
	case string:
		return x, nil
	case float64:
		return decimal.NewFromFloat(x).String(), nil
	case int:
		return decimal.NewFromInt(int64(x)).String(), nil
	case int64:
		return decimal.NewFromInt(x).String(), nil
	}
	return nil, encodeShapeErr(path, "decimal", v)
}

// encodeEntity writes t's fields into out, which struct-flatten shares with
// the enclosing record's wire map.
func (e *encoder) encodeEntity(t *Entity, m map[string]any, path *instancePath, out map[string]any) error {
	omitNone := t.OmitNone || e.opt.OmitNone
	for i := range t.Fields {
		f := &t.Fields[i]
		v, present := m[f.Name]
		switch f.Flatten {
		case FlattenStruct:
			if !present || v == nil {
				if f.Required {
					return encodeErr(path, fmt.Sprintf("missing field %q", f.Name))
				}
				continue
			}
			inner := deref(f.Type).(*Entity)
			im, ok := v.(map[string]any)
			if !ok {
				return encodeShapeErr(path.Key(f.Name), "object", v)
			}
			if err := e.encodeEntity(inner, im, path, out); err != nil {
				return err
			}
			continue
		case FlattenDict:
			// an absent collector field dumps as no extra keys at all
			if !present || v == nil {
				continue
			}
			dict := deref(f.Type).(*Dictionary)
			dm, ok := v.(map[string]any)
			if !ok {
				return encodeShapeErr(path.Key(f.Name), "object", v)
			}
			for _, k := range sortedKeys(dm) {
				if (dict.OmitNone || e.opt.OmitNone) && dm[k] == nil {
					continue
				}
				ev, err := e.encode(dict.Value, dm[k], path.Key(k))
				if err != nil {
					return err
				}
				out[k] = ev
			}
			continue
		}
		if !present {
			if f.Required {
				return encodeErr(path, fmt.Sprintf("missing field %q", f.Name))
			}
			continue
		}
		// omit-none never drops a required field
		if v == nil && !f.Required && omitNone {
			continue
		}
		key := f.wireKey(e.opt)
		ev, err := e.encode(f.Type, v, path.Key(key))
		if err != nil {
			return err
		}
		out[key] = ev
	}
	return nil
}

// encodeDiscriminated encodes the member the tag selects, then writes the
// tag back at the discriminator's wire key.
func (e *encoder) encodeDiscriminated(t *Discriminated, v any, path *instancePath) (any, error) {
	m, ok := v.(map[string]any)
	if !ok {
		return nil, encodeShapeErr(path, "object", v)
	}
	raw, exists := m[t.FieldName]
	if !exists {
		return nil, encodeErr(path, fmt.Sprintf("missing discriminator field %q", t.FieldName))
	}
	tag, ok := raw.(string)
	if !ok {
		return nil, encodeShapeErr(path.Key(t.FieldName), "string", raw)
	}
	member, ok := t.Mapping[tag]
	if !ok {
		return nil, encodeErr(path.Key(t.FieldName), fmt.Sprintf("unknown discriminator value %q", tag))
	}
	ev, err := e.encode(member, v, path)
	if err != nil {
		return nil, err
	}
	out, ok := ev.(map[string]any)
	if !ok {
		return nil, encodeErr(path, fmt.Sprintf("discriminated member %q did not encode to an object", tag))
	}
	out[t.wireKey(e.opt)] = tag
	return out, nil
}

func encodeErr(path *instancePath, msg string) error {
	p := path.String()
	if p == "" {
		return fmt.Errorf("typewire: encode: %s", msg)
	}
	return fmt.Errorf("typewire: encode %s: %s", p, msg)
}

func encodeShapeErr(path *instancePath, want string, got any) error {
	return encodeErr(path, fmt.Sprintf("cannot encode %T as %s", got, want))
}
