package typewire

import (
	"errors"
	"net/url"
)

// DecodeQuery decodes URL query parameters against a record node. Every
// incoming value is a string, so string coercion is always on; keys whose
// field expects an array collect all repeated values.
func DecodeQuery(n Node, q url.Values, opt Options) (any, error) {
	ent, ok := tryDeref(n).(*Entity)
	if !ok {
		return nil, errors.New("typewire: query decoding needs a record node")
	}
	opt.CoerceStrings = true
	arrayKeys := map[string]bool{}
	collectArrayKeys(ent, opt, arrayKeys)
	m := make(map[string]any, len(q))
	for k, vs := range q {
		if len(vs) == 0 {
			continue
		}
		if arrayKeys[k] || len(vs) > 1 {
			arr := make([]any, len(vs))
			for i, s := range vs {
				arr[i] = s
			}
			m[k] = arr
			continue
		}
		m[k] = vs[0]
	}
	return Decode(n, m, opt)
}

func collectArrayKeys(t *Entity, opt Options, out map[string]bool) {
	for i := range t.Fields {
		f := &t.Fields[i]
		if f.Flatten == FlattenStruct {
			if inner, ok := tryDeref(f.Type).(*Entity); ok && inner != nil {
				collectArrayKeys(inner, opt, out)
			}
			continue
		}
		switch unwrapOptional(f.Type).(type) {
		case *Array, *Tuple:
			out[f.wireKey(opt)] = true
		}
	}
}

func unwrapOptional(n Node) Node {
	for {
		switch t := n.(type) {
		case *Optional:
			n = t.Inner
		case *Recursion:
			inner, ok := t.tryResolve()
			if !ok {
				return n
			}
			n = inner
		default:
			return n
		}
	}
}
