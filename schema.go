package typewire

import (
	"fmt"

	"github.com/typewire/typewire/jsonschema"
)

// JSONSchema renders a node as a JSON Schema (draft 2020-12) document.
// Every named record becomes a $defs entry referenced by $ref, so a record
// reachable twice is defined once, and recursive records terminate.
func JSONSchema(n Node, opt Options) *jsonschema.Document {
	g := &schemaGen{
		opt:   opt,
		defs:  map[string]*jsonschema.Schema{},
		names: map[*Entity]string{},
	}
	root := g.gen(n)
	doc := &jsonschema.Document{
		SchemaURI: jsonschema.Version,
		Schema:    *root,
	}
	if len(g.defs) > 0 {
		doc.Defs = g.defs
	}
	return doc
}

type schemaGen struct {
	opt   Options
	defs  map[string]*jsonschema.Schema
	names map[*Entity]string
}

func (g *schemaGen) gen(n Node) *jsonschema.Schema {
	s := g.genBare(n)
	if doc := n.base().Doc; doc != "" && s.Ref == "" {
		s.Description = doc
	}
	return s
}

func (g *schemaGen) genBare(n Node) *jsonschema.Schema {
	switch t := n.(type) {
	case *Integer:
		s := &jsonschema.Schema{Type: "integer"}
		if t.Min != nil {
			s.Minimum = Ptr(float64(*t.Min))
		}
		if t.Max != nil {
			s.Maximum = Ptr(float64(*t.Max))
		}
		return s
	case *Float:
		return &jsonschema.Schema{Type: "number", Minimum: t.Min, Maximum: t.Max}
	case *Decimal:
		s := &jsonschema.Schema{
			OneOf: []*jsonschema.Schema{
				{Type: "string"},
				{Type: "number"},
			},
		}
		if t.Min != nil {
			f, _ := t.Min.Float64()
			s.Minimum = Ptr(f)
		}
		if t.Max != nil {
			f, _ := t.Max.Float64()
			s.Maximum = Ptr(f)
		}
		return s
	case *String:
		return &jsonschema.Schema{Type: "string", MinLength: t.MinLength, MaxLength: t.MaxLength}
	case *Boolean:
		return &jsonschema.Schema{Type: "boolean"}
	case *UUID:
		return &jsonschema.Schema{Type: "string", Format: "uuid"}
	case *Date:
		return &jsonschema.Schema{Type: "string", Format: "date"}
	case *Time:
		return &jsonschema.Schema{Type: "string", Format: "time"}
	case *DateTime:
		return &jsonschema.Schema{Type: "string", Format: "date-time"}
	case *Bytes:
		return &jsonschema.Schema{Type: "string", Format: "binary"}
	case *Any:
		return &jsonschema.Schema{}
	case *Optional:
		return &jsonschema.Schema{
			AnyOf: []*jsonschema.Schema{
				{Type: "null"},
				g.gen(t.Inner),
			},
		}
	case *Array:
		return &jsonschema.Schema{
			Type:     "array",
			Items:    g.gen(t.Item),
			MinItems: t.MinItems,
			MaxItems: t.MaxItems,
		}
	case *Tuple:
		items := make([]*jsonschema.Schema, len(t.Items))
		for i, it := range t.Items {
			items[i] = g.gen(it)
		}
		arity := len(items)
		return &jsonschema.Schema{
			Type:        "array",
			PrefixItems: items,
			MinItems:    &arity,
			MaxItems:    &arity,
		}
	case *Dictionary:
		return &jsonschema.Schema{
			Type:                 "object",
			AdditionalProperties: g.gen(t.Value),
		}
	case *Enum:
		return &jsonschema.Schema{Enum: append([]any(nil), t.Values...)}
	case *Literal:
		if len(t.Values) == 1 {
			return &jsonschema.Schema{Const: jsonschema.ConstOf(t.Values[0])}
		}
		return &jsonschema.Schema{Enum: append([]any(nil), t.Values...)}
	case *Entity:
		return g.genEntityRef(t)
	case *Union:
		members := make([]*jsonschema.Schema, len(t.Members))
		for i, m := range t.Members {
			members[i] = g.gen(m)
		}
		return &jsonschema.Schema{AnyOf: members}
	case *Discriminated:
		return g.genDiscriminated(t)
	case *Recursion:
		return g.gen(t.Resolve())
	case *Custom:
		return &jsonschema.Schema{Extra: t.Codec.JSONSchema()}
	default:
		panic(fmt.Sprintf("typewire: unknown node type %T", n))
	}
}

// genEntityRef registers the record under $defs before generating its body,
// so self-references resolve to the name being defined.
func (g *schemaGen) genEntityRef(t *Entity) *jsonschema.Schema {
	if name, ok := g.names[t]; ok {
		return &jsonschema.Schema{Ref: "#/$defs/" + name}
	}
	name := t.Name
	for i := 2; ; i++ {
		if _, taken := g.defs[name]; !taken {
			break
		}
		name = fmt.Sprintf("%s%d", t.Name, i)
	}
	g.names[t] = name
	placeholder := &jsonschema.Schema{}
	g.defs[name] = placeholder
	*placeholder = *g.genEntityBody(t)
	return &jsonschema.Schema{Ref: "#/$defs/" + name}
}

func (g *schemaGen) genEntityBody(t *Entity) *jsonschema.Schema {
	s := &jsonschema.Schema{
		Type:       "object",
		Properties: map[string]*jsonschema.Schema{},
	}
	if t.Doc != "" {
		s.Description = t.Doc
	}
	g.genEntityFields(t, s)
	return s
}

// genEntityFields writes t's properties into s. Struct-flatten fields
// contribute their record's properties to the same schema the way the wire
// form inlines their keys.
func (g *schemaGen) genEntityFields(t *Entity, s *jsonschema.Schema) {
	for i := range t.Fields {
		f := &t.Fields[i]
		switch f.Flatten {
		case FlattenStruct:
			g.genEntityFields(deref(f.Type).(*Entity), s)
			continue
		case FlattenDict:
			s.AdditionalProperties = true
			continue
		}
		key := f.wireKey(g.opt)
		fs := g.gen(f.Type)
		if f.Doc != "" && fs.Ref == "" {
			fs.Description = f.Doc
		}
		if f.HasDefault {
			fs.Default = f.Default
		}
		s.Properties[key] = fs
		if f.Required && !f.hasFallback() {
			s.Required = append(s.Required, key)
		}
	}
}

// genDiscriminated emits oneOf with the discriminator const-pinned per
// member. Members are always $refs, so the pin rides an allOf wrapper.
func (g *schemaGen) genDiscriminated(t *Discriminated) *jsonschema.Schema {
	key := t.wireKey(g.opt)
	members := make([]*jsonschema.Schema, 0, len(t.Tags))
	for _, tag := range t.Tags {
		ref := g.gen(t.Mapping[tag])
		pin := &jsonschema.Schema{
			Type: "object",
			Properties: map[string]*jsonschema.Schema{
				key: {Const: jsonschema.ConstOf(tag)},
			},
			Required: []string{key},
		}
		if ref.Ref != "" {
			members = append(members, &jsonschema.Schema{
				AllOf: []*jsonschema.Schema{ref, pin},
			})
			continue
		}
		members = append(members, ref)
	}
	return &jsonschema.Schema{OneOf: members}
}

