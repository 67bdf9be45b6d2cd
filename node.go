package typewire

import (
	"fmt"
	"sort"

	"github.com/shopspring/decimal"
)

// Override replaces a node's default dump/load behavior entirely. It has no
// effect on schema generation. Validation of the overridden subtree is the
// hook's responsibility.
type Override struct {
	Dump func(v any) (any, error)
	Load func(v any) (any, error)
}

// Base carries the metadata shared by every node variant.
type Base struct {
	Doc      string
	Override *Override
}

func (b *Base) base() *Base { return b }

// Node is one node of the immutable schema graph describing a value's shape
// and policy. The variant set is closed: traversals dispatch on the concrete
// type and treat anything else as a programming error.
//
// Trees are built once, then shared; no traversal mutates a Node.
type Node interface {
	base() *Base
}

// Ptr returns a pointer to v; shorthand for optional bound fields.
func Ptr[T any](v T) *T { return &v }

// ---- scalar variants ----

// Integer decodes from JSON integers; Min/Max are inclusive bounds.
type Integer struct {
	Base
	Min, Max *int64
}

// Float decodes from any JSON number.
type Float struct {
	Base
	Min, Max *float64
}

// Decimal carries exact decimal values; the wire form is a string (or a JSON
// number on load).
type Decimal struct {
	Base
	Min, Max *decimal.Decimal
}

// String bounds are measured in Unicode code points.
type String struct {
	Base
	MinLength, MaxLength *int
}

type Boolean struct{ Base }

// UUID dumps to its canonical string form.
type UUID struct{ Base }

// Date is a civil date, wire form ISO-8601 (YYYY-MM-DD).
type Date struct{ Base }

// Time is a civil time of day, wire form ISO-8601 (HH:MM:SS[.fff]).
type Time struct{ Base }

// DateTime dumps to RFC 3339. Naive (zone-less) timestamps load in
// Options.NaiveLocation.
type DateTime struct{ Base }

// Bytes passes []byte through unchanged in both directions; no base64.
type Bytes struct{ Base }

// Any accepts and emits any wire value verbatim.
type Any struct{ Base }

// ---- container variants ----

// Optional is the nullable wrapper: wire null <-> nil.
type Optional struct {
	Base
	Inner Node
}

type Array struct {
	Base
	Item               Node
	MinItems, MaxItems *int
}

// Tuple is positional with fixed arity.
type Tuple struct {
	Base
	Items []Node
}

// Dictionary keys must decode to strings on the wire. Entries whose dumped
// value is null are dropped when OmitNone is set.
type Dictionary struct {
	Base
	Key, Value Node
	OmitNone   bool
}

// Enum is a closed value set tied to a named host enum.
type Enum struct {
	Base
	Name   string
	Values []any
}

// NewEnum builds an Enum node. Values are compared by equality on load.
func NewEnum(name string, values ...any) *Enum {
	return &Enum{Name: name, Values: values}
}

// Literal is a closed set of allowed scalar values.
type Literal struct {
	Base
	Values []any
}

func NewLiteral(values ...any) *Literal { return &Literal{Values: values} }

// ---- record variants ----

// FlattenMode marks how a field participates in its parent's wire key space.
type FlattenMode int

const (
	// FlattenNone nests the field under its own wire key.
	FlattenNone FlattenMode = iota
	// FlattenStruct inlines a nested Entity's fields into the parent map.
	FlattenStruct
	// FlattenDict collects all unrecognized wire keys into this field.
	FlattenDict
)

// Field describes one named member of an Entity.
type Field struct {
	Name string // logical name
	Key  string // wire key alias; empty means derived from Name via Options.Case
	Type Node

	Required        bool
	IsDiscriminator bool

	// Default is applied on load when the wire key is missing. HasDefault
	// distinguishes an explicit nil default from no default at all.
	Default        any
	HasDefault     bool
	DefaultFactory func() any

	Flatten FlattenMode
	Doc     string
}

func (f *Field) hasFallback() bool { return f.HasDefault || f.DefaultFactory != nil }

// wireKey returns the field's effective key under the given case format.
func (f *Field) wireKey(opt Options) string {
	if f.Key != "" {
		return f.Key
	}
	return applyCase(opt.Case, f.Name)
}

// Entity is a structured type with named fields, covering both class-like and
// dict-like records. Field order defines load and schema order. Construct via
// NewEntity so the flatten and wire-key invariants are checked once.
type Entity struct {
	Base
	Name     string
	Fields   []Field
	OmitNone bool
	Frozen   bool

	// index+1 of the dict-flatten field; 0 means none.
	dictFlatten int
}

// DictFlattenField returns the index of the dict-flatten field, or -1.
func (e *Entity) DictFlattenField() int { return e.dictFlatten - 1 }

// NewEntity validates construction-time invariants: at most one dict-flatten
// field, flatten markings only on flattenable types, and no wire-key
// collisions (including keys inlined via struct-flatten) under either case
// format.
func NewEntity(name string, fields []Field) (*Entity, error) {
	e := &Entity{Name: name, Fields: fields}
	for i := range fields {
		f := &fields[i]
		switch f.Flatten {
		case FlattenNone:
		case FlattenStruct:
			switch f.Type.(type) {
			case *Entity, *Recursion:
			default:
				return nil, fmt.Errorf("typewire: entity %q: field %q: only record fields may be struct-flattened", name, f.Name)
			}
		case FlattenDict:
			if _, ok := f.Type.(*Dictionary); !ok {
				return nil, fmt.Errorf("typewire: entity %q: field %q: only dictionary fields may be dict-flattened", name, f.Name)
			}
			if e.dictFlatten != 0 {
				return nil, fmt.Errorf("typewire: entity %q: more than one dict-flatten field", name)
			}
			e.dictFlatten = i + 1
		}
	}
	for _, c := range []CaseFormat{CaseNone, CaseCamel} {
		if err := checkKeyCollisions(e, Options{Case: c}); err != nil {
			return nil, err
		}
	}
	return e, nil
}

// MustEntity is NewEntity panicking on invariant violations.
func MustEntity(name string, fields []Field) *Entity {
	e, err := NewEntity(name, fields)
	if err != nil {
		panic(err)
	}
	return e
}

func checkKeyCollisions(e *Entity, opt Options) error {
	seen := map[string]string{}
	return collectWireKeys(e, opt, seen)
}

// collectWireKeys walks struct-flatten fields so inlined keys count against
// the parent's key space. Unresolved recursion holders are skipped here; the
// same check reruns when the holder's target entity is itself constructed.
func collectWireKeys(e *Entity, opt Options, seen map[string]string) error {
	for i := range e.Fields {
		f := &e.Fields[i]
		switch f.Flatten {
		case FlattenStruct:
			inner, ok := tryDeref(f.Type).(*Entity)
			if !ok {
				continue
			}
			if err := collectWireKeys(inner, opt, seen); err != nil {
				return err
			}
		case FlattenDict:
			// open key space, nothing to reserve
		default:
			k := f.wireKey(opt)
			if prev, dup := seen[k]; dup {
				return fmt.Errorf("typewire: entity %q: fields %q and %q share wire key %q", e.Name, prev, f.Name, k)
			}
			seen[k] = f.Name
		}
	}
	return nil
}

// ---- union variants ----

// Union is untagged: members are tried in declared order on load, and matched
// by the runtime value's shape on dump. Trial decoding costs O(members) per
// attempt; prefer Discriminated for hot paths.
type Union struct {
	Base
	Members []Node
	Label   string
}

// Discriminated dispatches through a tag field in O(1). FieldName is the
// logical discriminator field inside decoded records; Key optionally aliases
// its wire key (otherwise derived like any field key).
type Discriminated struct {
	Base
	FieldName string
	Key       string
	Tags      []string // sorted, for stable error and schema output
	Mapping   map[string]Node
}

// NewDiscriminated builds a tagged union. Every member must be a record type.
func NewDiscriminated(fieldName string, mapping map[string]Node) (*Discriminated, error) {
	if len(mapping) == 0 {
		return nil, fmt.Errorf("typewire: discriminated union on %q has no members", fieldName)
	}
	tags := make([]string, 0, len(mapping))
	for tag, member := range mapping {
		switch member.(type) {
		case *Entity, *Recursion:
		default:
			return nil, fmt.Errorf("typewire: discriminated union member %q is not a record type", tag)
		}
		tags = append(tags, tag)
	}
	sort.Strings(tags)
	return &Discriminated{FieldName: fieldName, Tags: tags, Mapping: mapping}, nil
}

func (d *Discriminated) wireKey(opt Options) string {
	if d.Key != "" {
		return d.Key
	}
	return applyCase(opt.Case, d.FieldName)
}

// ---- escape hatches ----

// CustomCodec is the capability interface behind Custom nodes: a fully opaque
// dump/load pair plus a literal JSON Schema fragment substituted verbatim.
type CustomCodec interface {
	Dump(v any) (any, error)
	Load(v any) (any, error)
	JSONSchema() map[string]any
}

// Custom delegates entirely to a user-supplied codec; every other component
// treats the subtree as opaque.
type Custom struct {
	Base
	Codec CustomCodec
}

// deref resolves through Recursion holders to the concrete node. It must only
// run after tree construction has finished; an unresolved holder panics.
func deref(n Node) Node {
	for {
		r, ok := n.(*Recursion)
		if !ok {
			return n
		}
		n = r.Resolve()
	}
}

// tryDeref is deref for construction time: an unresolved holder yields nil
// instead of panicking, so invariant checks can run mid-construction.
func tryDeref(n Node) Node {
	for {
		r, ok := n.(*Recursion)
		if !ok {
			return n
		}
		target, ok := r.tryResolve()
		if !ok {
			return nil
		}
		n = target
	}
}
