// Package typewire converts between structured in-memory records and
// wire-friendly dynamic values (the JSON data model), validating on the way
// in and generating JSON Schema (Draft 2020-12) from the same type graph.
//
// The package is built around an immutable tree of Node values describing a
// value's shape and policy. Three independent traversals walk that tree:
//
//   - Encode (dump): typed value -> wire value, total over well-typed input
//   - Decode (load): wire value -> typed value, accumulating Issues with
//     location paths instead of stopping at the first failure
//   - JSONSchema: tree -> Draft 2020-12 document with $defs deduplication
//
// Design policy:
//   - Node trees are constructed once (self-referential types close their
//     cycles through a Resolver) and are never mutated by a traversal, so any
//     number of concurrent Encode/Decode/JSONSchema calls may share one tree.
//   - Per-call behavior (key casing, omit-none, coercion, validation toggle)
//     is threaded through an explicit Options value, never ambient state.
//
// Typical usage:
//
//	user := typewire.MustEntity("User", []typewire.Field{
//		{Name: "user_id", Type: &typewire.UUID{}, Required: true},
//		{Name: "age", Type: &typewire.Integer{Min: typewire.Ptr(int64(0))}, Required: true},
//	})
//	s := typewire.NewSerializer(user, typewire.Options{Case: typewire.CaseCamel})
//	v, err := s.Load(map[string]any{"userId": "...", "age": 7})
//	doc := s.JSONSchema()
package typewire
