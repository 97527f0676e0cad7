// Package schemaconv checks JSON Schema documents and their CSV codelists
// against a family of authoring conventions.
//
// The root package holds the core:
//
// - Node: an order-preserving JSON tree with unique member names per object
// - Parse / ParseYAML: strict parsers that reject repeated keys (RFC 7493 section 2.3)
// - Pointer: RFC 6901 JSON Pointers and Lookup
// - Traverse: the pre-order walk every rule is built on
// - Predicates: Types, IsArrayOfObjects, IsMissingProperty, IsCodelist, IsJSONSchema
// - Diagnostic / Reporter: the findings model shared by all rules
//
// Design policy:
// - Keep only public APIs in the root package; put detailed implementations under internal/.
// - Rules live under rules/, the codelist matcher under codelist/, reference resolution under resolve/.
// - Nothing here performs I/O; loaders live under filesystem/ and resolve/.
// - checker/ ties everything together for the CLI (cmd/schemaconv) and the HTTP server (server/).
//
// Typical usage:
//
//	doc, err := schemaconv.Parse(data)
//	col := &schemaconv.Collector{}
//	res := rules.Default().Run(ctx, "release-schema.json", doc, col)
//	if res.Errors > 0 {
//	    fmt.Println(col.Diagnostics())
//	}
package schemaconv
