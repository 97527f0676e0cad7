package rules

import (
	"context"

	schemaconv "github.com/reoring/schemaconv"
	"github.com/reoring/schemaconv/codelist"
)

// CodelistEnum checks fields that declare a "codelist". An open codelist must
// not set "enum"; a closed one must, and the enum (plus null for nullable
// strings) must equal the codes of the matching CSV file. An "enum" without
// a "codelist" is an error too.
//
// The enum lives on the field when its type includes "string" and on its
// "items" when it includes "array". A field without "type" takes its types
// from Fallback, or is treated as an array.
type CodelistEnum struct {
	Codelists []codelist.File
	// Fallback maps pointers to the types assumed when "type" is absent.
	Fallback map[string][]string
	// AllowEnum exempts a field from declaring "codelist" next to "enum".
	AllowEnum func(schemaconv.Pointer) bool
	// AllowMissing accepts a codelist absent from Codelists, for example one
	// defined by the standard an extension patches.
	AllowMissing func(name string) bool
}

func (CodelistEnum) Name() string { return "codelist_enum" }

func (r CodelistEnum) Validate(_ context.Context, path string, root *schemaconv.Node, rep schemaconv.Reporter) int {
	e := newEmitter(r.Name(), path, rep)
	allowEnum := r.AllowEnum
	if allowEnum == nil {
		allowEnum = never
	}
	allowMissing := r.AllowMissing
	if allowMissing == nil {
		allowMissing = func(string) bool { return false }
	}
	return schemaconv.Traverse(func(_ string, n *schemaconv.Node, ptr schemaconv.Pointer) int {
		items := n.Child("items")
		if !n.Has("codelist") {
			if (n.Has("enum") && ptr.Parent() != "items") || items.Has("enum") {
				if !allowEnum(ptr) {
					return e.report(schemaconv.CodeEnumWithoutCodelist, ptr, nil)
				}
			}
			return 0
		}

		types := schemaconv.Types(n)
		if !n.Has("type") {
			types = []string{"array"}
			if fb, ok := r.Fallback[string(ptr)]; ok {
				types = fb
			}
		}
		isString, isArray := contains(types, "string"), contains(types, "array")
		name, _ := n.Child("codelist").StringValue()

		if n.Child("openCodelist").Truthy() {
			if (isString && n.Has("enum")) || (isArray && items.Has("enum")) {
				return e.report(schemaconv.CodeOpenCodelistEnum, ptr, nil)
			}
			return 0
		}

		count := 0
		var actual codelist.Values
		switch {
		case (isString && !n.Has("enum")) || (isArray && !items.Has("enum")):
			count += e.report(schemaconv.CodeClosedCodelistNoEnum, ptr, nil)
		case isString:
			actual = codelist.ValuesOf(n.Child("enum").Items...)
		case isArray:
			actual = codelist.ValuesOf(items.Child("enum").Items...)
		}

		f, found := codelist.Find(r.Codelists, name)
		if !found {
			if !allowMissing(name) {
				count += e.report(schemaconv.CodeMissingCodelistFile, ptr, map[string]string{"codelist": name})
			}
			return count
		}
		if len(actual) == 0 {
			return count
		}
		expected := codelist.CodeValues(f.Codes())
		if isString && contains(types, "null") {
			expected.Add(schemaconv.Null())
		}
		if !actual.Equal(expected) {
			added, removed := codelist.Difference(actual, expected)
			count += e.report(schemaconv.CodeCodelistMismatch, ptr, map[string]string{
				"codelist": name,
				"added":    added,
				"removed":  removed,
			})
		}
		return count
	}, path, root)
}
