package rules

import (
	"context"

	schemaconv "github.com/reoring/schemaconv"
)

// ArrayItems requires every field whose type includes "array" to declare
// "items".
type ArrayItems struct {
	AllowInvalid schemaconv.Set
}

func (ArrayItems) Name() string { return "array_items" }

func (r ArrayItems) Validate(_ context.Context, path string, root *schemaconv.Node, rep schemaconv.Reporter) int {
	e := newEmitter(r.Name(), path, rep)
	return schemaconv.Traverse(func(_ string, n *schemaconv.Node, ptr schemaconv.Pointer) int {
		if schemaconv.HasType(n, "array") && !n.Has("items") && !r.AllowInvalid.Match(string(ptr)) {
			return e.report(schemaconv.CodeMissingItems, ptr, nil)
		}
		return 0
	}, path, root)
}

var defaultItemsTypes = []string{"array", "number", "string"}

// ItemsType restricts the type under "items" to array (geometries), number
// (coordinates) and string, plus AdditionalValidTypes.
type ItemsType struct {
	AdditionalValidTypes []string
	AllowInvalid         schemaconv.Set
}

func (ItemsType) Name() string { return "items_type" }

func (r ItemsType) Validate(_ context.Context, path string, root *schemaconv.Node, rep schemaconv.Reporter) int {
	e := newEmitter(r.Name(), path, rep)
	valid := append(append([]string(nil), defaultItemsTypes...), r.AdditionalValidTypes...)
	return schemaconv.Traverse(func(_ string, n *schemaconv.Node, ptr schemaconv.Pointer) int {
		if ptr.Parent() != "items" {
			return 0
		}
		count := 0
		for _, t := range schemaconv.Types(n) {
			if !contains(valid, t) && !r.AllowInvalid.Match(string(ptr)) {
				count += e.report(schemaconv.CodeInvalidItemsType, ptr, map[string]string{"type": t})
			}
		}
		return count
	}, path, root)
}
