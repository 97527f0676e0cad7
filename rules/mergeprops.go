package rules

import (
	"context"

	schemaconv "github.com/reoring/schemaconv"
)

// MergeProperties checks the merge markers. "omitWhenMerged" and
// "wholeListMerge" must not be false or null, must not both be set, and
// "wholeListMerge" belongs on arrays of objects only.
type MergeProperties struct{}

func (MergeProperties) Name() string { return "merge_properties" }

func (r MergeProperties) Validate(_ context.Context, path string, root *schemaconv.Node, rep schemaconv.Reporter) int {
	e := newEmitter(r.Name(), path, rep)
	return schemaconv.Traverse(func(_ string, n *schemaconv.Node, ptr schemaconv.Pointer) int {
		count := 0
		if v, ok := n.Get("omitWhenMerged"); ok && !v.Truthy() {
			count += e.report(schemaconv.CodeMergePropertyFalsy, ptr, map[string]string{"property": "omitWhenMerged"})
		}
		v, ok := n.Get("wholeListMerge")
		switch {
		case !ok:
		case !v.Truthy():
			count += e.report(schemaconv.CodeMergePropertyFalsy, ptr, map[string]string{"property": "wholeListMerge"})
		default:
			if !schemaconv.IsArrayOfObjects(n) {
				count += e.report(schemaconv.CodeWholeListMergeNotArray, ptr, nil)
			}
			if n.Has("omitWhenMerged") {
				count += e.report(schemaconv.CodeMergePropertiesBoth, ptr, nil)
			}
		}
		return count
	}, path, root)
}
