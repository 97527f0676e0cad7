package rules

import (
	"context"

	schemaconv "github.com/reoring/schemaconv"
)

// DeepProperties flags "properties" nested within "properties" without an
// intervening definition. It is advisory: diagnostics are warnings.
type DeepProperties struct {
	AllowDeep schemaconv.Set
}

func (DeepProperties) Name() string { return "deep_properties" }

// Validate returns the number of warnings.
func (r DeepProperties) Validate(_ context.Context, path string, root *schemaconv.Node, rep schemaconv.Reporter) int {
	e := newEmitter(r.Name(), path, rep)
	e.sev = schemaconv.Warn
	return schemaconv.Traverse(func(_ string, n *schemaconv.Node, ptr schemaconv.Pointer) int {
		if ptr == "" || !n.Has("properties") || r.AllowDeep.Match(string(ptr)) {
			return 0
		}
		if gp, _ := ptr.Grandparent(); gp == "definitions" || gp == "$defs" {
			return 0
		}
		return e.report(schemaconv.CodeDeepProperties, ptr, nil)
	}, path, root)
}
