package rules

import (
	"context"

	schemaconv "github.com/reoring/schemaconv"
)

// NullType checks nullability against required-ness. Optional fields must
// include "null" in their type, required fields must not, and objects and
// arrays of objects never may. With NoNull set, no type may include "null".
type NullType struct {
	NoNull bool
	// AllowObjectNull lists objects and arrays of objects allowed to be nullable.
	AllowObjectNull schemaconv.Set
	// AllowNoNull lists optional fields allowed to exclude "null".
	AllowNoNull schemaconv.Set
	// AllowNull lists fields allowed to include "null" where it is not expected.
	AllowNull schemaconv.Set
}

func (NullType) Name() string { return "null_type" }

// Validate walks the tree itself rather than through Traverse: whether null
// is expected depends on the member that led to each node.
func (r NullType) Validate(_ context.Context, path string, root *schemaconv.Node, rep schemaconv.Reporter) int {
	e := newEmitter(r.Name(), path, rep)
	return r.walk(e, root, "", true)
}

func (r NullType) walk(e emitter, n *schemaconv.Node, ptr schemaconv.Pointer, expectNull bool) int {
	if r.NoNull {
		expectNull = false
	}
	count := 0
	switch {
	case n.IsArray():
		for i, it := range n.Items {
			count += r.walk(e, it, ptr.Index(i), true)
		}
	case n.IsObject():
		if n.Has("type") && ptr != "" {
			types := schemaconv.Types(n)
			nullInType := contains(types, "null")
			nullNotAllowed := contains(types, "object") || schemaconv.IsArrayOfObjects(n)
			p := string(ptr)
			switch {
			case nullInType && nullNotAllowed && !r.AllowObjectNull.Match(p):
				count += e.report(schemaconv.CodeNullInType, ptr, nil)
			case expectNull:
				if !nullInType && !nullNotAllowed && !r.AllowNoNull.Match(p) {
					count += e.report(schemaconv.CodeMissingNull, ptr, nil)
				}
			case nullInType && !r.AllowNull.Match(p):
				count += e.report(schemaconv.CodeNullInType, ptr, nil)
			}
		}

		required := stringsOf(n.Child("required"))
		for _, m := range n.Members {
			switch {
			case (m.Key == "properties" || m.Key == "definitions" || m.Key == "$defs") && m.Value.IsObject():
				block := ptr.Field(m.Key)
				for _, f := range m.Value.Members {
					expect := m.Key == "properties" && !contains(required, f.Key)
					count += r.walk(e, f.Value, block.Field(f.Key), expect)
				}
			default:
				count += r.walk(e, m.Value, ptr.Field(m.Key), m.Key != "items")
			}
		}
	}
	return count
}
