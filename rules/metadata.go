package rules

import (
	"context"

	schemaconv "github.com/reoring/schemaconv"
)

// Keys whose object values hold schemas rather than being a field themselves.
var schemaFields = map[string]bool{
	"definitions":       true,
	"$defs":             true,
	"deprecated":        true,
	"items":             true,
	"patternProperties": true,
	"properties":        true,
}

// MetadataPresence requires the root schema and each field to carry a
// non-blank title and description and one of type, $ref or oneOf. Fields
// with $ref may defer their title and description to the definition.
type MetadataPresence struct {
	// AllowMissing exempts a field.
	AllowMissing func(schemaconv.Pointer) bool
}

func (MetadataPresence) Name() string { return "metadata_presence" }

func (r MetadataPresence) Validate(_ context.Context, path string, root *schemaconv.Node, rep schemaconv.Reporter) int {
	e := newEmitter(r.Name(), path, rep)
	allow := r.AllowMissing
	if allow == nil {
		allow = never
	}
	return schemaconv.Traverse(func(_ string, n *schemaconv.Node, ptr schemaconv.Pointer) int {
		parent := ptr.Parent()
		gp, _ := ptr.Grandparent()
		if (schemaFields[parent] || gp == "patternProperties") && gp != "properties" {
			return 0
		}
		count := 0
		for _, prop := range []string{"title", "description"} {
			if schemaconv.IsMissingProperty(n, prop) && !n.Has("$ref") && !allow(ptr) {
				count += e.report(schemaconv.CodeMissingMetadata, ptr, map[string]string{"property": prop})
			}
		}
		if !n.Has("type") && !n.Has("$ref") && !n.Has("oneOf") && !allow(ptr) {
			count += e.report(schemaconv.CodeMissingType, ptr, nil)
		}
		return count
	}, path, root)
}
