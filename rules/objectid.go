package rules

import (
	"context"

	schemaconv "github.com/reoring/schemaconv"
	"github.com/reoring/schemaconv/resolve"
)

// ObjectID requires the objects of an array field to have a required "id"
// property, unless the field is merged as a whole ("wholeListMerge") or
// omitted ("omitWhenMerged"). Item schemas reached through $ref are reported
// at their definition, with From set to the referencing field.
type ObjectID struct {
	// AllowMissing exempts an array field from the check.
	AllowMissing func(schemaconv.Pointer) bool
	// AllowOptional lists item schemas (by definition pointer) whose "id" may
	// be optional.
	AllowOptional schemaconv.Set
	// Resolver follows "items/$ref". Nil resolves within the document only.
	Resolver *resolve.Resolver
}

func (ObjectID) Name() string { return "object_id" }

func (r ObjectID) Validate(ctx context.Context, path string, root *schemaconv.Node, rep schemaconv.Reporter) int {
	e := newEmitter(r.Name(), path, rep)
	allow := r.AllowMissing
	if allow == nil {
		allow = never
	}
	res := r.Resolver
	if res == nil {
		res = resolve.New(nil)
	}
	res.Add(path, root)

	return schemaconv.Traverse(func(_ string, n *schemaconv.Node, ptr schemaconv.Pointer) int {
		if n.Child("wholeListMerge").Truthy() || n.Child("omitWhenMerged").Truthy() || allow(ptr) {
			return 0
		}
		items := n.Child("items")
		if !schemaconv.HasType(n, "array") || !items.IsObject() {
			return 0
		}

		original := string(ptr)
		if ref, ok := items.Child("$ref").StringValue(); ok {
			target, at, err := res.Resolve(ctx, path, ref)
			if err != nil {
				// Reported by the Ref rule.
				return 0
			}
			items = target
			original = string(at.Pointer)
			if at.URI != path {
				original = at.String()
			}
		}
		if !items.Has("properties") {
			return 0
		}

		var code string
		switch {
		case !items.Child("properties").Has("id"):
			code = schemaconv.CodeMissingID
		case !contains(stringsOf(items.Child("required")), "id") && !r.AllowOptional.Match(original):
			code = schemaconv.CodeOptionalID
		default:
			return 0
		}

		location := original
		if original != string(ptr) {
			location = original + " (from " + string(ptr) + ")"
		}
		d := schemaconv.NewDiagnostic(schemaconv.Error, code, path, schemaconv.Pointer(original), map[string]string{"location": location})
		d.Rule = e.rule
		if original != string(ptr) {
			d.From = ptr
		}
		e.rep.Report(d)
		return 1
	}, path, root)
}
