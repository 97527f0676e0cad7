package schemaconv

import "strings"

// Types returns the declared "type" of a field as a list. A string type yields a
// single element; a missing or malformed type yields nil.
func Types(field *Node) []string {
	t, ok := field.Get("type")
	if !ok {
		return nil
	}
	switch t.Kind {
	case KindString:
		return []string{t.Str}
	case KindArray:
		out := make([]string, 0, len(t.Items))
		for _, it := range t.Items {
			if s, ok := it.StringValue(); ok {
				out = append(out, s)
			}
		}
		return out
	}
	return nil
}

// HasType reports whether the declared type of field includes name.
func HasType(field *Node, name string) bool {
	for _, t := range Types(field) {
		if t == name {
			return true
		}
	}
	return false
}

// IsArrayOfObjects reports whether a field is an array whose items describe an
// object through "properties" or "$ref".
func IsArrayOfObjects(field *Node) bool {
	if !HasType(field, "array") {
		return false
	}
	items := field.Child("items")
	return items.Has("$ref") || items.Has("properties")
}

// IsMissingProperty reports whether a field's property is absent, empty, or a
// blank string. Booleans and numbers, including false and zero, count as set.
func IsMissingProperty(field *Node, prop string) bool {
	v, ok := field.Get(prop)
	if !ok {
		return true
	}
	switch v.Kind {
	case KindBool, KindNumber:
		return false
	case KindString:
		return strings.TrimSpace(v.Str) == ""
	}
	return !v.Truthy()
}

// IsCodelist reports whether a CSV header describes a codelist: it has a
// "Code" or "code" column.
func IsCodelist(columns []string) bool {
	for _, c := range columns {
		if c == "Code" || c == "code" {
			return true
		}
	}
	return false
}

// IsJSONSchema reports whether a document looks like a JSON Schema.
func IsJSONSchema(doc *Node) bool {
	return doc.Has("$schema") || doc.Has("definitions") || doc.Has("properties")
}

// IsJSONMergePatch reports whether a document looks like a JSON Merge Patch of
// a schema: schema keywords without "$schema".
func IsJSONMergePatch(doc *Node) bool {
	return !doc.Has("$schema") && (doc.Has("definitions") || doc.Has("properties"))
}
