// Package merge applies JSON Merge Patch (RFC 7396) documents to Node trees
// and refuses patches that silently overwrite values of the base.
package merge

import (
	"fmt"

	schemaconv "github.com/reoring/schemaconv"
)

// OverwriteError is returned when a patch replaces or removes a non-object
// value that already exists in the base.
type OverwriteError struct {
	Pointer  schemaconv.Pointer
	Existing *schemaconv.Node
	Value    *schemaconv.Node
}

func (e *OverwriteError) Error() string {
	return fmt.Sprintf("unexpectedly overwrites %s", e.Pointer)
}

// Options tunes Merge.
type Options struct {
	// AllowOverwrite permits the patch to replace (or, with a null value,
	// remove) the existing member at p.
	AllowOverwrite func(p schemaconv.Pointer, existing, value *schemaconv.Node) bool
	// Overwritten, if set, is called for every permitted overwrite.
	Overwritten func(p schemaconv.Pointer)
}

// Merge applies each patch in turn to a copy of base. base is never modified.
func Merge(base *schemaconv.Node, opt Options, patches ...*schemaconv.Node) (*schemaconv.Node, error) {
	result := base.Clone()
	for _, p := range patches {
		var err error
		if result, err = apply(result, p, "", opt); err != nil {
			return nil, err
		}
	}
	return result, nil
}

func apply(target, patch *schemaconv.Node, ptr schemaconv.Pointer, opt Options) (*schemaconv.Node, error) {
	if !patch.IsObject() {
		return patch.Clone(), nil
	}
	if !target.IsObject() {
		target = schemaconv.Object()
	}
	for _, m := range patch.Members {
		at := ptr.Field(m.Key)
		if m.Value.IsObject() {
			sub, err := apply(target.Child(m.Key), m.Value, at, opt)
			if err != nil {
				return nil, err
			}
			target.With(m.Key, sub)
			continue
		}
		if existing, ok := target.Get(m.Key); ok {
			if opt.AllowOverwrite == nil || !opt.AllowOverwrite(at, existing, m.Value) {
				return nil, &OverwriteError{Pointer: at, Existing: existing, Value: m.Value}
			}
			if opt.Overwritten != nil {
				opt.Overwritten(at)
			}
		}
		if m.Value.IsNull() {
			target.Delete(m.Key)
			continue
		}
		target.With(m.Key, m.Value.Clone())
	}
	return target, nil
}

// Deprecated reports whether the existing value is an object carrying a
// "deprecated" member. Patches commonly remove such fields outright.
func Deprecated(existing *schemaconv.Node) bool {
	return existing.IsObject() && existing.Has("deprecated")
}

// Allow builds an AllowOverwrite predicate from a pointer set for
// replacements and a pointer set for removals. Removing a deprecated member is
// permitted when allowDeprecated is true.
func Allow(replace, remove schemaconv.Set, allowDeprecated bool) func(schemaconv.Pointer, *schemaconv.Node, *schemaconv.Node) bool {
	return func(p schemaconv.Pointer, existing, value *schemaconv.Node) bool {
		if replace.Match(string(p)) {
			return true
		}
		if !value.IsNull() {
			return false
		}
		return remove.Match(string(p)) || (allowDeprecated && Deprecated(existing))
	}
}
