package codelist

import (
	"fmt"
	"sort"
	"strings"

	schemaconv "github.com/reoring/schemaconv"
)

// Kind classifies the repository under inspection.
type Kind int

const (
	// Standard is the base standard itself.
	Standard Kind = iota
	// Extension adds to or patches the standard.
	Extension
	// Profile is a collection of extensions.
	Profile
)

func (k Kind) String() string {
	switch k {
	case Extension:
		return "extension"
	case Profile:
		return "profile"
	}
	return "standard"
}

// ParseKind converts the configuration form of a Kind.
func ParseKind(s string) (Kind, error) {
	switch strings.ToLower(s) {
	case "", "standard", "core":
		return Standard, nil
	case "extension":
		return Extension, nil
	case "profile":
		return Profile, nil
	}
	return Standard, fmt.Errorf("unknown repository kind %q", s)
}

// MatchOptions configures the cross-reference check.
type MatchOptions struct {
	// Kind is recorded for labeling; inclusion is decided by Include.
	Kind Kind
	// External names codelists defined outside the tree. They satisfy
	// references, and delta files must patch one of them.
	External schemaconv.Set
	// Include selects the files that take part. Nil includes every codelist.
	Include func(File) bool
}

// IncludeFor returns the usual inclusion policy for a repository kind:
// extensions take every codelist; the standard and profiles skip the copies
// under a "patched" directory.
func IncludeFor(kind Kind) func(File) bool {
	return func(f File) bool {
		if kind == Extension {
			return true
		}
		for _, seg := range strings.Split(strings.ReplaceAll(f.Path, "\\", "/"), "/") {
			if seg == "patched" {
				return false
			}
		}
		return true
	}
}

// References collects the value of every "codelist" member in the tree.
func References(tree *schemaconv.Node) schemaconv.Set {
	refs := schemaconv.Set{}
	schemaconv.Walk(tree, func(n *schemaconv.Node, _ schemaconv.Pointer) {
		if s, ok := n.Child("codelist").StringValue(); ok {
			refs[s] = struct{}{}
		}
	})
	return refs
}

// Match reconciles the codelists referenced by tree with files. It reports
// one error listing the files no reference uses, one listing the references
// no file (or external codelist) satisfies, and one per delta file that
// patches an unknown codelist. It returns the number of errors.
func Match(path string, tree *schemaconv.Node, files []File, opt MatchOptions, rep schemaconv.Reporter) int {
	if rep == nil {
		rep = schemaconv.Discard
	}
	count := 0
	var base []File
	for _, f := range files {
		if !f.IsCodelist() || (opt.Include != nil && !opt.Include(f)) {
			continue
		}
		if IsDelta(f.Name) {
			if !matchesAny(BaseName(f.Name), opt.External) {
				count++
				rep.Report(diag(schemaconv.CodeUnknownCodelistPatch, path, map[string]string{"codelist": f.Name}))
			}
			continue
		}
		base = append(base, f)
	}

	refs := References(tree)
	var unused, missing []string
	for _, f := range base {
		used := false
		for ref := range refs {
			if Matches(ref, f.Name) {
				used = true
				break
			}
		}
		if !used {
			unused = append(unused, f.Name)
		}
	}
	for ref := range refs {
		if _, ok := Find(base, ref); ok {
			continue
		}
		if matchesAny(ref, opt.External) {
			continue
		}
		missing = append(missing, ref)
	}

	if len(unused) > 0 {
		count++
		sort.Strings(unused)
		rep.Report(diag(schemaconv.CodeUnusedCodelists, path, map[string]string{"codelists": strings.Join(unused, ", ")}))
	}
	if len(missing) > 0 {
		count++
		sort.Strings(missing)
		rep.Report(diag(schemaconv.CodeMissingCodelists, path, map[string]string{"codelists": strings.Join(missing, ", ")}))
	}
	return count
}

func matchesAny(ref string, names schemaconv.Set) bool {
	for name := range names {
		if Matches(ref, name) || Matches(name, ref) {
			return true
		}
	}
	return false
}

func diag(code, path string, params map[string]string) schemaconv.Diagnostic {
	d := schemaconv.NewDiagnostic(schemaconv.Error, code, path, "", params)
	d.Rule = "codelist_match"
	return d
}
