// Package codelist models CSV codelist files and reconciles them with the
// codelists a schema refers to.
package codelist

import (
	"sort"
	"strings"

	schemaconv "github.com/reoring/schemaconv"
)

// File is a CSV file as supplied by the filesystem layer.
type File struct {
	Path    string
	Name    string // base file name, for example "method.csv" or "+partyRole.csv"
	Columns []string
	Rows    []map[string]string
}

// IsCodelist reports whether the file has a Code (or code) column.
func (f File) IsCodelist() bool { return schemaconv.IsCodelist(f.Columns) }

// Codes returns the values of the code column in row order.
func (f File) Codes() []string {
	col := "Code"
	if !hasColumn(f.Columns, col) {
		col = "code"
	}
	out := make([]string, 0, len(f.Rows))
	for _, row := range f.Rows {
		if c, ok := row[col]; ok {
			out = append(out, c)
		}
	}
	return out
}

func hasColumn(cols []string, name string) bool {
	for _, c := range cols {
		if c == name {
			return true
		}
	}
	return false
}

// IsDelta reports whether name denotes a delta codelist: one that adds (+) or
// removes (-) codes of a codelist defined elsewhere.
func IsDelta(name string) bool {
	return strings.HasPrefix(name, "+") || strings.HasPrefix(name, "-")
}

// BaseName strips the delta prefix.
func BaseName(name string) string {
	if IsDelta(name) {
		return name[1:]
	}
	return name
}

// Matches reports whether a codelist reference names the file. References
// may carry the .csv extension or omit it.
func Matches(ref, name string) bool {
	return ref == name || ref == strings.TrimSuffix(name, ".csv")
}

// Values is a set of enum values keyed by their compact JSON encoding, so
// "null" and null stay distinct.
type Values map[string]*schemaconv.Node

// ValuesOf builds a Values set from nodes.
func ValuesOf(nodes ...*schemaconv.Node) Values {
	v := make(Values, len(nodes))
	for _, n := range nodes {
		v.Add(n)
	}
	return v
}

// CodeValues builds a Values set of strings.
func CodeValues(codes []string) Values {
	v := make(Values, len(codes))
	for _, c := range codes {
		v.Add(schemaconv.String(c))
	}
	return v
}

// Add inserts n.
func (v Values) Add(n *schemaconv.Node) { v[string(schemaconv.Compact(n))] = n }

// Equal reports set equality.
func (v Values) Equal(o Values) bool {
	if len(v) != len(o) {
		return false
	}
	for k := range v {
		if _, ok := o[k]; !ok {
			return false
		}
	}
	return true
}

// minus returns the display form of the members of v missing from o, sorted.
func (v Values) minus(o Values) []string {
	var out []string
	for k, n := range v {
		if _, ok := o[k]; ok {
			continue
		}
		if s, ok := n.StringValue(); ok {
			out = append(out, s)
		} else {
			out = append(out, k)
		}
	}
	sort.Strings(out)
	return out
}

// Difference describes how actual differs from expected as the fragments
// "; added {a, b}" and "; removed {c}". Either is empty when there is
// nothing to report.
func Difference(actual, expected Values) (added, removed string) {
	if a := actual.minus(expected); len(a) > 0 {
		added = "; added {" + strings.Join(a, ", ") + "}"
	}
	if r := expected.minus(actual); len(r) > 0 {
		removed = "; removed {" + strings.Join(r, ", ") + "}"
	}
	return added, removed
}

// Find returns the first file matched by the reference.
func Find(files []File, ref string) (File, bool) {
	for _, f := range files {
		if Matches(ref, f.Name) {
			return f, true
		}
	}
	return File{}, false
}
