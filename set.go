package schemaconv

import (
	"path"
	"sort"
	"strings"
)

// Set is a read-only collection of names or JSON Pointers used for exception
// lists. Entries containing glob metacharacters match with path.Match.
type Set map[string]struct{}

// NewSet builds a Set from its members.
func NewSet(members ...string) Set {
	s := make(Set, len(members))
	for _, m := range members {
		s[m] = struct{}{}
	}
	return s
}

// Has reports exact membership.
func (s Set) Has(v string) bool {
	_, ok := s[v]
	return ok
}

// Match reports exact membership or a glob match.
func (s Set) Match(v string) bool {
	if s.Has(v) {
		return true
	}
	for m := range s {
		if strings.ContainsAny(m, "*?[") {
			if ok, _ := path.Match(m, v); ok {
				return true
			}
		}
	}
	return false
}

// Sorted returns the members in lexical order.
func (s Set) Sorted() []string {
	out := make([]string, 0, len(s))
	for m := range s {
		out = append(out, m)
	}
	sort.Strings(out)
	return out
}

// PointerPredicate adapts a Set into an exemption predicate over pointers.
func (s Set) PointerPredicate() func(Pointer) bool {
	return func(p Pointer) bool { return s.Match(string(p)) }
}

// NamePredicate adapts a Set into an exemption predicate over names.
func (s Set) NamePredicate() func(string) bool {
	return s.Match
}
