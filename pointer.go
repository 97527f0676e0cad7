package schemaconv

import (
	"strconv"
	"strings"

	eng "github.com/reoring/schemaconv/internal/engine"
)

// Pointer is a JSON Pointer rendered as a '/'-delimited string. The root of a
// document is the empty pointer; member names are escaped per RFC 6901.
type Pointer string

// Field returns the pointer of a member of the node at p.
func (p Pointer) Field(name string) Pointer {
	return Pointer(eng.JoinPointer(string(p), name))
}

// Index returns the pointer of an element of the array at p.
func (p Pointer) Index(i int) Pointer {
	return Pointer(string(p) + "/" + strconv.Itoa(i))
}

// Segments splits p into its escaped reference tokens.
func (p Pointer) Segments() []string {
	if p == "" {
		return nil
	}
	return strings.Split(strings.TrimPrefix(string(p), "/"), "/")
}

// Parent returns the last segment of p: the key (or index) under which the
// current node sits in its parent. It is "" at the root.
func (p Pointer) Parent() string {
	s := string(p)
	return s[strings.LastIndexByte(s, '/')+1:]
}

// Grandparent returns the second-to-last segment of p, if p has at least two.
func (p Pointer) Grandparent() (string, bool) {
	segs := p.Segments()
	if len(segs) < 2 {
		return "", false
	}
	return segs[len(segs)-2], true
}

// Contains reports whether any segment of p equals seg.
func (p Pointer) Contains(seg string) bool {
	for _, s := range p.Segments() {
		if s == seg {
			return true
		}
	}
	return false
}

func (p Pointer) String() string { return string(p) }

// ParsePointer validates a JSON Pointer string.
func ParsePointer(s string) (Pointer, bool) {
	if s != "" && !strings.HasPrefix(s, "/") {
		return "", false
	}
	return Pointer(s), true
}

// Lookup evaluates p against root.
func Lookup(root *Node, p Pointer) (*Node, bool) {
	cur := root
	for _, raw := range p.Segments() {
		seg := eng.UnescapePointerToken(raw)
		switch {
		case cur.IsObject():
			next, ok := cur.Get(seg)
			if !ok {
				return nil, false
			}
			cur = next
		case cur.IsArray():
			i, err := strconv.Atoi(seg)
			if err != nil || i < 0 || i >= len(cur.Items) || (len(seg) > 1 && seg[0] == '0') {
				return nil, false
			}
			cur = cur.Items[i]
		default:
			return nil, false
		}
	}
	return cur, cur != nil
}
