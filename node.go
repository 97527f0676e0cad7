package schemaconv

import (
	"encoding/json"
	"strconv"
)

// Kind tags the variant held by a Node.
type Kind uint8

const (
	KindNull Kind = iota
	KindBool
	KindNumber
	KindString
	KindArray
	KindObject
)

func (k Kind) String() string {
	switch k {
	case KindNull:
		return "null"
	case KindBool:
		return "boolean"
	case KindNumber:
		return "number"
	case KindString:
		return "string"
	case KindArray:
		return "array"
	case KindObject:
		return "object"
	}
	return "unknown"
}

// Member is one name/value pair of an object node.
type Member struct {
	Key   string
	Value *Node
}

// Node is a parsed JSON value. Objects keep their members in document order
// and never hold the same key twice. Reads never modify a node built by the
// parsers, Clone or the member methods, so such trees may be shared between
// goroutines.
type Node struct {
	Kind    Kind
	Bool    bool
	Number  string // literal text as written in the document
	Str     string
	Items   []*Node
	Members []Member

	index map[string]int
}

// Null returns a null node.
func Null() *Node { return &Node{Kind: KindNull} }

// Bool returns a boolean node.
func Bool(b bool) *Node { return &Node{Kind: KindBool, Bool: b} }

// Number returns a number node holding the literal text.
func Number(lit string) *Node { return &Node{Kind: KindNumber, Number: lit} }

// String returns a string node.
func String(s string) *Node { return &Node{Kind: KindString, Str: s} }

// Array returns an array node.
func Array(items ...*Node) *Node { return &Node{Kind: KindArray, Items: items} }

// Object returns an empty object node.
func Object() *Node { return &Node{Kind: KindObject} }

// Strings returns an array node of string nodes.
func Strings(ss ...string) *Node {
	n := &Node{Kind: KindArray, Items: make([]*Node, 0, len(ss))}
	for _, s := range ss {
		n.Items = append(n.Items, String(s))
	}
	return n
}

// Add appends a member. It fails with *DuplicateKeyError when the key is
// already present.
func (n *Node) Add(key string, v *Node) error {
	if _, ok := n.lookup(key); ok {
		return &DuplicateKeyError{Key: key}
	}
	n.append(key, v)
	return nil
}

// With appends a member, replacing the value of an existing key in place. It
// returns n so literals can be chained in tests and builders.
func (n *Node) With(key string, v *Node) *Node {
	if i, ok := n.lookup(key); ok {
		n.Members[i].Value = v
		return n
	}
	n.append(key, v)
	return n
}

// Delete removes a member if present.
func (n *Node) Delete(key string) {
	i, ok := n.lookup(key)
	if !ok {
		return
	}
	n.Members = append(n.Members[:i], n.Members[i+1:]...)
	n.reindex()
}

func (n *Node) append(key string, v *Node) {
	if n.index == nil {
		n.reindex()
	}
	n.index[key] = len(n.Members)
	n.Members = append(n.Members, Member{Key: key, Value: v})
}

func (n *Node) reindex() {
	n.index = make(map[string]int, len(n.Members))
	for i, m := range n.Members {
		n.index[m.Key] = i
	}
}

func (n *Node) lookup(key string) (int, bool) {
	if n == nil || n.Kind != KindObject || len(n.Members) == 0 {
		return 0, false
	}
	if len(n.index) != len(n.Members) {
		n.reindex()
	}
	i, ok := n.index[key]
	return i, ok
}

// Get returns the value of a member.
func (n *Node) Get(key string) (*Node, bool) {
	i, ok := n.lookup(key)
	if !ok {
		return nil, false
	}
	return n.Members[i].Value, true
}

// Has reports whether an object node has the member.
func (n *Node) Has(key string) bool {
	_, ok := n.lookup(key)
	return ok
}

// Child returns the value of a member or nil.
func (n *Node) Child(key string) *Node {
	v, _ := n.Get(key)
	return v
}

// Keys returns the member names of an object node in document order.
func (n *Node) Keys() []string {
	if n == nil || n.Kind != KindObject {
		return nil
	}
	keys := make([]string, len(n.Members))
	for i, m := range n.Members {
		keys[i] = m.Key
	}
	return keys
}

// IsObject reports whether n is a non-nil object node.
func (n *Node) IsObject() bool { return n != nil && n.Kind == KindObject }

// IsArray reports whether n is a non-nil array node.
func (n *Node) IsArray() bool { return n != nil && n.Kind == KindArray }

// IsNull reports whether n is a null node.
func (n *Node) IsNull() bool { return n != nil && n.Kind == KindNull }

// StringValue returns the string held by a string node.
func (n *Node) StringValue() (string, bool) {
	if n == nil || n.Kind != KindString {
		return "", false
	}
	return n.Str, true
}

// Truthy reports whether the value counts as set: false, null, zero, the
// empty string, the empty array and the empty object do not.
func (n *Node) Truthy() bool {
	if n == nil {
		return false
	}
	switch n.Kind {
	case KindBool:
		return n.Bool
	case KindNumber:
		f, err := strconv.ParseFloat(n.Number, 64)
		return err != nil || f != 0
	case KindString:
		return n.Str != ""
	case KindArray:
		return len(n.Items) > 0
	case KindObject:
		return len(n.Members) > 0
	}
	return false
}

// Equal reports deep equality. Object member order is ignored; numbers compare
// by literal text.
func (n *Node) Equal(o *Node) bool {
	if n == nil || o == nil {
		return n == o
	}
	if n.Kind != o.Kind {
		return false
	}
	switch n.Kind {
	case KindNull:
		return true
	case KindBool:
		return n.Bool == o.Bool
	case KindNumber:
		return n.Number == o.Number
	case KindString:
		return n.Str == o.Str
	case KindArray:
		if len(n.Items) != len(o.Items) {
			return false
		}
		for i := range n.Items {
			if !n.Items[i].Equal(o.Items[i]) {
				return false
			}
		}
		return true
	}
	if len(n.Members) != len(o.Members) {
		return false
	}
	for _, m := range n.Members {
		ov, ok := o.Get(m.Key)
		if !ok || !m.Value.Equal(ov) {
			return false
		}
	}
	return true
}

// Clone returns a deep copy.
func (n *Node) Clone() *Node {
	if n == nil {
		return nil
	}
	c := &Node{Kind: n.Kind, Bool: n.Bool, Number: n.Number, Str: n.Str}
	if n.Items != nil {
		c.Items = make([]*Node, len(n.Items))
		for i, it := range n.Items {
			c.Items[i] = it.Clone()
		}
	}
	if n.Members != nil {
		c.Members = make([]Member, len(n.Members))
		for i, m := range n.Members {
			c.Members[i] = Member{Key: m.Key, Value: m.Value.Clone()}
		}
		c.reindex()
	}
	return c
}

// Interface converts the tree into encoding/json-style Go values
// (map[string]any, []any, json.Number, string, bool, nil).
func (n *Node) Interface() any {
	if n == nil {
		return nil
	}
	switch n.Kind {
	case KindBool:
		return n.Bool
	case KindNumber:
		return json.Number(n.Number)
	case KindString:
		return n.Str
	case KindArray:
		out := make([]any, len(n.Items))
		for i, it := range n.Items {
			out[i] = it.Interface()
		}
		return out
	case KindObject:
		out := make(map[string]any, len(n.Members))
		for _, m := range n.Members {
			out[m.Key] = m.Value.Interface()
		}
		return out
	}
	return nil
}
