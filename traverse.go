package schemaconv

// VisitFunc inspects one object node and returns the number of issues it
// raised there. ptr always denotes n itself; path labels the document.
type VisitFunc func(path string, n *Node, ptr Pointer) int

// Traverse walks node depth-first and sums the counts returned by visit.
//
// Arrays are entered element by element, appending the index to the pointer.
// Objects are handed to visit before their members (pre-order), then each
// member value is walked in document order with its escaped key appended.
// Scalars end the recursion without a visit.
func Traverse(visit VisitFunc, path string, node *Node) int {
	return traverseAt(visit, path, node, "")
}

// TraverseAt is Traverse starting from a node whose own pointer is ptr, for
// walking a subtree without losing its position in the document.
func TraverseAt(visit VisitFunc, path string, node *Node, ptr Pointer) int {
	return traverseAt(visit, path, node, ptr)
}

func traverseAt(visit VisitFunc, path string, n *Node, ptr Pointer) int {
	if n == nil {
		return 0
	}
	count := 0
	switch n.Kind {
	case KindArray:
		for i, it := range n.Items {
			count += traverseAt(visit, path, it, ptr.Index(i))
		}
	case KindObject:
		count += visit(path, n, ptr)
		for _, m := range n.Members {
			count += traverseAt(visit, path, m.Value, ptr.Field(m.Key))
		}
	}
	return count
}

// Walk visits every object node with fn and no counting. It is the
// collection-only companion of Traverse.
func Walk(node *Node, fn func(n *Node, ptr Pointer)) {
	Traverse(func(_ string, n *Node, ptr Pointer) int {
		fn(n, ptr)
		return 0
	}, "", node)
}
