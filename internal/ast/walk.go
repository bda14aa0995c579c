package ast

// WalkFunc is called for each node during traversal.
// Return false to skip children.
type WalkFunc func(n *Node) bool

// Walk traverses the tree in depth-first order.
func Walk(n *Node, fn WalkFunc) {
	if n == nil {
		return
	}
	if !fn(n) {
		return
	}
	for _, c := range n.Children {
		Walk(c, fn)
	}
}

// Find collects every node under root (root included) matching pred, in source order.
func Find(root *Node, pred func(*Node) bool) []*Node {
	var out []*Node
	Walk(root, func(n *Node) bool {
		if pred(n) {
			out = append(out, n)
		}
		return true
	})
	return out
}

// Any reports whether some node under root matches pred. The walk stops at
// the first match.
func Any(root *Node, pred func(*Node) bool) bool {
	found := false
	Walk(root, func(n *Node) bool {
		if found {
			return false
		}
		if pred(n) {
			found = true
			return false
		}
		return true
	})
	return found
}

// Identifiers returns every identifier leaf named name under root.
func Identifiers(root *Node, name string) []*Node {
	return Find(root, func(n *Node) bool {
		return n.Kind == KindIdentifier && n.Text == name
	})
}
