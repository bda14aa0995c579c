// Package ast is the mutable syntax tree rewritten by the unminify rules.
//
// A tree is converted once from the tree-sitter concrete syntax tree and keeps
// every token, so printing a tree that no rule touched reproduces the program
// token for token. Rules mutate the tree in place through the helpers in this
// package, which keep Parent links and list separators consistent.
package ast

import "unicode/utf16"

// Position is a location in the original source. Nodes created by rules have a
// zero Position.
type Position struct {
	Line   int // 1-based
	Column int // 0-based, in bytes
	Offset int // byte offset
}

// Node is a typed tree node: a kind tag, children and source position.
type Node struct {
	Kind Kind
	// Type is the grammar name; it differs from Kind.String() only for KindOther
	// and KindToken.
	Type string
	// Field is the grammar field name this node occupies under its parent.
	Field string
	// Text holds the source text of leaves (tokens, identifiers, literals).
	Text     string
	Children []*Node
	// Parent is a non-owning back-reference, nil for the root.
	Parent *Node
	Start  Position
	End    Position
}

// IsToken reports whether n is an anonymous grammar token such as "(" or "const".
func (n *Node) IsToken() bool {
	return n != nil && n.Kind == KindToken
}

// Is reports whether n is a token with the given text.
func (n *Node) Is(text string) bool {
	return n != nil && n.Kind == KindToken && n.Text == text
}

// IsLeaf reports whether n has no children.
func (n *Node) IsLeaf() bool {
	return len(n.Children) == 0
}

// ChildByField returns the first child occupying the named field, or nil.
func (n *Node) ChildByField(field string) *Node {
	if n == nil {
		return nil
	}
	for _, c := range n.Children {
		if c.Field == field {
			return c
		}
	}
	return nil
}

// NamedChildren returns the children that are neither tokens nor comments.
func (n *Node) NamedChildren() []*Node {
	if n == nil {
		return nil
	}
	out := make([]*Node, 0, len(n.Children))
	for _, c := range n.Children {
		if c.Kind == KindToken || c.Kind == KindComment {
			continue
		}
		out = append(out, c)
	}
	return out
}

// FirstNamed returns the first child that is neither a token nor a comment.
func (n *Node) FirstNamed() *Node {
	if n == nil {
		return nil
	}
	for _, c := range n.Children {
		if c.Kind != KindToken && c.Kind != KindComment {
			return c
		}
	}
	return nil
}

// Index returns the position of n among its parent's children, or -1.
func (n *Node) Index() int {
	if n == nil || n.Parent == nil {
		return -1
	}
	for i, c := range n.Parent.Children {
		if c == n {
			return i
		}
	}
	return -1
}

// Unparen strips any number of enclosing parenthesized expressions.
func (n *Node) Unparen() *Node {
	for n != nil && n.Kind == KindParenthesizedExpression {
		n = n.FirstNamed()
	}
	return n
}

// Name returns the text of an identifier-like leaf, or "".
func (n *Node) Name() string {
	if n == nil {
		return ""
	}
	switch n.Kind {
	case KindIdentifier, KindPropertyIdentifier,
		KindShorthandPropertyIdentifier, KindShorthandPropertyIdentifierPattern:
		return n.Text
	default:
		return ""
	}
}

// Body returns the body field of a function-like node.
func (n *Node) Body() *Node {
	return n.ChildByField("body")
}

// Params returns the parameter list of a function-like node. Arrow functions
// with a single bare parameter return that identifier.
func (n *Node) Params() []*Node {
	if n == nil {
		return nil
	}
	if p := n.ChildByField("parameter"); p != nil {
		return []*Node{p}
	}
	return ListItems(n.ChildByField("parameters"))
}

// IsAncestorOf reports whether n is a strict ancestor of other.
func (n *Node) IsAncestorOf(other *Node) bool {
	for p := other.Parent; p != nil; p = p.Parent {
		if p == n {
			return true
		}
	}
	return false
}

// Root returns the topmost ancestor of n.
func (n *Node) Root() *Node {
	for n.Parent != nil {
		n = n.Parent
	}
	return n
}

// LastLeaf returns the rightmost leaf under n, skipping comments.
func LastLeaf(n *Node) *Node {
	for n != nil && len(n.Children) > 0 {
		var next *Node
		for i := len(n.Children) - 1; i >= 0; i-- {
			if n.Children[i].Kind != KindComment {
				next = n.Children[i]
				break
			}
		}
		if next == nil {
			return n
		}
		n = next
	}
	return n
}

// JSLength returns the length of s as JavaScript measures it, in UTF-16 code units.
func JSLength(s string) int {
	n := 0
	for _, r := range s {
		n += utf16.RuneLen(r)
	}
	return n
}
