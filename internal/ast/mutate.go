package ast

// New creates a node of kind k with the given children, adopting them.
func New(k Kind, children ...*Node) *Node {
	n := &Node{Kind: k, Type: k.String()}
	for _, c := range children {
		n.Append(c)
	}
	return n
}

// Token creates an anonymous token.
func Token(text string) *Node {
	return &Node{Kind: KindToken, Text: text}
}

// Ident creates an identifier leaf.
func Ident(name string) *Node {
	return &Node{Kind: KindIdentifier, Type: KindIdentifier.String(), Text: name}
}

// Leaf creates a named leaf of kind k carrying text.
func Leaf(k Kind, text string) *Node {
	return &Node{Kind: k, Type: k.String(), Text: text}
}

// WithField sets the field name of n and returns it.
func (n *Node) WithField(field string) *Node {
	n.Field = field
	return n
}

// Append adds c as the last child of n.
func (n *Node) Append(c *Node) {
	c.Parent = n
	n.Children = append(n.Children, c)
}

// InsertChild inserts c at index i among n's children.
func (n *Node) InsertChild(i int, c *Node) {
	if i < 0 {
		i = 0
	}
	if i > len(n.Children) {
		i = len(n.Children)
	}
	c.Parent = n
	n.Children = append(n.Children, nil)
	copy(n.Children[i+1:], n.Children[i:])
	n.Children[i] = c
}

// RemoveChild detaches c from n. It reports whether c was a child of n.
func (n *Node) RemoveChild(c *Node) bool {
	for i, x := range n.Children {
		if x == c {
			n.Children = append(n.Children[:i], n.Children[i+1:]...)
			c.Parent = nil
			return true
		}
	}
	return false
}

// Replace puts with in n's place under n's parent. with inherits n's field.
// It reports whether n had a parent.
func (n *Node) Replace(with *Node) bool {
	p := n.Parent
	if p == nil {
		return false
	}
	i := n.Index()
	if i < 0 {
		return false
	}
	if with.Parent != nil {
		with.Parent.RemoveChild(with)
	}
	with.Field = n.Field
	with.Parent = p
	p.Children[i] = with
	n.Parent = nil
	return true
}

// Detach removes n from its parent, if any.
func (n *Node) Detach() {
	if n.Parent != nil {
		n.Parent.RemoveChild(n)
	}
}

// Clone returns a deep copy of n without a parent.
func Clone(n *Node) *Node {
	if n == nil {
		return nil
	}
	c := &Node{
		Kind:  n.Kind,
		Type:  n.Type,
		Field: n.Field,
		Text:  n.Text,
		Start: n.Start,
		End:   n.End,
	}
	if len(n.Children) > 0 {
		c.Children = make([]*Node, len(n.Children))
		for i, child := range n.Children {
			cc := Clone(child)
			cc.Parent = c
			c.Children[i] = cc
		}
	}
	return c
}

// ListItems returns the elements of a delimited, comma-separated list node
// (formal_parameters, arguments, array, object, named_imports, ...).
func ListItems(list *Node) []*Node {
	if list == nil {
		return nil
	}
	return list.NamedChildren()
}

// RemoveListItem detaches item from a comma-separated list together with one
// adjacent comma: the following comma if there is one, otherwise the preceding.
func RemoveListItem(list, item *Node) bool {
	i := item.Index()
	if i < 0 || item.Parent != list {
		return false
	}
	var comma *Node
	for j := i + 1; j < len(list.Children); j++ {
		c := list.Children[j]
		if c.Kind == KindComment {
			continue
		}
		if c.Is(",") {
			comma = c
		}
		break
	}
	if comma == nil {
		for j := i - 1; j >= 0; j-- {
			c := list.Children[j]
			if c.Kind == KindComment {
				continue
			}
			if c.Is(",") {
				comma = c
			}
			break
		}
	}
	list.RemoveChild(item)
	if comma != nil {
		list.RemoveChild(comma)
	}
	return true
}

// LexicalDeclaration builds `<kind> <name> = <value>;`. value is detached from
// its current parent.
func LexicalDeclaration(kind, name string, value *Node) *Node {
	value.Detach()
	return New(KindLexicalDeclaration,
		Token(kind).WithField("kind"),
		New(KindVariableDeclarator,
			Ident(name).WithField("name"),
			Token("="),
			value.WithField("value"),
		),
		Token(";"),
	)
}
