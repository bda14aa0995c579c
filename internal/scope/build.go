package scope

import (
	"github.com/DeusData/unminify/internal/ast"
	"github.com/DeusData/unminify/internal/lang"
)

// paramWrappers holds the grammar kinds that wrap a parameter pattern in a
// "pattern" field, collected from every registered dialect.
var paramWrappers = func() map[string]bool {
	out := map[string]bool{}
	for _, l := range lang.AllLanguages() {
		spec := lang.ForLanguage(l)
		if spec == nil {
			continue
		}
		for _, t := range spec.ParameterWrapperTypes {
			out[t] = true
		}
	}
	return out
}()

// Build constructs the scope model of the subtree rooted at root in a single
// traversal. If root does not itself introduce a scope, the model gets a
// synthetic program scope owned by root.
func Build(root *ast.Node) *Tree {
	t := &Tree{byNode: map[*ast.Node]*Scope{}}
	b := &builder{tree: t}
	t.Root = b.open(KindProgram, nil, nil)
	b.visit(root, t.Root)

	s := t.byNode[root]
	switch {
	case s == nil:
		t.Root.Node = root
		t.byNode[root] = t.Root
	case s.Kind == KindFunction || s.Kind == KindClass:
		// Nothing declared inside a function escapes it, so the function
		// scope (or the name scope around it) becomes the root.
		if s.Parent != nil && s.Parent.Kind == KindName {
			s = s.Parent
		}
		s.Parent = nil
		t.Root = s
	}
	return t
}

type builder struct {
	tree *Tree
}

func (b *builder) open(k Kind, n *ast.Node, parent *Scope) *Scope {
	s := &Scope{Kind: k, Node: n, Parent: parent, bindings: map[string]*Binding{}}
	if parent != nil {
		parent.Children = append(parent.Children, s)
	}
	if n != nil {
		b.tree.byNode[n] = s
	}
	return s
}

func (b *builder) children(n *ast.Node, cur *Scope) {
	for _, c := range n.Children {
		b.visit(c, cur)
	}
}

func (b *builder) visit(n *ast.Node, cur *Scope) {
	switch n.Kind {
	case ast.KindFunctionDeclaration, ast.KindGeneratorFunctionDeclaration,
		ast.KindFunctionExpression, ast.KindGeneratorFunction,
		ast.KindArrowFunction, ast.KindMethodDefinition:
		b.function(n, cur)

	case ast.KindClassDeclaration:
		if name := n.ChildByField("name"); name != nil && name.Kind == ast.KindIdentifier {
			cur.declare(name.Text, BindClass, name)
		}
		b.children(n, cur)

	case ast.KindClass:
		name := n.ChildByField("name")
		if name == nil || name.Kind != ast.KindIdentifier {
			b.children(n, cur)
			return
		}
		cs := b.open(KindClass, n, cur)
		cs.declare(name.Text, BindClass, name)
		b.children(n, cs)

	case ast.KindClassStaticBlock:
		fs := b.open(KindFunction, n, cur)
		b.body(n.Body(), n, fs)

	case ast.KindStatementBlock, ast.KindSwitchBody:
		b.children(n, b.open(KindBlock, n, cur))

	case ast.KindCatchClause:
		cs := b.open(KindCatch, n, cur)
		if p := n.ChildByField("parameter"); p != nil {
			declarePattern(p, cs, BindCatch)
		}
		b.body(n.Body(), n, cs)

	case ast.KindForStatement:
		init := n.ChildByField("initializer")
		if init != nil && init.Kind == ast.KindLexicalDeclaration {
			b.children(n, b.open(KindFor, n, cur))
			return
		}
		b.children(n, cur)

	case ast.KindForInStatement:
		b.forIn(n, cur)

	case ast.KindVariableDeclaration:
		target := cur.hoistTarget()
		for _, d := range n.NamedChildren() {
			if d.Kind == ast.KindVariableDeclarator {
				declarePattern(d.ChildByField("name"), target, BindVar)
			}
		}
		b.children(n, cur)

	case ast.KindLexicalDeclaration:
		kind := BindLet
		if k := n.ChildByField("kind"); k != nil && k.Text == "const" {
			kind = BindConst
		}
		for _, d := range n.NamedChildren() {
			if d.Kind == ast.KindVariableDeclarator {
				declarePattern(d.ChildByField("name"), cur, kind)
			}
		}
		b.children(n, cur)

	case ast.KindImportStatement:
		declareImports(n, cur)

	default:
		b.children(n, cur)
	}
}

func (b *builder) function(n *ast.Node, cur *Scope) {
	name := n.ChildByField("name")
	named := name != nil && name.Kind == ast.KindIdentifier
	if named && bindsOutside(n) {
		cur.declare(name.Text, BindFunction, name)
	}
	parent := cur
	if named && n.Kind.IsFunctionExpression() {
		// The name scope sits between the enclosing scope and the
		// parameters, so a parameter may shadow the function's own name.
		parent = b.open(KindName, name, cur)
		parent.declare(name.Text, BindFunction, name)
	}
	fs := b.open(KindFunction, n, parent)
	for _, p := range n.Params() {
		declarePattern(p, fs, BindParam)
	}
	b.body(n.Body(), n, fs)
}

// body visits the children of n in scope s. A statement block occupying the
// body field shares s instead of opening a block scope of its own.
func (b *builder) body(body, n *ast.Node, s *Scope) {
	for _, c := range n.Children {
		if c == body && c.Kind == ast.KindStatementBlock {
			b.children(c, s)
			continue
		}
		b.visit(c, s)
	}
}

func (b *builder) forIn(n *ast.Node, cur *Scope) {
	left := n.ChildByField("left")
	kind := n.ChildByField("kind")
	if kind == nil || left == nil {
		b.children(n, cur)
		return
	}
	switch kind.Text {
	case "var":
		declarePattern(left, cur.hoistTarget(), BindVar)
		b.children(n, cur)
	case "let", "const":
		fs := b.open(KindFor, n, cur)
		bk := BindLet
		if kind.Text == "const" {
			bk = BindConst
		}
		declarePattern(left, fs, bk)
		b.children(n, fs)
	default:
		b.children(n, cur)
	}
}

// declarePattern binds every name introduced by a binding pattern.
func declarePattern(p *ast.Node, s *Scope, kind BindingKind) {
	if p == nil {
		return
	}
	switch p.Kind {
	case ast.KindIdentifier, ast.KindShorthandPropertyIdentifierPattern:
		s.declare(p.Text, kind, p)
	case ast.KindUndefined:
		// `undefined` has its own grammar kind but is an ordinary name.
		s.declare("undefined", kind, p)
	case ast.KindObjectPattern, ast.KindArrayPattern:
		for _, c := range p.NamedChildren() {
			declarePattern(c, s, kind)
		}
	case ast.KindPairPattern:
		declarePattern(p.ChildByField("value"), s, kind)
	case ast.KindAssignmentPattern, ast.KindObjectAssignmentPattern:
		declarePattern(p.ChildByField("left"), s, kind)
	case ast.KindRestPattern:
		declarePattern(p.FirstNamed(), s, kind)
	default:
		if paramWrappers[p.Type] {
			declarePattern(p.ChildByField("pattern"), s, kind)
		}
	}
}

func declareImports(n *ast.Node, s *Scope) {
	ast.Walk(n, func(c *ast.Node) bool {
		switch c.Kind {
		case ast.KindImportSpecifier:
			local := c.ChildByField("alias")
			if local == nil {
				local = c.ChildByField("name")
			}
			if local != nil && local.Kind == ast.KindIdentifier {
				s.declare(local.Text, BindImport, local)
			}
			return false
		case ast.KindIdentifier:
			// default import or the name of a namespace import
			s.declare(c.Text, BindImport, c)
			return false
		case ast.KindString:
			return false
		}
		return true
	})
}
