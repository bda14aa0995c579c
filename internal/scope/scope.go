// Package scope builds the lexical scope model of an ast tree.
//
// A Tree is a snapshot: it is never updated when the ast is mutated. Code that
// renames or adds declarations and then needs fresh answers must call Build
// again.
package scope

import (
	"slices"

	"github.com/DeusData/unminify/internal/ast"
)

// Kind classifies what introduced a scope.
type Kind uint8

const (
	KindProgram Kind = iota
	KindFunction
	KindBlock
	KindCatch
	KindFor
	KindClass
	KindName // the name of a function expression, visible only inside it
)

var kindNames = [...]string{"program", "function", "block", "catch", "for", "class", "name"}

func (k Kind) String() string {
	if int(k) < len(kindNames) {
		return kindNames[k]
	}
	return "unknown"
}

// BindingKind is the declaration form that created a binding.
type BindingKind uint8

const (
	BindVar BindingKind = iota
	BindLet
	BindConst
	BindParam
	BindFunction
	BindClass
	BindImport
	BindCatch
)

var bindingKindNames = [...]string{"var", "let", "const", "param", "function", "class", "import", "catch"}

func (k BindingKind) String() string {
	if int(k) < len(bindingKindNames) {
		return bindingKindNames[k]
	}
	return "unknown"
}

// Binding associates a name with its declaring identifiers in one scope.
type Binding struct {
	Name  string
	Kind  BindingKind
	Decls []*ast.Node // declaring identifiers, in source order
	Scope *Scope
}

// Scope is one lexical region.
type Scope struct {
	Kind     Kind
	Node     *ast.Node
	Parent   *Scope // nil for the root
	Children []*Scope

	bindings map[string]*Binding
	order    []string
}

// Own returns the binding declared directly in s, or nil.
func (s *Scope) Own(name string) *Binding {
	return s.bindings[name]
}

// Bindings returns a copy of the scope's own declarations.
func (s *Scope) Bindings() map[string]*Binding {
	out := make(map[string]*Binding, len(s.bindings))
	for name, b := range s.bindings {
		out[name] = b
	}
	return out
}

// Names returns the scope's own declared names in declaration order.
func (s *Scope) Names() []string {
	return slices.Clone(s.order)
}

// Depth is the number of ancestors of s.
func (s *Scope) Depth() int {
	d := 0
	for p := s.Parent; p != nil; p = p.Parent {
		d++
	}
	return d
}

// Encloses reports whether s is other or one of its ancestors.
func (s *Scope) Encloses(other *Scope) bool {
	for p := other; p != nil; p = p.Parent {
		if p == s {
			return true
		}
	}
	return false
}

func (s *Scope) declare(name string, kind BindingKind, decl *ast.Node) {
	if name == "" {
		return
	}
	if b, ok := s.bindings[name]; ok {
		b.Decls = append(b.Decls, decl)
		return
	}
	s.bindings[name] = &Binding{Name: name, Kind: kind, Decls: []*ast.Node{decl}, Scope: s}
	s.order = append(s.order, name)
}

// hoistTarget returns the nearest function or program scope, where var
// declarations land.
func (s *Scope) hoistTarget() *Scope {
	for p := s; p != nil; p = p.Parent {
		if p.Kind == KindFunction || p.Kind == KindProgram {
			return p
		}
	}
	return s
}

// Lookup walks outward from s and returns the first binding of name, or nil.
func Lookup(s *Scope, name string) *Binding {
	for p := s; p != nil; p = p.Parent {
		if b := p.bindings[name]; b != nil {
			return b
		}
	}
	return nil
}

// Tree is the scope model of one ast subtree.
type Tree struct {
	Root *Scope

	byNode map[*ast.Node]*Scope
}

// ScopeFor returns the scope introduced by n, or nil if n introduces none.
func (t *Tree) ScopeFor(n *ast.Node) *Scope {
	return t.byNode[n]
}

// ScopeOf returns the scope a name at n resolves from. The name of a function
// or class declaration resolves from the scope enclosing the declaration.
func (t *Tree) ScopeOf(n *ast.Node) *Scope {
	if n == nil {
		return t.Root
	}
	start := n
	if n.Field == "name" && n.Parent != nil && bindsOutside(n.Parent) {
		start = n.Parent.Parent
	}
	for p := start; p != nil; p = p.Parent {
		if s := t.byNode[p]; s != nil {
			return s
		}
	}
	return t.Root
}

// Resolve returns the binding the identifier n refers to, or nil for a free name.
func (t *Tree) Resolve(n *ast.Node) *Binding {
	return Lookup(t.ScopeOf(n), n.Text)
}

// Walk visits every scope depth first, parents before children.
func (t *Tree) Walk(fn func(*Scope)) {
	var visit func(*Scope)
	visit = func(s *Scope) {
		fn(s)
		for _, c := range s.Children {
			visit(c)
		}
	}
	visit(t.Root)
}

func bindsOutside(decl *ast.Node) bool {
	switch decl.Kind {
	case ast.KindFunctionDeclaration, ast.KindGeneratorFunctionDeclaration, ast.KindClassDeclaration:
		return true
	}
	return false
}
