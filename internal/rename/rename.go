// Package rename renames a binding throughout its lexical extent.
package rename

import (
	"github.com/DeusData/unminify/internal/ast"
	"github.com/DeusData/unminify/internal/scope"
)

// Sites returns the identifiers under target named old that resolve to the
// binding of old declared in target's own scope. Member-access properties and
// names belonging to another module are never sites.
func Sites(tree *scope.Tree, target *ast.Node, old string) []*ast.Node {
	own := tree.ScopeFor(target)
	if own == nil || own.Own(old) == nil {
		return nil
	}
	var sites []*ast.Node
	ast.Walk(target, func(n *ast.Node) bool {
		if !nameLeaf(n) || n.Text != old || !candidate(n) {
			return true
		}
		if b := scope.Lookup(tree.ScopeOf(n), old); b != nil && b.Scope == own {
			sites = append(sites, n)
		}
		return true
	})
	return sites
}

// InScope renames every site of old under target to name and returns the
// number of renamed sites. Shorthand properties and module specifiers are
// expanded so that property keys and exported names stay as they were.
func InScope(tree *scope.Tree, target *ast.Node, old, name string) int {
	if old == name {
		return 0
	}
	sites := Sites(tree, target, old)
	for _, s := range sites {
		apply(s, old, name)
	}
	return len(sites)
}

// Collides reports whether renaming old to name under target would capture a
// reference: some site would then resolve name to a binding declared inside
// target instead of the one being renamed.
func Collides(tree *scope.Tree, target *ast.Node, old, name string) bool {
	own := tree.ScopeFor(target)
	if own == nil {
		return false
	}
	for _, s := range Sites(tree, target, old) {
		b := scope.Lookup(tree.ScopeOf(s), name)
		if b != nil && own.Encloses(b.Scope) {
			return true
		}
	}
	return false
}

func nameLeaf(n *ast.Node) bool {
	switch n.Kind {
	case ast.KindIdentifier, ast.KindShorthandPropertyIdentifier, ast.KindShorthandPropertyIdentifierPattern:
		return true
	}
	return false
}

// candidate filters out identifier-like leaves that name something other than
// a lexical binding.
func candidate(n *ast.Node) bool {
	p := n.Parent
	if p == nil {
		return true
	}
	switch {
	case n.Field == "property" && p.Kind == ast.KindMemberExpression:
		return false
	case p.Kind == ast.KindImportSpecifier:
		// `import {a as b}`: a is the other module's name.
		return n.Field == "alias" || p.ChildByField("alias") == nil
	case p.Kind == ast.KindExportSpecifier:
		// `export {a as b}`: b is the exported name; re-exports name no local.
		if n.Field == "alias" {
			return false
		}
		return !reexport(p)
	}
	return true
}

func reexport(spec *ast.Node) bool {
	for p := spec.Parent; p != nil; p = p.Parent {
		if p.Kind == ast.KindExportStatement {
			return p.ChildByField("source") != nil
		}
	}
	return false
}

func apply(n *ast.Node, old, name string) {
	p := n.Parent
	switch {
	case n.Kind == ast.KindShorthandPropertyIdentifier:
		// {a} -> {a: name}
		n.Replace(ast.New(ast.KindPair,
			ast.Leaf(ast.KindPropertyIdentifier, old).WithField("key"),
			ast.Token(":"),
			ast.Ident(name).WithField("value"),
		))

	case n.Kind == ast.KindShorthandPropertyIdentifierPattern && p != nil && p.Kind == ast.KindObjectAssignmentPattern:
		// {a = 1} -> {a: name = 1}
		right := p.ChildByField("right")
		value := ast.New(ast.KindAssignmentPattern, ast.Ident(name).WithField("left"), ast.Token("="))
		if right != nil {
			right.Detach()
			value.Append(right.WithField("right"))
		}
		p.Replace(ast.New(ast.KindPairPattern,
			ast.Leaf(ast.KindPropertyIdentifier, old).WithField("key"),
			ast.Token(":"),
			value.WithField("value"),
		))

	case n.Kind == ast.KindShorthandPropertyIdentifierPattern:
		// const {a} = o -> const {a: name} = o
		n.Replace(ast.New(ast.KindPairPattern,
			ast.Leaf(ast.KindPropertyIdentifier, old).WithField("key"),
			ast.Token(":"),
			ast.Ident(name).WithField("value"),
		))

	case p != nil && p.Kind == ast.KindImportSpecifier && n.Field == "name":
		// import {a} -> import {a as name}
		i := n.Index()
		p.InsertChild(i+1, ast.Token("as"))
		p.InsertChild(i+2, ast.Ident(name).WithField("alias"))

	case p != nil && p.Kind == ast.KindExportSpecifier && p.ChildByField("alias") == nil:
		// export {a} -> export {name as a}
		n.Text = name
		i := n.Index()
		p.InsertChild(i+1, ast.Token("as"))
		p.InsertChild(i+2, ast.Ident(old).WithField("alias"))

	default:
		n.Text = name
	}
}
