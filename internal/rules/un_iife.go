package rules

import (
	"log/slog"

	"github.com/DeusData/unminify/internal/ast"
	"github.com/DeusData/unminify/internal/rename"
	"github.com/DeusData/unminify/internal/rule"
	"github.com/DeusData/unminify/internal/scope"
)

// UnIIFE recovers names and inlines literals for top-level immediately invoked
// function expressions:
//
//	(function(w, a) { ... })(window, 5)
//
// becomes
//
//	(function(window) { const a = 5; ... })(window)
var UnIIFE = rule.Rule{
	ID:          "un-iife",
	Description: "restore IIFE parameter names from arguments and inline literal arguments",
	Transform:   unIIFE,
}

func unIIFE(root *ast.Node, _ *rule.Context) error {
	for _, stmt := range root.Children {
		call, callee := matchIIFE(stmt)
		if call == nil {
			continue
		}
		rewriteIIFE(call, callee)
	}
	return nil
}

// matchIIFE returns the call and callee of a statement shaped like
// `(function(p, ...) {...})(args)`.
func matchIIFE(stmt *ast.Node) (call, callee *ast.Node) {
	if stmt.Kind != ast.KindExpressionStatement {
		return nil, nil
	}
	call = stmt.FirstNamed().Unparen()
	if call == nil || call.Kind != ast.KindCallExpression {
		return nil, nil
	}
	callee = call.ChildByField("function").Unparen()
	if callee == nil || !callee.Kind.IsFunctionExpression() || len(callee.Params()) == 0 {
		return nil, nil
	}
	return call, callee
}

func rewriteIIFE(call, callee *ast.Node) {
	params := callee.Params()
	argList := call.ChildByField("arguments")
	args := ast.ListItems(argList)
	tree := scope.Build(callee)

	// Right to left, so removing a pair never shifts the pairs still to visit.
	for i := len(params) - 1; i >= 0; i-- {
		p := params[i]
		id := paramName(p)
		if id == nil || ast.JSLength(id.Text) != 1 {
			continue
		}
		if i >= len(args) || spreadBefore(args, i) {
			continue
		}
		arg := args[i]
		switch {
		case arg.Kind == ast.KindIdentifier && arg.Text != id.Text && ast.JSLength(arg.Text) > 1:
			if tree.ScopeFor(callee).Own(id.Text) == nil {
				continue
			}
			if rename.Collides(tree, callee, id.Text, arg.Text) {
				slog.Debug("iife.rename.skip", "param", id.Text, "arg", arg.Text, "reason", "capture")
				continue
			}
			rename.InScope(tree, callee, id.Text, arg.Text)
			tree = scope.Build(callee)

		case arg.Kind.IsLiteral():
			body := callee.Body()
			if body == nil || body.Kind != ast.KindStatementBlock {
				continue
			}
			if ast.Any(body, isArgumentsRef) {
				continue
			}
			b := tree.ScopeFor(callee).Own(id.Text)
			if b == nil || len(b.Decls) > 1 {
				continue
			}
			kind, ok := inlineKind(callee, id, rename.Sites(tree, callee, id.Text))
			if !ok {
				continue
			}
			removeParam(callee, p)
			ast.RemoveListItem(argList, arg)
			body.InsertChild(prologueEnd(body), ast.LexicalDeclaration(kind, id.Text, arg))
			tree = scope.Build(callee)
		}
	}
}

// paramName returns the identifier bound by a plain parameter: `a`, or a
// TypeScript `a` with no annotation, default or modifier.
func paramName(p *ast.Node) *ast.Node {
	if p.Kind == ast.KindIdentifier {
		return p
	}
	if p.Type != "required_parameter" || len(p.Children) != 1 {
		return nil
	}
	if id := p.ChildByField("pattern"); id != nil && id.Kind == ast.KindIdentifier {
		return id
	}
	return nil
}

// inlineKind picks the declaration keyword for an inlined parameter. It
// reports false when another parameter's default reads the parameter, since
// the value would no longer be in scope there.
func inlineKind(callee, id *ast.Node, sites []*ast.Node) (string, bool) {
	params := callee.ChildByField("parameters")
	kind := "const"
	for _, s := range sites {
		if s == id {
			continue
		}
		if params != nil && params.IsAncestorOf(s) {
			return "", false
		}
		if isWrite(s) {
			kind = "let"
		}
	}
	return kind, true
}

func spreadBefore(args []*ast.Node, i int) bool {
	for _, a := range args[:i+1] {
		if a.Kind == ast.KindSpreadElement {
			return true
		}
	}
	return false
}

func isArgumentsRef(n *ast.Node) bool {
	return n.Kind == ast.KindIdentifier && n.Text == "arguments"
}

// removeParam drops p from the callee's signature. A bare arrow parameter
// becomes an empty parameter list.
func removeParam(callee, p *ast.Node) {
	if p.Field == "parameter" {
		empty := ast.New(ast.KindFormalParameters, ast.Token("("), ast.Token(")"))
		p.Replace(empty)
		empty.Field = "parameters"
		return
	}
	ast.RemoveListItem(callee.ChildByField("parameters"), p)
}

// prologueEnd returns the child index of body just past its directive
// prologue ("use strict" and friends).
func prologueEnd(body *ast.Node) int {
	at := 0
	for i, c := range body.Children {
		switch {
		case c.Is("{"):
			at = i + 1
		case c.Kind == ast.KindComment:
		case isDirective(c):
			at = i + 1
		default:
			return at
		}
	}
	return at
}

func isDirective(n *ast.Node) bool {
	if n.Kind != ast.KindExpressionStatement {
		return false
	}
	named := n.NamedChildren()
	return len(named) == 1 && named[0].Kind == ast.KindString
}

// isWrite reports whether the identifier n is assigned to.
func isWrite(n *ast.Node) bool {
	c := n
	for p := n.Parent; p != nil; c, p = p, p.Parent {
		switch p.Kind {
		case ast.KindAssignmentExpression, ast.KindAugmentedAssignmentExpression, ast.KindForInStatement:
			return c.Field == "left"
		case ast.KindUpdateExpression:
			return true
		case ast.KindAssignmentPattern, ast.KindObjectAssignmentPattern:
			if c.Field == "right" {
				return false
			}
		case ast.KindObjectPattern, ast.KindArrayPattern, ast.KindPairPattern, ast.KindRestPattern:
		default:
			return false
		}
	}
	return false
}
