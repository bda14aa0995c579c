package rules

import (
	"strconv"

	"github.com/DeusData/unminify/internal/ast"
	"github.com/DeusData/unminify/internal/rule"
	"github.com/DeusData/unminify/internal/scope"
)

// ModuleMapping rewrites `require(<id>)` calls whose id is in the context's
// module mapping to `require("<name>")`.
var ModuleMapping = rule.Rule{
	ID:          "module-mapping",
	Description: "replace numeric require() ids with mapped module names",
	Transform:   moduleMapping,
}

func moduleMapping(root *ast.Node, ctx *rule.Context) error {
	if ctx == nil || len(ctx.ModuleMapping) == 0 {
		return nil
	}
	calls := ast.Find(root, func(n *ast.Node) bool {
		if n.Kind != ast.KindCallExpression {
			return false
		}
		fn := n.ChildByField("function")
		return fn != nil && fn.Kind == ast.KindIdentifier && fn.Text == "require"
	})
	if len(calls) == 0 {
		return nil
	}
	tree := scope.Build(root)
	for _, call := range calls {
		if tree.Resolve(call.ChildByField("function")) != nil {
			continue
		}
		args := ast.ListItems(call.ChildByField("arguments"))
		if len(args) != 1 {
			continue
		}
		id, ok := moduleID(args[0])
		if !ok {
			continue
		}
		name, ok := ctx.ModuleName(id)
		if !ok {
			continue
		}
		args[0].Replace(ast.Leaf(ast.KindString, strconv.Quote(name)))
	}
	return nil
}

func moduleID(n *ast.Node) (string, bool) {
	switch n.Kind {
	case ast.KindNumber:
		return n.Text, true
	case ast.KindString:
		if len(n.Text) < 2 {
			return "", false
		}
		return n.Text[1 : len(n.Text)-1], true
	}
	return "", false
}
