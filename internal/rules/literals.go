package rules

import (
	"github.com/DeusData/unminify/internal/ast"
	"github.com/DeusData/unminify/internal/rule"
	"github.com/DeusData/unminify/internal/scope"
)

// UnBoolean turns `!0` into `true` and `!1` into `false`.
var UnBoolean = rule.Rule{
	ID:          "un-boolean",
	Description: "replace !0 and !1 with true and false",
	Transform: func(root *ast.Node, _ *rule.Context) error {
		for _, n := range ast.Find(root, isUnary("!")) {
			arg := n.ChildByField("argument")
			if arg == nil || arg.Kind != ast.KindNumber {
				continue
			}
			switch arg.Text {
			case "0":
				n.Replace(ast.Leaf(ast.KindTrue, "true"))
			case "1":
				n.Replace(ast.Leaf(ast.KindFalse, "false"))
			}
		}
		return nil
	},
}

// UnInfinity turns `1/0` into `Infinity` and `-1/0` into `-Infinity`.
var UnInfinity = rule.Rule{
	ID:          "un-infinity",
	Description: "replace 1/0 and -1/0 with Infinity",
	Transform: func(root *ast.Node, _ *rule.Context) error {
		var tree *scope.Tree
		for _, n := range ast.Find(root, isBinary("/")) {
			right := n.ChildByField("right")
			if right == nil || right.Kind != ast.KindNumber || right.Text != "0" {
				continue
			}
			left := n.ChildByField("left")
			negative := false
			if left != nil && isUnary("-")(left) {
				negative = true
				left = left.ChildByField("argument")
			}
			if left == nil || left.Kind != ast.KindNumber || left.Text != "1" {
				continue
			}
			if tree == nil {
				tree = scope.Build(root)
			}
			if scope.Lookup(tree.ScopeOf(n), "Infinity") != nil {
				continue
			}
			with := ast.Ident("Infinity")
			if negative {
				with = ast.New(ast.KindUnaryExpression,
					ast.Token("-").WithField("operator"),
					with.WithField("argument"),
				)
			}
			n.Replace(with)
		}
		return nil
	},
}

// UnVoidZero turns `void 0` into `undefined` where undefined is not shadowed.
var UnVoidZero = rule.Rule{
	ID:          "un-void-zero",
	Description: "replace void 0 with undefined",
	Transform: func(root *ast.Node, _ *rule.Context) error {
		var tree *scope.Tree
		for _, n := range ast.Find(root, isUnary("void")) {
			arg := n.ChildByField("argument")
			if arg == nil || arg.Kind != ast.KindNumber || arg.Text != "0" {
				continue
			}
			if tree == nil {
				tree = scope.Build(root)
			}
			if scope.Lookup(tree.ScopeOf(n), "undefined") != nil {
				continue
			}
			n.Replace(ast.Leaf(ast.KindUndefined, "undefined"))
		}
		return nil
	},
}

// UnTypeof expands the minified undefined checks `typeof x > "u"` and
// `typeof x < "u"`.
var UnTypeof = rule.Rule{
	ID:          "un-typeof",
	Description: `replace typeof x > "u" with typeof x === "undefined"`,
	Transform: func(root *ast.Node, _ *rule.Context) error {
		for _, n := range ast.Find(root, func(n *ast.Node) bool {
			return isBinary(">")(n) || isBinary("<")(n)
		}) {
			left, right := n.ChildByField("left"), n.ChildByField("right")
			if left == nil || !isUnary("typeof")(left) || right == nil || right.Kind != ast.KindString {
				continue
			}
			if right.Text != `"u"` && right.Text != `'u'` {
				continue
			}
			op := n.ChildByField("operator")
			if op.Text == ">" {
				op.Text = "==="
			} else {
				op.Text = "!=="
			}
			quote := right.Text[:1]
			right.Replace(ast.Leaf(ast.KindString, quote+"undefined"+quote))
		}
		return nil
	},
}

func operator(n *ast.Node) string {
	if op := n.ChildByField("operator"); op != nil {
		return op.Text
	}
	return ""
}

func isUnary(op string) func(*ast.Node) bool {
	return func(n *ast.Node) bool {
		return n.Kind == ast.KindUnaryExpression && operator(n) == op
	}
}

func isBinary(op string) func(*ast.Node) bool {
	return func(n *ast.Node) bool {
		return n.Kind == ast.KindBinaryExpression && operator(n) == op
	}
}
