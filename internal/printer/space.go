package printer

import (
	"strings"

	"github.com/DeusData/unminify/internal/ast"
)

// parenKeywords keep a space before a following "(".
var parenKeywords = map[string]bool{
	"if": true, "for": true, "while": true, "switch": true, "catch": true,
	"with": true, "return": true, "typeof": true, "void": true, "delete": true,
	"await": true, "yield": true, "in": true, "of": true, "instanceof": true,
	"case": true, "throw": true, "else": true, "do": true, "new": true,
	"const": true, "let": true, "var": true, "export": true, "default": true,
	"extends": true, "from": true,
}

// tightAfter never take a space after them.
var tightAfter = map[string]bool{
	"(": true, "[": true, ".": true, "?.": true, "...": true, "${": true,
	"@": true,
}

// tightBefore never take a space before them.
var tightBefore = map[string]bool{
	")": true, "]": true, ",": true, ";": true, ".": true, "?.": true,
}

func wordByte(b byte) bool {
	return b == '_' || b == '$' || b >= 0x80 ||
		('a' <= b && b <= 'z') || ('A' <= b && b <= 'Z') || ('0' <= b && b <= '9')
}

// needSpace decides whether a space separates prev from next on one line.
func needSpace(prev *ast.Node, prevText string, next *ast.Node, nextText string) bool {
	if prevText == "" || nextText == "" {
		return false
	}
	last, first := prevText[len(prevText)-1], nextText[0]

	// Tokens that would fuse.
	if wordByte(last) && wordByte(first) {
		return true
	}
	if (last == '+' && first == '+') || (last == '-' && first == '-') ||
		(last == '/' && (first == '/' || first == '*')) ||
		(last == '<' && first == '!') {
		return true
	}
	if isComment(prev) || isComment(next) {
		return true
	}
	if inJSX(prev) || inJSX(next) {
		return false
	}

	if tightAfter[prevText] || isPrefixOperator(prev) {
		return false
	}
	if nextText == "." && integerLiteral(prev, prevText) {
		return true // 1 .toString(): "1." would lex as a number
	}
	if tightBefore[nextText] || isPostfixOperator(next) {
		return false
	}
	if prevText == "{" && nextText == "}" {
		return false
	}

	switch nextText {
	case "(":
		if wordByte(last) {
			return parenKeywords[prevText]
		}
		return prevText != ")" && prevText != "]" && prevText != "`"
	case "[":
		return next == nil || next.Parent == nil || next.Parent.Kind != ast.KindSubscriptExpression
	case ":":
		return next != nil && next.Parent != nil && next.Parent.Type == "ternary_expression"
	}
	return true
}

// integerLiteral reports a decimal number without fraction or exponent.
func integerLiteral(n *ast.Node, text string) bool {
	if n == nil || n.Kind != ast.KindNumber {
		return false
	}
	for i := range len(text) {
		if c := text[i]; (c < '0' || c > '9') && c != '_' {
			return false
		}
	}
	return true
}

func isComment(n *ast.Node) bool {
	return n != nil && n.Kind == ast.KindComment
}

// inJSX reports whether n is a token of JSX markup, where spacing is content.
func inJSX(n *ast.Node) bool {
	if n == nil || n.Parent == nil {
		return false
	}
	if n.Type == "jsx_text" {
		return true
	}
	t := n.Parent.Type
	return n.IsToken() && strings.HasPrefix(t, "jsx_") && t != "jsx_expression"
}

func isPrefixOperator(n *ast.Node) bool {
	if !n.IsToken() || n.Parent == nil {
		return false
	}
	switch n.Parent.Kind {
	case ast.KindUnaryExpression:
		return n.Index() == 0 && !wordByte(n.Text[0])
	case ast.KindUpdateExpression:
		return n.Index() == 0
	}
	return false
}

func isPostfixOperator(n *ast.Node) bool {
	if !n.IsToken() || n.Parent == nil || n.Parent.Kind != ast.KindUpdateExpression {
		return false
	}
	return n.Index() > 0
}
