package parser

import (
	tree_sitter "github.com/tree-sitter/go-tree-sitter"

	"github.com/DeusData/unminify/internal/ast"
)

// atomicTypes are named grammar kinds kept as one leaf holding their source
// text; nothing inside them can be renamed and their spelling must survive.
var atomicTypes = map[string]bool{
	"string":         true,
	"number":         true,
	"regex":          true,
	"comment":        true,
	"hash_bang_line": true,
	"html_comment":   true,
	"jsx_text":       true,
}

func position(p tree_sitter.Point, offset uint) ast.Position {
	return ast.Position{
		Line:   safeRowToLine(p.Row),
		Column: int(p.Column),
		Offset: int(offset),
	}
}

func safeRowToLine(row uint) int {
	const maxInt = int(^uint(0) >> 1)
	if row > uint(maxInt-1) {
		return maxInt
	}
	return int(row) + 1
}

// convert copies a tree-sitter subtree into an ast subtree. Zero-width
// anonymous tokens (automatic semicolons) are dropped.
func convert(n *tree_sitter.Node, source []byte, field string) *ast.Node {
	out := &ast.Node{
		Field: field,
		Start: position(n.StartPosition(), n.StartByte()),
		End:   position(n.EndPosition(), n.EndByte()),
	}
	if !n.IsNamed() {
		out.Kind = ast.KindToken
		out.Text = NodeText(n, source)
		return out
	}

	typ := n.Kind()
	out.Type = typ
	out.Kind = ast.KindOf(typ)
	if n.ChildCount() == 0 || atomicTypes[typ] {
		out.Text = NodeText(n, source)
		return out
	}

	if out.Kind == ast.KindTemplateString {
		convertTemplate(out, n, source)
		return out
	}

	for i := uint(0); i < n.ChildCount(); i++ {
		child := n.Child(i)
		if child == nil || (!child.IsNamed() && child.StartByte() == child.EndByte()) {
			continue
		}
		out.Append(convert(child, source, n.FieldNameForChild(uint32(i))))
	}
	return out
}

// convertTemplate keeps the raw characters between a template's children so
// that printing reproduces the literal exactly.
func convertTemplate(out *ast.Node, n *tree_sitter.Node, source []byte) {
	pos := n.StartByte()
	gap := func(end uint) {
		if end > pos {
			out.Append(&ast.Node{Kind: ast.KindOther, Type: "template_chars", Text: string(source[pos:end])})
		}
	}
	for i := uint(0); i < n.ChildCount(); i++ {
		child := n.Child(i)
		if child == nil {
			continue
		}
		gap(child.StartByte())
		out.Append(convert(child, source, n.FieldNameForChild(uint32(i))))
		pos = child.EndByte()
	}
	gap(n.EndByte())
}
