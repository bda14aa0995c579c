// Package printer serializes an ast tree back to readable source text.
//
// The tree keeps every token, so printing is a walk over the leaves. Layout is
// decided here: one statement per line, blocks indented, spacing between
// tokens chosen so that adjacent tokens never fuse into a different token.
package printer

import (
	"strings"

	"github.com/DeusData/unminify/internal/ast"
)

const indentUnit = "  "

// Print renders the tree rooted at root.
func Print(root *ast.Node) string {
	p := &printer{}
	p.node(root)
	out := strings.TrimRight(p.sb.String(), " \n")
	if out == "" {
		return ""
	}
	return out + "\n"
}

type printer struct {
	sb          strings.Builder
	indent      int
	last        *ast.Node // last emitted leaf, nil at the start of a line
	lastText    string
	pendingLine bool // a line comment was emitted; the next token starts a new line
}

// semicolonKinds end with a semicolon that the source may have left to ASI.
var semicolonKinds = map[string]bool{
	"expression_statement": true,
	"variable_declaration": true,
	"lexical_declaration":  true,
	"return_statement":     true,
	"throw_statement":      true,
	"break_statement":      true,
	"continue_statement":   true,
	"debugger_statement":   true,
	"do_statement":         true,
	"import_statement":     true,
}

func (p *printer) node(n *ast.Node) {
	switch n.Kind {
	case ast.KindProgram:
		p.statements(n.Children)
		return
	case ast.KindStatementBlock, ast.KindClassBody, ast.KindSwitchBody:
		p.block(n)
		return
	case ast.KindComment:
		p.comment(n)
		return
	case ast.KindTemplateString:
		p.template(n)
		return
	}
	if n.Type == "switch_case" || n.Type == "switch_default" {
		p.switchCase(n)
		return
	}
	if n.IsLeaf() {
		p.leaf(n)
		return
	}
	for _, c := range n.Children {
		p.node(c)
	}
	if needsSemicolon(n) && !ast.LastLeaf(n).Is(";") {
		p.emit(";", nil)
	}
}

func needsSemicolon(n *ast.Node) bool {
	if n.Type == "export_statement" {
		return n.ChildByField("declaration") == nil
	}
	return semicolonKinds[n.Type]
}

// statements prints each statement on its own line. A lone ";" token that
// trails a member (class bodies) stays on that member's line.
func (p *printer) statements(stmts []*ast.Node) {
	for _, s := range stmts {
		if s.Is(";") && p.last != nil {
			p.emit(";", s)
			continue
		}
		p.newline()
		p.node(s)
	}
}

func (p *printer) block(n *ast.Node) {
	open, close := -1, -1
	for i, c := range n.Children {
		if c.Is("{") && open < 0 {
			open = i
		}
		if c.Is("}") {
			close = i
		}
	}
	if open < 0 || close < open {
		for _, c := range n.Children {
			p.node(c)
		}
		return
	}
	for _, c := range n.Children[:open] {
		p.node(c)
	}
	p.emit("{", n.Children[open])
	inner := n.Children[open+1 : close]
	if len(inner) == 0 {
		p.emit("}", n.Children[close])
		return
	}
	p.indent++
	p.statements(inner)
	p.indent--
	p.newline()
	p.emit("}", n.Children[close])
	for _, c := range n.Children[close+1:] {
		p.node(c)
	}
}

// switchCase prints `case x:` on one line and the consequent statements indented below it.
func (p *printer) switchCase(n *ast.Node) {
	colon := -1
	for i, c := range n.Children {
		if c.Is(":") {
			colon = i
			break
		}
	}
	if colon < 0 {
		for _, c := range n.Children {
			p.node(c)
		}
		return
	}
	for _, c := range n.Children[:colon+1] {
		p.node(c)
	}
	p.indent++
	p.statements(n.Children[colon+1:])
	p.indent--
}

// template writes a template literal verbatim except for its substitutions.
func (p *printer) template(n *ast.Node) {
	p.space(n, "`")
	for _, c := range n.Children {
		if c.Kind == ast.KindTemplateSubstitution {
			for _, sc := range c.Children {
				switch {
				case sc.Is("${"):
					p.sb.WriteString("${")
					p.last, p.lastText = sc, "${"
				case sc.Is("}"):
					p.sb.WriteString("}")
					p.last, p.lastText = sc, "}"
				default:
					p.node(sc)
				}
			}
			continue
		}
		p.sb.WriteString(c.Text)
		p.last, p.lastText = c, c.Text
	}
	p.last, p.lastText = n, "`"
}

func (p *printer) comment(n *ast.Node) {
	text := n.Text
	lineComment := strings.HasPrefix(text, "//")
	if lineComment && !statementLevel(n) {
		if strings.Contains(text, "*/") {
			return
		}
		text = "/*" + strings.TrimRight(text[2:], " \r") + " */"
		lineComment = false
	}
	p.emit(text, n)
	if lineComment {
		p.pendingLine = true
	}
}

// statementLevel reports whether a comment sits between statements, where a
// line break cannot change the meaning of the program.
func statementLevel(n *ast.Node) bool {
	if n.Parent == nil {
		return true
	}
	switch n.Parent.Kind {
	case ast.KindProgram, ast.KindStatementBlock, ast.KindClassBody, ast.KindSwitchBody:
		return true
	}
	return n.Parent.Type == "switch_case" || n.Parent.Type == "switch_default"
}

func (p *printer) leaf(n *ast.Node) {
	if n.Text == "" {
		return
	}
	p.emit(n.Text, n)
}

func (p *printer) newline() {
	if p.sb.Len() == 0 && p.last == nil {
		return
	}
	p.sb.WriteByte('\n')
	for range p.indent {
		p.sb.WriteString(indentUnit)
	}
	p.last, p.lastText = nil, ""
	p.pendingLine = false
}

func (p *printer) emit(text string, n *ast.Node) {
	p.space(n, text)
	p.sb.WriteString(text)
	p.last, p.lastText = n, text
}

// space writes the separator needed before text, if any.
func (p *printer) space(n *ast.Node, text string) {
	if p.pendingLine {
		p.newline()
	}
	if p.last == nil && p.lastText == "" {
		return
	}
	if needSpace(p.last, p.lastText, n, text) {
		p.sb.WriteByte(' ')
	}
}
