// Command ast_debug dumps the tree-sitter tree, the converted AST and the
// scope tree of a JavaScript file, for debugging rules.
package main

import (
	"fmt"
	"io"
	"os"
	"path/filepath"
	"slices"
	"strings"

	"github.com/spf13/cobra"
	tree_sitter "github.com/tree-sitter/go-tree-sitter"

	"github.com/DeusData/unminify/internal/ast"
	"github.com/DeusData/unminify/internal/lang"
	"github.com/DeusData/unminify/internal/parser"
	"github.com/DeusData/unminify/internal/scope"
)

func printCST(w io.Writer, node *tree_sitter.Node, source []byte, indent int) {
	if node == nil {
		return
	}
	text := parser.NodeText(node, source)
	if len(text) > 60 {
		text = text[:60] + "..."
	}
	fmt.Fprintf(w, "%s%s %q\n", strings.Repeat("  ", indent), node.Kind(), text)
	for i := uint(0); i < node.ChildCount(); i++ {
		printCST(w, node.Child(i), source, indent+1)
	}
}

func printAST(w io.Writer, n *ast.Node, indent int) {
	prefix := strings.Repeat("  ", indent)
	field := ""
	if n.Field != "" {
		field = n.Field + ": "
	}
	switch {
	case n.IsToken():
		fmt.Fprintf(w, "%s%s%q\n", prefix, field, n.Text)
	case n.IsLeaf():
		fmt.Fprintf(w, "%s%s%s %q @%d:%d\n", prefix, field, n.Type, n.Text, n.Start.Line, n.Start.Column)
	default:
		fmt.Fprintf(w, "%s%s%s @%d:%d\n", prefix, field, n.Type, n.Start.Line, n.Start.Column)
	}
	for _, c := range n.Children {
		printAST(w, c, indent+1)
	}
}

func printScopes(w io.Writer, s *scope.Scope, indent int) {
	prefix := strings.Repeat("  ", indent)
	if s.Node != nil {
		fmt.Fprintf(w, "%s%s scope @%d:%d\n", prefix, s.Kind, s.Node.Start.Line, s.Node.Start.Column)
	} else {
		fmt.Fprintf(w, "%s%s scope\n", prefix, s.Kind)
	}
	names := s.Names()
	slices.Sort(names)
	for _, name := range names {
		b := s.Own(name)
		fmt.Fprintf(w, "%s  %s %s (%d decl)\n", prefix, b.Kind, name, len(b.Decls))
	}
	for _, c := range s.Children {
		printScopes(w, c, indent+1)
	}
}

func main() {
	var (
		language string
		expr     string
		cst      bool
	)
	cmd := &cobra.Command{
		Use:   "ast_debug [file]",
		Short: "Dump the syntax and scope trees of a JavaScript file",
		Args:  cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			source := []byte(expr)
			l := lang.Language(language)
			if len(args) == 1 {
				data, err := os.ReadFile(args[0])
				if err != nil {
					return err
				}
				source = data
				if ext, ok := lang.LanguageForExtension(filepath.Ext(args[0])); ok && !cmd.Flags().Changed("lang") {
					l = ext
				}
			}
			out := cmd.OutOrStdout()

			if cst {
				tree, err := parser.ParseTree(l, source)
				if err != nil {
					return err
				}
				defer tree.Close()
				fmt.Fprintln(out, "=== TREE-SITTER ===")
				printCST(out, tree.RootNode(), source, 0)
				fmt.Fprintln(out)
			}

			root, err := parser.Parse(l, source)
			if err != nil {
				return err
			}
			fmt.Fprintln(out, "=== AST ===")
			printAST(out, root, 0)
			fmt.Fprintln(out, "\n=== SCOPES ===")
			printScopes(out, scope.Build(root).Root, 0)
			return nil
		},
	}
	cmd.Flags().StringVarP(&language, "lang", "l", string(lang.JavaScript), "dialect: javascript, typescript or tsx")
	cmd.Flags().StringVarP(&expr, "eval", "e", "", "source text to dump instead of a file")
	cmd.Flags().BoolVar(&cst, "cst", false, "also dump the raw tree-sitter tree")

	if err := cmd.Execute(); err != nil {
		os.Exit(1)
	}
}
