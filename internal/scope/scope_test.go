package scope

import (
	"slices"
	"testing"

	"github.com/DeusData/unminify/internal/ast"
	"github.com/DeusData/unminify/internal/lang"
	"github.com/DeusData/unminify/internal/parser"
)

func parse(t *testing.T, l lang.Language, src string) *ast.Node {
	t.Helper()
	root, err := parser.Parse(l, []byte(src))
	if err != nil {
		t.Fatalf("Parse(%q): %v", src, err)
	}
	return root
}

func firstOf(root *ast.Node, k ast.Kind) *ast.Node {
	found := ast.Find(root, func(n *ast.Node) bool { return n.Kind == k })
	if len(found) == 0 {
		return nil
	}
	return found[0]
}

func TestLookupInnermostWins(t *testing.T) {
	root := parse(t, lang.JavaScript, "var a = 1; function f(a) { return a } function g() { return a }")
	tree := Build(root)

	refs := ast.Identifiers(root, "a")
	if len(refs) != 4 {
		t.Fatalf("identifiers named a = %d, want 4", len(refs))
	}
	outer := tree.Root.Own("a")
	if outer == nil || outer.Kind != BindVar {
		t.Fatalf("program binding a = %+v", outer)
	}
	inF := tree.Resolve(refs[2])
	if inF == nil || inF.Kind != BindParam || inF == outer {
		t.Errorf("a inside f resolved to %+v, want the parameter", inF)
	}
	if got := tree.Resolve(refs[3]); got != outer {
		t.Errorf("a inside g resolved to %+v, want the program var", got)
	}
}

func TestBlockShadowing(t *testing.T) {
	root := parse(t, lang.JavaScript, "let x = 1; { let x = 2; x; } x;")
	tree := Build(root)
	refs := ast.Identifiers(root, "x")
	if len(refs) != 4 {
		t.Fatalf("identifiers = %d, want 4", len(refs))
	}
	inner, outer := tree.Resolve(refs[2]), tree.Resolve(refs[3])
	if inner == nil || outer == nil || inner == outer {
		t.Fatalf("inner %+v and outer %+v should be distinct bindings", inner, outer)
	}
	if inner.Scope.Kind != KindBlock || outer.Scope != tree.Root {
		t.Errorf("scopes = %v / %v, want block / program", inner.Scope.Kind, outer.Scope.Kind)
	}
}

func TestVarHoistsToFunction(t *testing.T) {
	root := parse(t, lang.JavaScript, "function f() { if (c) { var v = 1; let l = 2; } }")
	tree := Build(root)
	fs := tree.ScopeFor(firstOf(root, ast.KindFunctionDeclaration))
	if fs == nil || fs.Kind != KindFunction {
		t.Fatalf("function scope = %+v", fs)
	}
	if fs.Own("v") == nil {
		t.Error("var v should bind in the function scope")
	}
	if fs.Own("l") != nil {
		t.Error("let l should not bind in the function scope")
	}
	if tree.Root.Own("f") == nil {
		t.Error("function declaration name should bind in the enclosing scope")
	}
}

func TestFunctionNames(t *testing.T) {
	root := parse(t, lang.JavaScript, "function f() {} var g = function h() { return h }")
	tree := Build(root)

	decl := firstOf(root, ast.KindFunctionDeclaration)
	if got := tree.ScopeOf(decl.ChildByField("name")); got != tree.Root {
		t.Errorf("declaration name resolves from %v, want program", got.Kind)
	}
	expr := firstOf(root, ast.KindFunctionExpression)
	if tree.Root.Own("h") != nil {
		t.Error("function expression name leaked into the program scope")
	}
	fs := tree.ScopeFor(expr)
	if fs.Own("h") != nil {
		t.Error("function expression name should not bind among the parameters")
	}
	if fs.Parent == nil || fs.Parent.Kind != KindName || fs.Parent.Own("h") == nil {
		t.Fatalf("function expression name should bind in a name scope around the function")
	}
	ref := ast.Identifiers(expr.Body(), "h")[0]
	if b := tree.Resolve(ref); b == nil || b.Scope != fs.Parent {
		t.Errorf("h in the body resolves to %+v, want the name binding", b)
	}
}

func TestParameterShadowsFunctionExpressionName(t *testing.T) {
	root := parse(t, lang.JavaScript, "(function w(w) { return w })(window)")
	expr := firstOf(root, ast.KindFunctionExpression)
	tree := Build(expr)

	if tree.Root.Kind != KindName || tree.Root.Own("w") == nil {
		t.Fatalf("root = %v, want the name scope", tree.Root.Kind)
	}
	param := tree.ScopeFor(expr).Own("w")
	if param == nil || param.Kind != BindParam || len(param.Decls) != 1 {
		t.Fatalf("param binding = %+v, want one parameter declaration", param)
	}
	if got := tree.Resolve(expr.ChildByField("name")); got == param {
		t.Error("the function name should not resolve to the parameter")
	}
	ref := ast.Identifiers(expr.Body(), "w")[0]
	if tree.Resolve(ref) != param {
		t.Error("w in the body should resolve to the parameter")
	}
}

func TestParameterPatterns(t *testing.T) {
	root := parse(t, lang.JavaScript, "function f({a, b: c, d = 1}, [e, ...r], g = 2, ...rest) {}")
	tree := Build(root)
	fs := tree.ScopeFor(firstOf(root, ast.KindFunctionDeclaration))
	want := []string{"a", "c", "d", "e", "r", "g", "rest"}
	if got := fs.Names(); !slices.Equal(got, want) {
		t.Errorf("names = %v, want %v", got, want)
	}
	for _, name := range want {
		if b := fs.Own(name); b.Kind != BindParam {
			t.Errorf("%s kind = %v, want param", name, b.Kind)
		}
	}
	if fs.Own("b") != nil {
		t.Error("pair pattern key should not bind")
	}
}

func TestArrowParameter(t *testing.T) {
	root := parse(t, lang.JavaScript, "const f = x => x * 2;")
	tree := Build(root)
	arrow := firstOf(root, ast.KindArrowFunction)
	if tree.ScopeFor(arrow).Own("x") == nil {
		t.Fatal("arrow parameter not bound")
	}
	refs := ast.Identifiers(root, "x")
	if b := tree.Resolve(refs[1]); b == nil || b.Scope != tree.ScopeFor(arrow) {
		t.Errorf("body reference resolved to %+v", b)
	}
}

func TestCatchAndForScopes(t *testing.T) {
	root := parse(t, lang.JavaScript, "try {} catch (e) { e } for (let i = 0; i < 1; i++) {} for (const k of o) {} for (var j in o) {}")
	tree := Build(root)

	cs := tree.ScopeFor(firstOf(root, ast.KindCatchClause))
	if cs == nil || cs.Kind != KindCatch || cs.Own("e") == nil || cs.Own("e").Kind != BindCatch {
		t.Errorf("catch scope = %+v", cs)
	}
	fs := tree.ScopeFor(firstOf(root, ast.KindForStatement))
	if fs == nil || fs.Kind != KindFor || fs.Own("i") == nil {
		t.Errorf("for scope = %+v", fs)
	}
	forIns := ast.Find(root, func(n *ast.Node) bool { return n.Kind == ast.KindForInStatement })
	if len(forIns) != 2 {
		t.Fatalf("for-in statements = %d, want 2", len(forIns))
	}
	if s := tree.ScopeFor(forIns[0]); s == nil || s.Own("k") == nil || s.Own("k").Kind != BindConst {
		t.Errorf("for-of scope = %+v", s)
	}
	if tree.ScopeFor(forIns[1]) != nil {
		t.Error("for-in with a var header should not open a scope")
	}
	if tree.Root.Own("j") == nil {
		t.Error("var j should hoist to the program scope")
	}
}

func TestImports(t *testing.T) {
	root := parse(t, lang.JavaScript, `import x, {y as z, w} from "m"; import * as ns from "n";`)
	tree := Build(root)
	want := []string{"x", "z", "w", "ns"}
	if got := tree.Root.Names(); !slices.Equal(got, want) {
		t.Errorf("names = %v, want %v", got, want)
	}
	if tree.Root.Own("y") != nil {
		t.Error("imported name behind an alias should not bind")
	}
}

func TestRedeclarationAppends(t *testing.T) {
	root := parse(t, lang.JavaScript, "var a; var a = 2;")
	b := Build(root).Root.Own("a")
	if b == nil || len(b.Decls) != 2 {
		t.Fatalf("binding = %+v, want two declarations", b)
	}
}

func TestBindingsIsACopy(t *testing.T) {
	tree := Build(parse(t, lang.JavaScript, "let a;"))
	m := tree.Root.Bindings()
	delete(m, "a")
	m["zz"] = &Binding{Name: "zz"}
	if tree.Root.Own("a") == nil || tree.Root.Own("zz") != nil {
		t.Error("mutating Bindings() changed the scope")
	}
}

func TestBuildOnSubtree(t *testing.T) {
	root := parse(t, lang.JavaScript, "var outer; (function(a, b) { var c; return a + b + outer })(1, 2);")
	fn := firstOf(root, ast.KindFunctionExpression)
	tree := Build(fn)
	if tree.Root != tree.ScopeFor(fn) || tree.Root.Kind != KindFunction {
		t.Fatalf("root scope = %+v, want the function scope", tree.Root)
	}
	if got, want := tree.Root.Names(), []string{"a", "b", "c"}; !slices.Equal(got, want) {
		t.Errorf("names = %v, want %v", got, want)
	}
	ref := ast.Identifiers(fn, "outer")[0]
	if tree.Resolve(ref) != nil {
		t.Error("names outside the subtree should be free")
	}
}

func TestSyntheticProgramScope(t *testing.T) {
	root := parse(t, lang.JavaScript, "x = 1;")
	stmt := root.FirstNamed()
	tree := Build(stmt)
	if tree.Root.Kind != KindProgram || tree.ScopeFor(stmt) != tree.Root {
		t.Errorf("root = %+v, want a program scope owned by the statement", tree.Root)
	}
}

func TestTypeScriptParameters(t *testing.T) {
	root := parse(t, lang.TypeScript, "function f(a: number, b?: string, ...c: number[]) { return a }")
	tree := Build(root)
	fs := tree.ScopeFor(firstOf(root, ast.KindFunctionDeclaration))
	if got, want := fs.Names(), []string{"a", "b", "c"}; !slices.Equal(got, want) {
		t.Errorf("names = %v, want %v", got, want)
	}
}

func TestWalkVisitsEveryScope(t *testing.T) {
	root := parse(t, lang.JavaScript, "function f() { { let a } } class C { static { var s } }")
	tree := Build(root)
	var kinds []Kind
	tree.Walk(func(s *Scope) { kinds = append(kinds, s.Kind) })
	want := []Kind{KindProgram, KindFunction, KindBlock, KindFunction}
	if !slices.Equal(kinds, want) {
		t.Errorf("kinds = %v, want %v", kinds, want)
	}
}
