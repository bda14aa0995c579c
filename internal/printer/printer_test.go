package printer

import (
	"testing"

	"github.com/DeusData/unminify/internal/ast"
	"github.com/DeusData/unminify/internal/lang"
	"github.com/DeusData/unminify/internal/parser"
)

func mustParse(t *testing.T, src string) *ast.Node {
	t.Helper()
	root, err := parser.Parse(lang.JavaScript, []byte(src))
	if err != nil {
		t.Fatalf("Parse(%q): %v", src, err)
	}
	return root
}

func TestPrint(t *testing.T) {
	tests := []struct {
		name string
		src  string
		want string
	}{
		{
			name: "iife",
			src:  "(function(a){return a+1})(5)",
			want: "(function(a) {\n  return a + 1;\n})(5);\n",
		},
		{
			name: "declarations",
			src:  "var a=1,b=2;let c=a?b:3",
			want: "var a = 1, b = 2;\nlet c = a ? b : 3;\n",
		},
		{
			name: "member and call",
			src:  "w.foo(x[0],...y)",
			want: "w.foo(x[0], ...y);\n",
		},
		{
			name: "unary and update",
			src:  "x=-y;i++;--j;a=!b;c=a- -b",
			want: "x = -y;\ni++;\n--j;\na = !b;\nc = a - -b;\n",
		},
		{
			name: "keyword spacing",
			src:  "if(a){return typeof b}else{throw c}",
			want: "if (a) {\n  return typeof b;\n} else {\n  throw c;\n}\n",
		},
		{
			name: "empty function",
			src:  "function f(){}",
			want: "function f() {}\n",
		},
		{
			name: "arrow and object",
			src:  "const f=()=>({a:1})",
			want: "const f = () => ({ a: 1 });\n",
		},
		{
			name: "switch",
			src:  "switch(x){case 1:y();break;default:z()}",
			want: "switch (x) {\n  case 1:\n    y();\n    break;\n  default:\n    z();\n}\n",
		},
		{
			name: "template",
			src:  "t=`a  ${b+1} c`",
			want: "t = `a  ${b + 1} c`;\n",
		},
		{
			name: "for loop",
			src:  "for(let i=0;i<n;i++)s+=i",
			want: "for (let i = 0; i < n; i++) s += i;\n",
		},
		{
			name: "class",
			src:  "class A extends B{m(){return 1}}",
			want: "class A extends B {\n  m() {\n    return 1;\n  }\n}\n",
		},
		{
			name: "integer member access",
			src:  "x=1 .toString();y=1..toString();z=1.5.toFixed();h=0xff.toString()",
			want: "x = 1 .toString();\ny = 1..toString();\nz = 1.5.toFixed();\nh = 0xff.toString();\n",
		},
		{
			name: "empty program",
			src:  "",
			want: "",
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := Print(mustParse(t, tt.src)); got != tt.want {
				t.Errorf("Print(%q) =\n%s\nwant\n%s", tt.src, got, tt.want)
			}
		})
	}
}

func TestPrintIsStable(t *testing.T) {
	srcs := []string{
		"(function(a,b){var c=a+b;return c*2})(1,2)",
		"var o={x:1,y:[1,2,3],z:function(){return this.x}};",
		"a:for(;;){if(x)continue a;break}",
		"try{f()}catch(e){g(e)}finally{h()}",
	}
	for _, src := range srcs {
		once := Print(mustParse(t, src))
		twice := Print(mustParse(t, once))
		if once != twice {
			t.Errorf("printing is not stable for %q:\n%s\nvs\n%s", src, once, twice)
		}
	}
}

func TestPrintLineCommentInsideExpression(t *testing.T) {
	got := Print(mustParse(t, "f(a, // first\nb)"))
	want := "f(a, /* first */ b);\n"
	if got != want {
		t.Errorf("got %q, want %q", got, want)
	}
}

func TestPrintBuiltTree(t *testing.T) {
	decl := ast.LexicalDeclaration("const", "a", ast.Leaf(ast.KindNumber, "5"))
	root := ast.New(ast.KindProgram, decl)
	if got, want := Print(root), "const a = 5;\n"; got != want {
		t.Errorf("Print = %q, want %q", got, want)
	}
}
