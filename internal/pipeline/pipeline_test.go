package pipeline

import (
	"errors"
	"strings"
	"testing"

	"github.com/DeusData/unminify/internal/ast"
	"github.com/DeusData/unminify/internal/lang"
	"github.com/DeusData/unminify/internal/parser"
	"github.com/DeusData/unminify/internal/rule"
	"github.com/DeusData/unminify/internal/rules"
)

func file(src string) rule.FileInfo {
	return rule.FileInfo{Path: "a.js", Source: []byte(src)}
}

func TestZeroRulesRoundTrip(t *testing.T) {
	res, err := RunTransformations(file("var a=1;function f(b){return a+b}"), nil, nil)
	if err != nil {
		t.Fatalf("RunTransformations: %v", err)
	}
	want := "var a = 1;\nfunction f(b) {\n  return a + b;\n}\n"
	if res.Code != want {
		t.Errorf("code =\n%s\nwant\n%s", res.Code, want)
	}
}

func TestRulesRunInOrderWithSharedContext(t *testing.T) {
	ctx := &rule.Context{ModuleMeta: map[string]any{"format": "webpack"}}
	var order []string
	var seen []*rule.Context
	mk := func(id string) rule.Rule {
		return rule.Rule{ID: id, Transform: func(_ *ast.Node, c *rule.Context) error {
			order = append(order, id)
			seen = append(seen, c)
			return nil
		}}
	}
	_, err := RunTransformations(file("x"), []rule.Rule{mk("first"), mk("second"), mk("third")}, ctx)
	if err != nil {
		t.Fatalf("RunTransformations: %v", err)
	}
	if strings.Join(order, ",") != "first,second,third" {
		t.Errorf("order = %v", order)
	}
	for _, c := range seen {
		if c != ctx {
			t.Error("rule received a different context")
		}
	}
}

func TestRuleErrorAborts(t *testing.T) {
	boom := errors.New("boom")
	ran := false
	rs := []rule.Rule{
		{ID: "ok", Transform: func(*ast.Node, *rule.Context) error { return nil }},
		{ID: "bad", Transform: func(*ast.Node, *rule.Context) error { return boom }},
		{ID: "later", Transform: func(*ast.Node, *rule.Context) error { ran = true; return nil }},
	}
	res, err := RunTransformations(file("x"), rs, nil)
	if res != nil {
		t.Error("expected no result on rule failure")
	}
	if !errors.Is(err, ErrRule) || !errors.Is(err, boom) {
		t.Fatalf("err = %v, want ErrRule wrapping boom", err)
	}
	if !strings.Contains(err.Error(), "bad") {
		t.Errorf("error %q does not name the rule", err)
	}
	if ran {
		t.Error("rule after the failing one was run")
	}
}

func TestParseErrorSurfaced(t *testing.T) {
	_, err := RunTransformations(file("function ("), rules.All(), nil)
	if !errors.Is(err, parser.ErrSyntax) {
		t.Fatalf("err = %v, want a syntax error", err)
	}
}

func TestAllRulesCompose(t *testing.T) {
	res, err := RunTransformations(file("(function(a, w){ return w.x + a + !0 })(5, window)"), rules.All(), nil)
	if err != nil {
		t.Fatalf("RunTransformations: %v", err)
	}
	want := "(function(window) {\n  const a = 5;\n  return window.x + a + true;\n})(window);\n"
	if res.Code != want {
		t.Errorf("code =\n%s\nwant\n%s", res.Code, want)
	}
}

func TestTypeScriptDialect(t *testing.T) {
	fi := rule.FileInfo{Path: "a.ts", Source: []byte("const x:number=1"), Lang: lang.TypeScript}
	res, err := RunTransformations(fi, nil, nil)
	if err != nil {
		t.Fatalf("RunTransformations: %v", err)
	}
	if res.Code != "const x: number = 1;\n" {
		t.Errorf("code = %q", res.Code)
	}
}

func TestProjectNameFromPath(t *testing.T) {
	tests := []struct {
		in   string
		want string
	}{
		{"/home/user/project", "home-user-project"},
		{"/tmp/x/../y", "tmp-y"},
		{"/", "root"},
	}
	for _, tt := range tests {
		if got := ProjectNameFromPath(tt.in); got != tt.want {
			t.Errorf("ProjectNameFromPath(%q) = %q, want %q", tt.in, got, tt.want)
		}
	}
}
