package batch

import (
	"context"
	"errors"
	"os"
	"path/filepath"
	"testing"

	"github.com/DeusData/unminify/internal/parser"
	"github.com/DeusData/unminify/internal/rule"
	"github.com/DeusData/unminify/internal/rules"
	"github.com/DeusData/unminify/internal/store"
)

func writeFile(t *testing.T, path, content string) {
	t.Helper()
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		t.Fatal(err)
	}
	if err := os.WriteFile(path, []byte(content), 0o644); err != nil {
		t.Fatal(err)
	}
}

func readFile(t *testing.T, path string) string {
	t.Helper()
	data, err := os.ReadFile(path)
	if err != nil {
		t.Fatal(err)
	}
	return string(data)
}

func openCache(t *testing.T) *store.Store {
	t.Helper()
	s, err := store.OpenMemory()
	if err != nil {
		t.Fatal(err)
	}
	t.Cleanup(func() { s.Close() })
	return s
}

func TestRunTree(t *testing.T) {
	in := t.TempDir()
	out := filepath.Join(t.TempDir(), "out")
	writeFile(t, filepath.Join(in, "a.js"), "(function(a){ return a + 1 })(5)")
	writeFile(t, filepath.Join(in, "lib", "b.js"), "var x = !0;")
	writeFile(t, filepath.Join(in, "bad.js"), "function (")

	sum, err := Run(context.Background(), Options{Input: in, Output: out, Workers: 2, Rules: rules.All(), Context: &rule.Context{}})
	if err != nil {
		t.Fatalf("Run: %v", err)
	}
	if sum.Processed != 3 || sum.Failed != 1 || sum.Skipped != 0 {
		t.Errorf("summary processed=%d failed=%d skipped=%d", sum.Processed, sum.Failed, sum.Skipped)
	}
	if got := readFile(t, filepath.Join(out, "a.js")); got != "(function() {\n  const a = 5;\n  return a + 1;\n})();\n" {
		t.Errorf("a.js = %q", got)
	}
	if got := readFile(t, filepath.Join(out, "lib", "b.js")); got != "var x = true;\n" {
		t.Errorf("lib/b.js = %q", got)
	}
	failures := sum.Failures()
	if len(failures) != 1 || failures[0].File.RelPath != "bad.js" || !errors.Is(failures[0].Err, parser.ErrSyntax) {
		t.Errorf("failures = %+v", failures)
	}
	if len(sum.Measurements) != 2*len(rules.All()) {
		t.Errorf("measurements = %d, want %d", len(sum.Measurements), 2*len(rules.All()))
	}
	if sum.RunID != 0 {
		t.Errorf("RunID = %d without cache", sum.RunID)
	}
}

func TestRunSingleFile(t *testing.T) {
	dir := t.TempDir()
	in := filepath.Join(dir, "bundle.js")
	writeFile(t, in, "void 0")

	outFile := filepath.Join(dir, "pretty", "bundle.pretty.js")
	if _, err := Run(context.Background(), Options{Input: in, Output: outFile, Rules: rules.All()}); err != nil {
		t.Fatal(err)
	}
	if got := readFile(t, outFile); got != "undefined;\n" {
		t.Errorf("output = %q", got)
	}

	outDir := filepath.Join(dir, "outdir")
	if _, err := Run(context.Background(), Options{Input: in, Output: outDir, Rules: rules.All()}); err != nil {
		t.Fatal(err)
	}
	if got := readFile(t, filepath.Join(outDir, "bundle.js")); got != "undefined;\n" {
		t.Errorf("output = %q", got)
	}
}

func TestRunNoOutput(t *testing.T) {
	if _, err := Run(context.Background(), Options{Input: t.TempDir()}); !errors.Is(err, ErrNoOutput) {
		t.Errorf("err = %v, want ErrNoOutput", err)
	}
}

func TestRunCacheSkipsUnchanged(t *testing.T) {
	in := t.TempDir()
	out := filepath.Join(t.TempDir(), "out")
	writeFile(t, filepath.Join(in, "a.js"), "!0")
	writeFile(t, filepath.Join(in, "b.js"), "!1")
	cache := openCache(t)
	opts := Options{Input: in, Output: out, Rules: rules.All(), Cache: cache, Project: "p"}

	first, err := Run(context.Background(), opts)
	if err != nil {
		t.Fatal(err)
	}
	if first.Processed != 2 || first.Skipped != 0 || first.RunID == 0 {
		t.Fatalf("first run = %+v", first)
	}

	writeFile(t, filepath.Join(in, "b.js"), "!0")
	second, err := Run(context.Background(), opts)
	if err != nil {
		t.Fatal(err)
	}
	if second.Processed != 1 || second.Skipped != 1 {
		t.Errorf("second run processed=%d skipped=%d", second.Processed, second.Skipped)
	}
	for _, f := range second.Files {
		if f.Skipped != (f.File.RelPath == "a.js") {
			t.Errorf("%s skipped = %v", f.File.RelPath, f.Skipped)
		}
	}

	// A different rule list invalidates every cached hash.
	opts.Rules = rules.All()[:1]
	third, err := Run(context.Background(), opts)
	if err != nil {
		t.Fatal(err)
	}
	if third.Processed != 2 || third.Skipped != 0 {
		t.Errorf("third run processed=%d skipped=%d", third.Processed, third.Skipped)
	}

	runs, err := cache.ListRuns("p", 0)
	if err != nil || len(runs) != 3 {
		t.Fatalf("runs = %v, %v", runs, err)
	}
	if runs[1].Skipped != 1 || runs[1].Files != 1 {
		t.Errorf("second recorded run = %+v", runs[1])
	}
}

func TestRunCacheReprocessesFailuresAndMissingOutput(t *testing.T) {
	in := t.TempDir()
	out := filepath.Join(t.TempDir(), "out")
	writeFile(t, filepath.Join(in, "a.js"), "x")
	writeFile(t, filepath.Join(in, "bad.js"), "function (")
	opts := Options{Input: in, Output: out, Rules: rules.All(), Cache: openCache(t), Project: "p"}

	if _, err := Run(context.Background(), opts); err != nil {
		t.Fatal(err)
	}
	if err := os.Remove(filepath.Join(out, "a.js")); err != nil {
		t.Fatal(err)
	}
	sum, err := Run(context.Background(), opts)
	if err != nil {
		t.Fatal(err)
	}
	if sum.Skipped != 0 || sum.Processed != 2 || sum.Failed != 1 {
		t.Errorf("summary processed=%d skipped=%d failed=%d", sum.Processed, sum.Skipped, sum.Failed)
	}
}

func TestRunCancelled(t *testing.T) {
	in := t.TempDir()
	writeFile(t, filepath.Join(in, "a.js"), "x")
	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	if _, err := Run(ctx, Options{Input: in, Output: t.TempDir()}); !errors.Is(err, context.Canceled) {
		t.Errorf("err = %v, want context.Canceled", err)
	}
}

func TestRunCacheInvalidatedByModuleMapping(t *testing.T) {
	in := t.TempDir()
	out := filepath.Join(t.TempDir(), "out")
	writeFile(t, filepath.Join(in, "a.js"), "require(12)")
	opts := Options{
		Input: in, Output: out, Rules: rules.All(), Cache: openCache(t), Project: "p",
		Context: &rule.Context{ModuleMapping: map[string]string{"12": "react"}},
	}

	if _, err := Run(context.Background(), opts); err != nil {
		t.Fatal(err)
	}
	if got := readFile(t, filepath.Join(out, "a.js")); got != "require(\"react\");\n" {
		t.Fatalf("first output = %q", got)
	}

	same, err := Run(context.Background(), opts)
	if err != nil {
		t.Fatal(err)
	}
	if same.Skipped != 1 {
		t.Errorf("unchanged mapping: skipped = %d, want 1", same.Skipped)
	}

	opts.Context = &rule.Context{ModuleMapping: map[string]string{"12": "preact"}}
	changed, err := Run(context.Background(), opts)
	if err != nil {
		t.Fatal(err)
	}
	if changed.Processed != 1 || changed.Skipped != 0 {
		t.Errorf("changed mapping: processed=%d skipped=%d", changed.Processed, changed.Skipped)
	}
	if got := readFile(t, filepath.Join(out, "a.js")); got != "require(\"preact\");\n" {
		t.Errorf("second output = %q", got)
	}
}

func TestSignature(t *testing.T) {
	if got := Signature(rules.All()[:2], nil); got != "un-iife,module-mapping" {
		t.Errorf("Signature = %q", got)
	}
	if Signature(nil, &rule.Context{}) != "" {
		t.Error("empty rule list should have an empty signature")
	}

	ctx := func(m map[string]string, meta map[string]any) *rule.Context {
		return &rule.Context{ModuleMapping: m, ModuleMeta: meta}
	}
	a := Signature(rules.All(), ctx(map[string]string{"1": "a", "2": "b"}, map[string]any{"format": "webpack"}))
	b := Signature(rules.All(), ctx(map[string]string{"2": "b", "1": "a"}, map[string]any{"format": "webpack"}))
	if a != b {
		t.Errorf("equal contexts differ: %q vs %q", a, b)
	}
	for _, other := range []*rule.Context{
		ctx(map[string]string{"1": "a", "2": "c"}, map[string]any{"format": "webpack"}),
		ctx(map[string]string{"1": "a", "2": "b"}, map[string]any{"format": "rollup"}),
		nil,
	} {
		if Signature(rules.All(), other) == a {
			t.Errorf("context %+v shares signature %q", other, a)
		}
	}
}

func TestFileHash(t *testing.T) {
	dir := t.TempDir()
	a, b := filepath.Join(dir, "a"), filepath.Join(dir, "b")
	writeFile(t, a, "same")
	writeFile(t, b, "same")
	ha, err := fileHash(a)
	if err != nil {
		t.Fatal(err)
	}
	hb, _ := fileHash(b)
	if ha != hb || len(ha) != 16 {
		t.Errorf("hashes %q %q", ha, hb)
	}
	if _, err := fileHash(filepath.Join(dir, "missing")); err == nil {
		t.Error("expected error for missing file")
	}
}
