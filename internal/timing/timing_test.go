package timing

import (
	"errors"
	"testing"
	"time"

	"github.com/DeusData/unminify/internal/ast"
	"github.com/DeusData/unminify/internal/pipeline"
	"github.com/DeusData/unminify/internal/rule"
	"github.com/DeusData/unminify/internal/rules"
)

func TestCollectRecordsFailures(t *testing.T) {
	tm := New()
	boom := errors.New("boom")
	if err := tm.Collect("a.js", "r1", func() error { return nil }); err != nil {
		t.Fatalf("Collect: %v", err)
	}
	if err := tm.Collect("a.js", "r2", func() error { return boom }); !errors.Is(err, boom) {
		t.Fatalf("Collect err = %v, want boom", err)
	}
	ms := tm.Measurements()
	if len(ms) != 2 || ms[0].RuleID != "r1" || ms[1].RuleID != "r2" {
		t.Fatalf("measurements = %+v", ms)
	}
}

func TestMeasurementsIsACopy(t *testing.T) {
	tm := New()
	_ = tm.Collect("a.js", "r", func() error { return nil })
	ms := tm.Measurements()
	ms[0].RuleID = "changed"
	if tm.Measurements()[0].RuleID != "r" {
		t.Error("Measurements shares its backing array")
	}
}

func TestWrapOneMeasurementPerRule(t *testing.T) {
	tm := New()
	wrapped := Wrap(tm, "in.js", rules.All())
	for i, r := range rules.All() {
		if wrapped[i].ID != r.ID {
			t.Errorf("wrapped[%d].ID = %q, want %q", i, wrapped[i].ID, r.ID)
		}
	}
	fi := rule.FileInfo{Path: "in.js", Source: []byte("(function(a){ return a + 1 })(5)")}
	if _, err := pipeline.RunTransformations(fi, wrapped, nil); err != nil {
		t.Fatalf("RunTransformations: %v", err)
	}
	ms := tm.Measurements()
	if len(ms) != len(rules.All()) {
		t.Fatalf("measurements = %d, want %d", len(ms), len(rules.All()))
	}
	for i, m := range ms {
		if m.File != "in.js" || m.RuleID != wrapped[i].ID || m.Duration < 0 {
			t.Errorf("measurement %d = %+v", i, m)
		}
	}
}

func TestWrapPassesArguments(t *testing.T) {
	ctx := &rule.Context{}
	var gotRoot *ast.Node
	var gotCtx *rule.Context
	r := rule.Rule{ID: "probe", Transform: func(root *ast.Node, c *rule.Context) error {
		gotRoot, gotCtx = root, c
		return nil
	}}
	root := ast.New(ast.KindProgram)
	if err := Wrap(New(), "f", []rule.Rule{r})[0].Transform(root, ctx); err != nil {
		t.Fatal(err)
	}
	if gotRoot != root || gotCtx != ctx {
		t.Error("wrapped rule did not receive the original arguments")
	}
}

func TestSummarize(t *testing.T) {
	ms := []Measurement{
		{File: "a", RuleID: "x", Duration: 10 * time.Millisecond},
		{File: "b", RuleID: "x", Duration: 30 * time.Millisecond},
		{File: "a", RuleID: "y", Duration: 50 * time.Millisecond},
		{File: "a", RuleID: "z", Duration: 5 * time.Millisecond},
	}
	got := Summarize(ms)
	if len(got) != 3 {
		t.Fatalf("summaries = %d, want 3", len(got))
	}
	if got[0].RuleID != "y" || got[1].RuleID != "x" || got[2].RuleID != "z" {
		t.Errorf("order = %s, %s, %s", got[0].RuleID, got[1].RuleID, got[2].RuleID)
	}
	x := got[1]
	if x.Count != 2 || x.Total != 40*time.Millisecond || x.Mean != 20*time.Millisecond || x.Max != 30*time.Millisecond {
		t.Errorf("x = %+v", x)
	}
	var sum time.Duration
	for _, s := range got {
		sum += s.Total
	}
	if sum != Total(ms) {
		t.Errorf("summary totals %v != measurement total %v", sum, Total(ms))
	}
	if len(Summarize(nil)) != 0 {
		t.Error("Summarize(nil) should be empty")
	}
}
