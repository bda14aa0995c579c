package report

import (
	"bytes"
	"errors"
	"os"
	"strings"
	"testing"
	"time"

	"github.com/fatih/color"

	"github.com/DeusData/unminify/internal/batch"
	"github.com/DeusData/unminify/internal/discover"
	"github.com/DeusData/unminify/internal/rules"
	"github.com/DeusData/unminify/internal/store"
	"github.com/DeusData/unminify/internal/timing"
)

func TestMain(m *testing.M) {
	color.NoColor = true
	os.Exit(m.Run())
}

func TestBatch(t *testing.T) {
	sum := &batch.Summary{
		Processed: 2,
		Failed:    1,
		Skipped:   3,
		Elapsed:   1500 * time.Millisecond,
		Files: []batch.FileResult{
			{File: discover.FileInfo{RelPath: "a.js"}, InBytes: 2048, OutBytes: 4096},
			{File: discover.FileInfo{RelPath: "bad.js"}, Err: errors.New("parse bad.js: syntax error\nstack")},
		},
		Measurements: []timing.Measurement{
			{File: "a.js", RuleID: "un-iife", Duration: 3 * time.Millisecond},
			{File: "a.js", RuleID: "un-boolean", Duration: time.Millisecond},
		},
	}
	var buf bytes.Buffer
	Batch(&buf, sum)
	out := buf.String()
	for _, want := range []string{
		"1 files unminified in 1.5s (2.0 kB → 4.1 kB), 1 failed",
		"3 unchanged files skipped",
		"✗ bad.js: parse bad.js: syntax error\n",
		"un-iife",
		"un-boolean",
		"75.0%",
	} {
		if !strings.Contains(out, want) {
			t.Errorf("output missing %q:\n%s", want, out)
		}
	}
	if strings.Contains(out, "stack") {
		t.Errorf("only the first error line should be shown:\n%s", out)
	}
	if strings.Index(out, "un-iife") > strings.Index(out, "un-boolean") {
		t.Errorf("slowest rule should come first:\n%s", out)
	}
}

func TestBatchNoMeasurements(t *testing.T) {
	var buf bytes.Buffer
	Batch(&buf, &batch.Summary{})
	if strings.Contains(buf.String(), "Rule") {
		t.Errorf("no table expected without measurements:\n%s", buf.String())
	}
}

func TestStats(t *testing.T) {
	var buf bytes.Buffer
	Stats(&buf, "proj", nil, nil)
	if !strings.Contains(buf.String(), "no recorded runs") {
		t.Errorf("empty stats = %q", buf.String())
	}

	buf.Reset()
	runs := []store.Run{{ID: 7, StartedAt: store.Now(), Files: 4, Failed: 2, Elapsed: time.Second}}
	stats := []store.RuleStat{{RuleID: "un-iife", Count: 4, Total: 8 * time.Millisecond, Mean: 2 * time.Millisecond, Max: 5 * time.Millisecond}}
	Stats(&buf, "proj", runs, stats)
	for _, want := range []string{"proj", "un-iife", "100.0%"} {
		if !strings.Contains(buf.String(), want) {
			t.Errorf("stats missing %q:\n%s", want, buf.String())
		}
	}
}

func TestDuration(t *testing.T) {
	tests := []struct {
		d    time.Duration
		want string
	}{
		{1234567 * time.Microsecond, "1.235s"},
		{1234567 * time.Nanosecond, "1.23ms"},
		{1234 * time.Nanosecond, "1µs"},
		{0, "0s"},
	}
	for _, tt := range tests {
		if got := Duration(tt.d); got != tt.want {
			t.Errorf("Duration(%v) = %q, want %q", tt.d, got, tt.want)
		}
	}
}

func TestDiff(t *testing.T) {
	if Diff("a.js", "x\n", "x\n") != "" {
		t.Error("identical inputs should yield no diff")
	}
	got := Diff("a.js", "keep\nold\n\n", "keep\nnew\n\n")
	want := "--- a/a.js\n+++ b/a.js\n keep\n-old\n+new\n \n"
	if got != want {
		t.Errorf("Diff =\n%q\nwant\n%q", got, want)
	}
	if Colorize(got) != got {
		t.Error("Colorize without color support should be the identity")
	}
	if Colorize("") != "" {
		t.Error("Colorize of an empty diff should be empty")
	}
}

func TestCatalog(t *testing.T) {
	var buf bytes.Buffer
	Catalog(&buf, rules.All())
	for _, id := range rules.IDs() {
		if !strings.Contains(buf.String(), id) {
			t.Errorf("catalog missing %s:\n%s", id, buf.String())
		}
	}
}

func TestProjects(t *testing.T) {
	var buf bytes.Buffer
	Projects(&buf, nil)
	if !strings.Contains(buf.String(), "no cached projects") {
		t.Errorf("empty projects = %q", buf.String())
	}
	buf.Reset()
	Projects(&buf, []*store.ProjectInfo{{Name: "srv-site", RootPath: "/srv/site", DBPath: "/c/srv-site.db"}})
	for _, want := range []string{"srv-site", "/srv/site", "/c/srv-site.db"} {
		if !strings.Contains(buf.String(), want) {
			t.Errorf("projects missing %q:\n%s", want, buf.String())
		}
	}
}
