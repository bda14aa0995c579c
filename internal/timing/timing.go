// Package timing measures how long each rule takes on each file.
package timing

import (
	"cmp"
	"log/slog"
	"slices"
	"sync"
	"time"

	"github.com/DeusData/unminify/internal/ast"
	"github.com/DeusData/unminify/internal/rule"
)

// Measurement is the wall-clock duration of one rule on one file.
type Measurement struct {
	File     string
	RuleID   string
	Duration time.Duration
}

// Timing collects measurements. It is safe for concurrent use, though a
// worker normally owns one Timing per file.
type Timing struct {
	mu           sync.Mutex
	measurements []Measurement
}

// New returns an empty collector.
func New() *Timing {
	return &Timing{}
}

// Collect runs fn and records its duration under (file, id), whether or not
// fn fails. fn's error is returned unchanged.
func (t *Timing) Collect(file, id string, fn func() error) error {
	start := time.Now()
	err := fn()
	elapsed := time.Since(start)

	t.mu.Lock()
	t.measurements = append(t.measurements, Measurement{File: file, RuleID: id, Duration: elapsed})
	t.mu.Unlock()

	slog.Debug("rule.timing", "file", file, "rule", id, "elapsed", elapsed)
	return err
}

// Measurements returns a copy of what has been collected, in collection order.
func (t *Timing) Measurements() []Measurement {
	t.mu.Lock()
	defer t.mu.Unlock()
	return slices.Clone(t.measurements)
}

// Wrap returns rules whose Transform is timed under file. Ids and
// descriptions are kept; the input slice is not modified.
func Wrap(t *Timing, file string, rules []rule.Rule) []rule.Rule {
	out := make([]rule.Rule, len(rules))
	for i, r := range rules {
		inner := r.Transform
		out[i] = rule.Rule{
			ID:          r.ID,
			Description: r.Description,
			Transform: func(root *ast.Node, ctx *rule.Context) error {
				return t.Collect(file, r.ID, func() error { return inner(root, ctx) })
			},
		}
	}
	return out
}

// Summary aggregates the measurements of one rule across files.
type Summary struct {
	RuleID string
	Count  int
	Total  time.Duration
	Mean   time.Duration
	Max    time.Duration
}

// Summarize groups measurements by rule, sorted by total time descending and
// then by rule id.
func Summarize(ms []Measurement) []Summary {
	byRule := map[string]*Summary{}
	for _, m := range ms {
		s := byRule[m.RuleID]
		if s == nil {
			s = &Summary{RuleID: m.RuleID}
			byRule[m.RuleID] = s
		}
		s.Count++
		s.Total += m.Duration
		s.Max = max(s.Max, m.Duration)
	}
	out := make([]Summary, 0, len(byRule))
	for _, s := range byRule {
		s.Mean = s.Total / time.Duration(s.Count)
		out = append(out, *s)
	}
	slices.SortFunc(out, func(a, b Summary) int {
		if c := cmp.Compare(b.Total, a.Total); c != 0 {
			return c
		}
		return cmp.Compare(a.RuleID, b.RuleID)
	})
	return out
}

// Total sums the durations of ms.
func Total(ms []Measurement) time.Duration {
	var d time.Duration
	for _, m := range ms {
		d += m.Duration
	}
	return d
}
