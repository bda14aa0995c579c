// Package report renders batch outcomes, timing tables and diffs for a terminal.
package report

import (
	"fmt"
	"io"
	"strings"
	"time"

	"github.com/dustin/go-humanize"
	"github.com/fatih/color"
	"github.com/jedib0t/go-pretty/v6/table"

	"github.com/DeusData/unminify/internal/batch"
	"github.com/DeusData/unminify/internal/rule"
	"github.com/DeusData/unminify/internal/store"
	"github.com/DeusData/unminify/internal/timing"
)

var (
	okColor   = color.New(color.FgGreen)
	failColor = color.New(color.FgRed)
	dimColor  = color.New(color.FgHiBlack)
)

// newTable returns a borderless light table, the layout every report uses.
func newTable() table.Writer {
	tbl := table.NewWriter()
	tbl.SetStyle(table.StyleLight)
	tbl.Style().Options.SeparateRows = false
	tbl.Style().Options.SeparateColumns = false
	tbl.Style().Options.DrawBorder = false
	return tbl
}

// Batch writes a one-line summary of a batch, its failed files and the rule
// timing table.
func Batch(w io.Writer, sum *batch.Summary) {
	var in, out int
	for _, f := range sum.Files {
		in += f.InBytes
		out += f.OutBytes
	}
	line := fmt.Sprintf("%s files unminified in %s (%s → %s)",
		humanize.Comma(int64(sum.Processed-sum.Failed)), Duration(sum.Elapsed),
		humanize.Bytes(uint64(in)), humanize.Bytes(uint64(out)))
	if sum.Failed > 0 {
		failColor.Fprintln(w, line+fmt.Sprintf(", %d failed", sum.Failed))
	} else {
		okColor.Fprintln(w, line)
	}
	if sum.Skipped > 0 {
		dimColor.Fprintf(w, "%d unchanged files skipped\n", sum.Skipped)
	}
	for _, f := range sum.Failures() {
		failColor.Fprintf(w, "  ✗ %s: %s\n", f.File.RelPath, firstLine(f.Err.Error()))
	}
	if len(sum.Measurements) > 0 {
		fmt.Fprintln(w)
		Rules(w, timing.Summarize(sum.Measurements))
	}
}

// Rules writes the per-rule timing table, slowest rule first.
func Rules(w io.Writer, sums []timing.Summary) {
	var total time.Duration
	for _, s := range sums {
		total += s.Total
	}
	tbl := newTable()
	tbl.AppendHeader(table.Row{"Rule", "Files", "Total", "Mean", "Max", "Share"})
	for _, s := range sums {
		tbl.AppendRow(table.Row{s.RuleID, humanize.Comma(int64(s.Count)), Duration(s.Total), Duration(s.Mean), Duration(s.Max), share(s.Total, total)})
	}
	tbl.AppendFooter(table.Row{"Total", "", Duration(total), "", "", ""})
	fmt.Fprintln(w, tbl.Render())
}

// Stats writes the recent runs of a cached project and its all-time rule
// timings.
func Stats(w io.Writer, project string, runs []store.Run, stats []store.RuleStat) {
	fmt.Fprintf(w, "%s\n\n", project)
	if len(runs) == 0 {
		dimColor.Fprintln(w, "no recorded runs")
		return
	}
	tbl := newTable()
	tbl.AppendHeader(table.Row{"Run", "Started", "Files", "Skipped", "Failed", "Elapsed"})
	for _, r := range runs {
		started := r.StartedAt
		if t, err := time.Parse(time.RFC3339, r.StartedAt); err == nil {
			started = humanize.Time(t)
		}
		failed := fmt.Sprint(r.Failed)
		if r.Failed > 0 {
			failed = failColor.Sprint(r.Failed)
		}
		tbl.AppendRow(table.Row{r.ID, started, r.Files, r.Skipped, failed, Duration(r.Elapsed)})
	}
	fmt.Fprintln(w, tbl.Render())
	fmt.Fprintln(w)

	sums := make([]timing.Summary, len(stats))
	for i, st := range stats {
		sums[i] = timing.Summary{RuleID: st.RuleID, Count: st.Count, Total: st.Total, Mean: st.Mean, Max: st.Max}
	}
	Rules(w, sums)
}

// Catalog writes the rule catalog in execution order.
func Catalog(w io.Writer, rules []rule.Rule) {
	tbl := newTable()
	tbl.AppendHeader(table.Row{"#", "Rule", "Description"})
	for i, r := range rules {
		tbl.AppendRow(table.Row{i + 1, r.ID, r.Description})
	}
	fmt.Fprintln(w, tbl.Render())
}

// Projects writes the cached projects.
func Projects(w io.Writer, projects []*store.ProjectInfo) {
	if len(projects) == 0 {
		dimColor.Fprintln(w, "no cached projects")
		return
	}
	tbl := newTable()
	tbl.AppendHeader(table.Row{"Project", "Root", "Database"})
	for _, p := range projects {
		tbl.AppendRow(table.Row{p.Name, p.RootPath, p.DBPath})
	}
	fmt.Fprintln(w, tbl.Render())
}

// Duration formats a duration with a precision suited to its size.
func Duration(d time.Duration) string {
	switch {
	case d >= time.Second:
		return d.Round(time.Millisecond).String()
	case d >= time.Millisecond:
		return d.Round(10 * time.Microsecond).String()
	default:
		return d.Round(time.Microsecond).String()
	}
}

func share(part, total time.Duration) string {
	if total <= 0 {
		return "-"
	}
	return fmt.Sprintf("%.1f%%", float64(part)*100/float64(total))
}

func firstLine(s string) string {
	if i := strings.IndexByte(s, '\n'); i >= 0 {
		return s[:i]
	}
	return s
}
