package report

import (
	"strings"

	"github.com/sergi/go-diff/diffmatchpatch"
)

// Diff returns a line diff of before and after in unified notation: a
// header naming the file, then every line prefixed by ' ', '-' or '+'.
// Identical inputs yield "".
func Diff(name, before, after string) string {
	if before == after {
		return ""
	}
	dmp := diffmatchpatch.New()
	a, b, lines := dmp.DiffLinesToChars(before, after)
	diffs := dmp.DiffCharsToLines(dmp.DiffMain(a, b, false), lines)

	var sb strings.Builder
	sb.WriteString("--- a/" + name + "\n")
	sb.WriteString("+++ b/" + name + "\n")
	for _, d := range diffs {
		prefix := " "
		switch d.Type {
		case diffmatchpatch.DiffDelete:
			prefix = "-"
		case diffmatchpatch.DiffInsert:
			prefix = "+"
		}
		for _, line := range splitLines(d.Text) {
			sb.WriteString(prefix + line + "\n")
		}
	}
	return sb.String()
}

// Colorize paints the removed and added lines of a Diff result.
func Colorize(diff string) string {
	if diff == "" {
		return ""
	}
	var sb strings.Builder
	for _, line := range splitLines(diff) {
		switch {
		case strings.HasPrefix(line, "---"), strings.HasPrefix(line, "+++"):
			sb.WriteString(dimColor.Sprint(line))
		case strings.HasPrefix(line, "-"):
			sb.WriteString(failColor.Sprint(line))
		case strings.HasPrefix(line, "+"):
			sb.WriteString(okColor.Sprint(line))
		default:
			sb.WriteString(line)
		}
		sb.WriteByte('\n')
	}
	return sb.String()
}

// splitLines splits on '\n' without a trailing empty element.
func splitLines(s string) []string {
	if s == "" {
		return nil
	}
	lines := strings.Split(s, "\n")
	if lines[len(lines)-1] == "" {
		lines = lines[:len(lines)-1]
	}
	return lines
}
