// Package pipeline runs an ordered list of rules over one file.
package pipeline

import (
	"errors"
	"fmt"
	"log/slog"
	"path/filepath"
	"strings"

	"github.com/DeusData/unminify/internal/lang"
	"github.com/DeusData/unminify/internal/parser"
	"github.com/DeusData/unminify/internal/printer"
	"github.com/DeusData/unminify/internal/rule"
)

// ErrRule wraps the failure of a single rule; the message carries the rule id.
var ErrRule = errors.New("rule failed")

// Result is the outcome of one pipeline run.
type Result struct {
	Code string
}

// RunTransformations parses fi.Source once, applies rules to the same tree in
// order and prints the final tree. The first rule error aborts the run; rule
// panics are left to the caller.
func RunTransformations(fi rule.FileInfo, rules []rule.Rule, ctx *rule.Context) (*Result, error) {
	l := fi.Lang
	if l == "" {
		l = lang.JavaScript
	}
	root, err := parser.Parse(l, fi.Source)
	if err != nil {
		return nil, fmt.Errorf("parse %s: %w", fi.Path, err)
	}
	if ctx == nil {
		ctx = &rule.Context{}
	}

	slog.Debug("pipeline.start", "file", fi.Path, "lang", l, "rules", len(rules))
	for _, r := range rules {
		if err := r.Transform(root, ctx); err != nil {
			return nil, fmt.Errorf("%w: %s: %w", ErrRule, r.ID, err)
		}
	}
	return &Result{Code: printer.Print(root)}, nil
}

// ProjectNameFromPath derives a unique project name from an absolute path
// by replacing path separators with dashes and trimming the leading dash.
func ProjectNameFromPath(absPath string) string {
	cleaned := filepath.ToSlash(filepath.Clean(absPath))
	name := strings.ReplaceAll(cleaned, "/", "-")
	name = strings.TrimLeft(name, "-")
	if name == "" {
		return "root"
	}
	return name
}
