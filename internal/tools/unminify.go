package tools

import (
	"context"
	"fmt"
	"path/filepath"
	"slices"
	"time"

	"github.com/modelcontextprotocol/go-sdk/mcp"

	"github.com/DeusData/unminify/internal/batch"
	"github.com/DeusData/unminify/internal/lang"
	"github.com/DeusData/unminify/internal/pipeline"
	"github.com/DeusData/unminify/internal/rule"
	"github.com/DeusData/unminify/internal/rules"
	"github.com/DeusData/unminify/internal/store"
	"github.com/DeusData/unminify/internal/timing"
)

type ruleTiming struct {
	Rule    string  `json:"rule"`
	Count   int     `json:"count,omitempty"`
	TotalMS float64 `json:"total_ms"`
}

func millis(d time.Duration) float64 {
	return float64(d.Microseconds()) / 1000
}

func (s *Server) handleUnminifyCode(_ context.Context, req *mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	args, err := parseArgs(req)
	if err != nil {
		return errResult(err.Error()), nil
	}
	code, ok := args["code"].(string)
	if !ok {
		return errResult("code is required"), nil
	}
	l := lang.JavaScript
	if name := getStringArg(args, "language"); name != "" {
		l = lang.Language(name)
		if !slices.Contains(lang.AllLanguages(), l) {
			return errResult(fmt.Sprintf("unsupported language: %s", name)), nil
		}
	}
	selected, err := rules.ByID(getStringsArg(args, "rules"))
	if err != nil {
		return errResult(err.Error()), nil
	}

	tm := timing.New()
	fi := rule.FileInfo{Path: "<input>", Source: []byte(code), Lang: l}
	ctx := &rule.Context{ModuleMapping: getStringMapArg(args, "module_mapping")}
	out, err := pipeline.RunTransformations(fi, timing.Wrap(tm, fi.Path, selected), ctx)
	if err != nil {
		return errResult(fmt.Sprintf("unminify failed: %v", err)), nil
	}

	ms := tm.Measurements()
	timings := make([]ruleTiming, 0, len(ms))
	for _, m := range ms {
		timings = append(timings, ruleTiming{Rule: m.RuleID, TotalMS: millis(m.Duration)})
	}
	return jsonResult(map[string]any{
		"code":    out.Code,
		"timings": timings,
	}), nil
}

func (s *Server) handleUnminifyFiles(ctx context.Context, req *mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	args, err := parseArgs(req)
	if err != nil {
		return errResult(err.Error()), nil
	}
	input, output := getStringArg(args, "input"), getStringArg(args, "output")
	if input == "" || output == "" {
		return errResult("input and output are required"), nil
	}
	absIn, err := filepath.Abs(input)
	if err != nil {
		return errResult(fmt.Sprintf("invalid input path: %v", err)), nil
	}
	absOut, err := filepath.Abs(output)
	if err != nil {
		return errResult(fmt.Sprintf("invalid output path: %v", err)), nil
	}
	selected, err := rules.ByID(getStringsArg(args, "rules"))
	if err != nil {
		return errResult(err.Error()), nil
	}

	opts := batch.Options{
		Input:   absIn,
		Output:  absOut,
		Workers: getIntArg(args, "workers", 0),
		Rules:   selected,
		Context: &rule.Context{},
	}
	if getBoolArg(args, "cache") {
		if s.router == nil {
			return errResult("run cache unavailable"), nil
		}
		st, err := s.router.ForProject(pipeline.ProjectNameFromPath(absIn))
		if err != nil {
			return errResult(fmt.Sprintf("open cache: %v", err)), nil
		}
		opts.Cache = st
	}

	s.batchMu.Lock()
	defer s.batchMu.Unlock()

	sum, err := batch.Run(ctx, opts)
	if err != nil && sum == nil {
		return errResult(fmt.Sprintf("unminify failed: %v", err)), nil
	}

	type failure struct {
		File  string `json:"file"`
		Error string `json:"error"`
	}
	failures := make([]failure, 0, sum.Failed)
	for _, f := range sum.Failures() {
		failures = append(failures, failure{File: f.File.RelPath, Error: f.Err.Error()})
	}
	summaries := timing.Summarize(sum.Measurements)
	timings := make([]ruleTiming, 0, len(summaries))
	for _, rs := range summaries {
		timings = append(timings, ruleTiming{Rule: rs.RuleID, Count: rs.Count, TotalMS: millis(rs.Total)})
	}

	result := map[string]any{
		"project":    sum.Project,
		"processed":  sum.Processed,
		"skipped":    sum.Skipped,
		"failed":     sum.Failed,
		"failures":   failures,
		"timings":    timings,
		"elapsed_ms": millis(sum.Elapsed),
	}
	if err != nil {
		result["error"] = err.Error()
	}
	return jsonResult(result), nil
}

func (s *Server) handleListRules(_ context.Context, _ *mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	type ruleInfo struct {
		ID          string `json:"id"`
		Description string `json:"description"`
	}
	all := rules.All()
	result := make([]ruleInfo, 0, len(all))
	for _, r := range all {
		result = append(result, ruleInfo{ID: r.ID, Description: r.Description})
	}
	return jsonResult(result), nil
}

// cacheFor returns the project store, or an error result when the cache is
// disabled or the project has never been cached.
func (s *Server) cacheFor(name string) (*store.Store, *mcp.CallToolResult) {
	if s.router == nil {
		return nil, errResult("run cache unavailable")
	}
	if name == "" {
		return nil, errResult("project_name is required")
	}
	if !s.router.HasProject(name) {
		return nil, errResult(fmt.Sprintf("project not found: %s", name))
	}
	st, err := s.router.ForProject(name)
	if err != nil {
		return nil, errResult(err.Error())
	}
	return st, nil
}
