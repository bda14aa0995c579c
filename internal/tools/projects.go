package tools

import (
	"context"
	"fmt"

	"github.com/modelcontextprotocol/go-sdk/mcp"
)

func (s *Server) handleListProjects(_ context.Context, _ *mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	if s.router == nil {
		return errResult("run cache unavailable"), nil
	}
	projects, err := s.router.ListProjects()
	if err != nil {
		return errResult(fmt.Sprintf("list projects: %v", err)), nil
	}

	type projectInfo struct {
		Name     string `json:"name"`
		RootPath string `json:"root_path"`
		Runs     int    `json:"runs"`
	}

	result := make([]projectInfo, 0, len(projects))
	for _, p := range projects {
		info := projectInfo{Name: p.Name, RootPath: p.RootPath}
		if st, err := s.router.ForProject(p.Name); err == nil {
			runs, _ := st.ListRuns(p.Name, 0)
			info.Runs = len(runs)
		}
		result = append(result, info)
	}

	return jsonResult(result), nil
}

func (s *Server) handleRunStats(_ context.Context, req *mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	args, err := parseArgs(req)
	if err != nil {
		return errResult(err.Error()), nil
	}
	name := getStringArg(args, "project_name")
	st, errRes := s.cacheFor(name)
	if errRes != nil {
		return errRes, nil
	}

	runs, err := st.ListRuns(name, getIntArg(args, "limit", 10))
	if err != nil {
		return errResult(err.Error()), nil
	}
	stats, err := st.RuleStats(name)
	if err != nil {
		return errResult(err.Error()), nil
	}

	type runInfo struct {
		ID        int64   `json:"id"`
		StartedAt string  `json:"started_at"`
		Files     int     `json:"files"`
		Skipped   int     `json:"skipped"`
		Failed    int     `json:"failed"`
		ElapsedMS float64 `json:"elapsed_ms"`
	}
	runInfos := make([]runInfo, 0, len(runs))
	for _, r := range runs {
		runInfos = append(runInfos, runInfo{r.ID, r.StartedAt, r.Files, r.Skipped, r.Failed, millis(r.Elapsed)})
	}
	timings := make([]ruleTiming, 0, len(stats))
	for _, rs := range stats {
		timings = append(timings, ruleTiming{Rule: rs.RuleID, Count: rs.Count, TotalMS: millis(rs.Total)})
	}

	return jsonResult(map[string]any{
		"project": name,
		"runs":    runInfos,
		"timings": timings,
	}), nil
}

func (s *Server) handleDeleteProject(_ context.Context, req *mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	args, err := parseArgs(req)
	if err != nil {
		return errResult(err.Error()), nil
	}

	name := getStringArg(args, "project_name")
	if _, errRes := s.cacheFor(name); errRes != nil {
		return errRes, nil
	}

	if err := s.router.DeleteProject(name); err != nil {
		return errResult(fmt.Sprintf("delete failed: %v", err)), nil
	}

	return jsonResult(map[string]any{
		"deleted": name,
		"status":  "ok",
	}), nil
}
