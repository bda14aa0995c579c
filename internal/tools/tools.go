package tools

import (
	"encoding/json"
	"fmt"
	"sync"

	"github.com/modelcontextprotocol/go-sdk/mcp"

	"github.com/DeusData/unminify/internal/store"
)

// Server wraps the MCP server with tool handlers.
type Server struct {
	mcp     *mcp.Server
	router  *store.StoreRouter // nil disables the run cache
	version string
	batchMu sync.Mutex // one batch at a time; each already fans out to every CPU
}

// NewServer creates a new MCP server with all tools registered. r may be nil.
func NewServer(r *store.StoreRouter, version string) *Server {
	srv := &Server{
		router:  r,
		version: version,
		mcp: mcp.NewServer(
			&mcp.Implementation{
				Name:    "unminify",
				Version: version,
			},
			nil,
		),
	}
	srv.registerTools()
	return srv
}

// MCPServer returns the underlying MCP server.
func (s *Server) MCPServer() *mcp.Server {
	return s.mcp
}

func (s *Server) registerTools() {
	s.mcp.AddTool(&mcp.Tool{
		Name:        "unminify_code",
		Description: "Unminify a JavaScript or TypeScript snippet. Parses the code, applies the rewrite rules in order (IIFE parameter inlining, module id mapping, literal rewrites) and returns the pretty-printed result with per-rule timings.",
		InputSchema: json.RawMessage(`{
			"type": "object",
			"properties": {
				"code": {
					"type": "string",
					"description": "Source code to unminify"
				},
				"language": {
					"type": "string",
					"description": "Dialect of the code (default javascript)",
					"enum": ["javascript", "typescript", "tsx"]
				},
				"rules": {
					"type": "array",
					"items": {"type": "string"},
					"description": "Rule ids to apply, in order. Omit for the full catalog (see list_rules)."
				},
				"module_mapping": {
					"type": "object",
					"additionalProperties": {"type": "string"},
					"description": "Module id to readable name, used by the module-mapping rule (e.g. {\"12\": \"react\"})"
				}
			},
			"required": ["code"]
		}`),
	}, s.handleUnminifyCode)

	s.mcp.AddTool(&mcp.Tool{
		Name:        "unminify_files",
		Description: "Unminify every JavaScript-family file under an input path into an output directory, in parallel. A failing file is reported and never stops the others. Returns processed/skipped/failed counts, the failures, and per-rule timing totals.",
		InputSchema: json.RawMessage(`{
			"type": "object",
			"properties": {
				"input": {
					"type": "string",
					"description": "Absolute path of a file or directory to unminify"
				},
				"output": {
					"type": "string",
					"description": "Absolute path of the output directory (or output file when input is a file)"
				},
				"rules": {
					"type": "array",
					"items": {"type": "string"},
					"description": "Rule ids to apply, in order. Omit for the full catalog."
				},
				"workers": {
					"type": "integer",
					"description": "Worker count (default: one per CPU)"
				},
				"cache": {
					"type": "boolean",
					"description": "Skip files unchanged since the last cached run and record this run (default false)"
				}
			},
			"required": ["input", "output"]
		}`),
	}, s.handleUnminifyFiles)

	s.mcp.AddTool(&mcp.Tool{
		Name:        "list_rules",
		Description: "List the available rewrite rules in their default order, with ids and descriptions.",
		InputSchema: json.RawMessage(`{"type": "object"}`),
	}, s.handleListRules)

	s.mcp.AddTool(&mcp.Tool{
		Name:        "list_projects",
		Description: "List input trees with a run cache, with their root paths.",
		InputSchema: json.RawMessage(`{"type": "object"}`),
	}, s.handleListProjects)

	s.mcp.AddTool(&mcp.Tool{
		Name:        "run_stats",
		Description: "Show recent cached runs of a project and its all-time per-rule timing totals.",
		InputSchema: json.RawMessage(`{
			"type": "object",
			"properties": {
				"project_name": {
					"type": "string",
					"description": "Project name as returned by list_projects"
				},
				"limit": {
					"type": "integer",
					"description": "Number of recent runs to return (default 10)"
				}
			},
			"required": ["project_name"]
		}`),
	}, s.handleRunStats)

	s.mcp.AddTool(&mcp.Tool{
		Name:        "delete_project",
		Description: "Delete the run cache of a project (file hashes, runs, measurements). The next cached run reprocesses every file.",
		InputSchema: json.RawMessage(`{
			"type": "object",
			"properties": {
				"project_name": {
					"type": "string",
					"description": "Name of the project to delete"
				}
			},
			"required": ["project_name"]
		}`),
	}, s.handleDeleteProject)
}

// jsonResult marshals data to JSON and returns as tool result.
func jsonResult(data any) *mcp.CallToolResult {
	b, err := json.MarshalIndent(data, "", "  ")
	if err != nil {
		return errResult("json marshal err=" + err.Error())
	}
	return &mcp.CallToolResult{
		Content: []mcp.Content{
			&mcp.TextContent{Text: string(b)},
		},
	}
}

// errResult returns a tool result indicating an error.
func errResult(msg string) *mcp.CallToolResult {
	return &mcp.CallToolResult{
		Content: []mcp.Content{
			&mcp.TextContent{Text: msg},
		},
		IsError: true,
	}
}

// parseArgs unmarshals the raw JSON arguments into a map.
func parseArgs(req *mcp.CallToolRequest) (map[string]any, error) {
	if req.Params == nil || len(req.Params.Arguments) == 0 {
		return map[string]any{}, nil
	}
	var m map[string]any
	if err := json.Unmarshal(req.Params.Arguments, &m); err != nil {
		return nil, fmt.Errorf("invalid arguments: %w", err)
	}
	return m, nil
}

// getStringArg extracts a string argument from parsed args.
func getStringArg(args map[string]any, key string) string {
	s, _ := args[key].(string)
	return s
}

// getIntArg extracts an integer argument with a default value.
func getIntArg(args map[string]any, key string, defaultVal int) int {
	f, ok := args[key].(float64) // JSON numbers decode as float64
	if !ok {
		return defaultVal
	}
	return int(f)
}

// getBoolArg extracts a boolean argument from parsed args.
func getBoolArg(args map[string]any, key string) bool {
	b, _ := args[key].(bool)
	return b
}

// getStringsArg extracts a string array argument, skipping non-string items.
func getStringsArg(args map[string]any, key string) []string {
	items, _ := args[key].([]any)
	out := make([]string, 0, len(items))
	for _, it := range items {
		if s, ok := it.(string); ok {
			out = append(out, s)
		}
	}
	return out
}

// getStringMapArg extracts a string-to-string object argument.
func getStringMapArg(args map[string]any, key string) map[string]string {
	obj, _ := args[key].(map[string]any)
	if len(obj) == 0 {
		return nil
	}
	out := make(map[string]string, len(obj))
	for k, v := range obj {
		switch v := v.(type) {
		case string:
			out[k] = v
		case float64:
			out[k] = fmt.Sprint(v)
		}
	}
	return out
}
