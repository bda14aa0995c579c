package commands

import (
	"log/slog"

	"github.com/modelcontextprotocol/go-sdk/mcp"
	"github.com/spf13/cobra"

	"github.com/DeusData/unminify/internal/store"
	"github.com/DeusData/unminify/internal/tools"
)

// NewMCPCommand creates the MCP server command.
func NewMCPCommand(version string) *cobra.Command {
	return &cobra.Command{
		Use:   "mcp",
		Short: "Start an MCP server on stdio",
		Long: `Start a Model Context Protocol (MCP) server on stdio transport.

Tools:
  - unminify_code: unminify a snippet and return the code
  - unminify_files: unminify a file tree into an output directory
  - list_rules: list the rewrite rules
  - list_projects, run_stats, delete_project: inspect the run cache`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			router, err := store.NewRouter()
			if err != nil {
				slog.Warn("mcp.cache.unavailable", "err", err)
				router = nil
			}
			if router != nil {
				defer router.CloseAll()
			}

			srv := tools.NewServer(router, version)
			return srv.MCPServer().Run(cmd.Context(), &mcp.StdioTransport{})
		},
	}
}
