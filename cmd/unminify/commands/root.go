// Package commands implements the unminify command line.
package commands

import (
	"fmt"
	"io"
	"log/slog"

	"github.com/fatih/color"
	"github.com/spf13/cobra"

	"github.com/DeusData/unminify/internal/selfupdate"
)

// NewRootCommand builds the unminify command tree.
func NewRootCommand(version string) *cobra.Command {
	var (
		verbose bool
		quiet   bool
		noColor bool
	)

	rootCmd := &cobra.Command{
		Use:   "unminify",
		Short: "Rewrite minified JavaScript into readable source",
		Long: `unminify parses minified JavaScript or TypeScript, applies an ordered
list of rewrite rules and pretty-prints the result.

Commands:
  run     Unminify a file or a directory tree
  watch   Rerun whenever an input file changes
  mcp     Serve the unminifier as MCP tools over stdio
  rules   List the rewrite rules
  stats   Show cached run history`,
		SilenceUsage:  true,
		SilenceErrors: true,
		PersistentPreRun: func(cmd *cobra.Command, _ []string) {
			setupLogging(cmd.ErrOrStderr(), verbose, quiet)
			if noColor {
				color.NoColor = true //nolint:reassign // library global
			}
		},
	}

	rootCmd.PersistentFlags().BoolVarP(&verbose, "verbose", "v", false, "debug logging")
	rootCmd.PersistentFlags().BoolVarP(&quiet, "quiet", "q", false, "only warnings and errors")
	rootCmd.PersistentFlags().BoolVar(&noColor, "no-color", false, "disable colored output")

	rootCmd.AddCommand(
		NewRunCommand(),
		NewWatchCommand(),
		NewMCPCommand(version),
		NewRulesCommand(),
		NewStatsCommand(),
		versionCmd(version),
	)
	return rootCmd
}

func versionCmd(version string) *cobra.Command {
	var check bool
	cmd := &cobra.Command{
		Use:   "version",
		Short: "Show version information",
		RunE: func(cmd *cobra.Command, _ []string) error {
			out := cmd.OutOrStdout()
			fmt.Fprintf(out, "unminify %s\n", version)
			if !check {
				return nil
			}
			u, err := selfupdate.Check(cmd.Context(), version)
			if err != nil {
				return fmt.Errorf("check for updates: %w", err)
			}
			if u == nil {
				fmt.Fprintln(out, "up to date")
				return nil
			}
			color.New(color.FgYellow).Fprintf(out, "unminify %s is available", u.Latest)
			fmt.Fprintln(out)
			if u.DownloadURL != "" {
				fmt.Fprintf(out, "  download: %s\n", u.DownloadURL)
			} else if u.ReleaseURL != "" {
				fmt.Fprintf(out, "  release: %s\n", u.ReleaseURL)
			}
			return nil
		},
	}
	cmd.Flags().BoolVar(&check, "check", false, "check GitHub for a newer release")
	return cmd
}

// setupLogging installs the default slog handler: info level, debug with -v,
// warnings only with -q.
func setupLogging(w io.Writer, verbose, quiet bool) {
	level := slog.LevelInfo
	switch {
	case verbose:
		level = slog.LevelDebug
	case quiet:
		level = slog.LevelWarn
	}
	slog.SetDefault(slog.New(slog.NewTextHandler(w, &slog.HandlerOptions{Level: level})))
}
