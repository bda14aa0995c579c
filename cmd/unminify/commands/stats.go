package commands

import (
	"fmt"
	"path/filepath"

	"github.com/spf13/cobra"

	"github.com/DeusData/unminify/internal/pipeline"
	"github.com/DeusData/unminify/internal/report"
	"github.com/DeusData/unminify/internal/store"
)

// NewStatsCommand creates the stats command.
func NewStatsCommand() *cobra.Command {
	var (
		limit int
		clearCache bool
	)

	cmd := &cobra.Command{
		Use:   "stats [input]",
		Short: "Show cached run history",
		Long: `Without arguments, list every input tree with a run cache. With an
input path, show its recent runs and all-time per-rule timings; --clear
deletes its cache instead.`,
		Args: cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			router, err := store.NewRouter()
			if err != nil {
				return err
			}
			defer router.CloseAll()
			out := cmd.OutOrStdout()

			if len(args) == 0 {
				projects, err := router.ListProjects()
				if err != nil {
					return err
				}
				report.Projects(out, projects)
				return nil
			}

			absIn, err := filepath.Abs(args[0])
			if err != nil {
				return err
			}
			project := pipeline.ProjectNameFromPath(absIn)
			if !router.HasProject(project) {
				return fmt.Errorf("no cached runs for %s", absIn)
			}
			if clearCache {
				if err := router.DeleteProject(project); err != nil {
					return err
				}
				fmt.Fprintf(out, "cache cleared for %s\n", absIn)
				return nil
			}

			st, err := router.ForProject(project)
			if err != nil {
				return err
			}
			runs, err := st.ListRuns(project, limit)
			if err != nil {
				return err
			}
			ruleStats, err := st.RuleStats(project)
			if err != nil {
				return err
			}
			report.Stats(out, absIn, runs, ruleStats)
			return nil
		},
	}

	cmd.Flags().IntVarP(&limit, "limit", "n", 10, "number of recent runs to show")
	cmd.Flags().BoolVar(&clearCache, "clear", false, "delete the cache of the input")
	return cmd
}
