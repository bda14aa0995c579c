package commands

import (
	"github.com/spf13/cobra"

	"github.com/DeusData/unminify/internal/report"
	"github.com/DeusData/unminify/internal/rules"
)

// NewRulesCommand creates the rules command.
func NewRulesCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "rules",
		Short: "List the rewrite rules in execution order",
		Args:  cobra.NoArgs,
		Run: func(cmd *cobra.Command, _ []string) {
			report.Catalog(cmd.OutOrStdout(), rules.All())
		},
	}
}
