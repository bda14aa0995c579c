package commands

import (
	"context"
	"errors"
	"os"
	"os/signal"

	"github.com/spf13/cobra"

	"github.com/DeusData/unminify/internal/batch"
	"github.com/DeusData/unminify/internal/discover"
	"github.com/DeusData/unminify/internal/report"
	"github.com/DeusData/unminify/internal/watcher"
)

// NewWatchCommand creates the watch command.
func NewWatchCommand() *cobra.Command {
	var flags runFlags

	cmd := &cobra.Command{
		Use:   "watch <input>",
		Short: "Unminify a tree, then rerun whenever one of its files changes",
		Long: `Run a batch like "run", then poll the input tree and rerun on every
change until interrupted. Use --cache to only reprocess the changed files.`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			opts, cleanup, err := flags.batchOptions(cmd, args[0])
			if err != nil {
				return err
			}
			defer cleanup()
			if opts.Output == "" {
				return batch.ErrNoOutput
			}

			ctx, stop := signal.NotifyContext(cmd.Context(), os.Interrupt)
			defer stop()

			runOnce := func(ctx context.Context) error {
				sum, err := batch.Run(ctx, opts)
				if sum != nil {
					report.Batch(cmd.OutOrStdout(), sum)
				}
				return err
			}
			if err := runOnce(ctx); err != nil && !errors.Is(err, context.Canceled) {
				return err
			}

			w := watcher.New(opts.Input, &discover.Options{Exclude: opts.Exclude, SkipDir: opts.Output}, runOnce)
			w.Run(ctx)
			return nil
		},
	}

	flags.register(cmd)
	return cmd
}
