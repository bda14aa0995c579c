package commands

import (
	"fmt"
	"os"
	"path/filepath"

	"github.com/spf13/cobra"

	"github.com/DeusData/unminify/internal/batch"
	"github.com/DeusData/unminify/internal/pipeline"
	"github.com/DeusData/unminify/internal/report"
	"github.com/DeusData/unminify/internal/rule"
	"github.com/DeusData/unminify/internal/worker"
)

// NewRunCommand creates the run command.
func NewRunCommand() *cobra.Command {
	var (
		flags runFlags
		diff  bool
	)

	cmd := &cobra.Command{
		Use:   "run <input>",
		Short: "Unminify a file or a directory tree",
		Long: `Unminify a file or every JavaScript-family file under a directory.

With -o, outputs are written under the output directory at the same
relative paths and a timing report is printed. A single input file without
-o is unminified to stdout.`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			opts, cleanup, err := flags.batchOptions(cmd, args[0])
			if err != nil {
				return err
			}
			defer cleanup()

			if opts.Output == "" {
				return runToStdout(cmd, opts, diff)
			}

			sum, err := batch.Run(cmd.Context(), opts)
			if err != nil {
				return err
			}
			out := cmd.OutOrStdout()
			if diff {
				for _, f := range sum.Files {
					if f.Err != nil || f.Skipped {
						continue
					}
					before, _ := os.ReadFile(f.File.Path)
					after, _ := os.ReadFile(f.OutputPath)
					fmt.Fprint(out, report.Colorize(report.Diff(f.File.RelPath, string(before), string(after))))
				}
			}
			report.Batch(out, sum)
			if sum.Failed > 0 {
				return fmt.Errorf("%d of %d files failed", sum.Failed, sum.Processed)
			}
			return nil
		},
	}

	flags.register(cmd)
	cmd.Flags().BoolVar(&diff, "diff", false, "print a diff of each input against its output")
	return cmd
}

// runToStdout unminifies a single file and prints the result, or its diff.
func runToStdout(cmd *cobra.Command, opts batch.Options, diff bool) error {
	if st, err := os.Stat(opts.Input); err != nil || st.IsDir() {
		return fmt.Errorf("%w: -o is required for a directory", batch.ErrNoOutput)
	}
	source, err := os.ReadFile(opts.Input)
	if err != nil {
		return err
	}
	fi := rule.FileInfo{Path: opts.Input, Source: source, Lang: worker.Dialect(opts.Input)}
	res, err := pipeline.RunTransformations(fi, opts.Rules, opts.Context)
	if err != nil {
		return err
	}
	if diff {
		fmt.Fprint(cmd.OutOrStdout(), report.Colorize(report.Diff(filepath.Base(opts.Input), string(source), res.Code)))
		return nil
	}
	fmt.Fprint(cmd.OutOrStdout(), res.Code)
	return nil
}
