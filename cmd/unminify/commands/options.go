package commands

import (
	"fmt"
	"os"
	"path/filepath"

	"github.com/spf13/cobra"

	"github.com/DeusData/unminify/internal/batch"
	"github.com/DeusData/unminify/internal/config"
	"github.com/DeusData/unminify/internal/pipeline"
	"github.com/DeusData/unminify/internal/rules"
	"github.com/DeusData/unminify/internal/store"
)

// runFlags are shared by run and watch.
type runFlags struct {
	output     string
	workers    int
	rules      []string
	exclude    []string
	cache      bool
	mapping    string
	configPath string
}

func (f *runFlags) register(cmd *cobra.Command) {
	fl := cmd.Flags()
	fl.StringVarP(&f.output, "output", "o", "", "output directory (or file when the input is a file)")
	fl.IntVarP(&f.workers, "workers", "w", 0, "worker count (default: one per CPU)")
	fl.StringSliceVar(&f.rules, "rules", nil, "comma-separated rule ids to apply, in order (default: all)")
	fl.StringSliceVar(&f.exclude, "exclude", nil, "extra glob patterns to skip")
	fl.BoolVar(&f.cache, "cache", false, "skip files unchanged since the last cached run")
	fl.StringVar(&f.mapping, "mapping", "", "YAML or JSON file mapping module ids to names")
	fl.StringVar(&f.configPath, "config", "", "config file (default: <input>/"+config.FileName+")")
}

// batchOptions merges the config file and the flags into batch options.
// Flags win over the config file. The cache is only opened for a run with an
// output location; the returned cleanup closes it.
func (f *runFlags) batchOptions(cmd *cobra.Command, input string) (batch.Options, func(), error) {
	noop := func() {}
	absIn, err := filepath.Abs(input)
	if err != nil {
		return batch.Options{}, noop, err
	}
	st, err := os.Stat(absIn)
	if err != nil {
		return batch.Options{}, noop, err
	}

	var cfg *config.Config
	switch {
	case f.configPath != "":
		cfg = config.LoadFile(f.configPath)
	case st.IsDir():
		cfg = config.Load(absIn)
	default:
		cfg = config.Load(filepath.Dir(absIn))
	}

	if cmd.Flags().Changed("workers") {
		cfg.Workers = &f.workers
	}
	if cmd.Flags().Changed("cache") {
		cfg.Cache = &f.cache
	}
	if len(f.rules) > 0 {
		cfg.Rules = f.rules
	}
	cfg.Exclude = append(cfg.Exclude, f.exclude...)
	if f.mapping != "" {
		if err := cfg.LoadMapping(f.mapping); err != nil {
			return batch.Options{}, noop, err
		}
	}

	selected, err := rules.ByID(cfg.Rules)
	if err != nil {
		return batch.Options{}, noop, err
	}

	opts := batch.Options{
		Input:   absIn,
		Workers: cfg.EffectiveWorkers(),
		Rules:   selected,
		Context: cfg.Context(),
		Exclude: cfg.Exclude,
		Project: pipeline.ProjectNameFromPath(absIn),
	}
	if f.output != "" {
		if opts.Output, err = filepath.Abs(f.output); err != nil {
			return batch.Options{}, noop, err
		}
	}
	if !cfg.EffectiveCache() || opts.Output == "" {
		return opts, noop, nil
	}
	cache, err := store.Open(opts.Project)
	if err != nil {
		return batch.Options{}, noop, fmt.Errorf("open cache: %w", err)
	}
	opts.Cache = cache
	return opts, func() { cache.Close() }, nil
}
