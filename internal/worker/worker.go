// Package worker runs the rule pipeline over many files in parallel.
//
// Each file is handled end to end by one goroutine. A failing file (bad input,
// syntax error, rule error or panic, I/O error) is logged and reported in its
// Result; it never stops the other files.
package worker

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"runtime"
	"runtime/debug"
	"strings"

	"golang.org/x/sync/errgroup"

	"github.com/DeusData/unminify/internal/lang"
	"github.com/DeusData/unminify/internal/pipeline"
	"github.com/DeusData/unminify/internal/rule"
	"github.com/DeusData/unminify/internal/timing"
)

var (
	// ErrInvalidTask is returned for a task without an input or output path.
	ErrInvalidTask = errors.New("invalid task")
	// ErrPanic wraps a panic recovered while processing a file.
	ErrPanic = errors.New("panic")
)

// Task is one file to unminify.
type Task struct {
	InputPath  string
	OutputPath string
	Context    *rule.Context
}

// Result is the outcome of one task. Err is non-nil for a failed file, whose
// Measurements are then empty.
type Result struct {
	Task         Task
	Measurements []timing.Measurement
	Err          error
	InBytes      int
	OutBytes     int
}

// Pool is a fixed-size set of workers sharing one read-only rule list.
type Pool struct {
	workers int
	rules   []rule.Rule
}

// New creates a pool. workers < 1 means one worker per CPU.
func New(workers int, rules []rule.Rule) *Pool {
	if workers < 1 {
		workers = runtime.NumCPU()
	}
	return &Pool{workers: workers, rules: rules}
}

// Workers returns the pool size.
func (p *Pool) Workers() int {
	return p.workers
}

// Run processes tasks and returns one Result per task in completion order.
// Cancelling ctx stops handing out tasks; tasks already started run to
// completion, and tasks never started are reported with ctx's error.
func (p *Pool) Run(ctx context.Context, tasks []Task) []Result {
	taskCh := make(chan Task)
	resCh := make(chan Result, len(tasks))

	g := new(errgroup.Group)
	for range min(p.workers, max(len(tasks), 1)) {
		g.Go(func() error {
			for t := range taskCh {
				resCh <- p.process(t)
			}
			return nil
		})
	}
	g.Go(func() error {
		defer close(taskCh)
		for i, t := range tasks {
			if ctx.Err() != nil {
				skipRemaining(ctx, tasks[i:], resCh)
				return nil
			}
			select {
			case taskCh <- t:
			case <-ctx.Done():
				skipRemaining(ctx, tasks[i:], resCh)
				return nil
			}
		}
		return nil
	})
	go func() {
		_ = g.Wait()
		close(resCh)
	}()

	results := make([]Result, 0, len(tasks))
	for r := range resCh {
		results = append(results, r)
	}
	return results
}

func skipRemaining(ctx context.Context, tasks []Task, resCh chan<- Result) {
	for _, t := range tasks {
		resCh <- Result{Task: t, Err: context.Cause(ctx)}
	}
}

// Unminify processes one task: read, parse, run the timed rules, write. It
// returns the per-rule measurements, or an error and no measurements.
func (p *Pool) Unminify(task Task) ([]timing.Measurement, error) {
	r := p.process(task)
	return r.Measurements, r.Err
}

func (p *Pool) process(task Task) (res Result) {
	res.Task = task
	defer func() {
		if v := recover(); v != nil {
			res.Err = fmt.Errorf("%w: %v\n%s", ErrPanic, v, debug.Stack())
		}
		if res.Err != nil {
			res.Measurements = nil
			slog.Error("worker.file.err", "file", task.InputPath, "err", res.Err)
		}
	}()

	if task.InputPath == "" || task.OutputPath == "" {
		res.Err = fmt.Errorf("%w: input %q output %q", ErrInvalidTask, task.InputPath, task.OutputPath)
		return res
	}
	source, err := os.ReadFile(task.InputPath)
	if err != nil {
		res.Err = fmt.Errorf("read: %w", err)
		return res
	}
	res.InBytes = len(source)

	fi := rule.FileInfo{Path: task.InputPath, Source: source, Lang: Dialect(task.InputPath)}
	tm := timing.New()
	out, err := pipeline.RunTransformations(fi, timing.Wrap(tm, DisplayPath(task.InputPath), p.rules), task.Context)
	if err != nil {
		res.Err = err
		return res
	}

	if err := os.MkdirAll(filepath.Dir(task.OutputPath), 0o755); err != nil {
		res.Err = fmt.Errorf("mkdir: %w", err)
		return res
	}
	if err := os.WriteFile(task.OutputPath, []byte(out.Code), 0o644); err != nil {
		res.Err = fmt.Errorf("write: %w", err)
		return res
	}
	res.OutBytes = len(out.Code)
	res.Measurements = tm.Measurements()
	return res
}

// DisplayPath shortens path to be relative to the working directory when it
// lies beneath it. Measurements are keyed by this form.
func DisplayPath(path string) string {
	wd, err := os.Getwd()
	if err != nil {
		return path
	}
	abs, err := filepath.Abs(path)
	if err != nil {
		return path
	}
	rel, err := filepath.Rel(wd, abs)
	if err != nil || rel == ".." || strings.HasPrefix(rel, ".."+string(filepath.Separator)) {
		return path
	}
	return rel
}

// Dialect picks the grammar for a path by extension, defaulting to JavaScript.
func Dialect(path string) lang.Language {
	if l, ok := lang.LanguageForExtension(filepath.Ext(path)); ok {
		return l
	}
	return lang.JavaScript
}
