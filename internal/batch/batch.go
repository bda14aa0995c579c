// Package batch unminifies an input tree: discover the files, skip the ones
// the run cache has already seen, run the rest through the worker pool and
// record the outcome.
package batch

import (
	"context"
	"encoding/hex"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"os"
	"path/filepath"
	"runtime"
	"strconv"
	"strings"
	"time"

	"github.com/zeebo/xxh3"
	"golang.org/x/sync/errgroup"

	"github.com/DeusData/unminify/internal/discover"
	"github.com/DeusData/unminify/internal/pipeline"
	"github.com/DeusData/unminify/internal/rule"
	"github.com/DeusData/unminify/internal/store"
	"github.com/DeusData/unminify/internal/timing"
	"github.com/DeusData/unminify/internal/worker"
)

// ErrNoOutput is returned when a batch has no output location.
var ErrNoOutput = errors.New("no output path")

// Options configures one batch.
type Options struct {
	Input   string // file or directory
	Output  string // directory; a JavaScript file path when Input is a file
	Workers int    // < 1 means one per CPU
	Rules   []rule.Rule
	Context *rule.Context
	Exclude []string

	// Cache, when set, skips inputs whose content hash matches the last
	// successful run with the same rule list, and records the run.
	Cache   *store.Store
	Project string // cache key; defaults to a name derived from Input
}

// FileResult is the outcome for one discovered file.
type FileResult struct {
	File         discover.FileInfo
	OutputPath   string
	Skipped      bool // unchanged since the cached run, not processed
	Err          error
	InBytes      int
	OutBytes     int
	Measurements []timing.Measurement
}

// Summary is the outcome of a batch.
type Summary struct {
	Project      string
	Files        []FileResult // discovery order
	Measurements []timing.Measurement
	Processed    int
	Skipped      int
	Failed       int
	Elapsed      time.Duration
	RunID        int64 // 0 without a cache
}

// Failures returns the failed file results.
func (s *Summary) Failures() []FileResult {
	var out []FileResult
	for _, f := range s.Files {
		if f.Err != nil {
			out = append(out, f)
		}
	}
	return out
}

// Run executes one batch. Per-file failures are reported in the Summary; the
// returned error is reserved for failures of the batch itself: discovery,
// cache access or cancellation. A cancelled batch still returns its Summary.
func Run(ctx context.Context, opts Options) (*Summary, error) {
	t0 := time.Now()
	if opts.Output == "" {
		return nil, ErrNoOutput
	}
	absIn, err := filepath.Abs(opts.Input)
	if err != nil {
		return nil, err
	}
	project := opts.Project
	if project == "" {
		project = pipeline.ProjectNameFromPath(absIn)
	}

	files, err := discover.Discover(ctx, absIn, &discover.Options{Exclude: opts.Exclude, SkipDir: opts.Output})
	if err != nil {
		return nil, fmt.Errorf("discover: %w", err)
	}
	single := len(files) == 1 && files[0].Path == absIn
	outFor := func(f discover.FileInfo) string {
		if single && isScriptPath(opts.Output) {
			return opts.Output
		}
		return discover.OutputPath(opts.Output, f)
	}

	sig := Signature(opts.Rules, opts.Context)
	changed, unchanged := files, []discover.FileInfo(nil)
	var hashes map[string]string
	if opts.Cache != nil {
		if err := opts.Cache.UpsertProject(project, absIn); err != nil {
			return nil, fmt.Errorf("cache project: %w", err)
		}
		stored, err := opts.Cache.GetFileHashes(project)
		if err != nil {
			return nil, fmt.Errorf("cache hashes: %w", err)
		}
		hashes = hashFiles(ctx, files)
		changed, unchanged = classifyFiles(files, hashes, stored, sig, outFor)
	}

	tasks := make([]worker.Task, 0, len(changed))
	for _, f := range changed {
		tasks = append(tasks, worker.Task{InputPath: f.Path, OutputPath: outFor(f), Context: opts.Context})
	}
	pool := worker.New(opts.Workers, opts.Rules)
	results := pool.Run(ctx, tasks)

	byPath := make(map[string]worker.Result, len(results))
	for _, r := range results {
		byPath[r.Task.InputPath] = r
	}
	skipped := make(map[string]bool, len(unchanged))
	for _, f := range unchanged {
		skipped[f.Path] = true
	}

	sum := &Summary{Project: project, Files: make([]FileResult, 0, len(files))}
	var fresh []store.FileHash
	for _, f := range files {
		fr := FileResult{File: f, OutputPath: outFor(f)}
		if skipped[f.Path] {
			fr.Skipped = true
			sum.Skipped++
			sum.Files = append(sum.Files, fr)
			continue
		}
		r := byPath[f.Path]
		fr.Err, fr.InBytes, fr.OutBytes, fr.Measurements = r.Err, r.InBytes, r.OutBytes, r.Measurements
		sum.Processed++
		if fr.Err != nil {
			sum.Failed++
		} else if h, ok := hashes[f.RelPath]; ok {
			fresh = append(fresh, store.FileHash{Project: project, RelPath: f.RelPath, Hash: h, Rules: sig})
		}
		sum.Measurements = append(sum.Measurements, fr.Measurements...)
		sum.Files = append(sum.Files, fr)
	}
	sum.Elapsed = time.Since(t0)

	if opts.Cache != nil {
		if err := opts.Cache.UpsertFileHashBatch(fresh); err != nil {
			return sum, fmt.Errorf("cache hashes: %w", err)
		}
		run := store.Run{
			Project: project,
			Files:   sum.Processed,
			Skipped: sum.Skipped,
			Failed:  sum.Failed,
			Elapsed: sum.Elapsed,
		}
		if sum.RunID, err = opts.Cache.RecordRun(run, sum.Measurements); err != nil {
			return sum, fmt.Errorf("cache run: %w", err)
		}
	}

	slog.Info("batch.done",
		"project", project,
		"files", len(files),
		"processed", sum.Processed,
		"skipped", sum.Skipped,
		"failed", sum.Failed,
		"elapsed", sum.Elapsed,
	)
	return sum, ctx.Err()
}

// Signature identifies an ordered rule list and the module context the rules
// read. A cached hash only counts when the file was produced by the same rules
// with the same mapping and metadata.
func Signature(rules []rule.Rule, rc *rule.Context) string {
	ids := make([]string, len(rules))
	for i, r := range rules {
		ids[i] = r.ID
	}
	sig := strings.Join(ids, ",")
	if rc == nil || (len(rc.ModuleMapping) == 0 && len(rc.ModuleMeta) == 0) {
		return sig
	}
	return sig + "@" + contextHash(rc)
}

// contextHash hashes the module context. Map keys are encoded in sorted order,
// so equal contexts always hash alike.
func contextHash(rc *rule.Context) string {
	data, err := json.Marshal(struct {
		Mapping map[string]string `json:"mapping"`
		Meta    map[string]any    `json:"meta"`
	}{rc.ModuleMapping, rc.ModuleMeta})
	if err != nil {
		// fmt also prints maps in key order
		data = fmt.Appendf(nil, "%v|%v", rc.ModuleMapping, rc.ModuleMeta)
	}
	return strconv.FormatUint(xxh3.Hash(data), 16)
}

// hashFiles hashes every file in parallel. Unreadable files are left out and
// therefore always count as changed.
func hashFiles(ctx context.Context, files []discover.FileInfo) map[string]string {
	results := make([]string, len(files))
	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(max(1, min(runtime.NumCPU(), len(files))))
	for i, f := range files {
		g.Go(func() error {
			if gctx.Err() != nil {
				return nil
			}
			hash, err := fileHash(f.Path)
			if err != nil {
				slog.Warn("batch.hash.err", "file", f.RelPath, "err", err)
				return nil
			}
			results[i] = hash
			return nil
		})
	}
	_ = g.Wait()

	hashes := make(map[string]string, len(files))
	for i, f := range files {
		if results[i] != "" {
			hashes[f.RelPath] = results[i]
		}
	}
	return hashes
}

// classifyFiles splits files into those that need processing and those whose
// content, rule list and output are unchanged since the last cached run.
func classifyFiles(files []discover.FileInfo, hashes map[string]string, stored map[string]store.FileHash, sig string, outFor func(discover.FileInfo) string) (changed, unchanged []discover.FileInfo) {
	if len(stored) == 0 {
		return files, nil // nothing cached → full run
	}
	for _, f := range files {
		prev, ok := stored[f.RelPath]
		h := hashes[f.RelPath]
		if !ok || h == "" || prev.Hash != h || prev.Rules != sig {
			changed = append(changed, f)
			continue
		}
		if _, err := os.Stat(outFor(f)); err != nil {
			changed = append(changed, f) // output removed since
			continue
		}
		unchanged = append(unchanged, f)
	}
	return changed, unchanged
}

func fileHash(path string) (string, error) {
	f, err := os.Open(path)
	if err != nil {
		return "", err
	}
	defer f.Close()
	h := xxh3.New()
	if _, err := io.Copy(h, f); err != nil {
		return "", err
	}
	return hex.EncodeToString(h.Sum(nil)), nil
}

func isScriptPath(p string) bool {
	switch filepath.Ext(p) {
	case ".js", ".mjs", ".cjs", ".jsx", ".ts", ".mts", ".cts", ".tsx":
		return true
	}
	return false
}
