// Package watcher polls an input tree and reruns a batch whenever one of its
// JavaScript files is added, removed or modified.
package watcher

import (
	"context"
	"log/slog"
	"os"
	"time"

	"github.com/DeusData/unminify/internal/discover"
)

const (
	baseInterval = 1 * time.Second
	maxInterval  = 60 * time.Second
)

type fileSnapshot struct {
	modTime time.Time
	size    int64
}

// RunFunc reruns the batch after a change.
type RunFunc func(ctx context.Context) error

// Watcher polls one input root with an interval that grows with its size.
type Watcher struct {
	root  string
	opts  *discover.Options
	runFn RunFunc

	snapshot map[string]fileSnapshot
	interval time.Duration
	nextPoll time.Time
}

// New creates a Watcher over root. opts is passed to discovery so that the
// watcher sees the same files the batch does; its SkipDir should name the
// output directory, whose writes must not count as changes.
func New(root string, opts *discover.Options, runFn RunFunc) *Watcher {
	return &Watcher{root: root, opts: opts, runFn: runFn}
}

// Run blocks until ctx is cancelled. Ticks at baseInterval, polling only
// when the adaptive interval has elapsed. The first poll captures a baseline
// without running.
func (w *Watcher) Run(ctx context.Context) {
	ticker := time.NewTicker(baseInterval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			if time.Now().Before(w.nextPoll) {
				continue // not due yet
			}
			w.poll(ctx)
		}
	}
}

// poll captures a snapshot of the tree and compares it with the previous one.
// It reports whether runFn was called.
func (w *Watcher) poll(ctx context.Context) bool {
	if _, err := os.Stat(w.root); err != nil {
		slog.Warn("watcher.root_gone", "path", w.root)
		w.nextPoll = time.Now().Add(maxInterval)
		return false
	}

	snap, err := captureSnapshot(ctx, w.root, w.opts)
	if err != nil {
		slog.Warn("watcher.snapshot", "path", w.root, "err", err)
		w.nextPoll = time.Now().Add(w.interval)
		return false
	}

	interval := pollInterval(len(snap))

	if w.snapshot == nil {
		slog.Debug("watcher.baseline", "path", w.root, "files", len(snap))
		w.snapshot = snap
		w.interval = interval
		w.nextPoll = time.Now().Add(interval)
		return false
	}

	if snapshotsEqual(w.snapshot, snap) {
		w.interval = interval
		w.nextPoll = time.Now().Add(interval)
		return false
	}

	slog.Info("watcher.changed", "path", w.root, "files", len(snap))
	if err := w.runFn(ctx); err != nil {
		slog.Warn("watcher.run", "path", w.root, "err", err)
		// Keep old snapshot so we retry next cycle
		w.nextPoll = time.Now().Add(interval)
		return true
	}

	w.snapshot = snap
	w.interval = interval
	w.nextPoll = time.Now().Add(interval)
	return true
}

// captureSnapshot walks the tree with discover.Discover and records
// mtime+size for each file.
func captureSnapshot(ctx context.Context, root string, opts *discover.Options) (map[string]fileSnapshot, error) {
	files, err := discover.Discover(ctx, root, opts)
	if err != nil {
		return nil, err
	}

	snap := make(map[string]fileSnapshot, len(files))
	for _, f := range files {
		info, statErr := os.Stat(f.Path)
		if statErr != nil {
			continue
		}
		snap[f.RelPath] = fileSnapshot{
			modTime: info.ModTime(),
			size:    info.Size(),
		}
	}
	return snap, nil
}

// snapshotsEqual returns true if two snapshots have identical files with same mtime+size.
func snapshotsEqual(a, b map[string]fileSnapshot) bool {
	if len(a) != len(b) {
		return false
	}
	for path, aSnap := range a {
		bSnap, ok := b[path]
		if !ok {
			return false
		}
		if !aSnap.modTime.Equal(bSnap.modTime) || aSnap.size != bSnap.size {
			return false
		}
	}
	return true
}

// pollInterval computes the adaptive interval from file count.
// 1s base + 1s per 500 files, capped at 60s.
func pollInterval(fileCount int) time.Duration {
	return min(baseInterval+time.Duration(fileCount/500)*time.Second, maxInterval)
}
