package store

import (
	"fmt"
	"time"

	"github.com/DeusData/unminify/internal/timing"
)

// Run is one recorded batch.
type Run struct {
	ID        int64
	Project   string
	StartedAt string
	Files     int // files processed, failures included
	Skipped   int // unchanged files served from the cache
	Failed    int
	Elapsed   time.Duration
}

// RuleStat aggregates the stored measurements of one rule.
type RuleStat struct {
	RuleID string
	Count  int
	Total  time.Duration
	Mean   time.Duration
	Max    time.Duration
}

// RecordRun inserts a run and its measurements in one transaction and returns
// the new run id.
func (s *Store) RecordRun(run Run, ms []timing.Measurement) (int64, error) {
	if run.StartedAt == "" {
		run.StartedAt = Now()
	}
	var id int64
	err := s.WithTransaction(func(tx *Store) error {
		res, err := tx.q.Exec(`
			INSERT INTO runs (project, started_at, files, skipped, failed, elapsed_ns)
			VALUES (?, ?, ?, ?, ?, ?)`,
			run.Project, run.StartedAt, run.Files, run.Skipped, run.Failed, int64(run.Elapsed))
		if err != nil {
			return fmt.Errorf("insert run: %w", err)
		}
		if id, err = res.LastInsertId(); err != nil {
			return fmt.Errorf("run id: %w", err)
		}
		for _, m := range ms {
			if _, err := tx.q.Exec(
				"INSERT INTO measurements (run_id, file, rule_id, duration_ns) VALUES (?, ?, ?, ?)",
				id, m.File, m.RuleID, int64(m.Duration)); err != nil {
				return fmt.Errorf("insert measurement: %w", err)
			}
		}
		return nil
	})
	return id, err
}

// ListRuns returns the most recent runs of a project, newest first.
// limit <= 0 returns all of them.
func (s *Store) ListRuns(project string, limit int) ([]Run, error) {
	if limit <= 0 {
		limit = -1
	}
	rows, err := s.q.Query(`
		SELECT id, project, started_at, files, skipped, failed, elapsed_ns
		FROM runs WHERE project=? ORDER BY id DESC LIMIT ?`, project, limit)
	if err != nil {
		return nil, fmt.Errorf("list runs: %w", err)
	}
	defer rows.Close()
	var runs []Run
	for rows.Next() {
		var r Run
		var elapsed int64
		if err := rows.Scan(&r.ID, &r.Project, &r.StartedAt, &r.Files, &r.Skipped, &r.Failed, &elapsed); err != nil {
			return nil, err
		}
		r.Elapsed = time.Duration(elapsed)
		runs = append(runs, r)
	}
	return runs, rows.Err()
}

// RunMeasurements returns the measurements recorded for a run in insertion order.
func (s *Store) RunMeasurements(runID int64) ([]timing.Measurement, error) {
	rows, err := s.q.Query("SELECT file, rule_id, duration_ns FROM measurements WHERE run_id=? ORDER BY rowid", runID)
	if err != nil {
		return nil, fmt.Errorf("run measurements: %w", err)
	}
	defer rows.Close()
	var ms []timing.Measurement
	for rows.Next() {
		var m timing.Measurement
		var d int64
		if err := rows.Scan(&m.File, &m.RuleID, &d); err != nil {
			return nil, err
		}
		m.Duration = time.Duration(d)
		ms = append(ms, m)
	}
	return ms, rows.Err()
}

// RuleStats aggregates every stored measurement of a project per rule,
// sorted by total time descending.
func (s *Store) RuleStats(project string) ([]RuleStat, error) {
	rows, err := s.q.Query(`
		SELECT m.rule_id, COUNT(*), SUM(m.duration_ns), MAX(m.duration_ns)
		FROM measurements m JOIN runs r ON r.id = m.run_id
		WHERE r.project=?
		GROUP BY m.rule_id
		ORDER BY SUM(m.duration_ns) DESC, m.rule_id`, project)
	if err != nil {
		return nil, fmt.Errorf("rule stats: %w", err)
	}
	defer rows.Close()
	var stats []RuleStat
	for rows.Next() {
		var st RuleStat
		var total, maxNS int64
		if err := rows.Scan(&st.RuleID, &st.Count, &total, &maxNS); err != nil {
			return nil, err
		}
		st.Total = time.Duration(total)
		st.Max = time.Duration(maxNS)
		if st.Count > 0 {
			st.Mean = st.Total / time.Duration(st.Count)
		}
		stats = append(stats, st)
	}
	return stats, rows.Err()
}
