// File path: internal/catalog/runs.go
package catalog

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"

	"github.com/nicodishanthj/flowlang/internal/pipeline"
)

// Run is one recorded conversion.
type Run struct {
	ID           string    `db:"id" json:"id"`
	FlowName     string    `db:"flow_name" json:"flow_name,omitempty"`
	Source       string    `db:"source" json:"source,omitempty"`
	Dialect      string    `db:"dialect" json:"dialect"`
	Target       string    `db:"target" json:"target"`
	Complexity   string    `db:"complexity" json:"complexity,omitempty"`
	NodeCount    int       `db:"node_count" json:"node_count"`
	EdgeCount    int       `db:"edge_count" json:"edge_count"`
	Success      bool      `db:"success" json:"success"`
	ErrorCount   int       `db:"error_count" json:"error_count"`
	WarningCount int       `db:"warning_count" json:"warning_count"`
	CodeBytes    int       `db:"code_bytes" json:"code_bytes"`
	ElapsedMS    int64     `db:"elapsed_ms" json:"elapsed_ms"`
	CreatedAt    time.Time `db:"created_at" json:"created_at"`
}

// TargetStats aggregates recorded runs per generation target.
type TargetStats struct {
	Target       string  `db:"target" json:"target"`
	Total        int     `db:"total" json:"total"`
	Succeeded    int     `db:"succeeded" json:"succeeded"`
	AvgNodes     float64 `db:"avg_nodes" json:"avg_nodes"`
	AvgElapsedMS float64 `db:"avg_elapsed_ms" json:"avg_elapsed_ms"`
}

// NewRun builds a catalog row from a finished conversion. The id is a
// fresh uuid so rows from concurrent runs never collide.
func NewRun(source string, res *pipeline.Result) Run {
	meta := res.Metadata
	return Run{
		ID:           uuid.NewString(),
		FlowName:     meta.FlowName,
		Source:       source,
		Dialect:      string(meta.Version),
		Target:       string(meta.Target),
		Complexity:   string(meta.Complexity),
		NodeCount:    meta.NodeCount,
		EdgeCount:    meta.EdgeCount,
		Success:      res.Success,
		ErrorCount:   len(res.Errors),
		WarningCount: len(res.Warnings),
		CodeBytes:    len(res.Code),
		ElapsedMS:    meta.Elapsed.Milliseconds(),
		CreatedAt:    time.Now().UTC(),
	}
}

// RecordRun inserts one run row.
func (s *Store) RecordRun(ctx context.Context, run Run) error {
	if s == nil || s.db == nil {
		return fmt.Errorf("catalog store not initialised")
	}
	if strings.TrimSpace(run.ID) == "" {
		return fmt.Errorf("run id required")
	}
	if run.CreatedAt.IsZero() {
		run.CreatedAt = time.Now().UTC()
	}
	_, err := s.db.NamedExecContext(ctx, `INSERT INTO runs (
                id, flow_name, source, dialect, target, complexity,
                node_count, edge_count, success, error_count, warning_count,
                code_bytes, elapsed_ms, created_at
        ) VALUES (
                :id, :flow_name, :source, :dialect, :target, :complexity,
                :node_count, :edge_count, :success, :error_count, :warning_count,
                :code_bytes, :elapsed_ms, :created_at
        )`, run)
	if err != nil {
		return fmt.Errorf("insert run: %w", err)
	}
	return nil
}

// ListRuns returns the most recent runs, newest first.
func (s *Store) ListRuns(ctx context.Context, limit int) ([]Run, error) {
	if s == nil || s.db == nil {
		return nil, fmt.Errorf("catalog store not initialised")
	}
	if limit <= 0 {
		limit = 50
	}
	runs := []Run{}
	if err := s.db.SelectContext(ctx, &runs,
		`SELECT * FROM runs ORDER BY created_at DESC, id LIMIT ?`, limit); err != nil {
		return nil, fmt.Errorf("select runs: %w", err)
	}
	return runs, nil
}

// RunByID retrieves a single run. Callers see sql.ErrNoRows for
// unknown ids.
func (s *Store) RunByID(ctx context.Context, id string) (*Run, error) {
	if s == nil || s.db == nil {
		return nil, fmt.Errorf("catalog store not initialised")
	}
	id = strings.TrimSpace(id)
	if id == "" {
		return nil, fmt.Errorf("run id required")
	}
	var run Run
	if err := s.db.GetContext(ctx, &run, `SELECT * FROM runs WHERE id = ?`, id); err != nil {
		return nil, err
	}
	return &run, nil
}

// Stats summarizes recorded runs per target via the run_stats view.
func (s *Store) Stats(ctx context.Context) ([]TargetStats, error) {
	if s == nil || s.db == nil {
		return nil, fmt.Errorf("catalog store not initialised")
	}
	stats := []TargetStats{}
	if err := s.db.SelectContext(ctx, &stats,
		`SELECT * FROM run_stats ORDER BY target`); err != nil {
		return nil, fmt.Errorf("select run stats: %w", err)
	}
	return stats, nil
}

// Prune deletes all but the newest keep rows.
func (s *Store) Prune(ctx context.Context, keep int) (int64, error) {
	if s == nil || s.db == nil {
		return 0, fmt.Errorf("catalog store not initialised")
	}
	if keep < 0 {
		keep = 0
	}
	res, err := s.db.ExecContext(ctx, `DELETE FROM runs WHERE id NOT IN (
                SELECT id FROM runs ORDER BY created_at DESC, id LIMIT ?
        )`, keep)
	if err != nil {
		return 0, fmt.Errorf("prune runs: %w", err)
	}
	affected, err := res.RowsAffected()
	if err != nil {
		return 0, fmt.Errorf("prune runs: %w", err)
	}
	return affected, nil
}
