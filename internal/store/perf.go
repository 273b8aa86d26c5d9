package store

import (
	"context"
	"fmt"
	"time"

	"github.com/jmoiron/sqlx"

	"github.com/sprouthq/sprout/internal/content"
)

// PerformanceRepo persists the per-module session performance log.
type PerformanceRepo struct {
	db *sqlx.DB
}

type perfRow struct {
	ID           string    `db:"id"`
	ModuleID     string    `db:"module_id"`
	ModuleTitle  string    `db:"module_title"`
	TS           time.Time `db:"ts"`
	DurationMs   int64     `db:"duration_ms"`
	CorrectCount int       `db:"correct_count"`
	MistakeCount int       `db:"mistake_count"`
	Stress       string    `db:"stress"`
}

// Append stores one performance record.
func (r *PerformanceRepo) Append(ctx context.Context, rec content.PerformanceRecord) error {
	_, err := r.db.ExecContext(ctx,
		`INSERT INTO performance_log
		 (id, module_id, module_title, ts, duration_ms, correct_count, mistake_count, stress)
		 VALUES (?, ?, ?, ?, ?, ?, ?, ?)`,
		rec.ID, rec.ModuleID, rec.ModuleTitle, rec.Timestamp.UTC(),
		rec.Duration.Milliseconds(), rec.CorrectCount, rec.MistakeCount, string(rec.Stress))
	if err != nil {
		return fmt.Errorf("append performance record: %w", err)
	}
	return nil
}

// List returns all performance records, newest first.
func (r *PerformanceRepo) List(ctx context.Context) ([]content.PerformanceRecord, error) {
	var rows []perfRow
	err := r.db.SelectContext(ctx, &rows,
		`SELECT id, module_id, module_title, ts, duration_ms, correct_count, mistake_count, stress
		 FROM performance_log ORDER BY ts DESC`)
	if err != nil {
		return nil, fmt.Errorf("list performance records: %w", err)
	}

	recs := make([]content.PerformanceRecord, len(rows))
	for i, row := range rows {
		recs[i] = content.PerformanceRecord{
			ID:           row.ID,
			ModuleID:     row.ModuleID,
			ModuleTitle:  row.ModuleTitle,
			Timestamp:    row.TS,
			Duration:     time.Duration(row.DurationMs) * time.Millisecond,
			CorrectCount: row.CorrectCount,
			MistakeCount: row.MistakeCount,
			Stress:       content.StressLevel(row.Stress),
		}
	}
	return recs, nil
}
