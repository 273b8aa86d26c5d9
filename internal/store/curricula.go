package store

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"

	"github.com/jmoiron/sqlx"

	"github.com/sprouthq/sprout/internal/content"
)

// CurriculumRepo persists generated curricula so a later process can resume
// the session plan.
type CurriculumRepo struct {
	db *sqlx.DB
}

// Save stores a curriculum.
func (r *CurriculumRepo) Save(ctx context.Context, c *content.Curriculum) error {
	raw, err := json.Marshal(c)
	if err != nil {
		return fmt.Errorf("marshal curriculum: %w", err)
	}
	_, err = r.db.ExecContext(ctx,
		`INSERT INTO curricula (id, data, generated_at) VALUES (?, ?, ?)
		 ON CONFLICT(id) DO UPDATE SET data = excluded.data, generated_at = excluded.generated_at`,
		c.ID, string(raw), c.GeneratedAt.UTC())
	if err != nil {
		return fmt.Errorf("save curriculum: %w", err)
	}
	return nil
}

// Latest returns the most recently generated curriculum, or nil if none
// was saved yet.
func (r *CurriculumRepo) Latest(ctx context.Context) (*content.Curriculum, error) {
	var raw string
	err := r.db.GetContext(ctx, &raw,
		"SELECT data FROM curricula ORDER BY generated_at DESC LIMIT 1")
	if errors.Is(err, sql.ErrNoRows) {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("load curriculum: %w", err)
	}

	var c content.Curriculum
	if err := json.Unmarshal([]byte(raw), &c); err != nil {
		return nil, fmt.Errorf("parse curriculum: %w", err)
	}
	return &c, nil
}
