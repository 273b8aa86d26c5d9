package store

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/jmoiron/sqlx"

	"github.com/sprouthq/sprout/internal/content"
)

// ProfileRepo persists the child profile between runs.
type ProfileRepo struct {
	db *sqlx.DB
}

// Save stores the profile, replacing any previous version.
func (r *ProfileRepo) Save(ctx context.Context, p content.ChildProfile) error {
	raw, err := json.Marshal(p)
	if err != nil {
		return fmt.Errorf("marshal profile: %w", err)
	}
	_, err = r.db.ExecContext(ctx,
		`INSERT INTO profiles (id, data, updated_at) VALUES (?, ?, ?)
		 ON CONFLICT(id) DO UPDATE SET data = excluded.data, updated_at = excluded.updated_at`,
		p.ID, string(raw), time.Now().UTC())
	if err != nil {
		return fmt.Errorf("save profile: %w", err)
	}
	return nil
}

// Load returns the most recently saved profile, or nil if none exists.
func (r *ProfileRepo) Load(ctx context.Context) (*content.ChildProfile, error) {
	var raw string
	err := r.db.GetContext(ctx, &raw,
		"SELECT data FROM profiles ORDER BY updated_at DESC LIMIT 1")
	if errors.Is(err, sql.ErrNoRows) {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("load profile: %w", err)
	}

	var p content.ChildProfile
	if err := json.Unmarshal([]byte(raw), &p); err != nil {
		return nil, fmt.Errorf("parse profile: %w", err)
	}
	return &p, nil
}
