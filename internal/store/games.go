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

// GameRepo is the persistent content cache mapping a module id to its
// generated game pack. Packs are immutable: SetGame replaces an entry
// wholesale, it never mutates one in place.
type GameRepo struct {
	db *sqlx.DB
}

// HasGame reports whether a pack is cached for the module.
func (r *GameRepo) HasGame(ctx context.Context, moduleID string) (bool, error) {
	var n int
	err := r.db.GetContext(ctx, &n, "SELECT COUNT(1) FROM games WHERE module_id = ?", moduleID)
	if err != nil {
		return false, fmt.Errorf("query game %q: %w", moduleID, err)
	}
	return n > 0, nil
}

// GetGame returns the cached pack for the module, or nil when absent.
// An entry whose payload no longer parses is dropped and reported as
// absent so the executor regenerates it instead of serving corrupt
// content.
func (r *GameRepo) GetGame(ctx context.Context, moduleID string) (*content.GamePayload, error) {
	var raw string
	err := r.db.GetContext(ctx, &raw, "SELECT payload FROM games WHERE module_id = ?", moduleID)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("get game %q: %w", moduleID, err)
	}

	var pack content.GamePayload
	if err := json.Unmarshal([]byte(raw), &pack); err != nil {
		if derr := r.DeleteGame(ctx, moduleID); derr != nil {
			return nil, derr
		}
		return nil, nil
	}
	return &pack, nil
}

// SetGame stores the pack for the module, replacing any previous entry.
func (r *GameRepo) SetGame(ctx context.Context, moduleID string, pack *content.GamePayload) error {
	raw, err := json.Marshal(pack)
	if err != nil {
		return fmt.Errorf("marshal game %q: %w", moduleID, err)
	}

	_, err = r.db.ExecContext(ctx,
		`INSERT INTO games (module_id, payload, created_at) VALUES (?, ?, ?)
		 ON CONFLICT(module_id) DO UPDATE SET payload = excluded.payload, created_at = excluded.created_at`,
		moduleID, string(raw), time.Now().UTC())
	if err != nil {
		return fmt.Errorf("set game %q: %w", moduleID, err)
	}
	return nil
}

// DeleteGame removes a cached pack, forcing regeneration on the next
// sweep.
func (r *GameRepo) DeleteGame(ctx context.Context, moduleID string) error {
	if _, err := r.db.ExecContext(ctx, "DELETE FROM games WHERE module_id = ?", moduleID); err != nil {
		return fmt.Errorf("delete game %q: %w", moduleID, err)
	}
	return nil
}
