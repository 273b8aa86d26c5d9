// Package loader surfaces ready-to-play question packs to the UI layer. It
// watches profile-state updates published by the generation executors and
// hands over the pack for the requested module once it exists.
package loader

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/sprouthq/sprout/internal/content"
	"github.com/sprouthq/sprout/internal/profile"
)

// DefaultTimeout bounds how long a wait may block. Task handles already
// signal completion directly; the timeout is a fallback for packs that were
// never enqueued.
const DefaultTimeout = 10 * time.Second

// Loader waits for generated module content.
type Loader struct {
	profiles *profile.Store
	timeout  time.Duration
}

// New creates a loader over the shared profile state. timeout <= 0 selects
// DefaultTimeout.
func New(profiles *profile.Store, timeout time.Duration) *Loader {
	if timeout <= 0 {
		timeout = DefaultTimeout
	}
	return &Loader{profiles: profiles, timeout: timeout}
}

// WaitForPack returns the module's question pack, blocking until it is
// published, the loader's timeout elapses or ctx is cancelled. A pack
// already in profile state returns immediately.
func (l *Loader) WaitForPack(ctx context.Context, moduleID string) (*content.GamePayload, error) {
	// Subscribe before the first check so a publish between check and
	// subscribe cannot be missed.
	updates, cancel := l.profiles.Subscribe()
	defer cancel()

	if pack := l.profiles.ModuleContent(moduleID); pack.Playable() {
		return pack, nil
	}

	ctx, cancelTimeout := context.WithTimeout(ctx, l.timeout)
	defer cancelTimeout()

	for {
		select {
		case u, ok := <-updates:
			if !ok {
				return nil, errors.New("profile state subscription closed")
			}
			if u.Kind != profile.UpdateModuleContent || u.ModuleID != moduleID {
				continue
			}
			if pack := l.profiles.ModuleContent(moduleID); pack.Playable() {
				return pack, nil
			}
		case <-ctx.Done():
			return nil, fmt.Errorf("waiting for module %q content: %w", moduleID, ctx.Err())
		}
	}
}
