// Package repository persists draft session snapshots.
package repository

import (
	"context"

	"github.com/sheexliies/ViperDraft/internal/domain/model"
)

// Store saves and loads whole-session snapshots keyed by session id.
type Store interface {
	// Save replaces the snapshot of session.
	Save(ctx context.Context, session string, snap model.Snapshot) error

	// Load returns the snapshot of session.
	// Returns ErrNotFound if nothing was saved.
	Load(ctx context.Context, session string) (model.Snapshot, error)

	// Delete removes the snapshot of session. Deleting a missing session is not an error.
	Delete(ctx context.Context, session string) error

	// List returns the saved session ids in ascending order.
	List(ctx context.Context) ([]string, error)
}
