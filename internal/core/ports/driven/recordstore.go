package driven

import (
	"context"

	"github.com/custodia-labs/regdash/internal/core/domain"
)

// RecordStore holds enriched tables.
type RecordStore interface {
	// Save stores a snapshot and makes it current.
	Save(ctx context.Context, snapshot domain.Snapshot) error

	// Current returns the most recently saved snapshot.
	// Returns domain.ErrNotFound if nothing has been saved.
	Current(ctx context.Context) (*domain.Snapshot, error)

	// List returns stored snapshots, newest first.
	List(ctx context.Context) ([]domain.SnapshotInfo, error)
}
