package memory

import (
	"context"
	"sync"

	"github.com/custodia-labs/regdash/internal/core/domain"
	"github.com/custodia-labs/regdash/internal/core/ports/driven"
)

// Ensure RecordStore implements the interface.
var _ driven.RecordStore = (*RecordStore)(nil)

// RecordStore is an in-memory implementation of driven.RecordStore.
// Snapshots live for the lifetime of the process.
type RecordStore struct {
	mu        sync.RWMutex
	snapshots []domain.Snapshot
}

// NewRecordStore creates a new in-memory record store.
func NewRecordStore() *RecordStore {
	return &RecordStore{
		snapshots: make([]domain.Snapshot, 0),
	}
}

// Save stores a snapshot and makes it current.
// The record slice is copied so later edits by the caller do not leak in.
func (s *RecordStore) Save(_ context.Context, snapshot domain.Snapshot) error {
	records := make([]domain.Record, len(snapshot.Records))
	copy(records, snapshot.Records)
	snapshot.Records = records

	s.mu.Lock()
	defer s.mu.Unlock()
	s.snapshots = append(s.snapshots, snapshot)
	return nil
}

// Current returns the most recently saved snapshot.
func (s *RecordStore) Current(_ context.Context) (*domain.Snapshot, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	if len(s.snapshots) == 0 {
		return nil, domain.ErrNotFound
	}
	snapshot := s.snapshots[len(s.snapshots)-1]
	return &snapshot, nil
}

// List returns stored snapshots, newest first.
func (s *RecordStore) List(_ context.Context) ([]domain.SnapshotInfo, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	result := make([]domain.SnapshotInfo, 0, len(s.snapshots))
	for i := len(s.snapshots) - 1; i >= 0; i-- {
		result = append(result, s.snapshots[i].Info())
	}
	return result, nil
}
