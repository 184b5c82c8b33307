// Copyright The Linux Foundation and each contributor to LFX.
// SPDX-License-Identifier: MIT

package mock

import (
	"context"
	"fmt"
	"sync"

	"github.com/linuxfoundation/lfx-v2-distribution-list-service/internal/domain/model"
	"github.com/linuxfoundation/lfx-v2-distribution-list-service/internal/domain/port"
	"github.com/linuxfoundation/lfx-v2-distribution-list-service/pkg/errors"
)

// MockSessionRepository keeps session snapshots in memory with per-key revisions
type MockSessionRepository struct {
	mu        sync.RWMutex
	snapshots map[string]model.SessionSnapshot
	revisions map[string]uint64
	revision  uint64
	err       error
}

var _ port.SessionRepository = (*MockSessionRepository)(nil)

// NewMockSessionRepository creates an empty in-memory session repository
func NewMockSessionRepository() *MockSessionRepository {
	return &MockSessionRepository{
		snapshots: make(map[string]model.SessionSnapshot),
		revisions: make(map[string]uint64),
	}
}

// SetError makes every operation fail with err
func (r *MockSessionRepository) SetError(err error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.err = err
}

// GetSession returns the snapshot and its revision
func (r *MockSessionRepository) GetSession(ctx context.Context, id string) (*model.SessionSnapshot, uint64, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	if r.err != nil {
		return nil, 0, r.err
	}
	snapshot, ok := r.snapshots[id]
	if !ok {
		return nil, 0, errors.NewNotFound(fmt.Sprintf("session %s not found", id))
	}
	return &snapshot, r.revisions[id], nil
}

// PutSession stores the snapshot. A non-zero expectedRevision must match the stored one.
func (r *MockSessionRepository) PutSession(ctx context.Context, snapshot *model.SessionSnapshot, expectedRevision uint64) (uint64, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	if r.err != nil {
		return 0, r.err
	}
	if expectedRevision != 0 && r.revisions[snapshot.ID] != expectedRevision {
		return 0, errors.NewConflict(fmt.Sprintf("session %s revision mismatch", snapshot.ID))
	}
	r.revision++
	r.snapshots[snapshot.ID] = *snapshot
	r.revisions[snapshot.ID] = r.revision
	return r.revision, nil
}

// DeleteSession removes the snapshot; deleting a missing one is not an error
func (r *MockSessionRepository) DeleteSession(ctx context.Context, id string) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	if r.err != nil {
		return r.err
	}
	delete(r.snapshots, id)
	delete(r.revisions, id)
	return nil
}

// IsReady always succeeds
func (r *MockSessionRepository) IsReady(ctx context.Context) error {
	return nil
}

// Len returns the number of stored snapshots
func (r *MockSessionRepository) Len() int {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return len(r.snapshots)
}
