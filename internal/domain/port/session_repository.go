// Copyright The Linux Foundation and each contributor to LFX.
// SPDX-License-Identifier: MIT

package port

import (
	"context"

	"github.com/linuxfoundation/lfx-v2-distribution-list-service/internal/domain/model"
)

// SessionReader loads persisted displayer sessions.
type SessionReader interface {
	// GetSession returns the snapshot and its revision, or a NotFound error
	GetSession(ctx context.Context, id string) (*model.SessionSnapshot, uint64, error)
}

// SessionWriter persists displayer sessions.
type SessionWriter interface {
	// PutSession stores the snapshot. A non-zero expectedRevision makes the write
	// conditional and yields a Conflict error when the stored revision differs.
	PutSession(ctx context.Context, snapshot *model.SessionSnapshot, expectedRevision uint64) (uint64, error)

	// DeleteSession removes the snapshot, succeeding when it does not exist
	DeleteSession(ctx context.Context, id string) error
}

// SessionRepository combines session reads and writes.
type SessionRepository interface {
	SessionReader
	SessionWriter
	IsReady(ctx context.Context) error
}
