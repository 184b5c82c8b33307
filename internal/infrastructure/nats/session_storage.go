// Copyright The Linux Foundation and each contributor to LFX.
// SPDX-License-Identifier: MIT

package nats

import (
	"context"
	"errors"
	"fmt"
	"log/slog"

	"github.com/nats-io/nats.go/jetstream"
	"github.com/vmihailenco/msgpack/v5"

	"github.com/linuxfoundation/lfx-v2-distribution-list-service/internal/domain/model"
	"github.com/linuxfoundation/lfx-v2-distribution-list-service/internal/domain/port"
	"github.com/linuxfoundation/lfx-v2-distribution-list-service/pkg/constants"
	errs "github.com/linuxfoundation/lfx-v2-distribution-list-service/pkg/errors"
)

// keyValue is the part of jetstream.KeyValue the session storage uses
type keyValue interface {
	Get(ctx context.Context, key string) (jetstream.KeyValueEntry, error)
	Put(ctx context.Context, key string, value []byte) (uint64, error)
	Update(ctx context.Context, key string, value []byte, revision uint64) (uint64, error)
	Delete(ctx context.Context, key string, opts ...jetstream.KVDeleteOpt) error
}

type sessionStorage struct {
	ready func(ctx context.Context) error
	kv    func() (keyValue, bool)
}

// GetSession retrieves a session snapshot and its revision
func (s *sessionStorage) GetSession(ctx context.Context, id string) (*model.SessionSnapshot, uint64, error) {
	if id == "" {
		return nil, 0, errs.NewValidation("session id cannot be empty")
	}
	kv, ok := s.kv()
	if !ok {
		return nil, 0, errs.NewServiceUnavailable("KV bucket not available")
	}

	slog.DebugContext(ctx, "nats storage: getting session", "session_id", id)

	entry, err := kv.Get(ctx, id)
	if err != nil {
		if errors.Is(err, jetstream.ErrKeyNotFound) || errors.Is(err, jetstream.ErrKeyDeleted) {
			return nil, 0, errs.NewNotFound(fmt.Sprintf("session %s not found", id))
		}
		slog.ErrorContext(ctx, "failed to get session", "error", err, "session_id", id)
		return nil, 0, errs.NewServiceUnavailable("failed to get session", err)
	}

	snapshot := &model.SessionSnapshot{}
	if err := msgpack.Unmarshal(entry.Value(), snapshot); err != nil {
		slog.ErrorContext(ctx, "failed to decode session", "error", err, "session_id", id)
		return nil, 0, errs.NewUnexpected("failed to decode session", err)
	}

	return snapshot, entry.Revision(), nil
}

// PutSession stores a snapshot, conditionally when expectedRevision is set
func (s *sessionStorage) PutSession(ctx context.Context, snapshot *model.SessionSnapshot, expectedRevision uint64) (uint64, error) {
	if snapshot == nil || snapshot.ID == "" {
		return 0, errs.NewValidation("session id cannot be empty")
	}
	kv, ok := s.kv()
	if !ok {
		return 0, errs.NewServiceUnavailable("KV bucket not available")
	}

	data, err := msgpack.Marshal(snapshot)
	if err != nil {
		return 0, errs.NewUnexpected("failed to encode session", err)
	}

	var revision uint64
	if expectedRevision == 0 {
		revision, err = kv.Put(ctx, snapshot.ID, data)
	} else {
		revision, err = kv.Update(ctx, snapshot.ID, data, expectedRevision)
	}
	if err != nil {
		if isRevisionMismatch(err) {
			slog.WarnContext(ctx, "session revision mismatch",
				"session_id", snapshot.ID,
				"expected_revision", expectedRevision,
			)
			return 0, errs.NewConflict(fmt.Sprintf("session %s was modified concurrently", snapshot.ID), err)
		}
		slog.ErrorContext(ctx, "failed to put session", "error", err, "session_id", snapshot.ID)
		return 0, errs.NewServiceUnavailable("failed to put session", err)
	}

	slog.DebugContext(ctx, "nats storage: session stored",
		"session_id", snapshot.ID,
		"revision", revision,
	)
	return revision, nil
}

// DeleteSession removes a session snapshot
func (s *sessionStorage) DeleteSession(ctx context.Context, id string) error {
	if id == "" {
		return errs.NewValidation("session id cannot be empty")
	}
	kv, ok := s.kv()
	if !ok {
		return errs.NewServiceUnavailable("KV bucket not available")
	}

	if err := kv.Delete(ctx, id); err != nil && !errors.Is(err, jetstream.ErrKeyNotFound) {
		slog.ErrorContext(ctx, "failed to delete session", "error", err, "session_id", id)
		return errs.NewServiceUnavailable("failed to delete session", err)
	}
	return nil
}

// IsReady reports whether the connection and the bucket are usable
func (s *sessionStorage) IsReady(ctx context.Context) error {
	if err := s.ready(ctx); err != nil {
		return err
	}
	if _, ok := s.kv(); !ok {
		return errs.NewServiceUnavailable("KV bucket not available")
	}
	return nil
}

func isRevisionMismatch(err error) bool {
	if errors.Is(err, jetstream.ErrKeyExists) {
		return true
	}
	var apiErr *jetstream.APIError
	return errors.As(err, &apiErr) && apiErr.ErrorCode == jetstream.JSErrCodeStreamWrongLastSequence
}

// NewSessionRepository creates a session repository backed by the sessions KV bucket
func NewSessionRepository(client *NATSClient) port.SessionRepository {
	return &sessionStorage{
		ready: client.IsReady,
		kv: func() (keyValue, bool) {
			return client.bucket(constants.KVBucketNameDisplayerSessions)
		},
	}
}
