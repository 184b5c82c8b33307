// Copyright The Linux Foundation and each contributor to LFX.
// SPDX-License-Identifier: MIT

package service

import (
	"context"
	"errors"
	"log/slog"
	"sync"
	"time"

	"github.com/google/uuid"
	"github.com/patrickmn/go-cache"
	"golang.org/x/sync/singleflight"

	"github.com/linuxfoundation/lfx-v2-distribution-list-service/internal/domain/model"
	"github.com/linuxfoundation/lfx-v2-distribution-list-service/internal/domain/port"
	"github.com/linuxfoundation/lfx-v2-distribution-list-service/pkg/constants"
	errs "github.com/linuxfoundation/lfx-v2-distribution-list-service/pkg/errors"
	"github.com/linuxfoundation/lfx-v2-distribution-list-service/pkg/log"
)

// Session is the view state of one user of the distribution list screen.
type Session struct {
	ID        string
	Store     *EntityStore
	Selection *SelectionController
	Paginator *MemberPaginator
	Tabs      *TabCoordinator
	Displayer *Displayer
	View      *DistributionListView

	// revision of the snapshot last restored or saved by this replica
	mu       sync.Mutex
	revision uint64
}

func (s *Session) setRevision(revision uint64) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if revision > s.revision {
		s.revision = revision
	}
}

// Revision returns the snapshot revision the live session reflects.
func (s *Session) Revision() uint64 {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.revision
}

// Snapshot returns the persisted form of the session.
func (s *Session) Snapshot() *model.SessionSnapshot {
	return &model.SessionSnapshot{
		ID:        s.ID,
		Route:     s.View.Route(),
		Tab:       s.Displayer.Tab(),
		UpdatedAt: time.Now().UTC(),
	}
}

// sessionManagerOption defines a function type for setting options on the session manager
type sessionManagerOption func(*SessionManager)

// WithSessionReader sets the groupware reader shared by every session
func WithSessionReader(reader port.DistributionListReader) sessionManagerOption {
	return func(m *SessionManager) {
		m.reader = reader
	}
}

// WithSessionNotifier sets the notifier; notifications are stamped with the session id
func WithSessionNotifier(notifier port.Notifier) sessionManagerOption {
	return func(m *SessionManager) {
		m.notifier = notifier
	}
}

// WithSessionPublisher publishes selection changes of every session
func WithSessionPublisher(publisher port.MessagePublisher) sessionManagerOption {
	return func(m *SessionManager) {
		m.publisher = publisher
	}
}

// WithSessionRepository persists session snapshots
func WithSessionRepository(repository port.SessionRepository) sessionManagerOption {
	return func(m *SessionManager) {
		m.repository = repository
	}
}

// WithMembersPageSize sets the page size of every session's paginator
func WithMembersPageSize(size int) sessionManagerOption {
	return func(m *SessionManager) {
		m.pageSize = size
	}
}

// WithSessionTTL sets how long a live session may stay idle before it is
// closed and dropped. A non-positive ttl keeps sessions until they end.
func WithSessionTTL(ttl time.Duration) sessionManagerOption {
	return func(m *SessionManager) {
		m.ttl = ttl
	}
}

// SessionManager owns the live sessions, keyed by id. Idle sessions expire
// after the session TTL; every Open or Get extends it.
type SessionManager struct {
	reader     port.DistributionListReader
	notifier   port.Notifier
	publisher  port.MessagePublisher
	repository port.SessionRepository
	pageSize   int
	ttl        time.Duration

	opening  singleflight.Group
	sessions *cache.Cache
}

// NewSessionManager creates a session manager using the option pattern
func NewSessionManager(opts ...sessionManagerOption) *SessionManager {
	m := &SessionManager{
		pageSize: constants.DefaultMembersPageSize,
		ttl:      constants.SessionTTL,
	}
	for _, opt := range opts {
		opt(m)
	}

	if m.ttl > 0 {
		m.sessions = cache.New(m.ttl, min(m.ttl/2, maxSessionCleanupInterval))
	} else {
		m.sessions = cache.New(cache.NoExpiration, 0)
	}
	m.sessions.OnEvicted(m.evicted)
	return m
}

const maxSessionCleanupInterval = 10 * time.Minute

// evicted runs when a session ends or expires; pending fetches are drained
// so nothing writes to the dropped session afterwards.
func (m *SessionManager) evicted(id string, value any) {
	session, ok := value.(*Session)
	if !ok {
		return
	}
	ctx := log.AppendCtx(context.Background(), slog.String("session_id", id))
	session.Displayer.Close(ctx)
	session.Displayer.Wait()
	slog.DebugContext(ctx, "distribution list session dropped", "sessions", m.Len())
}

// NewSession wires the components of one session. The tab coordinator
// subscribes to the selection first so it resets before anything fetches.
func (m *SessionManager) NewSession(id string) *Session {
	var notifier port.Notifier
	if m.notifier != nil {
		notifier = &sessionNotifier{sessionID: id, next: m.notifier}
	}

	selection := NewSelectionController()
	paginator := NewMemberPaginator(selection, WithMemberReader(m.reader), WithPageSize(m.pageSize))
	tabs := NewTabCoordinator(selection, paginator)
	store := NewEntityStore(WithDistributionListReader(m.reader))
	displayer := NewDisplayer(selection, paginator, tabs,
		WithDetailsReader(m.reader),
		WithNotifier(notifier),
		WithEntityStore(store),
	)

	if m.publisher != nil {
		publisher := m.publisher
		selection.Subscribe(func(ctx context.Context, change model.SelectionChange) {
			event := model.SelectionChangedEvent{
				SessionID:  id,
				Previous:   change.Previous,
				Current:    change.Current,
				Generation: change.Generation,
				OccurredAt: time.Now().UTC(),
			}
			if err := publisher.SelectionChanged(ctx, constants.SelectionChangedSubject, event); err != nil {
				slog.WarnContext(ctx, "failed to publish selection change", "error", err, "session_id", id)
			}
		})
	}

	return &Session{
		ID:        id,
		Store:     store,
		Selection: selection,
		Paginator: paginator,
		Tabs:      tabs,
		Displayer: displayer,
		View:      NewDistributionListView(store, displayer, notifier),
	}
}

// Open returns the live session with id, restoring it from its snapshot when
// it is not live. An empty id starts a new session.
func (m *SessionManager) Open(ctx context.Context, id string) (*Session, error) {
	if id == "" {
		id = uuid.NewString()
	} else if _, err := uuid.Parse(id); err != nil {
		return nil, errs.NewValidation("invalid session id", err)
	}

	if session, ok := m.Get(id); ok {
		m.refresh(log.AppendCtx(ctx, slog.String("session_id", id)), session)
		return session, nil
	}

	result, err, _ := m.opening.Do(id, func() (any, error) {
		if session, ok := m.Get(id); ok {
			return session, nil
		}

		ctx := log.AppendCtx(ctx, slog.String("session_id", id))
		session := m.NewSession(id)
		if err := m.restore(ctx, session); err != nil {
			return nil, err
		}

		m.sessions.SetDefault(id, session)

		slog.InfoContext(ctx, "distribution list session opened", "sessions", m.Len())
		return session, nil
	})
	if err != nil {
		return nil, err
	}
	return result.(*Session), nil
}

func (m *SessionManager) restore(ctx context.Context, session *Session) error {
	if m.repository == nil {
		return nil
	}

	snapshot, revision, err := m.repository.GetSession(ctx, session.ID)
	if err != nil {
		var notFound errs.NotFound
		if errors.As(err, &notFound) {
			return nil
		}
		slog.ErrorContext(ctx, "failed to read session snapshot", "error", err)
		return err
	}

	slog.DebugContext(ctx, "restoring distribution list session",
		"route", snapshot.Route.String(),
		"tab", snapshot.Tab,
		"revision", revision,
	)

	session.mu.Lock()
	defer session.mu.Unlock()
	apply(ctx, session, snapshot)
	session.revision = revision
	return nil
}

// refresh brings a live session up to date with a snapshot saved by another
// replica since this one last restored or saved it. Read failures keep the
// live state.
func (m *SessionManager) refresh(ctx context.Context, session *Session) {
	if m.repository == nil {
		return
	}

	snapshot, revision, err := m.repository.GetSession(ctx, session.ID)
	if err != nil {
		var notFound errs.NotFound
		if !errors.As(err, &notFound) {
			slog.WarnContext(ctx, "failed to check session snapshot, keeping live state", "error", err)
		}
		return
	}

	session.mu.Lock()
	defer session.mu.Unlock()
	if revision <= session.revision {
		return
	}

	slog.InfoContext(ctx, "session snapshot changed elsewhere, restoring",
		"route", snapshot.Route.String(),
		"tab", snapshot.Tab,
		"revision", revision,
		"previous_revision", session.revision,
	)
	apply(ctx, session, snapshot)
	session.revision = revision
}

// apply moves the session to the route and tab of snapshot.
func apply(ctx context.Context, session *Session, snapshot *model.SessionSnapshot) {
	if _, err := session.View.Navigate(ctx, snapshot.Route); err != nil {
		// notified to the user already; the session stays usable
		slog.WarnContext(ctx, "restored session could not load its lists", "error", err)
	}
	if snapshot.Route.ID == "" || snapshot.Tab == "" || snapshot.Tab == session.Displayer.Tab() {
		return
	}
	if err := session.Displayer.SelectTab(ctx, snapshot.Tab); err != nil {
		slog.WarnContext(ctx, "restored session could not reopen its tab", "error", err, "tab", snapshot.Tab)
	}
}

// Get returns a live session and extends its idle deadline.
func (m *SessionManager) Get(id string) (*Session, bool) {
	value, ok := m.sessions.Get(id)
	if !ok {
		return nil, false
	}
	session := value.(*Session)
	// Replace never resurrects a session ended in the meantime
	_ = m.sessions.Replace(id, session, cache.DefaultExpiration)
	return session, true
}

// Len returns the number of live sessions.
func (m *SessionManager) Len() int {
	return m.sessions.ItemCount()
}

// Save persists the session snapshot. It is a no-op without a repository.
func (m *SessionManager) Save(ctx context.Context, session *Session) error {
	if m.repository == nil {
		return nil
	}
	snapshot := session.Snapshot()
	revision, err := m.repository.PutSession(ctx, snapshot, 0)
	if err != nil {
		slog.ErrorContext(ctx, "failed to save session snapshot", "error", err, "session_id", session.ID)
		return err
	}
	session.setRevision(revision)
	slog.DebugContext(ctx, "session snapshot saved",
		"session_id", session.ID,
		"route", snapshot.Route.String(),
		"tab", snapshot.Tab,
		"revision", revision,
	)
	return nil
}

// End closes the displayer of the session, waits for its fetches and forgets
// it, deleting its snapshot.
func (m *SessionManager) End(ctx context.Context, id string) error {
	_, ok := m.sessions.Get(id)
	// the eviction callback closes the displayer and drains its fetches
	m.sessions.Delete(id)

	if m.repository != nil {
		if err := m.repository.DeleteSession(ctx, id); err != nil {
			slog.ErrorContext(ctx, "failed to delete session snapshot", "error", err, "session_id", id)
			return err
		}
	}

	slog.InfoContext(ctx, "distribution list session ended", "session_id", id, "was_live", ok)
	return nil
}
