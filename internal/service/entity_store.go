// Copyright The Linux Foundation and each contributor to LFX.
// SPDX-License-Identifier: MIT

package service

import (
	"context"
	"log/slog"
	"sync"

	"github.com/patrickmn/go-cache"
	"golang.org/x/sync/singleflight"

	"github.com/linuxfoundation/lfx-v2-distribution-list-service/internal/domain/model"
	"github.com/linuxfoundation/lfx-v2-distribution-list-service/internal/domain/port"
)

// entityStoreOption defines a function type for setting options on the entity store
type entityStoreOption func(*EntityStore)

// WithDistributionListReader sets the groupware reader used to load lists
func WithDistributionListReader(reader port.DistributionListReader) entityStoreOption {
	return func(s *EntityStore) {
		s.reader = reader
	}
}

// EntityStore holds the distribution lists of the session, one load per filter.
// Loaded filters are cached for the lifetime of the store and never refetched.
type EntityStore struct {
	reader port.DistributionListReader
	loaded *cache.Cache
	group  singleflight.Group

	mu     sync.RWMutex
	filter model.Filter
	items  []*model.DistributionList
}

// NewEntityStore creates an empty entity store using the option pattern
func NewEntityStore(opts ...entityStoreOption) *EntityStore {
	s := &EntityStore{
		loaded: cache.New(cache.NoExpiration, 0),
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// Load makes filter the current one and returns its lists. The groupware is
// asked at most once per filter; concurrent loads of the same filter share
// the call. On failure the current filter and lists are left untouched.
func (s *EntityStore) Load(ctx context.Context, filter model.Filter) ([]*model.DistributionList, error) {
	key := string(filter)

	if cached, found := s.loaded.Get(key); found {
		lists := cached.([]*model.DistributionList)
		s.setCurrent(filter, lists)
		slog.DebugContext(ctx, "distribution lists served from cache",
			"filter", filter,
			"count", len(lists),
		)
		return clone(lists), nil
	}

	result, err, shared := s.group.Do(key, func() (any, error) {
		if cached, found := s.loaded.Get(key); found {
			return cached, nil
		}

		slog.DebugContext(ctx, "executing load distribution lists use case", "filter", filter)

		query := filter.Query()
		lists, err := s.reader.GetAccountDistributionLists(ctx, query)
		if err != nil {
			return nil, asRemoteError("failed to load distribution lists", err)
		}

		lists = filter.Apply(lists)
		s.loaded.Set(key, lists, cache.NoExpiration)
		return lists, nil
	})
	if err != nil {
		slog.ErrorContext(ctx, "failed to load distribution lists",
			"error", err,
			"filter", filter,
		)
		return nil, err
	}

	lists := result.([]*model.DistributionList)
	s.setCurrent(filter, lists)

	slog.DebugContext(ctx, "distribution lists loaded successfully",
		"filter", filter,
		"count", len(lists),
		"shared", shared,
	)

	return clone(lists), nil
}

// Loaded reports whether filter has already been loaded.
func (s *EntityStore) Loaded(filter model.Filter) bool {
	_, found := s.loaded.Get(string(filter))
	return found
}

// Filter returns the current filter, empty before the first successful load.
func (s *EntityStore) Filter() model.Filter {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.filter
}

// Items returns the lists of the current filter.
func (s *EntityStore) Items() []*model.DistributionList {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return clone(s.items)
}

// Get looks a list up by id in the current filter.
func (s *EntityStore) Get(id string) (*model.DistributionList, bool) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	for _, dl := range s.items {
		if dl.ID == id {
			return dl, true
		}
	}
	return nil, false
}

func (s *EntityStore) setCurrent(filter model.Filter, lists []*model.DistributionList) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.filter = filter
	s.items = lists
}

// clone copies the slice; the lists themselves are immutable and shared.
func clone(lists []*model.DistributionList) []*model.DistributionList {
	out := make([]*model.DistributionList, len(lists))
	copy(out, lists)
	return out
}
