// Copyright The Linux Foundation and each contributor to LFX.
// SPDX-License-Identifier: MIT

package service

import (
	"context"
	"log/slog"
	"sync"

	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/metric"

	"github.com/linuxfoundation/lfx-v2-distribution-list-service/internal/domain/model"
	"github.com/linuxfoundation/lfx-v2-distribution-list-service/internal/domain/port"
	"github.com/linuxfoundation/lfx-v2-distribution-list-service/pkg/constants"
	errs "github.com/linuxfoundation/lfx-v2-distribution-list-service/pkg/errors"
)

const meterName = "github.com/linuxfoundation/lfx-v2-distribution-list-service/internal/service"

// memberPaginatorOption defines a function type for setting options on the paginator
type memberPaginatorOption func(*MemberPaginator)

// WithMemberReader sets the groupware reader used to fetch member pages
func WithMemberReader(reader port.DistributionListReader) memberPaginatorOption {
	return func(p *MemberPaginator) {
		p.reader = reader
	}
}

// WithPageSize overrides the number of members requested per page
func WithPageSize(size int) memberPaginatorOption {
	return func(p *MemberPaginator) {
		if size > 0 {
			p.pageSize = size
		}
	}
}

// fetchTag identifies the state a member fetch was issued for.
type fetchTag struct {
	entityID   string
	generation uint64
	epoch      uint64
	offset     int
}

type paginationMetrics struct {
	pages   metric.Int64Counter
	stale   metric.Int64Counter
	failed  metric.Int64Counter
	members metric.Int64Counter
}

func newPaginationMetrics() paginationMetrics {
	meter := otel.Meter(meterName)
	// instrument creation only fails on invalid names; the global meter falls back to no-op
	pages, _ := meter.Int64Counter("distribution_list.member_pages",
		metric.WithDescription("Member pages applied to a member set"))
	stale, _ := meter.Int64Counter("distribution_list.member_pages.stale",
		metric.WithDescription("Member pages discarded because the list stopped being active"))
	failed, _ := meter.Int64Counter("distribution_list.member_pages.failed",
		metric.WithDescription("Member page fetches that failed"))
	members, _ := meter.Int64Counter("distribution_list.members",
		metric.WithDescription("Members received from the groupware"))
	return paginationMetrics{pages: pages, stale: stale, failed: failed, members: members}
}

// MemberState is a snapshot of the paginator.
type MemberState struct {
	EntityID string
	Set      model.MemberSet
	Loading  bool
}

// MemberPaginator fetches the members of the active list page by page.
// Each fetch carries the list id, the selection generation and the paginator
// epoch it was issued under; a page resolving under a different tag is
// discarded and never reaches the member set.
type MemberPaginator struct {
	reader    port.DistributionListReader
	selection *SelectionController
	pageSize  int
	metrics   paginationMetrics

	mu         sync.Mutex
	entityID   string
	generation uint64
	epoch      uint64
	set        model.MemberSet
	inFlight   bool
}

// NewMemberPaginator creates a paginator bound to the selection controller
func NewMemberPaginator(selection *SelectionController, opts ...memberPaginatorOption) *MemberPaginator {
	p := &MemberPaginator{
		selection: selection,
		pageSize:  constants.DefaultMembersPageSize,
		metrics:   newPaginationMetrics(),
	}
	for _, opt := range opts {
		opt(p)
	}
	return p
}

// PageSize returns the number of members requested per page.
func (p *MemberPaginator) PageSize() int {
	return p.pageSize
}

// LoadFirstPage requests the first page of dl, which must be active. It is a
// no-op returning the current set when the first page is already loaded or
// loading for the current selection.
func (p *MemberPaginator) LoadFirstPage(ctx context.Context, dl *model.DistributionList) (model.MemberSet, error) {
	if dl == nil {
		return model.MemberSet{}, errs.NewValidation("distribution list is required")
	}

	active, generation := p.selection.Active()
	if active != dl.ID {
		return model.MemberSet{}, errs.NewValidation("distribution list is not active")
	}

	p.mu.Lock()
	if p.entityID == dl.ID && p.generation == generation && (p.set.Loaded || p.inFlight) {
		set := p.set.Clone()
		p.mu.Unlock()
		return set, nil
	}
	p.epoch++
	p.entityID = dl.ID
	p.generation = generation
	p.set = model.MemberSet{}
	p.inFlight = true
	tag := fetchTag{entityID: dl.ID, generation: generation, epoch: p.epoch, offset: 0}
	p.mu.Unlock()

	return p.fetch(ctx, dl.Email, tag)
}

// LoadNextPage appends the next page of dl. It requires the first page to be
// loaded, more members to be available and no fetch in flight. The offset is
// the number of members accumulated so far.
func (p *MemberPaginator) LoadNextPage(ctx context.Context, dl *model.DistributionList) (model.MemberSet, error) {
	if dl == nil {
		return model.MemberSet{}, errs.NewValidation("distribution list is required")
	}

	active, generation := p.selection.Active()

	p.mu.Lock()
	if active != dl.ID || p.entityID != dl.ID || p.generation != generation || !p.set.Loaded {
		p.mu.Unlock()
		return model.MemberSet{}, errs.NewValidation("first page of members not loaded")
	}
	if p.inFlight {
		p.mu.Unlock()
		return model.MemberSet{}, errs.NewValidation("members page already loading")
	}
	if !p.set.More {
		set := p.set.Clone()
		p.mu.Unlock()
		return set, errs.NewValidation("no more members to load")
	}
	p.inFlight = true
	tag := fetchTag{entityID: dl.ID, generation: generation, epoch: p.epoch, offset: p.set.Len()}
	p.mu.Unlock()

	return p.fetch(ctx, dl.Email, tag)
}

// CanLoadMore reports whether LoadNextPage would issue a fetch for id.
func (p *MemberPaginator) CanLoadMore(id string) bool {
	active, generation := p.selection.Active()

	p.mu.Lock()
	defer p.mu.Unlock()
	return active == id && p.entityID == id && p.generation == generation &&
		p.set.Loaded && p.set.More && !p.inFlight
}

func (p *MemberPaginator) fetch(ctx context.Context, address string, tag fetchTag) (model.MemberSet, error) {
	pageKind := attribute.String("page", "next")
	if tag.offset == 0 {
		pageKind = attribute.String("page", "first")
	}

	slog.DebugContext(ctx, "fetching distribution list members",
		"distribution_list_id", tag.entityID,
		"offset", tag.offset,
		"limit", p.pageSize,
		"generation", tag.generation,
	)

	page, err := p.reader.GetDistributionListMembers(ctx, address, tag.offset, p.pageSize)

	// the selection is read before taking the paginator lock, matching the
	// lock order of SetActive listeners
	current := p.selection.IsCurrent(tag.entityID, tag.generation)

	p.mu.Lock()
	defer p.mu.Unlock()

	if !current || p.epoch != tag.epoch || p.entityID != tag.entityID {
		p.metrics.stale.Add(ctx, 1, metric.WithAttributes(pageKind))
		slog.DebugContext(ctx, "discarding stale members page",
			"distribution_list_id", tag.entityID,
			"offset", tag.offset,
			"generation", tag.generation,
			"fetch_error", err,
		)
		return model.MemberSet{}, ErrStaleResult
	}

	p.inFlight = false

	if err != nil {
		p.metrics.failed.Add(ctx, 1, metric.WithAttributes(pageKind))
		slog.ErrorContext(ctx, "failed to fetch distribution list members",
			"error", err,
			"distribution_list_id", tag.entityID,
			"offset", tag.offset,
		)
		return p.set.Clone(), asRemoteError("failed to fetch distribution list members", err)
	}

	if page == nil {
		page = &model.MemberPage{}
	}

	if p.set.Loaded && page.Total != p.set.Total {
		slog.WarnContext(ctx, "distribution list member total changed between pages",
			"distribution_list_id", tag.entityID,
			"previous_total", p.set.Total,
			"total", page.Total,
			"offset", tag.offset,
		)
	}

	page.Offset = tag.offset
	p.set.Append(*page)

	p.metrics.pages.Add(ctx, 1, metric.WithAttributes(pageKind))
	p.metrics.members.Add(ctx, int64(len(page.Members)))

	slog.DebugContext(ctx, "distribution list members page applied",
		"distribution_list_id", tag.entityID,
		"offset", tag.offset,
		"received", len(page.Members),
		"accumulated", p.set.Len(),
		"total", p.set.Total,
		"more", p.set.More,
	)

	return p.set.Clone(), nil
}

// Reset drops the member set and invalidates every fetch in flight.
func (p *MemberPaginator) Reset() {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.epoch++
	p.entityID = ""
	p.generation = 0
	p.set = model.MemberSet{}
	p.inFlight = false
}

// MemberSet returns a copy of the accumulated members.
func (p *MemberPaginator) MemberSet() model.MemberSet {
	p.mu.Lock()
	defer p.mu.Unlock()
	return p.set.Clone()
}

// State returns the paginator state for rendering.
func (p *MemberPaginator) State() MemberState {
	p.mu.Lock()
	defer p.mu.Unlock()
	return MemberState{
		EntityID: p.entityID,
		Set:      p.set.Clone(),
		Loading:  p.inFlight,
	}
}
