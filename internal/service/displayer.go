// Copyright The Linux Foundation and each contributor to LFX.
// SPDX-License-Identifier: MIT

package service

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"sync"
	"time"

	"github.com/linuxfoundation/lfx-v2-distribution-list-service/internal/domain/model"
	"github.com/linuxfoundation/lfx-v2-distribution-list-service/internal/domain/port"
	errs "github.com/linuxfoundation/lfx-v2-distribution-list-service/pkg/errors"
)

// Notification keys, a new notification replaces the previous one with the same key
const (
	notificationKeyDetails = "distribution-list-details"
	notificationKeyMembers = "distribution-list-members"
)

// displayerOption defines a function type for setting options on the displayer
type displayerOption func(*Displayer)

// WithDetailsReader sets the groupware reader used to fetch list details
func WithDetailsReader(reader port.DistributionListReader) displayerOption {
	return func(d *Displayer) {
		d.reader = reader
	}
}

// WithNotifier sets where failures are reported
func WithNotifier(notifier port.Notifier) displayerOption {
	return func(d *Displayer) {
		d.notifier = notifier
	}
}

// WithEntityStore lets the displayer resolve the active list before its details arrive
func WithEntityStore(store *EntityStore) displayerOption {
	return func(d *Displayer) {
		d.store = store
	}
}

// TabCaption is the label of a displayer tab.
type TabCaption struct {
	Tab     model.Tab `json:"tab" yaml:"tab"`
	Caption string    `json:"caption" yaml:"caption"`
}

// DisplayerView is a consistent snapshot of what the displayer shows. Only the
// content of the visible tab is filled in.
type DisplayerView struct {
	Open           bool         `json:"open" yaml:"open"`
	ActiveID       string       `json:"active_id,omitempty" yaml:"active_id,omitempty"`
	Generation     uint64       `json:"generation" yaml:"generation"`
	Tab            model.Tab    `json:"tab" yaml:"tab"`
	Tabs           []TabCaption `json:"tabs,omitempty" yaml:"tabs,omitempty"`
	Title          string       `json:"title,omitempty" yaml:"title,omitempty"`
	Email          string       `json:"email,omitempty" yaml:"email,omitempty"`
	LoadingDetails bool         `json:"loading_details" yaml:"loading_details"`
	Description    string       `json:"description,omitempty" yaml:"description,omitempty"`
	Owners         []string     `json:"owners,omitempty" yaml:"owners,omitempty"`
	Members        []string     `json:"members,omitempty" yaml:"members,omitempty"`
	MembersTotal   int          `json:"members_total" yaml:"members_total"`
	MoreMembers    bool         `json:"more_members" yaml:"more_members"`
	LoadingMembers bool         `json:"loading_members" yaml:"loading_members"`
}

// Displayer is the detail panel of the active distribution list. It composes
// the selection controller, the tab coordinator and the member paginator and
// runs every fetch asynchronously.
type Displayer struct {
	reader    port.DistributionListReader
	notifier  port.Notifier
	store     *EntityStore
	selection *SelectionController
	paginator *MemberPaginator
	tabs      *TabCoordinator

	mu                sync.Mutex
	details           *model.DistributionListDetails
	detailsGeneration uint64
	loadingDetails    bool
	listeners         []func(DisplayerView)

	wg sync.WaitGroup
}

// NewDisplayer creates a displayer. tabs must already be subscribed to
// selection so that it resets state before the displayer issues requests.
func NewDisplayer(selection *SelectionController, paginator *MemberPaginator, tabs *TabCoordinator, opts ...displayerOption) *Displayer {
	d := &Displayer{
		selection: selection,
		paginator: paginator,
		tabs:      tabs,
	}
	for _, opt := range opts {
		opt(d)
	}
	selection.Subscribe(d.onSelectionChange)
	return d
}

// OnChange registers fn to receive a fresh view after every state change.
func (d *Displayer) OnChange(fn func(DisplayerView)) {
	d.mu.Lock()
	defer d.mu.Unlock()
	d.listeners = append(d.listeners, fn)
}

// Select makes id the active list; an empty id closes the displayer.
func (d *Displayer) Select(ctx context.Context, id string) {
	if d.selection.SetActive(ctx, id) {
		d.emit()
	}
}

// Close clears the selection.
func (d *Displayer) Close(ctx context.Context) {
	d.Select(ctx, "")
}

// SelectTab switches tab; opening the member list loads its first page.
func (d *Displayer) SelectTab(ctx context.Context, tab model.Tab) error {
	changed, err := d.tabs.SelectTab(ctx, tab)
	if err != nil {
		return err
	}
	if tab == model.TabMemberList {
		d.loadFirstMembersPage(ctx)
	}
	if changed {
		d.emit()
	}
	return nil
}

// LoadMore fetches the next members page of the active list.
func (d *Displayer) LoadMore(ctx context.Context) error {
	active, _ := d.selection.Active()
	if active == "" {
		return errs.NewValidation("no distribution list is active")
	}
	if !d.paginator.CanLoadMore(active) {
		return errs.NewValidation("no more members to load")
	}
	dl := d.activeList(active)
	if dl == nil {
		return errs.NewValidation("distribution list details not loaded")
	}

	d.goRun(ctx, func(ctx context.Context) {
		_, err := d.paginator.LoadNextPage(ctx, dl)
		d.handleMembersResult(ctx, err)
	})
	d.emit()
	return nil
}

// Wait blocks until every fetch started so far has resolved.
func (d *Displayer) Wait() {
	d.wg.Wait()
}

// Tab returns the visible tab.
func (d *Displayer) Tab() model.Tab {
	return d.tabs.Tab()
}

// ActiveID returns the active list id, empty when the displayer is closed.
func (d *Displayer) ActiveID() string {
	active, _ := d.selection.Active()
	return active
}

func (d *Displayer) onSelectionChange(ctx context.Context, change model.SelectionChange) {
	d.mu.Lock()
	d.details = nil
	d.detailsGeneration = change.Generation
	d.loadingDetails = change.Current != ""
	d.mu.Unlock()

	if change.Current == "" {
		return
	}

	id, generation := change.Current, change.Generation
	d.goRun(ctx, func(ctx context.Context) {
		d.fetchDetails(ctx, id, generation)
	})
}

func (d *Displayer) fetchDetails(ctx context.Context, id string, generation uint64) {
	slog.DebugContext(ctx, "fetching distribution list details",
		"distribution_list_id", id,
		"generation", generation,
	)

	details, err := d.reader.GetDistributionList(ctx, id, true)

	d.mu.Lock()
	if !d.selection.IsCurrent(id, generation) || d.detailsGeneration != generation {
		d.mu.Unlock()
		slog.DebugContext(ctx, "discarding stale distribution list details",
			"distribution_list_id", id,
			"generation", generation,
		)
		return
	}
	d.loadingDetails = false
	if err != nil {
		d.mu.Unlock()
		err = asRemoteError("failed to get distribution list", err)
		slog.ErrorContext(ctx, "failed to get distribution list details",
			"error", err,
			"distribution_list_id", id,
		)
		d.notify(ctx, notificationFor(notificationKeyDetails, err))
		d.emit()
		return
	}
	d.details = details
	d.mu.Unlock()

	slog.DebugContext(ctx, "distribution list details loaded",
		"distribution_list_id", id,
		"owners", len(details.Owners),
	)

	d.loadFirstMembersPage(ctx)
	d.emit()
}

// loadFirstMembersPage starts the first page fetch when the member list is
// visible and has not been requested for the active list yet.
func (d *Displayer) loadFirstMembersPage(ctx context.Context) {
	if d.tabs.Tab() != model.TabMemberList {
		return
	}
	active, _ := d.selection.Active()
	if active == "" {
		return
	}
	state := d.paginator.State()
	if state.EntityID == active && (state.Set.Loaded || state.Loading) {
		return
	}
	dl := d.activeList(active)
	if dl == nil {
		// retried once the details arrive
		return
	}

	d.goRun(ctx, func(ctx context.Context) {
		_, err := d.paginator.LoadFirstPage(ctx, dl)
		d.handleMembersResult(ctx, err)
	})
}

func (d *Displayer) handleMembersResult(ctx context.Context, err error) {
	switch {
	case err == nil:
	case errors.Is(err, ErrStaleResult):
		return
	case isValidation(err):
		slog.DebugContext(ctx, "members page not requested", "reason", err)
	default:
		d.notify(ctx, notificationFor(notificationKeyMembers, err))
	}
	d.emit()
}

func isValidation(err error) bool {
	var validation errs.Validation
	return errors.As(err, &validation)
}

// activeList resolves the list used for member requests, preferring fetched details.
func (d *Displayer) activeList(id string) *model.DistributionList {
	d.mu.Lock()
	details := d.details
	d.mu.Unlock()
	if details != nil && details.ID == id {
		dl := details.DistributionList
		return &dl
	}
	if d.store != nil {
		if dl, ok := d.store.Get(id); ok {
			return dl
		}
	}
	return nil
}

func (d *Displayer) goRun(ctx context.Context, fn func(ctx context.Context)) {
	// async work outlives the request that triggered it
	ctx = context.WithoutCancel(ctx)
	d.wg.Add(1)
	go func() {
		defer d.wg.Done()
		fn(ctx)
	}()
}

func (d *Displayer) notify(ctx context.Context, notification model.Notification) {
	if d.notifier == nil {
		return
	}
	notification.CreatedAt = time.Now().UTC()
	if err := d.notifier.Notify(ctx, notification); err != nil {
		slog.WarnContext(ctx, "failed to deliver notification",
			"error", err,
			"key", notification.Key,
		)
	}
}

// View returns what the displayer currently shows.
func (d *Displayer) View() DisplayerView {
	active, generation := d.selection.Active()
	tab := d.tabs.Tab()
	members := d.paginator.State()

	d.mu.Lock()
	details := d.details
	loading := d.loadingDetails
	if d.detailsGeneration != generation || (details != nil && details.ID != active) {
		details = nil
	}
	d.mu.Unlock()

	view := DisplayerView{
		Open:       active != "",
		ActiveID:   active,
		Generation: generation,
		Tab:        tab,
	}
	if !view.Open {
		view.Tab = model.TabDetails
		return view
	}

	view.LoadingDetails = loading
	if details == nil {
		if dl := d.activeList(active); dl != nil {
			view.Title = dl.Label()
			view.Email = dl.Email
		}
	} else {
		view.Title = details.Label()
		view.Email = details.Email
	}

	memberSet := model.MemberSet{}
	if members.EntityID == active {
		memberSet = members.Set
		view.LoadingMembers = members.Loading
	}

	for _, t := range model.Tabs() {
		caption := t.Title()
		switch {
		case t == model.TabMemberList && memberSet.Loaded:
			caption = fmt.Sprintf("%s %d", caption, memberSet.Total)
		case t == model.TabManagerList && details != nil:
			caption = fmt.Sprintf("%s %d", caption, len(details.Owners))
		}
		view.Tabs = append(view.Tabs, TabCaption{Tab: t, Caption: caption})
	}

	switch tab {
	case model.TabDetails:
		if details != nil {
			view.Description = details.Description
		}
	case model.TabMemberList:
		view.Members = memberSet.Members
		view.MembersTotal = memberSet.Total
		view.MoreMembers = memberSet.More
	case model.TabManagerList:
		if details != nil {
			view.Owners = append([]string(nil), details.Owners...)
		}
	}

	return view
}

func (d *Displayer) emit() {
	d.mu.Lock()
	listeners := make([]func(DisplayerView), len(d.listeners))
	copy(listeners, d.listeners)
	d.mu.Unlock()

	if len(listeners) == 0 {
		return
	}
	view := d.View()
	for _, fn := range listeners {
		fn(view)
	}
}
