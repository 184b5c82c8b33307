// Copyright The Linux Foundation and each contributor to LFX.
// SPDX-License-Identifier: MIT

package service

import (
	"context"
	"log/slog"
	"sync"
	"time"

	"github.com/linuxfoundation/lfx-v2-distribution-list-service/internal/domain/model"
	"github.com/linuxfoundation/lfx-v2-distribution-list-service/internal/domain/port"
)

const notificationKeyLoadLists = "distribution-lists-load"

// ListItem is one row of the distribution list view.
type ListItem struct {
	List    *model.DistributionList `json:"list" yaml:"list"`
	Active  bool                    `json:"active" yaml:"active"`
	Actions []ActionDescriptor      `json:"actions,omitempty" yaml:"actions,omitempty"`
}

// ListView is what the distribution list screen shows.
type ListView struct {
	Route     string       `json:"route" yaml:"route"`
	Filter    model.Filter `json:"filter" yaml:"filter"`
	Items     []ListItem   `json:"items" yaml:"items"`
	EmptyHint string       `json:"empty_hint,omitempty" yaml:"empty_hint,omitempty"`
}

// DistributionListView binds the route of the distribution list screen to
// the entity store and the displayer.
type DistributionListView struct {
	store     *EntityStore
	displayer *Displayer
	notifier  port.Notifier
	edit      EditDistributionListAction

	mu    sync.RWMutex
	route model.Route
}

// NewDistributionListView creates the view
func NewDistributionListView(store *EntityStore, displayer *Displayer, notifier port.Notifier) *DistributionListView {
	return &DistributionListView{
		store:     store,
		displayer: displayer,
		notifier:  notifier,
	}
}

// Navigate loads the lists of the route filter and makes the route id the
// active list, closing the displayer when the route has none. A failed load
// is notified and returned; the previous lists stay visible and the
// selection still follows the route.
func (v *DistributionListView) Navigate(ctx context.Context, route model.Route) (ListView, error) {
	if route.Filter == "" {
		route.Filter = model.FilterMember
	}

	slog.DebugContext(ctx, "navigating distribution lists", "route", route.String())

	_, loadErr := v.store.Load(ctx, route.Filter)
	if loadErr != nil {
		slog.ErrorContext(ctx, "failed to load distribution lists for route",
			"error", loadErr,
			"route", route.String(),
		)
		if v.notifier != nil {
			notification := notificationFor(notificationKeyLoadLists, loadErr)
			notification.CreatedAt = time.Now().UTC()
			if err := v.notifier.Notify(ctx, notification); err != nil {
				slog.WarnContext(ctx, "failed to deliver notification", "error", err)
			}
		}
	} else {
		v.mu.Lock()
		v.route.Filter = route.Filter
		v.mu.Unlock()
	}

	v.displayer.Select(ctx, route.ID)

	v.mu.Lock()
	v.route.ID = route.ID
	if v.route.Filter == "" {
		v.route.Filter = route.Filter
	}
	v.mu.Unlock()

	return v.View(), loadErr
}

// Route returns the route currently shown.
func (v *DistributionListView) Route() model.Route {
	v.mu.RLock()
	defer v.mu.RUnlock()
	route := v.route
	route.ID = v.displayer.ActiveID()
	return route
}

// View lists the items of the current filter.
func (v *DistributionListView) View() ListView {
	route := v.Route()
	active := v.displayer.ActiveID()

	lists := v.store.Items()
	view := ListView{
		Route:  route.String(),
		Filter: route.Filter,
		Items:  make([]ListItem, 0, len(lists)),
	}
	for _, dl := range lists {
		item := ListItem{List: dl, Active: dl.ID == active}
		if v.edit.CanExecute(dl) {
			item.Actions = append(item.Actions, v.edit.Descriptor())
		}
		view.Items = append(view.Items, item)
	}
	if len(view.Items) == 0 && v.store.Loaded(route.Filter) {
		view.EmptyHint = model.MessageEmptyListHint
	}
	return view
}
