// Copyright The Linux Foundation and each contributor to LFX.
// SPDX-License-Identifier: MIT

package service

import (
	"context"
	"log/slog"
	"sync"

	"github.com/linuxfoundation/lfx-v2-distribution-list-service/internal/domain/model"
	errs "github.com/linuxfoundation/lfx-v2-distribution-list-service/pkg/errors"
)

// TabCoordinator owns the displayer tab. On every selection change, including
// to none, it goes back to Details and resets the member paginator before any
// request for the new list can be issued.
//
//	selectEntity(id): (any, any)  -> (id, Details)   when id differs
//	selectTab(tab):   (id, any)   -> (id, tab)       only with a selection
//	close():          (any, any)  -> (none, Details)
type TabCoordinator struct {
	selection *SelectionController
	paginator *MemberPaginator

	mu  sync.RWMutex
	tab model.Tab
}

// NewTabCoordinator subscribes to the selection controller. It must be
// created before any other subscriber that issues requests on selection change.
func NewTabCoordinator(selection *SelectionController, paginator *MemberPaginator) *TabCoordinator {
	tc := &TabCoordinator{
		selection: selection,
		paginator: paginator,
		tab:       model.TabDetails,
	}
	selection.Subscribe(tc.onSelectionChange)
	return tc
}

func (tc *TabCoordinator) onSelectionChange(ctx context.Context, change model.SelectionChange) {
	tc.mu.Lock()
	previous := tc.tab
	tc.tab = model.TabDetails
	tc.mu.Unlock()

	tc.paginator.Reset()

	slog.DebugContext(ctx, "displayer tabs reset",
		"previous_tab", previous,
		"distribution_list_id", change.Current,
		"generation", change.Generation,
	)
}

// SelectTab switches tab. It fails with a Validation error when no list is active.
// The returned bool reports whether the tab changed.
func (tc *TabCoordinator) SelectTab(ctx context.Context, tab model.Tab) (bool, error) {
	if _, err := model.ParseTab(string(tab)); err != nil {
		return false, errs.NewValidation(err.Error())
	}

	active, _ := tc.selection.Active()
	if active == "" {
		return false, errs.NewValidation("no distribution list is active")
	}

	tc.mu.Lock()
	defer tc.mu.Unlock()
	if tc.tab == tab {
		return false, nil
	}

	slog.DebugContext(ctx, "displayer tab selected",
		"distribution_list_id", active,
		"previous_tab", tc.tab,
		"tab", tab,
	)
	tc.tab = tab
	return true, nil
}

// Tab returns the visible tab.
func (tc *TabCoordinator) Tab() model.Tab {
	tc.mu.RLock()
	defer tc.mu.RUnlock()
	return tc.tab
}
