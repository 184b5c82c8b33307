// Copyright The Linux Foundation and each contributor to LFX.
// SPDX-License-Identifier: MIT

package service

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/linuxfoundation/lfx-v2-distribution-list-service/internal/domain/model"
	errs "github.com/linuxfoundation/lfx-v2-distribution-list-service/pkg/errors"
)

func newTestTabs() (*SelectionController, *MemberPaginator, *TabCoordinator) {
	selection := NewSelectionController()
	paginator := NewMemberPaginator(selection, WithMemberReader(newTestGroupware()))
	return selection, paginator, NewTabCoordinator(selection, paginator)
}

func TestTabCoordinator_SelectionResetsToDetails(t *testing.T) {
	ctx := context.Background()

	for _, tab := range model.Tabs() {
		for _, next := range []string{"dl2", ""} {
			t.Run(string(tab)+" to "+next, func(t *testing.T) {
				selection, _, tabs := newTestTabs()
				selection.SetActive(ctx, "dl1")

				_, err := tabs.SelectTab(ctx, tab)
				require.NoError(t, err)
				assert.Equal(t, tab, tabs.Tab())

				selection.SetActive(ctx, next)
				assert.Equal(t, model.TabDetails, tabs.Tab())
			})
		}
	}
}

func TestTabCoordinator_ResetsPaginator(t *testing.T) {
	ctx := context.Background()
	selection, paginator, tabs := newTestTabs()
	dl1 := testList("dl1", true, true)

	selection.SetActive(ctx, dl1.ID)
	_, err := tabs.SelectTab(ctx, model.TabMemberList)
	require.NoError(t, err)
	_, err = paginator.LoadFirstPage(ctx, &dl1)
	require.NoError(t, err)
	require.True(t, paginator.MemberSet().Loaded)

	selection.SetActive(ctx, "dl2")
	assert.Equal(t, MemberState{}, paginator.State())
}

func TestTabCoordinator_SelectTab(t *testing.T) {
	ctx := context.Background()

	tests := []struct {
		name        string
		active      string
		tab         model.Tab
		wantChanged bool
		wantErr     bool
	}{
		{name: "no active list", tab: model.TabMemberList, wantErr: true},
		{name: "unknown tab", active: "dl1", tab: model.Tab("history"), wantErr: true},
		{name: "same tab", active: "dl1", tab: model.TabDetails},
		{name: "member list", active: "dl1", tab: model.TabMemberList, wantChanged: true},
		{name: "manager list", active: "dl1", tab: model.TabManagerList, wantChanged: true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			selection, _, tabs := newTestTabs()
			if tt.active != "" {
				selection.SetActive(ctx, tt.active)
			}

			changed, err := tabs.SelectTab(ctx, tt.tab)
			if tt.wantErr {
				assert.ErrorAs(t, err, &errs.Validation{})
				assert.Equal(t, model.TabDetails, tabs.Tab())
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tt.wantChanged, changed)
			assert.Equal(t, tt.tab, tabs.Tab())
		})
	}
}
