// Copyright The Linux Foundation and each contributor to LFX.
// SPDX-License-Identifier: MIT

package mock

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/linuxfoundation/lfx-v2-distribution-list-service/internal/domain/model"
	"github.com/linuxfoundation/lfx-v2-distribution-list-service/pkg/constants"
	pkgerrors "github.com/linuxfoundation/lfx-v2-distribution-list-service/pkg/errors"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newTestGroupware() *MockGroupware {
	g := NewMockGroupware()
	g.AddDistributionList(model.DistributionList{ID: "dl1", Email: "dl1@example.org", IsOwner: true, IsMember: true},
		[]string{"owner@example.org"}, sampleMembers("m", 5))
	g.AddDistributionList(model.DistributionList{ID: "dl2", Email: "dl2@example.org", IsMember: true},
		nil, sampleMembers("n", 2))
	g.AddDistributionList(model.DistributionList{ID: "dl3", Email: "dl3@example.org", IsOwner: true},
		nil, nil)
	return g
}

func TestMockGroupware_GetAccountDistributionLists(t *testing.T) {
	tests := []struct {
		name  string
		query model.ListQuery
		want  []string
	}{
		{
			name:  "member of all",
			query: model.FilterMember.Query(),
			want:  []string{"dl1", "dl2"},
		},
		{
			name:  "owner of only",
			query: model.FilterManager.Query(),
			want:  []string{"dl1", "dl3"},
		},
		{
			name:  "owner and member",
			query: model.ListQuery{OwnerOf: true, MemberOf: model.MemberOfAll},
			want:  []string{"dl1", "dl2", "dl3"},
		},
		{
			name:  "nothing",
			query: model.ListQuery{MemberOf: model.MemberOfNone},
			want:  []string{},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			g := newTestGroupware()
			lists, err := g.GetAccountDistributionLists(context.Background(), tt.query)
			require.NoError(t, err)

			ids := make([]string, 0, len(lists))
			for _, dl := range lists {
				ids = append(ids, dl.ID)
			}
			assert.Equal(t, tt.want, ids)
			assert.Equal(t, 1, g.Calls(constants.GetAccountDistributionListsRequest))
		})
	}
}

func TestMockGroupware_GetDistributionList(t *testing.T) {
	ctx := context.Background()
	g := newTestGroupware()

	details, err := g.GetDistributionList(ctx, "dl1", true)
	require.NoError(t, err)
	assert.Equal(t, "dl1@example.org", details.Email)
	assert.Equal(t, []string{"owner@example.org"}, details.Owners)

	details, err = g.GetDistributionList(ctx, "dl1", false)
	require.NoError(t, err)
	assert.Empty(t, details.Owners)

	_, err = g.GetDistributionList(ctx, "missing", true)
	var notFound pkgerrors.NotFound
	assert.True(t, errors.As(err, &notFound))
}

func TestMockGroupware_Members(t *testing.T) {
	ctx := context.Background()

	t.Run("offset before first page is rejected", func(t *testing.T) {
		g := newTestGroupware()
		_, err := g.GetDistributionListMembers(ctx, "dl1@example.org", 2, 2)
		var validation pkgerrors.Validation
		require.True(t, errors.As(err, &validation))
	})

	t.Run("pages through members", func(t *testing.T) {
		g := newTestGroupware()

		page, err := g.GetDistributionListMembers(ctx, "dl1@example.org", 0, 2)
		require.NoError(t, err)
		assert.Equal(t, []string{"m001@example.org", "m002@example.org"}, page.Members)
		assert.Equal(t, 5, page.Total)
		assert.True(t, page.More)

		page, err = g.GetDistributionListMembers(ctx, "dl1@example.org", 4, 2)
		require.NoError(t, err)
		assert.Equal(t, []string{"m005@example.org"}, page.Members)
		assert.False(t, page.More)

		assert.Equal(t, []MemberRequest{
			{Address: "dl1@example.org", Offset: 0, Limit: 2},
			{Address: "dl1@example.org", Offset: 4, Limit: 2},
		}, g.MemberRequests())
	})

	t.Run("empty list", func(t *testing.T) {
		g := newTestGroupware()
		page, err := g.GetDistributionListMembers(ctx, "dl3@example.org", 0, 10)
		require.NoError(t, err)
		assert.Empty(t, page.Members)
		assert.Zero(t, page.Total)
		assert.False(t, page.More)
	})

	t.Run("unknown address", func(t *testing.T) {
		g := newTestGroupware()
		_, err := g.GetDistributionListMembers(ctx, "nobody@example.org", 0, 10)
		var notFound pkgerrors.NotFound
		assert.True(t, errors.As(err, &notFound))
	})

	t.Run("held until released", func(t *testing.T) {
		g := newTestGroupware()
		release := g.HoldMembers("dl2@example.org")

		done := make(chan struct{})
		go func() {
			defer close(done)
			_, _ = g.GetDistributionListMembers(ctx, "dl2@example.org", 0, 10)
		}()

		select {
		case <-done:
			t.Fatal("request returned while held")
		case <-time.After(20 * time.Millisecond):
		}
		release()
		<-done
	})
}

func TestMockGroupware_ErrorSimulation(t *testing.T) {
	ctx := context.Background()
	g := newTestGroupware()

	expectedErr := pkgerrors.NewNetwork("simulated network failure")
	g.SetErrorForOperation(constants.GetDistributionListRequest, expectedErr)

	_, err := g.GetDistributionList(ctx, "dl1", true)
	require.Error(t, err)
	assert.True(t, errors.Is(err, expectedErr))
	assert.Equal(t, 1, g.Calls(constants.GetDistributionListRequest))

	g.ClearErrors()
	_, err = g.GetDistributionList(ctx, "dl1", true)
	assert.NoError(t, err)
}

func TestMockGroupware_AddressBookWriter(t *testing.T) {
	ctx := context.Background()
	g := NewSampleGroupware()

	require.NoError(t, g.MoveContacts(ctx, []string{"257", "258"}, "7"))
	require.NoError(t, g.EmptyAddressBook(ctx, "281", true))
	shares, err := g.GetShareInfo(ctx)
	require.NoError(t, err)
	require.Len(t, shares, 2)
	require.NoError(t, g.CreateMountpoints(ctx, []model.Mountpoint{{ParentID: "1", Name: "Contacts of Jane Doe"}}))

	assert.Equal(t, []MoveRequest{{ContactIDs: []string{"257", "258"}, DestinationID: "7"}}, g.Moves())
	assert.Equal(t, []EmptyRequest{{FolderID: "281", Recursive: true}}, g.Empties())
	assert.Len(t, g.Mountpoints(), 1)
}

func TestMockSessionRepository(t *testing.T) {
	ctx := context.Background()
	repo := NewMockSessionRepository()

	_, _, err := repo.GetSession(ctx, "s1")
	var notFound pkgerrors.NotFound
	require.True(t, errors.As(err, &notFound))

	snapshot := &model.SessionSnapshot{ID: "s1", Route: model.Route{Filter: model.FilterManager, ID: "dl1"}, Tab: model.TabMemberList}
	rev, err := repo.PutSession(ctx, snapshot, 0)
	require.NoError(t, err)

	got, gotRev, err := repo.GetSession(ctx, "s1")
	require.NoError(t, err)
	assert.Equal(t, rev, gotRev)
	assert.Equal(t, *snapshot, *got)

	_, err = repo.PutSession(ctx, snapshot, rev+10)
	var conflict pkgerrors.Conflict
	assert.True(t, errors.As(err, &conflict))

	require.NoError(t, repo.DeleteSession(ctx, "s1"))
	require.NoError(t, repo.DeleteSession(ctx, "s1"))
	assert.Zero(t, repo.Len())
}
