// Copyright The Linux Foundation and each contributor to LFX.
// SPDX-License-Identifier: MIT

package service

import (
	"context"
	"encoding/json"
	"testing"

	"github.com/nats-io/nats.go"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/linuxfoundation/lfx-v2-distribution-list-service/internal/domain/model"
	"github.com/linuxfoundation/lfx-v2-distribution-list-service/internal/infrastructure/mock"
	"github.com/linuxfoundation/lfx-v2-distribution-list-service/pkg/constants"
	errs "github.com/linuxfoundation/lfx-v2-distribution-list-service/pkg/errors"
)

type commandFixture struct {
	groupware *mock.MockGroupware
	repo      *mock.MockSessionRepository
	notifier  *mock.MockNotifier
	service   *CommandService
}

func newCommandFixture(withWriter bool) *commandFixture {
	f := &commandFixture{
		groupware: newTestGroupware(),
		repo:      mock.NewMockSessionRepository(),
		notifier:  mock.NewMockNotifier(),
	}
	sessions := NewSessionManager(
		WithSessionReader(f.groupware),
		WithSessionRepository(f.repo),
		WithSessionNotifier(f.notifier),
	)
	opts := []commandServiceOption{WithActionNotifier(f.notifier)}
	if withWriter {
		opts = append(opts, WithAddressBookWriter(f.groupware))
	}
	f.service = NewCommandService(sessions, opts...)
	return f
}

func (f *commandFixture) handle(t *testing.T, subject string, req CommandRequest) (*CommandReply, error) {
	t.Helper()
	data, err := json.Marshal(req)
	require.NoError(t, err)
	return f.service.Handle(context.Background(), subject, data)
}

func TestCommandService_SessionFlow(t *testing.T) {
	f := newCommandFixture(false)

	reply, err := f.handle(t, constants.NavigateSubject, CommandRequest{Route: "/distribution-lists/member/dl1", Wait: true})
	require.NoError(t, err)
	require.NotEmpty(t, reply.SessionID)
	assert.Len(t, reply.List.Items, 2)
	assert.Equal(t, "dl1", reply.Displayer.ActiveID)
	assert.Equal(t, "Description of dl1", reply.Displayer.Description)
	assert.Equal(t, 1, f.repo.Len(), "snapshot saved")
	sessionID := reply.SessionID

	reply, err = f.handle(t, constants.SelectTabSubject, CommandRequest{SessionID: sessionID, Tab: model.TabMemberList, Wait: true})
	require.NoError(t, err)
	assert.Equal(t, testMembers("dl1", 7), reply.Displayer.Members)

	reply, err = f.handle(t, constants.SelectSubject, CommandRequest{SessionID: sessionID, ID: "dl2", Wait: true})
	require.NoError(t, err)
	assert.Equal(t, model.TabDetails, reply.Displayer.Tab)
	assert.Equal(t, "/distribution-lists/member/dl2", reply.List.Route)

	reply, err = f.handle(t, constants.ViewSubject, CommandRequest{SessionID: sessionID})
	require.NoError(t, err)
	assert.Equal(t, "dl2", reply.Displayer.ActiveID)

	reply, err = f.handle(t, constants.CloseSubject, CommandRequest{SessionID: sessionID})
	require.NoError(t, err)
	assert.False(t, reply.Displayer.Open)
	assert.Equal(t, "/distribution-lists/member", reply.List.Route)

	_, err = f.handle(t, constants.EndSessionSubject, CommandRequest{SessionID: sessionID})
	require.NoError(t, err)
	assert.Zero(t, f.repo.Len())
}

func TestCommandService_ReplicasShareSessions(t *testing.T) {
	g := newTestGroupware()
	repo := mock.NewMockSessionRepository()
	replica := func() *commandFixture {
		return &commandFixture{
			groupware: g,
			repo:      repo,
			service:   NewCommandService(NewSessionManager(WithSessionReader(g), WithSessionRepository(repo))),
		}
	}
	a, b := replica(), replica()

	reply, err := a.handle(t, constants.NavigateSubject, CommandRequest{Route: "/distribution-lists/member/dl1", Wait: true})
	require.NoError(t, err)
	sessionID := reply.SessionID
	require.Equal(t, "dl1", reply.Displayer.ActiveID)

	reply, err = b.handle(t, constants.SelectSubject, CommandRequest{SessionID: sessionID, ID: "dl2", Wait: true})
	require.NoError(t, err)
	require.Equal(t, "dl2", reply.Displayer.ActiveID)
	_, err = b.handle(t, constants.SelectTabSubject, CommandRequest{SessionID: sessionID, Tab: model.TabMemberList, Wait: true})
	require.NoError(t, err)

	reply, err = a.handle(t, constants.ViewSubject, CommandRequest{SessionID: sessionID, Wait: true})
	require.NoError(t, err)
	assert.Equal(t, "dl2", reply.Displayer.ActiveID, "the live session follows the newer snapshot")
	assert.Equal(t, "/distribution-lists/member/dl2", reply.List.Route)
	assert.Equal(t, model.TabMemberList, reply.Displayer.Tab)
	assert.Equal(t, testMembers("dl2", 10), reply.Displayer.Members)

	reply, err = a.handle(t, constants.CloseSubject, CommandRequest{SessionID: sessionID, Wait: true})
	require.NoError(t, err)
	require.False(t, reply.Displayer.Open)

	reply, err = b.handle(t, constants.ViewSubject, CommandRequest{SessionID: sessionID, Wait: true})
	require.NoError(t, err)
	assert.False(t, reply.Displayer.Open)
	assert.Equal(t, "/distribution-lists/member", reply.List.Route)
}

func TestCommandService_LoadMore(t *testing.T) {
	f := newCommandFixture(false)

	reply, err := f.handle(t, constants.NavigateSubject, CommandRequest{Route: "/distribution-lists/member/dl2", Wait: true})
	require.NoError(t, err)
	sessionID := reply.SessionID

	_, err = f.handle(t, constants.LoadMoreSubject, CommandRequest{SessionID: sessionID})
	assert.ErrorAs(t, err, &errs.Validation{}, "member list never opened")
}

func TestCommandService_Errors(t *testing.T) {
	f := newCommandFixture(false)

	tests := []struct {
		name    string
		subject string
		data    []byte
	}{
		{name: "unknown subject", subject: "lfx.distribution-list-api.unknown", data: []byte(`{}`)},
		{name: "invalid payload", subject: constants.NavigateSubject, data: []byte(`{"route":`)},
		{name: "invalid route", subject: constants.NavigateSubject, data: []byte(`{"route":"/contacts/7"}`)},
		{name: "missing session", subject: constants.SelectSubject, data: []byte(`{"id":"dl1"}`)},
		{name: "invalid session", subject: constants.ViewSubject, data: []byte(`{"session_id":"abc"}`)},
		{name: "select without id", subject: constants.SelectSubject, data: []byte(`{"session_id":"9e107d9d-372b-4c6b-8d1b-2a5f6c8e3f01"}`)},
		{name: "end without session", subject: constants.EndSessionSubject, data: nil},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			reply, err := f.service.Handle(context.Background(), tt.subject, tt.data)
			assert.Nil(t, reply)
			assert.ErrorAs(t, err, &errs.Validation{})
			assert.True(t, IsClientError(err))
		})
	}
}

func TestCommandService_AddressBookActions(t *testing.T) {
	t.Run("disabled without writer", func(t *testing.T) {
		f := newCommandFixture(false)
		_, err := f.handle(t, constants.ListSharesSubject, CommandRequest{})
		assert.ErrorAs(t, err, &errs.ServiceUnavailable{})
		assert.False(t, IsClientError(err))
	})

	t.Run("move contacts", func(t *testing.T) {
		f := newCommandFixture(true)
		_, err := f.handle(t, constants.MoveContactsSubject, CommandRequest{
			SessionID:   "9e107d9d-372b-4c6b-8d1b-2a5f6c8e3f01",
			Contacts:    []model.Contact{{ID: "257", FolderID: "7"}},
			Destination: &model.AddressBook{ID: "3"},
		})
		require.NoError(t, err)
		assert.Equal(t, []mock.MoveRequest{{ContactIDs: []string{"257"}, DestinationID: "3"}}, f.groupware.Moves())

		notifications := f.notifier.Notifications()
		require.Len(t, notifications, 1)
		assert.Equal(t, model.MessageContactMoved, notifications[0].Message)
		assert.Equal(t, "9e107d9d-372b-4c6b-8d1b-2a5f6c8e3f01", notifications[0].SessionID)
	})

	t.Run("empty address book", func(t *testing.T) {
		f := newCommandFixture(true)
		_, err := f.handle(t, constants.EmptyAddressBookSubject, CommandRequest{AddressBook: &model.AddressBook{ID: "3", Count: 1}})
		assert.ErrorAs(t, err, &errs.Validation{})

		_, err = f.handle(t, constants.EmptyAddressBookSubject, CommandRequest{AddressBook: &model.AddressBook{ID: "281", Count: 1}})
		require.NoError(t, err)
		assert.Len(t, f.groupware.Empties(), 1)
	})

	t.Run("shares", func(t *testing.T) {
		f := newCommandFixture(true)
		f.groupware.AddShare(&model.ShareInfo{OwnerID: "z1", OwnerName: "Jane Doe", FolderID: "7", FolderPath: "/Contacts"})

		reply, err := f.handle(t, constants.ListSharesSubject, CommandRequest{OwnerFilter: "jane"})
		require.NoError(t, err)
		require.Len(t, reply.Shares, 1)

		_, err = f.handle(t, constants.AddSharesSubject, CommandRequest{Shares: reply.Shares[0].Shares})
		require.NoError(t, err)
		require.Len(t, f.groupware.Mountpoints(), 1)
		assert.Equal(t, "Contacts of Jane Doe", f.groupware.Mountpoints()[0].Name)
	})
}

func TestCommandService_HandleMessageWithoutReply(t *testing.T) {
	f := newCommandFixture(false)

	err := f.service.HandleMessage(context.Background(), &nats.Msg{
		Subject: constants.NavigateSubject,
		Data:    []byte(`{"route":"/distribution-lists/manager"}`),
	})
	assert.NoError(t, err)

	err = f.service.HandleMessage(context.Background(), &nats.Msg{Subject: "lfx.distribution-list-api.unknown"})
	assert.Error(t, err)
}
