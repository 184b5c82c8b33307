// Copyright The Linux Foundation and each contributor to LFX.
// SPDX-License-Identifier: MIT

package main

import (
	"context"
	"errors"
	"sync"
	"testing"

	"github.com/nats-io/nats.go"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/linuxfoundation/lfx-v2-distribution-list-service/pkg/constants"
)

type recordingSubscriber struct {
	handlers map[string]nats.MsgHandler
	queues   map[string]string
	failOn   string
}

func (s *recordingSubscriber) QueueSubscribe(subject, queue string, handler nats.MsgHandler) (*nats.Subscription, error) {
	if subject == s.failOn {
		return nil, errors.New("not connected")
	}
	s.handlers[subject] = handler
	s.queues[subject] = queue
	return &nats.Subscription{Subject: subject, Queue: queue}, nil
}

func newRecordingSubscriber() *recordingSubscriber {
	return &recordingSubscriber{
		handlers: make(map[string]nats.MsgHandler),
		queues:   make(map[string]string),
	}
}

func TestHandleCommands_SubscribesEverySubject(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	var wg sync.WaitGroup
	sender, _ := newLocalSender(50)
	subscriber := newRecordingSubscriber()

	require.NoError(t, handleCommands(ctx, &wg, subscriber, sender.commands))

	for _, subject := range constants.CommandSubjects() {
		assert.Contains(t, subscriber.handlers, subject)
		assert.Equal(t, constants.DistributionListAPIQueue, subscriber.queues[subject])
	}

	cancel()
	wg.Wait()
}

func TestHandleCommands_SubscribeFailure(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()
	var wg sync.WaitGroup
	sender, _ := newLocalSender(50)
	subscriber := newRecordingSubscriber()
	subscriber.failOn = constants.SelectSubject

	err := handleCommands(ctx, &wg, subscriber, sender.commands)
	require.Error(t, err)
	assert.Contains(t, err.Error(), constants.SelectSubject)
}

func TestHandleCommands_DispatchesMessages(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()
	var wg sync.WaitGroup
	sender, sessions := newLocalSender(50)
	subscriber := newRecordingSubscriber()
	require.NoError(t, handleCommands(ctx, &wg, subscriber, sender.commands))

	id := "0b9f3c52-4a1e-4f7e-9d2a-6c8b1e0f2a3d"
	subscriber.handlers[constants.NavigateSubject](&nats.Msg{
		Subject: constants.NavigateSubject,
		Data:    []byte(`{"session_id":"` + id + `","route":"/distribution-lists/member"}`),
	})

	session, ok := sessions.Get(id)
	require.True(t, ok)
	assert.Equal(t, "/distribution-lists/member", session.View.Route().String())

	// a malformed command is logged and dropped
	subscriber.handlers[constants.SelectSubject](&nats.Msg{Subject: constants.SelectSubject, Data: []byte("{")})
	assert.Equal(t, 1, sessions.Len())
}
