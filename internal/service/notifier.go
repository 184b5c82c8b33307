// Copyright The Linux Foundation and each contributor to LFX.
// SPDX-License-Identifier: MIT

package service

import (
	"context"

	"github.com/linuxfoundation/lfx-v2-distribution-list-service/internal/domain/model"
	"github.com/linuxfoundation/lfx-v2-distribution-list-service/internal/domain/port"
	"github.com/linuxfoundation/lfx-v2-distribution-list-service/pkg/constants"
)

// publisherNotifier delivers notifications as published messages
type publisherNotifier struct {
	publisher port.MessagePublisher
}

// Notify publishes the notification on the notification subject
func (n *publisherNotifier) Notify(ctx context.Context, notification model.Notification) error {
	return n.publisher.Notification(ctx, constants.NotificationSubject, notification)
}

// NewPublisherNotifier creates a Notifier that publishes every notification
func NewPublisherNotifier(publisher port.MessagePublisher) port.Notifier {
	return &publisherNotifier{publisher: publisher}
}

// sessionNotifier stamps notifications with the session they belong to
type sessionNotifier struct {
	sessionID string
	next      port.Notifier
}

func (n *sessionNotifier) Notify(ctx context.Context, notification model.Notification) error {
	notification.SessionID = n.sessionID
	return n.next.Notify(ctx, notification)
}
