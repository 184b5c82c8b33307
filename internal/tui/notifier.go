// Copyright The Linux Foundation and each contributor to LFX.
// SPDX-License-Identifier: MIT

package tui

import (
	"context"

	"github.com/linuxfoundation/lfx-v2-distribution-list-service/internal/domain/model"
	"github.com/linuxfoundation/lfx-v2-distribution-list-service/internal/domain/port"
)

// Notifier hands notifications to the browser. Notifications arriving while
// the buffer is full are dropped.
type Notifier struct {
	ch chan model.Notification
}

var _ port.Notifier = (*Notifier)(nil)

// NewNotifier creates a notifier for the browser
func NewNotifier() *Notifier {
	return &Notifier{ch: make(chan model.Notification, 16)}
}

// Notify queues the notification for display
func (n *Notifier) Notify(ctx context.Context, notification model.Notification) error {
	select {
	case n.ch <- notification:
	default:
	}
	return nil
}
