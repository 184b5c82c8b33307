// Copyright The Linux Foundation and each contributor to LFX.
// SPDX-License-Identifier: MIT

package mock

import (
	"context"
	"sync"

	"github.com/linuxfoundation/lfx-v2-distribution-list-service/internal/domain/model"
	"github.com/linuxfoundation/lfx-v2-distribution-list-service/internal/domain/port"
)

// MockNotifier records notifications
type MockNotifier struct {
	mu            sync.Mutex
	notifications []model.Notification
}

var _ port.Notifier = (*MockNotifier)(nil)

// NewMockNotifier creates a recording notifier
func NewMockNotifier() *MockNotifier {
	return &MockNotifier{}
}

// Notify records the notification
func (n *MockNotifier) Notify(ctx context.Context, notification model.Notification) error {
	n.mu.Lock()
	defer n.mu.Unlock()
	n.notifications = append(n.notifications, notification)
	return nil
}

// Notifications returns the notifications received so far
func (n *MockNotifier) Notifications() []model.Notification {
	n.mu.Lock()
	defer n.mu.Unlock()
	return append([]model.Notification(nil), n.notifications...)
}

// Messages returns the text of the notifications received so far
func (n *MockNotifier) Messages() []string {
	n.mu.Lock()
	defer n.mu.Unlock()
	messages := make([]string, 0, len(n.notifications))
	for _, notification := range n.notifications {
		messages = append(messages, notification.Message)
	}
	return messages
}
