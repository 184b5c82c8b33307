// Copyright The Linux Foundation and each contributor to LFX.
// SPDX-License-Identifier: MIT

package mock

import (
	"context"
	"log/slog"
	"sync"

	"github.com/linuxfoundation/lfx-v2-distribution-list-service/internal/domain/port"
)

// PublishedMessage is a message recorded by MockMessagePublisher
type PublishedMessage struct {
	Subject     string
	MessageType string
	Message     any
}

// MockMessagePublisher is a mock implementation of the MessagePublisher interface
type MockMessagePublisher struct {
	mu       sync.Mutex
	messages []PublishedMessage
	err      error
}

// Ensure MockMessagePublisher implements the MessagePublisher interface
var _ port.MessagePublisher = (*MockMessagePublisher)(nil)

// NewMockMessagePublisher creates a new mock publisher for testing
func NewMockMessagePublisher() *MockMessagePublisher {
	return &MockMessagePublisher{}
}

// SelectionChanged records a selection change message
func (m *MockMessagePublisher) SelectionChanged(ctx context.Context, subject string, message any) error {
	return m.record(ctx, subject, message, "selection_changed")
}

// Notification records a notification message
func (m *MockMessagePublisher) Notification(ctx context.Context, subject string, message any) error {
	return m.record(ctx, subject, message, "notification")
}

// SetError makes every publish fail with err
func (m *MockMessagePublisher) SetError(err error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.err = err
}

// Messages returns the messages published so far
func (m *MockMessagePublisher) Messages() []PublishedMessage {
	m.mu.Lock()
	defer m.mu.Unlock()
	return append([]PublishedMessage(nil), m.messages...)
}

func (m *MockMessagePublisher) record(ctx context.Context, subject string, message any, messageType string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.err != nil {
		return m.err
	}
	m.messages = append(m.messages, PublishedMessage{Subject: subject, MessageType: messageType, Message: message})

	slog.DebugContext(ctx, "mock message published",
		"subject", subject,
		"message_type", messageType,
	)
	return nil
}
