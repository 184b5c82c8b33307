// Copyright The Linux Foundation and each contributor to LFX.
// SPDX-License-Identifier: MIT

package port

import "context"

// MessagePublisher publishes displayer events for front-ends and other services.
type MessagePublisher interface {
	// SelectionChanged publishes a model.SelectionChangedEvent
	SelectionChanged(ctx context.Context, subject string, message any) error

	// Notification publishes a model.Notification
	Notification(ctx context.Context, subject string, message any) error
}
