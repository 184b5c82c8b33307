// Copyright The Linux Foundation and each contributor to LFX.
// SPDX-License-Identifier: MIT

package port

import (
	"context"

	"github.com/linuxfoundation/lfx-v2-distribution-list-service/internal/domain/model"
)

// Notifier shows transient notifications to the user.
type Notifier interface {
	Notify(ctx context.Context, notification model.Notification) error
}
