// Copyright The Linux Foundation and each contributor to LFX.
// SPDX-License-Identifier: MIT

package service

import (
	"errors"

	"github.com/linuxfoundation/lfx-v2-distribution-list-service/internal/domain/model"
	errs "github.com/linuxfoundation/lfx-v2-distribution-list-service/pkg/errors"
)

// ErrStaleResult is returned when a fetch resolves after the list it was
// issued for stopped being active. The result has been discarded.
var ErrStaleResult = errors.New("stale result discarded")

// asRemoteError keeps NotFound errors and reports every other failure of a
// groupware call as a Network error.
func asRemoteError(message string, err error) error {
	var notFound errs.NotFound
	if errors.As(err, &notFound) {
		return notFound
	}
	var network errs.Network
	if errors.As(err, &network) {
		return network
	}
	return errs.NewNetwork(message, err)
}

// notificationFor maps an error to the message shown to the user.
func notificationFor(key string, err error) model.Notification {
	message := model.MessageSomethingWentWrong
	var notFound errs.NotFound
	if errors.As(err, &notFound) {
		message = model.MessageNotFound
	}
	return model.Notification{
		Key:     key,
		Kind:    model.NotificationError,
		Message: message,
	}
}
