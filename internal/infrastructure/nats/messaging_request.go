// Copyright The Linux Foundation and each contributor to LFX.
// SPDX-License-Identifier: MIT

package nats

import (
	"context"
	"encoding/json"
	"log/slog"

	"github.com/linuxfoundation/lfx-v2-distribution-list-service/pkg/errors"
)

// CommandRequester sends displayer commands to a running service over request/reply
type CommandRequester struct {
	client *NATSClient
}

// Send marshals request, sends it on subject and decodes the reply into reply.
// A reply carrying an error message is returned as an error.
func (m *CommandRequester) Send(ctx context.Context, subject string, request, reply any) error {
	data, err := json.Marshal(request)
	if err != nil {
		return errors.NewUnexpected("failed to marshal command", err)
	}

	slog.DebugContext(ctx, "sending command via NATS", "subject", subject)

	raw, err := m.client.Request(ctx, subject, data)
	if err != nil {
		slog.ErrorContext(ctx, "failed to send command", "error", err, "subject", subject)
		return err
	}

	var errorResponse struct {
		Error string `json:"error"`
	}
	if err := json.Unmarshal(raw, &errorResponse); err == nil && errorResponse.Error != "" {
		slog.WarnContext(ctx, "command responded with an error", "subject", subject, "error", errorResponse.Error)
		return errors.NewUnexpected(errorResponse.Error)
	}

	if reply == nil {
		return nil
	}
	if err := json.Unmarshal(raw, reply); err != nil {
		return errors.NewUnexpected("failed to decode command reply", err)
	}
	return nil
}

// NewCommandRequester creates a command requester over the NATS connection
func NewCommandRequester(client *NATSClient) *CommandRequester {
	return &CommandRequester{client: client}
}
