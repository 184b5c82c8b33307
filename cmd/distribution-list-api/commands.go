// Copyright The Linux Foundation and each contributor to LFX.
// SPDX-License-Identifier: MIT

package main

import (
	"context"
	"fmt"
	"log/slog"
	"sync"
	"time"

	"github.com/nats-io/nats.go"

	internalService "github.com/linuxfoundation/lfx-v2-distribution-list-service/internal/service"
	"github.com/linuxfoundation/lfx-v2-distribution-list-service/pkg/constants"
)

// commandTimeout bounds the handling of a single command
const commandTimeout = 30 * time.Second

type queueSubscriber interface {
	QueueSubscribe(subject, queue string, handler nats.MsgHandler) (*nats.Subscription, error)
}

// handleCommands subscribes the command service to every command subject
func handleCommands(ctx context.Context, wg *sync.WaitGroup, subscriber queueSubscriber, commands *internalService.CommandService) error {
	slog.InfoContext(ctx, "starting distribution list command handling")

	for _, subject := range constants.CommandSubjects() {
		_, subErr := subscriber.QueueSubscribe(
			subject,
			constants.DistributionListAPIQueue,
			func(msg *nats.Msg) {
				select {
				case <-ctx.Done():
					slog.InfoContext(ctx, "rejecting command - service shutting down",
						"subject", msg.Subject)
					return
				default:
				}

				// Not derived from the shutdown context so in-flight commands finish
				msgCtx, cancel := context.WithTimeout(context.Background(), commandTimeout)
				defer cancel()

				if handleErr := commands.HandleMessage(msgCtx, msg); handleErr != nil {
					level := slog.LevelError
					if internalService.IsClientError(handleErr) {
						level = slog.LevelWarn
					}
					slog.Log(msgCtx, level, "failed to handle distribution list command",
						"error", handleErr,
						"subject", msg.Subject)
				}
			},
		)
		if subErr != nil {
			return fmt.Errorf("failed to subscribe to %s: %w", subject, subErr)
		}
		slog.DebugContext(ctx, "subscribed to distribution list command",
			"subject", subject,
			"queue", constants.DistributionListAPIQueue)
	}

	slog.InfoContext(ctx, "distribution list command handling started",
		"subjects", len(constants.CommandSubjects()))

	wg.Add(1)
	go func() {
		defer wg.Done()
		<-ctx.Done()
		slog.InfoContext(ctx, "shutting down distribution list command handling")
	}()

	return nil
}
