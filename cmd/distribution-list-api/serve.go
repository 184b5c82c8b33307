// Copyright The Linux Foundation and each contributor to LFX.
// SPDX-License-Identifier: MIT

package main

import (
	"context"
	"log/slog"
	"os/signal"
	"sync"
	"syscall"
	"time"

	"github.com/spf13/cobra"

	"github.com/linuxfoundation/lfx-v2-distribution-list-service/cmd/distribution-list-api/service"
	internalService "github.com/linuxfoundation/lfx-v2-distribution-list-service/internal/service"
	"github.com/linuxfoundation/lfx-v2-distribution-list-service/pkg/log"
	"github.com/linuxfoundation/lfx-v2-distribution-list-service/pkg/utils"
)

const gracefulShutdownSeconds = 25

func newServeCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "serve",
		Short: "Answer the displayer commands over NATS",
		RunE: func(cmd *cobra.Command, _ []string) error {
			return runServe(cmd.Context())
		},
	}
	cmd.Flags().String("health-addr", "", "address of the health endpoints, overrides health_addr")
	cmd.PreRunE = func(cmd *cobra.Command, _ []string) error {
		if addr, _ := cmd.Flags().GetString("health-addr"); addr != "" {
			cfg.HealthAddr = addr
		}
		return nil
	}
	return cmd
}

func runServe(parent context.Context) error {
	log.InitStructureLogConfig()

	ctx, cancel := signal.NotifyContext(parent, syscall.SIGINT, syscall.SIGTERM)
	defer cancel()

	otelShutdown, err := utils.SetupOTelSDK(ctx)
	if err != nil {
		slog.ErrorContext(ctx, "error setting up OpenTelemetry SDK", "error", err)
		return err
	}
	defer func() {
		shutdownCtx, shutdownCancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer shutdownCancel()
		if errShutdown := otelShutdown(shutdownCtx); errShutdown != nil {
			slog.ErrorContext(shutdownCtx, "error shutting down OpenTelemetry SDK", "error", errShutdown)
		}
	}()

	slog.InfoContext(ctx, "starting distribution list service",
		"repository_source", cfg.RepositorySource,
		"session_source", cfg.SessionSource,
		"members_page_size", cfg.Members.PageSize,
	)

	reader := service.DistributionListReader(ctx, cfg)
	writer := service.AddressBookWriter(ctx, cfg)
	repository := service.SessionRepository(ctx, cfg)
	publisher := service.MessagePublisher(ctx, cfg)
	notifier := internalService.NewPublisherNotifier(publisher)

	sessions := internalService.NewSessionManager(
		internalService.WithSessionReader(reader),
		internalService.WithSessionNotifier(notifier),
		internalService.WithSessionPublisher(publisher),
		internalService.WithSessionRepository(repository),
		internalService.WithMembersPageSize(cfg.Members.PageSize),
		internalService.WithSessionTTL(cfg.Sessions.TTL),
	)
	commands := internalService.NewCommandService(sessions,
		internalService.WithAddressBookWriter(writer),
		internalService.WithActionNotifier(notifier),
	)

	// commands always arrive over NATS, whatever stores the sessions
	natsClient := service.GetNATSClient(ctx, cfg)

	var wg sync.WaitGroup
	if err := handleCommands(ctx, &wg, natsClient, commands); err != nil {
		slog.ErrorContext(ctx, "failed to start command handling", "error", err)
		return err
	}

	errc := make(chan error, 1)
	srv := serveHealth(ctx, cfg.HealthAddr, newHealthHandler(service.Pingers(ctx, cfg)), errc)

	select {
	case <-ctx.Done():
		slog.InfoContext(ctx, "shutdown signal received")
	case err = <-errc:
		slog.ErrorContext(ctx, "health server failed", "error", err)
		cancel()
	}

	shutdownCtx, shutdownCancel := context.WithTimeout(context.Background(), gracefulShutdownSeconds*time.Second)
	defer shutdownCancel()

	if errShutdown := srv.Shutdown(shutdownCtx); errShutdown != nil {
		slog.ErrorContext(shutdownCtx, "failed to shut down health server", "error", errShutdown)
	}

	wg.Wait()

	if errClose := natsClient.Close(); errClose != nil {
		slog.ErrorContext(shutdownCtx, "failed to close NATS connection", "error", errClose)
	}

	slog.InfoContext(shutdownCtx, "distribution list service stopped", "open_sessions", sessions.Len())
	return err
}
