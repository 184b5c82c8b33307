// Copyright The Linux Foundation and each contributor to LFX.
// SPDX-License-Identifier: MIT

package main

import (
	"context"
	"fmt"
	"io"
	"log/slog"
	"os"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/spf13/cobra"

	"github.com/linuxfoundation/lfx-v2-distribution-list-service/cmd/distribution-list-api/service"
	"github.com/linuxfoundation/lfx-v2-distribution-list-service/internal/domain/model"
	"github.com/linuxfoundation/lfx-v2-distribution-list-service/internal/domain/port"
	internalService "github.com/linuxfoundation/lfx-v2-distribution-list-service/internal/service"
	"github.com/linuxfoundation/lfx-v2-distribution-list-service/internal/tui"
	"github.com/linuxfoundation/lfx-v2-distribution-list-service/pkg/log"
)

type browseOptions struct {
	route     string
	routeSet  bool
	sessionID string
	logFile   string
}

func newBrowseCmd() *cobra.Command {
	opts := browseOptions{}
	cmd := &cobra.Command{
		Use:   "browse",
		Short: "Open the terminal browser",
		Long: `browse opens the distribution lists in the terminal. With --session the
session snapshot is restored from, and saved back to, the session store.`,
		RunE: func(cmd *cobra.Command, _ []string) error {
			opts.routeSet = cmd.Flags().Changed("route")
			return runBrowse(cmd.Context(), opts)
		},
	}
	cmd.Flags().StringVar(&opts.route, "route", model.Route{Filter: model.FilterMember}.String(), "route to open")
	cmd.Flags().StringVar(&opts.sessionID, "session", "", "session id to restore and save")
	cmd.Flags().StringVar(&opts.logFile, "log-file", "", "write logs to this file instead of discarding them")
	return cmd
}

func runBrowse(ctx context.Context, opts browseOptions) error {
	var logOutput io.Writer = io.Discard
	if opts.logFile != "" {
		f, err := os.OpenFile(opts.logFile, os.O_CREATE|os.O_WRONLY|os.O_APPEND, 0o600)
		if err != nil {
			return fmt.Errorf("failed to open log file: %w", err)
		}
		defer f.Close()
		logOutput = f
	}
	log.InitStructureLogConfigWithWriter(logOutput)

	start, err := model.ParseRoute(opts.route)
	if err != nil {
		return err
	}

	notifier := tui.NewNotifier()
	sessions := newBrowseSessions(ctx, opts, notifier)

	session, err := sessions.Open(ctx, opts.sessionID)
	if err != nil {
		return fmt.Errorf("failed to open session: %w", err)
	}
	if restored := session.View.Route(); !opts.routeSet && restored.Filter != "" {
		start = restored
	}
	slog.InfoContext(ctx, "browsing distribution lists", "session_id", session.ID, "route", start.String())

	browserCtx, cancel := context.WithCancel(ctx)
	defer cancel()

	program := tea.NewProgram(tui.New(browserCtx, session, notifier, start), tea.WithAltScreen(), tea.WithContext(browserCtx))
	if _, err := program.Run(); err != nil {
		return fmt.Errorf("terminal browser failed: %w", err)
	}

	if opts.sessionID != "" {
		if err := sessions.Save(ctx, session); err != nil {
			return fmt.Errorf("failed to save session: %w", err)
		}
	}
	return nil
}

// newBrowseSessions builds the session manager of the browser. Snapshots are
// only stored when a session id was requested.
func newBrowseSessions(ctx context.Context, opts browseOptions, notifier *tui.Notifier) *internalService.SessionManager {
	var repository port.SessionRepository
	if opts.sessionID != "" {
		repository = service.SessionRepository(ctx, cfg)
	}

	return internalService.NewSessionManager(
		internalService.WithSessionReader(service.DistributionListReader(ctx, cfg)),
		internalService.WithSessionNotifier(notifier),
		internalService.WithSessionRepository(repository),
		internalService.WithMembersPageSize(cfg.Members.PageSize),
	)
}
