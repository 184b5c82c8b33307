// Copyright The Linux Foundation and each contributor to LFX.
// SPDX-License-Identifier: MIT

package main

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"log/slog"
	"os"

	"github.com/spf13/cobra"
	"gopkg.in/yaml.v3"

	"github.com/linuxfoundation/lfx-v2-distribution-list-service/cmd/distribution-list-api/service"
	"github.com/linuxfoundation/lfx-v2-distribution-list-service/internal/domain/model"
	"github.com/linuxfoundation/lfx-v2-distribution-list-service/internal/infrastructure/nats"
	internalService "github.com/linuxfoundation/lfx-v2-distribution-list-service/internal/service"
	"github.com/linuxfoundation/lfx-v2-distribution-list-service/pkg/constants"
	"github.com/linuxfoundation/lfx-v2-distribution-list-service/pkg/log"
)

type listOptions struct {
	route     string
	tab       string
	sessionID string
	remote    bool
}

// listOutput is the YAML document printed by the list command
type listOutput struct {
	SessionID string                         `yaml:"session_id,omitempty"`
	List      *internalService.ListView      `yaml:"list,omitempty"`
	Displayer *internalService.DisplayerView `yaml:"displayer,omitempty"`
}

// commandSender sends a displayer command and decodes its reply
type commandSender interface {
	Send(ctx context.Context, subject string, request, reply any) error
}

// localSender runs commands against an in-process command service
type localSender struct {
	commands *internalService.CommandService
}

func (s localSender) Send(ctx context.Context, subject string, request, reply any) error {
	req, ok := request.(internalService.CommandRequest)
	if !ok {
		return fmt.Errorf("unsupported command request %T", request)
	}
	data, err := json.Marshal(req)
	if err != nil {
		return err
	}
	out, err := s.commands.Handle(ctx, subject, data)
	if err != nil {
		return err
	}
	if r, ok := reply.(*internalService.CommandReply); ok && out != nil {
		*r = *out
	}
	return nil
}

func newListCmd() *cobra.Command {
	opts := listOptions{}
	cmd := &cobra.Command{
		Use:   "list",
		Short: "Print a distribution list view as YAML",
		Example: `  distribution-list-api list --route /distribution-lists/manager
  distribution-list-api list --route /distribution-lists/member/<id> --tab member_list
  distribution-list-api list --remote --session <uuid>`,
		RunE: func(cmd *cobra.Command, _ []string) error {
			log.InitStructureLogConfigWithWriter(os.Stderr)

			ctx := cmd.Context()
			var sender commandSender
			if opts.remote {
				sender = nats.NewCommandRequester(service.GetNATSClient(ctx, cfg))
			} else {
				sessions := internalService.NewSessionManager(
					internalService.WithSessionReader(service.DistributionListReader(ctx, cfg)),
					internalService.WithMembersPageSize(cfg.Members.PageSize),
				)
				sender = localSender{commands: internalService.NewCommandService(sessions)}
			}

			out, err := runList(ctx, sender, opts)
			if err != nil {
				return err
			}
			return writeYAML(cmd.OutOrStdout(), out)
		},
	}
	cmd.Flags().StringVar(&opts.route, "route", model.Route{Filter: model.FilterMember}.String(), "route to show")
	cmd.Flags().StringVar(&opts.tab, "tab", "", "tab of the active list: details, member_list or manager_list")
	cmd.Flags().StringVar(&opts.sessionID, "session", "", "session to navigate, a new one is used when empty")
	cmd.Flags().BoolVar(&opts.remote, "remote", false, "send the commands to a running service over NATS")
	return cmd
}

// runList navigates to the route, optionally switches the tab, and returns
// the settled view. A session created for the listing is ended afterwards.
func runList(ctx context.Context, sender commandSender, opts listOptions) (*listOutput, error) {
	var reply internalService.CommandReply
	err := sender.Send(ctx, constants.NavigateSubject, internalService.CommandRequest{
		SessionID: opts.sessionID,
		Route:     opts.route,
		Wait:      true,
	}, &reply)
	if err != nil {
		return nil, fmt.Errorf("navigate %s: %w", opts.route, err)
	}
	sessionID := reply.SessionID

	if opts.sessionID == "" && sessionID != "" {
		defer func() {
			if errEnd := sender.Send(ctx, constants.EndSessionSubject, internalService.CommandRequest{SessionID: sessionID}, nil); errEnd != nil {
				slog.WarnContext(ctx, "failed to end listing session", "error", errEnd, "session_id", sessionID)
			}
		}()
	}

	if opts.tab != "" {
		reply = internalService.CommandReply{}
		err := sender.Send(ctx, constants.SelectTabSubject, internalService.CommandRequest{
			SessionID: sessionID,
			Tab:       model.Tab(opts.tab),
			Wait:      true,
		}, &reply)
		if err != nil {
			return nil, fmt.Errorf("select tab %s: %w", opts.tab, err)
		}
	}

	out := &listOutput{List: reply.List, Displayer: reply.Displayer}
	if opts.sessionID != "" {
		out.SessionID = sessionID
	}
	if out.Displayer != nil && !out.Displayer.Open {
		out.Displayer = nil
	}
	return out, nil
}

func writeYAML(w io.Writer, out *listOutput) error {
	enc := yaml.NewEncoder(w)
	enc.SetIndent(2)
	if err := enc.Encode(out); err != nil {
		return fmt.Errorf("failed to encode list view: %w", err)
	}
	return enc.Close()
}
