// Copyright The Linux Foundation and each contributor to LFX.
// SPDX-License-Identifier: MIT

package service

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"

	"github.com/nats-io/nats.go"

	"github.com/linuxfoundation/lfx-v2-distribution-list-service/internal/domain/model"
	"github.com/linuxfoundation/lfx-v2-distribution-list-service/internal/domain/port"
	"github.com/linuxfoundation/lfx-v2-distribution-list-service/pkg/constants"
	errs "github.com/linuxfoundation/lfx-v2-distribution-list-service/pkg/errors"
	"github.com/linuxfoundation/lfx-v2-distribution-list-service/pkg/log"
)

// CommandRequest is the payload of every command subject. Each subject reads
// the fields it needs.
type CommandRequest struct {
	SessionID string    `json:"session_id,omitempty"`
	Route     string    `json:"route,omitempty"`
	ID        string    `json:"id,omitempty"`
	Tab       model.Tab `json:"tab,omitempty"`
	// Wait delays the reply until the fetches started by the command resolved
	Wait bool `json:"wait,omitempty"`

	Contacts    []model.Contact    `json:"contacts,omitempty"`
	Destination *model.AddressBook `json:"destination,omitempty"`
	AddressBook *model.AddressBook `json:"address_book,omitempty"`
	OwnerFilter string             `json:"owner_filter,omitempty"`
	Shares      []*model.ShareInfo `json:"shares,omitempty"`
}

// CommandReply is the reply to a command.
type CommandReply struct {
	SessionID string         `json:"session_id,omitempty"`
	List      *ListView      `json:"list,omitempty"`
	Displayer *DisplayerView `json:"displayer,omitempty"`
	Shares    []OwnerShares  `json:"shares,omitempty"`
	Error     string         `json:"error,omitempty"`
}

// commandServiceOption defines a function type for setting options on the command service
type commandServiceOption func(*CommandService)

// WithAddressBookWriter enables the address book action subjects
func WithAddressBookWriter(writer port.AddressBookWriter) commandServiceOption {
	return func(s *CommandService) {
		s.writer = writer
	}
}

// WithActionNotifier sets where address book actions report their outcome
func WithActionNotifier(notifier port.Notifier) commandServiceOption {
	return func(s *CommandService) {
		s.notifier = notifier
	}
}

// CommandService serves the displayer commands received over NATS.
type CommandService struct {
	sessions *SessionManager
	writer   port.AddressBookWriter
	notifier port.Notifier
}

// NewCommandService creates a command service on top of the session manager
func NewCommandService(sessions *SessionManager, opts ...commandServiceOption) *CommandService {
	s := &CommandService{sessions: sessions}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// HandleMessage runs the command and responds when the message expects a reply.
func (s *CommandService) HandleMessage(ctx context.Context, msg *nats.Msg) error {
	reply, err := s.Handle(ctx, msg.Subject, msg.Data)
	if err != nil {
		reply = &CommandReply{Error: err.Error()}
	}

	if msg.Reply != "" {
		data, errMarshal := json.Marshal(reply)
		if errMarshal != nil {
			slog.ErrorContext(ctx, "failed to marshal command reply", "error", errMarshal, "subject", msg.Subject)
			return errs.NewUnexpected("failed to marshal command reply", errMarshal)
		}
		if errRespond := msg.Respond(data); errRespond != nil {
			slog.ErrorContext(ctx, "failed to respond to command", "error", errRespond, "subject", msg.Subject)
			return errs.NewServiceUnavailable("failed to respond to command", errRespond)
		}
	}

	return err
}

// Handle routes a command by subject and returns its reply.
func (s *CommandService) Handle(ctx context.Context, subject string, data []byte) (*CommandReply, error) {
	slog.DebugContext(ctx, "received distribution list command", "subject", subject)

	var req CommandRequest
	if len(data) > 0 {
		if err := json.Unmarshal(data, &req); err != nil {
			slog.WarnContext(ctx, "failed to unmarshal command", "error", err, "subject", subject)
			return nil, errs.NewValidation("invalid command payload", err)
		}
	}
	if req.SessionID != "" {
		ctx = log.AppendCtx(ctx, slog.String("session_id", req.SessionID))
	}

	var (
		reply *CommandReply
		err   error
	)
	switch subject {
	case constants.NavigateSubject:
		reply, err = s.handleNavigate(ctx, req)
	case constants.SelectSubject:
		reply, err = s.withSession(ctx, req, func(session *Session) error {
			if req.ID == "" {
				return errs.NewValidation("id is required, use close to clear the selection")
			}
			session.Displayer.Select(ctx, req.ID)
			return nil
		})
	case constants.SelectTabSubject:
		reply, err = s.withSession(ctx, req, func(session *Session) error {
			return session.Displayer.SelectTab(ctx, req.Tab)
		})
	case constants.LoadMoreSubject:
		reply, err = s.withSession(ctx, req, func(session *Session) error {
			return session.Displayer.LoadMore(ctx)
		})
	case constants.CloseSubject:
		reply, err = s.withSession(ctx, req, func(session *Session) error {
			session.Displayer.Close(ctx)
			return nil
		})
	case constants.ViewSubject:
		reply, err = s.withSession(ctx, req, func(*Session) error { return nil })
	case constants.EndSessionSubject:
		reply, err = s.handleEndSession(ctx, req)
	case constants.MoveContactsSubject:
		reply, err = s.handleMoveContacts(ctx, req)
	case constants.EmptyAddressBookSubject:
		reply, err = s.handleEmptyAddressBook(ctx, req)
	case constants.ListSharesSubject:
		reply, err = s.handleListShares(ctx, req)
	case constants.AddSharesSubject:
		reply, err = s.handleAddShares(ctx, req)
	default:
		slog.WarnContext(ctx, "unknown distribution list command subject", "subject", subject)
		return nil, errs.NewValidation(fmt.Sprintf("unknown command subject: %s", subject))
	}

	if err != nil {
		slog.ErrorContext(ctx, "error processing distribution list command",
			"error", err,
			"subject", subject,
		)
		return nil, err
	}
	return reply, nil
}

func (s *CommandService) handleNavigate(ctx context.Context, req CommandRequest) (*CommandReply, error) {
	route, err := model.ParseRoute(req.Route)
	if err != nil {
		return nil, errs.NewValidation(err.Error())
	}

	session, err := s.sessions.Open(ctx, req.SessionID)
	if err != nil {
		return nil, err
	}

	// a failed list load has been notified and still yields a view
	if _, errNav := session.View.Navigate(ctx, route); errNav != nil {
		slog.WarnContext(ctx, "navigation completed without lists", "error", errNav, "route", route.String())
	}
	return s.reply(ctx, session, req.Wait), nil
}

func (s *CommandService) withSession(ctx context.Context, req CommandRequest, fn func(*Session) error) (*CommandReply, error) {
	if req.SessionID == "" {
		return nil, errs.NewValidation("session_id is required")
	}
	session, err := s.sessions.Open(ctx, req.SessionID)
	if err != nil {
		return nil, err
	}
	if err := fn(session); err != nil {
		return nil, err
	}
	return s.reply(ctx, session, req.Wait), nil
}

func (s *CommandService) reply(ctx context.Context, session *Session, wait bool) *CommandReply {
	if wait {
		session.Displayer.Wait()
	}
	if err := s.sessions.Save(ctx, session); err != nil {
		slog.WarnContext(ctx, "session snapshot not saved", "error", err)
	}

	list := session.View.View()
	displayer := session.Displayer.View()
	return &CommandReply{
		SessionID: session.ID,
		List:      &list,
		Displayer: &displayer,
	}
}

func (s *CommandService) handleEndSession(ctx context.Context, req CommandRequest) (*CommandReply, error) {
	if req.SessionID == "" {
		return nil, errs.NewValidation("session_id is required")
	}
	if err := s.sessions.End(ctx, req.SessionID); err != nil {
		return nil, err
	}
	return &CommandReply{SessionID: req.SessionID}, nil
}

func (s *CommandService) actionNotifier(req CommandRequest) port.Notifier {
	if s.notifier == nil || req.SessionID == "" {
		return s.notifier
	}
	return &sessionNotifier{sessionID: req.SessionID, next: s.notifier}
}

func (s *CommandService) requireWriter() error {
	if s.writer == nil {
		return errs.NewServiceUnavailable("address book actions are not enabled")
	}
	return nil
}

func (s *CommandService) handleMoveContacts(ctx context.Context, req CommandRequest) (*CommandReply, error) {
	if err := s.requireWriter(); err != nil {
		return nil, err
	}
	action := NewMoveContactsAction(s.writer, s.actionNotifier(req))
	err := action.Execute(ctx, MoveContactsInput{Contacts: req.Contacts, Destination: req.Destination})
	if err != nil {
		return nil, err
	}
	return &CommandReply{SessionID: req.SessionID}, nil
}

func (s *CommandService) handleEmptyAddressBook(ctx context.Context, req CommandRequest) (*CommandReply, error) {
	if err := s.requireWriter(); err != nil {
		return nil, err
	}
	action := NewEmptyAddressBookAction(s.writer, s.actionNotifier(req))
	if err := action.Execute(ctx, req.AddressBook); err != nil {
		return nil, err
	}
	return &CommandReply{SessionID: req.SessionID}, nil
}

func (s *CommandService) handleListShares(ctx context.Context, req CommandRequest) (*CommandReply, error) {
	if err := s.requireWriter(); err != nil {
		return nil, err
	}
	action := NewAddSharedAddressBooksAction(s.writer, s.actionNotifier(req))
	groups, err := action.ListShares(ctx, req.OwnerFilter)
	if err != nil {
		return nil, err
	}
	return &CommandReply{SessionID: req.SessionID, Shares: groups}, nil
}

func (s *CommandService) handleAddShares(ctx context.Context, req CommandRequest) (*CommandReply, error) {
	if err := s.requireWriter(); err != nil {
		return nil, err
	}
	action := NewAddSharedAddressBooksAction(s.writer, s.actionNotifier(req))
	if err := action.Execute(ctx, req.Shares); err != nil {
		return nil, err
	}
	return &CommandReply{SessionID: req.SessionID}, nil
}

// IsClientError reports whether err was caused by the request rather than
// by the service or the groupware; such messages are acknowledged, not retried.
func IsClientError(err error) bool {
	var (
		validation errs.Validation
		notFound   errs.NotFound
	)
	return errors.As(err, &validation) || errors.As(err, &notFound)
}
