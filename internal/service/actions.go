// Copyright The Linux Foundation and each contributor to LFX.
// SPDX-License-Identifier: MIT

package service

import (
	"context"
	"errors"
	"log/slog"
	"strings"
	"time"

	"github.com/linuxfoundation/lfx-v2-distribution-list-service/internal/domain/model"
	"github.com/linuxfoundation/lfx-v2-distribution-list-service/internal/domain/port"
	"github.com/linuxfoundation/lfx-v2-distribution-list-service/pkg/constants"
	errs "github.com/linuxfoundation/lfx-v2-distribution-list-service/pkg/errors"
)

// Action ids
const (
	ActionEditDistributionList  = "edit-distribution-list-action"
	ActionMoveContacts          = "move-contacts-action"
	ActionEmptyAddressBook      = "empty-address-book-action"
	ActionAddSharedAddressBooks = "shares-add-action"
)

const (
	mountpointView = "contact"

	notificationKeyMoveContacts = "move-contacts"
	notificationKeyEmptyFolder  = "empty-address-book"
	notificationKeyShares       = "share"
	notificationKeyGetShareInfo = "get-share-info"
)

// ActionDescriptor is what a menu needs to render an action.
type ActionDescriptor struct {
	ID    string `json:"id" yaml:"id"`
	Label string `json:"label" yaml:"label"`
	Icon  string `json:"icon" yaml:"icon"`
}

// EditDistributionListAction opens the edit form of a list the user owns.
type EditDistributionListAction struct{}

// Descriptor describes the action
func (EditDistributionListAction) Descriptor() ActionDescriptor {
	return ActionDescriptor{ID: ActionEditDistributionList, Label: "Edit", Icon: "Edit2Outline"}
}

// CanExecute reports whether the user owns dl
func (EditDistributionListAction) CanExecute(dl *model.DistributionList) bool {
	return dl != nil && dl.IsOwner
}

// actionNotifier is shared by the actions that report their outcome.
type actionNotifier struct {
	notifier port.Notifier
}

func (a actionNotifier) info(ctx context.Context, key, message string) {
	a.send(ctx, model.Notification{Key: key, Kind: model.NotificationInfo, Message: message})
}

func (a actionNotifier) failure(ctx context.Context, key string, err error) {
	a.send(ctx, notificationFor(key, err))
}

func (a actionNotifier) send(ctx context.Context, notification model.Notification) {
	if a.notifier == nil {
		return
	}
	notification.CreatedAt = time.Now().UTC()
	if err := a.notifier.Notify(ctx, notification); err != nil {
		slog.WarnContext(ctx, "failed to deliver notification", "error", err, "key", notification.Key)
	}
}

// MoveContactsInput are the arguments of the move action. A nil destination
// means the user still has to pick one.
type MoveContactsInput struct {
	Contacts    []model.Contact
	Destination *model.AddressBook
}

// MoveContactsAction moves contacts to another address book.
type MoveContactsAction struct {
	writer port.AddressBookWriter
	actionNotifier
}

// NewMoveContactsAction creates the move action
func NewMoveContactsAction(writer port.AddressBookWriter, notifier port.Notifier) *MoveContactsAction {
	return &MoveContactsAction{writer: writer, actionNotifier: actionNotifier{notifier: notifier}}
}

// Descriptor describes the action
func (a *MoveContactsAction) Descriptor() ActionDescriptor {
	return ActionDescriptor{ID: ActionMoveContacts, Label: "Move", Icon: "MoveOutline"}
}

// CanExecute requires at least one contact outside the destination. Links
// and the trash are valid destinations.
func (a *MoveContactsAction) CanExecute(input MoveContactsInput) bool {
	if len(input.Contacts) == 0 {
		return false
	}
	if input.Destination == nil {
		return true
	}
	for _, contact := range input.Contacts {
		if contact.FolderID != input.Destination.ID {
			return true
		}
	}
	return false
}

// Execute moves the contacts and notifies the outcome.
func (a *MoveContactsAction) Execute(ctx context.Context, input MoveContactsInput) error {
	if !a.CanExecute(input) {
		return errs.NewValidation("contacts cannot be moved to the destination address book")
	}
	if input.Destination == nil {
		return errs.NewValidation("destination address book is required")
	}

	ids := make([]string, 0, len(input.Contacts))
	for _, contact := range input.Contacts {
		ids = append(ids, contact.ID)
	}

	slog.DebugContext(ctx, "executing move contacts use case",
		"contacts", len(ids),
		"destination_id", input.Destination.ID,
	)

	if err := a.writer.MoveContacts(ctx, ids, input.Destination.ID); err != nil {
		err = asRemoteError("failed to move contacts", err)
		slog.ErrorContext(ctx, "failed to move contacts",
			"error", err,
			"destination_id", input.Destination.ID,
		)
		a.failure(ctx, notificationKeyMoveContacts, err)
		return err
	}

	message := model.MessageContactsMoved
	if len(ids) == 1 {
		message = model.MessageContactMoved
	}
	a.info(ctx, notificationKeyMoveContacts, message)
	return nil
}

// EmptyAddressBookAction deletes every contact of an address book.
type EmptyAddressBookAction struct {
	writer port.AddressBookWriter
	actionNotifier
}

// NewEmptyAddressBookAction creates the empty action
func NewEmptyAddressBookAction(writer port.AddressBookWriter, notifier port.Notifier) *EmptyAddressBookAction {
	return &EmptyAddressBookAction{writer: writer, actionNotifier: actionNotifier{notifier: notifier}}
}

// Descriptor describes the action
func (a *EmptyAddressBookAction) Descriptor() ActionDescriptor {
	return ActionDescriptor{ID: ActionEmptyAddressBook, Label: "Empty address book", Icon: "EmptyFolderOutline"}
}

// CanExecute rejects the trash, anything below it, links and empty books.
func (a *EmptyAddressBookAction) CanExecute(book *model.AddressBook) bool {
	switch {
	case book == nil:
		return false
	case book.IsNestedInTrash():
		return false
	case book.IsTrash():
		return false
	case book.IsLink():
		return false
	case book.Count == 0:
		return false
	}
	return true
}

// Execute empties the book and its subfolders.
func (a *EmptyAddressBookAction) Execute(ctx context.Context, book *model.AddressBook) error {
	if !a.CanExecute(book) {
		return errs.NewValidation("address book cannot be emptied")
	}

	slog.DebugContext(ctx, "executing empty address book use case",
		"folder_id", book.ID,
		"count", book.Count,
	)

	if err := a.writer.EmptyAddressBook(ctx, book.ID, true); err != nil {
		err = asRemoteError("failed to empty address book", err)
		slog.ErrorContext(ctx, "failed to empty address book", "error", err, "folder_id", book.ID)
		a.failure(ctx, notificationKeyEmptyFolder, err)
		return err
	}

	a.info(ctx, notificationKeyEmptyFolder, model.MessageAddressBookEmptied)
	return nil
}

// OwnerShares groups the shares of one owner.
type OwnerShares struct {
	OwnerName string             `json:"owner_name" yaml:"owner_name"`
	Shares    []*model.ShareInfo `json:"shares" yaml:"shares"`
}

// AddSharedAddressBooksAction links address books shared by other users.
type AddSharedAddressBooksAction struct {
	writer port.AddressBookWriter
	actionNotifier
}

// NewAddSharedAddressBooksAction creates the add shares action
func NewAddSharedAddressBooksAction(writer port.AddressBookWriter, notifier port.Notifier) *AddSharedAddressBooksAction {
	return &AddSharedAddressBooksAction{writer: writer, actionNotifier: actionNotifier{notifier: notifier}}
}

// Descriptor describes the action
func (a *AddSharedAddressBooksAction) Descriptor() ActionDescriptor {
	return ActionDescriptor{ID: ActionAddSharedAddressBooks, Label: "Add shares", Icon: "SharedAddressBookOutline"}
}

// CanExecute is always true
func (a *AddSharedAddressBooksAction) CanExecute() bool {
	return true
}

// ListShares returns the shares whose owner name starts with ownerFilter,
// ignoring case and surrounding spaces, grouped by owner in first-seen order.
func (a *AddSharedAddressBooksAction) ListShares(ctx context.Context, ownerFilter string) ([]OwnerShares, error) {
	shares, err := a.writer.GetShareInfo(ctx)
	if err != nil {
		err = asRemoteError("failed to get share info", err)
		slog.ErrorContext(ctx, "failed to get share info", "error", err)
		a.failure(ctx, notificationKeyGetShareInfo, err)
		return nil, err
	}

	prefix := strings.ToLower(strings.TrimSpace(ownerFilter))

	var groups []OwnerShares
	index := make(map[string]int)
	for _, share := range shares {
		if share == nil {
			continue
		}
		if prefix != "" && !strings.HasPrefix(strings.ToLower(share.OwnerName), prefix) {
			continue
		}
		i, ok := index[share.OwnerName]
		if !ok {
			i = len(groups)
			index[share.OwnerName] = i
			groups = append(groups, OwnerShares{OwnerName: share.OwnerName})
		}
		groups[i].Shares = append(groups[i].Shares, share)
	}

	slog.DebugContext(ctx, "shares listed",
		"total", len(shares),
		"owners", len(groups),
	)
	return groups, nil
}

// Execute creates one mountpoint in the root folder per selected share.
func (a *AddSharedAddressBooksAction) Execute(ctx context.Context, shares []*model.ShareInfo) error {
	if len(shares) == 0 {
		return errs.NewValidation("no shares selected")
	}

	mountpoints := make([]model.Mountpoint, 0, len(shares))
	for _, share := range shares {
		_, remoteID := model.FolderIDParts(share.FolderID)
		mountpoints = append(mountpoints, model.Mountpoint{
			ParentID: constants.FolderUserRoot,
			Name:     share.MountpointName(),
			OwnerZID: share.OwnerID,
			RemoteID: remoteID,
			View:     mountpointView,
		})
	}

	if err := a.writer.CreateMountpoints(ctx, mountpoints); err != nil {
		err = asRemoteError("failed to create mountpoints", err)
		var partial *model.MountpointsError
		if errors.As(err, &partial) && len(partial.Created) > 0 {
			slog.WarnContext(ctx, "mountpoints partly created",
				"created", partial.Created,
				"failed", len(partial.Failed),
			)
			a.send(ctx, model.Notification{
				Key:     notificationKeyShares,
				Kind:    model.NotificationError,
				Message: model.MessageSharesPartlyAdded,
			})
			return err
		}
		slog.ErrorContext(ctx, "failed to create mountpoints", "error", err, "count", len(mountpoints))
		a.failure(ctx, notificationKeyShares, err)
		return err
	}

	a.info(ctx, notificationKeyShares, model.MessageSharesAdded)
	return nil
}
