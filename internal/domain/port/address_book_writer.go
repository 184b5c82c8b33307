// Copyright The Linux Foundation and each contributor to LFX.
// SPDX-License-Identifier: MIT

package port

import (
	"context"

	"github.com/linuxfoundation/lfx-v2-distribution-list-service/internal/domain/model"
)

// AddressBookWriter performs the address book actions on the groupware server.
type AddressBookWriter interface {
	// MoveContacts moves the contacts into the destination folder
	MoveContacts(ctx context.Context, contactIDs []string, destinationID string) error

	// EmptyAddressBook removes every contact of the folder, and of its subfolders when recursive
	EmptyAddressBook(ctx context.Context, folderID string, recursive bool) error

	// GetShareInfo lists the folders other accounts shared with the user
	GetShareInfo(ctx context.Context) ([]*model.ShareInfo, error)

	// CreateMountpoints links the given shares into the user's folder tree
	CreateMountpoints(ctx context.Context, mountpoints []model.Mountpoint) error
}
