// Copyright The Linux Foundation and each contributor to LFX.
// SPDX-License-Identifier: MIT

package model

import (
	"fmt"
	"strings"

	"github.com/linuxfoundation/lfx-v2-distribution-list-service/pkg/constants"
)

// AddressBook is a contacts folder. Shared folders mounted from another
// account are links and carry the owner's zid and remote id.
type AddressBook struct {
	ID           string `json:"id"`
	Name         string `json:"name"`
	ParentID     string `json:"parent_id"`
	AbsolutePath string `json:"absolute_path"`
	// Count is the number of contacts stored in the folder
	Count    int    `json:"count"`
	OwnerZID string `json:"owner_zid,omitempty"`
	RemoteID string `json:"remote_id,omitempty"`
}

// FolderIDParts splits a possibly qualified folder id ("zid:id") into the
// owner zid and the local id.
func FolderIDParts(id string) (zid, local string) {
	if i := strings.LastIndex(id, ":"); i >= 0 {
		return id[:i], id[i+1:]
	}
	return "", id
}

// IsTrash reports whether the folder is the trash itself.
func (a *AddressBook) IsTrash() bool {
	_, local := FolderIDParts(a.ID)
	return local == constants.FolderTrash
}

// IsNestedInTrash reports whether the folder lives somewhere below the trash.
func (a *AddressBook) IsNestedInTrash() bool {
	if a.IsTrash() {
		return false
	}
	_, parent := FolderIDParts(a.ParentID)
	return parent == constants.FolderTrash || strings.HasPrefix(a.AbsolutePath, "/Trash/")
}

// IsLink reports whether the folder is a mountpoint of a share.
func (a *AddressBook) IsLink() bool {
	return a.OwnerZID != "" && a.RemoteID != ""
}

// Contact is the part of a contact the address book actions need.
type Contact struct {
	ID       string `json:"id"`
	FolderID string `json:"folder_id"`
}

// ShareInfo describes a folder another account shared with the user.
type ShareInfo struct {
	OwnerID     string `json:"owner_id"`
	OwnerEmail  string `json:"owner_email"`
	OwnerName   string `json:"owner_name"`
	FolderID    string `json:"folder_id"`
	FolderPath  string `json:"folder_path"`
	FolderUUID  string `json:"folder_uuid,omitempty"`
	GranteeType string `json:"grantee_type,omitempty"`
	Rights      string `json:"rights,omitempty"`
	View        string `json:"view,omitempty"`
}

var systemFolderNames = map[string]string{
	constants.FolderUserRoot:        "Root",
	constants.FolderTrash:           "Trash",
	constants.FolderContacts:        "Contacts",
	constants.FolderEmailedContacts: "Emailed Contacts",
}

// MountpointName is the name given to the link created for the share,
// "<share name> of <owner name>". System folders use their canonical name.
func (s *ShareInfo) MountpointName() string {
	path := strings.Split(s.FolderPath, "/")
	name := path[len(path)-1]

	_, local := FolderIDParts(s.FolderID)
	if canonical, ok := systemFolderNames[local]; ok {
		name = canonical
	}

	owner := s.OwnerName
	if owner == "" {
		owner = s.OwnerEmail
	}
	return fmt.Sprintf("%s of %s", name, owner)
}

// Mountpoint is a link to be created in the user's mailbox for a share.
type Mountpoint struct {
	ParentID string `json:"parent_id"`
	Name     string `json:"name"`
	OwnerZID string `json:"owner_zid"`
	RemoteID string `json:"remote_id"`
	View     string `json:"view"`
}

// MountpointFailure is a mountpoint the groupware refused to create.
type MountpointFailure struct {
	Name   string `json:"name"`
	Reason string `json:"reason"`
}

// MountpointsError reports a batch of mountpoints that was not fully created.
// Created lists the names that were linked anyway.
type MountpointsError struct {
	Created []string
	Failed  []MountpointFailure
}

func (e *MountpointsError) Error() string {
	names := make([]string, 0, len(e.Failed))
	for _, f := range e.Failed {
		names = append(names, fmt.Sprintf("%s (%s)", f.Name, f.Reason))
	}
	return fmt.Sprintf("%d of %d mountpoints not created: %s",
		len(e.Failed), len(e.Failed)+len(e.Created), strings.Join(names, ", "))
}
