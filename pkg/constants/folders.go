// Copyright The Linux Foundation and each contributor to LFX.
// SPDX-License-Identifier: MIT

package constants

// Well-known groupware folder ids
const (
	FolderUserRoot        = "1"
	FolderTrash           = "3"
	FolderContacts        = "7"
	FolderEmailedContacts = "13"
)
