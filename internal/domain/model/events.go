// Copyright The Linux Foundation and each contributor to LFX.
// SPDX-License-Identifier: MIT

package model

import "time"

// SelectionChange is delivered to selection subscribers. Previous and Current
// are empty when nothing was or is selected.
type SelectionChange struct {
	Previous   string
	Current    string
	Generation uint64
}

// SelectionChangedEvent is published when a session's active list changes.
type SelectionChangedEvent struct {
	SessionID  string    `json:"session_id"`
	Previous   string    `json:"previous,omitempty"`
	Current    string    `json:"current,omitempty"`
	Generation uint64    `json:"generation"`
	OccurredAt time.Time `json:"occurred_at"`
}

// NotificationKind is the severity of a transient notification.
type NotificationKind string

// NotificationKind values
const (
	NotificationInfo  NotificationKind = "info"
	NotificationError NotificationKind = "error"
)

// Notification is a transient, dismissible message for the user. Key groups
// notifications that replace each other.
type Notification struct {
	SessionID string           `json:"session_id,omitempty"`
	Key       string           `json:"key"`
	Kind      NotificationKind `json:"kind"`
	Message   string           `json:"message"`
	CreatedAt time.Time        `json:"created_at"`
}

// Messages shown to the user
const (
	MessageSomethingWentWrong = "Something went wrong, please try again"
	MessageNotFound           = "The distribution list is no longer available"
	MessageContactMoved       = "Contact moved"
	MessageContactsMoved      = "Contacts moved"
	MessageAddressBookEmptied = "Address book emptied"
	MessageSharesAdded        = "Shared added successfully"
	MessageSharesPartlyAdded  = "Some shared address books could not be added"
	MessageEmptyListHint      = "There are no distribution lists yet"
)
