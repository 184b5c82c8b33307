// Copyright The Linux Foundation and each contributor to LFX.
// SPDX-License-Identifier: MIT

package constants

// NATS subjects served by the command handler (request/reply)
const (
	NavigateSubject   = "lfx.distribution-list-api.navigate"
	SelectSubject     = "lfx.distribution-list-api.select"
	SelectTabSubject  = "lfx.distribution-list-api.select_tab"
	LoadMoreSubject   = "lfx.distribution-list-api.load_more"
	CloseSubject      = "lfx.distribution-list-api.close"
	ViewSubject       = "lfx.distribution-list-api.view"
	EndSessionSubject = "lfx.distribution-list-api.end_session"

	MoveContactsSubject     = "lfx.distribution-list-api.move_contacts"
	EmptyAddressBookSubject = "lfx.distribution-list-api.empty_address_book"
	ListSharesSubject       = "lfx.distribution-list-api.list_shares"
	AddSharesSubject        = "lfx.distribution-list-api.add_shares"
)

// NATS subjects published by the service
const (
	SelectionChangedSubject = "lfx.distribution-list-api.selection_changed"
	NotificationSubject     = "lfx.distribution-list-api.notification"
)

// CommandSubjects lists every subject the command handler subscribes to
func CommandSubjects() []string {
	return []string{
		NavigateSubject,
		SelectSubject,
		SelectTabSubject,
		LoadMoreSubject,
		CloseSubject,
		ViewSubject,
		EndSessionSubject,
		MoveContactsSubject,
		EmptyAddressBookSubject,
		ListSharesSubject,
		AddSharesSubject,
	}
}
