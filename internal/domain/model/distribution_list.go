// Copyright The Linux Foundation and each contributor to LFX.
// SPDX-License-Identifier: MIT

// Package model holds the domain types of the distribution list service.
package model

import (
	"fmt"
)

// DistributionList is a list as returned by the account listing call.
// Values are immutable once fetched and replaced wholesale on refetch.
type DistributionList struct {
	ID          string `json:"id" yaml:"id" msgpack:"id"`
	Email       string `json:"email" yaml:"email" msgpack:"email"`
	DisplayName string `json:"display_name" yaml:"display_name" msgpack:"display_name"`
	Description string `json:"description,omitempty" yaml:"description,omitempty" msgpack:"description,omitempty"`
	IsOwner     bool   `json:"is_owner" yaml:"is_owner" msgpack:"is_owner"`
	IsMember    bool   `json:"is_member" yaml:"is_member" msgpack:"is_member"`
}

// Label returns the display name, or the email when the list has none.
func (d *DistributionList) Label() string {
	if d.DisplayName != "" {
		return d.DisplayName
	}
	return d.Email
}

// DistributionListDetails is the single-list view fetched when a list becomes active.
type DistributionListDetails struct {
	DistributionList `yaml:",inline"`

	// Owners is only populated when requested
	Owners []string `json:"owners,omitempty" yaml:"owners,omitempty"`
}

// MemberOf is the memberOf argument of the account listing call.
type MemberOf string

// MemberOf values understood by the groupware server
const (
	MemberOfAll      MemberOf = "all"
	MemberOfDirectly MemberOf = "directOnly"
	MemberOfNone     MemberOf = "none"
)

// ListQuery are the arguments of the account listing call.
type ListQuery struct {
	OwnerOf  bool
	MemberOf MemberOf
}

// Filter selects which lists of the account are shown.
type Filter string

// Filter values
const (
	FilterMember  Filter = "member"
	FilterManager Filter = "manager"
)

// ParseFilter validates a filter route segment.
func ParseFilter(raw string) (Filter, error) {
	switch f := Filter(raw); f {
	case FilterMember, FilterManager:
		return f, nil
	default:
		return "", fmt.Errorf("unknown distribution list filter %q", raw)
	}
}

// Query returns the listing arguments for the filter.
func (f Filter) Query() ListQuery {
	if f == FilterManager {
		return ListQuery{OwnerOf: true, MemberOf: MemberOfNone}
	}
	return ListQuery{OwnerOf: false, MemberOf: MemberOfAll}
}

// Matches reports whether a fetched list belongs to the filter.
func (f Filter) Matches(dl *DistributionList) bool {
	if dl == nil {
		return false
	}
	if f == FilterManager {
		return dl.IsOwner
	}
	return dl.IsMember
}

// Apply keeps the lists that match the filter, preserving order.
func (f Filter) Apply(lists []*DistributionList) []*DistributionList {
	out := make([]*DistributionList, 0, len(lists))
	for _, dl := range lists {
		if f.Matches(dl) {
			out = append(out, dl)
		}
	}
	return out
}
