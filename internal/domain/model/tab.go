// Copyright The Linux Foundation and each contributor to LFX.
// SPDX-License-Identifier: MIT

package model

import "fmt"

// Tab is the section of the displayer currently shown.
type Tab string

// Tab values
const (
	TabDetails     Tab = "details"
	TabMemberList  Tab = "member_list"
	TabManagerList Tab = "manager_list"
)

// Tabs lists the tabs in display order.
func Tabs() []Tab {
	return []Tab{TabDetails, TabMemberList, TabManagerList}
}

// ParseTab validates a tab name.
func ParseTab(raw string) (Tab, error) {
	switch t := Tab(raw); t {
	case TabDetails, TabMemberList, TabManagerList:
		return t, nil
	default:
		return "", fmt.Errorf("unknown tab %q", raw)
	}
}

// Title is the caption without counters.
func (t Tab) Title() string {
	switch t {
	case TabMemberList:
		return "Member List"
	case TabManagerList:
		return "Manager List"
	default:
		return "Details"
	}
}
