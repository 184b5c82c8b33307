// Copyright The Linux Foundation and each contributor to LFX.
// SPDX-License-Identifier: MIT

package model

// MemberPage is one fetched batch of member addresses starting at Offset.
type MemberPage struct {
	Members []string `json:"members"`
	Offset  int      `json:"offset"`
	Total   int      `json:"total"`
	More    bool     `json:"more"`
}

// MemberSet is the concatenation of the pages loaded so far for one list.
type MemberSet struct {
	Members []string `json:"members"`
	Total   int      `json:"total"`
	More    bool     `json:"more"`
	Loaded  bool     `json:"loaded"`
}

// Append adds page to the set. Total and More always take the page's values.
func (s *MemberSet) Append(page MemberPage) {
	s.Members = append(s.Members, page.Members...)
	s.Total = page.Total
	s.More = page.More
	s.Loaded = true
}

// Len returns the number of members accumulated so far.
func (s *MemberSet) Len() int {
	return len(s.Members)
}

// Clone returns a deep copy of the set.
func (s MemberSet) Clone() MemberSet {
	if s.Members != nil {
		s.Members = append([]string(nil), s.Members...)
	}
	return s
}
