// Copyright The Linux Foundation and each contributor to LFX.
// SPDX-License-Identifier: MIT

package service

import (
	"context"
	"fmt"
	"sync"

	"github.com/linuxfoundation/lfx-v2-distribution-list-service/internal/domain/model"
	"github.com/linuxfoundation/lfx-v2-distribution-list-service/internal/infrastructure/mock"
)

// testList builds a list whose email is derived from its id
func testList(id string, owner, member bool) model.DistributionList {
	return model.DistributionList{
		ID:          id,
		Email:       id + "@example.org",
		DisplayName: "List " + id,
		Description: "Description of " + id,
		IsOwner:     owner,
		IsMember:    member,
	}
}

func testMembers(id string, n int) []string {
	members := make([]string, 0, n)
	for i := 1; i <= n; i++ {
		members = append(members, fmt.Sprintf("%s-member%02d@example.org", id, i))
	}
	return members
}

// newTestGroupware serves dl1 (7 members, owned) and dl2 (10 members, member only)
func newTestGroupware() *mock.MockGroupware {
	g := mock.NewMockGroupware()
	g.AddDistributionList(testList("dl1", true, true), []string{"owner1@example.org"}, testMembers("dl1", 7))
	g.AddDistributionList(testList("dl2", false, true), []string{"owner2@example.org", "owner3@example.org"}, testMembers("dl2", 10))
	return g
}

// newTestSession wires a session on top of the fake groupware
func newTestSession(g *mock.MockGroupware, opts ...sessionManagerOption) *Session {
	opts = append([]sessionManagerOption{WithSessionReader(g)}, opts...)
	return NewSessionManager(opts...).NewSession("8f14e45f-ceea-467f-a0e6-9d1b5c2a7e3d")
}

// stubReader serves fixed lists and scripted member pages, counting calls
type stubReader struct {
	mu          sync.Mutex
	lists       []*model.DistributionList
	pages       []*model.MemberPage
	listCalls   int
	memberCalls int
}

func (s *stubReader) GetAccountDistributionLists(ctx context.Context, query model.ListQuery) ([]*model.DistributionList, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.listCalls++
	return s.lists, nil
}

func (s *stubReader) GetDistributionList(ctx context.Context, id string, needOwners bool) (*model.DistributionListDetails, error) {
	for _, dl := range s.lists {
		if dl.ID == id {
			return &model.DistributionListDetails{DistributionList: *dl}, nil
		}
	}
	return nil, fmt.Errorf("unknown list %s", id)
}

func (s *stubReader) GetDistributionListMembers(ctx context.Context, address string, offset, limit int) (*model.MemberPage, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.memberCalls >= len(s.pages) {
		return nil, fmt.Errorf("no page scripted for offset %d", offset)
	}
	page := *s.pages[s.memberCalls]
	s.memberCalls++
	return &page, nil
}
