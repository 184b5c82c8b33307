// Copyright The Linux Foundation and each contributor to LFX.
// SPDX-License-Identifier: MIT

// Package mock provides in-memory implementations of the service ports for
// local runs and tests.
package mock

import (
	"context"
	"fmt"
	"log/slog"
	"sync"

	"github.com/linuxfoundation/lfx-v2-distribution-list-service/internal/domain/model"
	"github.com/linuxfoundation/lfx-v2-distribution-list-service/internal/domain/port"
	"github.com/linuxfoundation/lfx-v2-distribution-list-service/pkg/constants"
	"github.com/linuxfoundation/lfx-v2-distribution-list-service/pkg/errors"
)

// Ensure MockGroupware implements the groupware ports
var (
	_ port.DistributionListReader = (*MockGroupware)(nil)
	_ port.AddressBookWriter      = (*MockGroupware)(nil)
)

// MemberRequest records one GetDistributionListMembers call
type MemberRequest struct {
	Address string
	Offset  int
	Limit   int
}

// MoveRequest records one MoveContacts call
type MoveRequest struct {
	ContactIDs    []string
	DestinationID string
}

// EmptyRequest records one EmptyAddressBook call
type EmptyRequest struct {
	FolderID  string
	Recursive bool
}

// MockGroupware is a fake groupware server. It serves distribution lists and
// their members from memory, and like the real server it refuses a members
// request with a non-zero offset until the first page of that list was served.
type MockGroupware struct {
	mu              sync.RWMutex
	lists           []*model.DistributionList
	owners          map[string][]string // list id -> owners
	members         map[string][]string // list email -> members
	firstPageServed map[string]bool     // list email -> first page served
	shares          []*model.ShareInfo

	calls          map[string]int
	memberRequests []MemberRequest
	moves          []MoveRequest
	empties        []EmptyRequest
	mountpoints    []model.Mountpoint
	rejected       map[string]string // mountpoint name -> reason

	errorsByOperation map[string]error
	detailGates       map[string]*gate
	memberGates       map[string]*gate
}

// gate holds calls until released
type gate struct {
	ch   chan struct{}
	once sync.Once
}

func (g *gate) release() {
	g.once.Do(func() { close(g.ch) })
}

func (g *gate) wait(ctx context.Context) error {
	select {
	case <-g.ch:
		return nil
	case <-ctx.Done():
		return ctx.Err()
	}
}

// NewMockGroupware creates an empty fake groupware server
func NewMockGroupware() *MockGroupware {
	return &MockGroupware{
		owners:            make(map[string][]string),
		members:           make(map[string][]string),
		firstPageServed:   make(map[string]bool),
		calls:             make(map[string]int),
		errorsByOperation: make(map[string]error),
		detailGates:       make(map[string]*gate),
		memberGates:       make(map[string]*gate),
		rejected:          make(map[string]string),
	}
}

// NewSampleGroupware creates a fake groupware server seeded with demo data
func NewSampleGroupware() *MockGroupware {
	g := NewMockGroupware()

	g.AddDistributionList(model.DistributionList{
		ID:          "a1d4e2c3-5b6f-4a70-9c8d-1e2f3a4b5c6d",
		Email:       "engineering@example.org",
		DisplayName: "Engineering",
		Description: "Everyone working on the product",
		IsOwner:     true,
		IsMember:    true,
	}, []string{"cto@example.org", "lead@example.org"}, sampleMembers("engineer", 240))

	g.AddDistributionList(model.DistributionList{
		ID:          "b2e5f3d4-6c7a-4b81-8d9e-2f3a4b5c6d7e",
		Email:       "announcements@example.org",
		DisplayName: "Announcements",
		Description: "Company wide announcements",
		IsMember:    true,
	}, []string{"comms@example.org"}, sampleMembers("staff", 35))

	g.AddDistributionList(model.DistributionList{
		ID:          "c3f6a4e5-7d8b-4c92-9e0f-3a4b5c6d7e8f",
		Email:       "board@example.org",
		DisplayName: "Board",
		IsOwner:     true,
	}, []string{"chair@example.org"}, sampleMembers("director", 7))

	g.AddShare(&model.ShareInfo{
		OwnerID:    "d4a7b5f6-8e9c-4da3-8f10-4b5c6d7e8f90",
		OwnerEmail: "jane.doe@example.org",
		OwnerName:  "Jane Doe",
		FolderID:   "7",
		FolderPath: "/Contacts",
		Rights:     "r",
		View:       "contact",
	})
	g.AddShare(&model.ShareInfo{
		OwnerID:    "d4a7b5f6-8e9c-4da3-8f10-4b5c6d7e8f90",
		OwnerEmail: "jane.doe@example.org",
		OwnerName:  "Jane Doe",
		FolderID:   "281",
		FolderPath: "/Contacts/Vendors",
		Rights:     "rw",
		View:       "contact",
	})

	return g
}

func sampleMembers(prefix string, n int) []string {
	members := make([]string, 0, n)
	for i := 1; i <= n; i++ {
		members = append(members, fmt.Sprintf("%s%03d@example.org", prefix, i))
	}
	return members
}

// AddDistributionList stores a list with its owners and members
func (g *MockGroupware) AddDistributionList(dl model.DistributionList, owners, members []string) {
	g.mu.Lock()
	defer g.mu.Unlock()

	stored := dl
	g.lists = append(g.lists, &stored)
	g.owners[dl.ID] = append([]string(nil), owners...)
	g.members[dl.Email] = append([]string(nil), members...)
}

// AddShare stores a folder shared with the user
func (g *MockGroupware) AddShare(share *model.ShareInfo) {
	g.mu.Lock()
	defer g.mu.Unlock()
	stored := *share
	g.shares = append(g.shares, &stored)
}

// SetErrorForOperation makes every call of operation fail with err. The
// operation names are the SOAP request names.
func (g *MockGroupware) SetErrorForOperation(operation string, err error) {
	g.mu.Lock()
	defer g.mu.Unlock()
	g.errorsByOperation[operation] = err
}

// ClearErrors removes every configured error
func (g *MockGroupware) ClearErrors() {
	g.mu.Lock()
	defer g.mu.Unlock()
	g.errorsByOperation = make(map[string]error)
}

// HoldDetails blocks GetDistributionList for id until the returned function is called
func (g *MockGroupware) HoldDetails(id string) func() {
	return g.hold(g.detailGates, id)
}

// HoldMembers blocks members requests for the list address until the returned function is called
func (g *MockGroupware) HoldMembers(address string) func() {
	return g.hold(g.memberGates, address)
}

func (g *MockGroupware) hold(gates map[string]*gate, key string) func() {
	g.mu.Lock()
	defer g.mu.Unlock()
	gt := &gate{ch: make(chan struct{})}
	gates[key] = gt
	return gt.release
}

// Calls returns how many times operation was called
func (g *MockGroupware) Calls(operation string) int {
	g.mu.RLock()
	defer g.mu.RUnlock()
	return g.calls[operation]
}

// MemberRequests returns the members requests received so far
func (g *MockGroupware) MemberRequests() []MemberRequest {
	g.mu.RLock()
	defer g.mu.RUnlock()
	return append([]MemberRequest(nil), g.memberRequests...)
}

// Moves returns the MoveContacts calls received so far
func (g *MockGroupware) Moves() []MoveRequest {
	g.mu.RLock()
	defer g.mu.RUnlock()
	return append([]MoveRequest(nil), g.moves...)
}

// Empties returns the EmptyAddressBook calls received so far
func (g *MockGroupware) Empties() []EmptyRequest {
	g.mu.RLock()
	defer g.mu.RUnlock()
	return append([]EmptyRequest(nil), g.empties...)
}

// Mountpoints returns the mountpoints created so far
func (g *MockGroupware) Mountpoints() []model.Mountpoint {
	g.mu.RLock()
	defer g.mu.RUnlock()
	return append([]model.Mountpoint(nil), g.mountpoints...)
}

// RejectMountpoint makes CreateMountpoints refuse the named mountpoint while
// still creating the rest of the batch
func (g *MockGroupware) RejectMountpoint(name, reason string) {
	g.mu.Lock()
	defer g.mu.Unlock()
	g.rejected[name] = reason
}

// IsReady always succeeds
func (g *MockGroupware) IsReady(ctx context.Context) error {
	return nil
}

// begin counts the call and returns the configured error, if any
func (g *MockGroupware) begin(ctx context.Context, operation string) error {
	g.mu.Lock()
	defer g.mu.Unlock()
	g.calls[operation]++
	if err, ok := g.errorsByOperation[operation]; ok {
		slog.DebugContext(ctx, "mock groupware returning simulated error", "operation", operation, "error", err)
		return err
	}
	return nil
}

func (g *MockGroupware) gateFor(gates map[string]*gate, key string) *gate {
	g.mu.RLock()
	defer g.mu.RUnlock()
	return gates[key]
}

// GetAccountDistributionLists returns the owned lists when query.OwnerOf is
// set and the lists the user belongs to unless query.MemberOf is none.
func (g *MockGroupware) GetAccountDistributionLists(ctx context.Context, query model.ListQuery) ([]*model.DistributionList, error) {
	if err := g.begin(ctx, constants.GetAccountDistributionListsRequest); err != nil {
		return nil, err
	}

	g.mu.RLock()
	defer g.mu.RUnlock()

	lists := make([]*model.DistributionList, 0, len(g.lists))
	for _, dl := range g.lists {
		owned := query.OwnerOf && dl.IsOwner
		member := query.MemberOf != model.MemberOfNone && dl.IsMember
		if owned || member {
			copied := *dl
			lists = append(lists, &copied)
		}
	}

	slog.DebugContext(ctx, "mock groupware listed distribution lists",
		"owner_of", query.OwnerOf,
		"member_of", query.MemberOf,
		"count", len(lists),
	)
	return lists, nil
}

// GetDistributionList returns the list with id, and its owners when needOwners is set
func (g *MockGroupware) GetDistributionList(ctx context.Context, id string, needOwners bool) (*model.DistributionListDetails, error) {
	if err := g.begin(ctx, constants.GetDistributionListRequest); err != nil {
		return nil, err
	}
	if gt := g.gateFor(g.detailGates, id); gt != nil {
		if err := gt.wait(ctx); err != nil {
			return nil, err
		}
	}

	g.mu.RLock()
	defer g.mu.RUnlock()

	for _, dl := range g.lists {
		if dl.ID != id {
			continue
		}
		details := &model.DistributionListDetails{DistributionList: *dl}
		if needOwners {
			details.Owners = append([]string(nil), g.owners[id]...)
		}
		return details, nil
	}
	return nil, errors.NewNotFound(fmt.Sprintf("no such distribution list: %s", id))
}

// GetDistributionListMembers returns a page of members. A non-zero offset is
// rejected until the first page of the list has been served.
func (g *MockGroupware) GetDistributionListMembers(ctx context.Context, address string, offset, limit int) (*model.MemberPage, error) {
	if err := g.begin(ctx, constants.GetDistributionListMembersRequest); err != nil {
		return nil, err
	}

	g.mu.Lock()
	g.memberRequests = append(g.memberRequests, MemberRequest{Address: address, Offset: offset, Limit: limit})
	firstServed := g.firstPageServed[address]
	g.mu.Unlock()

	if offset > 0 && !firstServed {
		return nil, errors.NewValidation(fmt.Sprintf("offset %d requested before the first page of %s", offset, address))
	}

	if gt := g.gateFor(g.memberGates, address); gt != nil {
		if err := gt.wait(ctx); err != nil {
			return nil, err
		}
	}

	g.mu.Lock()
	defer g.mu.Unlock()

	members, ok := g.members[address]
	if !ok {
		return nil, errors.NewNotFound(fmt.Sprintf("no such distribution list: %s", address))
	}
	if offset == 0 {
		g.firstPageServed[address] = true
	}

	start := min(offset, len(members))
	end := len(members)
	if limit > 0 {
		end = min(start+limit, len(members))
	}

	return &model.MemberPage{
		Members: append([]string(nil), members[start:end]...),
		Offset:  offset,
		Total:   len(members),
		More:    end < len(members),
	}, nil
}

// MoveContacts records the move
func (g *MockGroupware) MoveContacts(ctx context.Context, contactIDs []string, destinationID string) error {
	if err := g.begin(ctx, constants.ContactActionRequest); err != nil {
		return err
	}
	g.mu.Lock()
	defer g.mu.Unlock()
	g.moves = append(g.moves, MoveRequest{ContactIDs: append([]string(nil), contactIDs...), DestinationID: destinationID})
	return nil
}

// EmptyAddressBook records the request
func (g *MockGroupware) EmptyAddressBook(ctx context.Context, folderID string, recursive bool) error {
	if err := g.begin(ctx, constants.FolderActionRequest); err != nil {
		return err
	}
	g.mu.Lock()
	defer g.mu.Unlock()
	g.empties = append(g.empties, EmptyRequest{FolderID: folderID, Recursive: recursive})
	return nil
}

// GetShareInfo returns the stored shares
func (g *MockGroupware) GetShareInfo(ctx context.Context) ([]*model.ShareInfo, error) {
	if err := g.begin(ctx, constants.GetShareInfoRequest); err != nil {
		return nil, err
	}
	g.mu.RLock()
	defer g.mu.RUnlock()
	shares := make([]*model.ShareInfo, 0, len(g.shares))
	for _, share := range g.shares {
		copied := *share
		shares = append(shares, &copied)
	}
	return shares, nil
}

// CreateMountpoints records the mountpoints
func (g *MockGroupware) CreateMountpoints(ctx context.Context, mountpoints []model.Mountpoint) error {
	if err := g.begin(ctx, constants.CreateMountpointRequest); err != nil {
		return err
	}
	g.mu.Lock()
	defer g.mu.Unlock()

	result := &model.MountpointsError{}
	for _, mp := range mountpoints {
		if reason, ok := g.rejected[mp.Name]; ok {
			result.Failed = append(result.Failed, model.MountpointFailure{Name: mp.Name, Reason: reason})
			continue
		}
		g.mountpoints = append(g.mountpoints, mp)
		result.Created = append(result.Created, mp.Name)
	}
	if len(result.Failed) > 0 {
		return errors.NewNetwork("mountpoints partly created", result)
	}
	return nil
}
