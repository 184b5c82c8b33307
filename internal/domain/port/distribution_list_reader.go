// Copyright The Linux Foundation and each contributor to LFX.
// SPDX-License-Identifier: MIT

// Package port defines the interfaces for external dependencies and adapters.
package port

import (
	"context"

	"github.com/linuxfoundation/lfx-v2-distribution-list-service/internal/domain/model"
)

// DistributionListReader reads distribution lists from the groupware server.
type DistributionListReader interface {
	// GetAccountDistributionLists lists the lists the account owns or belongs to
	GetAccountDistributionLists(ctx context.Context, query model.ListQuery) ([]*model.DistributionList, error)

	// GetDistributionList fetches a single list by id, with its owners when needOwners is set.
	// Returns a NotFound error when the list does not exist.
	GetDistributionList(ctx context.Context, id string, needOwners bool) (*model.DistributionListDetails, error)

	// GetDistributionListMembers fetches up to limit members of the list addressed by
	// address, starting at offset.
	GetDistributionListMembers(ctx context.Context, address string, offset, limit int) (*model.MemberPage, error)
}
