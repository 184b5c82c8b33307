// Copyright The Linux Foundation and each contributor to LFX.
// SPDX-License-Identifier: MIT

package constants

// DistributionListAPIQueue is the NATS queue group for distribution list command subscriptions
const DistributionListAPIQueue = "lfx-v2-distribution-list-api"

// DefaultMembersPageSize is the number of members requested per page
const DefaultMembersPageSize = 100
