// Copyright The Linux Foundation and each contributor to LFX.
// SPDX-License-Identifier: MIT

package constants

import "time"

const (
	// KVBucketNameDisplayerSessions is the name of the KV bucket for displayer session snapshots.
	KVBucketNameDisplayerSessions = "distribution-list-sessions"

	// SessionTTL is how long an idle session snapshot is kept
	SessionTTL = 24 * time.Hour
)
