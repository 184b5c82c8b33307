// Copyright The Linux Foundation and each contributor to LFX.
// SPDX-License-Identifier: MIT

package model

import (
	"time"
)

// SessionSnapshot is the persisted part of a displayer session. It is enough
// to rebuild the view after a restart; member pages are refetched.
type SessionSnapshot struct {
	ID        string    `json:"id" msgpack:"id"`
	Route     Route     `json:"route" msgpack:"route"`
	Tab       Tab       `json:"tab" msgpack:"tab"`
	UpdatedAt time.Time `json:"updated_at" msgpack:"updated_at"`
}
