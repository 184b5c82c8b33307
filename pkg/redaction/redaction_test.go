// Copyright The Linux Foundation and each contributor to LFX.
// SPDX-License-Identifier: MIT

package redaction

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestRedactEmail(t *testing.T) {
	tests := []struct {
		name  string
		email string
		want  string
	}{
		{"regular address", "alice@example.com", "a****@example.com"},
		{"single char local part", "a@example.com", "a@example.com"},
		{"no at sign", "nobody", "n*****"},
		{"leading at sign", "@example.com", "@***********"},
		{"empty", "", ""},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, RedactEmail(tt.email))
		})
	}
}

func TestRedactEmails(t *testing.T) {
	got := RedactEmails([]string{"user1@example.com", "bob@lists.example.org"})
	assert.Equal(t, []string{"u****@example.com", "b**@lists.example.org"}, got)
}
