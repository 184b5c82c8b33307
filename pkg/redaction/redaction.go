// Copyright The Linux Foundation and each contributor to LFX.
// SPDX-License-Identifier: MIT

// Package redaction masks personal data before it reaches the logs.
package redaction

import "strings"

// RedactEmail keeps the first character of the local part and the domain,
// e.g. "alice@example.com" becomes "a****@example.com".
func RedactEmail(email string) string {
	at := strings.LastIndex(email, "@")
	if at <= 0 {
		return Redact(email)
	}
	local, domain := email[:at], email[at:]
	return local[:1] + strings.Repeat("*", len(local)-1) + domain
}

// RedactEmails applies RedactEmail to every address.
func RedactEmails(emails []string) []string {
	out := make([]string, len(emails))
	for i, email := range emails {
		out[i] = RedactEmail(email)
	}
	return out
}

// Redact masks everything but the first character.
func Redact(value string) string {
	if value == "" {
		return ""
	}
	return value[:1] + strings.Repeat("*", len(value)-1)
}
