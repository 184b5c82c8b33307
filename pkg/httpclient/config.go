// Copyright The Linux Foundation and each contributor to LFX.
// SPDX-License-Identifier: MIT

// Package httpclient provides a small HTTP client with middleware and optional retries.
package httpclient

import (
	"net/http"
	"time"
)

// Config holds the configuration for the HTTP client
type Config struct {
	// Timeout is the overall timeout of a single HTTP exchange
	Timeout time.Duration

	// MaxRetries is the number of additional attempts after the first one.
	// Zero disables retries.
	MaxRetries int

	// RetryDelay is the base delay between attempts
	RetryDelay time.Duration

	// RetryBackoff doubles the delay on every attempt when enabled
	RetryBackoff bool

	// MaxDelay caps the backoff delay
	MaxDelay time.Duration

	// Transport is the base transport, http.DefaultTransport when nil
	Transport http.RoundTripper

	// RetryStatus overrides StatusError.Retryable when set
	RetryStatus func(*StatusError) bool
}

// DefaultConfig returns a Config without retries; callers opt in explicitly.
func DefaultConfig() Config {
	return Config{
		Timeout:      30 * time.Second,
		MaxRetries:   0,
		RetryDelay:   500 * time.Millisecond,
		RetryBackoff: true,
		MaxDelay:     30 * time.Second,
	}
}
