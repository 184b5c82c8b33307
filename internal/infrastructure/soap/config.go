// Copyright The Linux Foundation and each contributor to LFX.
// SPDX-License-Identifier: MIT

package soap

import (
	"time"

	"github.com/linuxfoundation/lfx-v2-distribution-list-service/pkg/config"
)

// Config holds the configuration for the groupware SOAP client
type Config struct {
	// URL is the JSON SOAP endpoint, usually ending in /service/soap
	URL string

	// AuthToken is sent in the SOAP header context of every request
	AuthToken string

	// Timeout is the HTTP client timeout for requests
	Timeout time.Duration

	// MaxRetries is the maximum number of retry attempts for failed requests.
	// Faults come back as HTTP 500 and are never retried.
	MaxRetries int

	// RetryDelay is the delay between retry attempts
	RetryDelay time.Duration
}

// DefaultConfig returns a Config with sensible defaults
func DefaultConfig() Config {
	return Config{
		URL:        "http://localhost:7070/service/soap",
		Timeout:    30 * time.Second,
		MaxRetries: 0,
		RetryDelay: 500 * time.Millisecond,
	}
}

// NewConfig builds the client configuration from the service settings
func NewConfig(cfg config.SOAPConfig) Config {
	c := DefaultConfig()
	if cfg.URL != "" {
		c.URL = cfg.URL
	}
	c.AuthToken = cfg.AuthToken
	if cfg.Timeout > 0 {
		c.Timeout = cfg.Timeout
	}
	if cfg.MaxRetries > 0 {
		c.MaxRetries = cfg.MaxRetries
	}
	if cfg.RetryDelay > 0 {
		c.RetryDelay = cfg.RetryDelay
	}
	return c
}
