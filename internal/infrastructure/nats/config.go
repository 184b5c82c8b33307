// Copyright The Linux Foundation and each contributor to LFX.
// SPDX-License-Identifier: MIT

package nats

import (
	"time"

	"github.com/linuxfoundation/lfx-v2-distribution-list-service/pkg/config"
)

// Config holds the NATS connection settings
type Config struct {
	// URL is the NATS server URL
	URL string

	// Credentials is an optional path to a user credentials file
	Credentials string

	// Timeout bounds connects and requests
	Timeout time.Duration

	// MaxReconnect is the number of reconnect attempts, -1 for unlimited
	MaxReconnect int

	// ReconnectWait is the delay between reconnect attempts
	ReconnectWait time.Duration

	// ConnectAttempts is the number of initial connection attempts
	ConnectAttempts int
}

// DefaultConfig returns a Config with sensible defaults
func DefaultConfig() Config {
	return Config{
		URL:             "nats://localhost:4222",
		Timeout:         10 * time.Second,
		MaxReconnect:    -1,
		ReconnectWait:   2 * time.Second,
		ConnectAttempts: 3,
	}
}

// NewConfig builds the connection settings from the service configuration
func NewConfig(cfg config.NATSConfig) Config {
	c := DefaultConfig()
	if cfg.URL != "" {
		c.URL = cfg.URL
	}
	c.Credentials = cfg.Credentials
	if cfg.Timeout > 0 {
		c.Timeout = cfg.Timeout
	}
	if cfg.MaxReconnect != 0 {
		c.MaxReconnect = cfg.MaxReconnect
	}
	if cfg.ReconnectWait > 0 {
		c.ReconnectWait = cfg.ReconnectWait
	}
	return c
}
