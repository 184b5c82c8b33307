// Copyright The Linux Foundation and each contributor to LFX.
// SPDX-License-Identifier: MIT

package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/linuxfoundation/lfx-v2-distribution-list-service/pkg/constants"
)

func clearEnv(t *testing.T) {
	t.Helper()
	for _, env := range envBindings {
		t.Setenv(env, "")
		require.NoError(t, os.Unsetenv(env))
	}
}

func TestDefault(t *testing.T) {
	cfg := Default()

	assert.Equal(t, constants.SourceSOAP, cfg.RepositorySource)
	assert.Equal(t, constants.SourceNATS, cfg.SessionSource)
	assert.Equal(t, 30*time.Second, cfg.SOAP.Timeout)
	assert.Equal(t, "nats://localhost:4222", cfg.NATS.URL)
	assert.Equal(t, constants.DefaultMembersPageSize, cfg.Members.PageSize)
	assert.Equal(t, constants.SessionTTL, cfg.Sessions.TTL)
	assert.NoError(t, cfg.Validate())
}

func TestLoad_FileAndEnv(t *testing.T) {
	clearEnv(t)

	path := filepath.Join(t.TempDir(), "distribution-list.yaml")
	content := `
repository_source: mock
soap:
  url: https://mail.example.com/service/soap
  timeout: 5s
members:
  page_size: 25
`
	require.NoError(t, os.WriteFile(path, []byte(content), 0o600))

	t.Setenv("SESSION_SOURCE", "mock")
	t.Setenv("MEMBERS_PAGE_SIZE", "50")
	t.Setenv("SESSION_TTL", "30m")

	cfg, err := Load(path)
	require.NoError(t, err)

	assert.Equal(t, constants.SourceMock, cfg.RepositorySource)
	assert.Equal(t, constants.SourceMock, cfg.SessionSource)
	assert.Equal(t, "https://mail.example.com/service/soap", cfg.SOAP.URL)
	assert.Equal(t, 5*time.Second, cfg.SOAP.Timeout)
	assert.Equal(t, 50, cfg.Members.PageSize, "environment wins over the file")
	assert.Equal(t, 30*time.Minute, cfg.Sessions.TTL)
}

func TestLoad_NoFile(t *testing.T) {
	clearEnv(t)
	t.Chdir(t.TempDir())

	cfg, err := Load("")
	require.NoError(t, err)
	assert.Equal(t, Default(), cfg)
}

func TestLoad_MissingExplicitFile(t *testing.T) {
	clearEnv(t)

	_, err := Load(filepath.Join(t.TempDir(), "missing.yaml"))
	assert.Error(t, err)
}

func TestValidate(t *testing.T) {
	tests := []struct {
		name    string
		mutate  func(*Config)
		wantErr string
	}{
		{name: "defaults are valid", mutate: func(*Config) {}},
		{
			name:    "unknown repository source",
			mutate:  func(c *Config) { c.RepositorySource = "ldap" },
			wantErr: "unsupported repository source",
		},
		{
			name:    "unknown session source",
			mutate:  func(c *Config) { c.SessionSource = "redis" },
			wantErr: "unsupported session source",
		},
		{
			name:    "soap without url",
			mutate:  func(c *Config) { c.SOAP.URL = "" },
			wantErr: "soap.url is required",
		},
		{
			name:   "mock source does not need a url",
			mutate: func(c *Config) { c.RepositorySource = constants.SourceMock; c.SOAP.URL = "" },
		},
		{
			name:    "negative session ttl",
			mutate:  func(c *Config) { c.Sessions.TTL = -time.Second },
			wantErr: "sessions.ttl must not be negative",
		},
		{
			name:    "zero page size",
			mutate:  func(c *Config) { c.Members.PageSize = 0 },
			wantErr: "members.page_size must be positive",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg := Default()
			tt.mutate(cfg)

			err := cfg.Validate()
			if tt.wantErr == "" {
				assert.NoError(t, err)
				return
			}
			require.Error(t, err)
			assert.Contains(t, err.Error(), tt.wantErr)
		})
	}
}
