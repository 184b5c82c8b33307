// Copyright The Linux Foundation and each contributor to LFX.
// SPDX-License-Identifier: MIT

// Package config loads the distribution list service settings from an
// optional YAML file and the environment.
package config

import (
	"errors"
	"fmt"
	"os"
	"time"

	"github.com/spf13/viper"

	"github.com/linuxfoundation/lfx-v2-distribution-list-service/pkg/constants"
)

// Config is the full service configuration.
type Config struct {
	RepositorySource string         `mapstructure:"repository_source" yaml:"repository_source"`
	SessionSource    string         `mapstructure:"session_source" yaml:"session_source"`
	HealthAddr       string         `mapstructure:"health_addr" yaml:"health_addr"`
	SOAP             SOAPConfig     `mapstructure:"soap" yaml:"soap"`
	NATS             NATSConfig     `mapstructure:"nats" yaml:"nats"`
	Members          MembersConfig  `mapstructure:"members" yaml:"members"`
	Sessions         SessionsConfig `mapstructure:"sessions" yaml:"sessions"`
}

// SOAPConfig points at the groupware JSON SOAP endpoint.
type SOAPConfig struct {
	URL        string        `mapstructure:"url" yaml:"url"`
	AuthToken  string        `mapstructure:"auth_token" yaml:"auth_token"`
	Timeout    time.Duration `mapstructure:"timeout" yaml:"timeout"`
	MaxRetries int           `mapstructure:"max_retries" yaml:"max_retries"`
	RetryDelay time.Duration `mapstructure:"retry_delay" yaml:"retry_delay"`
}

// NATSConfig configures the NATS connection used for commands, events and sessions.
type NATSConfig struct {
	URL           string        `mapstructure:"url" yaml:"url"`
	Credentials   string        `mapstructure:"credentials" yaml:"credentials"`
	Timeout       time.Duration `mapstructure:"timeout" yaml:"timeout"`
	MaxReconnect  int           `mapstructure:"max_reconnect" yaml:"max_reconnect"`
	ReconnectWait time.Duration `mapstructure:"reconnect_wait" yaml:"reconnect_wait"`
}

// MembersConfig tunes member pagination.
type MembersConfig struct {
	PageSize int `mapstructure:"page_size" yaml:"page_size"`
}

// SessionsConfig tunes the live sessions of the command server. Idle
// sessions are dropped after TTL; zero keeps them until they end.
type SessionsConfig struct {
	TTL time.Duration `mapstructure:"ttl" yaml:"ttl"`
}

// envBindings maps config keys to the environment variables that override them.
var envBindings = map[string]string{
	"repository_source":   constants.EnvRepositorySource,
	"session_source":      constants.EnvSessionSource,
	"health_addr":         "HEALTH_ADDR",
	"soap.url":            "SOAP_URL",
	"soap.auth_token":     "SOAP_AUTH_TOKEN",
	"soap.timeout":        "SOAP_TIMEOUT",
	"soap.max_retries":    "SOAP_MAX_RETRIES",
	"soap.retry_delay":    "SOAP_RETRY_DELAY",
	"nats.url":            constants.EnvNATSURL,
	"nats.credentials":    constants.EnvNATSCredentials,
	"nats.timeout":        "NATS_TIMEOUT",
	"nats.max_reconnect":  "NATS_MAX_RECONNECT",
	"nats.reconnect_wait": "NATS_RECONNECT_WAIT",
	"members.page_size":   "MEMBERS_PAGE_SIZE",
	"sessions.ttl":        "SESSION_TTL",
}

func setDefaults(v *viper.Viper) {
	v.SetDefault("repository_source", constants.SourceSOAP)
	v.SetDefault("session_source", constants.SourceNATS)
	v.SetDefault("health_addr", ":8080")
	v.SetDefault("soap.url", "http://localhost:7070/service/soap")
	v.SetDefault("soap.timeout", 30*time.Second)
	v.SetDefault("soap.max_retries", 0)
	v.SetDefault("soap.retry_delay", 500*time.Millisecond)
	v.SetDefault("nats.url", "nats://localhost:4222")
	v.SetDefault("nats.timeout", 10*time.Second)
	v.SetDefault("nats.max_reconnect", 3)
	v.SetDefault("nats.reconnect_wait", 2*time.Second)
	v.SetDefault("members.page_size", constants.DefaultMembersPageSize)
	v.SetDefault("sessions.ttl", constants.SessionTTL)
}

// Default returns the configuration used when neither a file nor the
// environment override anything.
func Default() *Config {
	v := viper.New()
	setDefaults(v)

	var cfg Config
	// defaults are all of known types, decoding cannot fail
	_ = v.Unmarshal(&cfg)
	return &cfg
}

// Load reads configFile when given, otherwise ./config.yaml or
// /etc/distribution-list/config.yaml if present, then applies environment
// overrides and validates the result.
func Load(configFile string) (*Config, error) {
	v := viper.New()
	setDefaults(v)

	v.SetConfigType("yaml")
	if configFile != "" {
		if _, err := os.Stat(configFile); err != nil {
			return nil, fmt.Errorf("reading config: %w", err)
		}
		v.SetConfigFile(configFile)
	} else {
		v.SetConfigName("config")
		v.AddConfigPath(".")
		v.AddConfigPath("/etc/distribution-list")
	}

	for key, env := range envBindings {
		if err := v.BindEnv(key, env); err != nil {
			return nil, fmt.Errorf("binding %s: %w", env, err)
		}
	}

	if err := v.ReadInConfig(); err != nil {
		var notFound viper.ConfigFileNotFoundError
		if configFile != "" || !errors.As(err, &notFound) {
			return nil, fmt.Errorf("reading config: %w", err)
		}
	}

	var cfg Config
	if err := v.Unmarshal(&cfg); err != nil {
		return nil, fmt.Errorf("parsing config: %w", err)
	}

	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return &cfg, nil
}

// Validate checks the sources and pagination settings.
func (c *Config) Validate() error {
	switch c.RepositorySource {
	case constants.SourceSOAP, constants.SourceMock:
	default:
		return fmt.Errorf("unsupported repository source %q", c.RepositorySource)
	}

	switch c.SessionSource {
	case constants.SourceNATS, constants.SourceMock:
	default:
		return fmt.Errorf("unsupported session source %q", c.SessionSource)
	}

	if c.RepositorySource == constants.SourceSOAP && c.SOAP.URL == "" {
		return errors.New("soap.url is required when the repository source is soap")
	}

	if c.Members.PageSize <= 0 {
		return fmt.Errorf("members.page_size must be positive, got %d", c.Members.PageSize)
	}

	if c.Sessions.TTL < 0 {
		return fmt.Errorf("sessions.ttl must not be negative, got %s", c.Sessions.TTL)
	}
	return nil
}
