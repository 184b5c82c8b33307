// Copyright The Linux Foundation and each contributor to LFX.
// SPDX-License-Identifier: MIT

// Package constants defines global constants used throughout the distribution list service.
package constants

// Service constants
const (
	// ServiceName is the name of this service
	ServiceName = "distribution-list"

	// OTelServiceName is the default OpenTelemetry service name
	OTelServiceName = "lfx-v2-distribution-list-service"
)

// HTTP header constants
const (
	// RequestIDHeader is the HTTP header name for request ID
	RequestIDHeader = "X-Request-Id"
)

// Environment variables
const (
	// EnvNATSURL is the environment variable for NATS server URL
	EnvNATSURL = "NATS_URL"
	// EnvNATSCredentials is the environment variable for NATS credentials
	EnvNATSCredentials = "NATS_CREDENTIALS"
	// EnvRepositorySource selects the groupware implementation (soap or mock)
	EnvRepositorySource = "REPOSITORY_SOURCE"
	// EnvSessionSource selects the session store implementation (nats or mock)
	EnvSessionSource = "SESSION_SOURCE"
)

// Implementation sources selectable through the environment
const (
	SourceSOAP = "soap"
	SourceNATS = "nats"
	SourceMock = "mock"
)
