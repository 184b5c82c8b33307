// Copyright The Linux Foundation and each contributor to LFX.
// SPDX-License-Identifier: MIT

// Package service wires the adapters selected by the configuration.
package service

import (
	"context"
	"log"
	"log/slog"
	"sync"

	"github.com/linuxfoundation/lfx-v2-distribution-list-service/internal/domain/port"
	"github.com/linuxfoundation/lfx-v2-distribution-list-service/internal/infrastructure/mock"
	"github.com/linuxfoundation/lfx-v2-distribution-list-service/internal/infrastructure/nats"
	"github.com/linuxfoundation/lfx-v2-distribution-list-service/internal/infrastructure/soap"
	"github.com/linuxfoundation/lfx-v2-distribution-list-service/pkg/config"
	"github.com/linuxfoundation/lfx-v2-distribution-list-service/pkg/constants"
)

var (
	natsClient *nats.NATSClient
	natsDoOnce sync.Once

	soapClient *soap.Client
	soapDoOnce sync.Once

	sampleGroupware *mock.MockGroupware
	mockDoOnce      sync.Once
)

func natsInit(ctx context.Context, cfg *config.Config) {
	natsDoOnce.Do(func() {
		client, err := nats.NewClient(ctx, nats.NewConfig(cfg.NATS))
		if err != nil {
			log.Fatalf("failed to create NATS client: %v", err)
		}
		natsClient = client
	})
}

func soapInit(cfg *config.Config) {
	soapDoOnce.Do(func() {
		client, err := soap.NewClient(soap.NewConfig(cfg.SOAP))
		if err != nil {
			log.Fatalf("failed to create SOAP client: %v", err)
		}
		soapClient = client
	})
}

func groupwareMock() *mock.MockGroupware {
	mockDoOnce.Do(func() {
		sampleGroupware = mock.NewSampleGroupware()
	})
	return sampleGroupware
}

// GetNATSClient returns the shared NATS client, connecting on first use
func GetNATSClient(ctx context.Context, cfg *config.Config) *nats.NATSClient {
	natsInit(ctx, cfg)
	return natsClient
}

// Pinger is a dependency whose readiness is reported by the health endpoint
type Pinger interface {
	Name() string
	Ping(ctx context.Context) error
}

type readiness struct {
	name  string
	ready func(ctx context.Context) error
}

func (r readiness) Name() string                   { return r.name }
func (r readiness) Ping(ctx context.Context) error { return r.ready(ctx) }

// DistributionListReader initializes the reader implementation based on the repository source
func DistributionListReader(ctx context.Context, cfg *config.Config) port.DistributionListReader {
	var reader port.DistributionListReader

	switch cfg.RepositorySource {
	case constants.SourceMock:
		slog.InfoContext(ctx, "initializing mock distribution list reader")
		reader = groupwareMock()
	case constants.SourceSOAP:
		slog.InfoContext(ctx, "initializing SOAP distribution list reader", "url", cfg.SOAP.URL)
		soapInit(cfg)
		reader = soapClient
	default:
		log.Fatalf("unsupported distribution list reader implementation: %s", cfg.RepositorySource)
	}

	return reader
}

// AddressBookWriter initializes the address book writer based on the repository source
func AddressBookWriter(ctx context.Context, cfg *config.Config) port.AddressBookWriter {
	var writer port.AddressBookWriter

	switch cfg.RepositorySource {
	case constants.SourceMock:
		slog.InfoContext(ctx, "initializing mock address book writer")
		writer = groupwareMock()
	case constants.SourceSOAP:
		slog.InfoContext(ctx, "initializing SOAP address book writer")
		soapInit(cfg)
		writer = soapClient
	default:
		log.Fatalf("unsupported address book writer implementation: %s", cfg.RepositorySource)
	}

	return writer
}

// SessionRepository initializes the session store based on the session source
func SessionRepository(ctx context.Context, cfg *config.Config) port.SessionRepository {
	var repository port.SessionRepository

	switch cfg.SessionSource {
	case constants.SourceMock:
		slog.InfoContext(ctx, "initializing in-memory session repository")
		repository = mock.NewMockSessionRepository()
	case constants.SourceNATS:
		slog.InfoContext(ctx, "initializing NATS session repository")
		repository = nats.NewSessionRepository(GetNATSClient(ctx, cfg))
	default:
		log.Fatalf("unsupported session repository implementation: %s", cfg.SessionSource)
	}

	return repository
}

// MessagePublisher initializes the event publisher based on the session source
func MessagePublisher(ctx context.Context, cfg *config.Config) port.MessagePublisher {
	var publisher port.MessagePublisher

	switch cfg.SessionSource {
	case constants.SourceMock:
		slog.InfoContext(ctx, "initializing mock message publisher")
		publisher = mock.NewMockMessagePublisher()
	case constants.SourceNATS:
		slog.InfoContext(ctx, "initializing NATS message publisher")
		publisher = nats.NewMessagePublisher(GetNATSClient(ctx, cfg))
	default:
		log.Fatalf("unsupported message publisher implementation: %s", cfg.SessionSource)
	}

	return publisher
}

// Pingers returns the readiness checks of the configured backends
func Pingers(ctx context.Context, cfg *config.Config) []Pinger {
	var pingers []Pinger

	switch cfg.RepositorySource {
	case constants.SourceSOAP:
		soapInit(cfg)
		pingers = append(pingers, readiness{name: "groupware", ready: soapClient.IsReady})
	case constants.SourceMock:
		pingers = append(pingers, readiness{name: "groupware", ready: groupwareMock().IsReady})
	}

	if cfg.SessionSource == constants.SourceNATS {
		pingers = append(pingers, readiness{name: "nats", ready: GetNATSClient(ctx, cfg).IsReady})
	}

	return pingers
}
