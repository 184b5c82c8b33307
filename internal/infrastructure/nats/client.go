// Copyright The Linux Foundation and each contributor to LFX.
// SPDX-License-Identifier: MIT

// Package nats provides the NATS messaging client and the adapters built on it.
package nats

import (
	"context"
	stderrors "errors"
	"log/slog"
	"sync"
	"time"

	"github.com/linuxfoundation/lfx-v2-distribution-list-service/pkg/constants"
	"github.com/linuxfoundation/lfx-v2-distribution-list-service/pkg/errors"
	"github.com/linuxfoundation/lfx-v2-distribution-list-service/pkg/utils"

	"github.com/nats-io/nats.go"
	"github.com/nats-io/nats.go/jetstream"
)

// NATSClient wraps the NATS connection and the key-value buckets the service uses
type NATSClient struct {
	conn    *nats.Conn
	config  Config
	mu      sync.RWMutex
	kvStore map[string]jetstream.KeyValue
	timeout time.Duration
}

// Close drains the subscriptions and closes the NATS connection
func (c *NATSClient) Close() error {
	if c.conn == nil {
		return nil
	}
	if err := c.conn.Drain(); err != nil {
		c.conn.Close()
		return err
	}
	return nil
}

// IsReady checks if the NATS client is ready
func (c *NATSClient) IsReady(ctx context.Context) error {
	if c.conn == nil {
		slog.ErrorContext(ctx, "NATS client is not initialized or not connected")
		return errors.NewServiceUnavailable("NATS client is not initialized or not connected")
	}
	if !c.conn.IsConnected() || c.conn.IsDraining() {
		slog.ErrorContext(ctx, "NATS client is not ready",
			"connected", c.conn.IsConnected(),
			"draining", c.conn.IsDraining(),
		)
		return errors.NewServiceUnavailable("NATS client is not ready, connection is not established or is draining")
	}
	slog.DebugContext(ctx, "NATS client is ready", "url", c.conn.ConnectedUrl())
	return nil
}

// QueueSubscribe creates a queue subscription for load-balanced message processing
func (c *NATSClient) QueueSubscribe(subject, queue string, handler nats.MsgHandler) (*nats.Subscription, error) {
	if c.conn == nil {
		return nil, errors.NewServiceUnavailable("NATS connection not initialized")
	}
	if !c.conn.IsConnected() {
		return nil, errors.NewServiceUnavailable("NATS connection not ready")
	}
	return c.conn.QueueSubscribe(subject, queue, handler)
}

// Request sends data to subject and waits for a single reply
func (c *NATSClient) Request(ctx context.Context, subject string, data []byte) ([]byte, error) {
	if err := c.IsReady(ctx); err != nil {
		return nil, err
	}
	if _, ok := ctx.Deadline(); !ok {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, c.timeout)
		defer cancel()
	}

	msg, err := c.conn.RequestWithContext(ctx, subject, data)
	if err != nil {
		if stderrors.Is(err, nats.ErrNoResponders) {
			return nil, errors.NewServiceUnavailable("no distribution list service is listening on "+subject, err)
		}
		return nil, errors.NewServiceUnavailable("request to "+subject+" failed", err)
	}
	return msg.Data, nil
}

// KeyValueStore binds the named bucket, creating it when it does not exist yet
func (c *NATSClient) KeyValueStore(ctx context.Context, bucketName string) error {
	js, err := jetstream.New(c.conn)
	if err != nil {
		slog.ErrorContext(ctx, "error creating NATS JetStream client",
			"error", err,
			"nats_url", c.conn.ConnectedUrl(),
		)
		return err
	}

	kv, err := js.KeyValue(ctx, bucketName)
	if stderrors.Is(err, jetstream.ErrBucketNotFound) {
		slog.InfoContext(ctx, "creating NATS JetStream key-value store", "bucket", bucketName)
		kv, err = js.CreateKeyValue(ctx, jetstream.KeyValueConfig{
			Bucket:      bucketName,
			Description: "displayer sessions of the distribution list service",
			History:     1,
			TTL:         constants.SessionTTL,
		})
	}
	if err != nil {
		slog.ErrorContext(ctx, "error getting NATS JetStream key-value store",
			"error", err,
			"nats_url", c.conn.ConnectedUrl(),
			"bucket", bucketName,
		)
		return err
	}

	c.mu.Lock()
	defer c.mu.Unlock()
	if c.kvStore == nil {
		c.kvStore = make(map[string]jetstream.KeyValue)
	}
	c.kvStore[bucketName] = kv
	return nil
}

func (c *NATSClient) bucket(name string) (jetstream.KeyValue, bool) {
	c.mu.RLock()
	defer c.mu.RUnlock()
	kv, ok := c.kvStore[name]
	return kv, ok && kv != nil
}

// NewClient connects to NATS, retrying the initial connection, and binds the
// session bucket
func NewClient(ctx context.Context, config Config) (*NATSClient, error) {
	slog.InfoContext(ctx, "creating NATS client",
		"url", config.URL,
		"timeout", config.Timeout,
	)

	if config.URL == "" {
		return nil, errors.NewUnexpected("NATS URL is required")
	}

	opts := []nats.Option{
		nats.Name(constants.ServiceName),
		nats.Timeout(config.Timeout),
		nats.MaxReconnects(config.MaxReconnect),
		nats.ReconnectWait(config.ReconnectWait),
		nats.DisconnectErrHandler(func(nc *nats.Conn, err error) {
			slog.WarnContext(ctx, "NATS disconnected",
				"error", err,
				"url", nc.ConnectedUrl(),
				"status", nc.Status(),
			)
		}),
		nats.ReconnectHandler(func(nc *nats.Conn) {
			slog.InfoContext(ctx, "NATS reconnected", "url", nc.ConnectedUrl())
		}),
		nats.ErrorHandler(func(_ *nats.Conn, s *nats.Subscription, err error) {
			if s != nil {
				slog.With("error", err, "subject", s.Subject, "queue", s.Queue).Error("async NATS error")
			} else {
				slog.With("error", err).Error("async NATS error outside subscription")
			}
		}),
		nats.ClosedHandler(func(nc *nats.Conn) {
			slog.InfoContext(ctx, "NATS connection closed",
				"url", nc.ConnectedUrl(),
				"status", nc.Status(),
			)
		}),
	}
	if config.Credentials != "" {
		opts = append(opts, nats.UserCredentials(config.Credentials))
	}

	attempts := config.ConnectAttempts
	if attempts < 1 {
		attempts = 1
	}

	var conn *nats.Conn
	err := utils.RetryWithExponentialBackoff(ctx,
		utils.NewRetryConfig(attempts, config.ReconnectWait, 4*config.ReconnectWait),
		"nats connect",
		func(context.Context) error {
			var errConnect error
			conn, errConnect = nats.Connect(config.URL, opts...)
			return errConnect
		},
	)
	if err != nil {
		return nil, errors.NewServiceUnavailable("failed to connect to NATS", err)
	}

	client := &NATSClient{
		conn:    conn,
		config:  config,
		timeout: config.Timeout,
	}

	if err := client.KeyValueStore(ctx, constants.KVBucketNameDisplayerSessions); err != nil {
		slog.ErrorContext(ctx, "failed to initialize NATS key-value store",
			"error", err,
			"bucket", constants.KVBucketNameDisplayerSessions,
		)
		conn.Close()
		return nil, errors.NewServiceUnavailable("failed to initialize NATS key-value store", err)
	}

	slog.InfoContext(ctx, "NATS client created successfully",
		"connected_url", conn.ConnectedUrl(),
		"status", conn.Status(),
	)

	return client, nil
}
