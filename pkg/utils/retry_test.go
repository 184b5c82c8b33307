// Copyright The Linux Foundation and each contributor to LFX.
// SPDX-License-Identifier: MIT

package utils

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNewRetryConfig(t *testing.T) {
	config := NewRetryConfig(5, 100*time.Millisecond, 5*time.Second)

	assert.Equal(t, 5, config.MaxAttempts)
	assert.Equal(t, 100*time.Millisecond, config.BaseDelay)
	assert.Equal(t, 5*time.Second, config.MaxDelay)
}

func TestRetryWithExponentialBackoff(t *testing.T) {
	errBucket := errors.New("bucket not found")

	tests := []struct {
		name      string
		failures  int
		permanent bool
		wantCalls int
		wantErr   bool
	}{
		{name: "first attempt succeeds", failures: 0, wantCalls: 1},
		{name: "succeeds on third attempt", failures: 2, wantCalls: 3},
		{name: "exhausts attempts", failures: 10, wantCalls: 3, wantErr: true},
		{name: "permanent error stops immediately", failures: 10, permanent: true, wantCalls: 1, wantErr: true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			config := NewRetryConfig(3, time.Millisecond, 5*time.Millisecond)

			calls := 0
			err := RetryWithExponentialBackoff(context.Background(), config, "open bucket", func(context.Context) error {
				calls++
				if calls <= tt.failures {
					if tt.permanent {
						return Permanent(errBucket)
					}
					return errBucket
				}
				return nil
			})

			assert.Equal(t, tt.wantCalls, calls)
			if !tt.wantErr {
				assert.NoError(t, err)
				return
			}
			require.Error(t, err)
			assert.ErrorIs(t, err, errBucket)
			if tt.permanent {
				assert.Equal(t, errBucket, err, "permanent errors are returned unwrapped")
			}
		})
	}
}

func TestRetryWithExponentialBackoff_ContextCancelled(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	config := NewRetryConfig(5, time.Second, time.Second)

	calls := 0
	err := RetryWithExponentialBackoff(ctx, config, "open bucket", func(context.Context) error {
		calls++
		cancel()
		return errors.New("unavailable")
	})

	require.Error(t, err)
	assert.ErrorIs(t, err, context.Canceled)
	assert.Equal(t, 1, calls)
}

func TestPermanent_Nil(t *testing.T) {
	assert.NoError(t, Permanent(nil))
}
