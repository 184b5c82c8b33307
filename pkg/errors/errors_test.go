// Copyright The Linux Foundation and each contributor to LFX.
// SPDX-License-Identifier: MIT

package errors

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
)

// soapFault mimics a fault decoded from a groupware SOAP response
type soapFault struct {
	code string
}

func (f soapFault) Error() string {
	return "soap fault: " + f.code
}

func TestErrorsIsAndAs(t *testing.T) {
	fault := soapFault{code: "account.NO_SUCH_DISTRIBUTION_LIST"}

	notFound := NewNotFound("distribution list not found", fault)

	var extracted soapFault
	assert.True(t, errors.As(notFound, &extracted))
	assert.Equal(t, "account.NO_SUCH_DISTRIBUTION_LIST", extracted.code)

	network := NewNetwork("failed to load distribution lists", context.DeadlineExceeded)
	assert.True(t, errors.Is(network, context.DeadlineExceeded))
}

func TestErrorMessages(t *testing.T) {
	tests := []struct {
		name     string
		err      error
		expected string
	}{
		{
			name:     "message only",
			err:      NewNetwork("failed to load members"),
			expected: "failed to load members",
		},
		{
			name:     "message with cause",
			err:      NewNetwork("failed to load members", errors.New("connection refused")),
			expected: "failed to load members: connection refused",
		},
		{
			name:     "validation with cause",
			err:      NewValidation("invalid offset", errors.New("first page not loaded")),
			expected: "invalid offset: first page not loaded",
		},
		{
			name:     "unauthorized",
			err:      NewUnauthorized("auth token expired"),
			expected: "auth token expired",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.expected, tt.err.Error())
		})
	}
}

func TestNetworkUnwrap(t *testing.T) {
	rootCause := errors.New("dial tcp: connection refused")

	err := NewNetwork("groupware unreachable", rootCause)
	assert.NotNil(t, err.Unwrap())
	assert.True(t, errors.Is(err, rootCause))

	simple := NewNetwork("groupware unreachable")
	assert.Nil(t, simple.Unwrap())
}
