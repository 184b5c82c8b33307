// Copyright The Linux Foundation and each contributor to LFX.
// SPDX-License-Identifier: MIT

package middleware

import (
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/linuxfoundation/lfx-v2-distribution-list-service/pkg/constants"
)

func TestRequestIDMiddleware(t *testing.T) {
	tests := []struct {
		name        string
		incomingID  string
		expectKeep  bool
		expectValid bool
	}{
		{
			name:       "keeps the caller's request id",
			incomingID: "req-123",
			expectKeep: true,
		},
		{
			name:        "generates a request id when missing",
			expectValid: true,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			var seen string
			handler := RequestIDMiddleware()(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
				id, ok := r.Context().Value(constants.RequestIDContextKey).(string)
				require.True(t, ok)
				seen = id
				w.WriteHeader(http.StatusOK)
			}))

			req := httptest.NewRequest(http.MethodGet, "/livez", nil)
			if tt.incomingID != "" {
				req.Header.Set(constants.RequestIDHeader, tt.incomingID)
			}
			rec := httptest.NewRecorder()

			handler.ServeHTTP(rec, req)

			assert.Equal(t, http.StatusOK, rec.Code)
			assert.Equal(t, seen, rec.Header().Get(constants.RequestIDHeader))
			if tt.expectKeep {
				assert.Equal(t, tt.incomingID, seen)
			}
			if tt.expectValid {
				_, err := uuid.Parse(seen)
				assert.NoError(t, err)
			}
		})
	}
}
