// Copyright The Linux Foundation and each contributor to LFX.
// SPDX-License-Identifier: MIT

package main

import (
	"context"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/linuxfoundation/lfx-v2-distribution-list-service/cmd/distribution-list-api/service"
	"github.com/linuxfoundation/lfx-v2-distribution-list-service/pkg/constants"
)

type stubPinger struct {
	name string
	err  error
}

func (p stubPinger) Name() string               { return p.name }
func (p stubPinger) Ping(context.Context) error { return p.err }

func TestHealthHandler(t *testing.T) {
	tests := []struct {
		name       string
		path       string
		pingers    []service.Pinger
		wantStatus int
	}{
		{
			name:       "livez is always ok",
			path:       "/livez",
			pingers:    []service.Pinger{stubPinger{name: "nats", err: errors.New("down")}},
			wantStatus: http.StatusOK,
		},
		{
			name:       "readyz ok when every dependency answers",
			path:       "/readyz",
			pingers:    []service.Pinger{stubPinger{name: "nats"}, stubPinger{name: "groupware"}},
			wantStatus: http.StatusOK,
		},
		{
			name:       "readyz unavailable when a dependency fails",
			path:       "/readyz",
			pingers:    []service.Pinger{stubPinger{name: "nats"}, stubPinger{name: "groupware", err: errors.New("timeout")}},
			wantStatus: http.StatusServiceUnavailable,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			rec := httptest.NewRecorder()
			newHealthHandler(tt.pingers).ServeHTTP(rec, httptest.NewRequest(http.MethodGet, tt.path, nil))

			assert.Equal(t, tt.wantStatus, rec.Code)
			assert.NotEmpty(t, rec.Header().Get(constants.RequestIDHeader))
		})
	}
}
