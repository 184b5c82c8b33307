// Copyright The Linux Foundation and each contributor to LFX.
// SPDX-License-Identifier: MIT

package main

import (
	"context"
	"errors"
	"log/slog"
	"net/http"

	"go.opentelemetry.io/contrib/instrumentation/net/http/otelhttp"
	"goa.design/clue/health"

	"github.com/linuxfoundation/lfx-v2-distribution-list-service/cmd/distribution-list-api/service"
	"github.com/linuxfoundation/lfx-v2-distribution-list-service/internal/middleware"
)

// livez answers liveness checks
func livez(w http.ResponseWriter, r *http.Request) {
	slog.DebugContext(r.Context(), "liveness check completed successfully")
	w.Header().Set("Content-Type", "text/plain")
	_, _ = w.Write([]byte("OK"))
}

// newHealthHandler serves /livez and /readyz. Readiness fails while any
// pinger fails.
func newHealthHandler(pingers []service.Pinger) http.Handler {
	deps := make([]health.Pinger, 0, len(pingers))
	for _, p := range pingers {
		deps = append(deps, p)
	}

	mux := http.NewServeMux()
	mux.HandleFunc("/livez", livez)
	mux.Handle("/readyz", health.Handler(health.NewChecker(deps...)))

	return otelhttp.NewHandler(middleware.RequestIDMiddleware()(mux), "health")
}

// serveHealth runs the health server until ctx is done
func serveHealth(ctx context.Context, addr string, handler http.Handler, errc chan<- error) *http.Server {
	srv := &http.Server{
		Addr:    addr,
		Handler: handler,
	}

	go func() {
		slog.InfoContext(ctx, "health server listening", "addr", addr)
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			errc <- err
		}
	}()

	return srv
}
