// Copyright The Linux Foundation and each contributor to LFX.
// SPDX-License-Identifier: MIT

// Package log provides structured logging utilities and configuration for the service.
package log

import (
	"context"
	"io"
	"log"
	"log/slog"
	"os"

	slogotel "github.com/remychantenay/slog-otel"
)

type ctxKey string

const (
	slogFields      ctxKey = "slog_fields"
	logLevelDefault        = slog.LevelDebug

	debug      = "debug"
	warn       = "warn"
	info       = "info"
	errorLevel = "error"

	priorityCritical = "critical"
)

type contextHandler struct {
	slog.Handler
}

// Handle adds contextual attributes to the Record before calling the underlying handler
func (h contextHandler) Handle(ctx context.Context, r slog.Record) error {
	if attrs, ok := ctx.Value(slogFields).([]slog.Attr); ok {
		for _, v := range attrs {
			r.AddAttrs(v)
		}
	}

	return h.Handler.Handle(ctx, r)
}

// WithAttrs keeps the context handler in front of the derived handler
func (h contextHandler) WithAttrs(attrs []slog.Attr) slog.Handler {
	return contextHandler{h.Handler.WithAttrs(attrs)}
}

// WithGroup keeps the context handler in front of the derived handler
func (h contextHandler) WithGroup(name string) slog.Handler {
	return contextHandler{h.Handler.WithGroup(name)}
}

// AppendCtx adds an slog attribute to the provided context so that it will be
// included in any Record created with such context
func AppendCtx(parent context.Context, attr slog.Attr) context.Context {
	if parent == nil {
		parent = context.Background()
	}

	if v, ok := parent.Value(slogFields).([]slog.Attr); ok {
		// copy so sibling contexts never share the backing array
		attrs := make([]slog.Attr, 0, len(v)+1)
		attrs = append(attrs, v...)
		attrs = append(attrs, attr)
		return context.WithValue(parent, slogFields, attrs)
	}

	return context.WithValue(parent, slogFields, []slog.Attr{attr})
}

// parseLevel maps the LOG_LEVEL values to slog levels
func parseLevel(logLevel string) slog.Level {
	switch logLevel {
	case debug:
		return slog.LevelDebug
	case warn:
		return slog.LevelWarn
	case info:
		return slog.LevelInfo
	case errorLevel:
		return slog.LevelError
	default:
		return logLevelDefault
	}
}

// InitStructureLogConfig sets the structured log behavior.
// Records carry trace and span ids when an OpenTelemetry span is active.
func InitStructureLogConfig() {
	InitStructureLogConfigWithWriter(os.Stdout)
}

// InitStructureLogConfigWithWriter is InitStructureLogConfig writing to w,
// used when stdout belongs to the terminal browser.
func InitStructureLogConfigWithWriter(w io.Writer) {
	logOptions := &slog.HandlerOptions{}

	logLevel := os.Getenv("LOG_LEVEL")
	logOptions.Level = parseLevel(logLevel)

	addSource := os.Getenv("LOG_ADD_SOURCE")
	logOptions.AddSource = addSource == "true"

	var h slog.Handler = slog.NewJSONHandler(w, logOptions)
	h = slogotel.OtelHandler{Next: h}

	log.SetFlags(log.Llongfile)
	slog.SetDefault(slog.New(contextHandler{h}))

	slog.Info("log config",
		"logLevel", logLevel,
		"LOG_ADD_SOURCE", logOptions.AddSource,
	)
}

// Priority creates a slog.Attr for error priority classification
func Priority(level string) slog.Attr {
	return slog.String("priority", level)
}

// PriorityCritical creates a slog.Attr for critical errors
// this is used to identify critical errors in the logs
// the ones that should be escalated to the team
func PriorityCritical() slog.Attr {
	return Priority(priorityCritical)
}

// LogOptionalString creates an slog.Value for optional string pointers such as
// a distribution list description. A nil pointer is logged as null.
func LogOptionalString(val *string) slog.Value {
	if val == nil {
		return slog.AnyValue(nil)
	}
	return slog.StringValue(*val)
}
