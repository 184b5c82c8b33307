// Copyright The Linux Foundation and each contributor to LFX.
// SPDX-License-Identifier: MIT

package log

import (
	"bytes"
	"context"
	"encoding/json"
	"log/slog"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLogOptionalString(t *testing.T) {
	tests := []struct {
		name     string
		input    *string
		expected slog.Value
	}{
		{
			name:     "nil pointer returns nil value",
			input:    nil,
			expected: slog.AnyValue(nil),
		},
		{
			name:     "empty string",
			input:    ptrString(""),
			expected: slog.StringValue(""),
		},
		{
			name:     "description",
			input:    ptrString("Engineering announcements"),
			expected: slog.StringValue("Engineering announcements"),
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			result := LogOptionalString(tt.input)
			assert.True(t, result.Equal(tt.expected), "got %v, want %v", result, tt.expected)
		})
	}
}

func TestParseLevel(t *testing.T) {
	assert.Equal(t, slog.LevelDebug, parseLevel("debug"))
	assert.Equal(t, slog.LevelInfo, parseLevel("info"))
	assert.Equal(t, slog.LevelWarn, parseLevel("warn"))
	assert.Equal(t, slog.LevelError, parseLevel("error"))
	assert.Equal(t, logLevelDefault, parseLevel(""))
	assert.Equal(t, logLevelDefault, parseLevel("verbose"))
}

func TestAppendCtx(t *testing.T) {
	var buf bytes.Buffer
	logger := slog.New(contextHandler{slog.NewJSONHandler(&buf, nil)})

	ctx := AppendCtx(context.Background(), slog.String("session_id", "s-1"))
	sibling := AppendCtx(ctx, slog.String("distribution_list_id", "dl-1"))
	other := AppendCtx(ctx, slog.String("tab", "member_list"))

	logger.InfoContext(sibling, "selected")

	var record map[string]any
	require.NoError(t, json.Unmarshal(buf.Bytes(), &record))
	assert.Equal(t, "s-1", record["session_id"])
	assert.Equal(t, "dl-1", record["distribution_list_id"])
	assert.NotContains(t, record, "tab")

	attrs, ok := other.Value(slogFields).([]slog.Attr)
	require.True(t, ok)
	assert.Len(t, attrs, 2)
	assert.Equal(t, "tab", attrs[1].Key)
}

func TestPriorityCritical(t *testing.T) {
	attr := PriorityCritical()
	assert.Equal(t, "priority", attr.Key)
	assert.Equal(t, "critical", attr.Value.String())
}

// ptrString is a helper function to create string pointers for test cases
func ptrString(v string) *string {
	return &v
}
