// Copyright The Linux Foundation and each contributor to LFX.
// SPDX-License-Identifier: MIT

package utils

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

var otelEnvVars = []string{
	"OTEL_SERVICE_NAME",
	"OTEL_SERVICE_VERSION",
	"OTEL_EXPORTER_OTLP_PROTOCOL",
	"OTEL_EXPORTER_OTLP_ENDPOINT",
	"OTEL_EXPORTER_OTLP_INSECURE",
	"OTEL_TRACES_EXPORTER",
	"OTEL_TRACES_SAMPLE_RATIO",
	"OTEL_METRICS_EXPORTER",
	"OTEL_LOGS_EXPORTER",
	"OTEL_PROPAGATORS",
}

func clearOTelEnvVars(t *testing.T) {
	t.Helper()
	for _, env := range otelEnvVars {
		t.Setenv(env, "")
	}
}

func TestOTelConfigFromEnv_Defaults(t *testing.T) {
	clearOTelEnvVars(t)

	cfg := OTelConfigFromEnv()

	assert.Equal(t, "lfx-v2-distribution-list-service", cfg.ServiceName)
	assert.Empty(t, cfg.ServiceVersion)
	assert.Equal(t, OTelProtocolGRPC, cfg.Protocol)
	assert.Empty(t, cfg.Endpoint)
	assert.False(t, cfg.Insecure)
	assert.Equal(t, OTelExporterNone, cfg.TracesExporter)
	assert.Equal(t, 1.0, cfg.TracesSampleRatio)
	assert.Equal(t, OTelExporterNone, cfg.MetricsExporter)
	assert.Equal(t, OTelExporterNone, cfg.LogsExporter)
	assert.Equal(t, OTelDefaultPropagators, cfg.Propagators)
}

func TestOTelConfigFromEnv_CustomValues(t *testing.T) {
	t.Setenv("OTEL_SERVICE_NAME", "dl-browser")
	t.Setenv("OTEL_SERVICE_VERSION", "0.4.0")
	t.Setenv("OTEL_EXPORTER_OTLP_PROTOCOL", "http")
	t.Setenv("OTEL_EXPORTER_OTLP_ENDPOINT", "localhost:4318")
	t.Setenv("OTEL_EXPORTER_OTLP_INSECURE", "true")
	t.Setenv("OTEL_TRACES_EXPORTER", "otlp")
	t.Setenv("OTEL_TRACES_SAMPLE_RATIO", "0.25")
	t.Setenv("OTEL_METRICS_EXPORTER", "otlp")
	t.Setenv("OTEL_LOGS_EXPORTER", "otlp")
	t.Setenv("OTEL_PROPAGATORS", "tracecontext")

	cfg := OTelConfigFromEnv()

	assert.Equal(t, OTelConfig{
		ServiceName:       "dl-browser",
		ServiceVersion:    "0.4.0",
		Protocol:          OTelProtocolHTTP,
		Endpoint:          "localhost:4318",
		Insecure:          true,
		TracesExporter:    OTelExporterOTLP,
		TracesSampleRatio: 0.25,
		MetricsExporter:   OTelExporterOTLP,
		LogsExporter:      OTelExporterOTLP,
		Propagators:       "tracecontext",
	}, cfg)
}

func TestOTelConfigFromEnv_TracesSampleRatio(t *testing.T) {
	tests := []struct {
		value string
		want  float64
	}{
		{"0", 0},
		{"0.01", 0.01},
		{"1", 1},
		{"-0.5", 1},
		{"1.5", 1},
		{"half", 1},
		{"", 1},
	}

	for _, tt := range tests {
		t.Run("ratio "+tt.value, func(t *testing.T) {
			t.Setenv("OTEL_TRACES_SAMPLE_RATIO", tt.value)
			assert.Equal(t, tt.want, OTelConfigFromEnv().TracesSampleRatio)
		})
	}
}

func TestOTelConfigFromEnv_InsecureOnlyLiteralTrue(t *testing.T) {
	for value, want := range map[string]bool{"true": true, "TRUE": false, "1": false, "": false} {
		t.Run("insecure "+value, func(t *testing.T) {
			t.Setenv("OTEL_EXPORTER_OTLP_INSECURE", value)
			assert.Equal(t, want, OTelConfigFromEnv().Insecure)
		})
	}
}

func TestSetupOTelSDKWithConfig_DisabledExporters(t *testing.T) {
	tests := []struct {
		name string
		cfg  OTelConfig
	}{
		{
			name: "all none",
			cfg: OTelConfig{
				ServiceName:       "test-service",
				Protocol:          OTelProtocolGRPC,
				TracesExporter:    OTelExporterNone,
				TracesSampleRatio: 1,
				MetricsExporter:   OTelExporterNone,
				LogsExporter:      OTelExporterNone,
			},
		},
		{name: "zero value", cfg: OTelConfig{}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			ctx := context.Background()
			shutdown, err := SetupOTelSDKWithConfig(ctx, tt.cfg)
			require.NoError(t, err)
			require.NotNil(t, shutdown)

			assert.NoError(t, shutdown(ctx))
			assert.NoError(t, shutdown(ctx), "shutdown is idempotent")
		})
	}
}

func TestSetupOTelSDKWithConfig_BareEndpoint(t *testing.T) {
	t.Setenv("OTEL_EXPORTER_OTLP_ENDPOINT", "127.0.0.1:4317")

	ctx := context.Background()
	shutdown, err := SetupOTelSDKWithConfig(ctx, OTelConfig{
		ServiceName:       "test-service",
		Protocol:          OTelProtocolGRPC,
		Endpoint:          "127.0.0.1:4317",
		Insecure:          true,
		TracesExporter:    OTelExporterOTLP,
		TracesSampleRatio: 1,
		Propagators:       "tracecontext,baggage",
	})
	require.NoError(t, err)
	_ = shutdown(ctx)
}

func TestSetupOTelSDKWithConfig_BadPropagator(t *testing.T) {
	_, err := SetupOTelSDKWithConfig(context.Background(), OTelConfig{Propagators: "b3"})
	assert.Error(t, err)
}

func TestSetupOTelSDK_FromEnv(t *testing.T) {
	clearOTelEnvVars(t)

	ctx := context.Background()
	shutdown, err := SetupOTelSDK(ctx)
	require.NoError(t, err)
	assert.NoError(t, shutdown(ctx))
}

func TestNewResource(t *testing.T) {
	for _, name := range []string{"distribution-list", "測試服務", "dl-123"} {
		t.Run(name, func(t *testing.T) {
			res, err := newResource(OTelConfig{ServiceName: name, ServiceVersion: "1.0.0"})
			require.NoError(t, err)

			value, ok := res.Set().Value("service.name")
			require.True(t, ok)
			assert.Equal(t, name, value.AsString())
		})
	}
}

func TestNewPropagator(t *testing.T) {
	tests := []struct {
		name        string
		propagators string
		want        []string
		absent      []string
		wantErr     bool
	}{
		{
			name:        "defaults",
			propagators: OTelDefaultPropagators,
			want:        []string{"traceparent", "tracestate", "baggage", "uber-trace-id"},
		},
		{
			name:        "trace context only",
			propagators: "tracecontext",
			want:        []string{"traceparent"},
			absent:      []string{"baggage", "uber-trace-id"},
		},
		{name: "empty", propagators: ""},
		{name: "unsupported", propagators: "zipkin", wantErr: true},
		{name: "mixed", propagators: "tracecontext,b3multi", wantErr: true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			prop, err := newPropagator(OTelConfig{Propagators: tt.propagators})
			if tt.wantErr {
				assert.Error(t, err)
				return
			}
			require.NoError(t, err)

			fields := prop.Fields()
			if tt.want == nil && tt.absent == nil {
				assert.Empty(t, fields)
			}
			for _, f := range tt.want {
				assert.Contains(t, fields, f)
			}
			for _, f := range tt.absent {
				assert.NotContains(t, fields, f)
			}
		})
	}
}

func TestIsExporterEnabled(t *testing.T) {
	assert.True(t, isExporterEnabled(OTelExporterOTLP))
	assert.True(t, isExporterEnabled("console"))
	assert.False(t, isExporterEnabled(OTelExporterNone))
	assert.False(t, isExporterEnabled(""))
}

func TestEndpointURL(t *testing.T) {
	tests := []struct {
		raw      string
		insecure bool
		want     string
	}{
		{"127.0.0.1:4317", true, "http://127.0.0.1:4317"},
		{"127.0.0.1:4317", false, "https://127.0.0.1:4317"},
		{"collector", true, "http://collector"},
		{"http://collector:4318", false, "http://collector:4318"},
		{"https://collector:4318/v1/traces", true, "https://collector:4318/v1/traces"},
	}

	for _, tt := range tests {
		t.Run(tt.raw, func(t *testing.T) {
			assert.Equal(t, tt.want, endpointURL(tt.raw, tt.insecure))
		})
	}
}
