package tracing

import (
	"bytes"
	"context"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/require"
	sdktrace "go.opentelemetry.io/otel/sdk/trace"
)

func TestDefaultConfig(t *testing.T) {
	cfg := DefaultConfig()

	require.False(t, cfg.Enabled, "tracing should be disabled by default")
	require.Equal(t, "stderr", cfg.Exporter)
	require.Equal(t, 1.0, cfg.SampleRate)
	require.Equal(t, "scenario-worker", cfg.ServiceName)
}

func TestNewProvider_Disabled(t *testing.T) {
	provider, err := NewProvider(Config{Enabled: false})
	require.NoError(t, err)
	require.False(t, provider.Enabled())

	ctx, span := provider.Tracer().Start(context.Background(), "test-span")
	require.NotNil(t, ctx)
	require.False(t, span.SpanContext().IsValid(), "no-op spans carry no context")
	span.End()

	require.NoError(t, provider.Shutdown(context.Background()))
}

func TestNewProvider_StderrWriter(t *testing.T) {
	var buf bytes.Buffer
	provider, err := NewProvider(Config{
		Enabled:    true,
		Exporter:   "stderr",
		SampleRate: 1.0,
		Writer:     &buf,
	})
	require.NoError(t, err)
	require.True(t, provider.Enabled())

	_, span := provider.Tracer().Start(context.Background(), SpanCompute)
	require.True(t, span.SpanContext().IsValid())
	span.End()

	require.NoError(t, provider.Shutdown(context.Background()))
	require.Contains(t, buf.String(), SpanCompute)
}

func TestNewProvider_FileExporter(t *testing.T) {
	path := filepath.Join(t.TempDir(), "traces.jsonl")

	provider, err := NewProvider(Config{
		Enabled:     true,
		Exporter:    "file",
		FilePath:    path,
		SampleRate:  1.0,
		ServiceName: "test-service",
	})
	require.NoError(t, err)

	_, span := provider.Tracer().Start(context.Background(), SpanInvocation)
	span.SetAttributes(AttrModel.String("cge"))
	span.End()

	require.NoError(t, provider.Shutdown(context.Background()))

	data, err := os.ReadFile(path)
	require.NoError(t, err)
	require.Contains(t, string(data), SpanInvocation)
	require.Contains(t, string(data), "cge")
}

func TestNewProvider_FileExporterRequiresPath(t *testing.T) {
	_, err := NewProvider(Config{Enabled: true, Exporter: "file"})
	require.Error(t, err)
	require.Contains(t, err.Error(), "file path required")
}

func TestNewProvider_NoneExporter(t *testing.T) {
	provider, err := NewProvider(Config{Enabled: true, Exporter: "none"})
	require.NoError(t, err)

	_, span := provider.Tracer().Start(context.Background(), "correlated")
	require.True(t, span.SpanContext().IsValid(), "spans exist without an exporter")
	span.End()

	require.NoError(t, provider.Shutdown(context.Background()))
}

func TestNewProvider_UnsupportedExporter(t *testing.T) {
	_, err := NewProvider(Config{Enabled: true, Exporter: "otlp"})
	require.Error(t, err)
	require.Contains(t, err.Error(), "unsupported exporter type")
}

func TestNewProvider_ZeroSampleRateExportsNothing(t *testing.T) {
	var buf bytes.Buffer
	provider, err := NewProvider(Config{
		Enabled:    true,
		Exporter:   "stderr",
		SampleRate: 0,
		Writer:     &buf,
	})
	require.NoError(t, err)

	_, span := provider.Tracer().Start(context.Background(), SpanInvocation)
	require.False(t, span.SpanContext().IsSampled())
	span.End()

	require.NoError(t, provider.Shutdown(context.Background()))
	require.Empty(t, buf.String())
}

func TestSampler(t *testing.T) {
	require.Equal(t, sdktrace.NeverSample().Description(), sampler(0).Description())
	require.Equal(t, sdktrace.NeverSample().Description(), sampler(-1).Description())
	require.Equal(t, sdktrace.AlwaysSample().Description(), sampler(1).Description())
	require.Equal(t, sdktrace.TraceIDRatioBased(0.25).Description(), sampler(0.25).Description())
}
