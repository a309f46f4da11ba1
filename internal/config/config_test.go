package config

import (
	"testing"
	"time"

	"github.com/stretchr/testify/require"
	"pgregory.net/rapid"
)

func TestLoad_Defaults(t *testing.T) {
	cfg, warnings := load(map[string]string{})
	require.Empty(t, warnings)

	require.Equal(t, "warn", cfg.LogLevel)
	require.True(t, cfg.Pacing.Enabled)
	require.Equal(t, 1.0, cfg.Pacing.Scale)
	require.Empty(t, cfg.Metrics.TextfilePath)
	require.False(t, cfg.Tracing.Enabled)
	require.Equal(t, "stderr", cfg.Tracing.Exporter)
	require.Equal(t, 1.0, cfg.Tracing.SampleRate)

	require.Equal(t, Defaults(), cfg)
}

func TestLoad_FromEnvironment(t *testing.T) {
	t.Setenv("LOG_LEVEL", "debug")
	t.Setenv("SCENARIO_PACING", "false")
	t.Setenv("SCENARIO_PACE_SCALE", "0.5")
	t.Setenv("SCENARIO_METRICS_TEXTFILE", "/tmp/scenario.prom")
	t.Setenv("SCENARIO_TRACING", "true")
	t.Setenv("SCENARIO_TRACE_EXPORTER", "none")

	cfg, warnings := Load()
	require.Empty(t, warnings)

	require.Equal(t, "debug", cfg.LogLevel)
	require.False(t, cfg.Pacing.Enabled)
	require.Equal(t, 0.5, cfg.Pacing.Scale)
	require.Equal(t, "/tmp/scenario.prom", cfg.Metrics.TextfilePath)
	require.True(t, cfg.Tracing.Enabled)
	require.Equal(t, "none", cfg.Tracing.Exporter)
}

func TestLoad_CaseInsensitiveNames(t *testing.T) {
	cfg, warnings := load(map[string]string{
		"LOG_LEVEL":               "INFO",
		"SCENARIO_TRACE_EXPORTER": " None ",
	})
	require.Empty(t, warnings)
	require.Equal(t, "info", cfg.LogLevel)
	require.Equal(t, "none", cfg.Tracing.Exporter)
}

func TestLoad_InvalidValuesFallBack(t *testing.T) {
	cfg, warnings := load(map[string]string{
		"LOG_LEVEL":                  "verbose",
		"SCENARIO_PACE_SCALE":        "-2",
		"SCENARIO_TRACE_EXPORTER":    "otlp",
		"SCENARIO_TRACE_SAMPLE_RATE": "1.5",
		"SCENARIO_PACING":            "false",
	})
	require.Len(t, warnings, 4)

	require.Equal(t, "warn", cfg.LogLevel)
	require.Equal(t, 1.0, cfg.Pacing.Scale)
	require.Equal(t, "stderr", cfg.Tracing.Exporter)
	require.Equal(t, 1.0, cfg.Tracing.SampleRate)
	require.False(t, cfg.Pacing.Enabled, "valid settings survive")
	require.NoError(t, cfg.Validate())
}

func TestLoad_UnparsableValueIsDropped(t *testing.T) {
	cfg, warnings := load(map[string]string{
		"SCENARIO_PACE_SCALE": "fast",
		"SCENARIO_TRACING":    "yes please",
		"LOG_LEVEL":           "error",
		"PATH":                "/usr/bin",
	})
	require.Len(t, warnings, 2)
	require.Contains(t, warnings[0].Error(), "SCENARIO_PACE_SCALE")
	require.Contains(t, warnings[1].Error(), "SCENARIO_TRACING")

	require.Equal(t, 1.0, cfg.Pacing.Scale)
	require.False(t, cfg.Tracing.Enabled)
	require.Equal(t, "error", cfg.LogLevel)
}

func TestLoad_FileExporterWithoutPath(t *testing.T) {
	cfg, warnings := load(map[string]string{
		"SCENARIO_TRACING":        "true",
		"SCENARIO_TRACE_EXPORTER": "file",
	})
	require.Len(t, warnings, 1)
	require.Equal(t, "stderr", cfg.Tracing.Exporter)
	require.True(t, cfg.Tracing.Enabled)
}

// TestProperty_LoadAlwaysValidates verifies that whatever the environment
// holds, the loaded configuration passes Validate.
func TestProperty_LoadAlwaysValidates(t *testing.T) {
	keys := []string{
		"LOG_LEVEL",
		"SCENARIO_PACING",
		"SCENARIO_PACE_SCALE",
		"SCENARIO_METRICS_TEXTFILE",
		"SCENARIO_TRACING",
		"SCENARIO_TRACE_EXPORTER",
		"SCENARIO_TRACE_FILE",
		"SCENARIO_TRACE_SAMPLE_RATE",
	}
	value := rapid.OneOf(
		rapid.SampledFrom([]string{"", "true", "false", "0", "1", "-1", "0.5", "NaN", "Inf", "INFO", "debug", "file", "none", "otlp"}),
		rapid.StringMatching(`[ -~]{0,8}`),
	)

	rapid.Check(t, func(t *rapid.T) {
		vars := make(map[string]string)
		for _, key := range keys {
			if rapid.Bool().Draw(t, "set-"+key) {
				vars[key] = value.Draw(t, key)
			}
		}

		cfg, _ := load(vars)
		if err := cfg.Validate(); err != nil {
			t.Fatalf("loaded config does not validate: %v (env %v)", err, vars)
		}
	})
}

func TestValidate(t *testing.T) {
	valid := func() *Config {
		return &Config{
			LogLevel: "info",
			Pacing:   PacingConfig{Enabled: true, Scale: 1},
			Tracing:  TracingConfig{Exporter: "stderr", SampleRate: 1},
		}
	}

	tests := []struct {
		name    string
		mutate  func(c *Config)
		wantErr string
	}{
		{name: "valid", mutate: func(c *Config) {}},
		{name: "negative pace scale", mutate: func(c *Config) { c.Pacing.Scale = -1 }, wantErr: "pace scale"},
		{name: "unknown exporter", mutate: func(c *Config) { c.Tracing.Exporter = "otlp" }, wantErr: "unsupported trace exporter"},
		{
			name: "file exporter without path",
			mutate: func(c *Config) {
				c.Tracing.Enabled = true
				c.Tracing.Exporter = "file"
			},
			wantErr: "trace file path",
		},
		{
			name: "file exporter disabled without path",
			mutate: func(c *Config) {
				c.Tracing.Exporter = "file"
			},
		},
		{name: "sample rate above one", mutate: func(c *Config) { c.Tracing.SampleRate = 1.5 }, wantErr: "sample rate"},
		{name: "zero sample rate", mutate: func(c *Config) { c.Tracing.SampleRate = 0 }},
		{name: "upper-case log level", mutate: func(c *Config) { c.LogLevel = "INFO" }, wantErr: "invalid log level"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg := valid()
			tt.mutate(cfg)
			err := cfg.Validate()
			if tt.wantErr == "" {
				require.NoError(t, err)
				return
			}
			require.Error(t, err)
			require.Contains(t, err.Error(), tt.wantErr)
		})
	}
}

func TestPaceDelay(t *testing.T) {
	cfg := &Config{Pacing: PacingConfig{Enabled: true, Scale: 0.5}}
	require.Equal(t, 300*time.Millisecond, cfg.PaceDelay(600*time.Millisecond))

	cfg.Pacing.Scale = 0
	require.Zero(t, cfg.PaceDelay(600*time.Millisecond))

	cfg.Pacing = PacingConfig{Enabled: false, Scale: 1}
	require.Zero(t, cfg.PaceDelay(600*time.Millisecond))
}
