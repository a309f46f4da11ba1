package config

import (
	"fmt"
	"math"
	"os"
	"sort"
	"strings"
	"time"

	"github.com/caarlos0/env/v10"
)

// Config holds the ambient configuration of a scenario worker invocation.
// None of these settings influence a parameter set or a computed result.
type Config struct {
	LogLevel string `env:"LOG_LEVEL" envDefault:"warn"`

	// Streaming pacing
	Pacing PacingConfig

	// Metrics export
	Metrics MetricsConfig

	// Tracing
	Tracing TracingConfig
}

// PacingConfig controls the illustrative delays between streamed events
type PacingConfig struct {
	Enabled bool    `env:"SCENARIO_PACING" envDefault:"true"`
	Scale   float64 `env:"SCENARIO_PACE_SCALE" envDefault:"1.0"`
}

// MetricsConfig holds Prometheus export configuration
type MetricsConfig struct {
	// TextfilePath is written after the run when set, in the node_exporter
	// textfile collector format.
	TextfilePath string `env:"SCENARIO_METRICS_TEXTFILE"`
}

// TracingConfig holds OpenTelemetry configuration
type TracingConfig struct {
	Enabled    bool    `env:"SCENARIO_TRACING" envDefault:"false"`
	Exporter   string  `env:"SCENARIO_TRACE_EXPORTER" envDefault:"stderr"`
	FilePath   string  `env:"SCENARIO_TRACE_FILE"`
	SampleRate float64 `env:"SCENARIO_TRACE_SAMPLE_RATE" envDefault:"1.0"`
}

var validLogLevels = map[string]bool{
	"debug": true,
	"info":  true,
	"warn":  true,
	"error": true,
}

var validExporters = map[string]bool{
	"stderr": true,
	"file":   true,
	"none":   true,
}

// Defaults returns the configuration used when no variable is set
func Defaults() *Config {
	return &Config{
		LogLevel: "warn",
		Pacing:   PacingConfig{Enabled: true, Scale: 1.0},
		Tracing:  TracingConfig{Exporter: "stderr", SampleRate: 1.0},
	}
}

// Load reads configuration from environment variables. It never fails: the
// settings only tune diagnostics, so a variable that cannot be parsed or a
// value that does not validate falls back to its default and is reported
// in the returned warnings.
func Load() (*Config, []error) {
	return load(env.ToMap(os.Environ()))
}

func load(vars map[string]string) (*Config, []error) {
	var warnings []error

	cfg := &Config{}
	if err := env.ParseWithOptions(cfg, env.Options{Environment: vars}); err != nil {
		usable := make(map[string]string, len(vars))
		for _, key := range sortedKeys(vars) {
			single := map[string]string{key: vars[key]}
			if perr := env.ParseWithOptions(&Config{}, env.Options{Environment: single}); perr != nil {
				warnings = append(warnings, fmt.Errorf("ignoring %s=%q: %w", key, vars[key], perr))
				continue
			}
			usable[key] = vars[key]
		}

		cfg = &Config{}
		if err := env.ParseWithOptions(cfg, env.Options{Environment: usable}); err != nil {
			warnings = append(warnings, fmt.Errorf("failed to parse config, using defaults: %w", err))
			cfg = Defaults()
		}
	}

	return cfg, append(warnings, cfg.sanitize()...)
}

// sanitize replaces each invalid setting with its default. Log level and
// exporter names are matched case-insensitively.
func (c *Config) sanitize() []error {
	defaults := Defaults()
	var warnings []error

	if level := strings.ToLower(strings.TrimSpace(c.LogLevel)); validLogLevels[level] {
		c.LogLevel = level
	} else {
		warnings = append(warnings, fmt.Errorf("invalid log level %q, using %s", c.LogLevel, defaults.LogLevel))
		c.LogLevel = defaults.LogLevel
	}

	if c.Pacing.Scale < 0 || math.IsNaN(c.Pacing.Scale) || math.IsInf(c.Pacing.Scale, 0) {
		warnings = append(warnings, fmt.Errorf("invalid pace scale %v, using %v", c.Pacing.Scale, defaults.Pacing.Scale))
		c.Pacing.Scale = defaults.Pacing.Scale
	}

	if exporter := strings.ToLower(strings.TrimSpace(c.Tracing.Exporter)); validExporters[exporter] {
		c.Tracing.Exporter = exporter
	} else {
		warnings = append(warnings, fmt.Errorf("unsupported trace exporter %q, using %s", c.Tracing.Exporter, defaults.Tracing.Exporter))
		c.Tracing.Exporter = defaults.Tracing.Exporter
	}
	if c.Tracing.Enabled && c.Tracing.Exporter == "file" && c.Tracing.FilePath == "" {
		warnings = append(warnings, fmt.Errorf("trace file path not set, using %s exporter", defaults.Tracing.Exporter))
		c.Tracing.Exporter = defaults.Tracing.Exporter
	}

	if !(c.Tracing.SampleRate >= 0 && c.Tracing.SampleRate <= 1) {
		warnings = append(warnings, fmt.Errorf("invalid trace sample rate %v, using %v", c.Tracing.SampleRate, defaults.Tracing.SampleRate))
		c.Tracing.SampleRate = defaults.Tracing.SampleRate
	}

	return warnings
}

// Validate checks if the configuration is valid
func (c *Config) Validate() error {
	if !validLogLevels[c.LogLevel] {
		return fmt.Errorf("invalid log level: %s (must be debug, info, warn, or error)", c.LogLevel)
	}

	if c.Pacing.Scale < 0 || math.IsNaN(c.Pacing.Scale) || math.IsInf(c.Pacing.Scale, 0) {
		return fmt.Errorf("pace scale must be a non-negative number: %v", c.Pacing.Scale)
	}

	if !validExporters[c.Tracing.Exporter] {
		return fmt.Errorf("unsupported trace exporter: %s (must be stderr, file, or none)", c.Tracing.Exporter)
	}
	if c.Tracing.Enabled && c.Tracing.Exporter == "file" && c.Tracing.FilePath == "" {
		return fmt.Errorf("trace file path is required for the file exporter")
	}

	if !(c.Tracing.SampleRate >= 0 && c.Tracing.SampleRate <= 1) {
		return fmt.Errorf("trace sample rate must be within [0, 1]: %v", c.Tracing.SampleRate)
	}

	return nil
}

// PaceDelay scales a stage delay by the pacing settings. It returns zero
// when pacing is disabled.
func (c *Config) PaceDelay(d time.Duration) time.Duration {
	if !c.Pacing.Enabled {
		return 0
	}
	return time.Duration(float64(d) * c.Pacing.Scale)
}

func sortedKeys(m map[string]string) []string {
	keys := make([]string, 0, len(m))
	for k := range m {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	return keys
}
