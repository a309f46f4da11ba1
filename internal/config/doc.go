// Package config provides ambient configuration for scenario workers.
//
// Configuration is loaded from environment variables using the env package.
// It only tunes diagnostics and pacing: stderr log level, the delay between
// streamed progress events, Prometheus textfile export and tracing. A
// worker's parameters always come from its input channel, so an invalid
// setting never fails an invocation: it falls back to its default.
//
// Example usage:
//
//	cfg, warnings := config.Load()
//	for _, w := range warnings {
//	    logger.Warn("ignoring invalid setting", zap.Error(w))
//	}
//
//	delay := cfg.PaceDelay(600 * time.Millisecond)
package config
