// Package runner executes a single worker invocation.
//
// A Runner reads the raw input, resolves it against the model's defaults,
// emits streaming stages when the model has them, computes the result and
// writes it through a protocol.Emitter. It records logs, spans and metrics
// along the way; none of them touch the protocol output.
package runner
