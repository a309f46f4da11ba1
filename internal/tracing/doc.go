// Package tracing wires OpenTelemetry spans around a worker invocation.
//
// Tracing is off by default. When enabled, spans are exported with the
// stdouttrace exporter to stderr or to a file; stdout stays reserved for
// the worker protocol.
package tracing
