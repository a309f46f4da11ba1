// Package events provides output sinks for the worker protocol.
//
// Implementations:
//   - protocol.WriterSink: flushes each line to an io.Writer (stdout)
//   - memory: records lines in memory for tests and in-process embedding
package events
