package protocol

import (
	"bufio"
	"fmt"
	"io"
)

// Sink receives output records. WriteLine must deliver the whole line to
// the destination before returning so incremental readers see it at once.
type Sink interface {
	WriteLine(line []byte) error
}

// WriterSink is a Sink over an io.Writer that flushes after every line.
type WriterSink struct {
	w *bufio.Writer
}

// NewWriterSink wraps w.
func NewWriterSink(w io.Writer) *WriterSink {
	return &WriterSink{w: bufio.NewWriter(w)}
}

// WriteLine writes line followed by a newline and flushes.
func (s *WriterSink) WriteLine(line []byte) error {
	if _, err := s.w.Write(line); err != nil {
		return fmt.Errorf("failed to write line: %w", err)
	}
	if err := s.w.WriteByte('\n'); err != nil {
		return fmt.Errorf("failed to write line: %w", err)
	}
	if err := s.w.Flush(); err != nil {
		return fmt.Errorf("failed to flush line: %w", err)
	}
	return nil
}
