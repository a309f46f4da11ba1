package protocol

import (
	"bytes"
	"encoding/json"
	"errors"
	"fmt"
	"strings"
)

// Mode selects how an invocation writes its output.
type Mode int

const (
	// ModeSingleShot writes exactly one JSON object line.
	ModeSingleShot Mode = iota
	// ModeStreaming writes STATUS/PROGRESS lines followed by one RESULT line.
	ModeStreaming
)

func (m Mode) String() string {
	switch m {
	case ModeSingleShot:
		return "single-shot"
	case ModeStreaming:
		return "streaming"
	default:
		return "unknown"
	}
}

var (
	// ErrClosed is returned for any write after the terminal one.
	ErrClosed = errors.New("emitter closed: result already written")
	// ErrWrongMode is returned when a write does not belong to the emitter's mode.
	ErrWrongMode = errors.New("event not allowed in this emission mode")
)

// Option configures an Emitter.
type Option func(*Emitter)

// WithObserver registers fn to be called after every successful write.
func WithObserver(fn func(Kind)) Option {
	return func(e *Emitter) {
		e.observe = fn
	}
}

// Emitter writes an invocation's events to a Sink and enforces
// START -> {STATUS|PROGRESS}* -> RESULT -> END. It is not safe for
// concurrent use.
type Emitter struct {
	sink    Sink
	mode    Mode
	closed  bool
	written int
	observe func(Kind)
}

// NewEmitter creates an emitter for mode over sink.
func NewEmitter(sink Sink, mode Mode, opts ...Option) *Emitter {
	e := &Emitter{sink: sink, mode: mode}
	for _, opt := range opts {
		opt(e)
	}
	return e
}

// Mode returns the emission mode.
func (e *Emitter) Mode() Mode { return e.mode }

// Closed reports whether the terminal write has happened.
func (e *Emitter) Closed() bool { return e.closed }

// Written returns the number of records written so far.
func (e *Emitter) Written() int { return e.written }

// Status emits a STATUS event.
func (e *Emitter) Status(msg string) error {
	return e.Emit(KindStatus, msg)
}

// Progress emits a PROGRESS event.
func (e *Emitter) Progress(msg string) error {
	return e.Emit(KindProgress, msg)
}

// Result emits the terminal RESULT event carrying v as JSON.
func (e *Emitter) Result(v any) error {
	payload, err := marshal(v)
	if err != nil {
		return err
	}
	return e.Emit(KindResult, string(payload))
}

// Emit writes one streaming-mode event. Text payloads are kept on a single
// line.
func (e *Emitter) Emit(kind Kind, payload string) error {
	if e.closed {
		return ErrClosed
	}
	if e.mode != ModeStreaming {
		return fmt.Errorf("%w: %s in %s mode", ErrWrongMode, kind, e.mode)
	}
	switch kind {
	case KindStatus, KindProgress:
		payload = oneLine(payload)
	case KindResult:
	default:
		return fmt.Errorf("unknown event kind: %q", kind)
	}

	if err := e.sink.WriteLine([]byte(Event{Kind: kind, Payload: payload}.Line())); err != nil {
		return err
	}
	e.written++
	if kind == KindResult {
		e.closed = true
	}
	if e.observe != nil {
		e.observe(kind)
	}
	return nil
}

// Single writes the one JSON line of a single-shot invocation.
func (e *Emitter) Single(v any) error {
	if e.closed {
		return ErrClosed
	}
	if e.mode != ModeSingleShot {
		return fmt.Errorf("%w: single payload in %s mode", ErrWrongMode, e.mode)
	}
	payload, err := marshal(v)
	if err != nil {
		return err
	}
	if err := e.sink.WriteLine(payload); err != nil {
		return err
	}
	e.written++
	e.closed = true
	if e.observe != nil {
		e.observe(KindResult)
	}
	return nil
}

// Finish writes v as the terminal record for the emitter's mode.
func (e *Emitter) Finish(v any) error {
	if e.mode == ModeStreaming {
		return e.Result(v)
	}
	return e.Single(v)
}

func marshal(v any) ([]byte, error) {
	var buf bytes.Buffer
	enc := json.NewEncoder(&buf)
	enc.SetEscapeHTML(false)
	if err := enc.Encode(v); err != nil {
		return nil, fmt.Errorf("failed to encode output: %w", err)
	}
	return bytes.TrimRight(buf.Bytes(), "\n"), nil
}

func oneLine(s string) string {
	return strings.NewReplacer("\r\n", " ", "\n", " ", "\r", " ").Replace(s)
}
