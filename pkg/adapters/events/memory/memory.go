package memory

import (
	"fmt"
	"sync"

	"github.com/aescanero/scenario/internal/protocol"
)

// Handler observes each line as it is written
type Handler func(line string) error

// Recorder implements protocol.Sink by keeping every line in memory.
// Handlers run synchronously inside WriteLine, so they see events in emission
// order and before the emitter moves on.
type Recorder struct {
	lines    []string
	handlers []Handler
	mu       sync.RWMutex
}

// NewRecorder creates a new in-memory sink
func NewRecorder() *Recorder {
	return &Recorder{}
}

// WriteLine records a line and passes it to all handlers
func (r *Recorder) WriteLine(line []byte) error {
	r.mu.Lock()
	r.lines = append(r.lines, string(line))
	handlers := make([]Handler, len(r.handlers))
	copy(handlers, r.handlers)
	r.mu.Unlock()

	for _, h := range handlers {
		if err := h(string(line)); err != nil {
			return fmt.Errorf("line handler failed: %w", err)
		}
	}
	return nil
}

// Subscribe registers a handler for subsequent lines
func (r *Recorder) Subscribe(h Handler) {
	r.mu.Lock()
	defer r.mu.Unlock()

	r.handlers = append(r.handlers, h)
}

// Lines returns a copy of the recorded lines
func (r *Recorder) Lines() []string {
	r.mu.RLock()
	defer r.mu.RUnlock()

	out := make([]string, len(r.lines))
	copy(out, r.lines)
	return out
}

// Events parses the recorded lines as streaming-mode events
func (r *Recorder) Events() ([]protocol.Event, error) {
	lines := r.Lines()
	events := make([]protocol.Event, 0, len(lines))
	for i, line := range lines {
		ev, err := protocol.ParseLine(line)
		if err != nil {
			return nil, fmt.Errorf("line %d: %w", i+1, err)
		}
		events = append(events, ev)
	}
	return events, nil
}

// Reset clears recorded lines and handlers
func (r *Recorder) Reset() {
	r.mu.Lock()
	defer r.mu.Unlock()

	r.lines = nil
	r.handlers = nil
}
