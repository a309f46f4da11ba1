package protocol

import (
	"fmt"
	"strings"
)

// Kind tags a streamed event.
type Kind string

const (
	KindStatus   Kind = "STATUS"
	KindProgress Kind = "PROGRESS"
	KindResult   Kind = "RESULT"
)

// Event is one record of a streaming-mode invocation. Payload is free text
// for STATUS and PROGRESS and serialized JSON for RESULT.
type Event struct {
	Kind    Kind
	Payload string
}

// Line renders the event in KIND:PAYLOAD form.
func (e Event) Line() string {
	return string(e.Kind) + ":" + e.Payload
}

// ParseLine splits a KIND:PAYLOAD line back into an Event.
func ParseLine(line string) (Event, error) {
	kind, payload, ok := strings.Cut(strings.TrimRight(line, "\r\n"), ":")
	if !ok {
		return Event{}, fmt.Errorf("malformed event line: %q", line)
	}
	switch Kind(kind) {
	case KindStatus, KindProgress, KindResult:
		return Event{Kind: Kind(kind), Payload: payload}, nil
	default:
		return Event{}, fmt.Errorf("unknown event kind: %q", kind)
	}
}
