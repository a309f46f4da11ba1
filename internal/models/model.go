package models

import (
	"time"

	"github.com/aescanero/scenario/internal/params"
	"github.com/aescanero/scenario/internal/protocol"
)

// Info describes a worker kind.
type Info struct {
	Name        string
	Aliases     []string
	Description string
	Mode        protocol.Mode
	Defaults    params.DefaultSet
}

// Output is a worker's result value. Every output starts with a headline.
type Output interface {
	Title() string
}

// Header carries the headline shared by every output.
type Header struct {
	Headline string `json:"headline"`
}

// Title returns the headline.
func (h Header) Title() string { return h.Headline }

// Model is one worker kind. Compute must be pure: the same Set always
// yields an equal Output.
type Model interface {
	Info() Info
	Compute(p params.Set) (Output, error)
}

// Stage is one STATUS or PROGRESS event a streaming model emits before its
// result, followed by an illustrative pause.
type Stage struct {
	Kind    protocol.Kind
	Message string
	Pause   time.Duration
}

// Streamer is implemented by streaming-mode models.
type Streamer interface {
	Stages() []Stage
}
