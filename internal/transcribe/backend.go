package transcribe

import (
	"context"
	"errors"
)

// ErrStoppedBeforeStart is returned by a backend when a stop was requested
// before capture ever began.
var ErrStoppedBeforeStart = errors.New("recording stopped before start")

// EventType distinguishes the kinds of events a backend emits.
type EventType string

const (
	// EventTranscription carries one filtered utterance of transcribed text.
	EventTranscription EventType = "transcription"
	// EventInfo carries a human-readable progress or diagnostic message.
	EventInfo EventType = "info"
)

// Event is one unit of backend output.
type Event struct {
	Type EventType
	Text string
}

// Backend is a pluggable capture-and-transcription strategy. Run blocks
// until capture ends, invoking emit for every event in production order.
// A nil error means capture ended cleanly (including a graceful stop);
// any other return is a runtime failure. Stop requests a graceful
// shutdown and may be called from another goroutine, before or during Run.
type Backend interface {
	Run(ctx context.Context, emit func(Event)) error
	Stop() error
}
