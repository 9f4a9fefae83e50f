package meeting

import "log/slog"

// Sink receives every status and transcription event for a session.
// status is one of the Status constants, or "transcription" (message
// carries a text fragment) or "info" (advisory message). A "complete"
// status additionally signals end-of-session.
type Sink interface {
	Notify(meetingID, status, message string)
}

// SinkFunc adapts a function to the Sink interface.
type SinkFunc func(meetingID, status, message string)

func (f SinkFunc) Notify(meetingID, status, message string) {
	f(meetingID, status, message)
}

// Subscribe appends a sink to the session. Insertion order is delivery
// order.
func (s *Session) Subscribe(sink Sink) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.subscribers = append(s.subscribers, sink)
}

// notify delivers one event to every subscriber in insertion order. A
// panicking sink is logged and skipped; it never affects the session or
// the remaining sinks.
func (s *Session) notify(logger *slog.Logger, status, message string) {
	s.mu.Lock()
	sinks := make([]Sink, len(s.subscribers))
	copy(sinks, s.subscribers)
	s.mu.Unlock()

	for _, sink := range sinks {
		func() {
			defer func() {
				if r := recover(); r != nil {
					logger.Error("subscriber callback panicked",
						"meeting_id", s.ID, "status", status, "panic", r)
				}
			}()
			sink.Notify(s.ID, status, message)
		}()
	}
}
