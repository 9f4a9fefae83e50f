// Package relay forwards session events to a remote WebSocket consumer,
// standing in for an attached web UI.
package relay

import (
	"context"
	"fmt"
	"log/slog"
	"sync"

	"github.com/gorilla/websocket"
)

// frame is the wire format consumed by the web front end.
type frame struct {
	Type      string `json:"type"`
	MeetingID string `json:"meeting_id"`
	Status    string `json:"status,omitempty"`
	Message   string `json:"message,omitempty"`
	Text      string `json:"text,omitempty"`
}

// Relay is a meeting.Sink that writes each event as a JSON frame over a
// single WebSocket connection. Writes are serialized; delivery failures
// are logged and dropped so a dead relay never affects the session.
type Relay struct {
	mu     sync.Mutex
	conn   *websocket.Conn
	logger *slog.Logger
}

// Dial connects to the relay endpoint.
func Dial(ctx context.Context, url string) (*Relay, error) {
	conn, _, err := websocket.DefaultDialer.DialContext(ctx, url, nil)
	if err != nil {
		return nil, fmt.Errorf("dialing relay %s: %w", url, err)
	}
	return &Relay{conn: conn, logger: slog.Default()}, nil
}

// Notify implements meeting.Sink.
func (r *Relay) Notify(meetingID, status, message string) {
	if status == "transcription" {
		r.send(frame{Type: "transcription", MeetingID: meetingID, Text: message})
		return
	}

	r.send(frame{Type: "status", MeetingID: meetingID, Status: status, Message: message})

	if status == "complete" {
		r.send(frame{Type: "recording_complete", MeetingID: meetingID})
	}
}

func (r *Relay) send(f frame) {
	r.mu.Lock()
	defer r.mu.Unlock()
	if r.conn == nil {
		return
	}
	if err := r.conn.WriteJSON(f); err != nil {
		r.logger.Warn("relay write failed", "meeting_id", f.MeetingID, "error", err)
	}
}

// Close closes the underlying connection.
func (r *Relay) Close() error {
	r.mu.Lock()
	defer r.mu.Unlock()
	if r.conn == nil {
		return nil
	}
	err := r.conn.Close()
	r.conn = nil
	return err
}
