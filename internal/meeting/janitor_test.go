package meeting

import (
	"context"
	"testing"
	"time"

	"github.com/ashrafosman/localscribe/internal/transcribe"
)

func TestReapTerminalRespectsGrace(t *testing.T) {
	svc := newTestService(t, "echo unused\n")

	fresh := &Session{ID: "fresh", status: StatusComplete, done: make(chan struct{})}
	fresh.endedAt = time.Now()
	stale := &Session{ID: "stale", status: StatusError, done: make(chan struct{})}
	stale.endedAt = time.Now().Add(-10 * time.Minute)
	active := &Session{ID: "active", status: StatusRecording, done: make(chan struct{})}

	svc.sessions["fresh"] = fresh
	svc.sessions["stale"] = stale
	svc.sessions["active"] = active

	if n := svc.reapTerminal(5 * time.Minute); n != 1 {
		t.Fatalf("reaped %d sessions, want 1", n)
	}

	if _, ok := svc.lookup("stale"); ok {
		t.Error("stale terminal session was not removed")
	}
	if _, ok := svc.lookup("fresh"); !ok {
		t.Error("fresh terminal session was removed within grace window")
	}
	if _, ok := svc.lookup("active"); !ok {
		t.Error("active session was removed")
	}
}

func TestShutdownInterruptsActiveSessions(t *testing.T) {
	svc := newTestService(t, "echo unused\n")

	fb := newFakeBackend(nil, nil)
	fb.started = make(chan struct{})
	fb.release = make(chan struct{})
	svc.newBackend = func(sess *Session, emit func(transcribe.Event)) transcribe.Backend {
		return fb
	}

	rec := &recorder{}
	id, err := svc.Start("Standup", -1, "meeting", rec)
	if err != nil {
		t.Fatal(err)
	}
	<-fb.started

	sess, _ := svc.Session(id)
	svc.Shutdown(context.Background())

	// The backend was force-stopped and the registry cleared.
	select {
	case <-fb.stopped:
	default:
		t.Error("backend was not stopped on shutdown")
	}
	if _, ok := svc.lookup(id); ok {
		t.Error("registry not cleared after shutdown")
	}
	if !sess.Status().Terminal() {
		t.Errorf("session left in %s after shutdown", sess.Status())
	}
}

func TestShutdownLeavesTerminalStatusAlone(t *testing.T) {
	svc := newTestService(t, "echo done\nexit 1\n")

	id, err := svc.Start("Standup", -1, "meeting")
	if err != nil {
		t.Fatal(err)
	}
	waitDone(t, svc, id)

	sess, _ := svc.Session(id)
	svc.Shutdown(context.Background())

	if sess.Status() != StatusError {
		t.Errorf("terminal status rewritten to %s on shutdown", sess.Status())
	}
}
