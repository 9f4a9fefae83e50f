package transcribe

import (
	"context"
	"errors"
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"strings"
	"sync/atomic"
	"testing"
	"time"
)

// withFakeCapture puts a shell script named ffmpeg first on PATH so the
// device backend captures from it instead of a real device.
func withFakeCapture(t *testing.T, script string) {
	t.Helper()
	dir := t.TempDir()
	path := filepath.Join(dir, "ffmpeg")
	if err := os.WriteFile(path, []byte("#!/bin/sh\n"+script), 0o755); err != nil {
		t.Fatal(err)
	}
	t.Setenv("PATH", dir+string(os.PathListSeparator)+os.Getenv("PATH"))
}

func newDeviceTestServer(t *testing.T, handler http.HandlerFunc) *RemoteClient {
	t.Helper()
	srv := httptest.NewServer(handler)
	t.Cleanup(srv.Close)
	return NewRemoteClient(srv.URL, "")
}

func TestDeviceBackendCaptureCrashFails(t *testing.T) {
	withFakeCapture(t, "exit 1\n")
	client := newDeviceTestServer(t, func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte(`{"text": ""}`))
	})

	b := NewDeviceBackend(client, 16000, 1, -1, filepath.Join(t.TempDir(), "out.txt"))
	err := b.Run(context.Background(), func(Event) {})
	if err == nil {
		t.Fatal("Run returned nil after the capture process died mid-session")
	}
	if !strings.Contains(err.Error(), "capture process failed") {
		t.Errorf("err = %v, want capture failure", err)
	}
}

func TestDeviceBackendGracefulStop(t *testing.T) {
	// One full chunk (16000 Hz * 1 s * mono * 2 bytes), then hold the
	// pipe open until stopped.
	withFakeCapture(t, "head -c 32000 /dev/zero\nexec sleep 30\n")
	client := newDeviceTestServer(t, func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte(`{"text": "hello from the api"}`))
	})

	transcriptPath := filepath.Join(t.TempDir(), "out.txt")
	b := NewDeviceBackend(client, 16000, 1, -1, transcriptPath)

	texts := make(chan string, 4)
	errCh := make(chan error, 1)
	go func() {
		errCh <- b.Run(context.Background(), func(e Event) {
			if e.Type == EventTranscription {
				texts <- e.Text
			}
		})
	}()

	select {
	case text := <-texts:
		if text != "hello from the api" {
			t.Errorf("transcription = %q", text)
		}
	case <-time.After(10 * time.Second):
		t.Fatal("no transcription arrived")
	}

	if err := b.Stop(); err != nil {
		t.Fatalf("Stop: %v", err)
	}
	select {
	case err := <-errCh:
		if err != nil {
			t.Errorf("Run after graceful stop = %v, want nil", err)
		}
	case <-time.After(10 * time.Second):
		t.Fatal("Run did not return after stop")
	}

	data, err := os.ReadFile(transcriptPath)
	if err != nil || !strings.Contains(string(data), "hello from the api") {
		t.Errorf("transcript = %q, %v", data, err)
	}
}

func TestDeviceBackendChunkFailureContinues(t *testing.T) {
	// Two full chunks, then hold the pipe open.
	withFakeCapture(t, "head -c 64000 /dev/zero\nexec sleep 30\n")

	var calls atomic.Int32
	client := newDeviceTestServer(t, func(w http.ResponseWriter, r *http.Request) {
		if calls.Add(1) == 1 {
			http.Error(w, "overloaded", http.StatusServiceUnavailable)
			return
		}
		w.Write([]byte(`{"text": "recovered"}`))
	})

	b := NewDeviceBackend(client, 16000, 1, -1, filepath.Join(t.TempDir(), "out.txt"))

	infos := make(chan string, 4)
	texts := make(chan string, 4)
	errCh := make(chan error, 1)
	go func() {
		errCh <- b.Run(context.Background(), func(e Event) {
			switch e.Type {
			case EventInfo:
				infos <- e.Text
			case EventTranscription:
				texts <- e.Text
			}
		})
	}()

	select {
	case msg := <-infos:
		if !strings.Contains(msg, "chunk transcription failed") {
			t.Errorf("info = %q", msg)
		}
	case <-time.After(10 * time.Second):
		t.Fatal("no advisory for the failed chunk")
	}
	select {
	case text := <-texts:
		if text != "recovered" {
			t.Errorf("transcription = %q", text)
		}
	case <-time.After(10 * time.Second):
		t.Fatal("transcription stopped after one failed chunk")
	}

	if err := b.Stop(); err != nil {
		t.Fatalf("Stop: %v", err)
	}
	select {
	case err := <-errCh:
		if err != nil {
			t.Errorf("Run = %v, want nil", err)
		}
	case <-time.After(10 * time.Second):
		t.Fatal("Run did not return after stop")
	}
}

func TestDeviceBackendStopBeforeRun(t *testing.T) {
	client := NewRemoteClient("http://127.0.0.1:1/unused", "")
	b := NewDeviceBackend(client, 16000, 1, -1, filepath.Join(t.TempDir(), "out.txt"))

	if err := b.Stop(); err != nil {
		t.Fatal(err)
	}
	if err := b.Run(context.Background(), func(Event) {}); !errors.Is(err, ErrStoppedBeforeStart) {
		t.Errorf("Run = %v, want ErrStoppedBeforeStart", err)
	}
}
