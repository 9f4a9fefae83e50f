package history

import (
	"path/filepath"
	"testing"
	"time"
)

func openTestStore(t *testing.T) *Store {
	t.Helper()
	s, err := Open(filepath.Join(t.TempDir(), "history.sqlite"))
	if err != nil {
		t.Fatalf("Open: %v", err)
	}
	t.Cleanup(func() { s.Close() })
	return s
}

func TestRecordAndRecent(t *testing.T) {
	s := openTestStore(t)

	base := time.Date(2026, 8, 30, 10, 0, 0, 0, time.UTC)
	entries := []Entry{
		{ID: "a", Name: "Standup", Status: "complete", TranscriptPath: "/calls/a.txt", StartedAt: base, EndedAt: base.Add(10 * time.Minute)},
		{ID: "b", Name: "Retro", Status: "error", StartedAt: base.Add(time.Hour), EndedAt: base.Add(2 * time.Hour)},
	}
	for _, e := range entries {
		if err := s.Record(e); err != nil {
			t.Fatalf("Record(%s): %v", e.ID, err)
		}
	}

	got, err := s.Recent(10)
	if err != nil {
		t.Fatalf("Recent: %v", err)
	}
	if len(got) != 2 {
		t.Fatalf("got %d entries, want 2", len(got))
	}
	// Most recently started first.
	if got[0].ID != "b" || got[1].ID != "a" {
		t.Errorf("order = %s, %s; want b, a", got[0].ID, got[1].ID)
	}
	if got[1].TranscriptPath != "/calls/a.txt" {
		t.Errorf("transcriptPath = %q", got[1].TranscriptPath)
	}
	if !got[1].StartedAt.Equal(base) {
		t.Errorf("startedAt = %v, want %v", got[1].StartedAt, base)
	}
}

func TestRecordReplacesExisting(t *testing.T) {
	s := openTestStore(t)

	e := Entry{ID: "x", Name: "Sync", Status: "recording", StartedAt: time.Now(), EndedAt: time.Now()}
	if err := s.Record(e); err != nil {
		t.Fatal(err)
	}
	e.Status = "complete"
	if err := s.Record(e); err != nil {
		t.Fatal(err)
	}

	got, err := s.Recent(10)
	if err != nil {
		t.Fatal(err)
	}
	if len(got) != 1 {
		t.Fatalf("got %d entries, want 1", len(got))
	}
	if got[0].Status != "complete" {
		t.Errorf("status = %q, want complete", got[0].Status)
	}
}

func TestRecentLimit(t *testing.T) {
	s := openTestStore(t)
	for i := 0; i < 5; i++ {
		err := s.Record(Entry{
			ID:        string(rune('a' + i)),
			Name:      "m",
			Status:    "complete",
			StartedAt: time.Now().Add(time.Duration(i) * time.Minute),
			EndedAt:   time.Now(),
		})
		if err != nil {
			t.Fatal(err)
		}
	}

	got, err := s.Recent(3)
	if err != nil {
		t.Fatal(err)
	}
	if len(got) != 3 {
		t.Errorf("got %d entries, want 3", len(got))
	}
}
