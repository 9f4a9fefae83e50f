package meeting

import (
	"sync"
	"time"

	"github.com/ashrafosman/localscribe/internal/transcribe"
)

// Status is the lifecycle state of a recording session.
type Status string

const (
	StatusStarting    Status = "starting"
	StatusRecording   Status = "recording"
	StatusStopping    Status = "stopping"
	StatusProcessing  Status = "processing"
	StatusComplete    Status = "complete"
	StatusError       Status = "error"
	StatusInterrupted Status = "interrupted"
)

// Terminal reports whether no further transitions can occur.
func (s Status) Terminal() bool {
	return s == StatusComplete || s == StatusError || s == StatusInterrupted
}

// Session is the in-memory state of one recording attempt. The id and
// the derived filenames never change after creation; everything else is
// mutated only by the Service and its background task.
type Session struct {
	ID            string
	Name          string
	SanitizedName string
	DeviceID      int
	PromptID      string
	StartTime     time.Time

	// Base filenames, relative to the working directory until the
	// post-processor relocates them.
	TranscriptFilename string
	SummaryFilename    string

	mu                  sync.Mutex
	status              Status
	backend             transcribe.Backend
	subscribers         []Sink
	stopRequested       bool
	endedAt             time.Time
	finalTranscriptPath string
	finalSummaryPath    string
	done                chan struct{}
}

// Status returns the current lifecycle state.
func (s *Session) Status() Status {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.status
}

// setStatus transitions the session, refusing to resurrect a terminal
// session. It reports whether the transition was applied.
func (s *Session) setStatus(next Status) bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.status.Terminal() {
		return false
	}
	s.status = next
	if next.Terminal() {
		s.endedAt = time.Now()
		close(s.done)
	}
	return true
}

// Done is closed once the session reaches a terminal state.
func (s *Session) Done() <-chan struct{} {
	return s.done
}

// FinalPaths returns the relocated transcript and summary paths, empty
// until post-processing succeeds.
func (s *Session) FinalPaths() (transcript, summary string) {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.finalTranscriptPath, s.finalSummaryPath
}

func (s *Session) setFinalPaths(transcript, summary string) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.finalTranscriptPath = transcript
	s.finalSummaryPath = summary
}

func (s *Session) markStopRequested() {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.stopRequested = true
}

func (s *Session) stopWasRequested() bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.stopRequested
}

func (s *Session) setBackend(b transcribe.Backend) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.backend = b
}

func (s *Session) currentBackend() transcribe.Backend {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.backend
}

func (s *Session) terminalSince() (time.Time, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if !s.status.Terminal() {
		return time.Time{}, false
	}
	return s.endedAt, true
}
