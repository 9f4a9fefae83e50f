package meeting

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"sync"
	"time"

	"github.com/google/uuid"

	"github.com/ashrafosman/localscribe/config"
	"github.com/ashrafosman/localscribe/internal/history"
	"github.com/ashrafosman/localscribe/internal/prompts"
	"github.com/ashrafosman/localscribe/internal/summarize"
	"github.com/ashrafosman/localscribe/internal/transcribe"
)

var (
	// ErrNotFound is returned for operations on an unknown session id.
	ErrNotFound = errors.New("meeting not found")

	// ErrNotActive is returned when stopping a session that is not
	// currently starting or recording.
	ErrNotActive = errors.New("meeting not active")
)

// Service orchestrates recording sessions: it owns the session registry,
// starts a capture backend per session on a background goroutine, fans
// status and transcription events out to subscribers, and runs the
// post-processing pipeline once capture ends.
type Service struct {
	cfg        *config.Config
	summarizer *summarize.Client
	prompts    *prompts.Store
	logger     *slog.Logger

	mu       sync.RWMutex
	sessions map[string]*Session

	hist *history.Store

	// newBackend builds the capture backend for a session. Overridable
	// in tests; nil selects between the device and process backends.
	newBackend func(sess *Session, emit func(transcribe.Event)) transcribe.Backend
}

func NewService(cfg *config.Config) *Service {
	return &Service{
		cfg:        cfg,
		summarizer: summarize.NewClient(cfg.SummaryAPIURL, cfg.SummaryAPIKey, cfg.SummaryModel),
		prompts:    prompts.NewStore(cfg.PromptsDir),
		logger:     slog.Default(),
		sessions:   make(map[string]*Session),
	}
}

// AttachHistory enables best-effort recording of terminal sessions.
func (s *Service) AttachHistory(h *history.Store) {
	s.hist = h
}

// Prompts exposes the prompt template store for listing.
func (s *Service) Prompts() *prompts.Store {
	return s.prompts
}

// Start validates configuration, allocates a session with unique
// filenames, and launches its backend on a background goroutine. It
// returns the session id immediately. Sinks passed here are subscribed
// before any event can fire; more can be added later via Subscribe.
func (s *Service) Start(name string, deviceID int, promptID string, sinks ...Sink) (string, error) {
	if errs := s.cfg.Validate(); len(errs) > 0 {
		return "", fmt.Errorf("configuration errors: %w", errors.Join(errs...))
	}

	sanitized := config.SanitizeName(name)

	sess := &Session{
		ID:            uuid.NewString(),
		Name:          name,
		SanitizedName: sanitized,
		DeviceID:      deviceID,
		PromptID:      promptID,
		StartTime:     time.Now(),
		status:        StatusStarting,
		subscribers:   sinks,
		done:          make(chan struct{}),
	}

	// Filename allocation and registration happen under one lock so two
	// concurrent starts with the same name cannot both claim the same
	// candidate.
	s.mu.Lock()
	sess.TranscriptFilename, sess.SummaryFilename = s.uniqueFilenames(sanitized)
	s.sessions[sess.ID] = sess
	s.mu.Unlock()

	go s.runSession(sess)

	return sess.ID, nil
}

// uniqueFilenames derives <date>_<name>.txt and its summary companion,
// appending an incrementing numeric suffix until neither file exists in
// the working directory. Caller holds s.mu.
func (s *Service) uniqueFilenames(sanitized string) (transcript, summary string) {
	date := time.Now().Format("2006-01-02")
	base := date + "_" + sanitized

	for n := 0; ; n++ {
		candidate := base
		if n > 0 {
			candidate = fmt.Sprintf("%s_%d", base, n)
		}
		transcript = candidate + ".txt"
		summary = transcript + "-summarized.txt"

		if !s.fileExists(transcript) && !s.fileExists(summary) {
			return transcript, summary
		}
	}
}

// fileExists reports whether the name is taken on disk or by a
// registered session whose file has not appeared yet. Caller holds s.mu.
func (s *Service) fileExists(name string) bool {
	if _, err := os.Stat(filepath.Join(s.cfg.WorkDir, name)); err == nil {
		return true
	}
	for _, sess := range s.sessions {
		if sess.TranscriptFilename == name {
			return true
		}
	}
	return false
}

// Stop requests a graceful stop. It is idempotent-safe: stopping a
// session that is already stopping is a no-op, while stopping one that
// is processing or terminal returns ErrNotActive.
func (s *Service) Stop(id string) error {
	sess, ok := s.lookup(id)
	if !ok {
		return fmt.Errorf("%w: %s", ErrNotFound, id)
	}

	// The status check and transition are one atomic step, so a backend
	// finishing naturally cannot have stopping stamped over a later
	// state, and an inactive session is left completely untouched.
	sess.mu.Lock()
	status := sess.status
	var backend transcribe.Backend
	switch status {
	case StatusStarting:
		// Backend may not exist yet; runSession observes stopRequested
		// and refuses to begin capture.
		sess.stopRequested = true
		backend = sess.backend
	case StatusRecording:
		sess.stopRequested = true
		sess.status = StatusStopping
		backend = sess.backend
	case StatusStopping:
		sess.mu.Unlock()
		return nil
	default:
		sess.mu.Unlock()
		return fmt.Errorf("%w: %s is %s", ErrNotActive, id, status)
	}
	sess.mu.Unlock()

	if backend != nil {
		return backend.Stop()
	}
	return nil
}

// Status returns the session's current state, or ErrNotFound.
func (s *Service) Status(id string) (Status, error) {
	sess, ok := s.lookup(id)
	if !ok {
		return "", fmt.Errorf("%w: %s", ErrNotFound, id)
	}
	return sess.Status(), nil
}

// Subscribe attaches a sink to the session's event stream.
func (s *Service) Subscribe(id string, sink Sink) error {
	sess, ok := s.lookup(id)
	if !ok {
		return fmt.Errorf("%w: %s", ErrNotFound, id)
	}
	sess.Subscribe(sink)
	return nil
}

// Done returns a channel closed once the session reaches a terminal
// state.
func (s *Service) Done(id string) (<-chan struct{}, error) {
	sess, ok := s.lookup(id)
	if !ok {
		return nil, fmt.Errorf("%w: %s", ErrNotFound, id)
	}
	return sess.Done(), nil
}

// Session returns the session record for inspection.
func (s *Service) Session(id string) (*Session, bool) {
	return s.lookup(id)
}

func (s *Service) lookup(id string) (*Session, bool) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	sess, ok := s.sessions[id]
	return sess, ok
}

// runSession drives one session from backend selection through capture
// to post-processing. Every failure is absorbed here as a terminal error
// status; nothing propagates past this goroutine.
func (s *Service) runSession(sess *Session) {
	defer func() {
		if r := recover(); r != nil {
			s.logger.Error("session task panicked", "meeting_id", sess.ID, "panic", r)
			s.fail(sess, fmt.Sprintf("recording error: %v", r))
		}
		s.recordHistory(sess)
	}()

	emit := func(e transcribe.Event) {
		switch e.Type {
		case transcribe.EventTranscription:
			sess.notify(s.logger, "transcription", e.Text)
		case transcribe.EventInfo:
			sess.notify(s.logger, "info", e.Text)
		}
	}

	build := s.newBackend
	if build == nil {
		build = s.selectBackend
	}
	backend := build(sess, emit)
	sess.setBackend(backend)

	if sess.stopWasRequested() {
		s.fail(sess, "recording stopped before start")
		return
	}

	if !sess.setStatus(StatusRecording) {
		return
	}
	sess.notify(s.logger, string(StatusRecording), "Recording started")

	err := backend.Run(context.Background(), emit)
	if err != nil {
		if errors.Is(err, transcribe.ErrStoppedBeforeStart) {
			s.fail(sess, "recording stopped before start")
		} else {
			s.fail(sess, fmt.Sprintf("recording failed: %v", err))
		}
		return
	}

	if !sess.setStatus(StatusProcessing) {
		return
	}
	sess.notify(s.logger, string(StatusProcessing), "Processing and summarizing...")

	if err := s.postProcess(sess); err != nil {
		s.fail(sess, fmt.Sprintf("processing error: %v", err))
		return
	}

	if sess.setStatus(StatusComplete) {
		sess.notify(s.logger, string(StatusComplete), "Meeting processing complete")
	}
}

// selectBackend probes the remote transcription endpoint when one is
// configured. A failed probe is not an error: the session falls back to
// the local process backend with an advisory message.
func (s *Service) selectBackend(sess *Session, emit func(transcribe.Event)) transcribe.Backend {
	transcriptPath := filepath.Join(s.cfg.WorkDir, sess.TranscriptFilename)

	if s.cfg.TranscribeAPIURL != "" {
		client := transcribe.NewRemoteClient(s.cfg.TranscribeAPIURL, "")
		if err := client.Probe(context.Background(), s.cfg.SampleRate); err == nil {
			return transcribe.NewDeviceBackend(client, s.cfg.SampleRate, s.cfg.ChunkSeconds, sess.DeviceID, transcriptPath)
		} else {
			emit(transcribe.Event{
				Type: transcribe.EventInfo,
				Text: fmt.Sprintf("transcription API unreachable, using local capture: %v", err),
			})
		}
	}

	return transcribe.NewProcessBackend(
		s.cfg.WhisperPath,
		s.cfg.WhisperModel,
		s.cfg.WhisperThreads,
		sess.DeviceID,
		transcriptPath,
	)
}

func (s *Service) fail(sess *Session, message string) {
	if sess.setStatus(StatusError) {
		sess.notify(s.logger, string(StatusError), message)
	}
}

func (s *Service) recordHistory(sess *Session) {
	if s.hist == nil {
		return
	}
	transcript, summary := sess.FinalPaths()
	err := s.hist.Record(history.Entry{
		ID:             sess.ID,
		Name:           sess.Name,
		Status:         string(sess.Status()),
		TranscriptPath: transcript,
		SummaryPath:    summary,
		StartedAt:      sess.StartTime,
		EndedAt:        time.Now(),
	})
	if err != nil {
		s.logger.Warn("recording session history failed", "meeting_id", sess.ID, "error", err)
	}
}
