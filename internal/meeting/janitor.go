package meeting

import (
	"context"
	"time"
)

const (
	// DefaultReapInterval is how often the janitor scans the registry.
	DefaultReapInterval = 5 * time.Minute
	// DefaultReapGrace is how long a terminal session stays queryable
	// before removal.
	DefaultReapGrace = 5 * time.Minute
)

// Janitor periodically removes sessions that have been terminal longer
// than the grace window.
type Janitor struct {
	svc      *Service
	interval time.Duration
	grace    time.Duration
	stop     chan struct{}
}

func NewJanitor(svc *Service) *Janitor {
	return &Janitor{
		svc:      svc,
		interval: DefaultReapInterval,
		grace:    DefaultReapGrace,
		stop:     make(chan struct{}),
	}
}

// Start begins the reap loop on a background goroutine.
func (j *Janitor) Start() {
	go func() {
		ticker := time.NewTicker(j.interval)
		defer ticker.Stop()
		for {
			select {
			case <-ticker.C:
				if n := j.svc.reapTerminal(j.grace); n > 0 {
					j.svc.logger.Info("reaped terminal sessions", "count", n)
				}
			case <-j.stop:
				return
			}
		}
	}()
}

// Stop ends the reap loop.
func (j *Janitor) Stop() {
	close(j.stop)
}

// reapTerminal removes every session that has been terminal for longer
// than grace and returns how many were removed.
func (s *Service) reapTerminal(grace time.Duration) int {
	cutoff := time.Now().Add(-grace)

	s.mu.Lock()
	defer s.mu.Unlock()

	var removed int
	for id, sess := range s.sessions {
		if since, terminal := sess.terminalSince(); terminal && since.Before(cutoff) {
			delete(s.sessions, id)
			removed++
		}
	}
	return removed
}

// Shutdown force-stops every active backend, waits a bounded period for
// sessions to wind down, marks any still-active session interrupted, and
// clears the registry. Used on process exit.
func (s *Service) Shutdown(ctx context.Context) {
	s.mu.RLock()
	sessions := make([]*Session, 0, len(s.sessions))
	for _, sess := range s.sessions {
		sessions = append(sessions, sess)
	}
	s.mu.RUnlock()

	for _, sess := range sessions {
		sess.markStopRequested()
		if backend := sess.currentBackend(); backend != nil && !sess.Status().Terminal() {
			if err := backend.Stop(); err != nil {
				s.logger.Warn("stopping backend failed", "meeting_id", sess.ID, "error", err)
			}
		}
	}

	deadline := time.After(3 * time.Second)
	for _, sess := range sessions {
		select {
		case <-sess.Done():
		case <-deadline:
		case <-ctx.Done():
		}
	}

	for _, sess := range sessions {
		if sess.setStatus(StatusInterrupted) {
			sess.notify(s.logger, string(StatusInterrupted), "Shutting down")
		}
	}

	s.mu.Lock()
	s.sessions = make(map[string]*Session)
	s.mu.Unlock()
}
