package transcribe

import (
	"bufio"
	"context"
	"errors"
	"fmt"
	"io"
	"os"
	"os/exec"
	"path/filepath"
	"strconv"
	"sync"
	"syscall"
	"time"
)

// stopGracePeriod is how long a stopped process gets to exit on its own
// before it is killed.
const stopGracePeriod = 5 * time.Second

// ProcessBackend drives the whisper.cpp stream binary as a child process
// and converts its interleaved stdout/stderr output into filtered
// transcription events.
type ProcessBackend struct {
	BinDir         string // directory containing the stream binary
	ModelPath      string
	Threads        int
	DeviceID       int // -1 lets the binary pick its own default
	TranscriptPath string

	mu            sync.Mutex
	cmd           *exec.Cmd
	stopRequested bool
	done          chan struct{}
}

func NewProcessBackend(binDir, modelPath string, threads, deviceID int, transcriptPath string) *ProcessBackend {
	return &ProcessBackend{
		BinDir:         binDir,
		ModelPath:      modelPath,
		Threads:        threads,
		DeviceID:       deviceID,
		TranscriptPath: transcriptPath,
		done:           make(chan struct{}),
	}
}

func (b *ProcessBackend) buildArgs() []string {
	args := []string{"-m", b.ModelPath}
	if b.Threads > 0 && b.Threads != 4 {
		args = append(args, "-t", strconv.Itoa(b.Threads))
	}
	if b.DeviceID >= 0 {
		args = append(args, "-c", strconv.Itoa(b.DeviceID))
	}
	return args
}

// Run spawns the stream process and blocks until it exits. Filtered
// transcription lines are de-duplicated against the previous line,
// appended to the transcript file, and emitted in production order.
func (b *ProcessBackend) Run(ctx context.Context, emit func(Event)) error {
	defer close(b.done)

	b.mu.Lock()
	if b.stopRequested {
		b.mu.Unlock()
		return ErrStoppedBeforeStart
	}

	cmd := exec.CommandContext(ctx, filepath.Join(b.BinDir, "stream"), b.buildArgs()...)
	cmd.Dir = b.BinDir

	stdout, err := cmd.StdoutPipe()
	if err != nil {
		b.mu.Unlock()
		return fmt.Errorf("stdout pipe: %w", err)
	}
	stderr, err := cmd.StderrPipe()
	if err != nil {
		b.mu.Unlock()
		return fmt.Errorf("stderr pipe: %w", err)
	}

	if err := cmd.Start(); err != nil {
		b.mu.Unlock()
		return fmt.Errorf("starting stream process: %w", err)
	}
	b.cmd = cmd
	b.mu.Unlock()

	transcript, err := os.OpenFile(b.TranscriptPath, os.O_CREATE|os.O_WRONLY|os.O_APPEND, 0o644)
	if err != nil {
		_ = cmd.Process.Kill()
		_ = cmd.Wait()
		return fmt.Errorf("opening transcript file: %w", err)
	}
	defer transcript.Close()

	// The two streams are drained independently; only per-stream ordering
	// matters, so both feed a single shared channel.
	lines := make(chan string, 64)
	var readers sync.WaitGroup
	readers.Add(2)
	go drainLines(stdout, lines, &readers)
	go drainLines(stderr, lines, &readers)
	go func() {
		readers.Wait()
		close(lines)
	}()

	var lastLine string
	for line := range lines {
		clean, ok := Filter(line)
		if !ok || clean == lastLine {
			continue
		}
		lastLine = clean
		fmt.Fprintln(transcript, clean)
		emit(Event{Type: EventTranscription, Text: clean})
	}

	waitErr := cmd.Wait()

	b.mu.Lock()
	stopped := b.stopRequested
	b.mu.Unlock()

	return classifyExit(waitErr, stopped)
}

// Stop sends an interrupt to the running process and arranges a kill if
// it has not exited within the grace period. Safe to call before Run,
// in which case Run skips spawning entirely.
func (b *ProcessBackend) Stop() error {
	b.mu.Lock()
	b.stopRequested = true
	cmd := b.cmd
	b.mu.Unlock()

	if cmd == nil || cmd.Process == nil {
		return nil
	}

	if err := cmd.Process.Signal(os.Interrupt); err != nil {
		// Already gone.
		return nil
	}

	go func() {
		select {
		case <-b.done:
		case <-time.After(stopGracePeriod):
			_ = cmd.Process.Kill()
		}
	}()

	return nil
}

func drainLines(r io.Reader, out chan<- string, wg *sync.WaitGroup) {
	defer wg.Done()
	scanner := bufio.NewScanner(r)
	scanner.Buffer(make([]byte, 0, 64*1024), 1024*1024)
	for scanner.Scan() {
		out <- scanner.Text()
	}
}

// classifyExit maps the process exit state to the backend contract: a
// zero exit code or an interrupt-induced termination is a clean stop,
// anything else is a recording failure.
func classifyExit(waitErr error, stopRequested bool) error {
	if waitErr == nil {
		return nil
	}

	var exitErr *exec.ExitError
	if !errors.As(waitErr, &exitErr) {
		return fmt.Errorf("waiting for stream process: %w", waitErr)
	}

	if ws, ok := exitErr.Sys().(syscall.WaitStatus); ok {
		if ws.Signaled() && ws.Signal() == syscall.SIGINT {
			return nil
		}
		// Some builds catch SIGINT and exit with 130 (128+SIGINT).
		if stopRequested && ws.ExitStatus() == 130 {
			return nil
		}
	}

	return fmt.Errorf("recording failed with code %d", exitErr.ExitCode())
}
