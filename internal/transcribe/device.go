package transcribe

import (
	"context"
	"errors"
	"fmt"
	"io"
	"os"
	"os/exec"
	"sync"
	"time"

	"github.com/ashrafosman/localscribe/internal/audio"
)

// joinGracePeriod bounds how long Run waits for the capture and
// transcription tasks after a stop before giving up on them.
const joinGracePeriod = 5 * time.Second

// DeviceBackend captures raw audio from an input device in fixed-duration
// chunks via ffmpeg and posts each chunk to a remote transcription
// endpoint. It is used when the transcription API is configured and
// passes its readiness probe.
type DeviceBackend struct {
	Client         *RemoteClient
	SampleRate     int
	ChunkSeconds   int
	Channels       int
	DeviceID       int
	TranscriptPath string

	mu            sync.Mutex
	stopRequested bool
	stop          chan struct{}
	stopOnce      sync.Once
}

func NewDeviceBackend(client *RemoteClient, sampleRate, chunkSeconds, deviceID int, transcriptPath string) *DeviceBackend {
	return &DeviceBackend{
		Client:         client,
		SampleRate:     sampleRate,
		ChunkSeconds:   chunkSeconds,
		Channels:       1,
		DeviceID:       deviceID,
		TranscriptPath: transcriptPath,
		stop:           make(chan struct{}),
	}
}

// Run opens the capture stream and blocks until a stop is requested or
// capture fails. Chunks flow through a bounded queue from the capture
// task to the transcription task.
func (b *DeviceBackend) Run(ctx context.Context, emit func(Event)) error {
	b.mu.Lock()
	if b.stopRequested {
		b.mu.Unlock()
		return ErrStoppedBeforeStart
	}
	b.mu.Unlock()

	captureCtx, cancelCapture := context.WithCancel(ctx)
	defer cancelCapture()

	cmd, stdout, err := b.openCapture(captureCtx, emit)
	if err != nil {
		return err
	}

	transcript, err := os.OpenFile(b.TranscriptPath, os.O_CREATE|os.O_WRONLY|os.O_APPEND, 0o644)
	if err != nil {
		cancelCapture()
		_ = cmd.Wait()
		return fmt.Errorf("opening transcript file: %w", err)
	}
	defer transcript.Close()

	chunkBytes := b.SampleRate * b.ChunkSeconds * b.Channels * 2
	chunks := make(chan []byte, 4)

	var tasks sync.WaitGroup
	tasks.Add(2)

	go func() {
		defer tasks.Done()
		defer close(chunks)
		b.captureLoop(stdout, chunkBytes, chunks)
	}()

	go func() {
		defer tasks.Done()
		b.transcribeLoop(ctx, chunks, transcript, emit)
	}()

	// Wait for the stop signal or for capture to end on its own, then
	// tear down the ffmpeg process and join both tasks within a bound.
	// An in-flight request may finish on its own time; it must not hold
	// up shutdown.
	joined := make(chan struct{})
	go func() {
		tasks.Wait()
		close(joined)
	}()

	select {
	case <-b.stop:
	case <-ctx.Done():
	case <-joined:
	}

	cancelCapture()
	waitErr := cmd.Wait()

	select {
	case <-joined:
	case <-time.After(joinGracePeriod):
	}

	b.mu.Lock()
	stopped := b.stopRequested
	b.mu.Unlock()

	// A stop (or caller cancellation) kills ffmpeg, so its exit status
	// only matters when capture died on its own.
	if stopped || ctx.Err() != nil {
		return nil
	}
	return classifyCaptureExit(waitErr)
}

// classifyCaptureExit maps the capture process exit state to the backend
// contract: a zero exit is a clean end of capture, anything else is a
// recording failure.
func classifyCaptureExit(waitErr error) error {
	if waitErr == nil {
		return nil
	}
	var exitErr *exec.ExitError
	if !errors.As(waitErr, &exitErr) {
		return fmt.Errorf("waiting for capture process: %w", waitErr)
	}
	return fmt.Errorf("capture process failed with code %d", exitErr.ExitCode())
}

// Stop signals both tasks to exit their loops.
func (b *DeviceBackend) Stop() error {
	b.mu.Lock()
	b.stopRequested = true
	b.mu.Unlock()
	b.stopOnce.Do(func() { close(b.stop) })
	return nil
}

// openCapture starts the ffmpeg capture process for the selected device,
// retrying once with the system default when the device cannot be opened.
func (b *DeviceBackend) openCapture(ctx context.Context, emit func(Event)) (*exec.Cmd, io.ReadCloser, error) {
	cmd := audio.CaptureCommand(ctx, b.DeviceID, b.SampleRate, b.Channels)
	stdout, err := cmd.StdoutPipe()
	if err == nil {
		err = cmd.Start()
	}
	if err == nil {
		return cmd, stdout, nil
	}

	if b.DeviceID < 0 {
		return nil, nil, fmt.Errorf("opening capture device: %w", err)
	}

	emit(Event{Type: EventInfo, Text: fmt.Sprintf("device %d unavailable, retrying with system default", b.DeviceID)})

	cmd = audio.CaptureCommand(ctx, -1, b.SampleRate, b.Channels)
	stdout, err = cmd.StdoutPipe()
	if err == nil {
		err = cmd.Start()
	}
	if err != nil {
		return nil, nil, fmt.Errorf("opening default capture device: %w", err)
	}
	return cmd, stdout, nil
}

// captureLoop reads full chunks from the capture stream into the queue
// until the stream closes or a stop is observed.
func (b *DeviceBackend) captureLoop(r io.Reader, chunkBytes int, chunks chan<- []byte) {
	for {
		buf := make([]byte, chunkBytes)
		n, err := io.ReadFull(r, buf)
		if n > 0 {
			select {
			case chunks <- buf[:n]:
			case <-b.stop:
				return
			}
		}
		if err != nil {
			return
		}
		select {
		case <-b.stop:
			return
		default:
		}
	}
}

// transcribeLoop drains the chunk queue, converting each chunk to mono
// WAV and posting it to the remote endpoint. Chunk-level text passes the
// same single-slot de-duplication as the process backend.
func (b *DeviceBackend) transcribeLoop(ctx context.Context, chunks <-chan []byte, transcript io.Writer, emit func(Event)) {
	var lastText string
	for {
		var chunk []byte
		var ok bool
		select {
		case chunk, ok = <-chunks:
			if !ok {
				return
			}
		case <-b.stop:
			return
		}

		samples := DownmixMono(BytesToSamples(chunk), b.Channels)
		wav := EncodeWAV(samples, b.SampleRate)

		text, err := b.Client.Transcribe(ctx, wav)
		if err != nil {
			if ctx.Err() != nil {
				return
			}
			// One failed chunk should not abort the whole meeting.
			emit(Event{Type: EventInfo, Text: fmt.Sprintf("chunk transcription failed: %v", err)})
			continue
		}

		clean := CleanLine(text)
		if !IsTranscription(clean) || clean == lastText {
			continue
		}
		lastText = clean
		fmt.Fprintln(transcript, clean)
		emit(Event{Type: EventTranscription, Text: clean})
	}
}
