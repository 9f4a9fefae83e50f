package audio

import (
	"context"
	"fmt"
	"os/exec"
	"runtime"
	"strconv"
)

// CheckFFmpeg verifies that ffmpeg is available for device capture.
func CheckFFmpeg() error {
	if _, err := exec.LookPath("ffmpeg"); err != nil {
		return fmt.Errorf("ffmpeg not found. Install with: brew install ffmpeg")
	}
	return nil
}

// CaptureCommand builds an ffmpeg command that streams raw little-endian
// 16-bit PCM from the given capture device to stdout. A device id < 0
// selects the system default input.
func CaptureCommand(ctx context.Context, deviceID, sampleRate, channels int) *exec.Cmd {
	input := defaultInput()
	if deviceID >= 0 {
		input = deviceInput(deviceID)
	}

	return exec.CommandContext(ctx, "ffmpeg",
		"-hide_banner", "-loglevel", "error",
		"-f", captureFormat(),
		"-i", input,
		"-ac", strconv.Itoa(channels),
		"-ar", strconv.Itoa(sampleRate),
		"-f", "s16le",
		"-",
	)
}

func captureFormat() string {
	if runtime.GOOS == "darwin" {
		return "avfoundation"
	}
	return "alsa"
}

func defaultInput() string {
	if runtime.GOOS == "darwin" {
		return ":default"
	}
	return "default"
}

func deviceInput(id int) string {
	if runtime.GOOS == "darwin" {
		return ":" + strconv.Itoa(id)
	}
	return fmt.Sprintf("hw:%d", id)
}
