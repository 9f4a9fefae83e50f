package audio

import (
	"context"
	"os/exec"
	"path/filepath"
	"strconv"
	"strings"
	"time"
)

// Device is one selectable audio capture source. ID -1 is the pseudo
// entry for "let the backend pick its own default".
type Device struct {
	ID   int
	Name string
}

// DefaultDevice is always the first entry in any device listing.
var DefaultDevice = Device{ID: -1, Name: "Default Device"}

// ListDevices enumerates capture devices by running the whisper.cpp
// stream binary with an invalid capture id, which makes it print the
// device table and exit. Falls back to just the default entry when the
// probe fails.
func ListDevices(ctx context.Context, whisperDir string) []Device {
	ctx, cancel := context.WithTimeout(ctx, 5*time.Second)
	defer cancel()

	cmd := exec.CommandContext(ctx, filepath.Join(whisperDir, "stream"), "-c", "-2")
	cmd.Dir = whisperDir
	out, _ := cmd.CombinedOutput()

	devices := ParseDeviceList(string(out))
	return append([]Device{DefaultDevice}, devices...)
}

// ParseDeviceList extracts devices from stream's init output, which lists
// lines like:
//
//	init:    - Capture device #0: 'MacBook Pro Microphone'
func ParseDeviceList(output string) []Device {
	var devices []Device
	for _, line := range strings.Split(output, "\n") {
		if !strings.Contains(line, "Capture device #") {
			continue
		}
		_, rest, ok := strings.Cut(line, "#")
		if !ok {
			continue
		}
		idStr, namePart, ok := strings.Cut(rest, ":")
		if !ok {
			continue
		}
		id, err := strconv.Atoi(strings.TrimSpace(idStr))
		if err != nil {
			continue
		}
		name := "Device " + strings.TrimSpace(idStr)
		if i := strings.Index(namePart, "'"); i >= 0 {
			if j := strings.Index(namePart[i+1:], "'"); j >= 0 {
				name = namePart[i+1 : i+1+j]
			}
		}
		devices = append(devices, Device{ID: id, Name: name})
	}
	return devices
}
