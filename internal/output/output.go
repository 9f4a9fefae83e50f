package output

import (
	"fmt"
	"io"
	"time"
)

// Formatter renders user-facing CLI output.
type Formatter struct {
	w io.Writer
}

func NewFormatter(w io.Writer) *Formatter {
	return &Formatter{w: w}
}

func (f *Formatter) RecordingStarted(meetingID string) {
	fmt.Fprintf(f.w, "✅ Recording started. Meeting ID: %s\n", meetingID)
	fmt.Fprintf(f.w, "🗣️  Speak now... Press Ctrl+C to stop recording\n")
}

// Transcription prints a live transcription fragment inline.
func (f *Formatter) Transcription(text string) {
	fmt.Fprintf(f.w, "%s ", text)
}

func (f *Formatter) Status(message string) {
	fmt.Fprintf(f.w, "\nℹ️  %s\n", message)
}

func (f *Formatter) Stopping() {
	fmt.Fprintf(f.w, "\n⏹️  Stopping recording...\n")
}

func (f *Formatter) Complete(transcriptPath, summaryPath string) {
	fmt.Fprintf(f.w, "✅ Recording complete and summarized!\n")
	if transcriptPath != "" {
		fmt.Fprintf(f.w, "📝 Transcript: %s\n", transcriptPath)
	}
	if summaryPath != "" {
		fmt.Fprintf(f.w, "📋 Summary: %s\n", summaryPath)
	}
}

func (f *Formatter) Error(msg string) {
	fmt.Fprintf(f.w, "❌ %s\n", msg)
}

func (f *Formatter) Info(msg string) {
	fmt.Fprintf(f.w, "ℹ️  %s\n", msg)
}

func (f *Formatter) Warning(msg string) {
	fmt.Fprintf(f.w, "⚠️  %s\n", msg)
}

func (f *Formatter) DeviceListHeader() {
	fmt.Fprintf(f.w, "🎙  Available audio devices:\n\n")
}

func (f *Formatter) DeviceListItem(id int, name string) {
	fmt.Fprintf(f.w, "  %3d: %s\n", id, name)
}

func (f *Formatter) PromptListHeader() {
	fmt.Fprintf(f.w, "📋 Available summary types:\n\n")
}

func (f *Formatter) PromptListItem(id, name string) {
	fmt.Fprintf(f.w, "  %-12s %s\n", id, name)
}

func (f *Formatter) MeetingListHeader() {
	fmt.Fprintf(f.w, "📁 Recorded meetings:\n\n")
}

func (f *Formatter) MeetingListItem(name, date, size string, hasSummary bool) {
	marker := "📝"
	if hasSummary {
		marker = "✅"
	}
	fmt.Fprintf(f.w, "  %s %s (%s) - %s\n", marker, name, date, size)
}

func (f *Formatter) HistoryItem(name, status string, startedAt time.Time) {
	fmt.Fprintf(f.w, "  %s  %-11s %s\n", startedAt.Format("2006-01-02 15:04"), status, name)
}

func (f *Formatter) SetupCheck(name string, ok bool, detail string) {
	if ok {
		fmt.Fprintf(f.w, "  ✅ %s: %s\n", name, detail)
	} else {
		fmt.Fprintf(f.w, "  ❌ %s: %s\n", name, detail)
	}
}

func (f *Formatter) Success(msg string) {
	fmt.Fprintf(f.w, "✅ %s\n", msg)
}
