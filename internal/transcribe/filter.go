package transcribe

import (
	"regexp"
	"strings"
)

// ansiEscape matches standard terminal escape sequences.
var ansiEscape = regexp.MustCompile(`\x1B(?:[@-Z\\-_]|\[[0-?]*[ -/]*[@-~])`)

// skipPatterns are diagnostic substrings emitted by the whisper.cpp stream
// binary that must never be forwarded as transcription text.
var skipPatterns = []string{
	"whisper_init_from_file",
	"whisper_init_with_params",
	"whisper_model_load",
	"whisper_backend_init",
	"ggml_metal_init",
	"whisper_init_state",
	"main: processing",
	"main: n_new_line",
	"[ Silence ]",
	"[BLANK_AUDIO]",
	"[Start speaking]",
	"init:",
	"whisper_print_timings",
	"found ",
	"attempt to open",
	"obtained spec",
	"sample rate:",
	"format:",
	"channels:",
	"samples per frame:",
}

// CleanLine strips ANSI escape sequences and known cursor-control bytes
// from a raw output line and trims surrounding whitespace.
func CleanLine(raw string) string {
	clean := ansiEscape.ReplaceAllString(raw, "")
	clean = strings.ReplaceAll(clean, "[2K", "")
	return strings.TrimSpace(clean)
}

// IsTranscription reports whether a cleaned line is genuine transcription
// text rather than diagnostic noise. Empty lines, known diagnostic banners,
// single characters, and punctuation-only lines are all rejected.
func IsTranscription(clean string) bool {
	if clean == "" {
		return false
	}
	for _, pattern := range skipPatterns {
		if strings.Contains(clean, pattern) {
			return false
		}
	}
	if len(clean) <= 1 {
		return false
	}
	if strings.TrimSpace(strings.ReplaceAll(clean, ".", "")) == "" {
		return false
	}
	return true
}

// Filter cleans a raw backend output line and reports whether it should be
// emitted as transcription.
func Filter(raw string) (string, bool) {
	clean := CleanLine(raw)
	return clean, IsTranscription(clean)
}
