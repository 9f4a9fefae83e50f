package config

import (
	"strings"
	"testing"
)

func TestSanitizeName(t *testing.T) {
	tests := []struct {
		name string
		in   string
		want string
	}{
		{"plain", "Standup", "Standup"},
		{"spaces kept", "Weekly Sync", "Weekly Sync"},
		{"path separators removed", "../../etc/passwd", "....etcpasswd"},
		{"disallowed chars dropped", "Q3 <Plan> #7!", "Q3 Plan 7"},
		{"empty falls back", "", "meeting"},
		{"only dots falls back", "...", "meeting"},
		{"only invalid falls back", "###", "meeting"},
		{"trimmed", "  padded  ", "padded"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := SanitizeName(tt.in); got != tt.want {
				t.Errorf("SanitizeName(%q) = %q, want %q", tt.in, got, tt.want)
			}
		})
	}
}

func TestSanitizeNameTruncates(t *testing.T) {
	long := strings.Repeat("a", 3*MaxNameLength)
	got := SanitizeName(long)
	if len(got) != MaxNameLength {
		t.Errorf("len = %d, want %d", len(got), MaxNameLength)
	}
}

func TestSanitizeNameWhitelist(t *testing.T) {
	inputs := []string{"héllo wörld", "tab\there", "new\nline", "emoji 🎙 name"}
	for _, in := range inputs {
		got := SanitizeName(in)
		for _, r := range got {
			if !strings.ContainsRune(allowedNameChars, r) {
				t.Errorf("SanitizeName(%q) = %q contains disallowed rune %q", in, got, r)
			}
		}
		if got == "" {
			t.Errorf("SanitizeName(%q) returned empty string", in)
		}
	}
}
