package config

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/BurntSushi/toml"
	"github.com/joho/godotenv"
)

const (
	// MaxNameLength caps sanitized meeting names used in filenames.
	MaxNameLength = 100

	// allowedNameChars is the whitelist for sanitized meeting names.
	allowedNameChars = "abcdefghijklmnopqrstuvwxyzABCDEFGHIJKLMNOPQRSTUVWXYZ0123456789-_. "

	// DefaultName is used when a meeting name sanitizes to nothing.
	DefaultName = "meeting"
)

// Config holds all runtime configuration for localscribe.
type Config struct {
	WhisperPath    string // directory containing the whisper.cpp stream binary
	WhisperModel   string // path to the ggml model file
	WhisperThreads int

	WorkDir    string // where in-progress transcripts are written
	OutputDir  string // where finished transcripts/summaries are moved
	PromptsDir string

	SummaryAPIURL string
	SummaryAPIKey string
	SummaryModel  string

	// TranscribeAPIURL enables the device-capture backend when set.
	TranscribeAPIURL string
	SampleRate       int
	ChunkSeconds     int

	HistoryDBPath string
}

type fileConfig struct {
	WhisperPath      string `toml:"whisper_path"`
	WhisperModel     string `toml:"whisper_model"`
	WhisperThreads   int    `toml:"whisper_threads"`
	WorkDir          string `toml:"work_dir"`
	OutputDir        string `toml:"output_dir"`
	PromptsDir       string `toml:"prompts_dir"`
	SummaryAPIURL    string `toml:"summary_api_url"`
	SummaryAPIKey    string `toml:"summary_api_key"`
	SummaryModel     string `toml:"summary_model"`
	TranscribeAPIURL string `toml:"transcribe_api_url"`
	SampleRate       int    `toml:"sample_rate"`
	ChunkSeconds     int    `toml:"chunk_seconds"`
	HistoryDBPath    string `toml:"history_db"`
}

func Load() (*Config, error) {
	// Optional .env file in the current directory, matching how API keys
	// have historically been distributed alongside the app.
	_ = godotenv.Load()

	home, _ := os.UserHomeDir()

	cfg := &Config{
		WhisperPath:    filepath.Join(home, "Documents", "Work", "whisper.cpp"),
		WhisperThreads: 8,
		WorkDir:        ".",
		OutputDir:      filepath.Join(home, "Documents", "Work", "calls"),
		SummaryAPIURL:  "https://api.perplexity.ai/chat/completions",
		SummaryModel:   "sonar",
		SampleRate:     16000,
		ChunkSeconds:   5,
	}

	if path := configFilePath(); path != "" {
		var fc fileConfig
		if _, err := toml.DecodeFile(path, &fc); err != nil {
			return nil, fmt.Errorf("reading %s: %w", path, err)
		}
		applyFileConfig(cfg, &fc)
	}

	applyEnvOverrides(cfg)

	if cfg.WhisperModel == "" {
		cfg.WhisperModel = filepath.Join(cfg.WhisperPath, "models", "ggml-small.en-tdrz.bin")
	}
	if cfg.PromptsDir == "" {
		cfg.PromptsDir = defaultPromptsDir()
	}

	return cfg, nil
}

func applyFileConfig(cfg *Config, fc *fileConfig) {
	if fc.WhisperPath != "" {
		cfg.WhisperPath = expandTilde(fc.WhisperPath)
	}
	if fc.WhisperModel != "" {
		cfg.WhisperModel = expandTilde(fc.WhisperModel)
	}
	if fc.WhisperThreads > 0 {
		cfg.WhisperThreads = fc.WhisperThreads
	}
	if fc.WorkDir != "" {
		cfg.WorkDir = expandTilde(fc.WorkDir)
	}
	if fc.OutputDir != "" {
		cfg.OutputDir = expandTilde(fc.OutputDir)
	}
	if fc.PromptsDir != "" {
		cfg.PromptsDir = expandTilde(fc.PromptsDir)
	}
	if fc.SummaryAPIURL != "" {
		cfg.SummaryAPIURL = fc.SummaryAPIURL
	}
	if fc.SummaryAPIKey != "" {
		cfg.SummaryAPIKey = fc.SummaryAPIKey
	}
	if fc.SummaryModel != "" {
		cfg.SummaryModel = fc.SummaryModel
	}
	if fc.TranscribeAPIURL != "" {
		cfg.TranscribeAPIURL = fc.TranscribeAPIURL
	}
	if fc.SampleRate > 0 {
		cfg.SampleRate = fc.SampleRate
	}
	if fc.ChunkSeconds > 0 {
		cfg.ChunkSeconds = fc.ChunkSeconds
	}
	if fc.HistoryDBPath != "" {
		cfg.HistoryDBPath = expandTilde(fc.HistoryDBPath)
	}
}

func applyEnvOverrides(cfg *Config) {
	if v := os.Getenv("LOCALSCRIBE_WHISPER_PATH"); v != "" {
		cfg.WhisperPath = expandTilde(v)
	}
	if v := os.Getenv("LOCALSCRIBE_WHISPER_MODEL"); v != "" {
		cfg.WhisperModel = expandTilde(v)
	}
	if v := os.Getenv("LOCALSCRIBE_OUTPUT_DIR"); v != "" {
		cfg.OutputDir = expandTilde(v)
	}
	if v := os.Getenv("PERPLEXITY_API_KEY"); v != "" {
		cfg.SummaryAPIKey = v
	}
	if v := os.Getenv("LOCALSCRIBE_TRANSCRIBE_API_URL"); v != "" {
		cfg.TranscribeAPIURL = v
	}
}

// Validate checks that required paths and credentials are present.
// It returns every problem found so the operator can fix them in one pass.
func (c *Config) Validate() []error {
	var errs []error

	if c.SummaryAPIKey == "" {
		errs = append(errs, fmt.Errorf("summarization API key is required (set PERPLEXITY_API_KEY)"))
	}
	if _, err := os.Stat(c.WhisperPath); err != nil {
		errs = append(errs, fmt.Errorf("whisper.cpp path not found: %s", c.WhisperPath))
	}
	if _, err := os.Stat(c.WhisperModel); err != nil {
		errs = append(errs, fmt.Errorf("whisper model not found: %s", c.WhisperModel))
	}
	if err := os.MkdirAll(c.OutputDir, 0o755); err != nil {
		errs = append(errs, fmt.Errorf("creating output directory: %w", err))
	}

	return errs
}

// SanitizeName reduces a meeting name to a filesystem-safe token: path
// separators removed, only whitelisted characters kept, truncated to
// MaxNameLength. An empty or dots-only result falls back to DefaultName.
func SanitizeName(name string) string {
	name = strings.ReplaceAll(name, "/", "")
	name = strings.ReplaceAll(name, "\\", "")

	var b strings.Builder
	for _, r := range name {
		if strings.ContainsRune(allowedNameChars, r) {
			b.WriteRune(r)
		}
	}

	sanitized := b.String()
	if len(sanitized) > MaxNameLength {
		sanitized = sanitized[:MaxNameLength]
	}
	sanitized = strings.TrimSpace(sanitized)

	if sanitized == "" || strings.Trim(sanitized, ".") == "" {
		return DefaultName
	}
	return sanitized
}

func configFilePath() string {
	var configDir string
	if xdg := os.Getenv("XDG_CONFIG_HOME"); xdg != "" {
		configDir = filepath.Join(xdg, "localscribe")
	} else if home, err := os.UserHomeDir(); err == nil {
		configDir = filepath.Join(home, ".config", "localscribe")
	} else {
		return ""
	}

	path := filepath.Join(configDir, "config.toml")
	if _, err := os.Stat(path); err == nil {
		return path
	}
	return ""
}

func defaultPromptsDir() string {
	if xdg := os.Getenv("XDG_CONFIG_HOME"); xdg != "" {
		return filepath.Join(xdg, "localscribe", "prompts")
	}
	if home, err := os.UserHomeDir(); err == nil {
		return filepath.Join(home, ".config", "localscribe", "prompts")
	}
	return "prompts"
}

func expandTilde(path string) string {
	if strings.HasPrefix(path, "~/") {
		if home, err := os.UserHomeDir(); err == nil {
			return filepath.Join(home, path[2:])
		}
	}
	return path
}
