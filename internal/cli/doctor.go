package cli

import (
	"fmt"
	"os"
	"path/filepath"

	"github.com/spf13/cobra"

	"github.com/ashrafosman/localscribe/internal/audio"
	"github.com/ashrafosman/localscribe/internal/output"
)

func NewDoctorCmd(deps *Dependencies) *cobra.Command {
	return &cobra.Command{
		Use:   "doctor",
		Short: "Check that everything needed for recording is in place",
		RunE: func(cmd *cobra.Command, args []string) error {
			f := output.NewFormatter(os.Stdout)
			cfg := deps.Config
			ok := true

			streamPath := filepath.Join(cfg.WhisperPath, "stream")
			if _, err := os.Stat(streamPath); err == nil {
				f.SetupCheck("whisper.cpp stream binary", true, streamPath)
			} else {
				f.SetupCheck("whisper.cpp stream binary", false, "not found at "+streamPath)
				ok = false
			}

			if _, err := os.Stat(cfg.WhisperModel); err == nil {
				f.SetupCheck("whisper model", true, cfg.WhisperModel)
			} else {
				f.SetupCheck("whisper model", false, "not found at "+cfg.WhisperModel)
				ok = false
			}

			if err := audio.CheckFFmpeg(); err == nil {
				f.SetupCheck("ffmpeg", true, "available on PATH")
			} else {
				// Only needed for device capture via the transcription API.
				required := cfg.TranscribeAPIURL != ""
				f.SetupCheck("ffmpeg", !required, err.Error())
				if required {
					ok = false
				}
			}

			if cfg.SummaryAPIKey != "" {
				f.SetupCheck("summarization API key", true, "configured")
			} else {
				f.SetupCheck("summarization API key", false, "set PERPLEXITY_API_KEY")
				ok = false
			}

			if err := os.MkdirAll(cfg.OutputDir, 0o755); err == nil {
				f.SetupCheck("output directory", true, cfg.OutputDir)
			} else {
				f.SetupCheck("output directory", false, err.Error())
				ok = false
			}

			if !ok {
				return fmt.Errorf("setup is incomplete")
			}
			f.Success("everything looks good")
			return nil
		},
	}
}
