package meeting

import (
	"context"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"time"
)

// summarizeTimeout bounds the remote summarization call so an
// unreachable endpoint cannot hang a session indefinitely.
const summarizeTimeout = 2 * time.Minute

// postProcess reads the finished transcript, summarizes it with the
// session's prompt template, writes the summary, and relocates both
// files to the output directory. On any failure the transcript is left
// in the working directory so no data is lost.
func (s *Service) postProcess(sess *Session) error {
	transcriptPath := filepath.Join(s.cfg.WorkDir, sess.TranscriptFilename)
	data, err := os.ReadFile(transcriptPath)
	if err != nil {
		return fmt.Errorf("transcript file not found: %w", err)
	}

	prompt := s.prompts.Content(sess.PromptID)

	ctx, cancel := context.WithTimeout(context.Background(), summarizeTimeout)
	defer cancel()

	summary, err := s.summarizer.Summarize(ctx, prompt, string(data))
	if err != nil {
		return fmt.Errorf("summarization: %w", err)
	}

	summaryPath := filepath.Join(s.cfg.WorkDir, sess.SummaryFilename)
	if err := os.WriteFile(summaryPath, []byte(summary), 0o644); err != nil {
		return fmt.Errorf("writing summary: %w", err)
	}

	finalTranscript := filepath.Join(s.cfg.OutputDir, sess.TranscriptFilename)
	if err := moveFile(transcriptPath, finalTranscript); err != nil {
		return fmt.Errorf("moving transcript: %w", err)
	}

	finalSummary := filepath.Join(s.cfg.OutputDir, sess.SummaryFilename)
	if err := moveFile(summaryPath, finalSummary); err != nil {
		return fmt.Errorf("moving summary: %w", err)
	}

	sess.setFinalPaths(finalTranscript, finalSummary)
	return nil
}

// moveFile renames src to dst, falling back to copy-and-remove when they
// live on different filesystems.
func moveFile(src, dst string) error {
	if err := os.Rename(src, dst); err == nil {
		return nil
	}

	in, err := os.Open(src)
	if err != nil {
		return err
	}
	defer in.Close()

	out, err := os.Create(dst)
	if err != nil {
		return err
	}
	if _, err := io.Copy(out, in); err != nil {
		out.Close()
		return err
	}
	if err := out.Close(); err != nil {
		return err
	}
	return os.Remove(src)
}
