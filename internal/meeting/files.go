package meeting

import (
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"strings"
)

// File describes one finished meeting found in the output directory.
type File struct {
	Name           string
	Date           string
	Size           string
	TranscriptPath string
	SummaryPath    string // empty when no summary exists
}

// ListFiles scans the output directory for transcript files and pairs
// them with their summaries, newest date first.
func (s *Service) ListFiles() ([]File, error) {
	entries, err := os.ReadDir(s.cfg.OutputDir)
	if err != nil {
		if os.IsNotExist(err) {
			return nil, nil
		}
		return nil, fmt.Errorf("reading output directory: %w", err)
	}

	var files []File
	for _, e := range entries {
		name := e.Name()
		if e.IsDir() || !strings.HasSuffix(name, ".txt") || strings.HasSuffix(name, "-summarized.txt") {
			continue
		}

		stem := strings.TrimSuffix(name, ".txt")
		date, title, ok := strings.Cut(stem, "_")
		if !ok {
			date, title = "unknown", stem
		}

		info, err := e.Info()
		if err != nil {
			continue
		}

		f := File{
			Name:           titleCase(strings.ReplaceAll(title, "_", " ")),
			Date:           date,
			Size:           formatFileSize(info.Size()),
			TranscriptPath: filepath.Join(s.cfg.OutputDir, name),
		}

		summaryPath := filepath.Join(s.cfg.OutputDir, name+"-summarized.txt")
		if _, err := os.Stat(summaryPath); err == nil {
			f.SummaryPath = summaryPath
		}

		files = append(files, f)
	}

	sort.Slice(files, func(i, j int) bool { return files[i].Date > files[j].Date })
	return files, nil
}

func titleCase(s string) string {
	words := strings.Fields(s)
	for i, w := range words {
		words[i] = strings.ToUpper(w[:1]) + w[1:]
	}
	return strings.Join(words, " ")
}

func formatFileSize(size int64) string {
	switch {
	case size < 1024:
		return fmt.Sprintf("%d B", size)
	case size < 1024*1024:
		return fmt.Sprintf("%.1f KB", float64(size)/1024)
	default:
		return fmt.Sprintf("%.1f MB", float64(size)/(1024*1024))
	}
}
