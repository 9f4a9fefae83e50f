// Package prompts resolves summarization prompt templates from a
// directory of <id>.txt files.
package prompts

import (
	"os"
	"path/filepath"
	"strings"
	"sync"
)

// Default is the hard-coded fallback used when no template file can be
// read.
const Default = "Summarize this meeting transcript with key points, action items, and attendees."

// FallbackID names the template tried when the requested one is missing.
const FallbackID = "meeting"

// knownTemplates maps template ids to display names, in listing order.
var knownTemplates = []Prompt{
	{ID: "meeting", Name: "Executive Meeting"},
	{ID: "technical", Name: "Technical Review"},
	{ID: "sales", Name: "Sales Call"},
	{ID: "standup", Name: "Daily Standup"},
}

// Prompt is one selectable summarization template.
type Prompt struct {
	ID   string
	Name string
	File string
}

// Store reads prompt templates from a directory, caching the listing.
type Store struct {
	dir string

	mu    sync.Mutex
	cache []Prompt
}

func NewStore(dir string) *Store {
	return &Store{dir: dir}
}

// List returns the templates whose files exist, in fixed order.
func (s *Store) List() []Prompt {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.cache != nil {
		return s.cache
	}

	var available []Prompt
	for _, p := range knownTemplates {
		file := filepath.Join(s.dir, p.ID+".txt")
		if _, err := os.Stat(file); err == nil {
			p.File = file
			available = append(available, p)
		}
	}
	s.cache = available
	return available
}

// Content returns the template text for id, falling back to the default
// meeting template and finally to the built-in default string. It never
// fails.
func (s *Store) Content(id string) string {
	if text, ok := s.read(id); ok {
		return text
	}
	if id != FallbackID {
		if text, ok := s.read(FallbackID); ok {
			return text
		}
	}
	return Default
}

func (s *Store) read(id string) (string, bool) {
	data, err := os.ReadFile(filepath.Join(s.dir, id+".txt"))
	if err != nil {
		return "", false
	}
	text := strings.TrimSpace(string(data))
	if text == "" {
		return "", false
	}
	return text, true
}
