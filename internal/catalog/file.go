package catalog

import (
	"bufio"
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"gopkg.in/yaml.v3"

	"github.com/ppiankov/novelty/internal/model"
)

// FileSource reads titles from a local file.
// .json and .yaml/.yml files hold a list of strings or of {title: ...}
// objects. Any other file holds one title per line; blank lines and lines
// starting with # are skipped.
type FileSource struct {
	path string
}

// NewFileSource creates a source reading path
func NewFileSource(path string) *FileSource {
	return &FileSource{path: path}
}

// ListTitles reads the file, drops duplicates and returns at most limit titles.
// collection is ignored.
func (s *FileSource) ListTitles(ctx context.Context, collection string, limit int) ([]string, error) {
	data, err := os.ReadFile(s.path)
	if err != nil {
		return nil, fmt.Errorf("read catalog file: %w", err)
	}

	var titles []string
	switch strings.ToLower(filepath.Ext(s.path)) {
	case ".json":
		titles, err = decodeList(data, json.Unmarshal)
	case ".yaml", ".yml":
		titles, err = decodeList(data, yaml.Unmarshal)
	default:
		titles, err = readLines(data)
	}
	if err != nil {
		return nil, fmt.Errorf("parse %s: %w", s.path, err)
	}

	return truncate(dedupe(titles), limit), nil
}

// ReadIdeas reads candidate ideas from path. Structured files hold a list of
// strings or of idea objects; plain files hold one title per line.
// Titles are cleaned with model.CleanTitle and empty titles are dropped.
func ReadIdeas(path string) ([]model.CandidateIdea, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read ideas file: %w", err)
	}

	var ideas []model.CandidateIdea
	switch strings.ToLower(filepath.Ext(path)) {
	case ".json":
		ideas, err = decodeIdeas(data, json.Unmarshal)
	case ".yaml", ".yml":
		ideas, err = decodeIdeas(data, yaml.Unmarshal)
	default:
		var titles []string
		titles, err = readLines(data)
		for _, t := range titles {
			ideas = append(ideas, model.CandidateIdea{Title: t})
		}
	}
	if err != nil {
		return nil, fmt.Errorf("parse %s: %w", path, err)
	}

	out := ideas[:0]
	for _, idea := range ideas {
		idea.Title = model.CleanTitle(idea.Title)
		if idea.Title != "" {
			out = append(out, idea)
		}
	}
	return out, nil
}

func readLines(data []byte) ([]string, error) {
	var lines []string
	scanner := bufio.NewScanner(bytes.NewReader(data))
	for scanner.Scan() {
		line := strings.TrimSpace(scanner.Text())
		if line == "" || strings.HasPrefix(line, "#") {
			continue
		}
		lines = append(lines, line)
	}
	if err := scanner.Err(); err != nil {
		return nil, err
	}
	return lines, nil
}

// decodeList accepts a list whose items are strings or objects with a title
func decodeList(data []byte, unmarshal func([]byte, any) error) ([]string, error) {
	var raw []any
	if err := unmarshal(data, &raw); err != nil {
		return nil, err
	}

	titles := make([]string, 0, len(raw))
	for _, item := range raw {
		if t := titleOf(item); t != "" {
			titles = append(titles, t)
		}
	}
	return titles, nil
}

func decodeIdeas(data []byte, unmarshal func([]byte, any) error) ([]model.CandidateIdea, error) {
	var raw []any
	if err := unmarshal(data, &raw); err != nil {
		return nil, err
	}

	ideas := make([]model.CandidateIdea, 0, len(raw))
	for _, item := range raw {
		switch v := item.(type) {
		case string:
			ideas = append(ideas, model.CandidateIdea{Title: v})
		case map[string]any:
			ideas = append(ideas, model.CandidateIdea{
				Title:          stringField(v, "title"),
				SupportingText: firstField(v, "supporting_text", "value_proposition"),
				KeywordFocus:   stringField(v, "keyword_focus"),
			})
		}
	}
	return ideas, nil
}

func titleOf(item any) string {
	switch v := item.(type) {
	case string:
		return strings.TrimSpace(v)
	case map[string]any:
		return stringField(v, "title")
	}
	return ""
}

func stringField(m map[string]any, key string) string {
	s, _ := m[key].(string)
	return strings.TrimSpace(s)
}

func firstField(m map[string]any, keys ...string) string {
	for _, k := range keys {
		if s := stringField(m, k); s != "" {
			return s
		}
	}
	return ""
}

// dedupe drops repeated titles, keeping first occurrences in order
func dedupe(titles []string) []string {
	seen := make(map[string]bool, len(titles))
	out := make([]string, 0, len(titles))
	for _, t := range titles {
		if seen[t] {
			continue
		}
		seen[t] = true
		out = append(out, t)
	}
	return out
}
