package model

import "strings"

// CandidateIdea is a proposed piece of content checked against the catalog
type CandidateIdea struct {
	Title          string `json:"title" yaml:"title"`                                         // Proposed title
	SupportingText string `json:"supporting_text,omitempty" yaml:"supporting_text,omitempty"` // e.g. value proposition
	KeywordFocus   string `json:"keyword_focus,omitempty" yaml:"keyword_focus,omitempty"`     // Optional keyword driving the idea
}

// ContentText returns the text embedded for content-level similarity
func (c CandidateIdea) ContentText() string {
	if c.SupportingText == "" {
		return c.Title
	}
	return c.Title + " " + c.SupportingText
}

// RelevanceQuery returns the text used to rank the catalog before verification.
// A keyword focus wins over the idea text.
func (c CandidateIdea) RelevanceQuery() string {
	if kw := strings.TrimSpace(c.KeywordFocus); kw != "" {
		return kw + " content topics and related subjects"
	}
	return c.ContentText()
}

// CatalogEntry is an existing, published piece of content
type CatalogEntry struct {
	Title string `json:"title" yaml:"title"`
}

// EntriesFromTitles wraps plain titles as catalog entries, preserving order
func EntriesFromTitles(titles []string) []CatalogEntry {
	entries := make([]CatalogEntry, len(titles))
	for i, t := range titles {
		entries[i] = CatalogEntry{Title: t}
	}
	return entries
}

// Titles returns the titles of the entries in catalog order
func Titles(entries []CatalogEntry) []string {
	titles := make([]string, len(entries))
	for i, e := range entries {
		titles[i] = e.Title
	}
	return titles
}

// GapIdea is a content-gap record proposed by a language model.
// Only Title is required; records without one are discarded by the parser.
type GapIdea struct {
	Title           string   `json:"title" yaml:"title"`
	Category        string   `json:"category,omitempty" yaml:"category,omitempty"`
	Difficulty      string   `json:"difficulty,omitempty" yaml:"difficulty,omitempty"`
	ContentType     string   `json:"content_type,omitempty" yaml:"content_type,omitempty"`
	TargetAudience  string   `json:"target_audience,omitempty" yaml:"target_audience,omitempty"`
	Keywords        []string `json:"keywords,omitempty" yaml:"keywords,omitempty"`
	Rationale       string   `json:"rationale,omitempty" yaml:"rationale,omitempty"`
	Differentiation string   `json:"differentiation,omitempty" yaml:"differentiation,omitempty"`
	ValueProp       string   `json:"value_proposition,omitempty" yaml:"value_proposition,omitempty"`
	KeywordFocus    string   `json:"keyword_focus,omitempty" yaml:"keyword_focus,omitempty"`
}

// Candidate converts the gap record into a candidate idea
func (g GapIdea) Candidate() CandidateIdea {
	return CandidateIdea{
		Title:          CleanTitle(g.Title),
		SupportingText: g.ValueProp,
		KeywordFocus:   g.KeywordFocus,
	}
}

// CleanTitle removes colons and collapses whitespace.
// "How to: Upload Files" becomes "How to Upload Files".
func CleanTitle(title string) string {
	cleaned := strings.TrimSpace(title)
	cleaned = strings.TrimSuffix(cleaned, ":")
	cleaned = strings.ReplaceAll(cleaned, ":", " ")
	return strings.Join(strings.Fields(cleaned), " ")
}
