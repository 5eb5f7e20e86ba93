package judge

import (
	"bytes"
	"context"
	"errors"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/ppiankov/novelty/internal/llm"
	"github.com/ppiankov/novelty/internal/logging"
	"github.com/ppiankov/novelty/internal/parse"
)

// fakeProvider returns a canned answer and records prompts
type fakeProvider struct {
	text    string
	err     error
	prompts []string
}

func (f *fakeProvider) Name() string                       { return "fake" }
func (f *fakeProvider) IsAvailable(ctx context.Context) bool { return true }

func (f *fakeProvider) Complete(ctx context.Context, req llm.CompletionRequest) (*llm.CompletionResponse, error) {
	f.prompts = append(f.prompts, req.Prompt)
	if f.err != nil {
		return nil, f.err
	}
	return &llm.CompletionResponse{Text: f.text}, nil
}

func TestLexicalOverlap(t *testing.T) {
	tests := []struct {
		a, b string
		want float64
	}{
		{"React File Upload", "react file upload", 1},
		{"React File Upload", "File Uploads with React", 2.0 / 4.0},
		{"OCR in Go", "Image CDN basics", 0},
		{"", "", 0},
		{"go go go", "go", 1},
	}
	for _, tt := range tests {
		assert.InDelta(t, tt.want, LexicalOverlap(tt.a, tt.b), 1e-9, "%q vs %q", tt.a, tt.b)
	}
}

func TestBuildPrompt(t *testing.T) {
	p := BuildPrompt("React File Upload Tutorial", []string{"A", "B", "C"})

	assert.Contains(t, p, `PROPOSED IDEA: "React File Upload Tutorial"`)
	assert.Contains(t, p, "1. \"A\"\n2. \"B\"\n3. \"C\"")
	assert.Contains(t, p, "exactly 3 numbers")
	assert.Contains(t, p, "1.0 = Essentially the same topic")
	assert.Contains(t, p, "0.6-0.7 = Related topic but different angle")
	assert.Contains(t, p, "0.0-0.3 = Different topics")
	assert.True(t, strings.HasSuffix(p, "[0.85, 0.23, 0.91]"))
}

func TestScoreBatch_ModelScores(t *testing.T) {
	provider := &fakeProvider{text: "```json\n[0.9, 0.1]\n```"}
	j := New(provider, 0.3, logging.Discard())

	got := j.ScoreBatch(context.Background(), "React uploads", []string{"File uploads in React", "CDN caching"})

	assert.Equal(t, []float64{0.9, 0.1}, got.Values)
	assert.Equal(t, SourceModel, got.Source)
	assert.Equal(t, parse.StatusParsed, got.Status)
	require.Len(t, provider.prompts, 1)
	assert.Contains(t, provider.prompts[0], "exactly 2 numbers")
}

func TestScoreBatch_RecoveredScoresPadded(t *testing.T) {
	var buf bytes.Buffer
	j := New(&fakeProvider{text: "[0.8, 0.4"}, 0.3, logging.New("debug", "text", &buf))

	got := j.ScoreBatch(context.Background(), "x", []string{"a", "b", "c"})

	assert.Equal(t, []float64{0.8, 0.4, 0.3}, got.Values)
	assert.Equal(t, SourceModel, got.Source)
	assert.Equal(t, parse.StatusRecovered, got.Status)
	assert.Equal(t, "close_truncated+pad", got.Strategy)
	assert.Contains(t, buf.String(), "similarity scores recovered")
}

func TestScoreBatch_CallErrorFallsBackToLexical(t *testing.T) {
	var buf bytes.Buffer
	j := New(&fakeProvider{err: errors.New("timeout")}, 0.3, logging.New("warn", "text", &buf))

	titles := []string{"react file upload guide", "image cdn"}
	got := j.ScoreBatch(context.Background(), "react file upload", titles)

	assert.Equal(t, SourceHeuristic, got.Source)
	assert.Equal(t, Lexical("react file upload", titles), got.Values)
	assert.Len(t, got.Values, len(titles))
	assert.Contains(t, buf.String(), "title similarity call failed")
}

func TestScoreBatch_UnparseableFallsBackToLexical(t *testing.T) {
	j := New(&fakeProvider{text: "I am unable to rate these."}, 0.3, logging.Discard())

	got := j.ScoreBatch(context.Background(), "a b", []string{"a", "c"})

	assert.Equal(t, SourceHeuristic, got.Source)
	assert.Equal(t, []float64{0.5, 0}, got.Values)
}

func TestScoreBatch_NilProviderIsHeuristic(t *testing.T) {
	j := New(nil, 0.3, nil)

	got := j.ScoreBatch(context.Background(), "a b", []string{"a b"})

	assert.Equal(t, SourceHeuristic, got.Source)
	assert.Equal(t, []float64{1}, got.Values)
}

func TestScoreBatch_Empty(t *testing.T) {
	provider := &fakeProvider{text: "[]"}
	got := New(provider, 0.3, logging.Discard()).ScoreBatch(context.Background(), "x", nil)

	assert.Empty(t, got.Values)
	assert.Empty(t, provider.prompts, "no call for an empty batch")
}
