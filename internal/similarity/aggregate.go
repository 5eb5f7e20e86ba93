package similarity

import (
	"log/slog"

	"github.com/ppiankov/novelty/internal/logging"
	"github.com/ppiankov/novelty/internal/model"
)

// Weights blend the title and content signals
type Weights struct {
	Title   float64
	Content float64
}

// IdeaWeights favor the judge's title score
var IdeaWeights = Weights{Title: 0.7, Content: 0.3}

// ContentOnlyWeights ignore titles, used for embedding-only gap checks
var ContentOnlyWeights = Weights{Title: 0, Content: 1}

// Combine returns the weighted blend of two scores in [0,1]
func (w Weights) Combine(title, content float64) float64 {
	return Clamp(w.Title*Clamp(title) + w.Content*Clamp(content))
}

// Aggregator turns one batch of signals into similarity pairs.
// It holds no state between batches.
type Aggregator struct {
	weights Weights
	neutral float64
	logger  *slog.Logger
}

// NewAggregator creates an aggregator with the given weights. neutral is
// the title score assumed for an entry the judge returned no score for.
func NewAggregator(weights Weights, neutral float64, logger *slog.Logger) *Aggregator {
	return &Aggregator{
		weights: weights,
		neutral: neutral,
		logger:  logging.OrDefault(logger),
	}
}

// Aggregate scores each entry of a batch. titleScores and entryVectors are
// indexed like entries. Entries whose vector is missing or has a different
// dimension than candidateVector are logged and skipped.
func (a *Aggregator) Aggregate(
	candidate model.CandidateIdea,
	entries []model.CatalogEntry,
	titleScores []float64,
	candidateVector []float32,
	entryVectors [][]float32,
) []model.SimilarityPair {
	pairs := make([]model.SimilarityPair, 0, len(entries))

	for i, entry := range entries {
		if i >= len(entryVectors) || entryVectors[i] == nil {
			a.logger.Warn("no embedding for entry, skipping", "entry", entry.Title)
			continue
		}

		content, err := Cosine(candidateVector, entryVectors[i])
		if err != nil {
			a.logger.Warn("cannot compare entry, skipping", "entry", entry.Title, "error", err)
			continue
		}

		title := a.neutral
		if i < len(titleScores) {
			title = Clamp(titleScores[i])
		}

		pairs = append(pairs, model.SimilarityPair{
			Candidate:     candidate,
			Entry:         entry,
			TitleScore:    title,
			ContentScore:  content,
			CombinedScore: a.weights.Combine(title, content),
		})
	}

	return pairs
}

// Best is the running maximum over pairs, folded batch by batch
type Best struct {
	Score   float64
	Entry   string
	Checked int
	found   bool
}

// Add folds pairs in order. Only a strictly greater score replaces the
// current best, so ties keep the first-encountered entry.
func (b *Best) Add(pairs []model.SimilarityPair) {
	for _, p := range pairs {
		b.Checked++
		if !b.found || p.CombinedScore > b.Score {
			b.Score = p.CombinedScore
			b.Entry = p.Entry.Title
			b.found = true
		}
	}
}

// Found reports whether any pair was folded
func (b *Best) Found() bool {
	return b.found
}
