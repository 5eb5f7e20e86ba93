package verify

import (
	"context"
	"log/slog"
	"slices"

	"github.com/ppiankov/novelty/internal/model"
	"github.com/ppiankov/novelty/internal/similarity"
	"github.com/ppiankov/novelty/internal/worker"
)

// PreFilter returns the k catalog entries most related to the candidate, in
// catalog order. When the candidate cannot be embedded it returns the first k
// entries.
func (e *Engine) PreFilter(ctx context.Context, candidate model.CandidateIdea, catalog []model.CatalogEntry, k int) []model.CatalogEntry {
	if k <= 0 || len(catalog) <= k {
		return catalog
	}

	vector, err := e.embedOne(ctx, e.lanes.Embedding(0), candidate.ContentText())
	if err != nil {
		e.logger.Warn("candidate embedding failed, keeping first entries", "error", err, "k", k)
		return catalog[:k]
	}

	entries, _, _ := e.preFilter(ctx, 0, e.logger, candidate, vector, catalog, k)
	return entries
}

// preFilter embeds the catalog and keeps the top k entries by similarity to
// the candidate's relevance query. The kept entries keep their catalog order
// so equal combined scores still resolve to the earliest entry. Vectors are
// nil for entries whose embedding batch failed.
func (e *Engine) preFilter(
	ctx context.Context,
	lane int,
	logger *slog.Logger,
	candidate model.CandidateIdea,
	candidateVector []float32,
	catalog []model.CatalogEntry,
	k int,
) ([]model.CatalogEntry, [][]float32, int) {
	pacer := e.lanes.Embedding(lane)
	vectors, failed := e.embedEntries(ctx, worker.NewScheduler("embedding", pacer, logger), catalog, e.config.EmbedBatchSize)

	if k <= 0 || len(catalog) <= k {
		return catalog, vectors, failed
	}

	query := candidateVector
	if text := candidate.RelevanceQuery(); text != candidate.ContentText() {
		v, err := e.embedOne(ctx, pacer, text)
		if err != nil {
			logger.Warn("relevance query embedding failed, keeping first entries", "error", err, "k", k)
			return catalog[:k], vectors[:k], failed
		}
		query = v
	}

	order := Rank(query, vectors)[:k]
	slices.Sort(order)
	entries := make([]model.CatalogEntry, k)
	kept := make([][]float32, k)
	for i, idx := range order {
		entries[i] = catalog[idx]
		kept[i] = vectors[idx]
	}

	logger.Debug("catalog pre-filtered", "catalog", len(catalog), "kept", k)
	return entries, kept, failed
}

// Rank orders vector indexes by decreasing cosine similarity to query.
// Ties keep catalog order. Missing or incomparable vectors rank last.
func Rank(query []float32, vectors [][]float32) []int {
	scores := make([]float64, len(vectors))
	order := make([]int, len(vectors))
	for i, v := range vectors {
		order[i] = i
		scores[i] = -1
		if v == nil {
			continue
		}
		if s, err := similarity.Cosine(query, v); err == nil {
			scores[i] = s
		}
	}

	slices.SortStableFunc(order, func(a, b int) int {
		switch {
		case scores[a] > scores[b]:
			return -1
		case scores[a] < scores[b]:
			return 1
		default:
			return 0
		}
	})
	return order
}
