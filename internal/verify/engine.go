// Package verify decides whether candidate ideas are unique against a
// catalog of existing content.
//
// An idea verification embeds the candidate, narrows the catalog to its most
// related entries, scores titles with the judge and content with cosine
// similarity, and classifies the best combined score. A gap verification
// compares embeddings only. Neither ever returns an error: provider failures
// degrade to fallbacks, skipped batches, or a low-confidence verdict.
package verify

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/google/uuid"

	"github.com/ppiankov/novelty/internal/embed"
	"github.com/ppiankov/novelty/internal/judge"
	"github.com/ppiankov/novelty/internal/logging"
	"github.com/ppiankov/novelty/internal/model"
	"github.com/ppiankov/novelty/internal/similarity"
	"github.com/ppiankov/novelty/internal/worker"
)

// Mode selects the verification flavor of a request
type Mode int

const (
	ModeIdea Mode = iota // Judge + embeddings against a pre-filtered subset
	ModeGap              // Embeddings only against a catalog sample
)

func (m Mode) String() string {
	if m == ModeGap {
		return "gap"
	}
	return "idea"
}

// Request is one candidate to verify
type Request struct {
	Candidate model.CandidateIdea
	Catalog   []model.CatalogEntry
	Threshold float64 // 0 selects the configured threshold for Mode
	Mode      Mode
}

// Outcome is the verdict plus the provenance of how it was reached
type Outcome struct {
	ID        uuid.UUID               `json:"id"`
	Candidate model.CandidateIdea     `json:"candidate"`
	Verdict   model.UniquenessVerdict `json:"verdict"`
	Pairs     []model.SimilarityPair  `json:"pairs,omitempty"`
	Stats     Stats                   `json:"stats"`
}

// Stats counts how the external calls of one verification went
type Stats struct {
	Considered       int `json:"considered"`        // Entries left after the pre-filter
	HeuristicBatches int `json:"heuristic_batches"` // Judge batches scored lexically
	FailedEmbeds     int `json:"failed_embeds"`     // Embedding batches skipped
}

// Engine runs verifications. It holds no per-request state and is safe
// for concurrent use.
type Engine struct {
	judge    *judge.Judge
	embedder embed.Embedder
	config   model.VerifyConfig
	lanes    *Lanes
	logger   *slog.Logger
}

// New creates an engine. lanes paces external calls; nil disables pacing.
func New(j *judge.Judge, embedder embed.Embedder, config model.VerifyConfig, lanes *Lanes, logger *slog.Logger) *Engine {
	if lanes == nil {
		lanes = NewLanes(model.PacingConfig{}, config.Concurrency)
	}
	logger = logging.OrDefault(logger)
	if j == nil {
		j = judge.New(nil, config.NeutralScore, logger)
	}
	return &Engine{
		judge:    j,
		embedder: embedder,
		config:   config,
		lanes:    lanes,
		logger:   logger,
	}
}

// Verify checks one candidate idea against req.Catalog on lane 0
func (e *Engine) Verify(ctx context.Context, req Request) Outcome {
	req.Mode = ModeIdea
	return e.verifyIdea(ctx, 0, req)
}

func (e *Engine) verifyIdea(ctx context.Context, lane int, req Request) Outcome {
	out := e.start(req)
	logger := e.logger.With("verification_id", out.ID, "mode", ModeIdea)

	if len(req.Catalog) == 0 {
		out.Verdict = similarity.Empty()
		e.finish(logger, out)
		return out
	}

	embedPacer := e.lanes.Embedding(lane)
	candidateVector, err := e.embedOne(ctx, embedPacer, req.Candidate.ContentText())
	if err != nil {
		logger.Warn("candidate embedding failed", "error", err)
		out.Verdict = similarity.Failed(e.config.FailureScore, fmt.Sprintf("candidate embedding failed: %v", err))
		e.finish(logger, out)
		return out
	}

	entries, vectors, failed := e.preFilter(ctx, lane, logger, req.Candidate, candidateVector, req.Catalog, e.config.PrefilterTopK)
	out.Stats.Considered = len(entries)
	out.Stats.FailedEmbeds = failed

	aggregator := similarity.NewAggregator(e.ideaWeights(), e.config.NeutralScore, logger)
	judgeRun := worker.NewScheduler("judge", e.lanes.Judge(lane), logger)

	var best similarity.Best
	_, err = worker.Run(ctx, judgeRun, entries, e.config.JudgeBatchSize, func(ctx context.Context, offset int, batch []model.CatalogEntry) error {
		scores := e.judge.ScoreBatch(ctx, req.Candidate.Title, model.Titles(batch))
		if scores.Source == judge.SourceHeuristic {
			out.Stats.HeuristicBatches++
		}

		pairs := aggregator.Aggregate(req.Candidate, batch, scores.Values, candidateVector, vectors[offset:offset+len(batch)])
		best.Add(pairs)
		out.Pairs = append(out.Pairs, pairs...)
		return nil
	})
	if err != nil {
		logger.Warn("verification interrupted", "error", err)
	}

	out.Verdict = e.classify(logger, best, e.threshold(req))
	e.finish(logger, out)
	return out
}

// embedOne embeds a single text after waiting on pacer
func (e *Engine) embedOne(ctx context.Context, pacer worker.Pacer, text string) ([]float32, error) {
	if err := pacer.Wait(ctx); err != nil {
		return nil, err
	}
	vectors, err := e.embedder.Embed(ctx, []string{text})
	if err != nil {
		return nil, err
	}
	if len(vectors) != 1 || len(vectors[0]) == 0 {
		return nil, fmt.Errorf("embedder returned %d vectors for 1 input", len(vectors))
	}
	return vectors[0], nil
}

// embedEntries embeds entry titles in batches. Vectors of failed batches
// stay nil; the number of failed batches is returned.
func (e *Engine) embedEntries(ctx context.Context, s *worker.Scheduler, entries []model.CatalogEntry, size int) ([][]float32, int) {
	vectors := make([][]float32, len(entries))

	summary, err := worker.Run(ctx, s, entries, size, func(ctx context.Context, offset int, batch []model.CatalogEntry) error {
		got, err := e.embedder.Embed(ctx, model.Titles(batch))
		if err != nil {
			return err
		}
		if len(got) != len(batch) {
			return fmt.Errorf("embedder returned %d vectors for %d inputs", len(got), len(batch))
		}
		copy(vectors[offset:], got)
		return nil
	})
	if err != nil {
		e.logger.Warn("embedding interrupted", "error", err)
		summary.Failed += len(worker.Split(entries, size)) - summary.Batches
	}
	return vectors, summary.Failed
}

func (e *Engine) classify(logger *slog.Logger, best similarity.Best, threshold float64) model.UniquenessVerdict {
	if !best.Found() {
		logger.Warn("no catalog entry could be compared")
		return similarity.Failed(e.config.FailureScore, "no comparable catalog entries")
	}

	classifier := similarity.Classifier{
		Threshold:           threshold,
		HighConfidenceBelow: e.config.HighConfidenceBelow,
	}
	return classifier.FromBest(best)
}

func (e *Engine) threshold(req Request) float64 {
	if req.Threshold > 0 {
		return req.Threshold
	}
	if req.Mode == ModeGap {
		return e.config.GapThreshold
	}
	return e.config.IdeaThreshold
}

func (e *Engine) ideaWeights() similarity.Weights {
	return similarity.Weights{Title: e.config.TitleWeight, Content: e.config.ContentWeight}
}

func (e *Engine) start(req Request) Outcome {
	return Outcome{
		ID:        uuid.New(),
		Candidate: req.Candidate,
	}
}

func (e *Engine) finish(logger *slog.Logger, out Outcome) {
	logger.Info("verification complete",
		"candidate", out.Candidate.Title,
		"unique", out.Verdict.IsUnique,
		"max_similarity", out.Verdict.MaxSimilarity,
		"most_similar", out.Verdict.MostSimilarEntry,
		"confidence", out.Verdict.Confidence,
		"entries_checked", out.Verdict.EntriesChecked,
		"degraded", out.Verdict.Degraded,
	)
}
