package verify

import (
	"context"
	"fmt"

	"github.com/ppiankov/novelty/internal/model"
	"github.com/ppiankov/novelty/internal/similarity"
	"github.com/ppiankov/novelty/internal/worker"
)

// VerifyGap checks a content-gap title against a sample of the catalog with
// embeddings only. The sample is the first GapSampleSize entries.
func (e *Engine) VerifyGap(ctx context.Context, req Request) Outcome {
	req.Mode = ModeGap
	return e.verifyGap(ctx, 0, req)
}

func (e *Engine) verifyGap(ctx context.Context, lane int, req Request) Outcome {
	out := e.start(req)
	logger := e.logger.With("verification_id", out.ID, "mode", ModeGap)

	if len(req.Catalog) == 0 {
		out.Verdict = similarity.Empty()
		e.finish(logger, out)
		return out
	}

	pacer := e.lanes.Embedding(lane)
	candidateVector, err := e.embedOne(ctx, pacer, req.Candidate.Title)
	if err != nil {
		logger.Warn("gap embedding failed", "error", err)
		out.Verdict = similarity.Failed(e.config.FailureScore, fmt.Sprintf("gap embedding failed: %v", err))
		e.finish(logger, out)
		return out
	}

	sample := req.Catalog
	if len(sample) > e.config.GapSampleSize {
		sample = sample[:e.config.GapSampleSize]
	}
	out.Stats.Considered = len(sample)

	aggregator := similarity.NewAggregator(similarity.ContentOnlyWeights, e.config.NeutralScore, logger)
	run := worker.NewScheduler("gap-embedding", pacer, logger)

	var best similarity.Best
	summary, err := worker.Run(ctx, run, sample, e.config.GapEmbedBatchSize, func(ctx context.Context, offset int, batch []model.CatalogEntry) error {
		vectors, err := e.embedder.Embed(ctx, model.Titles(batch))
		if err != nil {
			return err
		}
		if len(vectors) != len(batch) {
			return fmt.Errorf("embedder returned %d vectors for %d inputs", len(vectors), len(batch))
		}

		pairs := aggregator.Aggregate(req.Candidate, batch, nil, candidateVector, vectors)
		best.Add(pairs)
		out.Pairs = append(out.Pairs, pairs...)
		return nil
	})
	if err != nil {
		logger.Warn("gap verification interrupted", "error", err)
	}
	out.Stats.FailedEmbeds = summary.Failed

	out.Verdict = e.classify(logger, best, e.threshold(req))
	e.finish(logger, out)
	return out
}
