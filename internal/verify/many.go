package verify

import (
	"context"

	"github.com/ppiankov/novelty/internal/similarity"
	"github.com/ppiankov/novelty/internal/worker"
)

type outcomeResult struct {
	index int
	Outcome
}

func (outcomeResult) GetError() error { return nil }

// VerifyMany verifies each request on a pool of Concurrency lanes and returns
// exactly one outcome per request, in request order. Each lane paces its own
// calls. Requests not started before ctx ends get a degraded Failed verdict.
func (e *Engine) VerifyMany(ctx context.Context, reqs []Request) []Outcome {
	pool := worker.NewPoolWithContext(ctx, min(e.config.Concurrency, max(len(reqs), 1)))
	pool.Start()

	for i, req := range reqs {
		pool.Submit(worker.JobFunc(func(ctx context.Context, lane int) worker.Result {
			if req.Mode == ModeGap {
				return outcomeResult{i, e.verifyGap(ctx, lane, req)}
			}
			return outcomeResult{i, e.verifyIdea(ctx, lane, req)}
		}))
	}

	outcomes := make([]Outcome, len(reqs))
	done := make([]bool, len(reqs))
	for _, r := range pool.Wait() {
		res := r.(outcomeResult)
		outcomes[res.index] = res.Outcome
		done[res.index] = true
	}

	reason := "not started"
	if err := ctx.Err(); err != nil {
		reason += ": " + err.Error()
	}
	for i, ok := range done {
		if ok {
			continue
		}
		out := e.start(reqs[i])
		out.Verdict = similarity.Failed(e.config.FailureScore, reason)
		e.logger.Warn("verification not started",
			"verification_id", out.ID, "candidate", out.Candidate.Title, "reason", reason)
		outcomes[i] = out
	}
	return outcomes
}
