// Package judge scores a candidate title against batches of existing titles
// with a language model, falling back to lexical overlap.
package judge

import (
	"context"
	"log/slog"

	"github.com/ppiankov/novelty/internal/llm"
	"github.com/ppiankov/novelty/internal/logging"
	"github.com/ppiankov/novelty/internal/parse"
)

// Source says which method produced a batch of scores
type Source string

const (
	SourceModel     Source = "model"
	SourceHeuristic Source = "heuristic"
)

// Scores is the judge's answer for one batch. len(Values) always equals the batch size.
type Scores struct {
	Values   []float64
	Source   Source
	Status   parse.Status // Parse status of the model output; StatusFailed when Source is heuristic
	Strategy string       // Parser strategy that recovered the values
}

// Judge rates title similarity. A nil provider always uses the heuristic.
type Judge struct {
	provider llm.Provider
	neutral  float64
	logger   *slog.Logger
}

// New creates a judge. neutral pads short model answers.
func New(provider llm.Provider, neutral float64, logger *slog.Logger) *Judge {
	return &Judge{
		provider: provider,
		neutral:  neutral,
		logger:   logging.OrDefault(logger),
	}
}

// ScoreBatch returns one score in [0,1] per title. Call and parse failures
// degrade to LexicalOverlap; ScoreBatch itself never fails.
func (j *Judge) ScoreBatch(ctx context.Context, candidateTitle string, titles []string) Scores {
	if len(titles) == 0 {
		return Scores{Values: []float64{}, Source: SourceModel, Status: parse.StatusParsed}
	}
	if j.provider == nil {
		return j.Heuristic(candidateTitle, titles)
	}

	resp, err := j.provider.Complete(ctx, llm.CompletionRequest{
		System: systemPrompt,
		Prompt: BuildPrompt(candidateTitle, titles),
	})
	if err != nil {
		j.logger.Warn("title similarity call failed, using lexical overlap",
			"provider", j.provider.Name(),
			"batch_size", len(titles),
			"error", err,
		)
		return j.Heuristic(candidateTitle, titles)
	}

	res := parse.Scores(resp.Text, len(titles), j.neutral)
	switch res.Status {
	case parse.StatusFailed:
		j.logger.Warn("unparseable similarity scores, using lexical overlap",
			"reason", res.Reason,
			"batch_size", len(titles),
		)
		return j.Heuristic(candidateTitle, titles)
	case parse.StatusRecovered:
		j.logger.Debug("similarity scores recovered", "strategy", res.Strategy, "batch_size", len(titles))
	}

	return Scores{
		Values:   res.Value,
		Source:   SourceModel,
		Status:   res.Status,
		Strategy: res.Strategy,
	}
}

// Heuristic scores a batch lexically without calling the model
func (j *Judge) Heuristic(candidateTitle string, titles []string) Scores {
	return Scores{
		Values: Lexical(candidateTitle, titles),
		Source: SourceHeuristic,
		Status: parse.StatusFailed,
	}
}
