package worker

import (
	"context"
	"log/slog"

	"github.com/ppiankov/novelty/internal/logging"
)

// Split cuts items into contiguous batches of at most size elements,
// preserving order. A non-positive size yields a single batch.
func Split[T any](items []T, size int) [][]T {
	if len(items) == 0 {
		return nil
	}
	if size <= 0 {
		size = len(items)
	}

	batches := make([][]T, 0, (len(items)+size-1)/size)
	for start := 0; start < len(items); start += size {
		end := min(start+size, len(items))
		batches = append(batches, items[start:end:end])
	}
	return batches
}

// BatchFunc processes one batch. offset is the index of batch[0] in the
// original sequence.
type BatchFunc[T any] func(ctx context.Context, offset int, batch []T) error

// Summary reports how a scheduled run went
type Summary struct {
	Batches int // Batches attempted
	Failed  int // Batches whose call returned an error
	Items   int // Items in batches that succeeded
}

// Scheduler runs batches one after another, pacing each external call.
// A failed batch is logged and skipped; the run continues with the next one.
type Scheduler struct {
	pacer  Pacer
	logger *slog.Logger
	name   string
}

// NewScheduler creates a scheduler. A nil pacer disables pacing.
func NewScheduler(name string, pacer Pacer, logger *slog.Logger) *Scheduler {
	if pacer == nil {
		pacer = NoPacer{}
	}
	return &Scheduler{
		pacer:  pacer,
		logger: logging.OrDefault(logger),
		name:   name,
	}
}

// Run splits items into batches of size and processes them in order.
// The returned error is non-nil only when ctx ends the run early.
func Run[T any](ctx context.Context, s *Scheduler, items []T, size int, fn BatchFunc[T]) (Summary, error) {
	var summary Summary

	offset := 0
	for i, batch := range Split(items, size) {
		if err := s.pacer.Wait(ctx); err != nil {
			return summary, err
		}

		summary.Batches++
		if err := fn(ctx, offset, batch); err != nil {
			summary.Failed++
			s.logger.Warn("batch failed, skipping",
				"stage", s.name,
				"batch", i,
				"offset", offset,
				"size", len(batch),
				"error", err,
			)
		} else {
			summary.Items += len(batch)
		}
		offset += len(batch)
	}

	return summary, nil
}
