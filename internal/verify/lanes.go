package verify

import (
	"fmt"

	"github.com/ppiankov/novelty/internal/model"
	"github.com/ppiankov/novelty/internal/worker"
)

// Lanes hands out the judge and embedding pacers of each worker lane.
// Every lane paces its own calls; no pacing clock is shared across lanes.
type Lanes struct {
	limiter *worker.Limiter
}

// NewLanes creates pacers for lanes 0..count-1 from the configured delays
func NewLanes(pacing model.PacingConfig, count int) *Lanes {
	limiter := worker.NewLimiter(pacing.JudgeDelay)
	for i := 0; i < max(count, 1); i++ {
		limiter.SetLaneInterval(embedLane(i), pacing.EmbeddingDelay)
	}
	return &Lanes{limiter: limiter}
}

// Judge returns the pacer for judge calls made by lane
func (l *Lanes) Judge(lane int) worker.Pacer {
	return l.limiter.Lane(fmt.Sprintf("judge-%d", lane))
}

// Embedding returns the pacer for embedding calls made by lane
func (l *Lanes) Embedding(lane int) worker.Pacer {
	return l.limiter.Lane(embedLane(lane))
}

func embedLane(lane int) string {
	return fmt.Sprintf("embed-%d", lane)
}
