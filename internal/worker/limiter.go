package worker

import (
	"context"
	"sync"
	"time"

	"golang.org/x/time/rate"
)

// Pacer blocks until the next external call may proceed
type Pacer interface {
	Wait(ctx context.Context) error
}

// NoPacer never delays. Used in tests and for unpaced providers.
type NoPacer struct{}

// Wait returns immediately unless ctx is already done
func (NoPacer) Wait(ctx context.Context) error {
	return ctx.Err()
}

// Limiter enforces a fixed minimum interval between calls, tracked
// independently per lane so one lane never throttles another.
type Limiter struct {
	lanes           map[string]*rate.Limiter
	mu              sync.RWMutex
	defaultInterval time.Duration
}

// NewLimiter creates a limiter whose lanes allow one call per interval.
// A non-positive interval disables pacing.
func NewLimiter(interval time.Duration) *Limiter {
	return &Limiter{
		lanes:           make(map[string]*rate.Limiter),
		defaultInterval: interval,
	}
}

// Wait waits for clearance on the given lane
func (l *Limiter) Wait(ctx context.Context, lane string) error {
	return l.getLimiter(lane).Wait(ctx)
}

// Allow reports whether a call on the lane may proceed now, consuming the slot if so
func (l *Limiter) Allow(lane string) bool {
	return l.getLimiter(lane).Allow()
}

// Lane returns a Pacer bound to one lane of this limiter
func (l *Limiter) Lane(name string) Pacer {
	return &lanePacer{limiter: l, lane: name}
}

// SetLaneInterval overrides the interval for a single lane
func (l *Limiter) SetLaneInterval(lane string, interval time.Duration) {
	l.mu.Lock()
	defer l.mu.Unlock()

	l.lanes[lane] = newIntervalLimiter(interval)
}

// getLimiter returns the rate limiter for a lane
func (l *Limiter) getLimiter(lane string) *rate.Limiter {
	l.mu.RLock()
	limiter, exists := l.lanes[lane]
	l.mu.RUnlock()

	if exists {
		return limiter
	}

	l.mu.Lock()
	defer l.mu.Unlock()

	// Double-check after acquiring write lock
	if limiter, exists := l.lanes[lane]; exists {
		return limiter
	}

	limiter = newIntervalLimiter(l.defaultInterval)
	l.lanes[lane] = limiter

	return limiter
}

// Burst 1: the first call passes, every later call waits out the interval.
func newIntervalLimiter(interval time.Duration) *rate.Limiter {
	if interval <= 0 {
		return rate.NewLimiter(rate.Inf, 1)
	}
	return rate.NewLimiter(rate.Every(interval), 1)
}

type lanePacer struct {
	limiter *Limiter
	lane    string
}

func (p *lanePacer) Wait(ctx context.Context) error {
	return p.limiter.Wait(ctx, p.lane)
}
