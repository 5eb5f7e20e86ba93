package worker

import (
	"context"
	"testing"
	"time"
)

func TestLimiter_New(t *testing.T) {
	limiter := NewLimiter(200 * time.Millisecond)
	if limiter.defaultInterval != 200*time.Millisecond {
		t.Errorf("expected interval 200ms, got %v", limiter.defaultInterval)
	}
	if len(limiter.lanes) != 0 {
		t.Errorf("expected no lanes before first use, got %d", len(limiter.lanes))
	}
}

func TestLimiter_Wait(t *testing.T) {
	limiter := NewLimiter(10 * time.Millisecond)
	ctx := context.Background()

	if err := limiter.Wait(ctx, "judge"); err != nil {
		t.Errorf("wait failed: %v", err)
	}

	// Different lane should also work
	if err := limiter.Wait(ctx, "embedding"); err != nil {
		t.Errorf("wait failed: %v", err)
	}
}

func TestLimiter_FixedInterval(t *testing.T) {
	limiter := NewLimiter(50 * time.Millisecond)
	ctx := context.Background()

	start := time.Now()
	for i := 0; i < 3; i++ {
		if err := limiter.Wait(ctx, "judge"); err != nil {
			t.Fatalf("wait %d failed: %v", i, err)
		}
	}

	// First call is free, the next two wait one interval each
	if elapsed := time.Since(start); elapsed < 90*time.Millisecond {
		t.Errorf("expected >= ~100ms for 3 paced calls, got %v", elapsed)
	}
}

func TestLimiter_LanesIndependent(t *testing.T) {
	limiter := NewLimiter(time.Hour)

	if !limiter.Allow("lane-0") {
		t.Errorf("first call on lane-0 should pass")
	}
	if limiter.Allow("lane-0") {
		t.Errorf("expected allow to fail on exhausted lane-0")
	}

	// Other lanes are unaffected
	if !limiter.Allow("lane-1") {
		t.Errorf("expected allow for lane-1")
	}
}

func TestLimiter_SetLaneInterval(t *testing.T) {
	limiter := NewLimiter(0) // unpaced default

	limiter.SetLaneInterval("slow", time.Hour)

	if !limiter.Allow("slow") {
		t.Errorf("first request should pass")
	}
	if limiter.Allow("slow") {
		t.Errorf("second request should fail")
	}

	for i := 0; i < 5; i++ {
		if !limiter.Allow("fast") {
			t.Errorf("unpaced lane should always pass (call %d)", i)
		}
	}
}

func TestLimiter_LanePacer(t *testing.T) {
	limiter := NewLimiter(time.Hour)
	pacer := limiter.Lane("judge")

	if err := pacer.Wait(context.Background()); err != nil {
		t.Fatalf("first wait failed: %v", err)
	}

	ctx, cancel := context.WithTimeout(context.Background(), 20*time.Millisecond)
	defer cancel()
	if err := pacer.Wait(ctx); err == nil {
		t.Error("expected second wait to fail before the interval elapses")
	}
}

func TestNoPacer(t *testing.T) {
	var p Pacer = NoPacer{}
	if err := p.Wait(context.Background()); err != nil {
		t.Errorf("expected nil, got %v", err)
	}

	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	if err := p.Wait(ctx); err == nil {
		t.Error("expected error for cancelled context")
	}
}
