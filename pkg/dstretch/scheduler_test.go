package dstretch

import(
	"context"
	"sync/atomic"
	"testing"
	"time"

	"github.com/rs/zerolog"
)

func TestRenderTickDedup(t *testing.T) {
	var renders atomic.Uint64
	s := NewScheduler(func(time.Time) { renders.Add(1) }, zerolog.Nop())

	ts := time.Unix(100, 0)

	// Two requests carrying the same timestamp: exactly one render
	if !s.RenderTick(ts) {
		t.Fatalf("first tick did not render")
	}
	if s.RenderTick(ts) {
		t.Fatalf("repeated timestamp rendered again")
	}
	if renders.Load() != 1 {
		t.Fatalf("renders = %d, want 1", renders.Load())
	}

	// Two distinct timestamps: two renders
	if !s.RenderTick(ts.Add(time.Millisecond)) {
		t.Fatalf("new timestamp did not render")
	}
	if renders.Load() != 2 {
		t.Fatalf("renders = %d, want 2", renders.Load())
	}
}

func TestRequestRenderCoalesces(t *testing.T) {
	s := NewScheduler(func(time.Time) {}, zerolog.Nop())

	s.RequestRender()
	s.RequestRender()
	s.RequestRender()

	if got := s.Stats().Coalesced; got != 2 {
		t.Errorf("Coalesced = %d, want 2", got)
	}
}

func TestRunRendersPendingRequest(t *testing.T) {
	var renders atomic.Uint64
	s := NewScheduler(func(time.Time) { renders.Add(1) }, zerolog.Nop())

	ctx, cancel := context.WithCancel(context.Background())
	done := make(chan struct{})
	go func() {
		s.Run(ctx, time.Millisecond)
		close(done)
	}()

	// Several change-events may coalesce into one dedup'd tick, but at
	// least one render must eventually reflect them.
	s.RequestRender()
	s.RequestRender()

	deadline := time.Now().Add(2 * time.Second)
	for renders.Load() == 0 {
		if time.Now().After(deadline) {
			t.Fatalf("request never rendered")
		}
		time.Sleep(time.Millisecond)
	}

	cancel()
	<-done

	// With no further requests, idle ticks must not render
	final := renders.Load()
	if final > 2 {
		t.Errorf("renders = %d; idle ticks appear to render", final)
	}
}
