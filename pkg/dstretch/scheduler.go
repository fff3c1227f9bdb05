package dstretch

import(
	"context"
	"sync/atomic"
	"time"

	"github.com/codahale/hdrhistogram"
	"github.com/rs/zerolog"
)

// Scheduler bridges two asynchronous producers - camera frame arrival
// and the display refresh tick - to the compositor. Render requests
// coalesce into a single pending wake; each tick timestamp runs the
// compositor at most once. Requests are never lost: a pending wake
// stays pending until a tick consumes it, so the latest configuration
// and frame always reach the screen eventually.
type Scheduler struct {
	render    func(ts time.Time)
	wake      chan struct{}
	last      int64 // UnixNano of the last processed tick
	rendered  atomic.Uint64
	coalesced atomic.Uint64
	latency   *hdrhistogram.Histogram // tick duration, microseconds
	log       zerolog.Logger
}

func NewScheduler(render func(ts time.Time), log zerolog.Logger) *Scheduler {
	return &Scheduler{
		render:  render,
		wake:    make(chan struct{}, 1),
		latency: hdrhistogram.New(1, 10_000_000, 3),
		log:     log,
	}
}

// RequestRender asks for a render on the next tick. Non-blocking;
// requests arriving while one is already pending coalesce.
func (s *Scheduler)RequestRender() {
	select {
	case s.wake <- struct{}{}:
	default:
		s.coalesced.Add(1)
	}
}

// RenderTick runs the compositor for the given tick timestamp, unless
// that timestamp was already processed. Returns whether a render ran.
// Ticks are expected from a single goroutine (the render context).
func (s *Scheduler)RenderTick(ts time.Time) bool {
	key := ts.UnixNano()
	if key == s.last {
		return false
	}
	s.last = key

	t0 := time.Now()
	s.render(ts)
	s.rendered.Add(1)
	s.latency.RecordValue(time.Since(t0).Microseconds())
	return true
}

// Run drives the render loop until the context is cancelled. A tick
// only renders when a request is pending, so an idle camera costs
// nothing.
func (s *Scheduler)Run(ctx context.Context, interval time.Duration) {
	ticker := time.NewTicker(interval)
	defer ticker.Stop()

	s.log.Info().Dur("interval", interval).Msg("render loop started")
	for {
		select {
		case <-ctx.Done():
			s.log.Info().Uint64("rendered", s.rendered.Load()).Msg("render loop stopped")
			return
		case ts := <-ticker.C:
			select {
			case <-s.wake:
				s.RenderTick(ts)
			default:
				// nothing changed since the last tick
			}
		}
	}
}

// Stats is a snapshot of scheduler behavior.
type Stats struct {
	Rendered   uint64
	Coalesced  uint64
	TickP50us  int64
	TickP99us  int64
	TickMeanus float64
}

func (s *Scheduler)Stats() Stats {
	return Stats{
		Rendered:   s.rendered.Load(),
		Coalesced:  s.coalesced.Load(),
		TickP50us:  s.latency.ValueAtQuantile(50),
		TickP99us:  s.latency.ValueAtQuantile(99),
		TickMeanus: s.latency.Mean(),
	}
}
