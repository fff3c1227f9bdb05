package dstretch

import(
	"context"
	"sync"
	"sync/atomic"
	"time"

	"github.com/rs/zerolog"

	"dstretch-live/pkg/dmath"
)

// Pipeline wires the frame mailbox, compositor and scheduler together
// and owns the externally-tunable state (decor strength, post matrix,
// projection, capture requests). Setters may be called from any
// goroutine; each render tick works from one consistent snapshot.
type Pipeline struct {
	mu            sync.Mutex
	decor         float64
	post          *dmath.Mat4
	proj          Projection
	captureSignal func() *CaptureRequest

	pendingCapture atomic.Pointer[CaptureRequest]

	box   FrameBox
	comp  *Compositor
	sched *Scheduler
	cfg   Config
	log   zerolog.Logger
}

func New(surface Surface, exporter Exporter, cfg Config, log zerolog.Logger) (*Pipeline, error) {
	if cfg.SampleBudget == 0 {
		cfg.SampleBudget = 1000
	}

	post, err := cfg.GetPost()
	if err != nil {
		return nil, err
	}

	p := &Pipeline{
		decor: cfg.Decor,
		post:  post,
		proj:  cfg.GetProjection(),
		cfg:   cfg,
		log:   log,
	}

	p.comp, err = NewCompositor(surface, exporter, &p.box, cfg.SampleBudget, log)
	if err != nil {
		return nil, err
	}
	if cfg.Verbosity > 0 {
		p.comp.EnableDebug()
	}

	p.sched = NewScheduler(p.renderOnce, log)
	return p, nil
}

// Deliver hands a camera frame to the pipeline. Called by the capture
// device at its own cadence; never blocks on rendering.
func (p *Pipeline)Deliver(f *Frame) {
	p.box.Put(f)
	p.sched.RequestRender()
}

func (p *Pipeline)SetDecor(v float64) {
	p.mu.Lock()
	p.decor = v
	p.mu.Unlock()
	p.sched.RequestRender()
}

func (p *Pipeline)SetPost(m *dmath.Mat4) {
	p.mu.Lock()
	p.post = m
	p.mu.Unlock()
	p.sched.RequestRender()
}

func (p *Pipeline)SetProjection(proj Projection) {
	p.mu.Lock()
	p.proj = proj
	p.mu.Unlock()
	p.sched.RequestRender()
}

// SetCaptureSignal installs the owner's capture poll, consulted once
// per tick. Overrides the Capture() helper when set.
func (p *Pipeline)SetCaptureSignal(fn func() *CaptureRequest) {
	p.mu.Lock()
	p.captureSignal = fn
	p.mu.Unlock()
}

// Capture schedules a one-shot still of the displayed region. If a
// request is already pending it is replaced.
func (p *Pipeline)Capture(fileName, mimeType string) {
	p.pendingCapture.Store(&CaptureRequest{FileName: fileName, MIMEType: mimeType})
	p.sched.RequestRender()
}

// snapshot claims the tick's configuration atomically; the capture
// request is one-shot and is consumed here.
func (p *Pipeline)snapshot() Snapshot {
	p.mu.Lock()
	snap := Snapshot{
		Decor:      p.decor,
		Post:       p.post,
		Projection: p.proj,
	}
	signal := p.captureSignal
	p.mu.Unlock()

	if signal != nil {
		snap.Capture = signal()
	} else {
		snap.Capture = p.pendingCapture.Swap(nil)
	}
	return snap
}

func (p *Pipeline)renderOnce(ts time.Time) {
	p.comp.Render(p.snapshot())
}

// Run drives the render loop until ctx is cancelled.
func (p *Pipeline)Run(ctx context.Context) {
	hz := p.cfg.RefreshHz
	if hz <= 0 {
		hz = 30
	}
	p.sched.Run(ctx, time.Second/time.Duration(hz))

	if d := p.comp.debug; d != nil {
		p.log.Info().Msg(d.String())
	}
	stats := p.sched.Stats()
	p.log.Info().
		Uint64("rendered", stats.Rendered).
		Uint64("coalesced", stats.Coalesced).
		Uint64("frame_drops", p.box.Drops()).
		Int64("tick_p50_us", stats.TickP50us).
		Int64("tick_p99_us", stats.TickP99us).
		Msg("pipeline stats")
}

// Scheduler exposes the scheduler, mostly so owners can wire external
// tick sources or read stats.
func (p *Pipeline)Scheduler() *Scheduler { return p.sched }

// Compositor exposes the compositor for direct-tick embedding.
func (p *Pipeline)Compositor() *Compositor { return p.comp }
