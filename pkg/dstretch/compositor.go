package dstretch

import(
	"fmt"
	"image"

	"github.com/rs/zerolog"

	"dstretch-live/pkg/dmath"
)

// Snapshot is the configuration a single render tick works from. It is
// taken once at tick start, so a tick never sees a half-applied config
// change.
type Snapshot struct {
	Decor      float64         // 0 disables decorrelation
	Post       *dmath.Mat4     // applied after decorrelation, or nil
	Projection Projection      // nil = fit-to-frame
	Capture    *CaptureRequest // one-shot, already claimed from its source
}

// Compositor runs one render tick: claim the pending frame, derive the
// viewport and sample region, run the statistics pipeline into a color
// transform, and issue the draw call. It owns the current texture and
// the transform builder's holdover state.
type Compositor struct {
	surface  Surface
	exporter Exporter
	builder  *Builder
	box      *FrameBox
	budget   int
	log      zerolog.Logger
	debug    *SampleDebug

	tex            Texture
	frameW, frameH int
	seen           bool
	renders        uint64
}

func NewCompositor(surface Surface, exporter Exporter, box *FrameBox, budget int, log zerolog.Logger) (*Compositor, error) {
	// Statistics need float accumulation; without it the pipeline can't
	// do its one job. Fail here, once, rather than per frame.
	if surface.FloatPrecision() == PrecisionNone {
		return nil, fmt.Errorf("surface has no float color buffer support; cannot accumulate statistics")
	}
	if budget < 2 {
		return nil, fmt.Errorf("sample budget %d too small for a covariance estimate", budget)
	}

	log.Info().Str("precision", surface.FloatPrecision().String()).Int("budget", budget).
		Msg("compositor ready")

	return &Compositor{
		surface:  surface,
		exporter: exporter,
		builder:  NewBuilder(log),
		box:      box,
		budget:   budget,
		log:      log,
	}, nil
}

// EnableDebug turns on sample statistics bookkeeping.
func (c *Compositor)EnableDebug() *SampleDebug {
	c.debug = NewSampleDebug()
	return c.debug
}

// Render performs one tick. Everything here runs on the single render
// context: claim, reduce+readback, draw, capture.
func (c *Compositor)Render(snap Snapshot) {
	if f := c.box.Claim(); f != nil {
		tex, err := c.surface.UpdateTexture(f.Image)
		if err != nil {
			c.log.Error().Err(err).Uint64("seq", f.Seq).Msg("texture upload failed")
		} else {
			c.tex = tex
			c.frameW, c.frameH = f.Width, f.Height
			c.seen = true
		}
	}

	outW, outH := c.surface.Size()

	// Nothing to decorrelate against until real camera data shows up:
	// no sampling, identity transforms, 1x1 placeholder.
	if !c.seen {
		c.surface.Display(dmath.Identity4(), nil, 1, 1, dmath.Identity(), nil)
		return
	}

	proj := snap.Projection
	if proj == nil {
		proj = FitToFrame(float64(outW) / float64(outH))
	}
	placement := proj(float64(c.frameW) / float64(c.frameH))
	pos := placement.PositionTransform(c.frameW, c.frameH, outW, outH)

	colorM := dmath.Identity4()
	if snap.Decor > 0 {
		raw, err := c.surface.Reduce(c.tex, placement.SampleRegion(), c.budget)
		if err != nil {
			// Transient sampling failure gets the same treatment as a
			// degenerate sample: hold the last good transform.
			c.log.Error().Err(err).Msg("statistics reduction failed")
			colorM = c.builder.LastGood()
		} else {
			mean, cov := ExtractMeanCov(raw)
			colorM = c.builder.Build(cov, mean, snap.Decor)
			if c.debug != nil {
				c.debug.Observe(mean)
			}
		}
	}
	if snap.Post != nil {
		colorM = snap.Post.Mult(colorM) // post acts on the stretched color
	}

	var capture *image.Rectangle
	if snap.Capture != nil {
		screen := placement.ScreenPixels(outW, outH)
		capture = &screen
	}

	c.surface.Display(colorM, c.tex, c.frameW, c.frameH, pos, capture)
	c.renders++

	if snap.Capture != nil {
		c.export(snap.Capture)
	}
}

func (c *Compositor)export(req *CaptureRequest) {
	img := c.surface.Captured()
	if img == nil {
		c.log.Warn().Str("file", req.FileName).Msg("capture requested but surface produced nothing")
		return
	}
	if err := c.exporter.Export(img, req.FileName, req.MIMEType); err != nil {
		c.log.Error().Err(err).Str("file", req.FileName).Msg("capture export failed")
		return
	}
	c.log.Info().Str("file", req.FileName).Str("mime", req.MIMEType).Msg("captured still")
}

// Renders counts completed render ticks.
func (c *Compositor)Renders() uint64 { return c.renders }

// FrameSeen reports whether real camera data has arrived yet.
func (c *Compositor)FrameSeen() bool { return c.seen }
