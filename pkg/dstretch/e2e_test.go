package dstretch_test

// End-to-end checks through the real software renderer: frames go in
// via Deliver, ticks run the compositor, and we look at the pixels
// that come out.

import(
	"image"
	"image/color"
	"math"
	"testing"
	"time"

	"github.com/rs/zerolog"

	"dstretch-live/pkg/dstretch"
	"dstretch-live/pkg/render"
)

func newTestPipeline(t *testing.T, cfg dstretch.Config) (*dstretch.Pipeline, *render.Software) {
	t.Helper()
	surface := render.NewSoftware(cfg.OutputWidth, cfg.OutputHeight, zerolog.Nop())
	exporter := render.FileExporter{Dir: t.TempDir(), Log: zerolog.Nop()}
	p, err := dstretch.New(surface, exporter, cfg, zerolog.Nop())
	if err != nil {
		t.Fatalf("New: %v", err)
	}
	return p, surface
}

func tick(p *dstretch.Pipeline, f *dstretch.Frame) {
	p.Deliver(f)
	p.Scheduler().RenderTick(time.Now())
}

// A featureless frame has no covariance to stretch; the transform holds
// at identity and the output matches the input.
func TestEndToEndDegenerateHoldsIdentity(t *testing.T) {
	cfg := dstretch.NewConfig()
	cfg.OutputWidth, cfg.OutputHeight = 64, 64

	p, surface := newTestPipeline(t, cfg)

	img := image.NewRGBA(image.Rect(0, 0, 64, 64))
	for y:=0; y<64; y++ {
		for x:=0; x<64; x++ { img.SetRGBA(x, y, color.RGBA{128, 128, 128, 255}) }
	}
	tick(p, &dstretch.Frame{Image: img, Width: 64, Height: 64, Timestamp: time.Now(), Seq: 1})

	r, g, b, _ := surface.Image().At(32, 32).RGBA()
	for _, v := range []uint32{r, g, b} {
		if d := int(v>>8) - 128; d < -2 || d > 2 {
			t.Fatalf("gray frame changed under a degenerate stretch: %d %d %d",
				r>>8, g>>8, b>>8)
		}
	}
}

// structuredFrame has balanced per-channel wiggles around gray, with
// incommensurate spatial frequencies so no sampling grid aliases them
// away. Per-channel stddevs are all below the default stretch target,
// so the stretch must expand contrast.
func structuredFrame(w, h int) *image.RGBA {
	img := image.NewRGBA(image.Rect(0, 0, w, h))
	for y:=0; y<h; y++ {
		for x:=0; x<w; x++ {
			fx, fy := float64(x), float64(y)
			r := 128 + 35*math.Sin(0.37*fx+0.11*fy)
			g := 128 + 30*math.Sin(0.53*fy+1)
			b := 128 + 25*math.Sin(0.29*(fx+fy)+2)
			img.SetRGBA(x, y, color.RGBA{uint8(r), uint8(g), uint8(b), 255})
		}
	}
	return img
}

func channelStats(img image.Image, rect image.Rectangle) (mean, variance [3]float64) {
	var sum, sumsq [3]float64
	n := 0.0
	for y:=rect.Min.Y; y<rect.Max.Y; y++ {
		for x:=rect.Min.X; x<rect.Max.X; x++ {
			r, g, b, _ := img.At(x, y).RGBA()
			for k, v := range []uint32{r, g, b} {
				f := float64(v >> 8)
				sum[k] += f
				sumsq[k] += f * f
			}
			n++
		}
	}
	for k:=0; k<3; k++ {
		mean[k] = sum[k] / n
		variance[k] = sumsq[k]/n - mean[k]*mean[k]
	}
	return
}

// A low-contrast frame comes out with more contrast and the same mean.
func TestEndToEndStretchExpandsContrast(t *testing.T) {
	cfg := dstretch.NewConfig()
	cfg.OutputWidth, cfg.OutputHeight = 64, 64

	p, surface := newTestPipeline(t, cfg)

	img := structuredFrame(64, 64)
	tick(p, &dstretch.Frame{Image: img, Width: 64, Height: 64, Timestamp: time.Now(), Seq: 1})

	// Interior only: the resampler softens the last row/col
	interior := image.Rect(2, 2, 62, 62)
	inMean, inVar := channelStats(img, interior)
	outMean, outVar := channelStats(surface.Image(), interior)

	for k:=0; k<3; k++ {
		if outVar[k] < inVar[k]*1.2 {
			t.Errorf("channel %d variance %f -> %f, expected expansion", k, inVar[k], outVar[k])
		}
		if math.Abs(outMean[k]-inMean[k]) > 6 {
			t.Errorf("channel %d mean moved %f -> %f", k, inMean[k], outMean[k])
		}
	}
}

// Turning the stretch off passes pixels through untouched.
func TestEndToEndDecorOffIsPassthrough(t *testing.T) {
	cfg := dstretch.NewConfig()
	cfg.Decor = 0
	cfg.OutputWidth, cfg.OutputHeight = 64, 64

	p, surface := newTestPipeline(t, cfg)

	img := structuredFrame(64, 64)
	tick(p, &dstretch.Frame{Image: img, Width: 64, Height: 64, Timestamp: time.Now(), Seq: 1})

	for _, pt := range []image.Point{{10, 10}, {33, 47}, {50, 20}} {
		wr, wg, wb, _ := img.At(pt.X, pt.Y).RGBA()
		gr, gg, gb, _ := surface.Image().At(pt.X, pt.Y).RGBA()
		for _, d := range []int{int(wr>>8) - int(gr>>8), int(wg>>8) - int(gg>>8), int(wb>>8) - int(gb>>8)} {
			if d < -2 || d > 2 {
				t.Fatalf("pixel %v changed with the stretch disabled", pt)
			}
		}
	}
}

// A capture request exports exactly one file at the displayed size.
func TestEndToEndCapture(t *testing.T) {
	cfg := dstretch.NewConfig()
	cfg.OutputWidth, cfg.OutputHeight = 64, 64

	surface := render.NewSoftware(64, 64, zerolog.Nop())
	exporter := &countingExporter{}
	p, err := dstretch.New(surface, exporter, cfg, zerolog.Nop())
	if err != nil {
		t.Fatalf("New: %v", err)
	}

	img := structuredFrame(64, 64)
	p.Capture("still.png", "image/png")
	tick(p, &dstretch.Frame{Image: img, Width: 64, Height: 64, Timestamp: time.Now(), Seq: 1})

	if exporter.count != 1 {
		t.Fatalf("exports = %d, want 1", exporter.count)
	}
	if b := exporter.last.Bounds(); b.Dx() != 64 || b.Dy() != 64 {
		t.Errorf("captured %dx%d, want 64x64", b.Dx(), b.Dy())
	}

	// The request was one-shot; the next tick must not export again
	tick(p, &dstretch.Frame{Image: img, Width: 64, Height: 64, Timestamp: time.Now().Add(time.Millisecond), Seq: 2})
	if exporter.count != 1 {
		t.Errorf("capture repeated: exports = %d", exporter.count)
	}
}

type countingExporter struct {
	count int
	last  image.Image
}

func (e *countingExporter)Export(img image.Image, fileName, mimeType string) error {
	e.count++
	e.last = img
	return nil
}
