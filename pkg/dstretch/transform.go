package dstretch

import(
	"math"

	"github.com/rs/zerolog"

	"dstretch-live/pkg/dmath"
)

// Builder turns sampled color statistics into a decorrelation stretch
// transform. It owns the "last known good" transform: when a frame's
// statistics are degenerate (constant color, too few samples, or a
// sampled covariance that isn't positive semi-definite), the previous
// valid transform is reused unchanged. The displayed image holds steady
// instead of flashing - never a reset to identity mid-stream.
type Builder struct {
	lastGood dmath.Mat4
	held     uint64
	built    uint64
	log      zerolog.Logger
}

func NewBuilder(log zerolog.Logger) *Builder {
	return &Builder{
		lastGood: dmath.Identity4(),
		log:      log,
	}
}

// Build produces the stretch transform for the given covariance and
// mean. decor is the target per-axis standard deviation, in [0,1]
// color units. On any numerical failure the last good transform is
// returned instead.
func (b *Builder)Build(cov dmath.Mat3, mean dmath.Vec3, decor float64) dmath.Mat4 {
	m, ok := Decorrelation(cov, mean, decor)
	if !ok {
		b.held++
		b.log.Debug().Uint64("held", b.held).Msg("degenerate statistics, holding last transform")
		return b.lastGood
	}
	b.built++
	b.lastGood = m
	return m
}

// LastGood returns the transform currently being held.
func (b *Builder)LastGood() dmath.Mat4 { return b.lastGood }

// HeldCount returns how many builds fell back on the held transform.
func (b *Builder)HeldCount() uint64 { return b.held }

// Decorrelation computes the stretch transform directly: rotate into
// the principal axes of the covariance, rescale each axis variance to
// decor², rotate back, and translate so the mean color is a fixed
// point. ok is false when the result would not be numerically finite;
// a sampled covariance is a noisy estimate and can fail to be positive
// semi-definite, which surfaces here as 1/sqrt of a non-positive
// eigenvalue.
func Decorrelation(cov dmath.Mat3, mean dmath.Vec3, decor float64) (dmath.Mat4, bool) {
	vals, vecs, ok := dmath.EigenSym3(cov)
	if !ok {
		return dmath.Identity4(), false
	}

	var stretch dmath.Vec3
	for i:=0; i<3; i++ {
		stretch[i] = decor / math.Sqrt(vals[i])
	}

	lin := vecs.Mult(stretch.Diag()).Mult(vecs.Transpose())
	offset := mean.Sub(lin.Apply(mean))
	m := dmath.AffineColor(lin, offset)

	if !m.IsFinite() {
		return dmath.Identity4(), false
	}
	return m, true
}
