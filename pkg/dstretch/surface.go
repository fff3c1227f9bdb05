package dstretch

// The rendering surface the pipeline draws on. pkg/render provides a
// software implementation; a GPU implementation plugs in here without
// touching the pipeline.

import(
	"image"

	"dstretch-live/pkg/dmath"
)

// Precision describes the float accumulation the surface can do for
// the statistics reduction.
type Precision int

const(
	PrecisionNone Precision = iota // no float buffers: pipeline cannot start
	PrecisionHalf                  // 16-bit float accumulation
	PrecisionFull                  // 32-bit float accumulation
)

func (p Precision)String() string {
	switch p {
	case PrecisionHalf: return "half"
	case PrecisionFull: return "full"
	default:            return "none"
	}
}

// A Texture is an opaque handle to an uploaded frame.
type Texture interface {
	Size() (w, h int)
}

type Surface interface {
	// FloatPrecision reports the reduction capability. PrecisionNone is
	// a fatal configuration, reported once at pipeline construction.
	FloatPrecision() Precision

	// Size is the output dimensions in pixels.
	Size() (w, h int)

	// UpdateTexture uploads a frame, reusing the previous texture
	// storage when dimensions match.
	UpdateTexture(img image.Image) (Texture, error)

	// Reduce estimates RawStats over `budget` pixels drawn from the
	// region of the texture given by `region`, an affine map from the
	// unit square into normalized texture coordinates. Cost is bounded
	// by the budget, never by the texture size; the readback is a
	// single 16-value matrix.
	Reduce(tex Texture, region dmath.Aff3, budget int) (RawStats, error)

	// Display draws the frame: color transform per pixel, then the
	// position transform places the source crop on the output. When
	// capture is non-nil, the given output region is also retained at
	// its displayed resolution for Captured().
	Display(color dmath.Mat4, tex Texture, srcW, srcH int, pos dmath.Aff3, capture *image.Rectangle)

	// Image returns the current rendered output.
	Image() image.Image

	// Captured returns and clears the capture render from the last
	// Display call, or nil.
	Captured() image.Image
}

// Exporter encodes and stores a captured still. Fire and forget: the
// pipeline logs failures but does not retry.
type Exporter interface {
	Export(img image.Image, fileName, mimeType string) error
}

// A CaptureRequest asks for a one-shot still of the displayed region.
// It is either fulfilled by the tick that sees it, or dropped.
type CaptureRequest struct {
	FileName string
	MIMEType string
}
