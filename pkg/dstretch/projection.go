package dstretch

// Viewport projection: how the source frame is cropped and placed on
// the output. The same crop drives the statistics sampling, so the
// stretch is always computed from exactly the pixels on screen.

import(
	"image"

	"dstretch-live/pkg/dmath"
)

// Rect01 is an axis-aligned rectangle in normalized [0,1] coordinates.
type Rect01 struct {
	X0, Y0, X1, Y1 float64
}

func FullRect() Rect01 { return Rect01{0, 0, 1, 1} }

func (r Rect01)Dx() float64 { return r.X1 - r.X0 }
func (r Rect01)Dy() float64 { return r.Y1 - r.Y0 }

// Placement is what a projection decides for one frame: where the
// cropped source lands on the output, and which part of the source is
// shown (and therefore sampled).
type Placement struct {
	Screen Rect01 // in normalized output coordinates
	Crop   Rect01 // in normalized source coordinates
}

// A Projection maps the aspect ratio (w/h) of the current frame to a
// placement. A nil Projection means FitToFrame.
type Projection func(aspect float64) Placement

// FitToFrame letterboxes the whole frame into the output, preserving
// aspect ratio against the given output aspect.
func FitToFrame(outAspect float64) Projection {
	return func(aspect float64) Placement {
		p := Placement{Screen: FullRect(), Crop: FullRect()}
		if aspect > outAspect {
			// Frame is wider: pillar the height
			h := outAspect / aspect
			p.Screen.Y0 = (1 - h) / 2
			p.Screen.Y1 = p.Screen.Y0 + h
		} else if aspect < outAspect {
			w := aspect / outAspect
			p.Screen.X0 = (1 - w) / 2
			p.Screen.X1 = p.Screen.X0 + w
		}
		return p
	}
}

// CenterCrop zooms into the middle `frac` of the frame, filling the
// whole output.
func CenterCrop(frac float64) Projection {
	if frac <= 0 || frac > 1 { frac = 1 }
	return func(aspect float64) Placement {
		lo := (1 - frac) / 2
		return Placement{
			Screen: FullRect(),
			Crop:   Rect01{lo, lo, lo + frac, lo + frac},
		}
	}
}

// SampleRegion is the affine map from the unit square to the crop
// rectangle in normalized texture coordinates, fed to Surface.Reduce.
func (p Placement)SampleRegion() dmath.Aff3 {
	c := p.Crop
	return dmath.Aff3{c.Dx(), 0, c.X0,   0, c.Dy(), c.Y0}
}

// PositionTransform maps source pixels onto output pixels, placing the
// crop rectangle over the screen rectangle.
func (p Placement)PositionTransform(srcW, srcH, outW, outH int) dmath.Aff3 {
	c, s := p.Crop, p.Screen
	return dmath.RectToRect(
		c.X0*float64(srcW), c.Y0*float64(srcH), c.X1*float64(srcW), c.Y1*float64(srcH),
		s.X0*float64(outW), s.Y0*float64(outH), s.X1*float64(outW), s.Y1*float64(outH),
	)
}

// ScreenPixels is the displayed region in output pixel coordinates,
// which is also the resolution a capture request exports at.
func (p Placement)ScreenPixels(outW, outH int) image.Rectangle {
	s := p.Screen
	return image.Rect(
		int(s.X0*float64(outW)), int(s.Y0*float64(outH)),
		int(s.X1*float64(outW)), int(s.Y1*float64(outH)),
	)
}
