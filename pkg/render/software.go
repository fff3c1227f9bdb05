// Package render provides a software implementation of the rendering
// surface the pipeline draws on. It keeps the uploaded frame as a
// float32 color plane - the CPU stand-in for a float-format GPU
// texture - so the statistics reduction gets real float accumulation,
// and it warps the transformed frame onto the output with the same
// x/image/draw machinery a compositor shader would replace.
package render

import(
	"fmt"
	"image"

	"github.com/rs/zerolog"
	"golang.org/x/image/draw"
	"golang.org/x/image/math/f64"

	"dstretch-live/pkg/dmath"
	"dstretch-live/pkg/dstretch"
)

// texture is the uploaded frame: RGB triplets as float32 in [0,1].
type texture struct {
	w, h int
	pix  []float32
}

func (t *texture)Size() (int, int) { return t.w, t.h }

// at returns the color of texel (x,y), clamped to the texture bounds.
func (t *texture)at(x, y int) dmath.Vec3 {
	if x < 0 { x = 0 }
	if y < 0 { y = 0 }
	if x >= t.w { x = t.w - 1 }
	if y >= t.h { y = t.h - 1 }
	i := 3 * (y*t.w + x)
	return dmath.Vec3{float64(t.pix[i]), float64(t.pix[i+1]), float64(t.pix[i+2])}
}

type Software struct {
	w, h     int
	tex      *texture    // reused across uploads of same-sized frames
	colored  *image.RGBA // scratch: frame after the color transform
	out      *image.RGBA
	captured *image.RGBA
	log      zerolog.Logger
}

func NewSoftware(w, h int, log zerolog.Logger) *Software {
	return &Software{
		w:   w,
		h:   h,
		out: image.NewRGBA(image.Rect(0, 0, w, h)),
		log: log,
	}
}

// FloatPrecision: the software path accumulates in float32, the
// equivalent of a full-float color buffer.
func (s *Software)FloatPrecision() dstretch.Precision { return dstretch.PrecisionFull }

func (s *Software)Size() (int, int) { return s.w, s.h }

func (s *Software)UpdateTexture(img image.Image) (dstretch.Texture, error) {
	b := img.Bounds()
	w, h := b.Dx(), b.Dy()
	if w < 1 || h < 1 {
		return nil, fmt.Errorf("empty frame %dx%d", w, h)
	}

	if s.tex == nil || s.tex.w != w || s.tex.h != h {
		s.tex = &texture{w: w, h: h, pix: make([]float32, 3*w*h)}
		s.colored = image.NewRGBA(image.Rect(0, 0, w, h))
	}

	// Fast path for the common decoded-frame type
	if rgba, ok := img.(*image.RGBA); ok {
		i := 0
		for y := b.Min.Y; y < b.Max.Y; y++ {
			row := rgba.Pix[(y-b.Min.Y)*rgba.Stride:]
			for x := 0; x < w; x++ {
				s.tex.pix[i+0] = float32(row[4*x+0]) / 255.0
				s.tex.pix[i+1] = float32(row[4*x+1]) / 255.0
				s.tex.pix[i+2] = float32(row[4*x+2]) / 255.0
				i += 3
			}
		}
		return s.tex, nil
	}

	i := 0
	for y := b.Min.Y; y < b.Max.Y; y++ {
		for x := b.Min.X; x < b.Max.X; x++ {
			r, g, bb, _ := img.At(x, y).RGBA() // [0, 0xFFFF]
			s.tex.pix[i+0] = float32(r) / 65535.0
			s.tex.pix[i+1] = float32(g) / 65535.0
			s.tex.pix[i+2] = float32(bb) / 65535.0
			i += 3
		}
	}
	return s.tex, nil
}

// Display runs the draw call: color transform per texel, then the
// position transform places the result on the output. A nil texture
// clears the output (the pre-first-frame placeholder).
func (s *Software)Display(colorM dmath.Mat4, tex dstretch.Texture, srcW, srcH int, pos dmath.Aff3, capture *image.Rectangle) {
	if tex == nil {
		clearRGBA(s.out)
		return
	}
	t, ok := tex.(*texture)
	if !ok {
		s.log.Error().Msg("display called with a foreign texture")
		return
	}

	// Pass 1: the fragment-shader stand-in
	i := 0
	for p := 0; p < t.w*t.h; p++ {
		c := colorM.Apply(dmath.Vec3{
			float64(t.pix[3*p+0]), float64(t.pix[3*p+1]), float64(t.pix[3*p+2]),
		})
		c.FloorAt(0)
		c.CeilingAt(1)
		s.colored.Pix[i+0] = uint8(c[0]*255.0 + 0.5)
		s.colored.Pix[i+1] = uint8(c[1]*255.0 + 0.5)
		s.colored.Pix[i+2] = uint8(c[2]*255.0 + 0.5)
		s.colored.Pix[i+3] = 0xFF
		i += 4
	}

	// Pass 2: viewport placement
	clearRGBA(s.out)
	draw.CatmullRom.Transform(s.out, f64.Aff3(pos), s.colored, s.colored.Bounds(), draw.Src, nil)

	if capture != nil {
		s.captured = cloneRegion(s.out, *capture)
	}
}

func (s *Software)Image() image.Image { return s.out }

func (s *Software)Captured() image.Image {
	img := s.captured
	s.captured = nil
	return img
}

func clearRGBA(img *image.RGBA) {
	for i := range img.Pix {
		if i%4 == 3 {
			img.Pix[i] = 0xFF
		} else {
			img.Pix[i] = 0
		}
	}
}

// cloneRegion copies a region of the output into a fresh image anchored
// at the origin, at its displayed resolution.
func cloneRegion(src *image.RGBA, r image.Rectangle) *image.RGBA {
	r = r.Intersect(src.Bounds())
	dst := image.NewRGBA(image.Rect(0, 0, r.Dx(), r.Dy()))
	for y := 0; y < r.Dy(); y++ {
		for x := 0; x < r.Dx(); x++ {
			dst.Set(x, y, src.At(r.Min.X+x, r.Min.Y+y))
		}
	}
	return dst
}

var _ dstretch.Surface = (*Software)(nil)
