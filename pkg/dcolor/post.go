package dcolor

// Post-processing color transforms, applied after the decorrelation
// stretch. These all operate on RGB channels in the range [0,1].

import(
	"fmt"

	"github.com/lucasb-eyer/go-colorful"

	"dstretch-live/pkg/dmath"
)

var(
	// Rec.601 luma weights. A better-behaved pipeline might weight in a
	// perceptual space, but for saturation tweaks on video this is fine.
	lumaR = 0.2989
	lumaG = 0.5870
	lumaB = 0.1140
)

func Identity() dmath.Mat4 {
	return dmath.Identity4()
}

// Saturate builds a luma-preserving saturation matrix. s=1 is a no-op,
// s=0 collapses to grayscale, s>1 exaggerates chroma.
func Saturate(s float64) dmath.Mat4 {
	inv := 1.0 - s
	lin := dmath.Mat3{
		lumaR*inv + s, lumaG*inv,     lumaB*inv,
		lumaR*inv,     lumaG*inv + s, lumaB*inv,
		lumaR*inv,     lumaG*inv,     lumaB*inv + s,
	}
	return dmath.AffineColor(lin, dmath.Vec3{})
}

// Tint builds a white-balance-style diagonal matrix that pushes the
// image towards the given hex color (e.g. "#ff8800"), normalized so
// overall luma is roughly preserved.
func Tint(hex string) (dmath.Mat4, error) {
	c, err := colorful.Hex(hex)
	if err != nil {
		return dmath.Identity4(), fmt.Errorf("tint color '%s': %v", hex, err)
	}

	luma := lumaR*c.R + lumaG*c.G + lumaB*c.B
	if luma <= 0 {
		return dmath.Identity4(), fmt.Errorf("tint color '%s' has no luminance", hex)
	}

	gains := dmath.Vec3{c.R / luma, c.G / luma, c.B / luma}
	return dmath.AffineColor(gains.Diag(), dmath.Vec3{}), nil
}
