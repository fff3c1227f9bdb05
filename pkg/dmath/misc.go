package dmath

import "math"

// sRGB transfer function, both directions. The rendered output is
// sRGB-encoded; exports to linear-light formats (e.g. Radiance) must
// linearize first.
// https://www.sjbrown.co.uk/posts/gamma-correct-rendering/

// GammaExpand_sRGB maps linear-light channels in [0,1] to sRGB-encoded.
func GammaExpand_sRGB(v Vec3) Vec3 {
	return Vec3{
		GammaExpand_F64(v[0]),
		GammaExpand_F64(v[1]),
		GammaExpand_F64(v[2]),
	}
}

func GammaExpand_F64(f float64) float64 {
	if f <= 0.0031308 {
		return 12.92 * f
	}
	return 1.055 * math.Pow(f, 1.0/2.4) - 0.055
}

// GammaLinearize_F64 inverts GammaExpand_F64: sRGB-encoded to linear.
func GammaLinearize_F64(f float64) float64 {
	if f <= 0.04045 {
		return f / 12.92
	}
	return math.Pow((f+0.055)/1.055, 2.4)
}
