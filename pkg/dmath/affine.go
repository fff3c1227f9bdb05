package dmath

// 2D affine transformations, used for viewport placement and image warps

import(
	"math"

	"golang.org/x/image/math/f64"  // Will be "image/math/f64" at some point, hopefully make this file redundant
)

// Use a local type so we can hang methods off it. Row-major 2x3, same
// layout x/image/draw expects for its Transform calls.
type Aff3 f64.Aff3

func Identity() Aff3 {
	return Aff3{1, 0, 0,   0, 1, 0}
}

// Cut-n-pasted from image@0.7.0/draw/scale:matMul
func (p Aff3)Mult(q Aff3) Aff3 {
	return Aff3{
		p[3*0+0]*q[3*0+0] + p[3*0+1]*q[3*1+0],
		p[3*0+0]*q[3*0+1] + p[3*0+1]*q[3*1+1],
		p[3*0+0]*q[3*0+2] + p[3*0+1]*q[3*1+2] + p[3*0+2],
		p[3*1+0]*q[3*0+0] + p[3*1+1]*q[3*1+0],
		p[3*1+0]*q[3*0+1] + p[3*1+1]*q[3*1+1],
		p[3*1+0]*q[3*0+2] + p[3*1+1]*q[3*1+2] + p[3*1+2],
	}
}

func (m1 Aff3)Translate(tx, ty float64) Aff3 {
	return m1.Mult(Aff3{1, 0, tx,   0, 1, ty})
}

func (m1 Aff3)Scale(sx, sy float64) Aff3 {
	return m1.Mult(Aff3{sx, 0, 0,   0, sy, 0})
}

func (m1 Aff3)Rotate(thetaDeg float64) Aff3 {
	cosTheta := math.Cos(thetaDeg * math.Pi / 180.0)
	sinTheta := math.Sin(thetaDeg * math.Pi / 180.0)
	return m1.Mult(Aff3{cosTheta, -1*sinTheta, 0,    sinTheta, cosTheta, 0})
}

func RotateAbout(thetaDeg, x, y float64) Aff3 {
	// Remember they compose back to front - rightmost operations performed first
	return Identity().Translate(x, y).Rotate(thetaDeg).Translate(-1*x, -1*y)
}

// Apply maps the point (x,y) through the transform.
func (m Aff3)Apply(x, y float64) (float64, float64) {
	return m[0]*x + m[1]*y + m[2],   m[3]*x + m[4]*y + m[5]
}

// RectToRect builds the transform that maps the axis-aligned rectangle
// (sx0,sy0)-(sx1,sy1) onto (dx0,dy0)-(dx1,dy1).
func RectToRect(sx0, sy0, sx1, sy1, dx0, dy0, dx1, dy1 float64) Aff3 {
	sx := (dx1 - dx0) / (sx1 - sx0)
	sy := (dy1 - dy0) / (sy1 - sy0)
	return Aff3{sx, 0, dx0 - sx0*sx,   0, sy, dy0 - sy0*sy}
}
