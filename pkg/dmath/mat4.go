package dmath

// 4x4 affine color transforms. A color c is treated as the augmented
// column vector [r g b 1]; the bottom row of a well-formed transform
// is always [0 0 0 1].

import(
	"fmt"
	"math"

	"golang.org/x/image/math/f64"
)

type Mat4 f64.Mat4   // row-major

func Identity4() Mat4 {
	return Mat4{
		1, 0, 0, 0,
		0, 1, 0, 0,
		0, 0, 1, 0,
		0, 0, 0, 1,
	}
}

// AffineColor builds the 4x4 transform with linear part `m` and
// translation `t`.
func AffineColor(m Mat3, t Vec3) Mat4 {
	return Mat4{
		m[0], m[1], m[2], t[0],
		m[3], m[4], m[5], t[1],
		m[6], m[7], m[8], t[2],
		0,    0,    0,    1,
	}
}

func (a Mat4)Mult(b Mat4) Mat4 {
	var out Mat4
	for i:=0; i<4; i++ {
		for j:=0; j<4; j++ {
			out[4*i+j] = a[4*i+0]*b[4*0+j] + a[4*i+1]*b[4*1+j] + a[4*i+2]*b[4*2+j] + a[4*i+3]*b[4*3+j]
		}
	}
	return out
}

// Apply maps a color through the transform, treating it as [r g b 1].
func (m Mat4)Apply(v Vec3) Vec3 {
	return Vec3{
		m[4*0+0]*v[0] + m[4*0+1]*v[1] + m[4*0+2]*v[2] + m[4*0+3],
		m[4*1+0]*v[0] + m[4*1+1]*v[1] + m[4*1+2]*v[2] + m[4*1+3],
		m[4*2+0]*v[0] + m[4*2+1]*v[1] + m[4*2+2]*v[2] + m[4*2+3],
	}
}

// Linear returns the upper-left 3x3 part.
func (m Mat4)Linear() Mat3 {
	return Mat3{
		m[0], m[1], m[2],
		m[4], m[5], m[6],
		m[8], m[9], m[10],
	}
}

func (m Mat4)IsFinite() bool {
	for i:=0; i<16; i++ {
		if math.IsNaN(m[i]) || math.IsInf(m[i], 0) { return false }
	}
	return true
}

func (m Mat4)String() string {
	str := ""
	for i:=0; i<4; i++ {
		str += fmt.Sprintf("[%10f, %10f, %10f, %10f]\n", m[4*i+0], m[4*i+1], m[4*i+2], m[4*i+3])
	}
	return str
}
