package dmath

// Actual 3x3 matrixes and 3-vectors, used for color statistics

import(
	"fmt"
	"math"

	"golang.org/x/image/math/f64"
)

type Vec3 f64.Vec3
type Mat3 f64.Mat3

func (a Mat3)Mult(b Mat3) Mat3 {
	var out Mat3
	for i:=0; i<3; i++ {
		for j:=0; j<3; j++ {
			out[3*i+j] = a[3*i+0]*b[3*0+j] + a[3*i+1]*b[3*1+j] + a[3*i+2]*b[3*2+j]
		}
	}
	return out
}

func (m Mat3)Apply(v Vec3) Vec3 {
	return Vec3{
		(m[3*0+0]*v[0] + m[3*0+1]*v[1] + m[3*0+2]*v[2]),
		(m[3*1+0]*v[0] + m[3*1+1]*v[1] + m[3*1+2]*v[2]),
		(m[3*2+0]*v[0] + m[3*2+1]*v[1] + m[3*2+2]*v[2]),
	}
}

func (m Mat3)Transpose() Mat3 {
	return Mat3{
		m[0], m[3], m[6],
		m[1], m[4], m[7],
		m[2], m[5], m[8],
	}
}

func (m Mat3)String() string {
	str := fmt.Sprintf("[%10f, %10f, %10f]\n", m[3*0+0], m[3*0+1], m[3*0+2])
	str += fmt.Sprintf("[%10f, %10f, %10f]\n", m[3*1+0], m[3*1+1], m[3*1+2])
	str += fmt.Sprintf("[%10f, %10f, %10f]\n", m[3*2+0], m[3*2+1], m[3*2+2])
	return str
}

func (v Vec3)String() string {
	return fmt.Sprintf("[%12.10f, %12.10f, %12.10f]", v[0], v[1], v[2])
}

func (v Vec3)Sub(w Vec3) Vec3 {
	return Vec3{v[0]-w[0], v[1]-w[1], v[2]-w[2]}
}

// Diag places the vector on the diagonal of an otherwise-zero matrix.
func (v Vec3)Diag() Mat3 {
	return Mat3{
		v[0],    0,    0,
		0,    v[1],    0,
		0,       0, v[2],
	}
}

func (v Vec3)IsFinite() bool {
	for i:=0; i<3; i++ {
		if math.IsNaN(v[i]) || math.IsInf(v[i], 0) { return false }
	}
	return true
}

func (m Mat3)IsFinite() bool {
	for i:=0; i<9; i++ {
		if math.IsNaN(m[i]) || math.IsInf(m[i], 0) { return false }
	}
	return true
}

func (v *Vec3)FloorAt(min float64) {
	if v[0] < min { v[0] = min }
	if v[1] < min { v[1] = min }
	if v[2] < min { v[2] = min }
}

func (v *Vec3)CeilingAt(max float64) {
	if v[0] > max { v[0] = max }
	if v[1] > max { v[1] = max }
	if v[2] > max { v[2] = max }
}
