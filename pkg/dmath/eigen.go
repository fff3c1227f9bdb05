package dmath

import(
	"gonum.org/v1/gonum/mat"
)

// EigenSym3 decomposes a symmetric 3x3 matrix into eigenvalues and an
// orthonormal eigenvector matrix (eigenvectors in columns), so that
// m = vecs * vals.Diag() * vecs.Transpose().
//
// ok is false when the factorization fails to converge, which happens
// when the input carries NaNs (e.g. a covariance computed from too few
// samples). Callers must not use vals/vecs in that case.
func EigenSym3(m Mat3) (vals Vec3, vecs Mat3, ok bool) {
	sym := mat.NewSymDense(3, []float64{
		m[0], m[1], m[2],
		m[3], m[4], m[5],
		m[6], m[7], m[8],
	})

	var eig mat.EigenSym
	if ok = eig.Factorize(sym, true); !ok {
		return
	}

	ev := eig.Values(nil)
	vals = Vec3{ev[0], ev[1], ev[2]}

	var v mat.Dense
	eig.VectorsTo(&v)
	for i:=0; i<3; i++ {
		for j:=0; j<3; j++ {
			vecs[3*i+j] = v.At(i, j)
		}
	}
	return
}
