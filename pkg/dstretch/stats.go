package dstretch

// Raw color statistics, and their reduction to mean + covariance.

import(
	"dstretch-live/pkg/dmath"
)

// RawStats holds the accumulated sums of the outer product c⊗c over
// sampled pixel colors c augmented with a constant 1:
//
//	[ Σrr  Σrg  Σrb  Σr ]
//	[ Σgr  Σgg  Σgb  Σg ]
//	[ Σbr  Σbg  Σbb  Σb ]
//	[ Σr   Σg   Σb   n  ]
//
// It is everything needed to recover the sample mean and covariance,
// and it is the only thing read back from the sampling reduction - a
// fixed 16 values, no matter how big the image is.
type RawStats dmath.Mat4

// N returns the sample count.
func (r RawStats)N() float64 { return r[15] }

// Accumulate folds one color into the sums. The reduction in pkg/render
// does this on its own accumulation buffer; this method mostly exists
// for building reference statistics in tests and debug paths.
func (r *RawStats)Accumulate(c dmath.Vec3) {
	aug := [4]float64{c[0], c[1], c[2], 1}
	for i:=0; i<4; i++ {
		for j:=0; j<4; j++ {
			r[4*i+j] += aug[i] * aug[j]
		}
	}
}

// ExtractMeanCov converts raw sums into a mean vector and an unbiased
// covariance estimate. Pure; no failure path. When n <= 1 the divisions
// produce non-finite values, which callers treat as "insufficient data"
// (the transform builder falls back on its last good transform).
func ExtractMeanCov(raw RawStats) (dmath.Vec3, dmath.Mat3) {
	n := raw.N()

	var mean dmath.Vec3
	for i:=0; i<3; i++ {
		mean[i] = raw[4*i+3] / n
	}

	var cov dmath.Mat3
	for i:=0; i<3; i++ {
		for j:=0; j<3; j++ {
			cov[3*i+j] = (raw[4*i+j] - raw[4*i+3]*raw[4*3+j]/n) / (n - 1)
		}
	}
	return mean, cov
}
