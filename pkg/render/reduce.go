package render

// The statistics reduction. On a GPU this would be a downsampling or
// compute pass over a float render target with a 4x4 readback; here it
// is a strided scan over the float texture plane. The contracts are the
// same either way: a fixed sample budget regardless of region size, at
// least 16-bit float accumulation, and a readback that never scales
// with image resolution.

import(
	"fmt"
	"math"

	"dstretch-live/pkg/dmath"
	"dstretch-live/pkg/dstretch"
)

// Reduce estimates Σ c⊗c_aug over exactly `budget` texels drawn from
// the region (an affine map from the unit square into normalized
// texture coordinates). Samples lie on a uniform grid over the region,
// so the estimate is deterministic for a given frame and viewport.
func (s *Software)Reduce(tex dstretch.Texture, region dmath.Aff3, budget int) (dstretch.RawStats, error) {
	var raw dstretch.RawStats

	t, ok := tex.(*texture)
	if !ok || t == nil {
		return raw, fmt.Errorf("reduce called with a foreign texture")
	}
	if budget < 1 {
		return raw, fmt.Errorf("sample budget %d", budget)
	}

	// A near-square grid with at least `budget` cells; the first
	// `budget` cells in scan order are sampled, so the count is exact.
	nx := int(math.Ceil(math.Sqrt(float64(budget))))
	ny := (budget + nx - 1) / nx

	// float32 accumulation, as a float color buffer would do
	var acc [16]float32

	for k := 0; k < budget; k++ {
		u := (float64(k%nx) + 0.5) / float64(nx)
		v := (float64(k/nx) + 0.5) / float64(ny)
		rx, ry := region.Apply(u, v)

		c := t.at(int(rx*float64(t.w)), int(ry*float64(t.h)))
		aug := [4]float32{float32(c[0]), float32(c[1]), float32(c[2]), 1}
		for i:=0; i<4; i++ {
			for j:=0; j<4; j++ {
				acc[4*i+j] += aug[i] * aug[j]
			}
		}
	}

	// The "readback": 16 values, whatever the resolution was
	for i := range acc {
		raw[i] = float64(acc[i])
	}
	return raw, nil
}
