package dstretch

import(
	"math"
	"math/rand"
	"testing"

	"github.com/rs/zerolog"

	"dstretch-live/pkg/dmath"
)

// gaussianStats samples n colors as mean + B*z (z standard normal) and
// returns their accumulated raw statistics plus the samples.
func gaussianStats(rnd *rand.Rand, mean dmath.Vec3, b dmath.Mat3, n int) (RawStats, []dmath.Vec3) {
	var raw RawStats
	colors := make([]dmath.Vec3, n)
	for i := range colors {
		z := dmath.Vec3{rnd.NormFloat64(), rnd.NormFloat64(), rnd.NormFloat64()}
		bz := b.Apply(z)
		colors[i] = dmath.Vec3{mean[0] + bz[0], mean[1] + bz[1], mean[2] + bz[2]}
		raw.Accumulate(colors[i])
	}
	return raw, colors
}

func TestDecorrelationFixesMean(t *testing.T) {
	rnd := rand.New(rand.NewSource(7))
	mean := dmath.Vec3{0.4, 0.5, 0.6}
	b := dmath.Mat3{
		0.10, 0.02, 0.00,
		0.02, 0.08, 0.01,
		0.00, 0.01, 0.05,
	}
	raw, _ := gaussianStats(rnd, mean, b, 1000)
	sampleMean, cov := ExtractMeanCov(raw)

	for _, decor := range []float64{0.05, 0.15, 0.5, 1.0} {
		m, ok := Decorrelation(cov, sampleMean, decor)
		if !ok {
			t.Fatalf("decor=%f: healthy statistics rejected", decor)
		}
		got := m.Apply(sampleMean)
		for k:=0; k<3; k++ {
			if math.Abs(got[k]-sampleMean[k]) > 1e-9 {
				t.Errorf("decor=%f: transform moved the mean: %s -> %s", decor, sampleMean, got)
			}
		}
	}
}

func TestDecorrelationEqualizesVariance(t *testing.T) {
	rnd := rand.New(rand.NewSource(42))
	mean := dmath.Vec3{0.5, 0.45, 0.55}

	// R and G co-vary strongly, B nearly constant: the correlated-color
	// scenario the stretch exists for.
	b := dmath.Mat3{
		0.12, 0.00, 0.00,
		0.10, 0.02, 0.00,
		0.00, 0.00, 0.005,
	}
	decor := 0.2

	raw, colors := gaussianStats(rnd, mean, b, 5000)
	sampleMean, cov := ExtractMeanCov(raw)

	m, ok := Decorrelation(cov, sampleMean, decor)
	if !ok {
		t.Fatalf("healthy statistics rejected")
	}

	// Recompute statistics of the transformed colors: the covariance
	// must come out as decor² * I, exactly up to float error, because
	// the transform diagonalizes the very estimate it was built from.
	var rawOut RawStats
	for _, c := range colors {
		rawOut.Accumulate(m.Apply(c))
	}
	_, covOut := ExtractMeanCov(rawOut)

	want := decor * decor
	for i:=0; i<3; i++ {
		for j:=0; j<3; j++ {
			expect := 0.0
			if i == j { expect = want }
			if math.Abs(covOut[3*i+j]-expect) > 1e-6 {
				t.Fatalf("transformed covariance not equalized:\n%swant %f on the diagonal", covOut, want)
			}
		}
	}
}

func TestBuilderHoldsLastGoodOnDegenerate(t *testing.T) {
	log := zerolog.Nop()
	b := NewBuilder(log)

	// Starts life as identity
	if b.LastGood() != dmath.Identity4() {
		t.Fatalf("builder did not start at identity")
	}

	// A healthy build updates lastGood
	rnd := rand.New(rand.NewSource(3))
	mean := dmath.Vec3{0.5, 0.5, 0.5}
	spread := dmath.Mat3{
		0.1, 0, 0,
		0, 0.1, 0,
		0, 0, 0.1,
	}
	raw, _ := gaussianStats(rnd, mean, spread, 1000)
	sampleMean, cov := ExtractMeanCov(raw)
	good := b.Build(cov, sampleMean, 0.2)
	if good == dmath.Identity4() {
		t.Fatalf("healthy build produced identity")
	}
	if !good.IsFinite() {
		t.Fatalf("healthy build produced non-finite transform")
	}

	// A constant-color region has zero variance on every axis; the
	// rescale divides by sqrt(0) and must trip the finite check. Across
	// repeated degenerate inputs the builder keeps returning the same
	// prior transform, never leaking a non-finite matrix.
	var flat RawStats
	for i:=0; i<100; i++ {
		flat.Accumulate(dmath.Vec3{0.5, 0.5, 0.5})
	}
	flatMean, flatCov := ExtractMeanCov(flat)

	for i:=0; i<5; i++ {
		got := b.Build(flatCov, flatMean, 0.2)
		if !got.IsFinite() {
			t.Fatalf("degenerate input leaked a non-finite transform:\n%s", got)
		}
		if got != good {
			t.Fatalf("degenerate input did not hold the last good transform")
		}
	}
	if b.HeldCount() != 5 {
		t.Errorf("HeldCount = %d, want 5", b.HeldCount())
	}
}

func TestBuilderUndersampled(t *testing.T) {
	b := NewBuilder(zerolog.Nop())

	var raw RawStats
	raw.Accumulate(dmath.Vec3{0.2, 0.4, 0.6})
	mean, cov := ExtractMeanCov(raw)

	got := b.Build(cov, mean, 0.2)
	if got != dmath.Identity4() {
		t.Errorf("undersampled build before any good one should hold identity")
	}
}
