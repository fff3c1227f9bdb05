package dstretch

import(
	"fmt"

	"github.com/skypies/util/histogram"

	"dstretch-live/pkg/dmath"
)

// SampleDebug accumulates a histogram of the sampled mean luma across
// frames, for eyeballing whether the sampler is looking at the region
// you think it is. Only maintained at Verbosity > 0.
type SampleDebug struct {
	LumaHist histogram.Histogram
	Frames   int
}

func NewSampleDebug() *SampleDebug {
	return &SampleDebug{
		LumaHist: histogram.Histogram{NumBuckets: 64, ValMin: 0, ValMax: 256},
	}
}

func (d *SampleDebug)Observe(mean dmath.Vec3) {
	luma := (0.2989*mean[0] + 0.5870*mean[1] + 0.1140*mean[2]) * 255.0
	if luma < 0 { luma = 0 }
	if luma > 255 { luma = 255 }
	d.LumaHist.Add(histogram.ScalarVal(int(luma)))
	d.Frames++
}

func (d *SampleDebug)String() string {
	return fmt.Sprintf("sampled mean luma over %d frames: %v", d.Frames, d.LumaHist)
}
