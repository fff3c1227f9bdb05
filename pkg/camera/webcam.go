package camera

import(
	"context"
	"fmt"
	"time"

	"github.com/rs/zerolog"
	"gocv.io/x/gocv"

	"dstretch-live/pkg/dstretch"
)

// Webcam reads frames from an OpenCV capture device as fast as the
// device offers them. Backpressure is the pipeline's problem, not ours:
// we deliver every frame and let the frame box drop stale ones.
type Webcam struct {
	cap *gocv.VideoCapture
	log zerolog.Logger
	seq uint64
}

func newWebcam(cfg dstretch.CameraConfig, log zerolog.Logger) (*Webcam, error) {
	cap, err := gocv.OpenVideoCapture(sourceArg(cfg.Source))
	if err != nil {
		return nil, fmt.Errorf("open camera '%s': %v", cfg.Source, err)
	}

	if cfg.Width > 0 { cap.Set(gocv.VideoCaptureFrameWidth, float64(cfg.Width)) }
	if cfg.Height > 0 { cap.Set(gocv.VideoCaptureFrameHeight, float64(cfg.Height)) }
	if cfg.FPS > 0 { cap.Set(gocv.VideoCaptureFPS, float64(cfg.FPS)) }

	log.Info().
		Str("source", cfg.Source).
		Float64("width", cap.Get(gocv.VideoCaptureFrameWidth)).
		Float64("height", cap.Get(gocv.VideoCaptureFrameHeight)).
		Msg("camera opened")

	return &Webcam{cap: cap, log: log}, nil
}

func (w *Webcam)Start(ctx context.Context, deliver func(*dstretch.Frame)) error {
	mat := gocv.NewMat()
	defer mat.Close()

	for {
		select {
		case <-ctx.Done():
			return ctx.Err()
		default:
		}

		if ok := w.cap.Read(&mat); !ok {
			return fmt.Errorf("camera read failed (device disconnected?)")
		}
		if mat.Empty() { continue }

		img, err := mat.ToImage()
		if err != nil {
			// A single bad frame is not fatal; a camera that only
			// produces bad frames will flood this at debug level.
			w.log.Debug().Err(err).Msg("frame conversion failed, skipping")
			continue
		}

		w.seq++
		b := img.Bounds()
		deliver(&dstretch.Frame{
			Image:     img,
			Width:     b.Dx(),
			Height:    b.Dy(),
			Timestamp: time.Now(),
			Seq:       w.seq,
		})
	}
}

func (w *Webcam)Close() error {
	return w.cap.Close()
}
