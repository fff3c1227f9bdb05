// Package camera turns a video source into a stream of decoded frames.
// Two kinds of source are supported: a live webcam (an OpenCV device
// index or URL), and a directory of still images replayed in a loop,
// which is handy for reproducing a stretch offline.
package camera

import(
	"context"
	"fmt"
	"os"
	"strconv"

	"github.com/rs/zerolog"

	"dstretch-live/pkg/dstretch"
)

// A Device produces frames until its context is cancelled. Start blocks;
// run it on its own goroutine. The deliver callback must not block for
// long (the pipeline's frame box never does).
type Device interface {
	Start(ctx context.Context, deliver func(*dstretch.Frame)) error
	Close() error
}

// Open picks a device for the configured source. A source that names an
// existing directory replays its image files; anything else (a numeric
// device index, a /dev/video path, an RTSP URL) goes to OpenCV.
func Open(cfg dstretch.CameraConfig, log zerolog.Logger) (Device, error) {
	if cfg.Source == "" {
		return nil, fmt.Errorf("camera source not configured")
	}

	if item, err := os.Stat(cfg.Source); err == nil && item.IsDir() {
		return newFileCamera(cfg, log)
	}

	return newWebcam(cfg, log)
}

// sourceArg maps the config string to what OpenCV expects: plain
// integers select a local device, everything else passes through.
func sourceArg(source string) interface{} {
	if n, err := strconv.Atoi(source); err == nil {
		return n
	}
	return source
}
