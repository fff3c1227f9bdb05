package camera

import(
	"context"
	"fmt"
	"image"
	"image/jpeg"
	"image/png"
	"os"
	"path/filepath"
	"sort"
	"strings"
	"time"

	"github.com/rs/zerolog"
	"github.com/rwcarlsen/goexif/exif"
	"golang.org/x/image/draw"
	"golang.org/x/image/math/f64"
	"golang.org/x/image/tiff"

	"dstretch-live/pkg/dstretch"
)

// FileCamera replays a directory of still images as a looping video
// feed, at the configured frame rate. Images are decoded lazily, one
// per tick, so big directories don't pin memory.
type FileCamera struct {
	files []string
	fps   float64
	log   zerolog.Logger
	seq   uint64
}

func newFileCamera(cfg dstretch.CameraConfig, log zerolog.Logger) (*FileCamera, error) {
	contents, err := os.ReadDir(cfg.Source)
	if err != nil {
		return nil, fmt.Errorf("readdir %s: %v", cfg.Source, err)
	}

	fc := FileCamera{fps: float64(cfg.FPS), log: log}
	if fc.fps <= 0 { fc.fps = 10 }

	for _, content := range contents {
		if content.IsDir() { continue }
		switch strings.ToLower(filepath.Ext(content.Name())) {
		case ".png", ".jpg", ".jpeg", ".tif", ".tiff":
			fc.files = append(fc.files, filepath.Join(cfg.Source, content.Name()))
		}
	}
	sort.Strings(fc.files)

	if len(fc.files) == 0 {
		return nil, fmt.Errorf("no images found in %s", cfg.Source)
	}

	log.Info().Str("dir", cfg.Source).Int("images", len(fc.files)).Msg("replaying image directory")

	return &fc, nil
}

func (fc *FileCamera)Start(ctx context.Context, deliver func(*dstretch.Frame)) error {
	ticker := time.NewTicker(time.Duration(float64(time.Second) / fc.fps))
	defer ticker.Stop()

	i := 0
	for {
		select {
		case <-ctx.Done():
			return ctx.Err()
		case <-ticker.C:
		}

		filename := fc.files[i%len(fc.files)]
		i++

		img, err := loadStill(filename)
		if err != nil {
			fc.log.Warn().Err(err).Str("file", filename).Msg("skipping image")
			continue
		}

		fc.seq++
		b := img.Bounds()
		deliver(&dstretch.Frame{
			Image:     img,
			Width:     b.Dx(),
			Height:    b.Dy(),
			Timestamp: time.Now(),
			Seq:       fc.seq,
		})
	}
}

func (fc *FileCamera)Close() error { return nil }

func loadStill(filename string) (image.Image, error) {
	f, err := os.Open(filename)
	if err != nil {
		return nil, fmt.Errorf("open+r '%s': %v", filename, err)
	}
	defer f.Close()

	var img image.Image
	switch strings.ToLower(filepath.Ext(filename)) {
	case ".png":
		img, err = png.Decode(f)
	case ".jpg", ".jpeg":
		img, err = jpeg.Decode(f)
	case ".tif", ".tiff":
		img, err = tiff.Decode(f)
	default:
		return nil, fmt.Errorf("unhandled image type '%s'", filename)
	}
	if err != nil {
		return nil, fmt.Errorf("decode '%s': %v", filename, err)
	}

	return orientUpright(img, exifOrientation(filename)), nil
}

// exifOrientation returns the EXIF orientation tag, or 1 (upright) if
// the file carries no usable EXIF data. Most PNGs won't.
func exifOrientation(filename string) int {
	f, err := os.Open(filename)
	if err != nil { return 1 }
	defer f.Close()

	ex, err := exif.Decode(f)
	if err != nil { return 1 }

	tag, err := ex.Get(exif.Orientation)
	if err != nil { return 1 }

	o, err := tag.Int(0)
	if err != nil || o < 1 || o > 8 { return 1 }
	return o
}

// orientUpright bakes the EXIF rotation into the pixels, so everything
// downstream can assume y-down upright images. The mirrored variants
// (2,4,5,7) are rare enough that we only handle the rotations.
func orientUpright(img image.Image, orientation int) image.Image {
	b := img.Bounds()
	w, h := float64(b.Dx()), float64(b.Dy())

	var m f64.Aff3
	var dst *image.RGBA

	switch orientation {
	case 3: // 180
		m = f64.Aff3{-1, 0, w, 0, -1, h}
		dst = image.NewRGBA(image.Rect(0, 0, b.Dx(), b.Dy()))
	case 6: // 90 CW
		m = f64.Aff3{0, -1, h, 1, 0, 0}
		dst = image.NewRGBA(image.Rect(0, 0, b.Dy(), b.Dx()))
	case 8: // 90 CCW
		m = f64.Aff3{0, 1, 0, -1, 0, w}
		dst = image.NewRGBA(image.Rect(0, 0, b.Dy(), b.Dx()))
	default:
		return img
	}

	draw.NearestNeighbor.Transform(dst, m, img, b, draw.Src, nil)
	return dst
}
