package render

import(
	"fmt"
	"image"
	"image/color"
	"image/jpeg"
	"image/png"
	"os"
	"path/filepath"

	"github.com/mdouchement/hdr/codec/rgbe"
	"github.com/mdouchement/hdr/hdrcolor"
	"golang.org/x/image/tiff"

	"github.com/rs/zerolog"

	"dstretch-live/pkg/dmath"
)

// FileExporter encodes captured stills to disk. The format follows the
// capture request's MIME type.
type FileExporter struct {
	Dir string
	Log zerolog.Logger
}

func (e FileExporter)Export(img image.Image, fileName, mimeType string) error {
	path := filepath.Join(e.Dir, fileName)
	writer, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("open+w '%s': %v", path, err)
	}
	defer writer.Close()

	switch mimeType {
	case "image/png", "":
		err = png.Encode(writer, img)
	case "image/jpeg":
		err = jpeg.Encode(writer, img, &jpeg.Options{Quality: 92})
	case "image/tiff":
		err = tiff.Encode(writer, img, nil)
	case "image/vnd.radiance":
		err = rgbe.Encode(writer, hdrImage{img})
	default:
		err = fmt.Errorf("unsupported capture type '%s'", mimeType)
	}

	if err != nil {
		return fmt.Errorf("encoding '%s' as %s: %v", path, mimeType, err)
	}
	e.Log.Debug().Str("path", path).Msg("wrote capture")
	return nil
}

// hdrImage adapts a plain LDR frame to the hdr.Image interface so it
// can go out as a Radiance file.
type hdrImage struct {
	image.Image
}

func (h hdrImage)ColorModel() color.Model { return hdrcolor.RGBModel }
func (h hdrImage)Size() int               { return h.Bounds().Dx() * h.Bounds().Dy() }

// HDRAt linearizes the sRGB-encoded output pixel; Radiance stores
// linear light.
func (h hdrImage)HDRAt(x, y int) hdrcolor.Color {
	r, g, b, _ := h.At(x, y).RGBA()
	return hdrcolor.RGB{
		R: dmath.GammaLinearize_F64(float64(r) / 65535.0),
		G: dmath.GammaLinearize_F64(float64(g) / 65535.0),
		B: dmath.GammaLinearize_F64(float64(b) / 65535.0),
	}
}
