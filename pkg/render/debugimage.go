package render

import(
	"fmt"
	"image"

	"github.com/fogleman/gg" // Move to https://pkg.go.dev/golang.org/x/image/font#Drawer sometime
)

// DumpAnnotated writes an image to a PNG with a one-line title drawn
// over it, for eyeballing what the pipeline is actually displaying or
// sampling. Debug aid only, nothing in the per-frame path calls it.
func DumpAnnotated(img image.Image, title, filename string) error {
	dc := gg.NewContextForImage(img)
	dc.SetRGB(1, 1, 1)
	dc.DrawString(title, 20, 30)
	if err := dc.SavePNG(filename); err != nil {
		return fmt.Errorf("open+w '%s': %v", filename, err)
	}
	return nil
}
