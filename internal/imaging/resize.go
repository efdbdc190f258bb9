package imaging

import (
	"fmt"
	"image"

	"github.com/nfnt/resize"
)

// Resize downscales img to exactly width x height using a separable
// bilinear convolution, the resizer kernel required ahead of the hash
// kernels. Grounded on the teacher's pkg/imaging/transformer.go Resize
// method, swapped from Lanczos3 to Bilinear per the spec's resizer
// requirement and with the (0,0)-is-an-error check the teacher's
// transformer didn't enforce.
func Resize(img image.Image, width, height int) (image.Image, error) {
	if width <= 0 || height <= 0 {
		return nil, fmt.Errorf("imaging: invalid resize target %dx%d", width, height)
	}
	b := img.Bounds()
	if b.Dx() <= 0 || b.Dy() <= 0 {
		return nil, fmt.Errorf("imaging: source image has no pixels")
	}
	return resize.Resize(uint(width), uint(height), img, resize.Bilinear), nil
}

// Thumbnail produces a bounded preview image, preserving aspect ratio
// within maxSide. The reporter does not call it.
func Thumbnail(img image.Image, maxSide int) image.Image {
	b := img.Bounds()
	w, h := b.Dx(), b.Dy()
	if w <= maxSide && h <= maxSide {
		return img
	}
	if w >= h {
		return resize.Resize(uint(maxSide), 0, img, resize.Lanczos3)
	}
	return resize.Resize(0, uint(maxSide), img, resize.Lanczos3)
}
