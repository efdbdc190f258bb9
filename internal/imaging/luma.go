package imaging

import (
	"image"

	"github.com/disintegration/imaging"
)

// ToLuma converts img to single-channel grayscale, the conversion step
// between decode and resize in the C3+C4 pipeline ("decode file, convert
// to luma, resize to W×H").
func ToLuma(img image.Image) image.Image {
	return imaging.Grayscale(img)
}
