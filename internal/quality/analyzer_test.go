package quality_test

import (
	"image"
	"image/color"
	"testing"

	"github.com/HaiderBassem/dupfinder/internal/quality"
	"github.com/stretchr/testify/assert"
)

func checkerboard(size int) *image.Gray {
	img := image.NewGray(image.Rect(0, 0, size, size))
	for y := 0; y < size; y++ {
		for x := 0; x < size; x++ {
			if (x+y)%2 == 0 {
				img.SetGray(x, y, color.Gray{Y: 255})
			} else {
				img.SetGray(x, y, color.Gray{Y: 0})
			}
		}
	}
	return img
}

func flat(size int, value uint8) *image.Gray {
	img := image.NewGray(image.Rect(0, 0, size, size))
	for y := 0; y < size; y++ {
		for x := 0; x < size; x++ {
			img.SetGray(x, y, color.Gray{Y: value})
		}
	}
	return img
}

func TestAnalyze_SharperImageScoresHigherSharpness(t *testing.T) {
	a := quality.NewAnalyzer()

	sharp := a.Analyze(checkerboard(32))
	flatImg := a.Analyze(flat(32, 128))

	assert.Greater(t, sharp.Sharpness, flatImg.Sharpness)
}

func TestAnalyze_MidGrayIsWellExposed(t *testing.T) {
	a := quality.NewAnalyzer()
	q := a.Analyze(flat(16, 128))
	assert.InDelta(t, 0.5, q.Exposure, 0.1)
}

func TestAnalyze_FinalScoreWithinRange(t *testing.T) {
	a := quality.NewAnalyzer()
	q := a.Analyze(checkerboard(16))
	assert.GreaterOrEqual(t, q.FinalScore, 0.0)
	assert.LessOrEqual(t, q.FinalScore, 100.0)
}
