// Package quality estimates how good a photo looks, as a secondary,
// supplementary tiebreak signal for duplicate-group representative
// selection. It never overrides the reporter's normative precedence
// rule (see internal/report.SelectRepresentative). The pipeline does
// not run it and no explanation or report reads its score; library
// callers reach it through pkg's NewQualityAnalyzer.
//
// Condensed from the teacher's internal/quality package (originally
// seven analyzers: sharpness, noise, exposure, contrast, compression,
// color cast, and a weighted score calculator) down to the three
// metrics SPEC_FULL.md's supplemented-features section actually calls
// for: sharpness, noise, and exposure. Compression/color-cast/contrast
// scoring is dropped, not adapted — nothing in SPEC_FULL.md reads those
// signals, and api.ImageQuality carries no field for them.
package quality

import (
	"image"
	"math"

	"github.com/disintegration/imaging"

	"github.com/HaiderBassem/dupfinder/pkg/api"
)

// Analyzer computes api.ImageQuality for a decoded image.
type Analyzer struct{}

// NewAnalyzer creates a quality analyzer. There is no configuration:
// unlike the teacher's Analyzer, this one has no thresholds to tune
// since it never makes a blur/noise/exposure pass/fail decision of its
// own, only a comparative score.
func NewAnalyzer() *Analyzer {
	return &Analyzer{}
}

// Analyze scores img's sharpness, noise and exposure and combines them
// into a single 0-100 FinalScore, weighted the way the original's
// QualityScore.compute_overall does: sharpness dominant, then noise,
// then exposure.
func (a *Analyzer) Analyze(img image.Image) api.ImageQuality {
	gray := imaging.Grayscale(img)

	sharpness := laplacianVariance(gray)
	noise := noiseLevel(gray)
	exposure := exposureLevel(gray)

	return api.ImageQuality{
		Sharpness:  sharpness,
		Noise:      noise,
		Exposure:   exposure,
		FinalScore: finalScore(sharpness, noise, exposure),
	}
}

// laplacianVariance measures sharpness via the mean absolute Laplacian
// response, normalised into 0..1 (1 = sharpest). Grounded on the
// teacher's SharpnessAnalyzer.AnalyzeSharpness and, underneath it, the
// original's compute_laplacian_variance.
func laplacianVariance(gray image.Image) float64 {
	g := toGrayImage(gray)
	bounds := g.Bounds()
	width, height := bounds.Dx(), bounds.Dy()
	if width < 3 || height < 3 {
		return 0
	}

	var sum float64
	var count int
	for y := bounds.Min.Y + 1; y < bounds.Max.Y-1; y++ {
		for x := bounds.Min.X + 1; x < bounds.Max.X-1; x++ {
			center := float64(g.GrayAt(x, y).Y)
			top := float64(g.GrayAt(x, y-1).Y)
			bottom := float64(g.GrayAt(x, y+1).Y)
			left := float64(g.GrayAt(x-1, y).Y)
			right := float64(g.GrayAt(x+1, y).Y)

			sum += math.Abs(4*center - (top + bottom + left + right))
			count++
		}
	}
	if count == 0 {
		return 0
	}

	variance := sum / float64(count)
	return math.Min(variance/100.0, 1.0)
}

// noiseLevel estimates local pixel variance against each pixel's
// 8-neighbourhood, normalised into 0..1 (1 = noisiest). Grounded on the
// teacher's NoiseAnalyzer.AnalyzeNoise.
func noiseLevel(gray image.Image) float64 {
	bounds := gray.Bounds()
	if bounds.Dx() < 3 || bounds.Dy() < 3 {
		return 0.5
	}

	var sum float64
	var count int
	for y := bounds.Min.Y + 1; y < bounds.Max.Y-1; y++ {
		for x := bounds.Min.X + 1; x < bounds.Max.X-1; x++ {
			center := grayValue(gray, x, y)
			neighbors := [8]float64{
				grayValue(gray, x-1, y-1), grayValue(gray, x, y-1), grayValue(gray, x+1, y-1),
				grayValue(gray, x-1, y), grayValue(gray, x+1, y),
				grayValue(gray, x-1, y+1), grayValue(gray, x, y+1), grayValue(gray, x+1, y+1),
			}

			var mean float64
			for _, n := range neighbors {
				mean += n
			}
			mean /= float64(len(neighbors))

			var variance float64
			for _, n := range neighbors {
				diff := n - mean
				variance += diff * diff
			}
			variance /= float64(len(neighbors))

			sum += math.Abs(center - mean) + math.Sqrt(variance)
			count++
		}
	}
	if count == 0 {
		return 0.5
	}

	avg := sum / float64(count)
	return math.Min(avg/64.0, 1.0)
}

// exposureLevel averages luminance and penalises heavy clipping at
// either end of the histogram, normalised into 0..1 (0.5 = ideal).
// Grounded on the teacher's ExposureAnalyzer.AnalyzeExposure.
func exposureLevel(gray image.Image) float64 {
	bounds := gray.Bounds()
	total := bounds.Dx() * bounds.Dy()
	if total == 0 {
		return 0.5
	}

	var sum float64
	var dark, bright int
	for y := bounds.Min.Y; y < bounds.Max.Y; y++ {
		for x := bounds.Min.X; x < bounds.Max.X; x++ {
			luminance := grayValue(gray, x, y) / 255.0
			sum += luminance
			if luminance < 0.1 {
				dark++
			} else if luminance > 0.9 {
				bright++
			}
		}
	}

	exposure := sum / float64(total)
	darkRatio := float64(dark) / float64(total)
	brightRatio := float64(bright) / float64(total)
	if darkRatio > 0.3 {
		exposure -= (darkRatio - 0.3) * 0.5
	}
	if brightRatio > 0.3 {
		exposure += (brightRatio - 0.3) * 0.5
	}

	return math.Max(0, math.Min(1, exposure))
}

// finalScore combines the three metrics into a 0-100 score, weighted
// sharpness-dominant the way the original's compute_overall does: 60%
// sharpness, 25% inverse noise, 15% exposure-centredness.
func finalScore(sharpness, noise, exposure float64) float64 {
	sharpnessScore := sharpness * 100
	noiseScore := (1 - noise) * 100
	exposureDeviation := math.Abs(exposure - 0.5)
	exposureScore := 100 - exposureDeviation*200

	score := 0.6*sharpnessScore + 0.25*noiseScore + 0.15*exposureScore
	return math.Max(0, math.Min(100, score))
}

func grayValue(img image.Image, x, y int) float64 {
	r, g, b, _ := img.At(x, y).RGBA()
	return float64(r+g+b) / (3 * 257)
}

func toGrayImage(img image.Image) *image.Gray {
	if g, ok := img.(*image.Gray); ok {
		return g
	}
	bounds := img.Bounds()
	gray := image.NewGray(bounds)
	for y := bounds.Min.Y; y < bounds.Max.Y; y++ {
		for x := bounds.Min.X; x < bounds.Max.X; x++ {
			gray.Set(x, y, img.At(x, y))
		}
	}
	return gray
}
