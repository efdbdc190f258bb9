package hash_test

import (
	"image"
	"image/color"
	"testing"

	"github.com/HaiderBassem/dupfinder/internal/hash"
	"github.com/HaiderBassem/dupfinder/pkg/api"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func gradientImage(w, h int) image.Image {
	img := image.NewGray(image.Rect(0, 0, w, h))
	for y := 0; y < h; y++ {
		for x := 0; x < w; x++ {
			img.Set(x, y, color.Gray{Y: uint8((x * 255) / w)})
		}
	}
	return img
}

func TestHash_DeterministicAcrossRuns(t *testing.T) {
	img := gradientImage(64, 64)
	algo := hash.New(api.AlgorithmDifference, api.DefaultHashSize)

	h1, err := algo.Compute(img)
	require.NoError(t, err)
	h2, err := algo.Compute(img)
	require.NoError(t, err)

	assert.Equal(t, h1.Bytes, h2.Bytes)
}

func TestHash_DistanceToSelfIsZero(t *testing.T) {
	img := gradientImage(64, 64)
	algo := hash.New(api.AlgorithmAverage, api.DefaultHashSize)

	h, err := algo.Compute(img)
	require.NoError(t, err)

	assert.Equal(t, uint32(0), h.Distance(h))
	assert.Equal(t, 100.0, h.Similarity(h))
}

func TestHash_ByteLengthMatchesBitCount(t *testing.T) {
	img := gradientImage(64, 64)
	for _, kind := range []api.Algorithm{api.AlgorithmAverage, api.AlgorithmDifference, api.AlgorithmPerceptual} {
		algo := hash.New(kind, api.DefaultHashSize)
		h, err := algo.Compute(img)
		require.NoError(t, err)
		assert.Equal(t, 8, len(h.Bytes), "kind %v", kind)
		assert.Equal(t, 64, h.BitCount())
	}
}

func TestFusion_RoundTrip(t *testing.T) {
	img := gradientImage(64, 64)
	f, err := hash.ComputeFusion(img, api.DefaultHashSize)
	require.NoError(t, err)

	restored, ok := hash.FusionFromBytes(f.ToBytes())
	require.True(t, ok)

	assert.Equal(t, f.Average.Bytes, restored.Average.Bytes)
	assert.Equal(t, f.Difference.Bytes, restored.Difference.Bytes)
	assert.Equal(t, f.Perceptual.Bytes, restored.Perceptual.Bytes)
}

func TestFusion_TwoOfThreeIsMediumConfidence(t *testing.T) {
	mk := func(a, d, p byte) hash.Fusion {
		return hash.Fusion{
			Average:    api.NewHashValue([]byte{a}, api.AlgorithmAverage),
			Difference: api.NewHashValue([]byte{d}, api.AlgorithmDifference),
			Perceptual: api.NewHashValue([]byte{p}, api.AlgorithmPerceptual),
		}
	}

	a := mk(0xFF, 0xFF, 0xFF)
	b := mk(0xFF, 0xFF, 0x00) // perceptual differs by 8 bits

	result := a.Compare(b, 5)

	assert.Equal(t, 2, result.Votes)
	assert.Equal(t, api.FusionMedium, result.Confidence)
	assert.True(t, result.IsDuplicate)
	assert.Equal(t, uint32(0), result.MinDistance)
}

func TestFusion_OneVoteIsNotDuplicate(t *testing.T) {
	mk := func(a, d, p byte) hash.Fusion {
		return hash.Fusion{
			Average:    api.NewHashValue([]byte{a}, api.AlgorithmAverage),
			Difference: api.NewHashValue([]byte{d}, api.AlgorithmDifference),
			Perceptual: api.NewHashValue([]byte{p}, api.AlgorithmPerceptual),
		}
	}

	a := mk(0xFF, 0xFF, 0xFF)
	b := mk(0xFF, 0x00, 0x00)

	result := a.Compare(b, 5)

	assert.Equal(t, 1, result.Votes)
	assert.Equal(t, api.FusionLow, result.Confidence)
	assert.False(t, result.IsDuplicate)
}
