// Package hash computes perceptual fingerprints (C5): aHash, dHash,
// pHash and a Fusion of all three, each a fixed-width bit string with
// the row-major, MSB-first packing the spec requires. Grounded on the
// teacher's internal/hash/perceptual/{ahash,dhash,phash}.go for the
// component shape, but delegating the actual bit computation to
// corona10/goimagehash rather than the teacher's hand-rolled DCT/
// threshold code, since the pack carries a dedicated, well-tested
// perceptual hashing library that the teacher itself did not import.
package hash

import (
	"image"

	"github.com/HaiderBassem/dupfinder/pkg/api"
	goimagehash "github.com/corona10/goimagehash"
)

// Algorithm computes a HashValue from a decoded image for one member of
// the closed {Average, Difference, Perceptual} set. Fusion is handled
// separately in fusion.go since it composes all three.
type Algorithm interface {
	Compute(img image.Image) (api.HashValue, error)
	Kind() api.Algorithm
}

// New returns the Algorithm implementation for kind. Fusion is not a
// single Algorithm; callers needing Fusion should use ComputeFusion.
func New(kind api.Algorithm, size int) Algorithm {
	if size <= 0 {
		size = api.DefaultHashSize
	}
	switch kind {
	case api.AlgorithmAverage:
		return averageHasher{size: size}
	case api.AlgorithmPerceptual:
		return perceptualHasher{size: size}
	default:
		return differenceHasher{size: size}
	}
}

type averageHasher struct{ size int }

func (h averageHasher) Kind() api.Algorithm { return api.AlgorithmAverage }

func (h averageHasher) Compute(img image.Image) (api.HashValue, error) {
	gh, err := goimagehash.ExtAverageHash(img, h.size, h.size)
	if err != nil {
		return api.HashValue{}, &api.HashError{Kind: api.HashComputationFailed, Reason: err.Error()}
	}
	return fromWords(gh.GetHash(), h.size*h.size, api.AlgorithmAverage), nil
}

type differenceHasher struct{ size int }

func (h differenceHasher) Kind() api.Algorithm { return api.AlgorithmDifference }

func (h differenceHasher) Compute(img image.Image) (api.HashValue, error) {
	gh, err := goimagehash.ExtDifferenceHash(img, h.size, h.size)
	if err != nil {
		return api.HashValue{}, &api.HashError{Kind: api.HashComputationFailed, Reason: err.Error()}
	}
	return fromWords(gh.GetHash(), h.size*h.size, api.AlgorithmDifference), nil
}

type perceptualHasher struct{ size int }

func (h perceptualHasher) Kind() api.Algorithm { return api.AlgorithmPerceptual }

func (h perceptualHasher) Compute(img image.Image) (api.HashValue, error) {
	// goimagehash's PerceptualHash always works over a fixed 64x64 DCT
	// grid regardless of hash size; the size parameter only controls the
	// low-frequency coefficient window it keeps (h.size x h.size bits).
	gh, err := goimagehash.ExtPerceptionHash(img, h.size, h.size)
	if err != nil {
		return api.HashValue{}, &api.HashError{Kind: api.HashComputationFailed, Reason: err.Error()}
	}
	return fromWords(gh.GetHash(), h.size*h.size, api.AlgorithmPerceptual), nil
}

// fromWords packs goimagehash's []uint64 ExtImageHash representation
// (bitCount bits spread MSB-first across ceil(bitCount/64) words) into
// row-major, MSB-first bytes: bit 63 of the first word becomes byte 0's
// most significant bit, continuing word by word.
func fromWords(words []uint64, bitCount int, algo api.Algorithm) api.HashValue {
	b := make([]byte, (bitCount+7)/8)
	bit := 0
	for _, w := range words {
		wordBits := bitCount - bit
		if wordBits > 64 {
			wordBits = 64
		}
		for i := 0; i < wordBits; i++ {
			if w&(1<<uint(63-i)) != 0 {
				b[bit/8] |= 1 << uint(7-bit%8)
			}
			bit++
		}
	}
	return api.NewHashValue(b, algo)
}
