package hash

import (
	"encoding/binary"
	"image"

	"github.com/HaiderBassem/dupfinder/pkg/api"
)

// Fusion bundles one hash per base algorithm from a single decoded
// image. Grounded on the original implementation's FusionHash
// (src/core/hasher/fusion.rs); the byte layout matches it exactly:
// [ahash_len:u16 LE][ahash][dhash_len:u16 LE][dhash][phash_len:u16 LE][phash].
type Fusion struct {
	Average    api.HashValue
	Difference api.HashValue
	Perceptual api.HashValue
}

// ComputeFusion computes all three base hashes from one decoded image.
func ComputeFusion(img image.Image, size int) (Fusion, error) {
	a, err := New(api.AlgorithmAverage, size).Compute(img)
	if err != nil {
		return Fusion{}, err
	}
	d, err := New(api.AlgorithmDifference, size).Compute(img)
	if err != nil {
		return Fusion{}, err
	}
	p, err := New(api.AlgorithmPerceptual, size).Compute(img)
	if err != nil {
		return Fusion{}, err
	}
	return Fusion{Average: a, Difference: d, Perceptual: p}, nil
}

// ToBytes serialises the fusion hash to the fixed A/D/P length-prefixed
// layout used for cache storage and the api.HashValue of Algorithm
// Fusion.
func (f Fusion) ToBytes() []byte {
	out := make([]byte, 0, 6+len(f.Average.Bytes)+len(f.Difference.Bytes)+len(f.Perceptual.Bytes))
	out = appendLengthPrefixed(out, f.Average.Bytes)
	out = appendLengthPrefixed(out, f.Difference.Bytes)
	out = appendLengthPrefixed(out, f.Perceptual.Bytes)
	return out
}

func appendLengthPrefixed(out []byte, b []byte) []byte {
	var lenBuf [2]byte
	binary.LittleEndian.PutUint16(lenBuf[:], uint16(len(b)))
	out = append(out, lenBuf[:]...)
	out = append(out, b...)
	return out
}

// FusionFromBytes restores a Fusion from the fixed A/D/P layout. It
// returns false if the bytes are short or malformed.
func FusionFromBytes(data []byte) (Fusion, bool) {
	var f Fusion
	offset := 0

	a, n, ok := readLengthPrefixed(data, offset)
	if !ok {
		return Fusion{}, false
	}
	f.Average = api.NewHashValue(a, api.AlgorithmAverage)
	offset = n

	d, n, ok := readLengthPrefixed(data, offset)
	if !ok {
		return Fusion{}, false
	}
	f.Difference = api.NewHashValue(d, api.AlgorithmDifference)
	offset = n

	p, _, ok := readLengthPrefixed(data, offset)
	if !ok {
		return Fusion{}, false
	}
	f.Perceptual = api.NewHashValue(p, api.AlgorithmPerceptual)

	return f, true
}

func readLengthPrefixed(data []byte, offset int) ([]byte, int, bool) {
	if len(data) < offset+2 {
		return nil, 0, false
	}
	n := int(binary.LittleEndian.Uint16(data[offset : offset+2]))
	offset += 2
	if len(data) < offset+n {
		return nil, 0, false
	}
	return data[offset : offset+n], offset + n, true
}

// HashValue packages the Fusion as a single api.HashValue tagged
// Algorithm Fusion, for uniform cache storage alongside the base
// algorithms.
func (f Fusion) HashValue() api.HashValue {
	return api.NewHashValue(f.ToBytes(), api.AlgorithmFusion)
}

// Select returns the sub-hash Fusion carries for algo, or the serialised
// triple (see HashValue) for AlgorithmFusion. Used both to pick the LSH
// banding hash and, for non-Fusion algorithms, the comparator's duplicate
// predicate.
func (f Fusion) Select(algo api.Algorithm) api.HashValue {
	switch algo {
	case api.AlgorithmAverage:
		return f.Average
	case api.AlgorithmPerceptual:
		return f.Perceptual
	case api.AlgorithmFusion:
		return f.HashValue()
	default:
		return f.Difference
	}
}

// Compare evaluates two Fusion hashes against a shared threshold,
// requiring 2-of-3 sub-algorithm agreement to call it a duplicate.
// Grounded on the original's FusionHash::compare.
func (f Fusion) Compare(other Fusion, threshold uint32) FusionResult {
	aDist := f.Average.Distance(other.Average)
	dDist := f.Difference.Distance(other.Difference)
	pDist := f.Perceptual.Distance(other.Perceptual)

	aMatch := aDist <= threshold
	dMatch := dDist <= threshold
	pMatch := pDist <= threshold

	votes := 0
	minDist := ^uint32(0)
	for _, pair := range []struct {
		match bool
		dist  uint32
	}{{aMatch, aDist}, {dMatch, dDist}, {pMatch, pDist}} {
		if pair.match {
			votes++
			if pair.dist < minDist {
				minDist = pair.dist
			}
		}
	}

	var confidence api.FusionConfidence
	switch votes {
	case 3:
		confidence = api.FusionHigh
	case 2:
		confidence = api.FusionMedium
	case 1:
		confidence = api.FusionLow
	default:
		confidence = api.FusionNone
		minDist = 0
	}

	return FusionResult{
		AverageDistance:    aDist,
		DifferenceDistance: dDist,
		PerceptualDistance: pDist,
		Votes:              votes,
		Confidence:         confidence,
		MinDistance:        minDist,
		IsDuplicate:        votes >= 2,
	}
}

// FusionResult is the detailed outcome of comparing two Fusion hashes.
type FusionResult struct {
	AverageDistance    uint32
	DifferenceDistance uint32
	PerceptualDistance uint32
	Votes              int
	Confidence         api.FusionConfidence
	MinDistance        uint32
	IsDuplicate        bool
}
