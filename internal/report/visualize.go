package report

import (
	"fmt"
	"math"
	"strings"
)

// HashVisualizer renders hash differences for humans: an ASCII bit-grid
// diff, a one-line summary, and a compact similarity bar. Grounded on
// the original's HashVisualizer (src/core/reporter/visualization.rs).
type HashVisualizer struct {
	gridSize int
}

// NewHashVisualizer sizes the grid from a hash's byte length: 8 bytes
// (64 bits) renders as an 8x8 grid.
func NewHashVisualizer(hashBytes int) *HashVisualizer {
	bits := hashBytes * 8
	return &HashVisualizer{gridSize: int(math.Sqrt(float64(bits)))}
}

// VisualizeDifference renders a grid where '.' marks a matching bit and
// 'X' marks a differing one, row-major over the hash's bit layout.
func (v *HashVisualizer) VisualizeDifference(hashA, hashB []byte) string {
	var b strings.Builder
	b.WriteString("Hash Difference Map (. = same, X = different):\n\n")

	for row := 0; row < v.gridSize; row++ {
		b.WriteString("  ")
		for col := 0; col < v.gridSize; col++ {
			bitIdx := row*v.gridSize + col
			byteIdx := bitIdx / 8
			bitOffset := uint(7 - bitIdx%8)

			bitA := bitAt(hashA, byteIdx, bitOffset)
			bitB := bitAt(hashB, byteIdx, bitOffset)
			if bitA == bitB {
				b.WriteByte('.')
			} else {
				b.WriteByte('X')
			}
			b.WriteByte(' ')
		}
		b.WriteByte('\n')
	}
	return b.String()
}

func bitAt(hash []byte, byteIdx int, bitOffset uint) byte {
	if byteIdx >= len(hash) {
		return 0
	}
	return (hash[byteIdx] >> bitOffset) & 1
}

// SummarizeDifference reports how many bits differ and the resulting
// similarity percentage as a single line.
func (v *HashVisualizer) SummarizeDifference(hashA, hashB []byte) string {
	totalBits := len(hashA) * 8
	var differing int
	n := len(hashA)
	if len(hashB) < n {
		n = len(hashB)
	}
	for i := 0; i < n; i++ {
		differing += popcount(hashA[i] ^ hashB[i])
	}
	similarity := 100.0 - float64(differing)/float64(totalBits)*100.0
	return fmt.Sprintf("%d of %d bits differ (%.1f%% similar)", differing, totalBits, similarity)
}

func popcount(b byte) int {
	n := 0
	for b != 0 {
		n += int(b & 1)
		b >>= 1
	}
	return n
}

// SimilarityBar renders a ten-segment bar, e.g. "[████████░░] 80%".
func (v *HashVisualizer) SimilarityBar(similarityPercent float64) string {
	filled := int(math.Round(similarityPercent / 10.0))
	if filled < 0 {
		filled = 0
	}
	if filled > 10 {
		filled = 10
	}
	empty := 10 - filled
	return fmt.Sprintf("[%s%s] %.0f%%", strings.Repeat("█", filled), strings.Repeat("░", empty), similarityPercent)
}
