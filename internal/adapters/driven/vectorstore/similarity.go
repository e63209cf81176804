package vectorstore

import (
	"cmp"
	"math"
	"slices"

	"github.com/custodia-labs/docqa/internal/core/ports/driven"
)

// Cosine returns the cosine similarity of a and b in [-1, 1].
// Vectors of different length or zero magnitude score 0.
func Cosine(a, b []float32) float64 {
	if len(a) != len(b) || len(a) == 0 {
		return 0
	}

	var dot, normA, normB float64
	for i := range a {
		x, y := float64(a[i]), float64(b[i])
		dot += x * y
		normA += x * x
		normB += y * y
	}
	if normA == 0 || normB == 0 {
		return 0
	}

	sim := dot / (math.Sqrt(normA) * math.Sqrt(normB))
	return max(-1, min(1, sim))
}

// TopK sorts matches by descending score and keeps the first k.
// Ties keep insertion order.
func TopK(matches []driven.VectorMatch, k int) []driven.VectorMatch {
	slices.SortStableFunc(matches, func(a, b driven.VectorMatch) int {
		return cmp.Compare(b.Score, a.Score)
	})
	if k > 0 && len(matches) > k {
		matches = matches[:k]
	}
	return matches
}
