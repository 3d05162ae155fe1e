package rank

import (
	"math"

	"github.com/poiesic/stylematch/core"
)

// DotProduct returns the dot product of a and b, which must have equal length.
func DotProduct(a, b []float32) (float32, error) {
	if len(a) != len(b) {
		return 0, core.DimensionMismatch(len(a), len(b))
	}
	var sum float64
	for i := range a {
		sum += float64(a[i]) * float64(b[i])
	}
	return float32(sum), nil
}

// CosineSimilarity returns the cosine of the angle between a and b.
// Vectors must have the same length. If either has zero norm the result is 0.
// Accumulation is done in float64 and the result is clamped to [-1, 1].
func CosineSimilarity(a, b []float32) (float32, error) {
	if len(a) != len(b) {
		return 0, core.DimensionMismatch(len(a), len(b))
	}

	var dot, normA, normB float64
	for i := range a {
		x, y := float64(a[i]), float64(b[i])
		dot += x * y
		normA += x * x
		normB += y * y
	}
	if normA == 0 || normB == 0 {
		return 0, nil
	}

	sim := dot / (math.Sqrt(normA) * math.Sqrt(normB))
	return float32(max(-1, min(1, sim))), nil
}

// Normalize returns a unit-length copy of v.
// A zero vector yields a zero vector of the same length.
func Normalize(v []float32) []float32 {
	result := make([]float32, len(v))
	if len(v) == 0 {
		return result
	}

	var sumSquares float64
	for _, val := range v {
		sumSquares += float64(val) * float64(val)
	}
	if sumSquares == 0 {
		return result
	}

	magnitude := math.Sqrt(sumSquares)
	for i, val := range v {
		result[i] = float32(float64(val) / magnitude)
	}
	return result
}
