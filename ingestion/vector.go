package ingestion

import "math"

// NormalizeVector scales a vector to unit length.
// Returns a new vector. A zero vector is returned as a new zero vector.
func NormalizeVector(v []float32) []float32 {
	result := make([]float32, len(v))

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
