package indexing

import "math"

// NormalizeVector returns a unit-length copy of v.
// A zero vector comes back as a zero vector of the same length.
func NormalizeVector(v []float32) []float32 {
	result := make([]float32, len(v))
	magnitude := Magnitude(v)
	if magnitude == 0 {
		return result
	}

	for i, val := range v {
		result[i] = float32(float64(val) / magnitude)
	}
	return result
}

// Magnitude returns the Euclidean length of v.
func Magnitude(v []float32) float64 {
	var sum float64
	for _, val := range v {
		sum += float64(val) * float64(val)
	}
	return math.Sqrt(sum)
}
