package policy

import "sort"

// Preprocessor transforms a sample set before statistics are computed. It
// must not modify its input.
type Preprocessor func(samples []float64) []float64

// Identity returns samples unchanged.
func Identity(samples []float64) []float64 {
	return samples
}

// TrimExtremes drops the k smallest and k largest samples. Sets with fewer
// than 2k+1 values are returned as they are.
func TrimExtremes(k int) Preprocessor {
	if k <= 0 {
		return Identity
	}
	return func(samples []float64) []float64 {
		if len(samples) < 2*k+1 {
			return samples
		}
		sorted := make([]float64, len(samples))
		copy(sorted, samples)
		sort.Float64s(sorted)
		return sorted[k : len(sorted)-k]
	}
}
