// Package vectorstore provides shared vector math for the store backends.
package vectorstore

import "math"

// CosineDistance returns 1 - cosine similarity between a and b, so that
// identical directions score 0 and opposite directions score 2. Vectors
// with zero magnitude are maximally distant from everything.
func CosineDistance(a, b []float32) float64 {
	var dot, normA, normB float64
	n := len(a)
	if len(b) < n {
		n = len(b)
	}

	for i := 0; i < n; i++ {
		dot += float64(a[i]) * float64(b[i])
		normA += float64(a[i]) * float64(a[i])
		normB += float64(b[i]) * float64(b[i])
	}

	if normA == 0 || normB == 0 {
		return 1
	}

	return 1 - dot/(math.Sqrt(normA)*math.Sqrt(normB))
}
