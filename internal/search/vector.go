package search

import "math"

// Vector is a sparse term-weight vector keyed by vocabulary column index.
// A non-empty vector is always L2-normalized; the empty vector is the
// valid "no recognized terms" state.
type Vector map[int]float64

// Dot returns the dot product over the shared non-zero dimensions. For two
// L2-normalized vectors this is their cosine similarity.
func Dot(a, b Vector) float64 {
	if len(b) < len(a) {
		a, b = b, a
	}
	var sum float64
	for col, w := range a {
		sum += w * b[col]
	}
	return sum
}

// Norm returns the L2 norm of v.
func Norm(v Vector) float64 {
	var sum float64
	for _, w := range v {
		sum += w * w
	}
	return math.Sqrt(sum)
}

// normalize scales v to unit length in place. The zero vector is left
// unchanged.
func normalize(v Vector) {
	n := Norm(v)
	if n == 0 {
		return
	}
	for col := range v {
		v[col] /= n
	}
}
