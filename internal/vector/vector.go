package vector

import "math"

// Term is one weighted vocabulary entry of a sparse vector.
type Term struct {
	Token  string
	Weight float64
}

// Vector is a sparse TF-IDF vector with terms sorted by token. Vectors
// produced by a Space are L2-normalized; degenerate inputs yield an empty
// vector rather than NaN weights.
type Vector []Term

// Dot merge-walks both sorted term lists. Summation order is fixed by the
// token order, so equal inputs give bitwise equal results.
func Dot(a, b Vector) float64 {
	var sum float64
	i, j := 0, 0
	for i < len(a) && j < len(b) {
		switch {
		case a[i].Token < b[j].Token:
			i++
		case a[i].Token > b[j].Token:
			j++
		default:
			sum += a[i].Weight * b[j].Weight
			i++
			j++
		}
	}
	return sum
}

// Cosine returns the similarity of two pre-normalized vectors, clamped to
// [0, 1]. An all-zero or empty vector scores 0, never NaN.
func Cosine(a, b Vector) float64 {
	s := Dot(a, b)
	if s < 0 {
		return 0
	}
	if s > 1 {
		return 1
	}
	return s
}

// normalize scales v to unit L2 norm in place. Zero-norm vectors are left
// untouched.
func (v Vector) normalize() {
	var sum float64
	for _, t := range v {
		sum += t.Weight * t.Weight
	}
	if sum == 0 {
		return
	}
	norm := math.Sqrt(sum)
	for i := range v {
		v[i].Weight /= norm
	}
}

// Norm returns the L2 norm.
func (v Vector) Norm() float64 {
	var sum float64
	for _, t := range v {
		sum += t.Weight * t.Weight
	}
	return math.Sqrt(sum)
}
