// Package vector holds the fixed-dimension embedding type and its math.
package vector

import "math"

// Dim is the embedding dimension shared by every vector in the engine.
const Dim = 128

// Vector is a dense embedding. A non-zero vector produced by the engine is unit length.
type Vector []float32

// Zero returns an all-zero vector of dimension Dim.
func Zero() Vector { return make(Vector, Dim) }

// Clone returns a copy that does not share the backing array.
func (v Vector) Clone() Vector {
	if v == nil {
		return nil
	}
	out := make(Vector, len(v))
	copy(out, v)
	return out
}

// Norm returns the L2 magnitude.
func (v Vector) Norm() float64 {
	var sum float64
	for _, x := range v {
		sum += float64(x) * float64(x)
	}
	return math.Sqrt(sum)
}

// IsZero reports whether every component is zero.
func (v Vector) IsZero() bool {
	for _, x := range v {
		if x != 0 {
			return false
		}
	}
	return true
}

// Normalize scales v to unit length in place. The zero vector is left untouched.
func (v Vector) Normalize() Vector {
	n := v.Norm()
	if n == 0 {
		return v
	}
	for i := range v {
		v[i] = float32(float64(v[i]) / n)
	}
	return v
}

// Blend returns wa*a + wb*b component-wise. Lengths must match; otherwise a is returned as a copy.
func Blend(a, b Vector, wa, wb float32) Vector {
	if len(a) != len(b) {
		return a.Clone()
	}
	out := make(Vector, len(a))
	for i := range a {
		out[i] = wa*a[i] + wb*b[i]
	}
	return out
}

// Cosine returns dot(a,b)/(|a||b|).
// Returns 0 when the dimensions differ or either vector has zero magnitude.
func Cosine(a, b Vector) float64 {
	if len(a) != len(b) || len(a) == 0 {
		return 0
	}
	var dot, na, nb float64
	for i := range a {
		x, y := float64(a[i]), float64(b[i])
		dot += x * y
		na += x * x
		nb += y * y
	}
	if na == 0 || nb == 0 {
		return 0
	}
	return dot / (math.Sqrt(na) * math.Sqrt(nb))
}
