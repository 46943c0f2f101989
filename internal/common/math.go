package common

import (
	"math"

	"golang.org/x/exp/constraints"
)

type Number interface {
	constraints.Integer | constraints.Float
}

// Abs returns the absolute value of x
func Abs[T constraints.Signed | constraints.Float](x T) T {
	if x < 0 {
		return -x
	}
	return x
}

// Min returns the smaller of a and b
func Min[T constraints.Ordered](a, b T) T {
	if a < b {
		return a
	}
	return b
}

// Max returns the larger of a and b
func Max[T constraints.Ordered](a, b T) T {
	if a > b {
		return a
	}
	return b
}

// Clamp limits v to the closed range [lo, hi]
func Clamp[T constraints.Ordered](v, lo, hi T) T {
	return Max(lo, Min(v, hi))
}

// Sign returns -1, 0 or 1 depending on the sign of x
func Sign[T constraints.Signed](x T) T {
	switch {
	case x < 0:
		return -1
	case x > 0:
		return 1
	default:
		return 0
	}
}

// ManhattanDistance calculates the Manhattan distance between two points
func ManhattanDistance(r1, c1, r2, c2 int) int {
	return Abs(r1-r2) + Abs(c1-c2)
}

// EuclideanDistance calculates the straight-line distance between two points
func EuclideanDistance(r1, c1, r2, c2 int) float64 {
	dr := float64(r1 - r2)
	dc := float64(c1 - c2)
	return math.Sqrt(dr*dr + dc*dc)
}

// ChebyshevDistance is the king-move distance between two points
func ChebyshevDistance(r1, c1, r2, c2 int) int {
	return Max(Abs(r1-r2), Abs(c1-c2))
}

// Sum adds up a slice of numbers
func Sum[T Number](xs []T) T {
	var total T
	for _, x := range xs {
		total += x
	}
	return total
}
