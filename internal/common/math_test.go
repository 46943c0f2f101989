package common

import (
	"math"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestAbs(t *testing.T) {
	tests := []struct {
		name     string
		input    int
		expected int
	}{
		{"positive number", 5, 5},
		{"negative number", -5, 5},
		{"zero", 0, 0},
		{"large negative", -1000000, 1000000},
		{"min int special case", math.MinInt32 + 1, math.MaxInt32},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.expected, Abs(tt.input))
		})
	}

	assert.Equal(t, 2.5, Abs(-2.5))
}

func TestMinMax(t *testing.T) {
	tests := []struct {
		name     string
		a, b     int
		min, max int
	}{
		{"a smaller", 3, 5, 3, 5},
		{"b smaller", 7, 2, 2, 7},
		{"equal", 4, 4, 4, 4},
		{"negative numbers", -5, -3, -5, -3},
		{"zero and negative", 0, -10, -10, 0},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.min, Min(tt.a, tt.b))
			assert.Equal(t, tt.max, Max(tt.a, tt.b))
		})
	}

	assert.Equal(t, 0.1, Min(0.1, 0.2))
}

func TestClampAndSign(t *testing.T) {
	assert.Equal(t, 0, Clamp(-3, 0, 15))
	assert.Equal(t, 15, Clamp(40, 0, 15))
	assert.Equal(t, 7, Clamp(7, 0, 15))

	assert.Equal(t, -1, Sign(-8))
	assert.Equal(t, 0, Sign(0))
	assert.Equal(t, 1, Sign(3))
}

func TestDistances(t *testing.T) {
	tests := []struct {
		name      string
		r1, c1    int
		r2, c2    int
		manhattan int
		euclidean float64
		chebyshev int
	}{
		{"same point", 3, 3, 3, 3, 0, 0, 0},
		{"horizontal", 0, 0, 0, 6, 6, 6, 6},
		{"3-4-5 triangle", 0, 0, 3, 4, 7, 5, 4},
		{"reversed", 3, 4, 0, 0, 7, 5, 4},
		{"opposite corners", 0, 0, 15, 15, 30, math.Sqrt(450), 15},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.manhattan, ManhattanDistance(tt.r1, tt.c1, tt.r2, tt.c2))
			assert.InDelta(t, tt.euclidean, EuclideanDistance(tt.r1, tt.c1, tt.r2, tt.c2), 1e-9)
			assert.Equal(t, tt.chebyshev, ChebyshevDistance(tt.r1, tt.c1, tt.r2, tt.c2))
		})
	}
}

func TestSum(t *testing.T) {
	assert.Equal(t, 10, Sum([]int{1, 2, 3, 4}))
	assert.Equal(t, 0, Sum([]int(nil)))
	assert.InDelta(t, 0.6, Sum([]float64{0.1, 0.2, 0.3}), 1e-9)
}
