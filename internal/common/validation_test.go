package common

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestIsValidCoordinate(t *testing.T) {
	tests := []struct {
		name     string
		row, col int
		size     int
		expected bool
	}{
		{"top-left corner", 0, 0, 16, true},
		{"bottom-right corner", 15, 15, 16, true},
		{"center", 8, 8, 16, true},
		{"single cell board", 0, 0, 1, true},
		{"negative row", -1, 5, 16, false},
		{"negative col", 5, -1, 16, false},
		{"row equals size", 16, 5, 16, false},
		{"col equals size", 5, 16, 16, false},
		{"empty board", 0, 0, 0, false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.expected, IsValidCoordinate(tt.row, tt.col, tt.size))
		})
	}
}

func TestIsBoundary(t *testing.T) {
	tests := []struct {
		name     string
		row, col int
		expected bool
	}{
		{"top row", 0, 7, true},
		{"bottom row", 15, 3, true},
		{"left column", 4, 0, true},
		{"right column", 9, 15, true},
		{"corner", 15, 15, true},
		{"one step inside", 1, 1, false},
		{"center", 8, 8, false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.expected, IsBoundary(tt.row, tt.col, 16))
		})
	}
}

func TestIsOrthogonallyAdjacent(t *testing.T) {
	assert.True(t, IsOrthogonallyAdjacent(5, 5, 5, 6))
	assert.True(t, IsOrthogonallyAdjacent(5, 5, 4, 5))
	assert.False(t, IsOrthogonallyAdjacent(5, 5, 6, 6), "diagonal")
	assert.False(t, IsOrthogonallyAdjacent(5, 5, 5, 5), "same cell")
	assert.False(t, IsOrthogonallyAdjacent(5, 5, 5, 7), "two steps")
}
