package core

import (
	"fmt"

	"github.com/mitchelldurbincs/FogOfWarChess/internal/common"
)

// Coordinate represents a cell on the board by row and column
type Coordinate struct {
	Row int `json:"row"`
	Col int `json:"col"`
}

// Key is a packed row-major cell index (row*size + col)
type Key int

// NewCoordinate creates a new coordinate with the given row and column
func NewCoordinate(row, col int) Coordinate {
	return Coordinate{Row: row, Col: col}
}

// FromKey unpacks a row-major key for a board of the given size
func FromKey(k Key, size int) Coordinate {
	return Coordinate{
		Row: int(k) / size,
		Col: int(k) % size,
	}
}

// Key packs the coordinate for a board of the given size
func (c Coordinate) Key(size int) Key {
	return Key(c.Row*size + c.Col)
}

// IsValid checks if the coordinate is within a size x size board
func (c Coordinate) IsValid(size int) bool {
	return common.IsValidCoordinate(c.Row, c.Col, size)
}

// IsBoundary reports whether the coordinate is on the outer ring of the board
func (c Coordinate) IsBoundary(size int) bool {
	return common.IsBoundary(c.Row, c.Col, size)
}

// ManhattanTo calculates the Manhattan distance to another coordinate
func (c Coordinate) ManhattanTo(other Coordinate) int {
	return common.ManhattanDistance(c.Row, c.Col, other.Row, other.Col)
}

// EuclideanTo calculates the straight-line distance to another coordinate
func (c Coordinate) EuclideanTo(other Coordinate) float64 {
	return common.EuclideanDistance(c.Row, c.Col, other.Row, other.Col)
}

// ChebyshevTo calculates the king-move distance to another coordinate
func (c Coordinate) ChebyshevTo(other Coordinate) int {
	return common.ChebyshevDistance(c.Row, c.Col, other.Row, other.Col)
}

// Add returns a new coordinate that is the sum of this coordinate and an offset
func (c Coordinate) Add(offset Coordinate) Coordinate {
	return Coordinate{
		Row: c.Row + offset.Row,
		Col: c.Col + offset.Col,
	}
}

// StepToward returns the neighbouring cell one unit step toward target on each axis
func (c Coordinate) StepToward(target Coordinate) Coordinate {
	return Coordinate{
		Row: c.Row + common.Sign(target.Row-c.Row),
		Col: c.Col + common.Sign(target.Col-c.Col),
	}
}

// Equal checks if two coordinates are equal
func (c Coordinate) Equal(other Coordinate) bool {
	return c.Row == other.Row && c.Col == other.Col
}

// String returns a string representation of the coordinate
func (c Coordinate) String() string {
	return fmt.Sprintf("(%d,%d)", c.Row, c.Col)
}

// Offset tables. Order is significant: move lists are produced in this order.
var (
	OrthogonalOffsets = []Coordinate{
		{0, 1}, {0, -1}, {1, 0}, {-1, 0},
	}
	DiagonalOffsets = []Coordinate{
		{1, 1}, {1, -1}, {-1, 1}, {-1, -1},
	}
	AllOffsets = []Coordinate{
		{0, 1}, {0, -1}, {1, 0}, {-1, 0},
		{1, 1}, {1, -1}, {-1, 1}, {-1, -1},
	}
	KnightOffsets = []Coordinate{
		{-2, -1}, {-2, 1}, {-1, -2}, {-1, 2},
		{1, -2}, {1, 2}, {2, -1}, {2, 1},
	}
	// RewardNeighborOffsets lists the cells checked when spawning a reward piece
	RewardNeighborOffsets = []Coordinate{
		{-1, 0}, {1, 0}, {0, -1}, {0, 1},
	}
)
