package common

// IsValidCoordinate checks if the given cell is within a size x size board
func IsValidCoordinate(row, col, size int) bool {
	return row >= 0 && row < size && col >= 0 && col < size
}

// IsBoundary reports whether the cell lies on the outer ring of a size x size board
func IsBoundary(row, col, size int) bool {
	return row == 0 || row == size-1 || col == 0 || col == size-1
}

// IsOrthogonallyAdjacent checks if two positions share an edge
func IsOrthogonallyAdjacent(r1, c1, r2, c2 int) bool {
	dr := Abs(r1 - r2)
	dc := Abs(c1 - c2)
	return (dr == 1 && dc == 0) || (dr == 0 && dc == 1)
}
