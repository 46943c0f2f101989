package core

// StepTarget classifies a destination for a piece of the given color.
// Empty cells are enterable and let a slider continue. Reward sites and
// enemy pieces are enterable but stop the scan. Any other terrain, friendly
// pieces and off-board cells block.
func (b *Board) StepTarget(to Coordinate, color Color) (canMove, stop bool) {
	cell := b.At(to)
	if cell == nil {
		return false, true
	}

	switch cell.Kind {
	case CellEmpty:
		return true, false
	case CellTerrain:
		return cell.Terrain.Kind == RewardSite, true
	case CellPiece:
		return cell.Piece.Color != color, true
	}
	return false, true
}

// Relocate moves whatever occupies from onto to and clears from.
// It returns the cell that was overwritten at the destination.
func (b *Board) Relocate(from, to Coordinate) (Cell, error) {
	src, dst := b.At(from), b.At(to)
	if src == nil || dst == nil {
		return Cell{}, ErrInvalidCoordinates
	}
	if !src.HasPiece() {
		return Cell{}, ErrNoPiece
	}

	replaced := *dst
	*dst = *src
	*src = Cell{}
	return replaced, nil
}

// PlacePiece puts p on an empty cell
func (b *Board) PlacePiece(at Coordinate, p Piece) error {
	cell := b.At(at)
	if cell == nil {
		return ErrInvalidCoordinates
	}
	if !cell.IsEmpty() {
		return ErrIllegalMove
	}
	*cell = PieceCell(p)
	return nil
}

// SetCell overwrites a cell regardless of its contents
func (b *Board) SetCell(at Coordinate, cell Cell) error {
	dst := b.At(at)
	if dst == nil {
		return ErrInvalidCoordinates
	}
	*dst = cell
	return nil
}

// RemoveColor clears every piece of a color and returns how many were removed
func (b *Board) RemoveColor(color Color) int {
	removed := 0
	for i := range b.Cells {
		if b.Cells[i].IsFriendOf(color) {
			b.Cells[i] = Cell{}
			removed++
		}
	}
	return removed
}

// EmptyNeighbors returns the in-bounds empty cells at the given offsets from c
func (b *Board) EmptyNeighbors(c Coordinate, offsets []Coordinate) []Coordinate {
	out := make([]Coordinate, 0, len(offsets))
	for _, off := range offsets {
		n := c.Add(off)
		if cell := b.At(n); cell != nil && cell.IsEmpty() {
			out = append(out, n)
		}
	}
	return out
}

// CaptureInfo records a piece taken off the board by a move
type CaptureInfo struct {
	At       Coordinate
	Captured Piece
	By       Color
	Turn     int
}
