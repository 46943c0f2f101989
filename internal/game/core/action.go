package core

// MoveAction moves one piece from one cell to another
type MoveAction struct {
	Color Color
	From  Coordinate
	To    Coordinate
}

// Validate performs the structural checks that do not depend on turn state:
// bounds, a piece of the mover's color at the source, and a distinct target.
// Movement-pattern legality is left to the rules package.
func (m *MoveAction) Validate(b *Board) error {
	if !b.InBounds(m.From) || !b.InBounds(m.To) {
		return ErrInvalidCoordinates
	}
	if m.From.Equal(m.To) {
		return ErrMoveToSelf
	}

	src := b.At(m.From)
	if !src.HasPiece() {
		return ErrNoPiece
	}
	if src.Piece.Color != m.Color {
		return ErrNotOwned
	}

	return nil
}
