package rules

import "github.com/mitchelldurbincs/FogOfWarChess/internal/game/core"

// LegalMoveCalculator computes legal destinations for pieces on a board.
// It never mutates the board.
type LegalMoveCalculator struct{}

// NewLegalMoveCalculator creates a new legal move calculator
func NewLegalMoveCalculator() *LegalMoveCalculator {
	return &LegalMoveCalculator{}
}

// LegalMoves returns the ordered destinations for the piece at from.
// A cell without a piece yields nil.
func (lmc *LegalMoveCalculator) LegalMoves(board *core.Board, from core.Coordinate) []core.Coordinate {
	cell := board.At(from)
	if cell == nil || !cell.HasPiece() {
		return nil
	}
	color := cell.Piece.Color

	switch cell.Piece.Type {
	case core.Pawn:
		return pawnMoves(board, from, color)
	case core.Knight:
		return stepMoves(board, from, color, core.KnightOffsets)
	case core.King:
		return stepMoves(board, from, color, core.AllOffsets)
	case core.Bishop:
		return slideMoves(board, from, color, core.DiagonalOffsets)
	case core.Rook:
		return slideMoves(board, from, color, core.OrthogonalOffsets)
	case core.Queen:
		return slideMoves(board, from, color, core.AllOffsets)
	}
	return nil
}

// IsLegal reports whether to is among the legal destinations of the piece at from
func (lmc *LegalMoveCalculator) IsLegal(board *core.Board, from, to core.Coordinate) bool {
	for _, dst := range lmc.LegalMoves(board, from) {
		if dst == to {
			return true
		}
	}
	return false
}

// HasAnyMove reports whether any piece of color outside skip has a legal destination.
// skip may be nil.
func (lmc *LegalMoveCalculator) HasAnyMove(board *core.Board, color core.Color, skip func(core.Coordinate) bool) bool {
	for _, at := range board.PiecesOf(color) {
		if skip != nil && skip(at) {
			continue
		}
		if len(lmc.LegalMoves(board, at)) > 0 {
			return true
		}
	}
	return false
}

// Pawns step orthogonally onto empty cells and diagonally only to capture or take a reward.
func pawnMoves(board *core.Board, from core.Coordinate, color core.Color) []core.Coordinate {
	var moves []core.Coordinate
	for _, off := range core.OrthogonalOffsets {
		to := from.Add(off)
		if cell := board.At(to); cell != nil && cell.IsEmpty() {
			moves = append(moves, to)
		}
	}
	for _, off := range core.DiagonalOffsets {
		to := from.Add(off)
		if cell := board.At(to); cell != nil && (cell.IsReward() || cell.IsEnemyOf(color)) {
			moves = append(moves, to)
		}
	}
	return moves
}

func stepMoves(board *core.Board, from core.Coordinate, color core.Color, offsets []core.Coordinate) []core.Coordinate {
	var moves []core.Coordinate
	for _, off := range offsets {
		to := from.Add(off)
		if canMove, _ := board.StepTarget(to, color); canMove {
			moves = append(moves, to)
		}
	}
	return moves
}

func slideMoves(board *core.Board, from core.Coordinate, color core.Color, dirs []core.Coordinate) []core.Coordinate {
	var moves []core.Coordinate
	for _, dir := range dirs {
		to := from.Add(dir)
		for {
			canMove, stop := board.StepTarget(to, color)
			if canMove {
				moves = append(moves, to)
			}
			if stop {
				break
			}
			to = to.Add(dir)
		}
	}
	return moves
}
