package core

import (
	"errors"
	"fmt"
)

var (
	ErrInvalidCoordinates = errors.New("invalid coordinates")
	ErrInvalidBoard       = errors.New("invalid board")
	ErrNoPiece            = errors.New("no piece at source cell")
	ErrNotOwned           = errors.New("piece not owned by player")
	ErrMoveToSelf         = errors.New("source and destination are the same cell")
	ErrAlreadyMoved       = errors.New("piece has already moved this turn")
	ErrNoMovesRemaining   = errors.New("no moves remaining this turn")
	ErrIllegalMove        = errors.New("destination is not a legal move")
	ErrCellFogged         = errors.New("cell is not visible")
	ErrNotYourTurn        = errors.New("not this player's turn")
	ErrTurnEnding         = errors.New("turn transition awaiting acknowledgement")
	ErrNotTurnEnding      = errors.New("no turn transition pending")
	ErrNoSelection        = errors.New("no piece selected")
	ErrGameOver           = errors.New("game is over")
	ErrInvalidPlayer      = errors.New("invalid player")
	ErrTurnLimit          = errors.New("turn limit reached")
)

// WrapMoveError adds move context to an error
func WrapMoveError(move *MoveAction, err error) error {
	if err == nil {
		return nil
	}
	if move == nil {
		return fmt.Errorf("player action: %w", err)
	}
	return fmt.Errorf("player %s: move from %s to %s: %w", move.Color, move.From, move.To, err)
}

// WrapGameStateError adds turn and phase context to an error
func WrapGameStateError(turn int, phase string, err error) error {
	if err == nil {
		return nil
	}
	return fmt.Errorf("game turn %d [%s]: %w", turn, phase, err)
}

// WrapPlayerError adds player context to an error
func WrapPlayerError(color Color, operation string, err error) error {
	if err == nil {
		return nil
	}
	return fmt.Errorf("player %s %s: %w", color, operation, err)
}

// GameError carries structured context for errors raised during play
type GameError struct {
	Turn      int
	Color     Color
	Operation string
	Err       error
}

func (e *GameError) Error() string {
	if e.Color != NoColor {
		return fmt.Sprintf("turn %d: player %s %s: %v", e.Turn, e.Color, e.Operation, e.Err)
	}
	return fmt.Sprintf("turn %d: %s: %v", e.Turn, e.Operation, e.Err)
}

func (e *GameError) Unwrap() error {
	return e.Err
}

// NewGameError creates a new GameError. Pass NoColor when no player is involved.
func NewGameError(turn int, color Color, operation string, err error) *GameError {
	return &GameError{
		Turn:      turn,
		Color:     color,
		Operation: operation,
		Err:       err,
	}
}
