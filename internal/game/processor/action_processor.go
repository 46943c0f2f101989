package processor

import (
	"context"
	"math/rand"

	"github.com/mitchelldurbincs/FogOfWarChess/internal/game/core"
	"github.com/mitchelldurbincs/FogOfWarChess/internal/game/rules"
	"github.com/rs/zerolog"
)

// ActionProcessor applies validated moves to the board, resolving captures,
// king eliminations and reward sites
type ActionProcessor struct {
	logger zerolog.Logger
	rules  *rules.LegalMoveCalculator
}

// NewActionProcessor creates a new action processor
func NewActionProcessor(logger zerolog.Logger) *ActionProcessor {
	return &ActionProcessor{
		logger: logger.With().Str("component", "ActionProcessor").Logger(),
		rules:  rules.NewLegalMoveCalculator(),
	}
}

// RewardOutcome describes what a consumed reward site produced.
// Spawned is nil when every neighbor was occupied and the reward was lost.
type RewardOutcome struct {
	Site    core.Coordinate
	Piece   core.PieceType
	Spawned *core.Coordinate
}

// Lost reports whether the reward produced no piece
func (r *RewardOutcome) Lost() bool {
	return r.Spawned == nil
}

// MoveOutcome is everything a single applied move changed on the board
type MoveOutcome struct {
	Color    core.Color
	Piece    core.Piece
	From     core.Coordinate
	To       core.Coordinate
	Captured *core.CaptureInfo
	Reward   *RewardOutcome
	// Eliminated is NoColor unless the move took a king
	Eliminated core.Color
	Removed    int
}

// ApplyMove validates the move against the board and the piece's movement
// pattern, then mutates the board. Turn bookkeeping (budget, moved set,
// visibility) is left to the caller. The board is untouched on error.
func (ap *ActionProcessor) ApplyMove(ctx context.Context, board *core.Board, move *core.MoveAction, rng *rand.Rand, turn int) (*MoveOutcome, error) {
	select {
	case <-ctx.Done():
		ap.logger.Warn().Err(ctx.Err()).Msg("Move processing interrupted by context cancellation")
		return nil, ctx.Err()
	default:
	}

	if err := move.Validate(board); err != nil {
		return nil, core.WrapMoveError(move, err)
	}
	if !ap.rules.IsLegal(board, move.From, move.To) {
		return nil, core.WrapMoveError(move, core.ErrIllegalMove)
	}

	target := *board.At(move.To)
	outcome := &MoveOutcome{
		Color:      move.Color,
		Piece:      board.At(move.From).Piece,
		From:       move.From,
		To:         move.To,
		Eliminated: core.NoColor,
	}

	if _, err := board.Relocate(move.From, move.To); err != nil {
		return nil, core.WrapMoveError(move, err)
	}

	switch {
	case target.IsReward():
		outcome.Reward = ap.resolveReward(board, move.To, move.Color, rng)
	case target.IsEnemyOf(move.Color):
		outcome.Captured = &core.CaptureInfo{
			At:       move.To,
			Captured: target.Piece,
			By:       move.Color,
			Turn:     turn,
		}
		if target.Piece.Type == core.King {
			outcome.Eliminated = target.Piece.Color
			// The king itself was overwritten by the relocation
			outcome.Removed = board.RemoveColor(target.Piece.Color) + 1
		}
	}

	ap.logger.Debug().
		Str("player", move.Color.String()).
		Str("piece", outcome.Piece.Type.String()).
		Str("from", move.From.String()).
		Str("to", move.To.String()).
		Bool("capture", outcome.Captured != nil).
		Bool("reward", outcome.Reward != nil).
		Msg("Move applied")

	if outcome.Eliminated != core.NoColor {
		ap.logger.Info().
			Str("eliminated", outcome.Eliminated.String()).
			Str("by", move.Color.String()).
			Int("pieces_removed", outcome.Removed).
			Msg("King captured")
	}

	return outcome, nil
}

// resolveReward draws a piece type and tries to spawn it on a random empty
// orthogonal neighbor of the consumed site
func (ap *ActionProcessor) resolveReward(board *core.Board, site core.Coordinate, color core.Color, rng *rand.Rand) *RewardOutcome {
	reward := &RewardOutcome{
		Site:  site,
		Piece: core.RewardPieceTypes[rng.Intn(len(core.RewardPieceTypes))],
	}

	free := board.EmptyNeighbors(site, core.RewardNeighborOffsets)
	if len(free) == 0 {
		ap.logger.Debug().Str("site", site.String()).Msg("Reward lost, no free neighbor")
		return reward
	}

	at := free[rng.Intn(len(free))]
	if err := board.PlacePiece(at, core.Piece{Type: reward.Piece, Color: color}); err != nil {
		ap.logger.Error().Err(err).Str("at", at.String()).Msg("Failed to place reward piece")
		return reward
	}
	reward.Spawned = &at
	return reward
}
