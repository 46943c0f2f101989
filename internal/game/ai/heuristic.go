// Package ai picks moves for computer-controlled players.
package ai

import (
	"math/rand"

	"github.com/mitchelldurbincs/FogOfWarChess/internal/common"
	"github.com/mitchelldurbincs/FogOfWarChess/internal/game/core"
	"github.com/mitchelldurbincs/FogOfWarChess/internal/game/rules"
	"github.com/rs/zerolog"
	"github.com/zyedidia/generic/mapset"
)

// Weights tunes the move scoring
type Weights struct {
	PieceValues       map[core.PieceType]float64
	CaptureMultiplier float64
	KingBonus         float64
	RewardBonus       float64
	CentralityWeight  float64
	Jitter            float64
}

// DefaultWeights returns the standard scoring table
func DefaultWeights() Weights {
	return Weights{
		PieceValues: map[core.PieceType]float64{
			core.Pawn:   1,
			core.Knight: 3,
			core.Bishop: 3,
			core.Rook:   5,
			core.Queen:  9,
			core.King:   0,
		},
		CaptureMultiplier: 2,
		KingBonus:         1000,
		RewardBonus:       4,
		CentralityWeight:  0.1,
		Jitter:            0.05,
	}
}

// Candidate is a scored move
type Candidate struct {
	From        core.Coordinate
	To          core.Coordinate
	Score       float64
	KingCapture bool
}

// Heuristic is a greedy one-ply move picker
type Heuristic struct {
	weights Weights
	rules   *rules.LegalMoveCalculator
	rng     *rand.Rand
	logger  zerolog.Logger
}

// NewHeuristic creates a heuristic. A nil PieceValues table falls back to the defaults.
func NewHeuristic(weights Weights, rng *rand.Rand, logger zerolog.Logger) *Heuristic {
	if weights.PieceValues == nil {
		weights.PieceValues = DefaultWeights().PieceValues
	}
	return &Heuristic{
		weights: weights,
		rules:   rules.NewLegalMoveCalculator(),
		rng:     rng,
		logger:  logger.With().Str("component", "AIHeuristic").Logger(),
	}
}

// Weights returns the active weights
func (h *Heuristic) Weights() Weights {
	return h.weights
}

// Evaluate scores a move without jitter. The second result reports whether
// the move takes an enemy king.
func (h *Heuristic) Evaluate(board *core.Board, from, to core.Coordinate) (float64, bool) {
	mover := board.At(from)
	target := board.At(to)
	if mover == nil || target == nil || !mover.HasPiece() {
		return 0, false
	}

	score := 0.0
	kingCapture := false
	switch {
	case target.IsReward():
		score += h.weights.RewardBonus
	case target.IsEnemyOf(mover.Piece.Color):
		score += h.weights.PieceValues[target.Piece.Type] * h.weights.CaptureMultiplier
		if target.Piece.Type == core.King {
			score += h.weights.KingBonus
			kingCapture = true
		}
	}

	center := board.Center()
	before := common.ManhattanDistance(from.Row, from.Col, center.Row, center.Col)
	after := common.ManhattanDistance(to.Row, to.Col, center.Row, center.Col)
	score += float64(before-after) * h.weights.CentralityWeight

	return score, kingCapture
}

// ChooseMove returns the best scoring move for color among pieces not in
// moved, restricted to destinations in visible. ok is false when no piece
// has a visible legal move.
func (h *Heuristic) ChooseMove(board *core.Board, color core.Color, moved, visible mapset.Set[core.Key]) (best Candidate, ok bool) {
	considered := 0
	for _, from := range board.PiecesOf(color) {
		key := board.KeyOf(from)
		if moved.Has(key) || !visible.Has(key) {
			continue
		}
		for _, to := range h.rules.LegalMoves(board, from) {
			if !visible.Has(board.KeyOf(to)) {
				continue
			}
			score, king := h.Evaluate(board, from, to)
			if h.weights.Jitter > 0 {
				score += h.rng.Float64() * h.weights.Jitter
			}
			considered++
			if !ok || score > best.Score {
				best = Candidate{From: from, To: to, Score: score, KingCapture: king}
				ok = true
			}
		}
	}

	if ok {
		h.logger.Debug().
			Str("player", color.String()).
			Int("candidates", considered).
			Str("from", best.From.String()).
			Str("to", best.To.String()).
			Float64("score", best.Score).
			Msg("Selected move")
	}
	return best, ok
}
