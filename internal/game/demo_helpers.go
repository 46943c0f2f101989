package game

import (
	"math/rand"

	"github.com/mitchelldurbincs/FogOfWarChess/internal/game/core"
	"github.com/rs/zerolog/log"
)

// RandomMove picks a random legal move for the player to act, using only
// pieces that have not moved yet. It is meant for demos, benchmarks and as
// a baseline opponent. ok is false when the player has nothing to move.
func RandomMove(g *Engine, rng *rand.Rand) (move core.MoveAction, ok bool) {
	g.mu.Lock()
	defer g.mu.Unlock()

	p := g.gs.CurrentPlayer()
	if p == nil || g.gameOver || p.MovesRemaining <= 0 {
		return core.MoveAction{}, false
	}

	var moves []core.MoveAction
	board := g.gs.Board
	for _, from := range board.PiecesOf(p.Color) {
		if p.HasMoved(board.KeyOf(from)) {
			continue
		}
		for _, to := range g.legalMoves.LegalMoves(board, from) {
			moves = append(moves, core.MoveAction{Color: p.Color, From: from, To: to})
		}
	}
	if len(moves) == 0 {
		return core.MoveAction{}, false
	}

	move = moves[rng.Intn(len(moves))]
	log.Debug().
		Str("player", move.Color.String()).
		Str("from", move.From.String()).
		Str("to", move.To.String()).
		Msg("Generated random move")
	return move, true
}
