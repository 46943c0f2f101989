package rules

import (
	"github.com/mitchelldurbincs/FogOfWarChess/internal/game/core"
	"github.com/rs/zerolog"
)

// WinConditionChecker handles game over detection and winner determination
type WinConditionChecker struct {
	logger          zerolog.Logger
	originalPlayers int
}

// NewWinConditionChecker creates a new win condition checker
func NewWinConditionChecker(logger zerolog.Logger, originalPlayers int) *WinConditionChecker {
	return &WinConditionChecker{
		logger:          logger.With().Str("component", "WinConditionChecker").Logger(),
		originalPlayers: originalPlayers,
	}
}

// CheckGameOver determines if the game is over based on which players still hold a king.
// Returns (isGameOver, winner); winner is NoColor for a draw or while play continues.
func (wc *WinConditionChecker) CheckGameOver(players []Player) (bool, core.Color) {
	wc.logger.Debug().Msg("Checking game over conditions")
	var alive []core.Color

	for _, p := range players {
		if p.IsAlive() {
			alive = append(alive, p.GetColor())
		}
	}

	// A single-player sandbox only ends when that player loses its king
	var gameOver bool
	if wc.originalPlayers > 1 {
		gameOver = len(alive) <= 1
	} else {
		gameOver = len(alive) == 0
	}

	winner := core.NoColor
	if gameOver && len(alive) == 1 {
		winner = alive[0]
		wc.logger.Info().Str("winner", winner.String()).Msg("Winner determined")
	} else if gameOver {
		wc.logger.Info().Msg("No winner found (all players eliminated)")
	}

	wc.logger.Debug().Bool("is_game_over", gameOver).Int("alive_player_count", len(alive)).Msg("Game over check complete")

	return gameOver, winner
}

// Player interface to avoid circular imports
type Player interface {
	GetColor() core.Color
	IsAlive() bool
}
