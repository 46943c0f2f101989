package states

import (
	"time"

	"github.com/mitchelldurbincs/FogOfWarChess/internal/game/core"
	"github.com/rs/zerolog"
)

// GameContext provides game-specific information to states for making decisions
type GameContext struct {
	// GameID uniquely identifies this game instance
	GameID string

	// Logger for state-specific logging
	Logger zerolog.Logger

	// PlayerCount is the number of active players in the game
	PlayerCount int

	// MaxPlayers is the maximum number of players allowed
	MaxPlayers int

	// CurrentPlayer is the color whose turn it is
	CurrentPlayer core.Color

	// Turn counts completed hand-overs, starting at 1
	Turn int

	// StartTime is when the first player could act
	StartTime time.Time

	// Winner is the last player standing, NoColor until the game is over
	Winner core.Color

	// Error holds any error that caused transition to PhaseError
	Error error

	// Metadata for custom state data
	Metadata map[string]interface{}
}

// NewGameContext creates a new game context
func NewGameContext(gameID string, maxPlayers int, logger zerolog.Logger) *GameContext {
	return &GameContext{
		GameID:        gameID,
		MaxPlayers:    maxPlayers,
		Logger:        logger.With().Str("game_id", gameID).Logger(),
		Metadata:      make(map[string]interface{}),
		CurrentPlayer: core.NoColor,
		Winner:        core.NoColor,
	}
}

// IsReady returns true if the game has enough players to start
func (gc *GameContext) IsReady() bool {
	return gc.PlayerCount >= 1 && gc.PlayerCount <= gc.MaxPlayers
}

// GetElapsedTime returns the time elapsed since the first action became possible
func (gc *GameContext) GetElapsedTime() time.Duration {
	if gc.StartTime.IsZero() {
		return 0
	}
	return time.Since(gc.StartTime)
}

// SetMetadata stores custom data for states
func (gc *GameContext) SetMetadata(key string, value interface{}) {
	gc.Metadata[key] = value
}

// GetMetadata retrieves custom data stored by states
func (gc *GameContext) GetMetadata(key string) (interface{}, bool) {
	val, exists := gc.Metadata[key]
	return val, exists
}
