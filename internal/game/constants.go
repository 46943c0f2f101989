package game

import (
	"github.com/mitchelldurbincs/FogOfWarChess/internal/config"
)

// DefaultGameConfig builds a GameConfig from the loaded application config
func DefaultGameConfig() GameConfig {
	c := config.Get()
	return GameConfig{
		Size:            c.Game.GridSize,
		Players:         c.Game.PlayerColors(),
		AIPlayers:       c.Game.AIColors(),
		MovesPerTurn:    c.Game.MovesPerTurn,
		MaxTurns:        c.Development.MaxTurns,
		Map:             c.Game.MapConfig(),
		Vision:          c.Game.VisionRanges(),
		AIWeights:       c.AI.Weights(),
		AIMoveDelay:     c.AI.MoveDelay(),
		AutoEndTurn:     c.Game.AutoEndTurn,
		AutoAcknowledge: c.Game.AutoAcknowledge,
		ShowAllCells:    c.Development.ShowAllCells,
	}
}
