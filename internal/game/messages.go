package game

import (
	"fmt"

	"github.com/mitchelldurbincs/FogOfWarChess/internal/game/core"
	"github.com/mitchelldurbincs/FogOfWarChess/internal/game/events"
	"github.com/rs/zerolog"
)

// MessageManager turns notable game moments into user-facing message events
type MessageManager struct {
	publisher events.Publisher
	gameID    string
	logger    zerolog.Logger
}

// NewMessageManager creates a new message manager
func NewMessageManager(publisher events.Publisher, gameID string, logger zerolog.Logger) *MessageManager {
	return &MessageManager{
		publisher: publisher,
		gameID:    gameID,
		logger:    logger.With().Str("component", "MessageManager").Logger(),
	}
}

// Info publishes a neutral notice. player may be NoColor.
func (mm *MessageManager) Info(player core.Color, turn int, format string, args ...any) {
	mm.send(player, events.SeverityInfo, turn, format, args...)
}

// Warning publishes a notice about something the player tried that did not work
func (mm *MessageManager) Warning(player core.Color, turn int, format string, args ...any) {
	mm.send(player, events.SeverityWarning, turn, format, args...)
}

// Reward publishes a notice about a reward site being claimed
func (mm *MessageManager) Reward(player core.Color, turn int, format string, args ...any) {
	mm.send(player, events.SeverityReward, turn, format, args...)
}

func (mm *MessageManager) send(player core.Color, severity events.Severity, turn int, format string, args ...any) {
	text := fmt.Sprintf(format, args...)
	mm.logger.Debug().
		Str("player", player.String()).
		Str("severity", string(severity)).
		Int("turn", turn).
		Msg(text)
	mm.publisher.Publish(events.NewMessageEvent(mm.gameID, player, severity, text, turn))
}
