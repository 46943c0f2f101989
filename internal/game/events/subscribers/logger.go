package subscribers

import (
	"encoding/json"

	"github.com/mitchelldurbincs/FogOfWarChess/internal/game/events"
	"github.com/rs/zerolog"
)

// LoggerSubscriber logs events to structured logs
type LoggerSubscriber struct {
	id              string
	logger          zerolog.Logger
	logLevel        zerolog.Level
	eventTypeFilter map[string]bool // If non-nil, only log these event types
	devMode         bool            // If true, log full event details
}

// NewLoggerSubscriber creates a new logger subscriber
func NewLoggerSubscriber(id string, logger zerolog.Logger, logLevel zerolog.Level) *LoggerSubscriber {
	return &LoggerSubscriber{
		id:       id,
		logger:   logger.With().Str("subscriber", "event_logger").Logger(),
		logLevel: logLevel,
	}
}

// ID returns the subscriber's unique identifier
func (ls *LoggerSubscriber) ID() string {
	return ls.id
}

// SetEventFilter sets which event types to log (nil means log all)
func (ls *LoggerSubscriber) SetEventFilter(eventTypes []string) {
	if len(eventTypes) == 0 {
		ls.eventTypeFilter = nil
		return
	}

	ls.eventTypeFilter = make(map[string]bool)
	for _, eventType := range eventTypes {
		ls.eventTypeFilter[eventType] = true
	}
}

// SetDevMode enables or disables development mode logging
func (ls *LoggerSubscriber) SetDevMode(enabled bool) {
	ls.devMode = enabled
}

// InterestedIn returns true if the subscriber wants to receive this event type
func (ls *LoggerSubscriber) InterestedIn(eventType string) bool {
	if ls.eventTypeFilter == nil {
		return true
	}
	return ls.eventTypeFilter[eventType]
}

// HandleEvent processes an event by logging it
func (ls *LoggerSubscriber) HandleEvent(event events.Event) {
	eventLogger := ls.logger.With().
		Str("event_type", event.Type()).
		Str("game_id", event.GameID()).
		Time("timestamp", event.Timestamp()).
		Logger()

	var logEvent *zerolog.Event
	switch ls.logLevel {
	case zerolog.DebugLevel:
		logEvent = eventLogger.Debug()
	case zerolog.InfoLevel:
		logEvent = eventLogger.Info()
	case zerolog.WarnLevel:
		logEvent = eventLogger.Warn()
	case zerolog.ErrorLevel:
		logEvent = eventLogger.Error()
	default:
		logEvent = eventLogger.Info()
	}

	// Add event-specific fields based on type
	switch e := event.(type) {
	case *events.GameStartedEvent:
		logEvent.
			Int("num_players", len(e.Players)).
			Int("num_ai_players", len(e.AIPlayers)).
			Int("board_size", e.BoardSize)

	case *events.StateChangedEvent:
		logEvent.
			Str("current_player", e.CurrentPlayer.String()).
			Int("moves_remaining", e.MovesRemaining).
			Str("phase", e.Phase).
			Str("reason", e.Reason)

	case *events.MessageEvent:
		logEvent.
			Str("severity", string(e.Severity)).
			Str("player", e.Metadata.Player).
			Str("text", e.Text)

	case *events.MoveAppliedEvent:
		logEvent.
			Str("player", e.Player.String()).
			Str("piece", e.Piece.String()).
			Str("from", e.From.String()).
			Str("to", e.To.String()).
			Int("moves_remaining", e.MovesRemaining)
		if e.Captured != nil {
			logEvent.Str("captured", e.Captured.String())
		}

	case *events.RewardResolvedEvent:
		logEvent.
			Str("player", e.Player.String()).
			Str("site", e.Site.String()).
			Str("piece", e.Piece.String()).
			Bool("lost", e.Lost())

	case *events.PlayerEliminatedEvent:
		logEvent.
			Str("player", e.Player.String()).
			Str("eliminated_by", e.EliminatedBy.String()).
			Int("pieces_removed", e.PiecesRemoved).
			Int("players_remaining", len(e.Remaining))

	case *events.TurnTransitionRequestedEvent:
		logEvent.
			Str("from", e.From.String()).
			Str("to", e.To.String()).
			Int("moves_remaining", e.MovesRemaining)

	case *events.TurnStartedEvent:
		logEvent.
			Int("turn", e.TurnNumber).
			Str("player", e.Player.String()).
			Int("moves_remaining", e.MovesRemaining).
			Bool("ai", e.AI)

	case *events.GameOverEvent:
		logEvent.
			Str("winner", e.Winner.String()).
			Dur("duration", e.Duration).
			Int("final_turn", e.FinalTurn)

	case *events.StateTransitionEvent:
		logEvent.
			Str("from_phase", e.FromPhase).
			Str("to_phase", e.ToPhase).
			Str("reason", e.Reason)
	}

	// In dev mode, also log the full event as JSON
	if ls.devMode {
		if jsonData, err := json.Marshal(event); err == nil {
			logEvent.RawJSON("event_data", jsonData)
		}
	}

	logEvent.Msg("Game event")
}
