package events

import (
	"time"

	"github.com/mitchelldurbincs/FogOfWarChess/internal/game/core"
)

// Event type constants
const (
	TypeGameStarted             = "game.started"
	TypeStateChanged            = "state.changed"
	TypeMessage                 = "message"
	TypeMoveApplied             = "move.applied"
	TypeRewardResolved          = "reward.resolved"
	TypePlayerEliminated        = "player.eliminated"
	TypeTurnTransitionRequested = "turn.transition_requested"
	TypeTurnStarted             = "turn.started"
	TypeGameOver                = "game.over"
	TypeStateTransition         = "state.transition"
)

// AllTypes lists every event type published by the engine
var AllTypes = []string{
	TypeGameStarted,
	TypeStateChanged,
	TypeMessage,
	TypeMoveApplied,
	TypeRewardResolved,
	TypePlayerEliminated,
	TypeTurnTransitionRequested,
	TypeTurnStarted,
	TypeGameOver,
	TypeStateTransition,
}

// Severity tags a one-off message for the presentation layer
type Severity string

const (
	SeverityInfo    Severity = "info"
	SeverityWarning Severity = "warning"
	SeverityReward  Severity = "reward"
)

// GameStartedEvent is published when a new game begins
type GameStartedEvent struct {
	BaseEvent
	Metadata  EventMetadata `json:"metadata"`
	Players   []core.Color  `json:"players"`
	AIPlayers []core.Color  `json:"ai_players,omitempty"`
	BoardSize int           `json:"board_size"`
}

// NewGameStartedEvent creates a new GameStartedEvent
func NewGameStartedEvent(gameID string, players, aiPlayers []core.Color, boardSize int) *GameStartedEvent {
	return &GameStartedEvent{
		BaseEvent: newBase(TypeGameStarted, gameID),
		Players:   players,
		AIPlayers: aiPlayers,
		BoardSize: boardSize,
	}
}

// StateChangedEvent is published after every mutation of the shared game state
type StateChangedEvent struct {
	BaseEvent
	Metadata       EventMetadata `json:"metadata"`
	CurrentPlayer  core.Color    `json:"current_player"`
	MovesRemaining int           `json:"moves_remaining"`
	Phase          string        `json:"phase"`
	Reason         string        `json:"reason"`
}

// NewStateChangedEvent creates a new StateChangedEvent
func NewStateChangedEvent(gameID string, current core.Color, moves int, phase, reason string, turn int) *StateChangedEvent {
	return &StateChangedEvent{
		BaseEvent:      newBase(TypeStateChanged, gameID),
		Metadata:       EventMetadata{Player: current.String(), Turn: turn},
		CurrentPlayer:  current,
		MovesRemaining: moves,
		Phase:          phase,
		Reason:         reason,
	}
}

// MessageEvent carries a user-facing notice
type MessageEvent struct {
	BaseEvent
	Metadata EventMetadata `json:"metadata"`
	Severity Severity      `json:"severity"`
	Text     string        `json:"text"`
}

// NewMessageEvent creates a new MessageEvent. player may be NoColor for global notices.
func NewMessageEvent(gameID string, player core.Color, severity Severity, text string, turn int) *MessageEvent {
	md := EventMetadata{Turn: turn}
	if player != core.NoColor {
		md.Player = player.String()
	}
	return &MessageEvent{
		BaseEvent: newBase(TypeMessage, gameID),
		Metadata:  md,
		Severity:  severity,
		Text:      text,
	}
}

// MoveAppliedEvent is published when a piece is relocated
type MoveAppliedEvent struct {
	BaseEvent
	Metadata       EventMetadata   `json:"metadata"`
	Player         core.Color      `json:"player"`
	Piece          core.PieceType  `json:"piece"`
	From           core.Coordinate `json:"from"`
	To             core.Coordinate `json:"to"`
	Captured       *core.Piece     `json:"captured,omitempty"`
	MovesRemaining int             `json:"moves_remaining"`
}

// NewMoveAppliedEvent creates a new MoveAppliedEvent. captured is nil for quiet moves.
func NewMoveAppliedEvent(gameID string, player core.Color, piece core.PieceType, from, to core.Coordinate, captured *core.Piece, movesRemaining, turn int) *MoveAppliedEvent {
	return &MoveAppliedEvent{
		BaseEvent:      newBase(TypeMoveApplied, gameID),
		Metadata:       EventMetadata{Player: player.String(), Turn: turn},
		Player:         player,
		Piece:          piece,
		From:           from,
		To:             to,
		Captured:       captured,
		MovesRemaining: movesRemaining,
	}
}

// RewardResolvedEvent is published when a reward site is consumed
type RewardResolvedEvent struct {
	BaseEvent
	Metadata EventMetadata    `json:"metadata"`
	Player   core.Color       `json:"player"`
	Site     core.Coordinate  `json:"site"`
	Piece    core.PieceType   `json:"piece"`
	Spawned  *core.Coordinate `json:"spawned,omitempty"`
}

// Lost reports whether the reward produced no piece
func (e *RewardResolvedEvent) Lost() bool {
	return e.Spawned == nil
}

// NewRewardResolvedEvent creates a new RewardResolvedEvent. spawned is nil when the reward was lost.
func NewRewardResolvedEvent(gameID string, player core.Color, site core.Coordinate, piece core.PieceType, spawned *core.Coordinate, turn int) *RewardResolvedEvent {
	return &RewardResolvedEvent{
		BaseEvent: newBase(TypeRewardResolved, gameID),
		Metadata:  EventMetadata{Player: player.String(), Turn: turn},
		Player:    player,
		Site:      site,
		Piece:     piece,
		Spawned:   spawned,
	}
}

// PlayerEliminatedEvent is published when a player loses its king
type PlayerEliminatedEvent struct {
	BaseEvent
	Metadata      EventMetadata `json:"metadata"`
	Player        core.Color    `json:"player"`
	EliminatedBy  core.Color    `json:"eliminated_by"`
	PiecesRemoved int           `json:"pieces_removed"`
	Remaining     []core.Color  `json:"remaining"`
}

// NewPlayerEliminatedEvent creates a new PlayerEliminatedEvent
func NewPlayerEliminatedEvent(gameID string, player, by core.Color, removed int, remaining []core.Color, turn int) *PlayerEliminatedEvent {
	return &PlayerEliminatedEvent{
		BaseEvent:     newBase(TypePlayerEliminated, gameID),
		Metadata:      EventMetadata{Player: player.String(), Turn: turn},
		Player:        player,
		EliminatedBy:  by,
		PiecesRemoved: removed,
		Remaining:     remaining,
	}
}

// TurnTransitionRequestedEvent asks the presentation layer to acknowledge a hand-over
type TurnTransitionRequestedEvent struct {
	BaseEvent
	Metadata       EventMetadata `json:"metadata"`
	From           core.Color    `json:"from"`
	To             core.Color    `json:"to"`
	MovesRemaining int           `json:"moves_remaining"`
}

// NewTurnTransitionRequestedEvent creates a new TurnTransitionRequestedEvent
func NewTurnTransitionRequestedEvent(gameID string, from, to core.Color, moves, turn int) *TurnTransitionRequestedEvent {
	return &TurnTransitionRequestedEvent{
		BaseEvent:      newBase(TypeTurnTransitionRequested, gameID),
		Metadata:       EventMetadata{Player: to.String(), Turn: turn},
		From:           from,
		To:             to,
		MovesRemaining: moves,
	}
}

// TurnStartedEvent is published when a player may begin acting
type TurnStartedEvent struct {
	BaseEvent
	Metadata       EventMetadata `json:"metadata"`
	Player         core.Color    `json:"player"`
	TurnNumber     int           `json:"turn_number"`
	MovesRemaining int           `json:"moves_remaining"`
	AI             bool          `json:"ai"`
}

// NewTurnStartedEvent creates a new TurnStartedEvent
func NewTurnStartedEvent(gameID string, player core.Color, turn, moves int, ai bool) *TurnStartedEvent {
	return &TurnStartedEvent{
		BaseEvent:      newBase(TypeTurnStarted, gameID),
		Metadata:       EventMetadata{Player: player.String(), Turn: turn},
		Player:         player,
		TurnNumber:     turn,
		MovesRemaining: moves,
		AI:             ai,
	}
}

// GameOverEvent is published once a single player remains
type GameOverEvent struct {
	BaseEvent
	Metadata  EventMetadata `json:"metadata"`
	Winner    core.Color    `json:"winner"`
	Duration  time.Duration `json:"duration"`
	FinalTurn int           `json:"final_turn"`
}

// NewGameOverEvent creates a new GameOverEvent
func NewGameOverEvent(gameID string, winner core.Color, duration time.Duration, finalTurn int) *GameOverEvent {
	return &GameOverEvent{
		BaseEvent: newBase(TypeGameOver, gameID),
		Metadata:  EventMetadata{Player: winner.String(), Turn: finalTurn},
		Winner:    winner,
		Duration:  duration,
		FinalTurn: finalTurn,
	}
}

// StateTransitionEvent is published when the game state machine transitions between phases
type StateTransitionEvent struct {
	BaseEvent
	FromPhase string `json:"from_phase"`
	ToPhase   string `json:"to_phase"`
	Reason    string `json:"reason"`
}

// NewStateTransitionEvent creates a new StateTransitionEvent
func NewStateTransitionEvent(gameID, fromPhase, toPhase, reason string) *StateTransitionEvent {
	return &StateTransitionEvent{
		BaseEvent: newBase(TypeStateTransition, gameID),
		FromPhase: fromPhase,
		ToPhase:   toPhase,
		Reason:    reason,
	}
}

// VisibleTo reports whether viewer may see ev. Moves and reward outcomes
// stay with the player who made them, as do messages addressed to one
// player. NoColor is an observer and sees everything.
func VisibleTo(ev Event, viewer core.Color) bool {
	if viewer == core.NoColor {
		return true
	}
	switch e := ev.(type) {
	case *MessageEvent:
		return e.Metadata.Player == "" || e.Metadata.Player == viewer.String()
	case *MoveAppliedEvent:
		return e.Player == viewer
	case *RewardResolvedEvent:
		return e.Player == viewer
	default:
		return true
	}
}
