package states

import (
	"fmt"
	"time"

	"github.com/mitchelldurbincs/FogOfWarChess/internal/game/core"
)

// InitializingState represents map generation and placement
type InitializingState struct{}

func NewInitializingState() State {
	return &InitializingState{}
}

func (s *InitializingState) Phase() GamePhase {
	return PhaseInitializing
}

func (s *InitializingState) Enter(ctx *GameContext) error {
	ctx.Logger.Debug().Msg("Entering Initializing state")
	return nil
}

func (s *InitializingState) Exit(ctx *GameContext) error {
	ctx.Logger.Debug().Int("player_count", ctx.PlayerCount).Msg("Setup complete")
	return nil
}

func (s *InitializingState) Validate(ctx *GameContext) error {
	return nil
}

// AwaitingActionState waits for the current player to act
type AwaitingActionState struct{}

func NewAwaitingActionState() State {
	return &AwaitingActionState{}
}

func (s *AwaitingActionState) Phase() GamePhase {
	return PhaseAwaitingAction
}

func (s *AwaitingActionState) Enter(ctx *GameContext) error {
	if ctx.StartTime.IsZero() {
		ctx.StartTime = time.Now()
		ctx.Logger.Info().
			Time("start_time", ctx.StartTime).
			Msg("Game started")
	}
	ctx.Logger.Debug().
		Str("current_player", ctx.CurrentPlayer.String()).
		Int("turn", ctx.Turn).
		Msg("Awaiting action")
	return nil
}

func (s *AwaitingActionState) Exit(ctx *GameContext) error {
	return nil
}

func (s *AwaitingActionState) Validate(ctx *GameContext) error {
	if !ctx.IsReady() {
		return fmt.Errorf("cannot run game with %d players (max %d)", ctx.PlayerCount, ctx.MaxPlayers)
	}
	if !ctx.CurrentPlayer.IsValid() {
		return fmt.Errorf("no current player set")
	}
	return nil
}

// ActionAppliedState is entered after each applied move
type ActionAppliedState struct{}

func NewActionAppliedState() State {
	return &ActionAppliedState{}
}

func (s *ActionAppliedState) Phase() GamePhase {
	return PhaseActionApplied
}

func (s *ActionAppliedState) Enter(ctx *GameContext) error {
	ctx.Logger.Debug().Str("current_player", ctx.CurrentPlayer.String()).Msg("Action applied")
	return nil
}

func (s *ActionAppliedState) Exit(ctx *GameContext) error {
	return nil
}

func (s *ActionAppliedState) Validate(ctx *GameContext) error {
	return nil
}

// TurnEndingState holds the game between players until the hand-over is acknowledged
type TurnEndingState struct{}

func NewTurnEndingState() State {
	return &TurnEndingState{}
}

func (s *TurnEndingState) Phase() GamePhase {
	return PhaseTurnEnding
}

func (s *TurnEndingState) Enter(ctx *GameContext) error {
	ctx.Logger.Info().
		Str("next_player", ctx.CurrentPlayer.String()).
		Int("turn", ctx.Turn).
		Msg("Turn ending, awaiting acknowledgement")
	return nil
}

func (s *TurnEndingState) Exit(ctx *GameContext) error {
	ctx.Logger.Debug().Msg("Turn transition acknowledged")
	return nil
}

func (s *TurnEndingState) Validate(ctx *GameContext) error {
	if !ctx.CurrentPlayer.IsValid() {
		return fmt.Errorf("turn ending requires a next player")
	}
	return nil
}

// GameOverState represents a completed game
type GameOverState struct{}

func NewGameOverState() State {
	return &GameOverState{}
}

func (s *GameOverState) Phase() GamePhase {
	return PhaseGameOver
}

func (s *GameOverState) Enter(ctx *GameContext) error {
	ctx.Logger.Info().
		Str("winner", ctx.Winner.String()).
		Dur("game_duration", ctx.GetElapsedTime()).
		Int("final_turn", ctx.Turn).
		Msg("Game ended")
	return nil
}

func (s *GameOverState) Exit(ctx *GameContext) error {
	ctx.Logger.Debug().Msg("Exiting game over state")
	return nil
}

func (s *GameOverState) Validate(ctx *GameContext) error {
	if !ctx.Winner.IsValid() && ctx.Error == nil {
		return fmt.Errorf("game over requires either a winner or an error")
	}
	return nil
}

// ErrorState represents an error condition
type ErrorState struct{}

func NewErrorState() State {
	return &ErrorState{}
}

func (s *ErrorState) Phase() GamePhase {
	return PhaseError
}

func (s *ErrorState) Enter(ctx *GameContext) error {
	ctx.Logger.Error().
		Err(ctx.Error).
		Msg("Game entered error state")
	return nil
}

func (s *ErrorState) Exit(ctx *GameContext) error {
	ctx.Logger.Info().Msg("Recovering from error state")
	ctx.Error = nil
	return nil
}

func (s *ErrorState) Validate(ctx *GameContext) error {
	if ctx.Error == nil {
		return fmt.Errorf("error state requires an error in context")
	}
	return nil
}

// ResetState represents game reset
type ResetState struct{}

func NewResetState() State {
	return &ResetState{}
}

func (s *ResetState) Phase() GamePhase {
	return PhaseReset
}

func (s *ResetState) Enter(ctx *GameContext) error {
	ctx.Logger.Info().Msg("Resetting game")

	ctx.StartTime = time.Time{}
	ctx.Winner = core.NoColor
	ctx.CurrentPlayer = core.NoColor
	ctx.Turn = 0
	ctx.Error = nil
	ctx.PlayerCount = 0

	// Clear metadata but keep the map allocated
	for k := range ctx.Metadata {
		delete(ctx.Metadata, k)
	}

	return nil
}

func (s *ResetState) Exit(ctx *GameContext) error {
	ctx.Logger.Debug().Msg("Game reset complete")
	return nil
}

func (s *ResetState) Validate(ctx *GameContext) error {
	return nil
}
