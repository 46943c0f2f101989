package game

import (
	"context"

	"github.com/mitchelldurbincs/FogOfWarChess/internal/common"
	"github.com/mitchelldurbincs/FogOfWarChess/internal/game/core"
	"github.com/mitchelldurbincs/FogOfWarChess/internal/game/events"
	"github.com/mitchelldurbincs/FogOfWarChess/internal/game/states"
	"github.com/rs/zerolog"
)

// TurnProcessor hands the turn from one player to the next. Every method
// expects the engine lock to be held.
type TurnProcessor struct {
	engine *Engine
	logger zerolog.Logger
}

// NewTurnProcessor creates a new turn processor
func NewTurnProcessor(engine *Engine) *TurnProcessor {
	return &TurnProcessor{
		engine: engine,
		logger: engine.logger.With().Str("component", "TurnProcessor").Logger(),
	}
}

// checkContext checks if the context is cancelled
func (tp *TurnProcessor) checkContext(ctx context.Context, phase string) error {
	select {
	case <-ctx.Done():
		tp.logger.Warn().
			Err(ctx.Err()).
			Str("phase", phase).
			Msg("Turn processing interrupted by context cancellation")
		return ctx.Err()
	default:
		return nil
	}
}

// EndTurn rotates to the next active player and leaves the game in
// TurnEnding until the hand-over is acknowledged
func (tp *TurnProcessor) EndTurn(reason string) Result {
	e := tp.engine
	gs := e.gs

	if e.gameOver {
		return rejected(core.ErrGameOver)
	}
	phase := e.stateMachine.CurrentPhase()
	if phase == states.PhaseTurnEnding {
		return rejected(core.ErrTurnEnding)
	}
	if phase != states.PhaseAwaitingAction && phase != states.PhaseActionApplied {
		return rejected(core.ErrNotYourTurn)
	}

	prev := gs.CurrentPlayer()
	if prev == nil {
		return rejected(core.ErrInvalidPlayer)
	}
	prev.clearMoved()
	gs.clearSelection()

	next := tp.advance()
	gs.Turn++
	next.clearMoved()
	next.MovesRemaining = tp.budgetFor(next)

	tp.logger.Info().
		Str("from", prev.Color.String()).
		Str("to", next.Color.String()).
		Int("turn", gs.Turn).
		Int("moves", next.MovesRemaining).
		Str("reason", reason).
		Msg("Turn ended")

	e.transition(states.PhaseTurnEnding, reason)
	e.enqueue(events.NewTurnTransitionRequestedEvent(e.gameID, prev.Color, next.Color, next.MovesRemaining, gs.Turn))
	e.publishState(reason)

	if e.config.MaxTurns > 0 && gs.Turn > e.config.MaxTurns {
		tp.logger.Warn().Int("max_turns", e.config.MaxTurns).Msg("Turn limit reached")
		e.finishLocked(core.NoColor, core.ErrTurnLimit)
	}
	return Result{Applied: true, Kind: ResultTurnEnded}
}

// Acknowledge resolves a pending hand-over
func (tp *TurnProcessor) Acknowledge() Result {
	e := tp.engine
	if e.gameOver {
		return rejected(core.ErrGameOver)
	}
	if e.stateMachine.CurrentPhase() != states.PhaseTurnEnding {
		return rejected(core.ErrNotTurnEnding)
	}
	tp.startTurn(e.gs.CurrentPlayer(), "turn acknowledged")
	return Result{Applied: true, Kind: ResultAcknowledged}
}

// startTurn opens the action phase for p
func (tp *TurnProcessor) startTurn(p *PlayerState, reason string) {
	e := tp.engine
	e.transition(states.PhaseAwaitingAction, reason)
	e.enqueue(events.NewTurnStartedEvent(e.gameID, p.Color, e.gs.Turn, p.MovesRemaining, p.AI))
	e.publishState(reason)
}

// advance moves Current to the next active player that still has pieces
func (tp *TurnProcessor) advance() *PlayerState {
	gs := tp.engine.gs
	n := len(gs.Active)
	for i := 1; i <= n; i++ {
		idx := (gs.Current + i) % n
		p := gs.Player(gs.Active[idx])
		if p != nil && p.LivePieces > 0 {
			gs.Current = idx
			return p
		}
		tp.logger.Debug().Str("player", gs.Active[idx].String()).Msg("Skipping player without pieces")
	}
	return gs.CurrentPlayer()
}

// budgetFor tops up the stored budget, capped by how many pieces can move
func (tp *TurnProcessor) budgetFor(p *PlayerState) int {
	return common.Clamp(tp.engine.gs.MovesPerTurn+p.MovesRemaining, 0, p.LivePieces)
}
