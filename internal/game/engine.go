package game

import (
	"context"
	"math/rand"
	"sync"
	"sync/atomic"
	"time"

	"github.com/mitchelldurbincs/FogOfWarChess/internal/game/ai"
	"github.com/mitchelldurbincs/FogOfWarChess/internal/game/core"
	"github.com/mitchelldurbincs/FogOfWarChess/internal/game/events"
	"github.com/mitchelldurbincs/FogOfWarChess/internal/game/mapgen"
	"github.com/mitchelldurbincs/FogOfWarChess/internal/game/processor"
	"github.com/mitchelldurbincs/FogOfWarChess/internal/game/rules"
	"github.com/mitchelldurbincs/FogOfWarChess/internal/game/states"
	"github.com/rs/zerolog"
)

// GameConfig describes a single game. Zero values are replaced with defaults
// by the EngineInitializer.
type GameConfig struct {
	GameID       string
	Size         int
	Players      []core.Color // turn order
	AIPlayers    []core.Color
	MovesPerTurn int
	// MaxTurns ends the game without a winner once exceeded. 0 disables the cap.
	MaxTurns int

	Map       mapgen.MapConfig
	Vision    rules.VisionRanges
	AIWeights ai.Weights
	// AIMoveDelay paces AI moves for observers. The engine lock is released while waiting.
	AIMoveDelay time.Duration

	// AutoEndTurn hands over the turn as soon as the budget hits zero
	AutoEndTurn bool
	// AutoAcknowledge resolves every turn transition immediately
	AutoAcknowledge bool
	// ShowAllCells makes the text board views ignore fog. Rules are unaffected.
	ShowAllCells bool

	// Board, when set, is used instead of generating a map
	Board *core.Board

	Rng      *rand.Rand
	Logger   zerolog.Logger
	EventBus *events.EventBus
}

// Engine owns one game. Every exported method is safe for concurrent use.
// Events are published after the engine lock is released, so subscribers may
// query the engine from their handlers.
type Engine struct {
	mu        sync.Mutex
	gs        *GameState
	config    GameConfig
	rng       *rand.Rand
	gameOver  bool
	logger    zerolog.Logger
	gameID    string
	startTime time.Time
	// generation changes on Reset so an AI turn paused mid-delay can bail out
	generation int

	actionProcessor *processor.ActionProcessor
	legalMoves      *rules.LegalMoveCalculator
	vision          *rules.VisionCalculator
	winCondition    *rules.WinConditionChecker
	heuristic       *ai.Heuristic
	eventBus        *events.EventBus
	stateMachine    *states.StateMachine
	turnProcessor   *TurnProcessor
	messages        *MessageManager

	pending    *events.Buffer
	turnEnding atomic.Bool
}

// NewEngine creates a game, generates its map and starts the first turn.
// If the first player is AI-controlled its turn runs before NewEngine returns,
// so subscribers that need every event should be attached to cfg.EventBus.
func NewEngine(ctx context.Context, cfg GameConfig) (*Engine, error) {
	return NewEngineInitializer(cfg).Initialize(ctx)
}

// enqueue buffers an event until the lock is released
func (e *Engine) enqueue(ev events.Event) {
	e.pending.Publish(ev)
}

// unlock releases the engine lock and then publishes buffered events
func (e *Engine) unlock() {
	evs := e.pending.Take()
	e.mu.Unlock()
	e.pending.Deliver(evs)
}

func (e *Engine) publishState(reason string) {
	cur := e.gs.CurrentPlayer()
	moves := 0
	if cur != nil {
		moves = cur.MovesRemaining
	}
	e.enqueue(events.NewStateChangedEvent(
		e.gameID,
		e.gs.CurrentColor(),
		moves,
		e.stateMachine.CurrentPhase().String(),
		reason,
		e.gs.Turn,
	))
}

// transition moves the state machine, logging instead of failing: every
// call site only requests edges that are legal from its phase.
func (e *Engine) transition(phase states.GamePhase, reason string) {
	ctx := e.stateMachine.GetContext()
	ctx.CurrentPlayer = e.gs.CurrentColor()
	ctx.PlayerCount = len(e.gs.Active)
	ctx.Turn = e.gs.Turn
	if err := e.stateMachine.TransitionTo(phase, reason); err != nil {
		e.logger.Error().Err(err).
			Str("to_phase", phase.String()).
			Str("reason", reason).
			Msg("State transition failed")
	}
}

// SelectCell applies click semantics for the current (human) player: select
// an unmoved own piece, move the selection to a legal target, or clear it.
func (e *Engine) SelectCell(c core.Coordinate) Result {
	return e.SelectCellAs(core.NoColor, c)
}

// SelectCellAs is SelectCell on behalf of color. NoColor means whoever is to act.
func (e *Engine) SelectCellAs(color core.Color, c core.Coordinate) Result {
	e.mu.Lock()
	defer e.unlock()

	player, reject := e.humanTurnLocked(color)
	if reject != nil {
		return rejected(reject)
	}
	if !e.gs.Board.InBounds(c) {
		return rejected(core.ErrInvalidCoordinates)
	}
	key := e.gs.Board.KeyOf(c)
	if !player.Visible.Has(key) {
		return rejected(core.ErrCellFogged)
	}
	if player.MovesRemaining <= 0 {
		e.messages.Warning(player.Color, e.gs.Turn, "No moves remaining, end your turn")
		return rejected(core.ErrNoMovesRemaining)
	}

	cell := e.gs.Board.At(c)
	ownPiece := cell.IsFriendOf(player.Color)
	if ownPiece && player.HasMoved(key) {
		e.messages.Warning(player.Color, e.gs.Turn, "This piece has already moved this turn")
		return rejected(core.ErrAlreadyMoved)
	}

	if sel := e.gs.Selected; sel != nil {
		for _, t := range e.gs.Targets {
			if t == c {
				res := e.applyMoveLocked(player.Color, *sel, c, false)
				if res.Applied {
					e.driveLocked()
				}
				return res
			}
		}
		e.gs.clearSelection()
		if !ownPiece {
			e.publishState("selection cleared")
			return Result{Applied: true, Kind: ResultDeselected}
		}
	}

	if !ownPiece {
		return rejected(core.ErrNoSelection)
	}

	at := c
	e.gs.Selected = &at
	e.gs.Targets = e.legalMoves.LegalMoves(e.gs.Board, c)
	e.publishState("piece selected")
	return Result{Applied: true, Kind: ResultSelected, From: c}
}

// ApplyMove moves a piece for the current player
func (e *Engine) ApplyMove(from, to core.Coordinate) Result {
	return e.ApplyMoveAs(core.NoColor, from, to)
}

// ApplyMoveAs moves a piece on behalf of color. NoColor means whoever is to act.
func (e *Engine) ApplyMoveAs(color core.Color, from, to core.Coordinate) Result {
	e.mu.Lock()
	defer e.unlock()

	player, reject := e.humanTurnLocked(color)
	if reject != nil {
		return rejected(reject)
	}
	res := e.applyMoveLocked(player.Color, from, to, false)
	if res.Applied {
		e.driveLocked()
	}
	return res
}

// EndTurn ends the current player's turn. A request that arrives while a
// rotation is in progress is ignored.
func (e *Engine) EndTurn() Result {
	return e.EndTurnAs(core.NoColor)
}

// EndTurnAs ends color's turn. NoColor means whoever is to act.
func (e *Engine) EndTurnAs(color core.Color) Result {
	if !e.turnEnding.CompareAndSwap(false, true) {
		e.logger.Debug().Msg("Ignoring end turn request, rotation already in progress")
		return rejected(core.ErrTurnEnding)
	}
	defer e.turnEnding.Store(false)

	e.mu.Lock()
	defer e.unlock()

	if _, reject := e.humanTurnLocked(color); reject != nil {
		return rejected(reject)
	}
	res := e.turnProcessor.EndTurn("turn ended by player")
	if res.Applied {
		e.driveLocked()
	}
	return res
}

// Acknowledge resolves a pending turn transition so the next player can act
func (e *Engine) Acknowledge() Result {
	e.mu.Lock()
	defer e.unlock()

	res := e.turnProcessor.Acknowledge()
	if res.Applied {
		e.driveLocked()
	}
	return res
}

// humanTurnLocked checks that color may act now. NoColor stands for the current player.
func (e *Engine) humanTurnLocked(color core.Color) (*PlayerState, error) {
	if e.gameOver {
		return nil, core.ErrGameOver
	}
	switch e.stateMachine.CurrentPhase() {
	case states.PhaseAwaitingAction:
	case states.PhaseTurnEnding:
		return nil, core.ErrTurnEnding
	default:
		return nil, core.ErrNotYourTurn
	}

	cur := e.gs.CurrentPlayer()
	if cur == nil {
		return nil, core.ErrInvalidPlayer
	}
	if color != core.NoColor && color != cur.Color {
		return nil, core.ErrNotYourTurn
	}
	if cur.AI {
		return nil, core.ErrNotYourTurn
	}
	return cur, nil
}

// applyMoveLocked validates and applies one move. Visibility of the target is
// only enforced for AI moves; humans act on the board they already see.
func (e *Engine) applyMoveLocked(color core.Color, from, to core.Coordinate, requireVisible bool) Result {
	player := e.gs.Player(color)
	if player == nil || !player.Active {
		return rejected(core.ErrInvalidPlayer)
	}
	if player.MovesRemaining <= 0 {
		return rejected(core.ErrNoMovesRemaining)
	}
	if e.gs.Board.InBounds(from) && player.HasMoved(e.gs.Board.KeyOf(from)) {
		e.messages.Warning(color, e.gs.Turn, "This piece has already moved this turn")
		return rejected(core.ErrAlreadyMoved)
	}
	if requireVisible && e.gs.Board.InBounds(to) && !player.Visible.Has(e.gs.Board.KeyOf(to)) {
		return rejected(core.ErrCellFogged)
	}

	move := &core.MoveAction{Color: color, From: from, To: to}
	outcome, err := e.actionProcessor.ApplyMove(context.Background(), e.gs.Board, move, e.rng, e.gs.Turn)
	if err != nil {
		e.logger.Debug().Err(err).Msg("Move rejected")
		return rejected(err)
	}

	e.transition(states.PhaseActionApplied, "move applied")

	// A king capture leaves the budget and the moved set untouched
	kingTaken := outcome.Eliminated != core.NoColor
	if !kingTaken {
		player.Moved.Put(e.gs.Board.KeyOf(to))
		player.MovesRemaining--
	}
	e.gs.clearSelection()

	var captured *core.Piece
	if outcome.Captured != nil {
		player.Captures = append(player.Captures, *outcome.Captured)
		captured = &outcome.Captured.Captured
	}
	e.enqueue(events.NewMoveAppliedEvent(e.gameID, color, outcome.Piece.Type, from, to, captured, player.MovesRemaining, e.gs.Turn))

	if r := outcome.Reward; r != nil {
		e.enqueue(events.NewRewardResolvedEvent(e.gameID, color, r.Site, r.Piece, r.Spawned, e.gs.Turn))
		if r.Lost() {
			e.messages.Warning(color, e.gs.Turn, "Found a %s but there was no room to place it, the piece was lost", r.Piece)
		} else {
			e.messages.Reward(color, e.gs.Turn, "Discovered a new %s at %s", r.Piece, *r.Spawned)
		}
	}

	if kingTaken {
		e.eliminateLocked(outcome.Eliminated, color, outcome.Removed)
	}

	e.updatePlayerStats()
	e.refreshAllVisibility()

	if e.checkGameOverLocked() {
		return Result{Applied: true, Kind: ResultMoved, From: from, To: to}
	}

	e.publishState("move applied")

	if !kingTaken && player.MovesRemaining <= 0 {
		if e.config.AutoEndTurn {
			e.turnProcessor.EndTurn("move budget spent")
			return Result{Applied: true, Kind: ResultMoved, From: from, To: to}
		}
		for _, at := range e.gs.Board.PiecesOf(color) {
			player.Moved.Put(e.gs.Board.KeyOf(at))
		}
	}
	e.transition(states.PhaseAwaitingAction, "awaiting next move")
	return Result{Applied: true, Kind: ResultMoved, From: from, To: to}
}

// eliminateLocked drops a color whose king was taken
func (e *Engine) eliminateLocked(loser, by core.Color, removed int) {
	p := e.gs.Player(loser)
	if p == nil {
		return
	}
	p.Active = false
	p.MovesRemaining = 0
	p.clearMoved()
	e.gs.removeActive(loser)

	e.logger.Info().
		Str("eliminated", loser.String()).
		Str("by", by.String()).
		Int("remaining_players", len(e.gs.Active)).
		Msg("Player eliminated")

	e.enqueue(events.NewPlayerEliminatedEvent(e.gameID, loser, by, removed, append([]core.Color(nil), e.gs.Active...), e.gs.Turn))
	e.messages.Info(loser, e.gs.Turn, "%s has been defeated", loser)

}

// checkGameOverLocked ends the game once at most one player holds a king
func (e *Engine) checkGameOverLocked() bool {
	if e.gameOver {
		return true
	}
	players := make([]rules.Player, len(e.gs.Players))
	for i, p := range e.gs.Players {
		players[i] = p
	}
	over, winner := e.winCondition.CheckGameOver(players)
	if over {
		e.finishLocked(winner, nil)
	}
	return over
}

// finishLocked moves the game to GameOver. A game without a winner records cause.
func (e *Engine) finishLocked(winner core.Color, cause error) {
	e.gameOver = true
	e.gs.Winner = winner
	e.gs.clearSelection()

	ctx := e.stateMachine.GetContext()
	ctx.Winner = winner
	if winner == core.NoColor {
		if cause == nil {
			cause = core.ErrGameOver
		}
		ctx.Error = cause
	}
	e.transition(states.PhaseGameOver, "game finished")

	duration := time.Since(e.startTime)
	e.logger.Info().
		Str("winner", winner.String()).
		Int("turn", e.gs.Turn).
		Dur("duration", duration).
		Msg("Game over")

	e.enqueue(events.NewGameOverEvent(e.gameID, winner, duration, e.gs.Turn))
	if winner != core.NoColor {
		e.messages.Info(winner, e.gs.Turn, "%s wins the game", winner)
	} else {
		e.messages.Info(core.NoColor, e.gs.Turn, "Game ended without a winner: %v", cause)
	}
	e.publishState("game over")
}

// driveLocked runs AI turns and automatic acknowledgements until a human
// has to act or the game ends
func (e *Engine) driveLocked() {
	for !e.gameOver {
		switch e.stateMachine.CurrentPhase() {
		case states.PhaseTurnEnding:
			if !e.config.AutoAcknowledge {
				return
			}
			e.turnProcessor.Acknowledge()
		case states.PhaseAwaitingAction:
			cur := e.gs.CurrentPlayer()
			if cur == nil || !cur.AI {
				return
			}
			if !e.runAITurnLocked(cur.Color) {
				return
			}
		default:
			return
		}
	}
}

// runAITurnLocked plays the AI's moves and ends its turn. It returns false
// if the game was reset while the lock was released for pacing.
func (e *Engine) runAITurnLocked(color core.Color) bool {
	gen := e.generation
	for !e.gameOver && e.gs.CurrentColor() == color &&
		e.stateMachine.CurrentPhase() == states.PhaseAwaitingAction {

		player := e.gs.Player(color)
		if player.MovesRemaining <= 0 {
			break
		}
		cand, ok := e.heuristic.ChooseMove(e.gs.Board, color, player.Moved, player.Visible)
		if !ok {
			e.logger.Debug().Str("player", color.String()).Msg("AI has no legal move")
			break
		}
		res := e.applyMoveLocked(color, cand.From, cand.To, true)
		if !res.Applied {
			e.logger.Warn().Err(res.Reason).Str("player", color.String()).Msg("AI move rejected")
			break
		}
		if cand.KingCapture {
			break
		}
		if e.config.AIMoveDelay > 0 {
			e.pause(e.config.AIMoveDelay)
			if e.generation != gen {
				return false
			}
		}
	}

	if !e.gameOver && e.gs.CurrentColor() == color &&
		e.stateMachine.CurrentPhase() == states.PhaseAwaitingAction {
		e.turnProcessor.EndTurn("AI turn complete")
	}
	return true
}

// pause releases the lock, flushes events and sleeps
func (e *Engine) pause(d time.Duration) {
	e.unlock()
	time.Sleep(d)
	e.mu.Lock()
}

// Reset discards the current game and starts a new one with the same settings
func (e *Engine) Reset(ctx context.Context) error {
	e.mu.Lock()
	defer e.unlock()

	if err := e.turnProcessor.checkContext(ctx, "reset"); err != nil {
		return err
	}

	ei := NewEngineInitializer(e.config)
	gs, err := ei.buildGameState(ctx)
	if err != nil {
		return err
	}

	e.generation++
	e.gs = gs
	e.gameOver = false
	if err := e.stateMachine.Reset(); err != nil {
		return err
	}
	e.logger.Info().Int("generation", e.generation).Msg("Game reset")

	ei.startGame(e)
	e.driveLocked()
	return nil
}

// Public accessors

func (e *Engine) GameID() string { return e.gameID }

// EventBus returns the bus the engine publishes on
func (e *Engine) EventBus() *events.EventBus { return e.eventBus }

func (e *Engine) Phase() states.GamePhase { return e.stateMachine.CurrentPhase() }

func (e *Engine) IsGameOver() bool {
	e.mu.Lock()
	defer e.mu.Unlock()
	return e.gameOver
}

// Winner returns the winning color, or NoColor while the game runs or after a draw
func (e *Engine) Winner() core.Color {
	e.mu.Lock()
	defer e.mu.Unlock()
	return e.gs.Winner
}

func (e *Engine) CurrentPlayer() core.Color {
	e.mu.Lock()
	defer e.mu.Unlock()
	return e.gs.CurrentColor()
}

func (e *Engine) Turn() int {
	e.mu.Lock()
	defer e.mu.Unlock()
	return e.gs.Turn
}

// MovesRemaining returns the stored budget for color
func (e *Engine) MovesRemaining(color core.Color) int {
	e.mu.Lock()
	defer e.mu.Unlock()
	if p := e.gs.Player(color); p != nil {
		return p.MovesRemaining
	}
	return 0
}

// ActivePlayers returns the colors still in the game, in turn order
func (e *Engine) ActivePlayers() []core.Color {
	e.mu.Lock()
	defer e.mu.Unlock()
	return append([]core.Color(nil), e.gs.Active...)
}

// Selection returns the selected piece and its legal targets, if any
func (e *Engine) Selection() (*core.Coordinate, []core.Coordinate) {
	e.mu.Lock()
	defer e.mu.Unlock()
	if e.gs.Selected == nil {
		return nil, nil
	}
	sel := *e.gs.Selected
	return &sel, append([]core.Coordinate(nil), e.gs.Targets...)
}

// LegalMoves returns the legal destinations of the piece at from
func (e *Engine) LegalMoves(from core.Coordinate) []core.Coordinate {
	e.mu.Lock()
	defer e.mu.Unlock()
	return e.legalMoves.LegalMoves(e.gs.Board, from)
}

// Snapshot returns a deep copy of the game state
func (e *Engine) Snapshot() *GameState {
	e.mu.Lock()
	defer e.mu.Unlock()
	return e.gs.Clone()
}
