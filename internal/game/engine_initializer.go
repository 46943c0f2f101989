package game

import (
	"context"
	"fmt"
	"math/rand"
	"time"

	"github.com/google/uuid"
	"github.com/mitchelldurbincs/FogOfWarChess/internal/common"
	"github.com/mitchelldurbincs/FogOfWarChess/internal/game/ai"
	"github.com/mitchelldurbincs/FogOfWarChess/internal/game/core"
	"github.com/mitchelldurbincs/FogOfWarChess/internal/game/events"
	"github.com/mitchelldurbincs/FogOfWarChess/internal/game/mapgen"
	"github.com/mitchelldurbincs/FogOfWarChess/internal/game/processor"
	"github.com/mitchelldurbincs/FogOfWarChess/internal/game/rules"
	"github.com/mitchelldurbincs/FogOfWarChess/internal/game/states"
	"github.com/rs/zerolog"
)

// EngineInitializer handles the complex initialization of a game engine
type EngineInitializer struct {
	config GameConfig
	logger zerolog.Logger
}

// NewEngineInitializer creates a new engine initializer
func NewEngineInitializer(cfg GameConfig) *EngineInitializer {
	logger := cfg.Logger.With().Str("component", "GameEngine").Logger()
	return &EngineInitializer{
		config: cfg,
		logger: logger,
	}
}

// Initialize creates and initializes a new game engine
func (ei *EngineInitializer) Initialize(ctx context.Context) (*Engine, error) {
	// Check context early
	select {
	case <-ctx.Done():
		ei.logger.Error().Err(ctx.Err()).Msg("Engine creation cancelled or timed out during initial phase")
		return nil, ctx.Err()
	default:
	}

	// Setup configuration defaults
	if err := ei.setupDefaults(); err != nil {
		return nil, err
	}
	ei.logger = ei.logger.With().Str("game_id", ei.config.GameID).Logger()

	gs, err := ei.buildGameState(ctx)
	if err != nil {
		return nil, err
	}

	// Create engine components
	engine := ei.createEngine(gs)

	engine.mu.Lock()
	ei.startGame(engine)

	ei.logger.Info().
		Int("size", ei.config.Size).
		Int("players", len(ei.config.Players)).
		Int("ai_players", len(ei.config.AIPlayers)).
		Msg("Engine created successfully")

	engine.driveLocked()
	engine.unlock()

	return engine, nil
}

// setupDefaults fills in missing configuration and rejects configurations that cannot produce a game
func (ei *EngineInitializer) setupDefaults() error {
	cfg := &ei.config

	if cfg.Rng == nil {
		ei.logger.Debug().Msg("No RNG provided, creating new seeded RNG")
		cfg.Rng = rand.New(rand.NewSource(time.Now().UnixNano()))
	}
	if cfg.GameID == "" {
		cfg.GameID = uuid.NewString()
	}
	if cfg.Board != nil {
		cfg.Size = cfg.Board.Size
	}
	if cfg.Size == 0 {
		cfg.Size = 16
	}
	if len(cfg.Players) == 0 {
		cfg.Players = []core.Color{core.White, core.Black}
	}
	if cfg.MovesPerTurn == 0 {
		cfg.MovesPerTurn = 3
	}
	if cfg.Vision.ByType == nil {
		cfg.Vision = rules.DefaultVisionRanges()
	}
	if cfg.AIWeights.PieceValues == nil {
		cfg.AIWeights = ai.DefaultWeights()
	}
	if cfg.Map.Size == 0 {
		cfg.Map = mapgen.DefaultMapConfig(cfg.Size, cfg.Players)
	}
	cfg.Map.Size = cfg.Size
	cfg.Map.Colors = cfg.Players

	if len(cfg.Players) > core.MaxPlayers {
		return fmt.Errorf("%w: %d players, at most %d supported", core.ErrInvalidPlayer, len(cfg.Players), core.MaxPlayers)
	}
	seen := make(map[core.Color]bool, len(cfg.Players))
	for _, c := range cfg.Players {
		if !c.IsValid() || seen[c] {
			return fmt.Errorf("%w: %s listed twice or unknown", core.ErrInvalidPlayer, c)
		}
		seen[c] = true
	}
	for _, c := range cfg.AIPlayers {
		if !seen[c] {
			return fmt.Errorf("%w: AI player %s is not in the game", core.ErrInvalidPlayer, c)
		}
	}
	if cfg.MovesPerTurn < 1 {
		return fmt.Errorf("moves per turn must be positive, got %d", cfg.MovesPerTurn)
	}
	return nil
}

// buildGameState produces a fresh board and per-player state
func (ei *EngineInitializer) buildGameState(ctx context.Context) (*GameState, error) {
	select {
	case <-ctx.Done():
		return nil, ctx.Err()
	default:
	}

	board, err := ei.generateMap()
	if err != nil {
		return nil, fmt.Errorf("map generation failed: %w", err)
	}

	gs := ei.initializeGameState(board)
	if err := ei.initializePlayers(gs); err != nil {
		return nil, err
	}
	return gs, nil
}

// generateMap generates the game map, or copies the preset board
func (ei *EngineInitializer) generateMap() (*core.Board, error) {
	if ei.config.Board != nil {
		if err := ei.config.Board.Validate(); err != nil {
			return nil, err
		}
		ei.logger.Debug().Msg("Using preset board")
		return ei.config.Board.Clone(), nil
	}
	generator := mapgen.NewGenerator(ei.config.Map, ei.config.Rng).WithLogger(ei.logger)
	board, placements, err := generator.GenerateMap()
	if err != nil {
		return nil, err
	}
	for _, pl := range placements {
		ei.logger.Debug().
			Str("player", pl.Color.String()).
			Str("king", pl.King.String()).
			Int("pieces", pl.Pieces).
			Msg("Army placed")
	}
	return board, nil
}

// initializeGameState creates the initial game state
func (ei *EngineInitializer) initializeGameState(board *core.Board) *GameState {
	return &GameState{
		Turn:         1,
		Board:        board,
		Players:      make([]*PlayerState, 0, len(ei.config.Players)),
		Active:       append([]core.Color(nil), ei.config.Players...),
		MovesPerTurn: ei.config.MovesPerTurn,
		Winner:       core.NoColor,
	}
}

// initializePlayers sets up every player and checks that each one has a king
func (ei *EngineInitializer) initializePlayers(gs *GameState) error {
	isAI := make(map[core.Color]bool, len(ei.config.AIPlayers))
	for _, c := range ei.config.AIPlayers {
		isAI[c] = true
	}

	for _, color := range ei.config.Players {
		if _, ok := gs.Board.FindKing(color); !ok {
			return fmt.Errorf("%w: %s has no king on the board", core.ErrInvalidBoard, color)
		}
		p := newPlayerState(color, isAI[color])
		p.LivePieces = gs.Board.CountPieces(color)
		// Everyone starts with one turn's worth stored; it carries into their first turn
		p.MovesRemaining = common.Min(ei.config.MovesPerTurn, p.LivePieces)
		gs.Players = append(gs.Players, p)
	}
	return nil
}

// createEngine creates the engine with all its components
func (ei *EngineInitializer) createEngine(gs *GameState) *Engine {
	eventBus := ei.config.EventBus
	if eventBus == nil {
		eventBus = events.NewEventBusWithLogger(ei.logger)
	}

	engine := &Engine{
		gs:              gs,
		config:          ei.config,
		rng:             ei.config.Rng,
		logger:          ei.logger,
		gameID:          ei.config.GameID,
		actionProcessor: processor.NewActionProcessor(ei.logger),
		legalMoves:      rules.NewLegalMoveCalculator(),
		vision:          rules.NewVisionCalculator(ei.config.Vision),
		winCondition:    rules.NewWinConditionChecker(ei.logger, len(ei.config.Players)),
		heuristic:       ai.NewHeuristic(ei.config.AIWeights, ei.config.Rng, ei.logger),
		eventBus:        eventBus,
		pending:         events.NewBuffer(eventBus),
	}

	// The machine publishes on a private bus so its transitions are
	// delivered in order with the engine's own events
	machineBus := events.NewEventBusWithLogger(zerolog.Nop())
	machineBus.SubscribeFunc(events.TypeStateTransition, engine.enqueue)
	gameContext := states.NewGameContext(ei.config.GameID, core.MaxPlayers, ei.logger)
	engine.stateMachine = states.NewStateMachine(gameContext, machineBus)

	// Create managers after engine is created
	engine.messages = NewMessageManager(engine.pending, ei.config.GameID, ei.logger)
	engine.turnProcessor = NewTurnProcessor(engine)

	return engine
}

// startGame computes initial visibility, opens the first turn and queues the
// start events. The engine lock must be held.
func (ei *EngineInitializer) startGame(engine *Engine) {
	engine.startTime = time.Now()
	engine.updatePlayerStats()
	engine.refreshAllVisibility()

	first := engine.gs.CurrentPlayer()
	engine.enqueue(events.NewGameStartedEvent(
		engine.gameID,
		append([]core.Color(nil), ei.config.Players...),
		append([]core.Color(nil), ei.config.AIPlayers...),
		engine.gs.Board.Size,
	))
	engine.turnProcessor.startTurn(first, "game started")

	// A one-sided preset board can be decided before anyone moves
	engine.checkGameOverLocked()
}
