package gameserver

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"time"

	"github.com/google/uuid"
	"github.com/rs/zerolog"

	gameengine "github.com/mitchelldurbincs/FogOfWarChess/internal/game"
	"github.com/mitchelldurbincs/FogOfWarChess/internal/game/core"
	"github.com/mitchelldurbincs/FogOfWarChess/internal/game/events"
)

var errServerAtCapacity = errors.New("server at capacity")

// Cleanup defaults
const (
	defaultCleanupInterval      = 5 * time.Minute  // How often to run cleanup
	defaultFinishedGameTTL      = 10 * time.Minute // Keep finished games for 10 minutes
	defaultAbandonedGameTimeout = 30 * time.Minute // Consider game abandoned after 30 minutes of inactivity
)

type gameInstance struct {
	id      string
	players []core.Color
	engine  *gameengine.Engine
	mu      sync.Mutex // guards activity tracking

	idempotency *IdempotencyManager
	streams     *StreamManager

	// Activity tracking for cleanup
	createdAt    time.Time
	lastActivity time.Time
}

// touch records client activity
func (g *gameInstance) touch() {
	g.mu.Lock()
	g.lastActivity = time.Now()
	g.mu.Unlock()
}

// BusHook is called with each new game's bus before the engine starts, so
// every event of the game reaches it
type BusHook func(gameID string, bus *events.EventBus)

// ManagerConfig configures a GameManager. Zero durations select the defaults.
type ManagerConfig struct {
	MaxGames             int // 0 means unlimited
	CleanupInterval      time.Duration
	FinishedGameTTL      time.Duration
	AbandonedGameTimeout time.Duration
	Logger               zerolog.Logger
	// OnCreate, when set, is attached to every game's bus
	OnCreate BusHook
	// OnRemove, when set, is told about every game the manager drops
	OnRemove func(gameID string)
}

// GameManager manages all active game instances
type GameManager struct {
	mu       sync.RWMutex
	games    map[string]*gameInstance
	config   ManagerConfig
	logger   zerolog.Logger
	stopCh   chan struct{}
	stopOnce sync.Once
}

// NewGameManager creates a game manager and starts its cleanup goroutine
func NewGameManager(cfg ManagerConfig) *GameManager {
	gm := newGameManager(cfg)
	go gm.runCleanup()
	return gm
}

// newGameManager builds a manager without the cleanup goroutine
func newGameManager(cfg ManagerConfig) *GameManager {
	if cfg.CleanupInterval <= 0 {
		cfg.CleanupInterval = defaultCleanupInterval
	}
	if cfg.FinishedGameTTL <= 0 {
		cfg.FinishedGameTTL = defaultFinishedGameTTL
	}
	if cfg.AbandonedGameTimeout <= 0 {
		cfg.AbandonedGameTimeout = defaultAbandonedGameTimeout
	}
	return &GameManager{
		games:  make(map[string]*gameInstance),
		config: cfg,
		logger: cfg.Logger.With().Str("component", "GameManager").Logger(),
		stopCh: make(chan struct{}),
	}
}

// CreateGame builds and starts a new game from cfg. The game id is assigned here.
func (gm *GameManager) CreateGame(ctx context.Context, cfg gameengine.GameConfig) (*gameInstance, error) {
	// Check if we're at the max games limit
	gm.mu.RLock()
	currentGames := len(gm.games)
	gm.mu.RUnlock()

	if gm.config.MaxGames > 0 && currentGames >= gm.config.MaxGames {
		gm.logger.Warn().
			Int("current_games", currentGames).
			Int("max_games", gm.config.MaxGames).
			Msg("Rejecting game creation - server at capacity")
		return nil, fmt.Errorf("%w: %d/%d games active", errServerAtCapacity, currentGames, gm.config.MaxGames)
	}

	gameID := uuid.NewString()
	cfg.GameID = gameID
	cfg.Logger = gm.config.Logger

	// Subscribers go on the bus before the engine exists: an AI opening
	// runs inside NewEngine
	bus := events.NewEventBusWithLogger(gm.config.Logger)
	streams := NewStreamManager(gameID, gm.config.Logger)
	bus.Subscribe(streams)
	if gm.config.OnCreate != nil {
		gm.config.OnCreate(gameID, bus)
	}
	cfg.EventBus = bus

	engine, err := gameengine.NewEngine(ctx, cfg)
	if err != nil {
		streams.CloseAll()
		gm.notifyRemoved(gameID)
		return nil, err
	}

	stats := engine.Stats()
	players := make([]core.Color, 0, len(stats))
	for _, st := range stats {
		players = append(players, st.Color)
	}

	now := time.Now()
	game := &gameInstance{
		id:           gameID,
		players:      players,
		engine:       engine,
		idempotency:  NewIdempotencyManager(),
		streams:      streams,
		createdAt:    now,
		lastActivity: now,
	}

	gm.mu.Lock()
	// Re-check under the write lock, a concurrent create may have taken the last slot
	if gm.config.MaxGames > 0 && len(gm.games) >= gm.config.MaxGames {
		count := len(gm.games)
		gm.mu.Unlock()
		streams.CloseAll()
		gm.notifyRemoved(gameID)
		return nil, fmt.Errorf("%w: %d/%d games active", errServerAtCapacity, count, gm.config.MaxGames)
	}
	gm.games[gameID] = game
	currentCount := len(gm.games)
	gm.mu.Unlock()

	gm.logger.Info().
		Str("game_id", gameID).
		Int("current_games", currentCount).
		Int("max_games", gm.config.MaxGames).
		Int("players", len(game.players)).
		Msg("Successfully created new game")

	return game, nil
}

// GetGame retrieves a game by ID
func (gm *GameManager) GetGame(gameID string) (*gameInstance, bool) {
	gm.mu.RLock()
	defer gm.mu.RUnlock()
	game, exists := gm.games[gameID]
	return game, exists
}

// GetActiveGames returns the number of active games
func (gm *GameManager) GetActiveGames() int {
	gm.mu.RLock()
	defer gm.mu.RUnlock()
	return len(gm.games)
}

// ListGames returns every game in no particular order
func (gm *GameManager) ListGames() []*gameInstance {
	gm.mu.RLock()
	defer gm.mu.RUnlock()
	out := make([]*gameInstance, 0, len(gm.games))
	for _, g := range gm.games {
		out = append(out, g)
	}
	return out
}

// RemoveGame drops a game and closes its streams. It reports whether the game existed.
func (gm *GameManager) RemoveGame(gameID string) bool {
	gm.mu.Lock()
	game, exists := gm.games[gameID]
	delete(gm.games, gameID)
	gm.mu.Unlock()

	if !exists {
		return false
	}
	game.streams.CloseAll()
	gm.notifyRemoved(gameID)
	return true
}

// Stop ends the cleanup goroutine and closes every stream
func (gm *GameManager) Stop() {
	gm.stopOnce.Do(func() {
		close(gm.stopCh)
	})
	for _, g := range gm.ListGames() {
		g.streams.CloseAll()
	}
}

func (gm *GameManager) notifyRemoved(gameID string) {
	if gm.config.OnRemove != nil {
		gm.config.OnRemove(gameID)
	}
}

// runCleanup periodically removes finished and abandoned games
func (gm *GameManager) runCleanup() {
	defer func() {
		if r := recover(); r != nil {
			gm.logger.Error().
				Interface("panic", r).
				Msg("Game cleanup goroutine panicked - restarting")
			// Restart the cleanup goroutine after a panic
			time.Sleep(5 * time.Second)
			go gm.runCleanup()
		}
	}()

	ticker := time.NewTicker(gm.config.CleanupInterval)
	defer ticker.Stop()

	for {
		select {
		case <-ticker.C:
			gm.cleanupGames()
		case <-gm.stopCh:
			return
		}
	}
}

// cleanupGames removes finished and abandoned games from memory
func (gm *GameManager) cleanupGames() {
	// Phase 1: Collect game references without holding GameManager lock while accessing game locks
	gameRefs := gm.ListGames()

	// Phase 2: Check each game independently (no nested locks)
	now := time.Now()
	var toDelete []string

	for _, game := range gameRefs {
		finished := game.engine.IsGameOver()

		game.mu.Lock()
		createdAt := game.createdAt
		lastActivity := game.lastActivity
		game.mu.Unlock()

		shouldCleanup := false
		reason := ""
		if finished {
			if now.Sub(lastActivity) > gm.config.FinishedGameTTL {
				shouldCleanup = true
				reason = "finished game TTL expired"
			}
		} else if now.Sub(lastActivity) > gm.config.AbandonedGameTimeout {
			shouldCleanup = true
			reason = "game abandoned (no activity)"
		}

		if shouldCleanup {
			toDelete = append(toDelete, game.id)
			gm.logger.Info().
				Str("game_id", game.id).
				Str("reason", reason).
				Dur("age", now.Sub(createdAt)).
				Dur("inactive", now.Sub(lastActivity)).
				Msg("Cleaning up game")
		}
	}

	// Phase 3: Clean up games with fresh locks (no nesting)
	if len(toDelete) > 0 {
		cleaned := 0
		for _, gameID := range toDelete {
			if gm.RemoveGame(gameID) {
				cleaned++
			}
		}
		gm.logger.Info().
			Int("cleaned", cleaned).
			Int("remaining", gm.GetActiveGames()).
			Msg("Game cleanup completed")
	}
}
