package gameserver

import (
	"context"
	"math/rand"
	"testing"
	"time"

	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/mitchelldurbincs/FogOfWarChess/internal/game/core"
)

func ageGame(game *gameInstance, d time.Duration) {
	game.mu.Lock()
	game.lastActivity = time.Now().Add(-d)
	game.mu.Unlock()
}

func TestGameCleanup(t *testing.T) {
	var removed []string
	gm := newGameManager(ManagerConfig{
		Logger:   zerolog.Nop(),
		OnRemove: func(id string) { removed = append(removed, id) },
	})
	t.Cleanup(gm.Stop)

	cfg := testDefaults()
	cfg.Rng = rand.New(rand.NewSource(1))
	game, err := gm.CreateGame(context.Background(), cfg)
	require.NoError(t, err)

	// Active game should not be cleaned up
	gm.cleanupGames()
	_, exists := gm.GetGame(game.id)
	assert.True(t, exists, "Active game should not be cleaned up")

	// Still within the abandoned timeout
	ageGame(game, defaultAbandonedGameTimeout-time.Minute)
	gm.cleanupGames()
	_, exists = gm.GetGame(game.id)
	assert.True(t, exists)

	// Past the abandoned timeout
	ageGame(game, defaultAbandonedGameTimeout+time.Minute)
	gm.cleanupGames()
	_, exists = gm.GetGame(game.id)
	assert.False(t, exists, "Abandoned game should be cleaned up")
	assert.Equal(t, []string{game.id}, removed)
}

func TestFinishedGameCleanup(t *testing.T) {
	gm := newGameManager(ManagerConfig{Logger: zerolog.Nop()})
	t.Cleanup(gm.Stop)

	cfg := testDefaults()
	cfg.Rng = rand.New(rand.NewSource(2))
	cfg.MaxTurns = 1
	game, err := gm.CreateGame(context.Background(), cfg)
	require.NoError(t, err)

	require.True(t, game.engine.EndTurnAs(core.White).Applied)
	require.True(t, game.engine.IsGameOver())

	// Finished games survive until their TTL
	ageGame(game, defaultFinishedGameTTL-time.Minute)
	gm.cleanupGames()
	_, exists := gm.GetGame(game.id)
	assert.True(t, exists, "Finished game should be kept until its TTL expires")

	ageGame(game, defaultFinishedGameTTL+time.Minute)
	gm.cleanupGames()
	_, exists = gm.GetGame(game.id)
	assert.False(t, exists, "Finished game should be cleaned up after its TTL")
}

func TestRemoveGameClosesStreams(t *testing.T) {
	gm := newGameManager(ManagerConfig{Logger: zerolog.Nop()})
	t.Cleanup(gm.Stop)

	cfg := testDefaults()
	cfg.Rng = rand.New(rand.NewSource(3))
	game, err := gm.CreateGame(context.Background(), cfg)
	require.NoError(t, err)

	client := game.streams.RegisterClient(core.White)
	require.NotNil(t, client)

	require.True(t, gm.RemoveGame(game.id))
	assert.False(t, gm.RemoveGame(game.id), "second removal is a no-op")

	_, open := <-client.updateChan
	assert.False(t, open, "stream channel should be closed")
	assert.Nil(t, game.streams.RegisterClient(core.Black))
}
