package gameserver

import (
	"context"
	"errors"
	"math/rand"
	"testing"

	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/mitchelldurbincs/FogOfWarChess/internal/game/events"
)

func newTestManager(t *testing.T, maxGames int) *GameManager {
	t.Helper()
	gm := newGameManager(ManagerConfig{MaxGames: maxGames, Logger: zerolog.Nop()})
	t.Cleanup(gm.Stop)
	return gm
}

// TestMaxGamesLimit tests that the manager correctly enforces the max games limit
func TestMaxGamesLimit(t *testing.T) {
	maxGames := 3
	gm := newTestManager(t, maxGames)
	ctx := context.Background()

	// Create games up to the limit
	for i := 0; i < maxGames; i++ {
		cfg := testDefaults()
		cfg.Rng = rand.New(rand.NewSource(int64(i + 1)))
		game, err := gm.CreateGame(ctx, cfg)
		require.NoError(t, err, "Should be able to create game %d", i+1)
		require.NotNil(t, game)
		require.NotEmpty(t, game.id)
	}

	assert.Equal(t, maxGames, gm.GetActiveGames())

	// One more must fail
	cfg := testDefaults()
	cfg.Rng = rand.New(rand.NewSource(99))
	game, err := gm.CreateGame(ctx, cfg)
	require.Error(t, err, "Should not be able to create game beyond limit")
	assert.Nil(t, game)
	assert.True(t, errors.Is(err, errServerAtCapacity))

	assert.Equal(t, maxGames, gm.GetActiveGames())

	// Removing a game frees a slot
	require.True(t, gm.RemoveGame(gm.ListGames()[0].id))
	_, err = gm.CreateGame(ctx, cfg)
	assert.NoError(t, err)
}

// TestMaxGamesZeroMeansUnlimited tests that MaxGames=0 means unlimited
func TestMaxGamesZeroMeansUnlimited(t *testing.T) {
	gm := newTestManager(t, 0)

	numGames := 20
	for i := 0; i < numGames; i++ {
		cfg := testDefaults()
		cfg.Rng = rand.New(rand.NewSource(int64(i + 1)))
		_, err := gm.CreateGame(context.Background(), cfg)
		require.NoError(t, err, "Should be able to create game %d", i+1)
	}

	assert.Equal(t, numGames, gm.GetActiveGames())
}

func TestCreateGameFailureReleasesHooks(t *testing.T) {
	var created, removed []string
	gm := newGameManager(ManagerConfig{
		Logger:   zerolog.Nop(),
		OnCreate: func(id string, _ *events.EventBus) { created = append(created, id) },
		OnRemove: func(id string) { removed = append(removed, id) },
	})
	t.Cleanup(gm.Stop)

	cfg := testDefaults()
	cfg.MovesPerTurn = -1
	_, err := gm.CreateGame(context.Background(), cfg)
	require.Error(t, err)
	assert.Equal(t, created, removed, "a game that never started is reported as removed")
	assert.Zero(t, gm.GetActiveGames())
}
