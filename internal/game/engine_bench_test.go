package game

import (
	"context"
	"fmt"
	"math/rand"
	"testing"

	"github.com/mitchelldurbincs/FogOfWarChess/internal/game/core"
	"github.com/mitchelldurbincs/FogOfWarChess/internal/game/states"
	"github.com/rs/zerolog"
)

var benchColors = []core.Color{core.White, core.Black, core.Red, core.Blue}

func createBenchEngine(b *testing.B, boardSize, numPlayers int) *Engine {
	b.Helper()
	e, err := NewEngine(context.Background(), GameConfig{
		Size:        boardSize,
		Players:     benchColors[:numPlayers],
		AutoEndTurn: true,
		Rng:         rand.New(rand.NewSource(12345)),
		Logger:      zerolog.Nop(),
	})
	if err != nil {
		b.Fatalf("Failed to create engine: %v", err)
	}
	return e
}

var benchSizes = []struct {
	boardSize  int
	numPlayers int
}{
	{10, 2},
	{16, 2},
	{16, 4},
	{32, 4},
}

func BenchmarkUpdatePlayerStats(b *testing.B) {
	for _, tc := range benchSizes {
		b.Run(fmt.Sprintf("%dx%d_%dp", tc.boardSize, tc.boardSize, tc.numPlayers), func(b *testing.B) {
			engine := createBenchEngine(b, tc.boardSize, tc.numPlayers)
			b.ResetTimer()

			for i := 0; i < b.N; i++ {
				engine.updatePlayerStats()
			}

			b.ReportMetric(float64(tc.boardSize*tc.boardSize), "board_cells")
		})
	}
}

func BenchmarkFogOfWar_FullUpdate(b *testing.B) {
	for _, tc := range benchSizes {
		b.Run(fmt.Sprintf("%dx%d_%dp", tc.boardSize, tc.boardSize, tc.numPlayers), func(b *testing.B) {
			engine := createBenchEngine(b, tc.boardSize, tc.numPlayers)
			b.ResetTimer()

			for i := 0; i < b.N; i++ {
				engine.refreshAllVisibility()
			}
		})
	}
}

func BenchmarkBoardStringBuilding(b *testing.B) {
	engine := createBenchEngine(b, 16, 2)
	b.ReportAllocs()
	b.ResetTimer()

	for i := 0; i < b.N; i++ {
		_ = engine.Board(core.White)
	}
}

func BenchmarkAITurn(b *testing.B) {
	engine := createBenchEngine(b, 16, 2)
	visible := engine.gs.Player(core.White).Visible
	moved := engine.gs.Player(core.White).Moved
	b.ReportAllocs()
	b.ResetTimer()

	for i := 0; i < b.N; i++ {
		engine.heuristic.ChooseMove(engine.gs.Board, core.White, moved, visible)
	}
}

func BenchmarkRandomGame(b *testing.B) {
	b.ReportAllocs()
	for i := 0; i < b.N; i++ {
		engine := createBenchEngine(b, 16, 2)
		rng := rand.New(rand.NewSource(int64(i)))
		for turn := 0; turn < 50 && !engine.IsGameOver(); turn++ {
			for {
				mv, ok := RandomMove(engine, rng)
				if !ok || !engine.ApplyMove(mv.From, mv.To).Applied || engine.Phase() != states.PhaseAwaitingAction {
					break
				}
			}
			engine.EndTurn()
			engine.Acknowledge()
		}
	}
}
