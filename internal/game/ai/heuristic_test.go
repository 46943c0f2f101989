package ai

import (
	"testing"

	"github.com/mitchelldurbincs/FogOfWarChess/internal/game/core"
	"github.com/mitchelldurbincs/FogOfWarChess/internal/game/rules"
	"github.com/mitchelldurbincs/FogOfWarChess/internal/testutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/zyedidia/generic/mapset"
)

func allVisible(board *core.Board) mapset.Set[core.Key] {
	s := mapset.New[core.Key]()
	for i := range board.Cells {
		s.Put(core.Key(i))
	}
	return s
}

func noJitter() Weights {
	w := DefaultWeights()
	w.Jitter = 0
	return w
}

func c(r, col int) core.Coordinate { return core.NewCoordinate(r, col) }

func TestDefaultWeights(t *testing.T) {
	w := DefaultWeights()
	assert.Equal(t, 1.0, w.PieceValues[core.Pawn])
	assert.Equal(t, 3.0, w.PieceValues[core.Knight])
	assert.Equal(t, 3.0, w.PieceValues[core.Bishop])
	assert.Equal(t, 5.0, w.PieceValues[core.Rook])
	assert.Equal(t, 9.0, w.PieceValues[core.Queen])
	assert.Equal(t, 2.0, w.CaptureMultiplier)
	assert.Less(t, w.RewardBonus, w.PieceValues[core.Knight]*w.CaptureMultiplier)
	assert.Greater(t, w.Jitter, 0.0)

	h := NewHeuristic(Weights{CaptureMultiplier: 2}, testutil.NewTestRNG(1), testutil.TestLogger(t))
	assert.NotNil(t, h.Weights().PieceValues)
}

func TestEvaluate(t *testing.T) {
	board := testutil.ParseBoard(
		"wR . bQ . . $",
		". . . . . .",
		"bK . . . . .",
		". . . . . .",
		". . . . . .",
		"wK . . . . .",
	)
	h := NewHeuristic(noJitter(), testutil.NewTestRNG(1), testutil.TestLogger(t))

	tests := []struct {
		name     string
		from, to core.Coordinate
		score    float64
		king     bool
	}{
		// center is (3,3); (0,0) is 6 away
		{"queen capture", c(0, 0), c(0, 2), 18 + 0.2, false},
		{"king capture", c(0, 0), c(2, 0), 1000 + 0.2, true},
		{"quiet toward center", c(0, 0), c(1, 0), 0.1, false},
		{"reward site", c(5, 0), c(0, 5), 4, false},
		{"empty source", c(3, 3), c(3, 4), 0, false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			score, king := h.Evaluate(board, tt.from, tt.to)
			assert.InDelta(t, tt.score, score, 1e-9)
			assert.Equal(t, tt.king, king)
		})
	}
}

func TestChooseMove_PrefersCaptures(t *testing.T) {
	board := testutil.ParseBoard(
		"wR . bP . . .",
		". . . . . .",
		". . . . . .",
		". . . . . .",
		". . . wB . .",
		"wK . . . bR bK",
	)
	h := NewHeuristic(DefaultWeights(), testutil.NewTestRNG(7), testutil.TestLogger(t))

	best, ok := h.ChooseMove(board, core.White, mapset.New[core.Key](), allVisible(board))
	require.True(t, ok)
	assert.Equal(t, c(4, 3), best.From)
	assert.Equal(t, c(5, 4), best.To, "rook is worth more than a pawn")
	assert.False(t, best.KingCapture)
}

func TestChooseMove_KingCapture(t *testing.T) {
	board := testutil.ParseBoard(
		"wQ . . bK",
		". . . .",
		". . bQ .",
		"wK . . .",
	)
	h := NewHeuristic(DefaultWeights(), testutil.NewTestRNG(7), testutil.TestLogger(t))

	best, ok := h.ChooseMove(board, core.White, mapset.New[core.Key](), allVisible(board))
	require.True(t, ok)
	assert.True(t, best.KingCapture)
	assert.Equal(t, c(0, 3), best.To)
}

func TestChooseMove_SkipsMovedPieces(t *testing.T) {
	board := testutil.ParseBoard(
		"wR . bQ .",
		". . . .",
		". . . .",
		"wK . . bK",
	)
	h := NewHeuristic(noJitter(), testutil.NewTestRNG(7), testutil.TestLogger(t))

	moved := mapset.New[core.Key]()
	moved.Put(board.KeyOf(c(0, 0)))

	best, ok := h.ChooseMove(board, core.White, moved, allVisible(board))
	require.True(t, ok)
	assert.Equal(t, c(3, 0), best.From)

	moved.Put(board.KeyOf(c(3, 0)))
	_, ok = h.ChooseMove(board, core.White, moved, allVisible(board))
	assert.False(t, ok)
}

func TestChooseMove_RespectsVisibility(t *testing.T) {
	board := testutil.ParseBoard(
		"wR . . . . bQ",
		". . . . . .",
		". . . . . .",
		". . . . . .",
		". . . . . .",
		"wK . . . . bK",
	)
	vc := rules.NewVisionCalculator(rules.DefaultVisionRanges())
	visible := vc.VisibleCells(board, core.White)
	require.False(t, visible.Has(board.KeyOf(c(0, 5))))

	h := NewHeuristic(noJitter(), testutil.NewTestRNG(7), testutil.TestLogger(t))
	best, ok := h.ChooseMove(board, core.White, mapset.New[core.Key](), visible)
	require.True(t, ok)
	assert.NotEqual(t, c(0, 5), best.To, "the queen is hidden in fog")
	assert.True(t, visible.Has(board.KeyOf(best.To)))
}

func TestChooseMove_NoMoves(t *testing.T) {
	board := testutil.ParseBoard(
		"wK ~ .",
		"~ ~ .",
		". . bK",
	)
	h := NewHeuristic(DefaultWeights(), testutil.NewTestRNG(1), testutil.TestLogger(t))

	_, ok := h.ChooseMove(board, core.White, mapset.New[core.Key](), allVisible(board))
	assert.False(t, ok)

	_, ok = h.ChooseMove(board, core.Red, mapset.New[core.Key](), allVisible(board))
	assert.False(t, ok)
}

func TestChooseMove_JitterBreaksTies(t *testing.T) {
	board := testutil.ParseBoard(
		". . . . .",
		". . . . .",
		". . wK . .",
		". . . . .",
		". . . . bK",
	)

	seen := map[core.Coordinate]bool{}
	for seed := int64(0); seed < 40; seed++ {
		h := NewHeuristic(DefaultWeights(), testutil.NewTestRNG(seed), testutil.TestLogger(t))
		best, ok := h.ChooseMove(board, core.White, mapset.New[core.Key](), allVisible(board))
		require.True(t, ok)
		seen[best.To] = true
	}
	assert.Greater(t, len(seen), 1, "the four orthogonal steps tie before jitter")
}
