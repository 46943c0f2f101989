package testutil

import (
	"testing"

	"github.com/mitchelldurbincs/FogOfWarChess/internal/game/core"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParseBoard(t *testing.T) {
	board := CreateSimpleTestSetup()
	require.NoError(t, board.Validate())
	assert.Equal(t, 6, board.Size)
	assert.Equal(t, 5, board.CountPieces(core.White))
	assert.Equal(t, 5, board.CountPieces(core.Black))
	assert.Equal(t, 1, board.CountTerrain(core.RewardSite))
	assert.Equal(t, 1, board.CountTerrain(core.Water))

	king, ok := board.FindKing(core.Black)
	require.True(t, ok)
	assert.Equal(t, core.NewCoordinate(5, 4), king)
}

func TestParseBoard_BadInput(t *testing.T) {
	assert.Panics(t, func() { ParseBoard(". .", ".") }, "ragged rows")
	assert.Panics(t, func() { ParseBoard("xK .", ". .") }, "unknown color")
}

func TestCreateTestBoardWithPieces(t *testing.T) {
	board := CreateTestBoardWithPieces(4, map[core.Coordinate]core.Piece{
		core.NewCoordinate(1, 1): {Type: core.Queen, Color: core.Red},
	})
	assert.Equal(t, 1, board.CountPieces(core.Red))
	assert.Panics(t, func() {
		CreateTestBoardWithPieces(2, map[core.Coordinate]core.Piece{core.NewCoordinate(5, 5): {}})
	})
}
