package core

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestBoard_StepTarget(t *testing.T) {
	board := NewBoard(6)
	require.NoError(t, board.PlacePiece(NewCoordinate(1, 1), Piece{Type: Pawn, Color: White}))
	require.NoError(t, board.PlacePiece(NewCoordinate(1, 2), Piece{Type: Pawn, Color: Black}))
	require.NoError(t, board.SetCell(NewCoordinate(2, 1), TerrainCell(RewardSite, 0)))
	require.NoError(t, board.SetCell(NewCoordinate(2, 2), TerrainCell(Water, 0)))
	require.NoError(t, board.SetCell(NewCoordinate(2, 3), TerrainCell(Forest, 1)))
	require.NoError(t, board.SetCell(NewCoordinate(2, 4), TerrainCell(Mountain, 2)))

	tests := []struct {
		name    string
		at      Coordinate
		canMove bool
		stop    bool
	}{
		{"empty continues", NewCoordinate(0, 0), true, false},
		{"friendly blocks", NewCoordinate(1, 1), false, true},
		{"enemy is captured and stops", NewCoordinate(1, 2), true, true},
		{"reward enterable and stops", NewCoordinate(2, 1), true, true},
		{"water blocks", NewCoordinate(2, 2), false, true},
		{"forest blocks", NewCoordinate(2, 3), false, true},
		{"mountain blocks", NewCoordinate(2, 4), false, true},
		{"off board blocks", NewCoordinate(6, 0), false, true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			canMove, stop := board.StepTarget(tt.at, White)
			assert.Equal(t, tt.canMove, canMove)
			assert.Equal(t, tt.stop, stop)
		})
	}
}

func TestBoard_Relocate(t *testing.T) {
	t.Run("onto empty", func(t *testing.T) {
		board := NewBoard(4)
		require.NoError(t, board.PlacePiece(NewCoordinate(0, 0), Piece{Type: Rook, Color: White}))

		replaced, err := board.Relocate(NewCoordinate(0, 0), NewCoordinate(0, 3))
		require.NoError(t, err)
		assert.True(t, replaced.IsEmpty())
		assert.True(t, board.At(NewCoordinate(0, 0)).IsEmpty())
		assert.Equal(t, Piece{Type: Rook, Color: White}, board.At(NewCoordinate(0, 3)).Piece)
	})

	t.Run("capture returns victim", func(t *testing.T) {
		board := NewBoard(4)
		require.NoError(t, board.PlacePiece(NewCoordinate(0, 0), Piece{Type: Rook, Color: White}))
		require.NoError(t, board.PlacePiece(NewCoordinate(0, 2), Piece{Type: Knight, Color: Black}))

		replaced, err := board.Relocate(NewCoordinate(0, 0), NewCoordinate(0, 2))
		require.NoError(t, err)
		assert.Equal(t, Piece{Type: Knight, Color: Black}, replaced.Piece)
		assert.Equal(t, 0, board.CountPieces(Black))
	})

	t.Run("consumes reward site", func(t *testing.T) {
		board := NewBoard(4)
		require.NoError(t, board.PlacePiece(NewCoordinate(0, 0), Piece{Type: Pawn, Color: White}))
		require.NoError(t, board.SetCell(NewCoordinate(1, 1), TerrainCell(RewardSite, 0)))

		replaced, err := board.Relocate(NewCoordinate(0, 0), NewCoordinate(1, 1))
		require.NoError(t, err)
		assert.True(t, replaced.IsReward())
		assert.Equal(t, 0, board.CountTerrain(RewardSite))
	})

	t.Run("errors", func(t *testing.T) {
		board := NewBoard(4)
		_, err := board.Relocate(NewCoordinate(0, 0), NewCoordinate(0, 1))
		assert.ErrorIs(t, err, ErrNoPiece)

		_, err = board.Relocate(NewCoordinate(0, 0), NewCoordinate(9, 9))
		assert.ErrorIs(t, err, ErrInvalidCoordinates)
	})
}

func TestBoard_PlacePiece(t *testing.T) {
	board := NewBoard(4)
	require.NoError(t, board.SetCell(NewCoordinate(1, 1), TerrainCell(Water, 0)))

	assert.NoError(t, board.PlacePiece(NewCoordinate(0, 0), Piece{Type: King, Color: Blue}))
	assert.ErrorIs(t, board.PlacePiece(NewCoordinate(0, 0), Piece{Type: Pawn, Color: Blue}), ErrIllegalMove)
	assert.ErrorIs(t, board.PlacePiece(NewCoordinate(1, 1), Piece{Type: Pawn, Color: Blue}), ErrIllegalMove)
	assert.ErrorIs(t, board.PlacePiece(NewCoordinate(4, 0), Piece{Type: Pawn, Color: Blue}), ErrInvalidCoordinates)
}

func TestBoard_RemoveColor(t *testing.T) {
	board := NewBoard(5)
	require.NoError(t, board.PlacePiece(NewCoordinate(0, 0), Piece{Type: King, Color: Red}))
	require.NoError(t, board.PlacePiece(NewCoordinate(0, 1), Piece{Type: Pawn, Color: Red}))
	require.NoError(t, board.PlacePiece(NewCoordinate(4, 4), Piece{Type: King, Color: White}))
	require.NoError(t, board.SetCell(NewCoordinate(2, 2), TerrainCell(Forest, 0)))

	assert.Equal(t, 2, board.RemoveColor(Red))
	assert.Equal(t, 0, board.CountPieces(Red))
	assert.Equal(t, 1, board.CountPieces(White))
	assert.Equal(t, 1, board.CountTerrain(Forest), "terrain is untouched")
	assert.Equal(t, 0, board.RemoveColor(Red))
}

func TestBoard_EmptyNeighbors(t *testing.T) {
	board := NewBoard(4)
	require.NoError(t, board.PlacePiece(NewCoordinate(1, 0), Piece{Type: Pawn, Color: White}))
	require.NoError(t, board.SetCell(NewCoordinate(0, 1), TerrainCell(Mountain, 0)))

	// (0,0): up and left are off board, down holds a pawn, right is a mountain
	assert.Empty(t, board.EmptyNeighbors(NewCoordinate(0, 0), RewardNeighborOffsets))

	got := board.EmptyNeighbors(NewCoordinate(2, 2), RewardNeighborOffsets)
	assert.Equal(t, []Coordinate{{1, 2}, {3, 2}, {2, 1}, {2, 3}}, got)
}
