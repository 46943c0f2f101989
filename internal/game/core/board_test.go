package core

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNewBoard(t *testing.T) {
	tests := []struct {
		name string
		size int
	}{
		{"default board", 16},
		{"small board", 5},
		{"minimum board", 2},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			board := NewBoard(tt.size)

			assert.Equal(t, tt.size, board.Size)
			assert.Len(t, board.Cells, tt.size*tt.size)
			require.NoError(t, board.Validate())
			for i := range board.Cells {
				assert.True(t, board.Cells[i].IsEmpty(), "cell %d should start empty", i)
			}
		})
	}
}

func TestBoard_Validate(t *testing.T) {
	assert.ErrorIs(t, NewBoard(1).Validate(), ErrInvalidBoard)
	assert.ErrorIs(t, NewBoard(-4).Validate(), ErrInvalidBoard)

	var nilBoard *Board
	assert.ErrorIs(t, nilBoard.Validate(), ErrInvalidBoard)

	corrupted := &Board{Size: 4, Cells: make([]Cell, 10)}
	assert.ErrorIs(t, corrupted.Validate(), ErrInvalidBoard)
}

func TestBoard_IdxRowCol(t *testing.T) {
	board := NewBoard(5)

	tests := []struct {
		row, col int
		idx      int
	}{
		{0, 0, 0},
		{0, 4, 4},
		{1, 0, 5},
		{2, 2, 12},
		{4, 4, 24},
	}

	for _, tt := range tests {
		assert.Equal(t, tt.idx, board.Idx(tt.row, tt.col))
		r, c := board.RowCol(tt.idx)
		assert.Equal(t, tt.row, r)
		assert.Equal(t, tt.col, c)
	}
}

func TestBoard_At(t *testing.T) {
	board := NewBoard(4)

	assert.Nil(t, board.At(NewCoordinate(-1, 0)))
	assert.Nil(t, board.At(NewCoordinate(0, 4)))

	cell := board.At(NewCoordinate(2, 3))
	require.NotNil(t, cell)
	*cell = TerrainCell(Water, 0)
	assert.True(t, board.Cells[board.Idx(2, 3)].IsTerrain())
}

func TestCellPredicates(t *testing.T) {
	empty := Cell{}
	white := PieceCell(Piece{Type: Rook, Color: White})
	reward := TerrainCell(RewardSite, 0)
	forest := TerrainCell(Forest, 1)

	assert.True(t, empty.IsEmpty())
	assert.False(t, empty.HasPiece())

	assert.True(t, white.HasPiece())
	assert.True(t, white.IsFriendOf(White))
	assert.True(t, white.IsEnemyOf(Black))
	assert.False(t, white.IsEnemyOf(White))

	assert.True(t, reward.IsReward())
	assert.True(t, reward.IsTerrain())
	assert.False(t, forest.IsReward())
	assert.False(t, forest.IsEnemyOf(White))
}

func TestBoard_PieceQueries(t *testing.T) {
	board := NewBoard(8)
	require.NoError(t, board.PlacePiece(NewCoordinate(0, 3), Piece{Type: King, Color: White}))
	require.NoError(t, board.PlacePiece(NewCoordinate(0, 4), Piece{Type: Rook, Color: White}))
	require.NoError(t, board.PlacePiece(NewCoordinate(7, 3), Piece{Type: King, Color: Black}))
	require.NoError(t, board.SetCell(NewCoordinate(4, 4), TerrainCell(Mountain, 2)))

	assert.Equal(t, 2, board.CountPieces(White))
	assert.Equal(t, 1, board.CountPieces(Black))
	assert.Equal(t, 0, board.CountPieces(Red))
	assert.Equal(t, []Coordinate{{0, 3}, {0, 4}}, board.PiecesOf(White))
	assert.Equal(t, 1, board.CountTerrain(Mountain))

	king, ok := board.FindKing(Black)
	assert.True(t, ok)
	assert.Equal(t, NewCoordinate(7, 3), king)

	_, ok = board.FindKing(Blue)
	assert.False(t, ok)
}

func TestBoard_Clone(t *testing.T) {
	board := NewBoard(4)
	require.NoError(t, board.PlacePiece(NewCoordinate(1, 1), Piece{Type: Queen, Color: Red}))

	clone := board.Clone()
	_, err := clone.Relocate(NewCoordinate(1, 1), NewCoordinate(2, 2))
	require.NoError(t, err)

	assert.True(t, board.At(NewCoordinate(1, 1)).HasPiece(), "original must be untouched")
	assert.True(t, clone.At(NewCoordinate(2, 2)).HasPiece())
}

func TestBoard_CenterAndBoundary(t *testing.T) {
	board := NewBoard(16)
	assert.Equal(t, NewCoordinate(8, 8), board.Center())
	assert.True(t, board.IsBoundary(NewCoordinate(0, 5)))
	assert.False(t, board.IsBoundary(NewCoordinate(1, 5)))
}

func TestTerrainKindString(t *testing.T) {
	assert.Equal(t, "water", Water.String())
	assert.Equal(t, "forest", Forest.String())
	assert.Equal(t, "mountain", Mountain.String())
	assert.Equal(t, "reward", RewardSite.String())
}
