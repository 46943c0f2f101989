package testutil

import (
	"fmt"
	"strings"

	"github.com/mitchelldurbincs/FogOfWarChess/internal/game/core"
)

// CreateTestBoard creates an empty board of the given size
func CreateTestBoard(size int) *core.Board {
	return core.NewBoard(size)
}

// CreateTestBoardWithPieces creates a board and places the given pieces on it
func CreateTestBoardWithPieces(size int, pieces map[core.Coordinate]core.Piece) *core.Board {
	board := core.NewBoard(size)
	for at, p := range pieces {
		if err := board.SetCell(at, core.PieceCell(p)); err != nil {
			panic(fmt.Sprintf("placing %s at %s: %v", p, at, err))
		}
	}
	return board
}

var colorTokens = map[byte]core.Color{'w': core.White, 'b': core.Black, 'r': core.Red, 'u': core.Blue}

var terrainTokens = map[string]core.TerrainKind{
	"~": core.Water,
	"f": core.Forest,
	"^": core.Mountain,
	"$": core.RewardSite,
}

// ParseBoard builds a square board from whitespace separated rows.
// Tokens: "." empty, "~" water, "f" forest, "^" mountain, "$" reward site,
// and a color letter (w, b, r, u) followed by a piece symbol such as "wK" or "bp".
func ParseBoard(rows ...string) *core.Board {
	board := core.NewBoard(len(rows))
	for r, line := range rows {
		tokens := strings.Fields(line)
		if len(tokens) != len(rows) {
			panic(fmt.Sprintf("row %d has %d cells, want %d", r, len(tokens), len(rows)))
		}
		for c, tok := range tokens {
			board.Cells[board.Idx(r, c)] = parseToken(tok)
		}
	}
	return board
}

func parseToken(tok string) core.Cell {
	if tok == "." {
		return core.Cell{}
	}
	if kind, ok := terrainTokens[tok]; ok {
		return core.TerrainCell(kind, 0)
	}
	if len(tok) == 2 {
		color, ok := colorTokens[tok[0]]
		if ok {
			for pt := core.Pawn; pt <= core.King; pt++ {
				if strings.EqualFold(pt.Symbol(), tok[1:]) {
					return core.PieceCell(core.Piece{Type: pt, Color: color})
				}
			}
		}
	}
	panic(fmt.Sprintf("unknown board token %q", tok))
}

// CreateSimpleTestSetup creates a 6x6 board with a white and a black army
// facing each other across the middle.
func CreateSimpleTestSetup() *core.Board {
	return ParseBoard(
		"wR wK wN . . .",
		". wP wP . . .",
		". . . $ . .",
		". . ~ . . .",
		". . . bP bP .",
		". . . bB bK bQ",
	)
}
