package core

import "fmt"

// TerrainKind is the type of a non-piece cell
type TerrainKind uint8

const (
	Water TerrainKind = iota
	Forest
	Mountain
	RewardSite
)

func (t TerrainKind) String() string {
	switch t {
	case Water:
		return "water"
	case Forest:
		return "forest"
	case Mountain:
		return "mountain"
	case RewardSite:
		return "reward"
	default:
		return fmt.Sprintf("TerrainKind(%d)", t)
	}
}

// Terrain is immutable except that a reward site is consumed when entered.
// Variant is cosmetic only.
type Terrain struct {
	Kind    TerrainKind
	Variant int
}

// CellKind tags which variant a Cell holds
type CellKind uint8

const (
	CellEmpty CellKind = iota
	CellPiece
	CellTerrain
)

// Cell holds either nothing, a piece, or terrain. Never both.
type Cell struct {
	Kind    CellKind
	Piece   Piece
	Terrain Terrain
}

func (c *Cell) IsEmpty() bool   { return c.Kind == CellEmpty }
func (c *Cell) HasPiece() bool  { return c.Kind == CellPiece }
func (c *Cell) IsTerrain() bool { return c.Kind == CellTerrain }
func (c *Cell) IsReward() bool  { return c.Kind == CellTerrain && c.Terrain.Kind == RewardSite }

// IsEnemyOf reports whether the cell holds a piece of a color other than color
func (c *Cell) IsEnemyOf(color Color) bool {
	return c.Kind == CellPiece && c.Piece.Color != color
}

// IsFriendOf reports whether the cell holds a piece of the given color
func (c *Cell) IsFriendOf(color Color) bool {
	return c.Kind == CellPiece && c.Piece.Color == color
}

// PieceCell builds a cell holding p
func PieceCell(p Piece) Cell {
	return Cell{Kind: CellPiece, Piece: p}
}

// TerrainCell builds a terrain cell
func TerrainCell(kind TerrainKind, variant int) Cell {
	return Cell{Kind: CellTerrain, Terrain: Terrain{Kind: kind, Variant: variant}}
}

// Board is a square grid stored as a flat row-major arena
type Board struct {
	Size  int
	Cells []Cell // length = Size*Size
}

// NewBoard allocates an empty size x size board
func NewBoard(size int) *Board {
	if size < 0 {
		size = 0
	}
	return &Board{Size: size, Cells: make([]Cell, size*size)}
}

func (b *Board) Idx(row, col int) int         { return row*b.Size + col }
func (b *Board) RowCol(idx int) (int, int)    { return idx / b.Size, idx % b.Size }
func (b *Board) KeyOf(c Coordinate) Key       { return c.Key(b.Size) }
func (b *Board) CoordOf(k Key) Coordinate     { return FromKey(k, b.Size) }
func (b *Board) InBounds(c Coordinate) bool   { return c.IsValid(b.Size) }
func (b *Board) IsBoundary(c Coordinate) bool { return c.IsBoundary(b.Size) }

// Center returns the center cell used for centrality and pawn direction
func (b *Board) Center() Coordinate {
	return Coordinate{Row: b.Size / 2, Col: b.Size / 2}
}

// At safely returns a cell pointer if the coordinate is valid, nil otherwise
func (b *Board) At(c Coordinate) *Cell {
	if !b.InBounds(c) {
		return nil
	}
	return &b.Cells[b.Idx(c.Row, c.Col)]
}

// Validate checks the arena matches the declared size
func (b *Board) Validate() error {
	if b == nil || b.Size < 2 {
		return ErrInvalidBoard
	}
	if len(b.Cells) != b.Size*b.Size {
		return fmt.Errorf("%w: %d cells for size %d", ErrInvalidBoard, len(b.Cells), b.Size)
	}
	return nil
}

// Clone returns a deep copy of the board
func (b *Board) Clone() *Board {
	cells := make([]Cell, len(b.Cells))
	copy(cells, b.Cells)
	return &Board{Size: b.Size, Cells: cells}
}

// PiecesOf returns the coordinates of every piece of the given color in row-major order
func (b *Board) PiecesOf(color Color) []Coordinate {
	var out []Coordinate
	for i := range b.Cells {
		if b.Cells[i].IsFriendOf(color) {
			r, c := b.RowCol(i)
			out = append(out, Coordinate{Row: r, Col: c})
		}
	}
	return out
}

// CountPieces returns the number of live pieces of a color
func (b *Board) CountPieces(color Color) int {
	n := 0
	for i := range b.Cells {
		if b.Cells[i].IsFriendOf(color) {
			n++
		}
	}
	return n
}

// FindKing returns the king's location for a color
func (b *Board) FindKing(color Color) (Coordinate, bool) {
	for i := range b.Cells {
		cell := &b.Cells[i]
		if cell.IsFriendOf(color) && cell.Piece.Type == King {
			r, c := b.RowCol(i)
			return Coordinate{Row: r, Col: c}, true
		}
	}
	return Coordinate{}, false
}

// CountTerrain returns how many cells hold the given terrain kind
func (b *Board) CountTerrain(kind TerrainKind) int {
	n := 0
	for i := range b.Cells {
		if b.Cells[i].IsTerrain() && b.Cells[i].Terrain.Kind == kind {
			n++
		}
	}
	return n
}
