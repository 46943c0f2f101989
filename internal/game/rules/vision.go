package rules

import (
	"github.com/mitchelldurbincs/FogOfWarChess/internal/game/core"
	"github.com/zyedidia/generic/mapset"
)

// VisionRanges maps piece types to their vision radius. Types not listed use Default.
type VisionRanges struct {
	ByType  map[core.PieceType]int
	Default int
}

// DefaultVisionRanges returns the standard table: pawn 1, rook and knight 3, others 2
func DefaultVisionRanges() VisionRanges {
	return VisionRanges{
		ByType: map[core.PieceType]int{
			core.Pawn:   1,
			core.Rook:   3,
			core.Knight: 3,
		},
		Default: 2,
	}
}

// Range returns the radius for a piece type
func (v VisionRanges) Range(pt core.PieceType) int {
	if r, ok := v.ByType[pt]; ok {
		return r
	}
	return v.Default
}

// VisionCalculator computes the cells a player's pieces currently illuminate
type VisionCalculator struct {
	ranges VisionRanges
}

func NewVisionCalculator(ranges VisionRanges) *VisionCalculator {
	if ranges.ByType == nil {
		ranges = DefaultVisionRanges()
	}
	return &VisionCalculator{ranges: ranges}
}

// Ranges returns the vision table in use
func (vc *VisionCalculator) Ranges() VisionRanges {
	return vc.ranges
}

// VisibleCells returns the union of every live piece's footprint for color.
// A player with no pieces sees nothing.
func (vc *VisionCalculator) VisibleCells(board *core.Board, color core.Color) mapset.Set[core.Key] {
	visible := mapset.New[core.Key]()
	for _, at := range board.PiecesOf(color) {
		vc.addFootprint(board, at, board.At(at).Piece.Type, visible)
	}
	return visible
}

// Footprint returns the cells a single piece of type pt at c would see
func (vc *VisionCalculator) Footprint(board *core.Board, c core.Coordinate, pt core.PieceType) mapset.Set[core.Key] {
	out := mapset.New[core.Key]()
	vc.addFootprint(board, c, pt, out)
	return out
}

func (vc *VisionCalculator) addFootprint(board *core.Board, c core.Coordinate, pt core.PieceType, into mapset.Set[core.Key]) {
	into.Put(board.KeyOf(c))

	// Pawns see exactly their eight neighbours regardless of the table
	if pt == core.Pawn {
		for _, off := range core.AllOffsets {
			if n := c.Add(off); board.InBounds(n) {
				into.Put(board.KeyOf(n))
			}
		}
		return
	}

	r := vc.ranges.Range(pt)
	for dr := -r; dr <= r; dr++ {
		for dc := -r; dc <= r; dc++ {
			if n := c.Add(core.Coordinate{Row: dr, Col: dc}); board.InBounds(n) {
				into.Put(board.KeyOf(n))
			}
		}
	}
}
