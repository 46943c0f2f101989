package mapgen

import (
	"fmt"
	"math"
	"math/rand"
	"sort"

	"github.com/mitchelldurbincs/FogOfWarChess/internal/common"
	"github.com/mitchelldurbincs/FogOfWarChess/internal/game/core"
	"github.com/rs/zerolog"
)

// MapConfig holds configuration for map generation
type MapConfig struct {
	Size              int
	Colors            []core.Color
	WaterDensity      float64
	ForestDensity     float64
	MountainDensity   float64
	RewardRegionSize  int
	RewardMaxAttempts int
	MinPlayerDistance int
	MajorPieceSlots   int
	PawnSlots         int
}

// DefaultMapConfig returns the standard configuration for the given players
func DefaultMapConfig(size int, colors []core.Color) MapConfig {
	return MapConfig{
		Size:              size,
		Colors:            colors,
		WaterDensity:      0.035,
		ForestDensity:     0.0525,
		MountainDensity:   0.028,
		RewardRegionSize:  4,
		RewardMaxAttempts: 100,
		MinPlayerDistance: 6,
		MajorPieceSlots:   2,
		PawnSlots:         2,
	}
}

// Validate rejects configurations that cannot produce a board
func (c MapConfig) Validate() error {
	if c.Size < 2 {
		return fmt.Errorf("%w: size %d", core.ErrInvalidBoard, c.Size)
	}
	if len(c.Colors) == 0 || len(c.Colors) > core.MaxPlayers {
		return fmt.Errorf("%w: %d players", core.ErrInvalidPlayer, len(c.Colors))
	}
	seen := make(map[core.Color]bool, len(c.Colors))
	for _, color := range c.Colors {
		if !color.IsValid() || seen[color] {
			return fmt.Errorf("%w: %s", core.ErrInvalidPlayer, color)
		}
		seen[color] = true
	}
	if c.WaterDensity < 0 || c.ForestDensity < 0 || c.MountainDensity < 0 ||
		c.WaterDensity+c.ForestDensity+c.MountainDensity > 1 {
		return fmt.Errorf("terrain densities must be non-negative and sum to at most 1")
	}
	return nil
}

// Generator handles map generation with deterministic RNG
type Generator struct {
	config MapConfig
	rng    *rand.Rand
	logger zerolog.Logger
}

// NewGenerator creates a new map generator
func NewGenerator(config MapConfig, rng *rand.Rand) *Generator {
	return &Generator{
		config: config,
		rng:    rng,
		logger: zerolog.Nop(),
	}
}

// WithLogger attaches a logger used for placement shortfalls
func (g *Generator) WithLogger(logger zerolog.Logger) *Generator {
	g.logger = logger.With().Str("component", "MapGenerator").Logger()
	return g
}

// Placement records where a player's starting army was put
type Placement struct {
	Color  core.Color
	King   core.Coordinate
	Pieces int
}

// GenerateMap creates a new board with terrain, reward sites and starting armies
func (g *Generator) GenerateMap() (*core.Board, []Placement, error) {
	if err := g.config.Validate(); err != nil {
		return nil, nil, err
	}

	board := core.NewBoard(g.config.Size)

	g.placeTerrain(board)
	g.placeRewards(board)

	positions := g.assignPlayerPositions(EdgePositions(board.Size))
	placements := make([]Placement, 0, len(positions))
	for i, color := range g.config.Colors {
		n := g.placeArmy(board, color, positions[i])
		placements = append(placements, Placement{Color: color, King: positions[i], Pieces: n})
	}

	return board, placements, nil
}

func (g *Generator) placeTerrain(b *core.Board) {
	water := g.config.WaterDensity
	forest := water + g.config.ForestDensity
	mountain := forest + g.config.MountainDensity

	for row := 0; row < b.Size; row++ {
		for col := 0; col < b.Size; col++ {
			r := g.rng.Float64()
			cell := &b.Cells[b.Idx(row, col)]
			switch {
			case r < water:
				*cell = core.TerrainCell(core.Water, 0)
			case r < forest:
				*cell = core.TerrainCell(core.Forest, (row+col)%2)
			case r < mountain:
				*cell = core.TerrainCell(core.Mountain, (row+col)%3)
			}
		}
	}
}

// placeRewards puts at most one reward site in each square region
func (g *Generator) placeRewards(b *core.Board) {
	size := g.config.RewardRegionSize
	if size <= 0 {
		return
	}
	regions := int(math.Ceil(float64(b.Size) / float64(size)))

	for rr := 0; rr < regions; rr++ {
		for rc := 0; rc < regions; rc++ {
			placed := false
			for attempt := 0; attempt < g.config.RewardMaxAttempts && !placed; attempt++ {
				at := core.NewCoordinate(rr*size+g.rng.Intn(size), rc*size+g.rng.Intn(size))
				if cell := b.At(at); cell != nil && cell.IsEmpty() {
					*cell = core.TerrainCell(core.RewardSite, 0)
					placed = true
				}
			}
			if !placed {
				g.logger.Debug().Int("region_row", rr).Int("region_col", rc).Msg("No reward site placed in region")
			}
		}
	}
}

// EdgePositions lists every boundary cell: top and bottom rows interleaved
// with the left and right columns, corners listed once.
func EdgePositions(size int) []core.Coordinate {
	last := size - 1
	positions := make([]core.Coordinate, 0, 4*size)
	for i := 0; i < size; i++ {
		positions = append(positions, core.NewCoordinate(0, i), core.NewCoordinate(last, i))
		if i > 0 && i < last {
			positions = append(positions, core.NewCoordinate(i, 0), core.NewCoordinate(i, last))
		}
	}
	return positions
}

func (g *Generator) farEnough(a, b core.Coordinate) bool {
	min := float64(g.config.MinPlayerDistance)
	return float64(a.ManhattanTo(b)) >= min && a.EuclideanTo(b) >= min
}

func (g *Generator) assignPlayerPositions(edges []core.Coordinate) []core.Coordinate {
	all := edges
	used := make([]core.Coordinate, 0, len(g.config.Colors))

	for range g.config.Colors {
		if len(edges) == 0 {
			// Every candidate was too close to someone; fall back to the full ring
			edges = all
		}

		var valid []core.Coordinate
		for _, pos := range edges {
			ok := true
			for _, u := range used {
				if !g.farEnough(pos, u) {
					ok = false
					break
				}
			}
			if ok {
				valid = append(valid, pos)
			}
		}
		if len(valid) == 0 {
			valid = bestAlternatives(edges, used)
		}

		pos := valid[g.rng.Intn(len(valid))]
		used = append(used, pos)

		remaining := edges[:0:0]
		for _, e := range edges {
			if g.farEnough(e, pos) {
				remaining = append(remaining, e)
			}
		}
		edges = remaining
	}
	return used
}

// bestAlternatives returns the candidates maximizing the smallest distance to any used position
func bestAlternatives(candidates, used []core.Coordinate) []core.Coordinate {
	best := 0.0
	var out []core.Coordinate
	for _, pos := range candidates {
		minDist := math.Inf(1)
		for _, u := range used {
			d := math.Min(float64(pos.ManhattanTo(u)), pos.EuclideanTo(u))
			minDist = math.Min(minDist, d)
		}
		switch {
		case minDist > best:
			best = minDist
			out = []core.Coordinate{pos}
		case minDist == best:
			out = append(out, pos)
		}
	}
	if len(out) == 0 {
		return candidates
	}
	return out
}

type slot struct {
	at       core.Coordinate
	priority int
}

func sortSlots(slots []slot) {
	sort.SliceStable(slots, func(i, j int) bool { return slots[i].priority < slots[j].priority })
}

// placeArmy puts a king at pos plus up to MajorPieceSlots majors and PawnSlots pawns.
// Slots that cannot be filled are skipped. Returns the number of pieces placed.
func (g *Generator) placeArmy(b *core.Board, color core.Color, king core.Coordinate) int {
	_ = b.SetCell(king, core.PieceCell(core.Piece{Type: core.King, Color: color}))
	placed := 1

	majors := g.majorSlots(b, king)
	var chosen []core.Coordinate
	for _, s := range majors {
		if len(chosen) >= g.config.MajorPieceSlots {
			break
		}
		pt := core.MajorPieceTypes[g.rng.Intn(len(core.MajorPieceTypes))]
		if err := b.PlacePiece(s.at, core.Piece{Type: pt, Color: color}); err == nil {
			chosen = append(chosen, s.at)
			placed++
		}
	}

	pawns := g.pawnSlots(b, king, chosen)
	count := 0
	for _, s := range pawns {
		if count >= g.config.PawnSlots {
			break
		}
		if err := b.PlacePiece(s.at, core.Piece{Type: core.Pawn, Color: color}); err == nil {
			count++
			placed++
		}
	}

	short := 1 + g.config.MajorPieceSlots + g.config.PawnSlots - placed
	if short > 0 {
		g.logger.Debug().Str("color", color.String()).Int("missing", short).Msg("Starting army placed short")
	}
	return placed
}

func (g *Generator) majorSlots(b *core.Board, king core.Coordinate) []slot {
	var slots []slot
	seen := make(map[core.Coordinate]bool)

	for dr := -1; dr <= 1; dr++ {
		for dc := -1; dc <= 1; dc++ {
			at := king.Add(core.Coordinate{Row: dr, Col: dc})
			if at == king || !b.IsBoundary(at) {
				continue
			}
			if cell := b.At(at); cell != nil && cell.IsEmpty() {
				slots = append(slots, slot{at: at, priority: 1})
				seen[at] = true
			}
		}
	}

	if len(slots) < g.config.MajorPieceSlots {
		for dr := -3; dr <= 3; dr++ {
			for dc := -3; dc <= 3; dc++ {
				at := king.Add(core.Coordinate{Row: dr, Col: dc})
				dist := common.Abs(dr) + common.Abs(dc)
				if dist == 0 || dist > 3 || seen[at] || !b.IsBoundary(at) {
					continue
				}
				if cell := b.At(at); cell != nil && cell.IsEmpty() {
					slots = append(slots, slot{at: at, priority: dist})
					seen[at] = true
				}
			}
		}
	}

	sortSlots(slots)
	return slots
}

func (g *Generator) pawnSlots(b *core.Board, king core.Coordinate, majors []core.Coordinate) []slot {
	center := b.Center()
	var slots []slot
	seen := make(map[core.Coordinate]bool)

	for _, from := range append([]core.Coordinate{king}, majors...) {
		at := from.StepToward(center)
		if seen[at] || b.IsBoundary(at) {
			continue
		}
		// Ranked by distance from the piece the pawn screens
		if cell := b.At(at); cell != nil && cell.IsEmpty() {
			slots = append(slots, slot{at: at, priority: at.ManhattanTo(from)})
			seen[at] = true
		}
	}

	if len(slots) < g.config.PawnSlots {
		dir := core.NewCoordinate(common.Sign(center.Row-king.Row), common.Sign(center.Col-king.Col))
		for dr := -2; dr <= 2; dr++ {
			for dc := -2; dc <= 2; dc++ {
				at := king.Add(core.Coordinate{Row: dr, Col: dc})
				if seen[at] || b.IsBoundary(at) {
					continue
				}
				// Only cells on the center side of the king along both axes
				if dr*dir.Row < 0 || dc*dir.Col < 0 {
					continue
				}
				if cell := b.At(at); cell != nil && cell.IsEmpty() {
					slots = append(slots, slot{at: at, priority: at.ManhattanTo(king)})
					seen[at] = true
				}
			}
		}
	}

	sortSlots(slots)
	return slots
}
