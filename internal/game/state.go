package game

import (
	"github.com/mitchelldurbincs/FogOfWarChess/internal/game/core"
	"github.com/zyedidia/generic/mapset"
)

// PlayerState is the per-color bookkeeping the engine keeps between moves
type PlayerState struct {
	Color          core.Color
	AI             bool
	Active         bool
	MovesRemaining int
	LivePieces     int // cached by updatePlayerStats
	Moved          mapset.Set[core.Key]
	Visible        mapset.Set[core.Key]
	Explored       mapset.Set[core.Key]
	Captures       []core.CaptureInfo
}

func newPlayerState(color core.Color, ai bool) *PlayerState {
	return &PlayerState{
		Color:    color,
		AI:       ai,
		Active:   true,
		Moved:    mapset.New[core.Key](),
		Visible:  mapset.New[core.Key](),
		Explored: mapset.New[core.Key](),
	}
}

// GetColor and IsAlive satisfy rules.Player
func (p *PlayerState) GetColor() core.Color { return p.Color }
func (p *PlayerState) IsAlive() bool        { return p.Active }

// HasMoved reports whether the piece at key already moved this turn
func (p *PlayerState) HasMoved(k core.Key) bool {
	return p.Moved.Has(k)
}

func (p *PlayerState) clearMoved() {
	p.Moved = mapset.New[core.Key]()
}

// clone deep copies the sets so snapshots never alias live state
func (p *PlayerState) clone() *PlayerState {
	cp := *p
	cp.Moved = copySet(p.Moved)
	cp.Visible = copySet(p.Visible)
	cp.Explored = copySet(p.Explored)
	cp.Captures = append([]core.CaptureInfo(nil), p.Captures...)
	return &cp
}

func copySet(s mapset.Set[core.Key]) mapset.Set[core.Key] {
	out := mapset.New[core.Key]()
	s.Each(func(k core.Key) { out.Put(k) })
	return out
}

// GameState is the single mutable game instance shared by every component
type GameState struct {
	Turn  int
	Board *core.Board
	// Players is in turn order and keeps eliminated colors with Active=false
	Players []*PlayerState
	// Active is the ordered list of colors still holding a king
	Active       []core.Color
	Current      int
	Selected     *core.Coordinate
	Targets      []core.Coordinate
	MovesPerTurn int
	Winner       core.Color
}

// CurrentColor returns the color to act, or NoColor when nobody is active
func (gs *GameState) CurrentColor() core.Color {
	if len(gs.Active) == 0 {
		return core.NoColor
	}
	return gs.Active[gs.Current%len(gs.Active)]
}

// Player returns the state for a color, or nil if it is not in the game
func (gs *GameState) Player(color core.Color) *PlayerState {
	for _, p := range gs.Players {
		if p.Color == color {
			return p
		}
	}
	return nil
}

// CurrentPlayer returns the state of the player to act
func (gs *GameState) CurrentPlayer() *PlayerState {
	return gs.Player(gs.CurrentColor())
}

// removeActive drops color from the active list, keeping Current on the same player.
// It reports whether color was the current player.
func (gs *GameState) removeActive(color core.Color) bool {
	for i, c := range gs.Active {
		if c != color {
			continue
		}
		wasCurrent := i == gs.Current
		gs.Active = append(gs.Active[:i], gs.Active[i+1:]...)
		if i < gs.Current {
			gs.Current--
		}
		if len(gs.Active) > 0 {
			gs.Current %= len(gs.Active)
		} else {
			gs.Current = 0
		}
		return wasCurrent
	}
	return false
}

func (gs *GameState) clearSelection() {
	gs.Selected = nil
	gs.Targets = nil
}

// Clone returns a deep copy suitable for handing to other goroutines
func (gs *GameState) Clone() *GameState {
	cp := *gs
	cp.Board = gs.Board.Clone()
	cp.Players = make([]*PlayerState, len(gs.Players))
	for i, p := range gs.Players {
		cp.Players[i] = p.clone()
	}
	cp.Active = append([]core.Color(nil), gs.Active...)
	cp.Targets = append([]core.Coordinate(nil), gs.Targets...)
	if gs.Selected != nil {
		sel := *gs.Selected
		cp.Selected = &sel
	}
	return &cp
}
