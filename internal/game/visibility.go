package game

import (
	"github.com/mitchelldurbincs/FogOfWarChess/internal/game/core"
	"github.com/zyedidia/generic/mapset"
)

// This file contains all fog of war and visibility-related functionality for the game engine.

// refreshAllVisibility recomputes what every active player sees. A single
// move can reveal or hide cells for the mover and for whoever lost a piece,
// so everyone is recomputed.
func (e *Engine) refreshAllVisibility() {
	for _, p := range e.gs.Players {
		e.refreshVisibility(p)
	}
	e.logger.Debug().Msg("Performed full visibility update")
}

// refreshVisibility replaces p's visible set and folds it into the explored set.
// Explored cells are never removed.
func (e *Engine) refreshVisibility(p *PlayerState) {
	if !p.Active {
		p.Visible = mapset.New[core.Key]()
		return
	}
	p.Visible = e.vision.VisibleCells(e.gs.Board, p.Color)
	p.Visible.Each(func(k core.Key) { p.Explored.Put(k) })
}

// VisibleCells returns the cells color can currently see
func (e *Engine) VisibleCells(color core.Color) []core.Coordinate {
	e.mu.Lock()
	defer e.mu.Unlock()
	p := e.gs.Player(color)
	if p == nil {
		return nil
	}
	return e.coordsOf(p.Visible)
}

// ExploredCells returns every cell color has ever seen
func (e *Engine) ExploredCells(color core.Color) []core.Coordinate {
	e.mu.Lock()
	defer e.mu.Unlock()
	p := e.gs.Player(color)
	if p == nil {
		return nil
	}
	return e.coordsOf(p.Explored)
}

// IsVisible reports whether color can currently see c
func (e *Engine) IsVisible(color core.Color, c core.Coordinate) bool {
	e.mu.Lock()
	defer e.mu.Unlock()
	p := e.gs.Player(color)
	return p != nil && e.gs.Board.InBounds(c) && p.Visible.Has(e.gs.Board.KeyOf(c))
}

// IsExplored reports whether color has ever seen c
func (e *Engine) IsExplored(color core.Color, c core.Coordinate) bool {
	e.mu.Lock()
	defer e.mu.Unlock()
	p := e.gs.Player(color)
	return p != nil && e.gs.Board.InBounds(c) && p.Explored.Has(e.gs.Board.KeyOf(c))
}

// coordsOf lists the cells of s in row-major order
func (e *Engine) coordsOf(s mapset.Set[core.Key]) []core.Coordinate {
	b := e.gs.Board
	out := make([]core.Coordinate, 0, s.Size())
	for k := 0; k < b.Size*b.Size; k++ {
		if s.Has(core.Key(k)) {
			out = append(out, b.CoordOf(core.Key(k)))
		}
	}
	return out
}
