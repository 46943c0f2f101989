package game

import (
	"github.com/mitchelldurbincs/FogOfWarChess/internal/game/core"
)

// This file contains all player statistics management functionality for the game engine.

// PlayerStats is a read-only summary of one player's position
type PlayerStats struct {
	Color          core.Color             `json:"color"`
	AI             bool                   `json:"ai"`
	Active         bool                   `json:"active"`
	MovesRemaining int                    `json:"moves_remaining"`
	Pieces         map[core.PieceType]int `json:"pieces"`
	LivePieces     int                    `json:"live_pieces"`
	Captures       int                    `json:"captures"`
	VisibleCells   int                    `json:"visible_cells"`
	ExploredCells  int                    `json:"explored_cells"`
}

// updatePlayerStats recounts live pieces. A player whose king is gone is
// marked inactive even if the capture path missed it.
func (e *Engine) updatePlayerStats() {
	counts := make(map[core.Color]int, len(e.gs.Players))
	kings := make(map[core.Color]bool, len(e.gs.Players))
	for i := range e.gs.Board.Cells {
		cell := &e.gs.Board.Cells[i]
		if !cell.HasPiece() {
			continue
		}
		counts[cell.Piece.Color]++
		if cell.Piece.Type == core.King {
			kings[cell.Piece.Color] = true
		}
	}

	for _, p := range e.gs.Players {
		p.LivePieces = counts[p.Color]
		if p.Active && !kings[p.Color] {
			e.logger.Warn().Str("player", p.Color.String()).Msg("Player has no king but was still active")
			p.Active = false
			e.gs.removeActive(p.Color)
		}
	}
	e.logger.Debug().Msg("Player stats updated")
}

// Stats returns a summary for every player in turn order, eliminated ones included
func (e *Engine) Stats() []PlayerStats {
	e.mu.Lock()
	defer e.mu.Unlock()

	out := make([]PlayerStats, 0, len(e.gs.Players))
	for _, p := range e.gs.Players {
		pieces := make(map[core.PieceType]int)
		for _, at := range e.gs.Board.PiecesOf(p.Color) {
			pieces[e.gs.Board.At(at).Piece.Type]++
		}
		out = append(out, PlayerStats{
			Color:          p.Color,
			AI:             p.AI,
			Active:         p.Active,
			MovesRemaining: p.MovesRemaining,
			Pieces:         pieces,
			LivePieces:     p.LivePieces,
			Captures:       len(p.Captures),
			VisibleCells:   p.Visible.Size(),
			ExploredCells:  p.Explored.Size(),
		})
	}
	return out
}
