package game

import (
	"strings"

	"github.com/mitchelldurbincs/FogOfWarChess/internal/common"
	"github.com/mitchelldurbincs/FogOfWarChess/internal/game/core"
)

// This file contains all board rendering functionality for the game engine.

const (
	emptySymbol    = " ."
	fogSymbol      = " #"
	waterSymbol    = " ~"
	forestSymbol   = " f"
	mountainSymbol = " ^"
	rewardSymbol   = " $"
)

// Board returns a colored text view of the board as viewer sees it.
// NoColor, or the show-all-cells debug setting, reveals everything.
func (e *Engine) Board(viewer core.Color) string {
	e.mu.Lock()
	defer e.mu.Unlock()
	return e.render(viewer, true)
}

// BoardText is Board without ANSI escapes
func (e *Engine) BoardText(viewer core.Color) string {
	e.mu.Lock()
	defer e.mu.Unlock()
	return e.render(viewer, false)
}

func (e *Engine) render(viewer core.Color, colored bool) string {
	b := e.gs.Board
	p := e.gs.Player(viewer)
	revealAll := viewer == core.NoColor || p == nil || e.config.ShowAllCells

	var sb strings.Builder
	// Each cell is two visible characters plus up to ~12 bytes of escapes
	sb.Grow((b.Size*14 + 8) * (b.Size + 3))

	sb.WriteString("   ")
	for col := 0; col < b.Size; col++ {
		sb.WriteString(core.IntToStringFixedWidth(col, 3))
	}
	sb.WriteString("\n")

	for row := 0; row < b.Size; row++ {
		sb.WriteString(core.IntToStringFixedWidth(row, 2))
		sb.WriteString(" ")
		for col := 0; col < b.Size; col++ {
			c := core.NewCoordinate(row, col)
			visible, explored := true, true
			if !revealAll {
				k := b.KeyOf(c)
				visible = p.Visible.Has(k)
				explored = p.Explored.Has(k)
			}
			color, symbol := cellDisplay(b.At(c), visible, explored)
			sb.WriteString(" ")
			if colored && color != "" {
				sb.WriteString(color)
				sb.WriteString(symbol)
				sb.WriteString(common.ColorReset)
			} else {
				sb.WriteString(symbol)
			}
		}
		sb.WriteString("\n")
	}

	sb.WriteString("\n")
	sb.WriteString(strings.TrimSpace(emptySymbol) + "=empty ")
	sb.WriteString(strings.TrimSpace(waterSymbol) + "=water ")
	sb.WriteString(strings.TrimSpace(forestSymbol) + "=forest ")
	sb.WriteString(strings.TrimSpace(mountainSymbol) + "=mountain ")
	sb.WriteString(strings.TrimSpace(rewardSymbol) + "=reward ")
	sb.WriteString(strings.TrimSpace(fogSymbol) + "=fog\n")
	return sb.String()
}

// cellDisplay picks the color and two-character symbol for a cell.
// Explored but hidden cells keep their terrain and lose their pieces.
func cellDisplay(cell *core.Cell, visible, explored bool) (string, string) {
	if !explored {
		return common.FogColor, fogSymbol
	}
	switch {
	case cell.IsTerrain():
		switch cell.Terrain.Kind {
		case core.Water:
			return common.WaterColor, waterSymbol
		case core.Forest:
			return common.ForestColor, forestSymbol
		case core.Mountain:
			return common.MountainColor, mountainSymbol
		default:
			if !visible {
				// Someone else may have claimed it since
				return common.FogColor, emptySymbol
			}
			return common.RewardColor, rewardSymbol
		}
	case cell.HasPiece() && visible:
		pc := cell.Piece
		return common.PlayerColor(pc.Color.String()), pc.Color.String()[:1] + strings.ToUpper(pc.Type.Symbol())
	case !visible:
		return common.FogColor, emptySymbol
	default:
		return "", emptySymbol
	}
}
