package rules

import (
	"testing"

	"github.com/mitchelldurbincs/FogOfWarChess/internal/game/core"
	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
)

type mockPlayer struct {
	color core.Color
	alive bool
}

func (m mockPlayer) GetColor() core.Color { return m.color }
func (m mockPlayer) IsAlive() bool        { return m.alive }

func TestCheckGameOver(t *testing.T) {
	tests := []struct {
		name     string
		original int
		players  []Player
		over     bool
		winner   core.Color
	}{
		{
			name:     "two alive",
			original: 2,
			players:  []Player{mockPlayer{core.White, true}, mockPlayer{core.Black, true}},
			over:     false,
			winner:   core.NoColor,
		},
		{
			name:     "one of four left",
			original: 4,
			players: []Player{
				mockPlayer{core.White, false}, mockPlayer{core.Black, false},
				mockPlayer{core.Red, true}, mockPlayer{core.Blue, false},
			},
			over:   true,
			winner: core.Red,
		},
		{
			name:     "nobody left",
			original: 2,
			players:  []Player{mockPlayer{core.White, false}, mockPlayer{core.Black, false}},
			over:     true,
			winner:   core.NoColor,
		},
		{
			name:     "solo sandbox continues",
			original: 1,
			players:  []Player{mockPlayer{core.White, true}},
			over:     false,
			winner:   core.NoColor,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			wc := NewWinConditionChecker(zerolog.Nop(), tt.original)
			over, winner := wc.CheckGameOver(tt.players)
			assert.Equal(t, tt.over, over)
			assert.Equal(t, tt.winner, winner)
		})
	}
}
