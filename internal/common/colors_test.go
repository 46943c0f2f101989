package common

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestPlayerColor(t *testing.T) {
	tests := []struct {
		name     string
		expected string
	}{
		{"white", ColorWhite},
		{"black", ColorBlack},
		{"red", ColorRed},
		{"blue", ColorBlue},
		{"green", ColorWhite},
		{"", ColorWhite},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.expected, PlayerColor(tt.name))
		})
	}
}

func TestPlayerColorsDistinct(t *testing.T) {
	seen := make(map[string]string)
	for name, code := range PlayerColors {
		if other, ok := seen[code]; ok {
			t.Errorf("%s and %s share color code %q", name, other, code)
		}
		seen[code] = name
	}
	assert.Len(t, PlayerColors, 4)
}
