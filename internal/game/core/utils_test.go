package core

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestIntToStringFixedWidth(t *testing.T) {
	tests := []struct {
		num      int
		width    int
		expected string
	}{
		{5, 2, " 5"},
		{15, 2, "15"},
		{123, 2, "123"},
		{0, 3, "  0"},
		{-4, 3, " -4"},
	}

	for _, tt := range tests {
		assert.Equal(t, tt.expected, IntToStringFixedWidth(tt.num, tt.width))
	}
}
