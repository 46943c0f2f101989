package core

import (
	"fmt"
	"strings"
)

// PieceType identifies how a piece moves and how far it sees
type PieceType uint8

const (
	Pawn PieceType = iota
	Knight
	Bishop
	Rook
	Queen
	King
)

var pieceTypeNames = [...]string{"pawn", "knight", "bishop", "rook", "queen", "king"}

// MajorPieceTypes are the types placed on the back slots next to a king at game start
var MajorPieceTypes = []PieceType{Rook, Knight, Bishop, Queen}

// RewardPieceTypes are the types a reward site can grant
var RewardPieceTypes = []PieceType{Rook, Knight, Bishop, Queen, Pawn}

func (p PieceType) String() string {
	if int(p) < len(pieceTypeNames) {
		return pieceTypeNames[p]
	}
	return fmt.Sprintf("PieceType(%d)", p)
}

// Symbol returns a single letter for text views
func (p PieceType) Symbol() string {
	switch p {
	case Pawn:
		return "p"
	case Knight:
		return "n"
	case Bishop:
		return "b"
	case Rook:
		return "r"
	case Queen:
		return "q"
	case King:
		return "k"
	default:
		return "?"
	}
}

// ParsePieceType converts a name such as "rook" to a PieceType
func ParsePieceType(s string) (PieceType, error) {
	s = strings.ToLower(strings.TrimSpace(s))
	for i, name := range pieceTypeNames {
		if name == s {
			return PieceType(i), nil
		}
	}
	return 0, fmt.Errorf("unknown piece type %q", s)
}

// Color identifies a player. Turn order follows the numeric order.
type Color int8

const (
	NoColor Color = iota - 1
	White
	Black
	Red
	Blue
)

// MaxPlayers is the number of distinct player colors
const MaxPlayers = 4

// AllColors lists the player colors in turn order
var AllColors = []Color{White, Black, Red, Blue}

func (c Color) String() string {
	switch c {
	case White:
		return "white"
	case Black:
		return "black"
	case Red:
		return "red"
	case Blue:
		return "blue"
	case NoColor:
		return "none"
	default:
		return fmt.Sprintf("Color(%d)", c)
	}
}

// IsValid reports whether c is one of the four player colors
func (c Color) IsValid() bool {
	return c >= White && c <= Blue
}

// ParseColor converts a name such as "white" to a Color
func ParseColor(s string) (Color, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "white":
		return White, nil
	case "black":
		return Black, nil
	case "red":
		return Red, nil
	case "blue":
		return Blue, nil
	}
	return NoColor, fmt.Errorf("%w: %q", ErrInvalidPlayer, s)
}

func (p PieceType) MarshalText() ([]byte, error) {
	return []byte(p.String()), nil
}

func (p *PieceType) UnmarshalText(text []byte) error {
	parsed, err := ParsePieceType(string(text))
	if err != nil {
		return err
	}
	*p = parsed
	return nil
}

func (c Color) MarshalText() ([]byte, error) {
	return []byte(c.String()), nil
}

func (c *Color) UnmarshalText(text []byte) error {
	if string(text) == "none" {
		*c = NoColor
		return nil
	}
	parsed, err := ParseColor(string(text))
	if err != nil {
		return err
	}
	*c = parsed
	return nil
}

// Piece is a single unit owned by a player
type Piece struct {
	Type  PieceType `json:"type"`
	Color Color     `json:"color"`
}

func (p Piece) String() string {
	return p.Color.String() + " " + p.Type.String()
}
