package common

// ANSI escape codes used by the text board views
const (
	ColorReset  = "\033[0m"
	ColorRed    = "\033[31m"
	ColorGreen  = "\033[32m"
	ColorYellow = "\033[33m"
	ColorBlue   = "\033[34m"
	ColorCyan   = "\033[36m"
	ColorWhite  = "\033[37m"
	ColorGray   = "\033[90m"
	ColorBlack  = "\033[30;47m"
)

// PlayerColors maps a player color name to the ANSI code used to draw its pieces
var PlayerColors = map[string]string{
	"white": ColorWhite,
	"black": ColorBlack,
	"red":   ColorRed,
	"blue":  ColorBlue,
}

// Terrain colors
var (
	WaterColor    = ColorCyan
	ForestColor   = ColorGreen
	MountainColor = ColorGray
	RewardColor   = ColorYellow
	FogColor      = ColorGray
)

// PlayerColor returns the ANSI code for a player color, falling back to plain white
func PlayerColor(name string) string {
	if c, ok := PlayerColors[name]; ok {
		return c
	}
	return ColorWhite
}
