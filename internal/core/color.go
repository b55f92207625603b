package core

// Color is an index into the game's palette. Cells carry a foreground and a
// background Color; the platform layer maps them to terminal colours.
type Color uint8

// Palette entries, darkest to lightest. ColorDefault leaves the terminal's
// own colour in place.
const (
	ColorDefault Color = iota
	ColorBlack
	ColorDarker
	ColorDark
	ColorLight
	ColorLighter
	ColorWhite
)

// String returns the palette name of the colour.
func (c Color) String() string {
	switch c {
	case ColorBlack:
		return "black"
	case ColorDarker:
		return "darker"
	case ColorDark:
		return "dark"
	case ColorLight:
		return "light"
	case ColorLighter:
		return "lighter"
	case ColorWhite:
		return "white"
	default:
		return "default"
	}
}
