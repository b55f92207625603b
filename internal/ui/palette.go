// Package ui holds the game's look: the four-shade palette, button colour
// sets and a button widget drawn onto a core.Screen.
package ui

import (
	"github.com/charmbracelet/lipgloss"

	"github.com/vovakirdan/chrysopoeia/internal/core"
)

// Hex values of the palette shades.
var hex = map[core.Color]string{
	core.ColorBlack:   "#000000",
	core.ColorDarker:  "#081820",
	core.ColorDark:    "#346856",
	core.ColorLight:   "#88c070",
	core.ColorLighter: "#e0f8d0",
	core.ColorWhite:   "#ffffff",
}

// Hex returns the RGB hex string of a palette colour, or "" for the default.
func Hex(c core.Color) string {
	return hex[c]
}

// TerminalColor maps a palette colour to a lipgloss colour.
// ColorDefault maps to lipgloss.NoColor so the terminal's own colour shows.
func TerminalColor(c core.Color) lipgloss.TerminalColor {
	h, ok := hex[c]
	if !ok {
		return lipgloss.NoColor{}
	}
	return lipgloss.Color(h)
}

// CellStyle returns the lipgloss style for a cell's colours.
func CellStyle(fg, bg core.Color) lipgloss.Style {
	return lipgloss.NewStyle().
		Foreground(TerminalColor(fg)).
		Background(TerminalColor(bg))
}
