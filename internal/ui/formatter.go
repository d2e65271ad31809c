package ui

import (
	"strings"

	"github.com/mattn/go-runewidth"
)

// PadRight pads str with spaces to the given display width
func PadRight(str string, width int) string {
	w := runewidth.StringWidth(str)
	if w < width {
		return str + strings.Repeat(" ", width-w)
	}
	return str
}

// Truncate shortens str to the given display width, ending with "..."
func Truncate(str string, width int) string {
	return runewidth.Truncate(str, width, "...")
}
