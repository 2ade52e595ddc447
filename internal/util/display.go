package util

import (
	"fmt"
	"strings"

	"github.com/mattn/go-runewidth"
)

// Terminal colors
const (
	ColorReset  = "\033[0m"
	ColorCyan   = "\033[36m"
	ColorGreen  = "\033[32m"
	ColorYellow = "\033[33m"
	ColorRed    = "\033[31m"
	ColorBold   = "\033[1m"
	ColorDim    = "\033[2m"
)

// Terminal control sequences
const (
	ClearScreen         = "\033[2J"
	ClearLineFromCursor = "\033[0K"
	ClearToEnd          = "\033[0J"
	MoveCursorHome      = "\033[H"
	EnterAltScreen      = "\033[?1049h"
	ExitAltScreen       = "\033[?1049l"
	HideCursor          = "\033[?25l"
	ShowCursor          = "\033[?25h"
)

// GetDisplayWidth returns the number of terminal cells text occupies.
// Wide CJK characters count as two.
func GetDisplayWidth(text string) int {
	return runewidth.StringWidth(text)
}

// Truncate shortens text to at most width cells, ending with "…" when cut.
func Truncate(text string, width int) string {
	if width <= 0 {
		return ""
	}
	return runewidth.Truncate(text, width, "…")
}

// PadRight pads text with spaces to exactly width cells, truncating if needed.
func PadRight(text string, width int) string {
	text = Truncate(text, width)
	return runewidth.FillRight(text, width)
}

// CenterText centers text within the given width
func CenterText(text string, width int) string {
	text = Truncate(text, width)
	gap := width - GetDisplayWidth(text)
	if gap <= 0 {
		return text
	}
	left := gap / 2
	return strings.Repeat(" ", left) + text + strings.Repeat(" ", gap-left)
}

// Colorize wraps text in an ANSI color unless color is empty.
func Colorize(color, text string) string {
	if color == "" {
		return text
	}
	return color + text + ColorReset
}

// Bold renders text bold in the given color.
func Bold(color, text string) string {
	return fmt.Sprintf("%s%s%s%s", ColorBold, color, text, ColorReset)
}

// Separator returns a horizontal rule width cells wide.
func Separator(width int) string {
	if width <= 0 {
		return ""
	}
	return strings.Repeat("─", width)
}

// MoveCursor returns ANSI sequence to move cursor to specific position
func MoveCursor(row, col int) string {
	return fmt.Sprintf("\033[%d;%dH", row, col)
}
