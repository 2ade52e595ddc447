package layout

import (
	"os"
	"strings"

	"github.com/mattn/go-runewidth"
	"golang.org/x/term"
)

// Package-level singleton Sizer instance
var sharedSizer = &Sizer{fd: int(os.Stdout.Fd())}

// Terminal size limits for the board.
const (
	MinWidth      = 40
	MaxWidth      = 100
	DefaultWidth  = 74
	DefaultHeight = 24
)

// Sizer measures the terminal and pads text by display width.
type Sizer struct {
	fd int
}

// NewSizer measures the terminal behind fd.
func NewSizer(fd int) *Sizer {
	return &Sizer{fd: fd}
}

// PadString pads a string to a specific display width, handling wide runes correctly
func (s Sizer) PadString(text string, width int, leftAlign bool) string {
	actualWidth := runewidth.StringWidth(text)
	if actualWidth >= width {
		return text
	}

	padding := strings.Repeat(" ", width-actualWidth)
	if leftAlign {
		return text + padding
	}
	return padding + text
}

// GetSize returns the terminal size, or defaults when fd is not a terminal.
func (s Sizer) GetSize() (width, height int) {
	w, h, err := term.GetSize(s.fd)
	if err != nil || w <= 0 || h <= 0 {
		return DefaultWidth, DefaultHeight
	}
	return w, h
}

// GetMaxWidth returns the drawing width: the terminal width minus a small
// margin, clamped to [MinWidth, MaxWidth].
func (s Sizer) GetMaxWidth() int {
	w, _ := s.GetSize()
	return clampWidth(w - 2)
}

func clampWidth(w int) int {
	if w < MinWidth {
		return MinWidth
	}
	if w > MaxWidth {
		return MaxWidth
	}
	return w
}
