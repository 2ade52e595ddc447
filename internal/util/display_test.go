package util

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestGetDisplayWidth(t *testing.T) {
	assert.Equal(t, 5, GetDisplayWidth("Lunch"))
	assert.Equal(t, 4, GetDisplayWidth("점심"))
}

func TestTruncate(t *testing.T) {
	assert.Equal(t, "Lunch", Truncate("Lunch", 10))
	assert.Equal(t, "Open…", Truncate("Opening ceremony", 5))
	assert.Equal(t, "", Truncate("anything", 0))
	assert.LessOrEqual(t, GetDisplayWidth(Truncate("해커톤 개막식", 5)), 5)
}

func TestPadRight(t *testing.T) {
	assert.Equal(t, "ab   ", PadRight("ab", 5))
	assert.Equal(t, "점심 ", PadRight("점심", 5))
	assert.Equal(t, 6, GetDisplayWidth(PadRight("Opening ceremony", 6)))
}

func TestCenterText(t *testing.T) {
	assert.Equal(t, "  ab  ", CenterText("ab", 6))
	assert.Equal(t, " ab  ", CenterText("ab", 5))
	assert.Equal(t, 7, GetDisplayWidth(CenterText("점심", 7)))
	assert.Equal(t, "abc", CenterText("abc", 3))
}

func TestColorize(t *testing.T) {
	assert.Equal(t, "x", Colorize("", "x"))
	assert.Equal(t, ColorRed+"x"+ColorReset, Colorize(ColorRed, "x"))
	assert.Equal(t, ColorBold+ColorCyan+"t"+ColorReset, Bold(ColorCyan, "t"))
	assert.Equal(t, "───", Separator(3))
	assert.Equal(t, "\033[2;5H", MoveCursor(2, 5))
}
