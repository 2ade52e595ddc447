package vt

import (
	"os"
	"testing"

	"github.com/mattn/go-runewidth"
	"github.com/stretchr/testify/assert"
	"golang.org/x/term"
)

func TestMain(m *testing.M) {
	runewidth.DefaultCondition.EastAsianWidth = false
	os.Exit(m.Run())
}

func write(s *Screen, text string) {
	_, _ = s.Write([]byte(text))
}

func TestScreenCursorAndClear(t *testing.T) {
	s := NewScreen(5, 20)
	write(s, "hello\r\nworld")
	assert.Equal(t, []string{"hello", "world"}, s.Lines())

	write(s, "\x1b[1;3Hxy\x1b[K")
	assert.Equal(t, "hexy", s.Line(0))

	write(s, "\x1b[2;1H\x1b[J")
	assert.Equal(t, []string{"hexy"}, s.Lines())

	write(s, "\x1b[2J\x1b[H")
	assert.Empty(t, s.Lines())
}

func TestScreenIgnoresColorsAndTracksAltScreen(t *testing.T) {
	s := NewScreen(3, 20)
	write(s, "\x1b[?1049h\x1b[?25l\x1b[1;36mBoard\x1b[0m")
	assert.True(t, s.InAltScreen())
	assert.Equal(t, "Board", s.Line(0))

	write(s, "\x1b[?25h\x1b[?1049l")
	assert.False(t, s.InAltScreen())
}

func TestScreenWideRunesAndSplitWrites(t *testing.T) {
	s := NewScreen(2, 10)
	text := []byte("개회식 ok")
	// Split inside the first rune and inside an escape sequence.
	_, _ = s.Write(text[:1])
	_, _ = s.Write(text[1:])
	_, _ = s.Write([]byte("\x1b["))
	_, _ = s.Write([]byte("2;1HX"))

	assert.Equal(t, "개회식 ok", s.Line(0))
	assert.Equal(t, "X", s.Line(1))
}

func TestScreenScrolls(t *testing.T) {
	s := NewScreen(2, 10)
	write(s, "a\nb\nc")
	assert.Equal(t, []string{"b", "c"}, s.Lines())
	assert.True(t, s.Contains("c"))
	assert.False(t, s.Contains("a"))
}

func TestStripANSI(t *testing.T) {
	assert.Equal(t, "Next: Keynote", StripANSI("\x1b[1;33mNext:\x1b[0m Keynote\x1b[?25l"))
}

func TestOpenPTY(t *testing.T) {
	_, tty := OpenPTY(t, 30, 90)
	assert.True(t, term.IsTerminal(int(tty.Fd())))

	w, h, err := term.GetSize(int(tty.Fd()))
	assert.NoError(t, err)
	assert.Equal(t, 90, w)
	assert.Equal(t, 30, h)
}
