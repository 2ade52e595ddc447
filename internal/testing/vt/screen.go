// Package vt emulates just enough of a VT100 terminal to check what the
// board leaves on screen, and opens pseudo-terminals for raw-mode tests.
package vt

import (
	"strings"
	"sync"

	"github.com/mattn/go-runewidth"
)

// wideTail marks the second cell of a double-width rune.
const wideTail = rune(0)

// Screen is a virtual terminal screen. It implements io.Writer so it can be
// handed to anything that draws to a terminal.
type Screen struct {
	mu      sync.Mutex
	rows    int
	cols    int
	buffer  [][]rune
	cursorX int
	cursorY int

	altScreen bool
	pending   []byte // incomplete UTF-8 or escape sequence from the last Write
}

// NewScreen creates a blank rows x cols screen.
func NewScreen(rows, cols int) *Screen {
	s := &Screen{rows: rows, cols: cols, buffer: make([][]rune, rows)}
	for i := range s.buffer {
		s.buffer[i] = blankRow(cols)
	}
	return s
}

func blankRow(cols int) []rune {
	row := make([]rune, cols)
	for j := range row {
		row[j] = ' '
	}
	return row
}

// Write interprets p as terminal output.
func (s *Screen) Write(p []byte) (int, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	data := append(s.pending, p...)
	s.pending = nil
	consumed := s.feed(string(data))
	if consumed < len(data) {
		s.pending = append([]byte(nil), data[consumed:]...)
	}
	return len(p), nil
}

// feed processes text and returns how many bytes were fully handled.
func (s *Screen) feed(text string) int {
	i := 0
	for i < len(text) {
		switch c := text[i]; {
		case c == '\x1b':
			n, ok := s.escape(text[i:])
			if !ok {
				return i
			}
			i += n
		case c == '\r':
			s.cursorX = 0
			i++
		case c == '\n':
			s.lineFeed()
			i++
		case c == '\b':
			if s.cursorX > 0 {
				s.cursorX--
			}
			i++
		case c < 0x20:
			i++
		default:
			r, size := decodeRune(text[i:])
			if size == 0 {
				return i
			}
			s.putRune(r)
			i += size
		}
	}
	return i
}

// escape handles one CSI sequence at the start of seq. ok is false when the
// sequence is not complete yet.
func (s *Screen) escape(seq string) (n int, ok bool) {
	if len(seq) < 2 {
		return 0, false
	}
	if seq[1] != '[' {
		return 2, true
	}

	private := false
	params := []int{}
	current, hasDigit := 0, false
	for i := 2; i < len(seq); i++ {
		c := seq[i]
		switch {
		case c == '?':
			private = true
		case c >= '0' && c <= '9':
			current = current*10 + int(c-'0')
			hasDigit = true
		case c == ';':
			params = append(params, current)
			current, hasDigit = 0, false
		default:
			if hasDigit || len(params) > 0 {
				params = append(params, current)
			}
			if private {
				s.privateMode(rune(c), params)
			} else {
				s.command(rune(c), params)
			}
			return i + 1, true
		}
	}
	return 0, false
}

func param(params []int, i, def int) int {
	if i < len(params) && params[i] > 0 {
		return params[i]
	}
	return def
}

func (s *Screen) privateMode(cmd rune, params []int) {
	if param(params, 0, 0) != 1049 {
		return
	}
	switch cmd {
	case 'h':
		s.altScreen = true
	case 'l':
		s.altScreen = false
	}
}

func (s *Screen) command(cmd rune, params []int) {
	switch cmd {
	case 'H', 'f':
		s.cursorY = min(param(params, 0, 1), s.rows) - 1
		s.cursorX = min(param(params, 1, 1), s.cols) - 1
	case 'J':
		mode := 0
		if len(params) > 0 {
			mode = params[0]
		}
		switch mode {
		case 0:
			s.clearLineFrom(s.cursorY, s.cursorX)
			for y := s.cursorY + 1; y < s.rows; y++ {
				s.buffer[y] = blankRow(s.cols)
			}
		case 2:
			for y := range s.buffer {
				s.buffer[y] = blankRow(s.cols)
			}
		}
	case 'K':
		s.clearLineFrom(s.cursorY, s.cursorX)
	case 'A':
		s.cursorY = max(0, s.cursorY-param(params, 0, 1))
	case 'B':
		s.cursorY = min(s.rows-1, s.cursorY+param(params, 0, 1))
	case 'C':
		s.cursorX = min(s.cols-1, s.cursorX+param(params, 0, 1))
	case 'D':
		s.cursorX = max(0, s.cursorX-param(params, 0, 1))
	}
	// 'm' (colors) and anything else leave the cells alone.
}

func (s *Screen) clearLineFrom(y, x int) {
	if y < 0 || y >= s.rows {
		return
	}
	for j := x; j < s.cols; j++ {
		s.buffer[y][j] = ' '
	}
}

func (s *Screen) putRune(r rune) {
	w := runewidth.RuneWidth(r)
	if w == 0 {
		return
	}
	if s.cursorX+w > s.cols {
		s.cursorX = 0
		s.lineFeed()
	}
	s.buffer[s.cursorY][s.cursorX] = r
	if w == 2 {
		s.buffer[s.cursorY][s.cursorX+1] = wideTail
	}
	s.cursorX += w
}

func (s *Screen) lineFeed() {
	s.cursorX = 0
	if s.cursorY < s.rows-1 {
		s.cursorY++
		return
	}
	copy(s.buffer, s.buffer[1:])
	s.buffer[s.rows-1] = blankRow(s.cols)
}

// Line returns row i without trailing spaces.
func (s *Screen) Line(i int) string {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.lineLocked(i)
}

func (s *Screen) lineLocked(i int) string {
	if i < 0 || i >= s.rows {
		return ""
	}
	var b strings.Builder
	for _, r := range s.buffer[i] {
		if r != wideTail {
			b.WriteRune(r)
		}
	}
	return strings.TrimRight(b.String(), " ")
}

// Lines returns every row up to the last non-empty one.
func (s *Screen) Lines() []string {
	s.mu.Lock()
	defer s.mu.Unlock()

	out := make([]string, s.rows)
	last := -1
	for i := range out {
		out[i] = s.lineLocked(i)
		if out[i] != "" {
			last = i
		}
	}
	return out[:last+1]
}

// Contains reports whether text appears on any row.
func (s *Screen) Contains(text string) bool {
	for _, line := range s.Lines() {
		if strings.Contains(line, text) {
			return true
		}
	}
	return false
}

// InAltScreen reports whether the alternate screen buffer is active.
func (s *Screen) InAltScreen() bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.altScreen
}

// StripANSI removes CSI escape sequences from text.
func StripANSI(text string) string {
	var b strings.Builder
	for i := 0; i < len(text); i++ {
		if text[i] == '\x1b' && i+1 < len(text) && text[i+1] == '[' {
			j := i + 2
			for j < len(text) && (text[j] == ';' || text[j] == '?' || (text[j] >= '0' && text[j] <= '9')) {
				j++
			}
			i = j
			continue
		}
		b.WriteByte(text[i])
	}
	return b.String()
}
