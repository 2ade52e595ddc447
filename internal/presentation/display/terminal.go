package display

import (
	"bufio"
	"io"
	"os"
	"sync"

	"github.com/penwyp/go-hackathon-board/internal/core/model"
	"github.com/penwyp/go-hackathon-board/internal/presentation/layout"
	"github.com/penwyp/go-hackathon-board/internal/util"
)

// TerminalDisplay draws frames in the terminal's alternate screen and only
// rewrites lines that changed since the previous draw.
type TerminalDisplay struct {
	mu                sync.Mutex
	out               io.Writer
	inAlternateScreen bool
	previousScreen    []string
	currentView       model.ViewMode
	isFirstRender     bool
}

// NewTerminalDisplay writes to stdout.
func NewTerminalDisplay() *TerminalDisplay {
	return NewWriterDisplay(os.Stdout)
}

// NewWriterDisplay writes to out.
func NewWriterDisplay(out io.Writer) *TerminalDisplay {
	return &TerminalDisplay{out: out, isFirstRender: true}
}

// EnterAlternateScreen switches to alternate screen buffer
func (td *TerminalDisplay) EnterAlternateScreen() {
	td.mu.Lock()
	defer td.mu.Unlock()
	if td.inAlternateScreen {
		return
	}
	io.WriteString(td.out, util.EnterAltScreen+util.ClearScreen+util.MoveCursorHome+util.HideCursor)
	td.inAlternateScreen = true
	td.isFirstRender = true
}

// ExitAlternateScreen returns to normal screen buffer
func (td *TerminalDisplay) ExitAlternateScreen() {
	td.mu.Lock()
	defer td.mu.Unlock()
	if !td.inAlternateScreen {
		return
	}
	io.WriteString(td.out, util.ClearScreen+util.MoveCursorHome+util.ShowCursor+util.ExitAltScreen)
	td.inAlternateScreen = false
}

// ClearScreen clears the screen and forgets what was drawn.
func (td *TerminalDisplay) ClearScreen() {
	td.mu.Lock()
	defer td.mu.Unlock()
	td.clearLocked()
}

func (td *TerminalDisplay) clearLocked() {
	io.WriteString(td.out, util.ClearScreen+util.MoveCursorHome)
	td.previousScreen = td.previousScreen[:0]
}

// Render draws frame with the strategy for view.
func (td *TerminalDisplay) Render(view model.ViewMode, frame layout.Frame) {
	lines := layout.GetLayoutStrategy(view).Render(frame)

	td.mu.Lock()
	defer td.mu.Unlock()

	if td.isFirstRender || view != td.currentView {
		td.clearLocked()
		td.isFirstRender = false
		td.currentView = view
	}
	td.drawLocked(lines)
}

// drawLocked writes only the rows that differ from the previous screen.
func (td *TerminalDisplay) drawLocked(lines []string) {
	w := bufio.NewWriter(td.out)
	for i, line := range lines {
		if i < len(td.previousScreen) && td.previousScreen[i] == line {
			continue
		}
		w.WriteString(util.MoveCursor(i+1, 1))
		w.WriteString(line)
		w.WriteString(util.ClearLineFromCursor)
	}
	if len(lines) < len(td.previousScreen) {
		w.WriteString(util.MoveCursor(len(lines)+1, 1))
		w.WriteString(util.ClearToEnd)
	}
	if err := w.Flush(); err != nil {
		util.LogDebugf("display flush failed: %v", err)
	}

	td.previousScreen = append(td.previousScreen[:0], lines...)
}

// PrintOnce writes frame as plain lines, for non-interactive output.
func PrintOnce(out io.Writer, view model.ViewMode, frame layout.Frame) error {
	w := bufio.NewWriter(out)
	for _, line := range layout.GetLayoutStrategy(view).Render(frame) {
		w.WriteString(line)
		w.WriteByte('\n')
	}
	return w.Flush()
}
