package layout

import (
	"time"

	"github.com/penwyp/go-hackathon-board/internal/core/model"
	"github.com/penwyp/go-hackathon-board/internal/core/timeline"
)

// Frame is everything one screen needs. It is built fresh for every tick.
type Frame struct {
	Now        time.Time
	Snapshot   *model.Snapshot
	Projection timeline.Projection

	EventTitle    string
	ImportantText string // label shown before important titles
	ShowSecondary bool
	StatusMessage string
	ShowHelp      bool

	// Width is the usable number of terminal cells; 0 means ask the Sizer.
	Width int
	// Color enables ANSI styling.
	Color bool
}

// Defaults for Frame text fields left empty.
const (
	DefaultImportantText = "Important:"
	EmptyScheduleMessage = "No schedule. Use `schedule add` to create one."
	NoCountdownMessage   = "No more important events today"
	HelpHint             = "1 title  2 clock  3 dashboard  r reload  h help  q quit"
)

func (f Frame) importantText() string {
	if f.ImportantText == "" {
		return DefaultImportantText
	}
	return f.ImportantText
}

func (f Frame) width() int {
	if f.Width > 0 {
		return f.Width
	}
	return sharedSizer.GetMaxWidth()
}
