package layout

import (
	"github.com/penwyp/go-hackathon-board/internal/util"
)

// TitleLayoutStrategy shows the event title banner and what is happening now.
type TitleLayoutStrategy struct {
	BaseStrategy
}

func (s *TitleLayoutStrategy) GetName() string {
	return "Title"
}

func (s *TitleLayoutStrategy) Render(f Frame) []string {
	width := f.width()
	if f.ShowHelp {
		return s.HelpLines(width)
	}

	title := f.EventTitle
	if title == "" {
		title = "Hackathon"
	}
	border := "╭" + util.Separator(width-2) + "╮"
	bottom := "╰" + util.Separator(width-2) + "╯"
	inner := width - 2

	lines := []string{
		border,
		"│" + util.PadRight("", inner) + "│",
		"│" + s.style(f, util.ColorCyan, util.CenterText(title, inner)) + "│",
		"│" + util.PadRight("", inner) + "│",
		bottom,
	}
	lines = append(lines, blank(1)...)

	p := f.Projection
	switch {
	case p.Active != nil:
		now := "Now: " + s.EntryTitle(f, *p.Active)
		lines = append(lines, s.style(f, util.ColorGreen, util.CenterText(now, width)))
	case f.Snapshot.Len() == 0:
		lines = append(lines, util.CenterText(EmptyScheduleMessage, width))
	}

	if next, left, ok := s.NextParts(f); ok {
		lines = append(lines, util.CenterText(next+" · "+left, width))
	}

	return append(lines, s.Footer(f, width)...)
}
