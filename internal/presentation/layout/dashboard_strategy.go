package layout

import (
	"github.com/penwyp/go-hackathon-board/internal/util"
)

// DashboardLayoutStrategy shows the clock, the next important entry with its
// countdown and the whole timeline with the active entry highlighted.
type DashboardLayoutStrategy struct {
	BaseStrategy
}

func (s *DashboardLayoutStrategy) GetName() string {
	return "Dashboard"
}

func (s *DashboardLayoutStrategy) Render(f Frame) []string {
	width := f.width()
	if f.ShowHelp {
		return s.HelpLines(width)
	}

	clock := s.ClockText(f)
	titleWidth := width - util.GetDisplayWidth(clock) - 1
	header := util.PadRight(f.EventTitle, titleWidth) + " " + clock

	lines := []string{s.style(f, util.ColorCyan, header), s.SeparatorLine(width)}

	if next, left, ok := s.NextParts(f); ok {
		lines = append(lines,
			s.style(f, util.ColorYellow, util.Truncate(next, width)),
			s.style(f, util.ColorCyan, left),
		)
	} else {
		lines = append(lines, s.dim(f, NoCountdownMessage))
	}
	lines = append(lines, s.SeparatorLine(width))

	if f.Snapshot.Len() == 0 {
		lines = append(lines, util.Truncate(EmptyScheduleMessage, width))
	} else {
		for i, e := range f.Snapshot.Entries() {
			lines = append(lines, s.EntryLine(f, e, i == f.Projection.ActiveIndex, width))
		}
	}

	lines = append(lines, s.SeparatorLine(width))
	return append(lines, s.Footer(f, width)...)
}
