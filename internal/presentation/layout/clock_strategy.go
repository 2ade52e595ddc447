package layout

import (
	"strings"

	"github.com/penwyp/go-hackathon-board/internal/util"
)

// ClockLayoutStrategy shows a large HH:MM:SS clock with the countdown below.
type ClockLayoutStrategy struct {
	BaseStrategy
}

func (s *ClockLayoutStrategy) GetName() string {
	return "Clock"
}

func (s *ClockLayoutStrategy) Render(f Frame) []string {
	width := f.width()
	if f.ShowHelp {
		return s.HelpLines(width)
	}

	clock := s.ClockText(f)
	var digits []string
	if bigTextWidth(clock) <= width {
		digits = bigText(clock)
	} else {
		digits = []string{clock}
	}

	lines := blank(1)
	for _, row := range s.Center(digits, width) {
		lines = append(lines, s.style(f, util.ColorCyan, row))
	}
	lines = append(lines, blank(1)...)

	if next, left, ok := s.NextParts(f); ok {
		lines = append(lines,
			s.style(f, util.ColorYellow, util.CenterText(next, width)),
			s.style(f, util.ColorCyan, util.CenterText(left, width)),
		)
	} else if f.Snapshot.Len() == 0 {
		lines = append(lines, util.CenterText(EmptyScheduleMessage, width))
	} else {
		lines = append(lines, s.dim(f, util.CenterText(NoCountdownMessage, width)))
	}

	lines = append(lines, blank(1)...)
	return append(lines, s.Footer(f, width)...)
}

// glyphs is a 5-row block font for the clock characters.
var glyphs = map[rune][5]string{
	'0': {"█████", "█   █", "█   █", "█   █", "█████"},
	'1': {"   █ ", "  ██ ", "   █ ", "   █ ", "  ███"},
	'2': {"█████", "    █", "█████", "█    ", "█████"},
	'3': {"█████", "    █", " ████", "    █", "█████"},
	'4': {"█   █", "█   █", "█████", "    █", "    █"},
	'5': {"█████", "█    ", "█████", "    █", "█████"},
	'6': {"█████", "█    ", "█████", "█   █", "█████"},
	'7': {"█████", "    █", "   █ ", "  █  ", "  █  "},
	'8': {"█████", "█   █", "█████", "█   █", "█████"},
	'9': {"█████", "█   █", "█████", "    █", "█████"},
	':': {"   ", " █ ", "   ", " █ ", "   "},
}

// bigText renders text in the block font. Runes without a glyph are skipped.
func bigText(text string) []string {
	rows := make([]string, 5)
	for i := range rows {
		parts := make([]string, 0, len(text))
		for _, r := range text {
			if g, ok := glyphs[r]; ok {
				parts = append(parts, g[i])
			}
		}
		rows[i] = strings.Join(parts, " ")
	}
	return rows
}

func bigTextWidth(text string) int {
	return util.GetDisplayWidth(bigText(text)[0])
}
