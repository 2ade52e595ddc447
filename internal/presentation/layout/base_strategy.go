package layout

import (
	"fmt"

	"github.com/penwyp/go-hackathon-board/internal/core/model"
	"github.com/penwyp/go-hackathon-board/internal/util"
)

// BaseStrategy provides common functionality for all layout strategies
type BaseStrategy struct{}

// GetSizer returns the shared sizer instance
func (b *BaseStrategy) GetSizer() *Sizer {
	return sharedSizer
}

func (b *BaseStrategy) style(f Frame, color, text string) string {
	if !f.Color {
		return text
	}
	return util.Bold(color, text)
}

func (b *BaseStrategy) dim(f Frame, text string) string {
	if !f.Color {
		return text
	}
	return util.Colorize(util.ColorDim, text)
}

// ClockText formats the wall clock as HH:MM:SS.
func (b *BaseStrategy) ClockText(f Frame) string {
	return f.Now.Format("15:04:05")
}

// EntryTitle is the display title of e: the important label when flagged,
// plus the secondary title when enabled.
func (b *BaseStrategy) EntryTitle(f Frame, e model.ScheduleEntry) string {
	title := e.Title
	if e.Important {
		title = f.importantText() + " " + title
	}
	if f.ShowSecondary && e.TitleSecondary != "" {
		title += " / " + e.TitleSecondary
	}
	return title
}

// NextParts returns the plain "Next: <title>" and "<countdown> left" texts,
// or ok=false when no countdown is running.
func (b *BaseStrategy) NextParts(f Frame) (next, left string, ok bool) {
	p := f.Projection
	if !p.HasCountdown || p.Next == nil {
		return "", "", false
	}

	title := p.Next.Title
	if f.ShowSecondary && p.Next.TitleSecondary != "" {
		title += " / " + p.Next.TitleSecondary
	}
	return "Next: " + title, p.Countdown.String() + " left", true
}

// EntryLine renders one timeline row.
func (b *BaseStrategy) EntryLine(f Frame, e model.ScheduleEntry, active bool, width int) string {
	marker := "  "
	if active {
		marker = "▶ "
	}
	text := fmt.Sprintf("%s%s  %s", marker, e.TimeOfDay, b.EntryTitle(f, e))
	text = util.PadRight(text, width)

	switch {
	case active:
		return b.style(f, util.ColorGreen, text)
	case e.Important:
		return b.style(f, util.ColorYellow, text)
	default:
		return text
	}
}

// SeparatorLine creates a separator line
func (b *BaseStrategy) SeparatorLine(width int) string {
	return util.Separator(width)
}

// Footer returns the status line and the key hint.
func (b *BaseStrategy) Footer(f Frame, width int) []string {
	lines := make([]string, 0, 2)
	if f.StatusMessage != "" {
		lines = append(lines, b.style(f, util.ColorRed, util.Truncate(f.StatusMessage, width)))
	}
	lines = append(lines, b.dim(f, util.Truncate(HelpHint, width)))
	return lines
}

// HelpLines lists the key bindings.
func (b *BaseStrategy) HelpLines(width int) []string {
	rows := []string{
		"Keys",
		"  1 / t   title view",
		"  2 / c   clock view",
		"  3 / d   dashboard view",
		"  r       reload schedule",
		"  h / ?   toggle this help",
		"  q / Esc quit",
	}
	for i := range rows {
		rows[i] = util.Truncate(rows[i], width)
	}
	return rows
}

// Center centers every line within width.
func (b *BaseStrategy) Center(lines []string, width int) []string {
	out := make([]string, len(lines))
	for i, l := range lines {
		out[i] = util.CenterText(l, width)
	}
	return out
}

func joinLines(parts ...[]string) []string {
	var out []string
	for _, p := range parts {
		out = append(out, p...)
	}
	return out
}

func blank(n int) []string {
	if n <= 0 {
		return nil
	}
	return make([]string, n)
}
