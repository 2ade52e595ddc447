package formatter

import (
	"fmt"
	"io"
	"strconv"
	"strings"

	"github.com/penwyp/go-hackathon-board/internal/util"
)

const (
	markerActive = "▶"
	markerNext   = "★"
)

type TableFormatter struct {
	headers []string
}

func NewTableFormatter() *TableFormatter {
	return &TableFormatter{
		headers: []string{"", "ID", "Time", "Name", "English", "Important"},
	}
}

func (f *TableFormatter) Format(w io.Writer, l Listing) error {
	if len(l.Rows) == 0 {
		_, err := fmt.Fprintln(w, "No schedule entries.")
		return err
	}

	rows := make([][]string, 0, len(l.Rows))
	for _, row := range l.Rows {
		rows = append(rows, f.cells(row))
	}
	widths := f.calculateColumnWidths(rows)

	var b strings.Builder
	f.writeBorder(&b, widths, "top")
	f.writeRow(&b, f.headers, widths)
	f.writeBorder(&b, widths, "middle")
	for _, cells := range rows {
		f.writeRow(&b, cells, widths)
	}
	f.writeBorder(&b, widths, "bottom")

	if l.Countdown != "" {
		fmt.Fprintf(&b, "%s next important entry in %s\n", markerNext, l.Countdown)
	}

	_, err := io.WriteString(w, b.String())
	return err
}

func (f *TableFormatter) cells(row Row) []string {
	marker := ""
	switch {
	case row.Active:
		marker = markerActive
	case row.Next:
		marker = markerNext
	}
	important := ""
	if row.Important {
		important = "yes"
	}
	return []string{
		marker,
		strconv.FormatInt(int64(row.ID), 10),
		row.Time,
		row.Name,
		row.NameSecondary,
		important,
	}
}

// calculateColumnWidths sizes each column to its widest cell in terminal cells.
func (f *TableFormatter) calculateColumnWidths(rows [][]string) []int {
	widths := make([]int, len(f.headers))
	for i, header := range f.headers {
		widths[i] = util.GetDisplayWidth(header)
	}
	for _, cells := range rows {
		for i, value := range cells {
			if w := util.GetDisplayWidth(value); w > widths[i] {
				widths[i] = w
			}
		}
	}
	return widths
}

func (f *TableFormatter) writeBorder(b *strings.Builder, widths []int, position string) {
	var left, middle, right string
	switch position {
	case "top":
		left, middle, right = "┌", "┬", "┐"
	case "middle":
		left, middle, right = "├", "┼", "┤"
	default:
		left, middle, right = "└", "┴", "┘"
	}

	b.WriteString(left)
	for i, width := range widths {
		b.WriteString(strings.Repeat("─", width+2)) // +2 for padding spaces
		if i < len(widths)-1 {
			b.WriteString(middle)
		}
	}
	b.WriteString(right)
	b.WriteByte('\n')
}

func (f *TableFormatter) writeRow(b *strings.Builder, values []string, widths []int) {
	b.WriteString("│")
	for i, value := range values {
		b.WriteByte(' ')
		if i == 1 {
			// IDs are right-aligned
			b.WriteString(strings.Repeat(" ", widths[i]-util.GetDisplayWidth(value)))
			b.WriteString(value)
		} else {
			b.WriteString(util.PadRight(value, widths[i]))
		}
		b.WriteString(" │")
	}
	b.WriteByte('\n')
}
