package formatter

import (
	"fmt"
	"io"
	"strings"
)

// SummaryFormatter writes a short report of the day's schedule.
type SummaryFormatter struct{}

// NewSummaryFormatter creates a new instance of SummaryFormatter.
func NewSummaryFormatter() *SummaryFormatter {
	return &SummaryFormatter{}
}

// Format writes entry counts, the time span, the entry in progress and the
// next important entry.
func (f *SummaryFormatter) Format(w io.Writer, l Listing) error {
	var b strings.Builder
	rule := strings.Repeat("=", 60)

	fmt.Fprintln(&b, rule)
	fmt.Fprintln(&b, "Schedule Summary")
	fmt.Fprintln(&b, rule)
	fmt.Fprintln(&b)

	if len(l.Rows) == 0 {
		fmt.Fprintln(&b, "No schedule entries")
		fmt.Fprintln(&b)
		fmt.Fprintln(&b, rule)
		_, err := io.WriteString(w, b.String())
		return err
	}

	important := 0
	var active, next *Row
	for i := range l.Rows {
		row := &l.Rows[i]
		if row.Important {
			important++
		}
		if row.Active {
			active = row
		}
		if row.Next {
			next = row
		}
	}

	first, last := l.Rows[0].Time, l.Rows[len(l.Rows)-1].Time
	if first == last {
		fmt.Fprintf(&b, "Time Range: %s\n", first)
	} else {
		fmt.Fprintf(&b, "Time Range: %s to %s\n", first, last)
	}
	fmt.Fprintf(&b, "Entries:    %d (%d important)\n", len(l.Rows), important)
	fmt.Fprintf(&b, "Revision:   %d\n", l.Revision)
	fmt.Fprintln(&b)

	if active != nil {
		fmt.Fprintf(&b, "Now:  %s %s\n", active.Time, active.Name)
	} else {
		fmt.Fprintln(&b, "Now:  not started")
	}
	if next != nil {
		fmt.Fprintf(&b, "Next: %s %s (in %s)\n", next.Time, next.Name, l.Countdown)
	} else {
		fmt.Fprintln(&b, "Next: no more important events today")
	}

	fmt.Fprintln(&b)
	fmt.Fprintln(&b, rule)

	_, err := io.WriteString(w, b.String())
	return err
}
