package formatter

import (
	"fmt"
	"io"
	"strings"

	"github.com/penwyp/go-hackathon-board/internal/core/model"
	"github.com/penwyp/go-hackathon-board/internal/core/timeline"
)

// Row is one schedule entry as listed by the CLI.
type Row struct {
	ID            model.EntryID `json:"id"`
	Time          string        `json:"start_time"`
	Name          string        `json:"name"`
	NameSecondary string        `json:"name_english,omitempty"`
	Important     bool          `json:"is_important"`
	Active        bool          `json:"active,omitempty"`
	Next          bool          `json:"next,omitempty"`
}

// Listing is the schedule plus the board state at the time it was listed.
type Listing struct {
	Rows      []Row  `json:"schedules"`
	Revision  uint64 `json:"revision"`
	Countdown string `json:"countdown,omitempty"`
}

// Formatter writes a Listing in one output format.
type Formatter interface {
	Format(w io.Writer, l Listing) error
}

// New returns the formatter for table, json, csv or summary.
func New(format string) (Formatter, error) {
	switch strings.ToLower(format) {
	case "", "table":
		return NewTableFormatter(), nil
	case "json":
		return NewJSONFormatter(), nil
	case "csv":
		return NewCSVFormatter(), nil
	case "summary":
		return NewSummaryFormatter(), nil
	default:
		return nil, fmt.Errorf("invalid output format '%s': must be one of table, json, csv, summary", format)
	}
}

// NewListing builds a Listing from the snapshot a projection was computed on.
func NewListing(snap *model.Snapshot, p timeline.Projection) Listing {
	l := Listing{Revision: snap.Revision(), Rows: make([]Row, 0, snap.Len())}
	for i, e := range snap.Entries() {
		l.Rows = append(l.Rows, Row{
			ID:            e.ID,
			Time:          string(e.TimeOfDay),
			Name:          e.Title,
			NameSecondary: e.TitleSecondary,
			Important:     e.Important,
			Active:        i == p.ActiveIndex,
			Next:          p.Next != nil && p.Next.ID == e.ID,
		})
	}
	if p.HasCountdown {
		l.Countdown = p.Countdown.String()
	}
	return l
}
