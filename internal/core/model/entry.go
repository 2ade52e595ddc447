package model

import (
	"fmt"
	"strings"
	"time"
)

// EntryID identifies a schedule entry. It is assigned by the persistent store.
type EntryID int64

// TimeOfDay is a zero-padded 24-hour "HH:MM" value. The fixed width keeps
// lexicographic and chronological order identical.
type TimeOfDay string

// ParseTimeOfDay validates s as "HH:MM" or "HH:MM:SS" and returns the
// "HH:MM" part. Trailing seconds are accepted and dropped.
func ParseTimeOfDay(s string) (TimeOfDay, error) {
	s = strings.TrimSpace(s)
	if s == "" {
		return "", NewValidationError("start_time", "is required")
	}

	switch len(s) {
	case 5:
	case 8:
		if s[5] != ':' || !isDigitIn(s[6], '0', '5') || !isDigitIn(s[7], '0', '9') {
			return "", NewValidationError("start_time", fmt.Sprintf("%q is not HH:MM", s))
		}
	default:
		return "", NewValidationError("start_time", fmt.Sprintf("%q is not HH:MM", s))
	}

	if !isDigitIn(s[0], '0', '2') || !isDigitIn(s[1], '0', '9') || s[2] != ':' ||
		!isDigitIn(s[3], '0', '5') || !isDigitIn(s[4], '0', '9') {
		return "", NewValidationError("start_time", fmt.Sprintf("%q is not HH:MM", s))
	}

	if s[:5] >= "24:00" {
		return "", NewValidationError("start_time", fmt.Sprintf("%q is past 23:59", s))
	}

	return TimeOfDay(s[:5]), nil
}

// MustTimeOfDay is ParseTimeOfDay for literals known to be valid.
func MustTimeOfDay(s string) TimeOfDay {
	t, err := ParseTimeOfDay(s)
	if err != nil {
		panic(err)
	}
	return t
}

// TimeOfDayOf returns the time of day of t in t's location, truncated to the minute.
func TimeOfDayOf(t time.Time) TimeOfDay {
	return TimeOfDay(fmt.Sprintf("%02d:%02d", t.Hour(), t.Minute()))
}

func isDigitIn(c, lo, hi byte) bool {
	return c >= lo && c <= hi
}

// Hour returns the hour component (0-23).
func (t TimeOfDay) Hour() int {
	if len(t) < 5 {
		return 0
	}
	return int(t[0]-'0')*10 + int(t[1]-'0')
}

// Minute returns the minute component (0-59).
func (t TimeOfDay) Minute() int {
	if len(t) < 5 {
		return 0
	}
	return int(t[3]-'0')*10 + int(t[4]-'0')
}

// Minutes returns minutes since midnight.
func (t TimeOfDay) Minutes() int {
	return t.Hour()*60 + t.Minute()
}

// On projects t onto the calendar date of day, in day's location.
func (t TimeOfDay) On(day time.Time) time.Time {
	return time.Date(day.Year(), day.Month(), day.Day(), t.Hour(), t.Minute(), 0, 0, day.Location())
}

func (t TimeOfDay) String() string {
	return string(t)
}

// ScheduleEntry is a single item on the board.
type ScheduleEntry struct {
	ID             EntryID
	TimeOfDay      TimeOfDay
	Title          string
	TitleSecondary string
	Important      bool
}

// EntryDraft holds every replaceable field of an entry. It is the payload
// of add and update.
type EntryDraft struct {
	TimeOfDay      string
	Title          string
	TitleSecondary string
	Important      bool
}

// Validate checks required fields and the time format and returns the
// draft with a normalized "HH:MM" time.
func (d EntryDraft) Validate() (EntryDraft, error) {
	tod, err := ParseTimeOfDay(d.TimeOfDay)
	if err != nil {
		return d, err
	}

	title := strings.TrimSpace(d.Title)
	if title == "" {
		return d, NewValidationError("name", "is required")
	}

	return EntryDraft{
		TimeOfDay:      string(tod),
		Title:          title,
		TitleSecondary: strings.TrimSpace(d.TitleSecondary),
		Important:      d.Important,
	}, nil
}

// WithID materializes a validated draft into an entry.
func (d EntryDraft) WithID(id EntryID) ScheduleEntry {
	return ScheduleEntry{
		ID:             id,
		TimeOfDay:      TimeOfDay(d.TimeOfDay),
		Title:          d.Title,
		TitleSecondary: d.TitleSecondary,
		Important:      d.Important,
	}
}

// Draft returns the replaceable fields of e.
func (e ScheduleEntry) Draft() EntryDraft {
	return EntryDraft{
		TimeOfDay:      string(e.TimeOfDay),
		Title:          e.Title,
		TitleSecondary: e.TitleSecondary,
		Important:      e.Important,
	}
}

// LegacyImportantPrefix is how early exports flagged importance inside the title.
const LegacyImportantPrefix = "Important:"

// SplitLegacyTitle strips the legacy importance marker from a title.
func SplitLegacyTitle(title string) (string, bool) {
	trimmed := strings.TrimSpace(title)
	if strings.HasPrefix(trimmed, LegacyImportantPrefix) {
		return strings.TrimSpace(strings.TrimPrefix(trimmed, LegacyImportantPrefix)), true
	}
	return trimmed, false
}
