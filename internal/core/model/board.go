package model

import (
	"fmt"
	"strings"
	"time"
)

// Notification is an opaque "something changed" signal from a change feed.
type Notification struct {
	Source     string // "fsnotify", "postgres", "redis", "hub", "manual" or "resync"
	Topic      string
	Op         string // best-effort operation name; consumers must not rely on it
	Payload    string
	ReceivedAt time.Time
}

// WrapPolicy decides what "next important entry" means once today's
// important entries have all started.
type WrapPolicy int

const (
	// WrapNone reports no countdown after the last important entry of the day.
	WrapNone WrapPolicy = iota
	// WrapNextDay counts down to the first important entry of tomorrow.
	WrapNextDay
)

// ParseWrapPolicy parses "none" or "next-day".
func ParseWrapPolicy(s string) (WrapPolicy, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "", "none":
		return WrapNone, nil
	case "next-day", "nextday", "tomorrow":
		return WrapNextDay, nil
	default:
		return WrapNone, fmt.Errorf("invalid wrap policy '%s': must be either 'none' or 'next-day'", s)
	}
}

func (p WrapPolicy) String() string {
	if p == WrapNextDay {
		return "next-day"
	}
	return "none"
}

// ViewMode selects what the display surface shows.
type ViewMode int

const (
	ViewDashboard ViewMode = iota
	ViewClock
	ViewTitle
)

// ParseViewMode parses "dashboard", "clock" or "title".
func ParseViewMode(s string) (ViewMode, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "", "dashboard":
		return ViewDashboard, nil
	case "clock":
		return ViewClock, nil
	case "title":
		return ViewTitle, nil
	default:
		return ViewDashboard, fmt.Errorf("invalid view '%s': must be one of dashboard, clock, title", s)
	}
}

func (v ViewMode) String() string {
	switch v {
	case ViewClock:
		return "clock"
	case ViewTitle:
		return "title"
	default:
		return "dashboard"
	}
}

// InteractionState represents the current UI interaction state
type InteractionState struct {
	View          ViewMode
	ShowHelp      bool
	IsLoading     bool
	StatusMessage string
}
