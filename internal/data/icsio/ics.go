// Package icsio converts the schedule to and from iCalendar. Every entry is
// exported as a daily recurring event; importance maps to PRIORITY 1.
package icsio

import (
	"bytes"
	"errors"
	"fmt"
	"io"
	"strings"
	"time"

	ical "github.com/arran4/golang-ical"

	"github.com/penwyp/go-hackathon-board/internal/core/model"
	"github.com/penwyp/go-hackathon-board/internal/util"
)

const (
	productID         = "-//penwyp//go-hackathon-board//EN"
	importantPriority = "1"
)

// Export renders entries as a calendar anchored on day, in day's location.
func Export(entries []model.ScheduleEntry, day time.Time, calendarName string) string {
	cal := ical.NewCalendar()
	cal.SetMethod(ical.MethodPublish)
	cal.SetProductId(productID)
	if calendarName != "" {
		cal.SetName(calendarName)
	}

	stamp := time.Now().UTC()
	for _, e := range entries {
		ev := cal.AddEvent(fmt.Sprintf("schedule-%d@go-hackathon-board", e.ID))
		ev.SetDtStampTime(stamp)
		ev.SetStartAt(e.TimeOfDay.On(day))
		ev.SetSummary(e.Title)
		if e.TitleSecondary != "" {
			ev.SetDescription(e.TitleSecondary)
		}
		if e.Important {
			ev.SetProperty(ical.ComponentPropertyPriority, importantPriority)
		}
		ev.AddRrule("FREQ=DAILY")
	}

	return cal.Serialize()
}

// Import reads VEVENTs from r and returns one draft per timed event, with
// start times converted to loc. All-day events are skipped.
func Import(r io.Reader, loc *time.Location) ([]model.EntryDraft, error) {
	body, err := io.ReadAll(r)
	if err != nil {
		return nil, fmt.Errorf("read calendar: %w", err)
	}
	if len(bytes.TrimSpace(body)) == 0 {
		return nil, errors.New("empty ICS body")
	}
	if loc == nil {
		loc = time.Local
	}

	cal, err := ical.ParseCalendar(bytes.NewReader(body))
	if err != nil {
		return nil, fmt.Errorf("parse calendar: %w", err)
	}

	drafts := make([]model.EntryDraft, 0)
	for _, ve := range cal.Events() {
		d, ok := draftOf(ve, loc)
		if !ok {
			continue
		}
		drafts = append(drafts, d)
	}

	util.LogInfof("Imported %d calendar events", len(drafts))
	return drafts, nil
}

func draftOf(ve *ical.VEvent, loc *time.Location) (model.EntryDraft, bool) {
	var d model.EntryDraft

	dtStart := ve.GetProperty(ical.ComponentPropertyDtStart)
	if dtStart == nil || !strings.Contains(dtStart.Value, "T") {
		util.LogDebugf("Skipping calendar event %s without a start time", ve.Id())
		return d, false
	}

	start, err := ve.GetStartAt()
	if err != nil {
		util.LogWarnf("Skipping calendar event %s: %v", ve.Id(), err)
		return d, false
	}
	d.TimeOfDay = string(model.TimeOfDayOf(start.In(loc)))

	if p := ve.GetProperty(ical.ComponentPropertySummary); p != nil {
		d.Title, d.Important = model.SplitLegacyTitle(p.Value)
	}
	if p := ve.GetProperty(ical.ComponentPropertyDescription); p != nil {
		d.TitleSecondary = strings.TrimSpace(p.Value)
	}
	if p := ve.GetProperty(ical.ComponentPropertyPriority); p != nil && strings.TrimSpace(p.Value) == importantPriority {
		d.Important = true
	}

	return d, true
}
