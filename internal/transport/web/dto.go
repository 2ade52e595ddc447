package web

import (
	"time"

	"github.com/penwyp/go-hackathon-board/internal/core/model"
	"github.com/penwyp/go-hackathon-board/internal/core/timeline"
)

type entryResponse struct {
	ID          model.EntryID `json:"id"`
	StartTime   string        `json:"start_time"`
	Name        string        `json:"name"`
	NameEnglish string        `json:"name_english,omitempty"`
	IsImportant bool          `json:"is_important"`
}

type scheduleResponse struct {
	Revision  uint64          `json:"revision"`
	LoadedAt  *time.Time      `json:"loaded_at,omitempty"`
	Schedules []entryResponse `json:"schedules"`
}

type entryRequest struct {
	StartTime   string `json:"start_time"`
	Name        string `json:"name"`
	NameEnglish string `json:"name_english"`
	IsImportant bool   `json:"is_important"`
}

type boardResponse struct {
	Now              time.Time      `json:"now"`
	Revision         uint64         `json:"revision"`
	ActiveIndex      int            `json:"active_index"`
	Active           *entryResponse `json:"active,omitempty"`
	Next             *entryResponse `json:"next,omitempty"`
	Countdown        string         `json:"countdown,omitempty"`
	CountdownSeconds *int64         `json:"countdown_seconds,omitempty"`
}

type errorResponse struct {
	Error string `json:"error"`
}

func toEntryResponse(e model.ScheduleEntry) entryResponse {
	return entryResponse{
		ID:          e.ID,
		StartTime:   string(e.TimeOfDay),
		Name:        e.Title,
		NameEnglish: e.TitleSecondary,
		IsImportant: e.Important,
	}
}

func toScheduleResponse(snap *model.Snapshot) scheduleResponse {
	entries := snap.Entries()
	out := scheduleResponse{
		Revision:  snap.Revision(),
		Schedules: make([]entryResponse, 0, len(entries)),
	}
	if at := snap.LoadedAt(); !at.IsZero() {
		out.LoadedAt = &at
	}
	for _, e := range entries {
		out.Schedules = append(out.Schedules, toEntryResponse(e))
	}
	return out
}

func toBoardResponse(p timeline.Projection) boardResponse {
	out := boardResponse{
		Now:         p.Now,
		Revision:    p.Revision,
		ActiveIndex: p.ActiveIndex,
	}
	if p.Active != nil {
		a := toEntryResponse(*p.Active)
		out.Active = &a
	}
	if p.Next != nil {
		n := toEntryResponse(*p.Next)
		out.Next = &n
	}
	if p.HasCountdown {
		secs := p.Countdown.Total()
		out.Countdown = p.Countdown.String()
		out.CountdownSeconds = &secs
	}
	return out
}

func (r entryRequest) draft() model.EntryDraft {
	return model.EntryDraft{
		TimeOfDay:      r.StartTime,
		Title:          r.Name,
		TitleSecondary: r.NameEnglish,
		Important:      r.IsImportant,
	}
}
