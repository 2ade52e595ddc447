package filestore

import (
	"bytes"
	"fmt"

	"github.com/bytedance/sonic"
	"github.com/penwyp/go-hackathon-board/internal/core/model"
)

// Record is one schedule row using the persisted field names.
type Record struct {
	ID          int64  `json:"id"`
	StartTime   string `json:"start_time"`
	Name        string `json:"name"`
	NameEnglish string `json:"name_english,omitempty"`
	IsImportant bool   `json:"is_important"`
}

// Document is the on-disk layout of the schedule file.
type Document struct {
	NextID    int64    `json:"next_id"`
	Schedules []Record `json:"schedules"`
}

// legacyRecord is the array element written by the first browser-only
// version of the board.
type legacyRecord struct {
	ID    int64  `json:"id"`
	Time  string `json:"time"`
	Event string `json:"event"`
}

// RecordOf converts an entry into its persisted form.
func RecordOf(e model.ScheduleEntry) Record {
	return Record{
		ID:          int64(e.ID),
		StartTime:   string(e.TimeOfDay),
		Name:        e.Title,
		NameEnglish: e.TitleSecondary,
		IsImportant: e.Important,
	}
}

// Entry converts a persisted record. The time is not validated here.
func (r Record) Entry() model.ScheduleEntry {
	return model.ScheduleEntry{
		ID:             model.EntryID(r.ID),
		TimeOfDay:      model.TimeOfDay(r.StartTime),
		Title:          r.Name,
		TitleSecondary: r.NameEnglish,
		Important:      r.IsImportant,
	}
}

// DecodeDocument parses either the current document or the legacy array format.
func DecodeDocument(data []byte) (*Document, error) {
	trimmed := bytes.TrimSpace(data)
	if len(trimmed) == 0 {
		return &Document{NextID: 1}, nil
	}

	if trimmed[0] == '[' {
		var legacy []legacyRecord
		if err := sonic.Unmarshal(trimmed, &legacy); err != nil {
			return nil, fmt.Errorf("decode legacy schedule: %w", err)
		}
		return fromLegacy(legacy), nil
	}

	var doc Document
	if err := sonic.Unmarshal(trimmed, &doc); err != nil {
		return nil, fmt.Errorf("decode schedule: %w", err)
	}
	doc.normalize()
	return &doc, nil
}

// EncodeDocument renders doc as indented JSON.
func EncodeDocument(doc *Document) ([]byte, error) {
	if doc.Schedules == nil {
		doc.Schedules = []Record{}
	}
	data, err := sonic.ConfigStd.MarshalIndent(doc, "", "  ")
	if err != nil {
		return nil, fmt.Errorf("encode schedule: %w", err)
	}
	return append(data, '\n'), nil
}

func fromLegacy(legacy []legacyRecord) *Document {
	doc := &Document{Schedules: make([]Record, 0, len(legacy))}
	for _, l := range legacy {
		name, important := model.SplitLegacyTitle(l.Event)
		doc.Schedules = append(doc.Schedules, Record{
			ID:          l.ID,
			StartTime:   l.Time,
			Name:        name,
			IsImportant: important,
		})
	}
	doc.normalize()
	return doc
}

// normalize keeps next_id ahead of every stored id.
func (d *Document) normalize() {
	for _, r := range d.Schedules {
		if r.ID >= d.NextID {
			d.NextID = r.ID + 1
		}
	}
	if d.NextID < 1 {
		d.NextID = 1
	}
}
