package model

import (
	"sort"
	"time"
)

// Snapshot is an immutable, time-ordered view of the schedule.
// A new Snapshot is built for every change; existing ones are never modified.
type Snapshot struct {
	entries  []ScheduleEntry
	revision uint64
	loadedAt time.Time
}

// EmptySnapshot is the state before the first successful load.
var EmptySnapshot = &Snapshot{}

// NewSnapshot copies entries, stable-sorts them by time of day and wraps them.
func NewSnapshot(entries []ScheduleEntry, revision uint64, loadedAt time.Time) *Snapshot {
	sorted := make([]ScheduleEntry, len(entries))
	copy(sorted, entries)
	sort.SliceStable(sorted, func(i, j int) bool {
		return sorted[i].TimeOfDay < sorted[j].TimeOfDay
	})
	return &Snapshot{entries: sorted, revision: revision, loadedAt: loadedAt}
}

// Len returns the number of entries.
func (s *Snapshot) Len() int {
	if s == nil {
		return 0
	}
	return len(s.entries)
}

// At returns the i-th entry in time order.
func (s *Snapshot) At(i int) ScheduleEntry {
	return s.entries[i]
}

// Entries returns a copy of the ordered entries.
func (s *Snapshot) Entries() []ScheduleEntry {
	if s == nil {
		return []ScheduleEntry{}
	}
	out := make([]ScheduleEntry, len(s.entries))
	copy(out, s.entries)
	return out
}

// Find returns the index of the entry with id, or -1.
func (s *Snapshot) Find(id EntryID) int {
	if s == nil {
		return -1
	}
	for i, e := range s.entries {
		if e.ID == id {
			return i
		}
	}
	return -1
}

// Revision increases with every published replacement.
func (s *Snapshot) Revision() uint64 {
	if s == nil {
		return 0
	}
	return s.revision
}

// LoadedAt is when the snapshot was published.
func (s *Snapshot) LoadedAt() time.Time {
	if s == nil {
		return time.Time{}
	}
	return s.loadedAt
}

// WithInserted returns a new snapshot with e placed after every entry whose
// time is not later than e's.
func (s *Snapshot) WithInserted(e ScheduleEntry, revision uint64, at time.Time) *Snapshot {
	pos := sort.Search(s.Len(), func(i int) bool {
		return s.entries[i].TimeOfDay > e.TimeOfDay
	})
	out := make([]ScheduleEntry, 0, s.Len()+1)
	out = append(out, s.entries[:pos]...)
	out = append(out, e)
	out = append(out, s.entries[pos:]...)
	return &Snapshot{entries: out, revision: revision, loadedAt: at}
}

// WithReplaced returns a new re-sorted snapshot where the entry with e.ID is replaced by e.
func (s *Snapshot) WithReplaced(e ScheduleEntry, revision uint64, at time.Time) *Snapshot {
	entries := s.Entries()
	for i := range entries {
		if entries[i].ID == e.ID {
			entries[i] = e
		}
	}
	return NewSnapshot(entries, revision, at)
}

// WithRemoved returns a new snapshot without the entry with id.
func (s *Snapshot) WithRemoved(id EntryID, revision uint64, at time.Time) *Snapshot {
	out := make([]ScheduleEntry, 0, s.Len())
	for _, e := range s.entries {
		if e.ID != id {
			out = append(out, e)
		}
	}
	return &Snapshot{entries: out, revision: revision, loadedAt: at}
}

// Equal reports whether both snapshots hold the same entries in the same order.
func (s *Snapshot) Equal(other *Snapshot) bool {
	if s.Len() != other.Len() {
		return false
	}
	for i := 0; i < s.Len(); i++ {
		if s.entries[i] != other.entries[i] {
			return false
		}
	}
	return true
}
