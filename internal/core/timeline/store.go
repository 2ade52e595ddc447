package timeline

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"sync/atomic"
	"time"

	"github.com/penwyp/go-hackathon-board/internal/core/clock"
	"github.com/penwyp/go-hackathon-board/internal/core/model"
	"github.com/penwyp/go-hackathon-board/internal/metrics"
	"github.com/penwyp/go-hackathon-board/internal/util"
)

// maxLoadAttempts bounds how often Load re-fetches while local edits keep landing.
const maxLoadAttempts = 5

var errSuperseded = errors.New("superseded by concurrent local edits")

// Backend is the persistent store the timeline is loaded from and written through.
type Backend interface {
	FetchAll(ctx context.Context) ([]model.ScheduleEntry, error)
	Insert(ctx context.Context, draft model.EntryDraft) (model.ScheduleEntry, error)
	UpdateByID(ctx context.Context, id model.EntryID, draft model.EntryDraft) (model.ScheduleEntry, error)
	DeleteByID(ctx context.Context, id model.EntryID) error
}

// Observer receives every published snapshot.
type Observer func(snap *model.Snapshot)

// Store holds the time-ordered schedule and publishes whole-snapshot replacements.
type Store struct {
	backend Backend
	sink    metrics.Sink
	clock   clock.Clock

	snapshot atomic.Pointer[model.Snapshot]
	tickets  atomic.Uint64

	// publishMu guards applied, mutations and revision. applied is the
	// ticket of the newest fetch in the snapshot.
	publishMu sync.Mutex
	applied   uint64
	mutations uint64
	revision  uint64

	// notifyMu keeps observer calls ordered by revision.
	notifyMu     sync.Mutex
	notified     uint64
	observersMu  sync.RWMutex
	observers    map[int]Observer
	nextObserver int
}

// Option configures a Store.
type Option func(*Store)

// WithMetrics sets the metrics sink. The default is a no-op sink.
func WithMetrics(sink metrics.Sink) Option {
	return func(s *Store) {
		if sink != nil {
			s.sink = sink
		}
	}
}

// WithClock sets the clock used to stamp snapshots.
func WithClock(c clock.Clock) Option {
	return func(s *Store) {
		if c != nil {
			s.clock = c
		}
	}
}

// NewStore creates an empty store over backend. Call Load to populate it.
func NewStore(backend Backend, opts ...Option) *Store {
	s := &Store{
		backend:   backend,
		sink:      metrics.NewNoopSink(),
		clock:     clock.System(nil),
		observers: make(map[int]Observer),
	}
	for _, opt := range opts {
		opt(s)
	}
	s.snapshot.Store(model.EmptySnapshot)
	return s
}

// Snapshot returns the current snapshot. It never blocks and never returns nil.
func (s *Store) Snapshot() *model.Snapshot {
	return s.snapshot.Load()
}

// Subscribe registers fn for every future snapshot and returns a function
// that removes it.
func (s *Store) Subscribe(fn Observer) (unsubscribe func()) {
	s.observersMu.Lock()
	id := s.nextObserver
	s.nextObserver++
	s.observers[id] = fn
	s.observersMu.Unlock()

	var once sync.Once
	return func() {
		once.Do(func() {
			s.observersMu.Lock()
			delete(s.observers, id)
			s.observersMu.Unlock()
		})
	}
}

// Load replaces the whole schedule with a fresh fetch. On failure the
// previous snapshot stays in place and the error is returned. A result that
// completes after a newer fetch has been applied is discarded. A result that
// raced a local mutation is fetched again, so edits it carried are not lost.
func (s *Store) Load(ctx context.Context) error {
	start := time.Now()

	for attempt := 1; ; attempt++ {
		ticket := s.tickets.Add(1)
		s.publishMu.Lock()
		mark := s.mutations
		s.publishMu.Unlock()

		rows, err := s.backend.FetchAll(ctx)
		if err != nil {
			s.sink.LoadFailed()
			util.LogErrorf("Failed to load schedule: %v", err)
			return fmt.Errorf("load schedule: %w", err)
		}

		entries := sanitize(rows)

		s.publishMu.Lock()
		if ticket <= s.applied {
			s.publishMu.Unlock()
			s.sink.LoadDiscarded()
			util.LogDebugf("Discarding stale schedule fetch (ticket %d, applied %d)", ticket, s.applied)
			return nil
		}
		if s.mutations != mark {
			s.publishMu.Unlock()
			s.sink.LoadDiscarded()
			if attempt >= maxLoadAttempts {
				util.LogWarnf("Schedule fetch kept racing local edits, giving up after %d attempts", attempt)
				return fmt.Errorf("load schedule: %w", errSuperseded)
			}
			if err := ctx.Err(); err != nil {
				return fmt.Errorf("load schedule: %w", err)
			}
			util.LogDebugf("Schedule fetch raced a local edit, fetching again (attempt %d)", attempt)
			continue
		}
		s.applied = ticket
		s.revision++
		snap := model.NewSnapshot(entries, s.revision, s.clock.Now())
		s.snapshot.Store(snap)
		s.publishMu.Unlock()

		s.sink.LoadCompleted(time.Since(start), snap.Len())
		util.LogDebugf("Loaded %d schedule entries (revision %d)", snap.Len(), snap.Revision())
		s.notify(snap)
		return nil
	}
}

// Add validates draft, inserts it into the backend and then places it after
// every entry with the same or an earlier time.
func (s *Store) Add(ctx context.Context, draft model.EntryDraft) (model.ScheduleEntry, error) {
	valid, err := draft.Validate()
	if err != nil {
		s.sink.MutationFailed(metrics.OpAdd)
		return model.ScheduleEntry{}, err
	}

	created, err := s.backend.Insert(ctx, valid)
	if err != nil {
		s.sink.MutationFailed(metrics.OpAdd)
		util.LogWarnf("Failed to add schedule entry at %s: %v", valid.TimeOfDay, err)
		return model.ScheduleEntry{}, fmt.Errorf("add schedule entry: %w", err)
	}

	entry := valid.WithID(created.ID)
	s.mutate(func(cur *model.Snapshot, rev uint64, at time.Time) *model.Snapshot {
		// A reload may already have picked the row up.
		if cur.Find(entry.ID) >= 0 {
			return cur.WithReplaced(entry, rev, at)
		}
		return cur.WithInserted(entry, rev, at)
	})

	s.sink.MutationCompleted(metrics.OpAdd)
	return entry, nil
}

// Update replaces every field of the entry with id except the id itself.
func (s *Store) Update(ctx context.Context, id model.EntryID, draft model.EntryDraft) (model.ScheduleEntry, error) {
	if s.Snapshot().Find(id) < 0 {
		s.sink.MutationFailed(metrics.OpUpdate)
		return model.ScheduleEntry{}, model.NotFoundError(id)
	}

	valid, err := draft.Validate()
	if err != nil {
		s.sink.MutationFailed(metrics.OpUpdate)
		return model.ScheduleEntry{}, err
	}

	if _, err := s.backend.UpdateByID(ctx, id, valid); err != nil {
		s.sink.MutationFailed(metrics.OpUpdate)
		util.LogWarnf("Failed to update schedule entry %d: %v", id, err)
		return model.ScheduleEntry{}, fmt.Errorf("update schedule entry %d: %w", id, err)
	}

	entry := valid.WithID(id)
	s.mutate(func(cur *model.Snapshot, rev uint64, at time.Time) *model.Snapshot {
		if cur.Find(id) < 0 {
			return cur.WithInserted(entry, rev, at)
		}
		return cur.WithReplaced(entry, rev, at)
	})

	s.sink.MutationCompleted(metrics.OpUpdate)
	return entry, nil
}

// Remove deletes the entry with id from the backend and then locally.
func (s *Store) Remove(ctx context.Context, id model.EntryID) error {
	if err := s.backend.DeleteByID(ctx, id); err != nil {
		s.sink.MutationFailed(metrics.OpRemove)
		util.LogWarnf("Failed to remove schedule entry %d: %v", id, err)
		return fmt.Errorf("remove schedule entry %d: %w", id, err)
	}

	s.mutate(func(cur *model.Snapshot, rev uint64, at time.Time) *model.Snapshot {
		return cur.WithRemoved(id, rev, at)
	})

	s.sink.MutationCompleted(metrics.OpRemove)
	return nil
}

// OnExternalChange reloads the schedule. The notification content is not inspected.
func (s *Store) OnExternalChange(ctx context.Context, n model.Notification) error {
	s.sink.NotificationReceived(n.Source)
	util.LogDebugf("Schedule change notification from %s (%s)", n.Source, n.Op)
	return s.Load(ctx)
}

// mutate applies a local change on top of the current snapshot. Fetches in
// flight at that moment are re-issued by Load.
func (s *Store) mutate(apply func(cur *model.Snapshot, rev uint64, at time.Time) *model.Snapshot) {
	s.publishMu.Lock()
	s.mutations++
	s.revision++
	snap := apply(s.snapshot.Load(), s.revision, s.clock.Now())
	s.snapshot.Store(snap)
	s.publishMu.Unlock()

	s.notify(snap)
}

func (s *Store) notify(snap *model.Snapshot) {
	s.notifyMu.Lock()
	defer s.notifyMu.Unlock()

	// A newer snapshot was already delivered by a faster publisher.
	if snap.Revision() <= s.notified {
		return
	}
	s.notified = snap.Revision()

	s.observersMu.RLock()
	observers := make([]Observer, 0, len(s.observers))
	for _, fn := range s.observers {
		observers = append(observers, fn)
	}
	s.observersMu.RUnlock()

	for _, fn := range observers {
		fn(snap)
	}
}

// sanitize drops rows that violate the entry invariants and normalizes times.
func sanitize(rows []model.ScheduleEntry) []model.ScheduleEntry {
	out := make([]model.ScheduleEntry, 0, len(rows))
	seen := make(map[model.EntryID]bool, len(rows))

	for _, row := range rows {
		tod, err := model.ParseTimeOfDay(string(row.TimeOfDay))
		if err != nil {
			util.LogWarnf("Skipping schedule entry %d: %v", row.ID, err)
			continue
		}
		if seen[row.ID] {
			util.LogWarnf("Skipping duplicate schedule entry id %d", row.ID)
			continue
		}
		seen[row.ID] = true
		row.TimeOfDay = tod
		out = append(out, row)
	}

	return out
}
