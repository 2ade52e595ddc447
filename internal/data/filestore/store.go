package filestore

import (
	"context"
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"sync"

	"github.com/penwyp/go-hackathon-board/internal/core/model"
	"github.com/penwyp/go-hackathon-board/internal/util"
)

// Store keeps the schedule in a single JSON file. Every write replaces the
// file atomically, so readers in other processes never see a partial document.
type Store struct {
	path string
	mu   sync.Mutex

	// Parsed copy of the file, valid while the file is unchanged on disk.
	cached     *Document
	cachedInfo *util.FileInfo
}

// New creates a store backed by path. The file is created on the first write.
func New(path string) (*Store, error) {
	if path == "" {
		return nil, errors.New("schedule file path is empty")
	}
	abs, err := filepath.Abs(path)
	if err != nil {
		return nil, fmt.Errorf("resolve schedule file: %w", err)
	}
	return &Store{path: abs}, nil
}

// Path returns the absolute path of the schedule file.
func (s *Store) Path() string {
	return s.path
}

func (s *Store) FetchAll(ctx context.Context) ([]model.ScheduleEntry, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	doc, err := s.read()
	if err != nil {
		return nil, err
	}

	entries := make([]model.ScheduleEntry, 0, len(doc.Schedules))
	for _, r := range doc.Schedules {
		entries = append(entries, r.Entry())
	}
	return entries, nil
}

func (s *Store) Insert(ctx context.Context, draft model.EntryDraft) (model.ScheduleEntry, error) {
	if err := ctx.Err(); err != nil {
		return model.ScheduleEntry{}, err
	}

	unlock, err := s.lockForWrite()
	if err != nil {
		return model.ScheduleEntry{}, err
	}
	defer unlock()

	doc, err := s.read()
	if err != nil {
		return model.ScheduleEntry{}, err
	}

	entry := draft.WithID(model.EntryID(doc.NextID))
	doc.NextID++
	doc.Schedules = append(doc.Schedules, RecordOf(entry))

	if err := s.write(doc); err != nil {
		return model.ScheduleEntry{}, err
	}
	return entry, nil
}

func (s *Store) UpdateByID(ctx context.Context, id model.EntryID, draft model.EntryDraft) (model.ScheduleEntry, error) {
	if err := ctx.Err(); err != nil {
		return model.ScheduleEntry{}, err
	}

	unlock, err := s.lockForWrite()
	if err != nil {
		return model.ScheduleEntry{}, err
	}
	defer unlock()

	doc, err := s.read()
	if err != nil {
		return model.ScheduleEntry{}, err
	}

	for i := range doc.Schedules {
		if doc.Schedules[i].ID == int64(id) {
			entry := draft.WithID(id)
			doc.Schedules[i] = RecordOf(entry)
			if err := s.write(doc); err != nil {
				return model.ScheduleEntry{}, err
			}
			return entry, nil
		}
	}
	return model.ScheduleEntry{}, model.NotFoundError(id)
}

func (s *Store) DeleteByID(ctx context.Context, id model.EntryID) error {
	if err := ctx.Err(); err != nil {
		return err
	}

	unlock, err := s.lockForWrite()
	if err != nil {
		return err
	}
	defer unlock()

	doc, err := s.read()
	if err != nil {
		return err
	}

	for i := range doc.Schedules {
		if doc.Schedules[i].ID == int64(id) {
			doc.Schedules = append(doc.Schedules[:i], doc.Schedules[i+1:]...)
			return s.write(doc)
		}
	}
	return model.NotFoundError(id)
}

// Import appends entries, assigning fresh ids, in one write.
func (s *Store) Import(ctx context.Context, drafts []model.EntryDraft) ([]model.ScheduleEntry, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	unlock, err := s.lockForWrite()
	if err != nil {
		return nil, err
	}
	defer unlock()

	doc, err := s.read()
	if err != nil {
		return nil, err
	}

	created := make([]model.ScheduleEntry, 0, len(drafts))
	for _, d := range drafts {
		entry := d.WithID(model.EntryID(doc.NextID))
		doc.NextID++
		doc.Schedules = append(doc.Schedules, RecordOf(entry))
		created = append(created, entry)
	}

	if err := s.write(doc); err != nil {
		return nil, err
	}
	return created, nil
}

// lockForWrite serializes read-modify-write cycles within the process and,
// through an advisory lock on a sidecar file, with other processes sharing
// the schedule file.
func (s *Store) lockForWrite() (func(), error) {
	s.mu.Lock()
	if err := os.MkdirAll(filepath.Dir(s.path), 0o700); err != nil {
		s.mu.Unlock()
		return nil, fmt.Errorf("create schedule dir: %w", err)
	}
	release, err := lockFile(s.path + ".lock")
	if err != nil {
		s.mu.Unlock()
		return nil, err
	}
	return func() {
		release()
		s.mu.Unlock()
	}, nil
}

// read returns a private copy of the document. Callers hold s.mu.
func (s *Store) read() (*Document, error) {
	info, err := util.GetFileInfo(s.path)
	if errors.Is(err, fs.ErrNotExist) {
		return &Document{NextID: 1}, nil
	}
	if err != nil {
		return nil, fmt.Errorf("stat schedule file: %w", err)
	}

	if s.cached == nil || !info.Same(s.cachedInfo) {
		data, err := os.ReadFile(s.path)
		if err != nil {
			return nil, fmt.Errorf("read schedule file: %w", err)
		}
		doc, err := DecodeDocument(data)
		if err != nil {
			return nil, fmt.Errorf("%s: %w", s.path, err)
		}
		s.cached = doc
		s.cachedInfo = info
		util.LogDebugf("Schedule file %s read (%d entries)", s.path, len(doc.Schedules))
	}

	return s.cached.clone(), nil
}

// write replaces the file with doc via a temp file and rename. Callers hold s.mu.
func (s *Store) write(doc *Document) error {
	data, err := EncodeDocument(doc)
	if err != nil {
		return err
	}

	dir := filepath.Dir(s.path)
	if err := os.MkdirAll(dir, 0o700); err != nil {
		return fmt.Errorf("create schedule dir: %w", err)
	}

	tmp, err := os.CreateTemp(dir, ".schedule-*.tmp")
	if err != nil {
		return fmt.Errorf("create temp file: %w", err)
	}
	tmpName := tmp.Name()
	defer os.Remove(tmpName)

	if _, err := tmp.Write(data); err != nil {
		tmp.Close()
		return fmt.Errorf("write temp file: %w", err)
	}
	if err := tmp.Sync(); err != nil {
		tmp.Close()
		return fmt.Errorf("sync temp file: %w", err)
	}
	if err := tmp.Close(); err != nil {
		return fmt.Errorf("close temp file: %w", err)
	}
	if err := os.Chmod(tmpName, 0o600); err != nil {
		return fmt.Errorf("chmod temp file: %w", err)
	}
	if err := os.Rename(tmpName, s.path); err != nil {
		return fmt.Errorf("replace schedule file: %w", err)
	}

	// Forget the cache; the next read picks up the new inode.
	s.cached = nil
	s.cachedInfo = nil
	return nil
}

func (d *Document) clone() *Document {
	out := &Document{NextID: d.NextID, Schedules: make([]Record, len(d.Schedules))}
	copy(out.Schedules, d.Schedules)
	return out
}
