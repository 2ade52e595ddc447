//go:build linux || darwin

package filestore

import (
	"context"
	"fmt"
	"path/filepath"
	"sync"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/penwyp/go-hackathon-board/internal/core/model"
)

// Two Store values on one path stand in for two processes: they share no
// mutex, only the lock file.
func TestStore_ConcurrentWritersShareFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "schedule.json")
	a, err := New(path)
	require.NoError(t, err)
	b, err := New(path)
	require.NoError(t, err)

	const perStore = 20
	var wg sync.WaitGroup
	for _, s := range []*Store{a, b} {
		wg.Add(1)
		go func(s *Store) {
			defer wg.Done()
			for i := 0; i < perStore; i++ {
				_, err := s.Insert(context.Background(), model.EntryDraft{TimeOfDay: "09:00", Title: fmt.Sprintf("e%d", i)})
				assert.NoError(t, err)
			}
		}(s)
	}
	wg.Wait()

	entries, err := a.FetchAll(context.Background())
	require.NoError(t, err)
	require.Len(t, entries, 2*perStore)

	seen := make(map[model.EntryID]bool)
	for _, e := range entries {
		assert.False(t, seen[e.ID], "duplicate id %d", e.ID)
		seen[e.ID] = true
	}
	assert.FileExists(t, path+".lock")
}
