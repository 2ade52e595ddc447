package filestore

import (
	"context"
	"fmt"
	"path/filepath"
	"sync"
	"time"

	"github.com/fsnotify/fsnotify"
	"github.com/penwyp/go-hackathon-board/internal/core/constants"
	"github.com/penwyp/go-hackathon-board/internal/core/feed"
	"github.com/penwyp/go-hackathon-board/internal/core/model"
	"github.com/penwyp/go-hackathon-board/internal/util"
)

// Watcher is a change feed for a schedule file. It watches the file's
// directory so atomic replacements by rename are seen.
type Watcher struct {
	path     string
	debounce time.Duration
}

// NewWatcher creates a feed for the schedule file at path.
func NewWatcher(path string) *Watcher {
	abs, err := filepath.Abs(path)
	if err != nil {
		abs = path
	}
	return &Watcher{path: abs, debounce: constants.WatcherDebounce}
}

// Subscribe starts watching. The topic is carried into notifications only.
func (w *Watcher) Subscribe(ctx context.Context, topic string, onEvent feed.Handler) (feed.Subscription, error) {
	// The baseline is taken before watching starts so a write racing
	// Subscribe still differs from it.
	baseline, _ := util.CalculateFileFingerprint(w.path)

	fsw, err := fsnotify.NewWatcher()
	if err != nil {
		return nil, fmt.Errorf("create file watcher: %w", err)
	}
	if err := fsw.Add(filepath.Dir(w.path)); err != nil {
		fsw.Close()
		return nil, fmt.Errorf("watch %s: %w", filepath.Dir(w.path), err)
	}

	ctx, cancel := context.WithCancel(ctx)
	done := make(chan struct{})
	go func() {
		defer close(done)
		w.processEvents(ctx, fsw, baseline, topic, onEvent)
	}()

	var once sync.Once
	var closeErr error
	return feed.SubscriptionFunc(func() error {
		once.Do(func() {
			cancel()
			closeErr = fsw.Close()
			<-done
		})
		return closeErr
	}), nil
}

func (w *Watcher) processEvents(ctx context.Context, fsw *fsnotify.Watcher, lastSeen, topic string, onEvent feed.Handler) {
	var (
		timer  *time.Timer
		fire   <-chan time.Time
		lastOp string
	)

	for {
		select {
		case <-ctx.Done():
			if timer != nil {
				timer.Stop()
			}
			return

		case event, ok := <-fsw.Events:
			if !ok {
				return
			}
			if filepath.Clean(event.Name) != w.path {
				continue
			}
			if !event.Has(fsnotify.Write) && !event.Has(fsnotify.Create) &&
				!event.Has(fsnotify.Rename) && !event.Has(fsnotify.Remove) {
				continue
			}
			lastOp = event.Op.String()
			if timer == nil {
				timer = time.NewTimer(w.debounce)
			} else {
				timer.Reset(w.debounce)
			}
			fire = timer.C

		case <-fire:
			fire = nil
			fingerprint, _ := util.CalculateFileFingerprint(w.path)
			if fingerprint == lastSeen {
				util.LogDebugf("Schedule file %s touched without content change", w.path)
				continue
			}
			lastSeen = fingerprint
			onEvent(model.Notification{
				Source:     "fsnotify",
				Topic:      topic,
				Op:         lastOp,
				Payload:    fingerprint,
				ReceivedAt: time.Now(),
			})

		case err, ok := <-fsw.Errors:
			if !ok {
				return
			}
			util.LogError("File monitoring error: " + err.Error())
		}
	}
}
