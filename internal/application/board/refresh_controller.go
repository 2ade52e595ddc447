package board

import (
	"context"
	"fmt"
	"time"

	"github.com/robfig/cron/v3"

	"github.com/penwyp/go-hackathon-board/internal/core/model"
	"github.com/penwyp/go-hackathon-board/internal/util"
)

// Notification sources raised by the board itself.
const (
	SourceManual = "manual"
	SourceResync = "resync"
)

// RefreshController turns change notifications into store reloads. Requests
// arriving while a reload is queued are coalesced into it, and reloads never
// run concurrently with each other.
type RefreshController struct {
	store   ScheduleStore
	pending chan model.Notification
	// onResult is called after every reload attempt.
	onResult func(err error)
}

// NewRefreshController creates a RefreshController instance
func NewRefreshController(store ScheduleStore, onResult func(err error)) *RefreshController {
	if onResult == nil {
		onResult = func(error) {}
	}
	return &RefreshController{
		store:    store,
		pending:  make(chan model.Notification, 1),
		onResult: onResult,
	}
}

// Notify requests a reload. It never blocks.
func (rc *RefreshController) Notify(n model.Notification) {
	select {
	case rc.pending <- n:
	default:
		util.LogDebugf("Reload already queued, coalescing %s notification", n.Source)
	}
}

// RequestReload queues a user-initiated reload.
func (rc *RefreshController) RequestReload() {
	rc.Notify(model.Notification{Source: SourceManual, ReceivedAt: time.Now()})
}

// Run performs queued reloads until ctx is done.
func (rc *RefreshController) Run(ctx context.Context) {
	for {
		select {
		case <-ctx.Done():
			return
		case n := <-rc.pending:
			err := rc.store.OnExternalChange(ctx, n)
			if err != nil && ctx.Err() != nil {
				return
			}
			rc.onResult(err)
		}
	}
}

// StartResync schedules periodic reloads with a cron spec and returns a stop
// function that waits for a running job to finish.
func (rc *RefreshController) StartResync(spec string) (stop func(), err error) {
	if spec == "" {
		return func() {}, nil
	}

	c := cron.New()
	if _, err := c.AddFunc(spec, func() {
		rc.Notify(model.Notification{Source: SourceResync, ReceivedAt: time.Now()})
	}); err != nil {
		return nil, fmt.Errorf("schedule resync %q: %w", spec, err)
	}
	c.Start()
	util.LogInfof("Periodic resync scheduled: %s", spec)

	return func() { <-c.Stop().Done() }, nil
}
