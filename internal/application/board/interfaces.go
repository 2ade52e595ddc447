package board

import (
	"context"

	"github.com/penwyp/go-hackathon-board/internal/core/model"
	"github.com/penwyp/go-hackathon-board/internal/core/timeline"
	"github.com/penwyp/go-hackathon-board/internal/presentation/interaction"
	"github.com/penwyp/go-hackathon-board/internal/presentation/layout"
)

// ScheduleStore is the part of timeline.Store the board reads from.
type ScheduleStore interface {
	// Snapshot returns the current ordered schedule
	Snapshot() *model.Snapshot
	// Subscribe registers an observer for new snapshots
	Subscribe(fn timeline.Observer) (unsubscribe func())
	// Load replaces the schedule with a fresh fetch
	Load(ctx context.Context) error
	// OnExternalChange reloads after a change notification
	OnExternalChange(ctx context.Context, n model.Notification) error
}

// DisplayController handles terminal display operations
type DisplayController interface {
	// EnterAlternateScreen switches to alternate terminal screen
	EnterAlternateScreen()
	// ExitAlternateScreen returns to normal terminal screen
	ExitAlternateScreen()
	// Render draws one frame in the given view
	Render(view model.ViewMode, frame layout.Frame)
}

// InputHandler processes keyboard and other input events
type InputHandler interface {
	// Events returns a channel of keyboard events
	Events() <-chan interaction.KeyEvent
	// Close cleans up input handler resources
	Close() error
}
