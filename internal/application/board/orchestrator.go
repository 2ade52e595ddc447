package board

import (
	"context"
	"errors"
	"fmt"
	"io"
	"sync"
	"time"

	"github.com/penwyp/go-hackathon-board/internal/core/clock"
	"github.com/penwyp/go-hackathon-board/internal/core/feed"
	"github.com/penwyp/go-hackathon-board/internal/core/model"
	"github.com/penwyp/go-hackathon-board/internal/core/timeline"
	"github.com/penwyp/go-hackathon-board/internal/presentation/display"
	"github.com/penwyp/go-hackathon-board/internal/presentation/interaction"
	"github.com/penwyp/go-hackathon-board/internal/presentation/layout"
	"github.com/penwyp/go-hackathon-board/internal/util"
)

// Orchestrator coordinates the store, the change feed, the clock and the
// terminal for the display command.
type Orchestrator struct {
	config *BoardConfig
	policy model.WrapPolicy

	store        ScheduleStore
	feed         feed.Feed
	clock        clock.Clock
	stateManager *StateManager
	refreshCtrl  *RefreshController

	display  DisplayController
	newInput func() (InputHandler, error)

	redraw chan struct{}
}

// Option customizes an Orchestrator.
type Option func(*Orchestrator)

// WithFeed sets the change-notification feed. Without one the board only
// reloads on demand and on the resync schedule.
func WithFeed(f feed.Feed) Option {
	return func(o *Orchestrator) { o.feed = f }
}

// WithClock replaces the system clock.
func WithClock(c clock.Clock) Option {
	return func(o *Orchestrator) { o.clock = c }
}

// WithDisplay replaces the terminal display.
func WithDisplay(d DisplayController) Option {
	return func(o *Orchestrator) { o.display = d }
}

// WithInput replaces the raw-mode keyboard.
func WithInput(newInput func() (InputHandler, error)) Option {
	return func(o *Orchestrator) { o.newInput = newInput }
}

// NewOrchestrator creates a new Orchestrator instance
func NewOrchestrator(config *BoardConfig, store ScheduleStore, opts ...Option) (*Orchestrator, error) {
	if err := config.Validate(); err != nil {
		return nil, fmt.Errorf("invalid config: %w", err)
	}

	o := &Orchestrator{
		config:       config,
		policy:       config.wrapPolicy(),
		store:        store,
		clock:        clock.System(nil),
		stateManager: NewStateManager(config.viewMode()),
		display:      display.NewTerminalDisplay(),
		newInput: func() (InputHandler, error) {
			return interaction.NewKeyboardReader()
		},
		redraw: make(chan struct{}, 1),
	}
	for _, opt := range opts {
		opt(o)
	}
	o.refreshCtrl = NewRefreshController(store, o.onReloadResult)
	return o, nil
}

// State exposes the UI state, mainly for tests.
func (o *Orchestrator) State() *StateManager {
	return o.stateManager
}

// Run starts the orchestrator main loop. It returns when ctx is cancelled
// or the user quits.
func (o *Orchestrator) Run(ctx context.Context) error {
	util.LogInfo("Starting hackathon board...")

	ctx, cancel := context.WithCancel(ctx)
	defer cancel()

	// Phase 1: keyboard. Without a terminal the board still runs, view-only.
	var keys <-chan interaction.KeyEvent
	input, err := o.newInput()
	switch {
	case err == nil:
		defer input.Close()
		keys = input.Events()
	case errors.Is(err, interaction.ErrNotTerminal):
		util.LogWarn("Keyboard input unavailable, running without key bindings")
	default:
		return fmt.Errorf("failed to initialize keyboard: %w", err)
	}

	o.display.EnterAlternateScreen()
	defer o.display.ExitAlternateScreen()

	// Phase 2: change feed and reloads. Subscribed before the initial load so
	// no edit falls between the two.
	var wg sync.WaitGroup
	wg.Add(1)
	go func() {
		defer wg.Done()
		o.refreshCtrl.Run(ctx)
	}()
	defer wg.Wait()
	defer cancel()

	if o.feed != nil {
		sub, err := o.feed.Subscribe(ctx, o.config.Topic, o.refreshCtrl.Notify)
		if err != nil {
			o.stateManager.SetStatus("Live updates unavailable: " + err.Error())
			util.LogErrorf("Failed to subscribe to change feed: %v", err)
		} else {
			defer sub.Unsubscribe()
		}
	}

	// Phase 3: initial load and resync.
	unsubscribe := o.store.Subscribe(func(*model.Snapshot) { o.requestRedraw() })
	defer unsubscribe()

	o.stateManager.SetLoadingState(true, "Loading schedule...")
	o.render()
	if err := o.store.Load(ctx); err != nil {
		o.stateManager.SetLoadingState(false, "Load failed: "+err.Error())
	} else {
		o.stateManager.SetLoadingState(false, "")
	}

	stopResync, err := o.refreshCtrl.StartResync(o.config.ResyncCron)
	if err != nil {
		return err
	}
	defer stopResync()

	// Phase 4: main event loop
	ticks := make(chan time.Time, 1)
	ticker := o.clock.Every(o.config.RefreshRate, func(now time.Time) {
		select {
		case ticks <- now:
		default:
		}
	})
	defer ticker.Stop()

	o.render()

	for {
		select {
		case <-ctx.Done():
			util.LogInfo("Shutting down hackathon board...")
			return nil

		case <-ticks:
			o.render()

		case <-o.redraw:
			o.render()

		case event, ok := <-keys:
			if !ok {
				keys = nil
				continue
			}
			if o.handleKeyboard(event) {
				return nil
			}
			o.render()
		}
	}
}

// RenderOnce loads the schedule and prints a single frame to out.
func (o *Orchestrator) RenderOnce(ctx context.Context, out io.Writer) error {
	if err := o.store.Load(ctx); err != nil {
		return err
	}
	frame := o.frame()
	frame.Color = false
	return display.PrintOnce(out, o.stateManager.GetInteractionState().View, frame)
}

func (o *Orchestrator) requestRedraw() {
	select {
	case o.redraw <- struct{}{}:
	default:
	}
}

func (o *Orchestrator) onReloadResult(err error) {
	if err != nil {
		o.stateManager.SetStatus("Reload failed: " + err.Error())
	} else {
		o.stateManager.SetStatus("")
	}
	o.requestRedraw()
}

func (o *Orchestrator) frame() layout.Frame {
	now := o.clock.Now()
	snap := o.store.Snapshot()
	state := o.stateManager.GetInteractionState()

	return layout.Frame{
		Now:           now,
		Snapshot:      snap,
		Projection:    timeline.Project(snap, now, o.policy),
		EventTitle:    o.config.EventTitle,
		ImportantText: o.config.ImportantText,
		ShowSecondary: o.config.ShowSecondary,
		StatusMessage: state.StatusMessage,
		ShowHelp:      state.ShowHelp,
		Color:         o.config.Color,
	}
}

// render updates the terminal display
func (o *Orchestrator) render() {
	o.display.Render(o.stateManager.GetInteractionState().View, o.frame())
}

// handleKeyboard applies a key press and reports whether to exit.
func (o *Orchestrator) handleKeyboard(event interaction.KeyEvent) bool {
	action := interaction.ActionFor(event)

	switch action.Kind {
	case interaction.ActionQuit:
		state := o.stateManager.GetInteractionState()
		if state.ShowHelp && event.Type == interaction.KeyEscape {
			o.stateManager.UpdateInteractionState(func(s *model.InteractionState) {
				s.ShowHelp = false
			})
			return false
		}
		return true
	case interaction.ActionSwitchView:
		o.stateManager.UpdateInteractionState(func(s *model.InteractionState) {
			s.View = action.View
			s.ShowHelp = false
		})
	case interaction.ActionToggleHelp:
		o.stateManager.UpdateInteractionState(func(s *model.InteractionState) {
			s.ShowHelp = !s.ShowHelp
		})
	case interaction.ActionReload:
		o.stateManager.SetStatus("Reloading...")
		o.refreshCtrl.RequestReload()
	}
	return false
}
