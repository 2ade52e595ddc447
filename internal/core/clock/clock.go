package clock

import (
	"sync"
	"time"

	"github.com/penwyp/go-hackathon-board/internal/util"
)

// Ticker is a cancellable periodic callback.
type Ticker interface {
	// Stop cancels the ticker and returns once the tick goroutine has exited.
	// No callback runs after Stop returns. Stop must not be called from the
	// ticker's own callback.
	Stop()
}

// Clock provides the wall clock and periodic ticks.
// This interface enables dependency injection for testing timer behavior.
type Clock interface {
	Now() time.Time
	Every(interval time.Duration, fn func(now time.Time)) Ticker
}

type systemClock struct {
	loc *time.Location
}

// System returns the real clock in loc. A nil loc uses the global time provider.
func System(loc *time.Location) Clock {
	return systemClock{loc: loc}
}

func (c systemClock) Now() time.Time {
	if c.loc == nil {
		return util.GetTimeProvider().Now()
	}
	return time.Now().In(c.loc)
}

func (c systemClock) Every(interval time.Duration, fn func(now time.Time)) Ticker {
	t := &systemTicker{
		stop: make(chan struct{}),
		done: make(chan struct{}),
	}

	go func() {
		defer close(t.done)
		tk := time.NewTicker(interval)
		defer tk.Stop()

		for {
			select {
			case <-t.stop:
				return
			case <-tk.C:
				// A tick and a stop can be ready together; stop wins.
				select {
				case <-t.stop:
					return
				default:
				}
				fn(c.Now())
			}
		}
	}()

	return t
}

type systemTicker struct {
	stop chan struct{}
	done chan struct{}
	once sync.Once
}

func (t *systemTicker) Stop() {
	t.once.Do(func() { close(t.stop) })
	<-t.done
}
