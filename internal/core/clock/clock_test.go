package clock

import (
	"sync/atomic"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestSystemClock_Location(t *testing.T) {
	loc, err := time.LoadLocation("Asia/Seoul")
	require.NoError(t, err)

	c := System(loc)
	assert.Equal(t, loc, c.Now().Location())
}

func TestSystemTicker_StopGuarantee(t *testing.T) {
	c := System(time.UTC)

	var ticks atomic.Int64
	tk := c.Every(5*time.Millisecond, func(time.Time) {
		ticks.Add(1)
	})

	require.Eventually(t, func() bool { return ticks.Load() >= 2 }, time.Second, time.Millisecond)

	tk.Stop()
	after := ticks.Load()
	time.Sleep(30 * time.Millisecond)
	assert.Equal(t, after, ticks.Load(), "no tick may fire after Stop returns")

	// Stopping twice is safe.
	assert.NotPanics(t, tk.Stop)
}

func TestSystemTicker_NoOverlap(t *testing.T) {
	c := System(time.UTC)

	var running, overlaps atomic.Int32
	tk := c.Every(time.Millisecond, func(time.Time) {
		if running.Add(1) > 1 {
			overlaps.Add(1)
		}
		time.Sleep(3 * time.Millisecond)
		running.Add(-1)
	})
	time.Sleep(40 * time.Millisecond)
	tk.Stop()

	assert.Zero(t, overlaps.Load())
	assert.Zero(t, running.Load())
}

func TestFake_Advance(t *testing.T) {
	start := time.Date(2026, 5, 1, 23, 59, 58, 0, time.UTC)
	f := NewFake(start)

	var seen []time.Time
	tk := f.Every(time.Second, func(now time.Time) {
		seen = append(seen, now)
	})

	f.Advance(3 * time.Second)
	require.Len(t, seen, 3)
	assert.Equal(t, start.Add(time.Second), seen[0])
	assert.Equal(t, start.Add(3*time.Second), seen[2])
	assert.Equal(t, start.Add(3*time.Second), f.Now())

	tk.Stop()
	f.Advance(5 * time.Second)
	assert.Len(t, seen, 3)
	assert.Zero(t, f.Tickers())
}

func TestFake_Set(t *testing.T) {
	f := NewFake(time.Date(2026, 5, 1, 8, 0, 0, 0, time.UTC))

	fired := 0
	f.Every(time.Minute, func(time.Time) { fired++ })

	f.Set(time.Date(2026, 5, 1, 12, 0, 0, 0, time.UTC))
	assert.Zero(t, fired)

	f.Advance(time.Minute)
	assert.Equal(t, 1, fired)
}
