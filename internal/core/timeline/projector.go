package timeline

import (
	"fmt"
	"time"

	"github.com/penwyp/go-hackathon-board/internal/core/constants"
	"github.com/penwyp/go-hackathon-board/internal/core/model"
)

// NoEntry is the active index when no entry has started yet today.
const NoEntry = -1

// Countdown is a non-negative duration split into clock components.
type Countdown struct {
	Hours   int
	Minutes int
	Seconds int
}

// CountdownFromSeconds decomposes total seconds. Negative input is treated as zero.
func CountdownFromSeconds(total int64) Countdown {
	if total < 0 {
		total = 0
	}
	return Countdown{
		Hours:   int(total / 3600),
		Minutes: int(total % 3600 / 60),
		Seconds: int(total % 60),
	}
}

// Total recombines the components into seconds.
func (c Countdown) Total() int64 {
	return int64(c.Hours)*3600 + int64(c.Minutes)*60 + int64(c.Seconds)
}

// String formats the countdown as zero-padded HH:MM:SS.
func (c Countdown) String() string {
	return fmt.Sprintf("%02d:%02d:%02d", c.Hours, c.Minutes, c.Seconds)
}

// Projection is everything the rendering layer needs for one tick.
type Projection struct {
	Now          time.Time
	Revision     uint64
	ActiveIndex  int
	Active       *model.ScheduleEntry
	Next         *model.ScheduleEntry
	Countdown    Countdown
	HasCountdown bool
}

// ActiveIndex returns the index of the last entry whose time of day is not
// after now, or NoEntry.
func ActiveIndex(snap *model.Snapshot, now time.Time) int {
	current := model.TimeOfDayOf(now)
	for i := snap.Len() - 1; i >= 0; i-- {
		if snap.At(i).TimeOfDay <= current {
			return i
		}
	}
	return NoEntry
}

// NextImportant returns the first important entry starting strictly after
// now. With WrapNextDay, the earliest important entry of the day is returned
// when none is left today.
func NextImportant(snap *model.Snapshot, now time.Time, policy model.WrapPolicy) (model.ScheduleEntry, bool) {
	current := model.TimeOfDayOf(now)

	first := -1
	for i := 0; i < snap.Len(); i++ {
		e := snap.At(i)
		if !e.Important {
			continue
		}
		if first < 0 {
			first = i
		}
		if e.TimeOfDay > current {
			return e, true
		}
	}

	if policy == model.WrapNextDay && first >= 0 {
		return snap.At(first), true
	}
	return model.ScheduleEntry{}, false
}

// CountdownTo returns the time from now until target, projected onto now's
// date and wrapped forward by a day when already past. Sub-second remainders
// are dropped.
func CountdownTo(target model.TimeOfDay, now time.Time) Countdown {
	diff := target.On(now).Sub(now)
	if diff < 0 {
		diff += constants.Day
	}
	return CountdownFromSeconds(int64(diff / time.Second))
}

// Project computes the board state for snap at now.
func Project(snap *model.Snapshot, now time.Time, policy model.WrapPolicy) Projection {
	p := Projection{
		Now:         now,
		Revision:    snap.Revision(),
		ActiveIndex: ActiveIndex(snap, now),
	}

	if p.ActiveIndex != NoEntry {
		active := snap.At(p.ActiveIndex)
		p.Active = &active
	}

	if next, ok := NextImportant(snap, now, policy); ok {
		p.Next = &next
		p.Countdown = CountdownTo(next.TimeOfDay, now)
		p.HasCountdown = true
	}

	return p
}
