package constants

import "time"

const (
	// Board clock
	TickInterval = time.Second
	Day          = 24 * time.Hour
	DaySeconds   = int64(24 * 3600)

	// Change feeds
	DefaultTopic        = "schedules"
	DefaultRedisPrefix  = "hackathon-board"
	WatcherDebounce     = 100 * time.Millisecond
	ListenerMinBackoff  = 500 * time.Millisecond
	ListenerMaxBackoff  = 30 * time.Second
	DefaultResyncSpec   = "@every 5m"
	NotificationTimeout = 10 * time.Second
)
