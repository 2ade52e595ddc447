package metrics

import "time"

// Sink defines the interface for recording metrics.
// All methods are fire-and-forget: implementations must not block or return errors.
type Sink interface {
	// Timeline store
	LoadCompleted(duration time.Duration, entries int)
	LoadFailed()
	LoadDiscarded()
	MutationCompleted(op string)
	MutationFailed(op string)

	// Change feeds
	NotificationReceived(source string)
}

// Mutation operation labels.
const (
	OpAdd    = "add"
	OpUpdate = "update"
	OpRemove = "remove"
)
