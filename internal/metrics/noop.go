package metrics

import "time"

// NoopSink is used when metrics are disabled to avoid nil checks.
type NoopSink struct{}

// NewNoopSink returns a no-op metrics sink.
func NewNoopSink() *NoopSink {
	return &NoopSink{}
}

func (n *NoopSink) LoadCompleted(duration time.Duration, entries int) {}
func (n *NoopSink) LoadFailed()                                       {}
func (n *NoopSink) LoadDiscarded()                                    {}
func (n *NoopSink) MutationCompleted(op string)                       {}
func (n *NoopSink) MutationFailed(op string)                          {}
func (n *NoopSink) NotificationReceived(source string)                {}
