package redisfeed

import (
	"context"
	"fmt"
	"sync"
	"time"

	"github.com/redis/go-redis/v9"

	"github.com/penwyp/go-hackathon-board/internal/core/feed"
	"github.com/penwyp/go-hackathon-board/internal/core/model"
	"github.com/penwyp/go-hackathon-board/internal/util"
)

// Feed is a change feed over Redis pub/sub.
type Feed struct {
	client       redis.UniversalClient
	prefix       string
	ignoreOrigin string
}

// FeedOption configures a Feed.
type FeedOption func(*Feed)

// IgnoreOrigin drops messages published by the given instance id, typically
// the local Publisher whose changes are already applied.
func IgnoreOrigin(origin string) FeedOption {
	return func(f *Feed) { f.ignoreOrigin = origin }
}

// NewFeed creates a feed on client using channels under prefix.
func NewFeed(client redis.UniversalClient, prefix string, opts ...FeedOption) *Feed {
	f := &Feed{client: client, prefix: prefix}
	for _, opt := range opts {
		opt(f)
	}
	return f
}

// Subscribe waits for Redis to confirm the subscription before returning.
func (f *Feed) Subscribe(ctx context.Context, topic string, onEvent feed.Handler) (feed.Subscription, error) {
	channel := ChannelName(f.prefix, topic)
	ps := f.client.Subscribe(ctx, channel)
	if _, err := ps.Receive(ctx); err != nil {
		ps.Close()
		return nil, fmt.Errorf("subscribe %s: %w", channel, err)
	}
	util.LogDebugf("Subscribed to redis channel %s", channel)

	done := make(chan struct{})
	go func() {
		defer close(done)
		for msg := range ps.Channel() {
			if n, ok := f.notification(topic, msg.Payload); ok {
				onEvent(n)
			}
		}
	}()

	var once sync.Once
	var closeErr error
	return feed.SubscriptionFunc(func() error {
		once.Do(func() {
			closeErr = ps.Close()
			<-done
		})
		return closeErr
	}), nil
}

// notification converts a raw payload. Undecodable payloads still signal a change.
func (f *Feed) notification(topic, payload string) (model.Notification, bool) {
	n := model.Notification{
		Source:     "redis",
		Topic:      topic,
		Payload:    payload,
		ReceivedAt: time.Now(),
	}

	m, err := decodeMessage(payload)
	if err != nil {
		util.LogDebugf("Redis change message not understood: %v", err)
		return n, true
	}
	if f.ignoreOrigin != "" && m.Origin == f.ignoreOrigin {
		return n, false
	}
	n.Op = m.Op
	return n, true
}
