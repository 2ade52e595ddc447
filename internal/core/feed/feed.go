package feed

import (
	"context"
	"errors"

	"github.com/penwyp/go-hackathon-board/internal/core/model"
)

// Handler is called for every change notification. Handlers must not block
// for long; feeds call them from their receive goroutine.
type Handler func(model.Notification)

// Feed delivers "something changed" signals for a topic.
type Feed interface {
	Subscribe(ctx context.Context, topic string, onEvent Handler) (Subscription, error)
}

// Subscription is an active registration on a Feed.
type Subscription interface {
	Unsubscribe() error
}

// SubscriptionFunc adapts a function to Subscription.
type SubscriptionFunc func() error

func (f SubscriptionFunc) Unsubscribe() error { return f() }

// Merge returns a Feed that subscribes to every feed at once.
func Merge(feeds ...Feed) Feed {
	return merged(feeds)
}

type merged []Feed

func (m merged) Subscribe(ctx context.Context, topic string, onEvent Handler) (Subscription, error) {
	subs := make([]Subscription, 0, len(m))
	for _, f := range m {
		sub, err := f.Subscribe(ctx, topic, onEvent)
		if err != nil {
			for _, s := range subs {
				_ = s.Unsubscribe()
			}
			return nil, err
		}
		subs = append(subs, sub)
	}

	return SubscriptionFunc(func() error {
		var errs []error
		for _, s := range subs {
			if err := s.Unsubscribe(); err != nil {
				errs = append(errs, err)
			}
		}
		return errors.Join(errs...)
	}), nil
}
