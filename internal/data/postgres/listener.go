package postgres

import (
	"context"
	"fmt"
	"sync"
	"time"

	"github.com/jackc/pgx/v5"

	"github.com/penwyp/go-hackathon-board/internal/core/constants"
	"github.com/penwyp/go-hackathon-board/internal/core/feed"
	"github.com/penwyp/go-hackathon-board/internal/core/model"
	"github.com/penwyp/go-hackathon-board/internal/util"
)

// OpReconnect is the Op of the notification sent after the listener
// re-established its connection. Changes made while disconnected were not
// observed, so subscribers should reload.
const OpReconnect = "RECONNECT"

// Listener is a change feed over LISTEN/NOTIFY on a dedicated connection.
type Listener struct {
	dsn        string
	minBackoff time.Duration
	maxBackoff time.Duration
}

// NewListener creates a feed that connects to dsn for every subscription.
func NewListener(dsn string) *Listener {
	return &Listener{
		dsn:        dsn,
		minBackoff: constants.ListenerMinBackoff,
		maxBackoff: constants.ListenerMaxBackoff,
	}
}

// Subscribe connects and issues LISTEN before returning, so a bad DSN is
// reported to the caller. Later connection losses are retried in the background.
func (l *Listener) Subscribe(ctx context.Context, topic string, onEvent feed.Handler) (feed.Subscription, error) {
	conn, err := l.connect(ctx, topic)
	if err != nil {
		return nil, err
	}

	ctx, cancel := context.WithCancel(context.Background())
	done := make(chan struct{})
	go func() {
		defer close(done)
		l.loop(ctx, conn, topic, onEvent)
	}()

	var once sync.Once
	return feed.SubscriptionFunc(func() error {
		once.Do(func() {
			cancel()
			<-done
		})
		return nil
	}), nil
}

func (l *Listener) connect(ctx context.Context, topic string) (*pgx.Conn, error) {
	conn, err := pgx.Connect(ctx, l.dsn)
	if err != nil {
		return nil, fmt.Errorf("connect listener: %w", err)
	}
	if _, err := conn.Exec(ctx, "LISTEN "+pgx.Identifier{topic}.Sanitize()); err != nil {
		conn.Close(ctx)
		return nil, fmt.Errorf("listen %s: %w", topic, err)
	}
	util.LogDebugf("Listening for postgres notifications on %s", topic)
	return conn, nil
}

func (l *Listener) loop(ctx context.Context, conn *pgx.Conn, topic string, onEvent feed.Handler) {
	defer func() {
		if conn != nil {
			closeCtx, cancel := context.WithTimeout(context.Background(), time.Second)
			conn.Close(closeCtx)
			cancel()
		}
	}()

	for {
		n, err := conn.WaitForNotification(ctx)
		if ctx.Err() != nil {
			return
		}
		if err != nil {
			util.LogWarnf("Postgres listener lost connection: %v", err)
			conn.Close(context.Background())
			conn = l.reconnect(ctx, topic)
			if conn == nil {
				return
			}
			onEvent(model.Notification{
				Source:     "postgres",
				Topic:      topic,
				Op:         OpReconnect,
				ReceivedAt: time.Now(),
			})
			continue
		}

		onEvent(model.Notification{
			Source:     "postgres",
			Topic:      n.Channel,
			Op:         n.Payload,
			Payload:    n.Payload,
			ReceivedAt: time.Now(),
		})
	}
}

// reconnect retries with exponential backoff until it succeeds or ctx ends.
func (l *Listener) reconnect(ctx context.Context, topic string) *pgx.Conn {
	backoff := l.minBackoff
	for {
		select {
		case <-ctx.Done():
			return nil
		case <-time.After(backoff):
		}

		conn, err := l.connect(ctx, topic)
		if err == nil {
			util.LogInfof("Postgres listener reconnected on %s", topic)
			return conn
		}
		util.LogWarnf("Postgres listener reconnect failed (retry in %s): %v", backoff, err)

		backoff *= 2
		if backoff > l.maxBackoff {
			backoff = l.maxBackoff
		}
	}
}
