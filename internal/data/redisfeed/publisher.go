package redisfeed

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/redis/go-redis/v9"

	"github.com/penwyp/go-hackathon-board/internal/core/model"
	"github.com/penwyp/go-hackathon-board/internal/core/timeline"
	"github.com/penwyp/go-hackathon-board/internal/util"
)

// publishClient is the part of redis.UniversalClient the publisher uses.
type publishClient interface {
	Publish(ctx context.Context, channel string, message interface{}) *redis.IntCmd
}

// Publisher announces local mutations to other processes.
type Publisher struct {
	client  publishClient
	channel string
	origin  string
}

// NewPublisher creates a publisher with a fresh instance id.
func NewPublisher(client publishClient, prefix, topic string) *Publisher {
	return &Publisher{
		client:  client,
		channel: ChannelName(prefix, topic),
		origin:  uuid.NewString(),
	}
}

// Origin is the instance id carried in every message.
func (p *Publisher) Origin() string {
	return p.origin
}

// Publish sends one change message.
func (p *Publisher) Publish(ctx context.Context, op string, id model.EntryID) error {
	payload, err := encodeMessage(Message{Origin: p.origin, Op: op, ID: int64(id), At: time.Now().UTC()})
	if err != nil {
		return err
	}
	if err := p.client.Publish(ctx, p.channel, payload).Err(); err != nil {
		return fmt.Errorf("publish %s: %w", p.channel, err)
	}
	return nil
}

// Wrap returns a backend that publishes after each successful write to b.
// Publish failures are logged; the write itself already succeeded.
func (p *Publisher) Wrap(b timeline.Backend) timeline.Backend {
	return &publishingBackend{Backend: b, publisher: p}
}

type publishingBackend struct {
	timeline.Backend
	publisher *Publisher
}

func (b *publishingBackend) Insert(ctx context.Context, d model.EntryDraft) (model.ScheduleEntry, error) {
	e, err := b.Backend.Insert(ctx, d)
	if err == nil {
		b.announce(ctx, "INSERT", e.ID)
	}
	return e, err
}

func (b *publishingBackend) UpdateByID(ctx context.Context, id model.EntryID, d model.EntryDraft) (model.ScheduleEntry, error) {
	e, err := b.Backend.UpdateByID(ctx, id, d)
	if err == nil {
		b.announce(ctx, "UPDATE", id)
	}
	return e, err
}

func (b *publishingBackend) DeleteByID(ctx context.Context, id model.EntryID) error {
	err := b.Backend.DeleteByID(ctx, id)
	if err == nil {
		b.announce(ctx, "DELETE", id)
	}
	return err
}

func (b *publishingBackend) announce(ctx context.Context, op string, id model.EntryID) {
	if err := b.publisher.Publish(ctx, op, id); err != nil {
		util.LogWarnf("Failed to announce schedule %s of entry %d: %v", op, id, err)
	}
}
