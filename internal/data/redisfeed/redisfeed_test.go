package redisfeed

import (
	"context"
	"errors"
	"testing"

	"github.com/redis/go-redis/v9"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/penwyp/go-hackathon-board/internal/core/model"
)

type published struct {
	channel string
	payload string
}

type fakeClient struct {
	sent []published
	err  error
}

func (f *fakeClient) Publish(ctx context.Context, channel string, message interface{}) *redis.IntCmd {
	if f.err != nil {
		return redis.NewIntResult(0, f.err)
	}
	f.sent = append(f.sent, published{channel: channel, payload: message.(string)})
	return redis.NewIntResult(1, nil)
}

type stubBackend struct {
	deleteErr error
}

func (stubBackend) FetchAll(context.Context) ([]model.ScheduleEntry, error) { return nil, nil }

func (stubBackend) Insert(_ context.Context, d model.EntryDraft) (model.ScheduleEntry, error) {
	return d.WithID(11), nil
}

func (stubBackend) UpdateByID(_ context.Context, id model.EntryID, d model.EntryDraft) (model.ScheduleEntry, error) {
	return d.WithID(id), nil
}

func (b stubBackend) DeleteByID(context.Context, model.EntryID) error { return b.deleteErr }

func TestChannelName(t *testing.T) {
	assert.Equal(t, "hackathon-board:schedules", ChannelName("hackathon-board", "schedules"))
	assert.Equal(t, "schedules", ChannelName("", "schedules"))
}

func TestPublisher_Publish(t *testing.T) {
	client := &fakeClient{}
	p := NewPublisher(client, "board", "schedules")
	require.NotEmpty(t, p.Origin())

	require.NoError(t, p.Publish(context.Background(), "INSERT", 3))
	require.Len(t, client.sent, 1)
	assert.Equal(t, "board:schedules", client.sent[0].channel)

	m, err := decodeMessage(client.sent[0].payload)
	require.NoError(t, err)
	assert.Equal(t, p.Origin(), m.Origin)
	assert.Equal(t, "INSERT", m.Op)
	assert.Equal(t, int64(3), m.ID)
	assert.False(t, m.At.IsZero())
}

func TestPublisher_PublishError(t *testing.T) {
	client := &fakeClient{err: errors.New("connection refused")}
	p := NewPublisher(client, "board", "schedules")
	assert.Error(t, p.Publish(context.Background(), "DELETE", 1))
}

func TestPublisher_WrapAnnouncesSuccessfulWrites(t *testing.T) {
	client := &fakeClient{}
	p := NewPublisher(client, "board", "schedules")
	ctx := context.Background()

	b := p.Wrap(stubBackend{})
	_, err := b.Insert(ctx, model.EntryDraft{TimeOfDay: "09:00", Title: "x"})
	require.NoError(t, err)
	_, err = b.UpdateByID(ctx, 11, model.EntryDraft{TimeOfDay: "10:00", Title: "x"})
	require.NoError(t, err)
	require.NoError(t, b.DeleteByID(ctx, 11))
	assert.Len(t, client.sent, 3)

	failing := p.Wrap(stubBackend{deleteErr: model.NotFoundError(5)})
	assert.ErrorIs(t, failing.DeleteByID(ctx, 5), model.ErrNotFound)
	assert.Len(t, client.sent, 3)
}

func TestPublisher_WrapIgnoresPublishFailure(t *testing.T) {
	p := NewPublisher(&fakeClient{err: errors.New("down")}, "board", "schedules")
	_, err := p.Wrap(stubBackend{}).Insert(context.Background(), model.EntryDraft{TimeOfDay: "09:00", Title: "x"})
	assert.NoError(t, err)
}

func TestFeed_Notification(t *testing.T) {
	f := NewFeed(nil, "board", IgnoreOrigin("self"))

	own, _ := encodeMessage(Message{Origin: "self", Op: "INSERT"})
	_, ok := f.notification("schedules", own)
	assert.False(t, ok)

	other, _ := encodeMessage(Message{Origin: "peer", Op: "UPDATE", ID: 2})
	n, ok := f.notification("schedules", other)
	require.True(t, ok)
	assert.Equal(t, "redis", n.Source)
	assert.Equal(t, "UPDATE", n.Op)
	assert.Equal(t, "schedules", n.Topic)

	n, ok = f.notification("schedules", "not json")
	assert.True(t, ok)
	assert.Empty(t, n.Op)
}
