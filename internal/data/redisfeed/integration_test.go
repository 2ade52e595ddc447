//go:build integration

package redisfeed

import (
	"context"
	"fmt"
	"sync"
	"testing"
	"time"

	"github.com/redis/go-redis/v9"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/testcontainers/testcontainers-go"
	"github.com/testcontainers/testcontainers-go/wait"

	"github.com/penwyp/go-hackathon-board/internal/core/model"
)

func startRedis(t *testing.T) *redis.Client {
	t.Helper()
	ctx, cancel := context.WithTimeout(context.Background(), 60*time.Second)
	defer cancel()

	container, err := testcontainers.GenericContainer(ctx, testcontainers.GenericContainerRequest{
		ContainerRequest: testcontainers.ContainerRequest{
			Image:        "redis:7-alpine",
			ExposedPorts: []string{"6379/tcp"},
			WaitingFor:   wait.ForLog("Ready to accept connections"),
		},
		Started: true,
	})
	require.NoError(t, err)
	t.Cleanup(func() { _ = container.Terminate(context.Background()) })

	host, err := container.Host(ctx)
	require.NoError(t, err)
	port, err := container.MappedPort(ctx, "6379")
	require.NoError(t, err)

	client := redis.NewClient(&redis.Options{Addr: fmt.Sprintf("%s:%s", host, port.Port())})
	t.Cleanup(func() { _ = client.Close() })
	return client
}

func TestIntegration_PublishSubscribe(t *testing.T) {
	client := startRedis(t)
	ctx := context.Background()

	local := NewPublisher(client, "board", "schedules")
	peer := NewPublisher(client, "board", "schedules")

	var mu sync.Mutex
	var got []model.Notification
	sub, err := NewFeed(client, "board", IgnoreOrigin(local.Origin())).
		Subscribe(ctx, "schedules", func(n model.Notification) {
			mu.Lock()
			got = append(got, n)
			mu.Unlock()
		})
	require.NoError(t, err)

	require.NoError(t, local.Publish(ctx, "INSERT", 1))
	require.NoError(t, peer.Publish(ctx, "UPDATE", 1))

	require.Eventually(t, func() bool {
		mu.Lock()
		defer mu.Unlock()
		return len(got) == 1
	}, 3*time.Second, 20*time.Millisecond)

	require.NoError(t, sub.Unsubscribe())
	require.NoError(t, peer.Publish(ctx, "DELETE", 1))
	time.Sleep(200 * time.Millisecond)

	mu.Lock()
	defer mu.Unlock()
	require.Len(t, got, 1)
	assert.Equal(t, "UPDATE", got[0].Op)
}
