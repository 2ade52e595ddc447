//go:build integration

package postgres

import (
	"context"
	"fmt"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/testcontainers/testcontainers-go"
	"github.com/testcontainers/testcontainers-go/wait"

	"github.com/penwyp/go-hackathon-board/internal/config"
	"github.com/penwyp/go-hackathon-board/internal/core/model"
	"github.com/penwyp/go-hackathon-board/internal/core/timeline"
)

func startPostgres(t *testing.T) string {
	t.Helper()
	ctx, cancel := context.WithTimeout(context.Background(), 120*time.Second)
	defer cancel()

	req := testcontainers.ContainerRequest{
		Image:        "postgres:17-alpine",
		ExposedPorts: []string{"5432/tcp"},
		Env: map[string]string{
			"POSTGRES_USER":     "testuser",
			"POSTGRES_PASSWORD": "testpass",
			"POSTGRES_DB":       "testdb",
		},
		WaitingFor: wait.ForLog("database system is ready to accept connections").
			WithOccurrence(2).
			WithStartupTimeout(60 * time.Second),
	}

	container, err := testcontainers.GenericContainer(ctx, testcontainers.GenericContainerRequest{
		ContainerRequest: req,
		Started:          true,
	})
	require.NoError(t, err)
	t.Cleanup(func() { _ = container.Terminate(context.Background()) })

	host, err := container.Host(ctx)
	require.NoError(t, err)
	port, err := container.MappedPort(ctx, "5432")
	require.NoError(t, err)

	return fmt.Sprintf("postgres://testuser:testpass@%s:%s/testdb?sslmode=disable", host, port.Port())
}

func TestIntegration_StoreAndListener(t *testing.T) {
	dsn := startPostgres(t)
	ctx := context.Background()

	require.NoError(t, EnsureSchema(ctx, dsn, config.DefaultTopic))
	// Applying twice is a no-op.
	require.NoError(t, EnsureSchema(ctx, dsn, config.DefaultTopic))

	pool, err := NewPool(ctx, config.PostgresConfig{DSN: dsn, MaxConns: 4, MinConns: 1})
	require.NoError(t, err)
	defer pool.Close()

	var mu sync.Mutex
	var ops []string
	sub, err := NewListener(dsn).Subscribe(ctx, "schedules", func(n model.Notification) {
		mu.Lock()
		ops = append(ops, n.Op)
		mu.Unlock()
	})
	require.NoError(t, err)
	defer sub.Unsubscribe()

	store := timeline.NewStore(New(pool))
	require.NoError(t, store.Load(ctx))

	keynote, err := store.Add(ctx, model.EntryDraft{TimeOfDay: "09:00", Title: "Keynote", Important: true})
	require.NoError(t, err)
	_, err = store.Add(ctx, model.EntryDraft{TimeOfDay: "08:00", Title: "Doors", TitleSecondary: "입장"})
	require.NoError(t, err)
	_, err = store.Update(ctx, keynote.ID, model.EntryDraft{TimeOfDay: "09:30:00", Title: "Keynote", Important: true})
	require.NoError(t, err)

	local := store.Snapshot()
	require.NoError(t, store.Load(ctx))
	assert.True(t, local.Equal(store.Snapshot()))
	assert.Equal(t, model.TimeOfDay("09:30"), store.Snapshot().At(1).TimeOfDay)

	require.NoError(t, store.Remove(ctx, keynote.ID))
	assert.ErrorIs(t, store.Remove(ctx, keynote.ID), model.ErrNotFound)

	require.Eventually(t, func() bool {
		mu.Lock()
		defer mu.Unlock()
		return len(ops) >= 4
	}, 5*time.Second, 50*time.Millisecond)

	mu.Lock()
	assert.Equal(t, []string{"INSERT", "INSERT", "UPDATE", "DELETE"}, ops[:4])
	mu.Unlock()
}

func TestIntegration_CustomTopic(t *testing.T) {
	dsn := startPostgres(t)
	ctx := context.Background()

	require.NoError(t, EnsureSchema(ctx, dsn, "board_events"))

	pool, err := NewPool(ctx, config.PostgresConfig{DSN: dsn, MaxConns: 2})
	require.NoError(t, err)
	defer pool.Close()

	got := make(chan model.Notification, 4)
	sub, err := NewListener(dsn).Subscribe(ctx, "board_events", func(n model.Notification) { got <- n })
	require.NoError(t, err)
	defer sub.Unsubscribe()

	_, err = New(pool).Insert(ctx, model.EntryDraft{TimeOfDay: "10:00", Title: "Demo"})
	require.NoError(t, err)

	select {
	case n := <-got:
		assert.Equal(t, "INSERT", n.Op)
		assert.Equal(t, "board_events", n.Topic)
	case <-time.After(5 * time.Second):
		t.Fatal("no notification on the configured topic")
	}
}
