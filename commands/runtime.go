package commands

import (
	"context"
	"fmt"

	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"github.com/redis/go-redis/v9"

	"github.com/penwyp/go-hackathon-board/internal/config"
	"github.com/penwyp/go-hackathon-board/internal/core/feed"
	"github.com/penwyp/go-hackathon-board/internal/core/model"
	"github.com/penwyp/go-hackathon-board/internal/core/timeline"
	"github.com/penwyp/go-hackathon-board/internal/data/filestore"
	"github.com/penwyp/go-hackathon-board/internal/data/postgres"
	"github.com/penwyp/go-hackathon-board/internal/data/redisfeed"
	"github.com/penwyp/go-hackathon-board/internal/metrics"
	"github.com/penwyp/go-hackathon-board/internal/util"
)

// importer is implemented by backends that can append many entries in one write.
type importer interface {
	Import(ctx context.Context, drafts []model.EntryDraft) ([]model.ScheduleEntry, error)
}

// boardRuntime is the wired store with its backend, change feed and metrics.
type boardRuntime struct {
	store    *timeline.Store
	backend  timeline.Backend
	feed     feed.Feed // nil when no feed is configured
	registry *prometheus.Registry

	closers []func()
}

// newRuntime builds the backend selected by cfg.Store.Driver and the feeds
// enabled in cfg.Feed. The timeline is not loaded.
func newRuntime(ctx context.Context, cfg *config.Config) (*boardRuntime, error) {
	rt := &boardRuntime{}

	var feeds []feed.Feed
	switch cfg.Store.Driver {
	case config.DriverPostgres:
		pool, err := openPostgres(ctx, cfg.Store.Postgres, cfg.Feed.Topic)
		if err != nil {
			return nil, err
		}
		rt.closers = append(rt.closers, pool.Close)
		rt.backend = postgres.New(pool)
		if cfg.Feed.Watch {
			feeds = append(feeds, postgres.NewListener(cfg.Store.Postgres.DSN))
		}
	default:
		fs, err := filestore.New(cfg.Store.FilePath)
		if err != nil {
			return nil, err
		}
		rt.backend = fs
		if cfg.Feed.Watch {
			feeds = append(feeds, filestore.NewWatcher(fs.Path()))
		}
	}

	if cfg.Feed.Redis.Addr != "" {
		client := redis.NewClient(&redis.Options{
			Addr:     cfg.Feed.Redis.Addr,
			Password: cfg.Feed.Redis.Password,
			DB:       cfg.Feed.Redis.DB,
		})
		rt.closers = append(rt.closers, func() { _ = client.Close() })

		publisher := redisfeed.NewPublisher(client, cfg.Feed.Redis.Prefix, cfg.Feed.Topic)
		rt.backend = publisher.Wrap(rt.backend)
		feeds = append(feeds, redisfeed.NewFeed(client, cfg.Feed.Redis.Prefix, redisfeed.IgnoreOrigin(publisher.Origin())))
		util.LogInfof("Redis change feed enabled on %s", cfg.Feed.Redis.Addr)
	}

	switch len(feeds) {
	case 0:
	case 1:
		rt.feed = feeds[0]
	default:
		rt.feed = feed.Merge(feeds...)
	}

	var sink metrics.Sink = metrics.NewNoopSink()
	if cfg.Metrics.Enabled {
		rt.registry = prometheus.NewRegistry()
		rt.registry.MustRegister(
			collectors.NewGoCollector(),
			collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}),
		)
		sink = metrics.NewPrometheusSink(rt.registry)
	}

	rt.store = timeline.NewStore(rt.backend, timeline.WithMetrics(sink))
	return rt, nil
}

func openPostgres(ctx context.Context, cfg config.PostgresConfig, topic string) (*pgxpool.Pool, error) {
	if cfg.AutoMigrate {
		if err := postgres.EnsureSchema(ctx, cfg.DSN, topic); err != nil {
			return nil, fmt.Errorf("failed to migrate schema: %w", err)
		}
	}
	pool, err := postgres.NewPool(ctx, cfg)
	if err != nil {
		return nil, fmt.Errorf("failed to connect to database: %w", err)
	}
	return pool, nil
}

// importDrafts appends drafts in a single backend write when supported and
// falls back to one Add per draft otherwise.
func (rt *boardRuntime) importDrafts(ctx context.Context, drafts []model.EntryDraft) (int, error) {
	valid := make([]model.EntryDraft, 0, len(drafts))
	for _, d := range drafts {
		v, err := d.Validate()
		if err != nil {
			return 0, fmt.Errorf("entry %q at %s: %w", d.Title, d.TimeOfDay, err)
		}
		valid = append(valid, v)
	}

	if bulk, ok := rt.backend.(importer); ok {
		created, err := bulk.Import(ctx, valid)
		if err != nil {
			return 0, err
		}
		return len(created), rt.store.Load(ctx)
	}

	for i, d := range valid {
		if _, err := rt.store.Add(ctx, d); err != nil {
			return i, err
		}
	}
	return len(valid), nil
}

func (rt *boardRuntime) Close() {
	for i := len(rt.closers) - 1; i >= 0; i-- {
		rt.closers[i]()
	}
}
