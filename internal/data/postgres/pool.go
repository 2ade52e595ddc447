package postgres

import (
	"context"
	"database/sql"
	"embed"
	"fmt"
	"io/fs"
	"strings"

	"github.com/jackc/pgx/v5/pgxpool"
	_ "github.com/jackc/pgx/v5/stdlib" // pgx driver for database/sql
	"github.com/pressly/goose/v3"

	"github.com/penwyp/go-hackathon-board/internal/config"
	"github.com/penwyp/go-hackathon-board/internal/util"
)

//go:embed migrations/*.sql
var migrations embed.FS

// NewPool creates a PostgreSQL connection pool configured from PostgresConfig.
// It pings the database so a bad DSN fails at startup.
func NewPool(ctx context.Context, cfg config.PostgresConfig) (*pgxpool.Pool, error) {
	poolCfg, err := pgxpool.ParseConfig(cfg.DSN)
	if err != nil {
		return nil, fmt.Errorf("parse database DSN: %w", err)
	}

	poolCfg.MaxConns = cfg.MaxConns
	poolCfg.MinConns = cfg.MinConns
	poolCfg.MaxConnLifetime = cfg.MaxConnLifetime
	poolCfg.MaxConnIdleTime = cfg.MaxConnIdleTime

	pool, err := pgxpool.NewWithConfig(ctx, poolCfg)
	if err != nil {
		return nil, fmt.Errorf("create connection pool: %w", err)
	}

	if err := pool.Ping(ctx); err != nil {
		pool.Close()
		return nil, fmt.Errorf("ping database: %w", err)
	}

	return pool, nil
}

// EnsureSchema applies the embedded migrations and binds the change trigger
// to topic, so every write sends pg_notify(topic, TG_OP).
func EnsureSchema(ctx context.Context, dsn, topic string) error {
	db, err := sql.Open("pgx", dsn)
	if err != nil {
		return fmt.Errorf("sql.Open: %w", err)
	}
	defer db.Close()

	if err := db.PingContext(ctx); err != nil {
		return fmt.Errorf("db ping: %w", err)
	}

	fsys, err := fs.Sub(migrations, "migrations")
	if err != nil {
		return fmt.Errorf("migrations fs: %w", err)
	}

	provider, err := goose.NewProvider(goose.DialectPostgres, db, fsys)
	if err != nil {
		return fmt.Errorf("goose new provider: %w", err)
	}

	results, err := provider.Up(ctx)
	if err != nil {
		return fmt.Errorf("goose up: %w", err)
	}
	for _, r := range results {
		util.LogInfof("Applied migration %d (%s)", r.Source.Version, r.Duration)
	}

	if err := bindNotifyTopic(ctx, db, topic); err != nil {
		return fmt.Errorf("bind notify topic %q: %w", topic, err)
	}
	return nil
}

func bindNotifyTopic(ctx context.Context, db *sql.DB, topic string) error {
	tx, err := db.BeginTx(ctx, nil)
	if err != nil {
		return err
	}
	defer func() { _ = tx.Rollback() }()

	for _, stmt := range notifyTriggerSQL(topic) {
		if _, err := tx.ExecContext(ctx, stmt); err != nil {
			return err
		}
	}
	return tx.Commit()
}

// notifyTriggerSQL recreates the change trigger with topic as its channel argument.
func notifyTriggerSQL(topic string) []string {
	literal := "'" + strings.ReplaceAll(topic, "'", "''") + "'"
	return []string{
		"DROP TRIGGER IF EXISTS schedules_changed ON schedules",
		"CREATE TRIGGER schedules_changed AFTER INSERT OR UPDATE OR DELETE ON schedules " +
			"FOR EACH ROW EXECUTE FUNCTION notify_schedules_changed(" + literal + ")",
	}
}
