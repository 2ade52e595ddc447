package config

import (
	"fmt"
	"strings"
	"time"

	"github.com/robfig/cron/v3"

	"github.com/penwyp/go-hackathon-board/internal/core/model"
	"github.com/penwyp/go-hackathon-board/internal/util"
)

// Validate performs business-rule validation on the loaded configuration
// and expands "~" in paths. Load calls it automatically.
func (c *Config) Validate() error {
	if err := new(util.TimeProvider).SetTimezone(c.Timezone); err != nil {
		return err
	}

	switch c.Store.Driver {
	case DriverFile:
		if c.Store.FilePath == "" {
			return fmt.Errorf("store.file_path is required for the file driver")
		}
		c.Store.FilePath = util.ExpandPath(c.Store.FilePath)
	case DriverPostgres:
		if c.Store.Postgres.DSN == "" {
			return fmt.Errorf("store.postgres.dsn is required for the postgres driver")
		}
		if c.Store.Postgres.MaxConns < 1 {
			return fmt.Errorf("store.postgres.max_conns must be >= 1 (got %d)", c.Store.Postgres.MaxConns)
		}
	default:
		return fmt.Errorf("invalid store driver '%s': must be either 'file' or 'postgres'", c.Store.Driver)
	}

	if strings.TrimSpace(c.Feed.Topic) == "" {
		return fmt.Errorf("feed.topic must not be empty")
	}
	// Only EnsureSchema can rebind the trigger to a custom channel.
	if c.Store.Driver == DriverPostgres && c.Feed.Watch && !c.Store.Postgres.AutoMigrate &&
		c.Feed.Topic != DefaultTopic {
		return fmt.Errorf("feed.topic %q requires store.postgres.auto_migrate so the change trigger notifies it", c.Feed.Topic)
	}
	if c.Feed.ResyncCron != "" {
		if _, err := cron.ParseStandard(c.Feed.ResyncCron); err != nil {
			return fmt.Errorf("feed.resync_cron: %w", err)
		}
	}

	if _, err := model.ParseViewMode(c.Display.View); err != nil {
		return fmt.Errorf("display.view: %w", err)
	}
	if _, err := model.ParseWrapPolicy(c.Display.WrapPolicy); err != nil {
		return fmt.Errorf("display.wrap_policy: %w", err)
	}
	if c.Display.RefreshRate < 50*time.Millisecond || c.Display.RefreshRate > 10*time.Second {
		return fmt.Errorf("display.refresh_rate must be between 50ms and 10s (got %s)", c.Display.RefreshRate)
	}

	if (c.Server.AdminUser == "") != (c.Server.AdminPassword == "") {
		return fmt.Errorf("server.admin_user and server.admin_password must be set together")
	}
	if c.Metrics.Enabled && !strings.HasPrefix(c.Metrics.Path, "/") {
		return fmt.Errorf("metrics.path must start with '/' (got %q)", c.Metrics.Path)
	}

	if c.Log.Format != "text" && c.Log.Format != "json" {
		return fmt.Errorf("invalid log format '%s': must be either 'text' or 'json'", c.Log.Format)
	}
	if c.Log.File != "" {
		c.Log.File = util.ExpandPath(c.Log.File)
	}
	return nil
}
