package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func writeYAML(t *testing.T, dir, content string) string {
	t.Helper()
	path := filepath.Join(dir, "config.yaml")
	require.NoError(t, os.WriteFile(path, []byte(content), 0o644))
	return path
}

// isolate points HOME at a temp dir so the default config path never hits a real file.
func isolate(t *testing.T) string {
	t.Helper()
	home := t.TempDir()
	t.Setenv("HOME", home)
	t.Setenv("BOARD_CONFIG", "")
	return home
}

const validYAML = `
timezone: "Asia/Seoul"
store:
  driver: postgres
  postgres:
    dsn: "postgres://u:p@localhost:5432/board"
    max_conns: 8
    min_conns: 2
feed:
  topic: schedules
  resync_cron: "*/10 * * * *"
  redis:
    addr: "localhost:6379"
    prefix: "hb-test"
display:
  view: clock
  wrap_policy: next-day
  refresh_rate: 500ms
  event_title: "Seoul Hack 2026"
server:
  addr: ":9090"
  admin_user: admin
  admin_password: secret
metrics:
  enabled: true
log:
  level: debug
  format: json
`

func TestLoadDefaults(t *testing.T) {
	home := isolate(t)

	cfg, err := Load("")
	require.NoError(t, err)

	assert.Equal(t, "Local", cfg.Timezone)
	assert.Equal(t, DriverFile, cfg.Store.Driver)
	assert.Equal(t, filepath.Join(home, ".go-hackathon-board", "schedule.json"), cfg.Store.FilePath)
	assert.Equal(t, "schedules", cfg.Feed.Topic)
	assert.True(t, cfg.Feed.Watch)
	assert.Equal(t, "@every 5m", cfg.Feed.ResyncCron)
	assert.Equal(t, "dashboard", cfg.Display.View)
	assert.Equal(t, "none", cfg.Display.WrapPolicy)
	assert.Equal(t, time.Second, cfg.Display.RefreshRate)
	assert.Equal(t, "Important:", cfg.Display.ImportantText)
	assert.Equal(t, ":8080", cfg.Server.Addr)
	assert.False(t, cfg.Server.AuthEnabled())
	assert.Equal(t, "/metrics", cfg.Metrics.Path)
	assert.Equal(t, "info", cfg.Log.Level)
	assert.Equal(t, int32(4), cfg.Store.Postgres.MaxConns)
	assert.Equal(t, time.Hour, cfg.Store.Postgres.MaxConnLifetime)
}

func TestLoadYAML(t *testing.T) {
	isolate(t)
	path := writeYAML(t, t.TempDir(), validYAML)

	cfg, err := Load(path)
	require.NoError(t, err)

	assert.Equal(t, "Asia/Seoul", cfg.Timezone)
	assert.Equal(t, DriverPostgres, cfg.Store.Driver)
	assert.Equal(t, "postgres://u:p@localhost:5432/board", cfg.Store.Postgres.DSN)
	assert.Equal(t, int32(8), cfg.Store.Postgres.MaxConns)
	assert.Equal(t, int32(2), cfg.Store.Postgres.MinConns)
	assert.True(t, cfg.Store.Postgres.AutoMigrate)
	assert.Equal(t, "localhost:6379", cfg.Feed.Redis.Addr)
	assert.Equal(t, "hb-test", cfg.Feed.Redis.Prefix)
	assert.Equal(t, "clock", cfg.Display.View)
	assert.Equal(t, "next-day", cfg.Display.WrapPolicy)
	assert.Equal(t, 500*time.Millisecond, cfg.Display.RefreshRate)
	assert.Equal(t, "Seoul Hack 2026", cfg.Display.EventTitle)
	assert.True(t, cfg.Server.AuthEnabled())
	assert.True(t, cfg.Metrics.Enabled)
	assert.Equal(t, "json", cfg.Log.Format)
}

func TestLoadEnvOverridesYAML(t *testing.T) {
	isolate(t)
	path := writeYAML(t, t.TempDir(), validYAML)
	t.Setenv("BOARD_VIEW", "title")
	t.Setenv("BOARD_DATABASE_MAX_CONNS", "16")
	t.Setenv("BOARD_SERVER_ADDR", "127.0.0.1:7000")

	cfg, err := Load(path)
	require.NoError(t, err)

	assert.Equal(t, "title", cfg.Display.View)
	assert.Equal(t, int32(16), cfg.Store.Postgres.MaxConns)
	assert.Equal(t, "127.0.0.1:7000", cfg.Server.Addr)
}

func TestLoadFromConfigEnv(t *testing.T) {
	isolate(t)
	path := writeYAML(t, t.TempDir(), validYAML)
	t.Setenv("BOARD_CONFIG", path)

	cfg, err := Load("")
	require.NoError(t, err)
	assert.Equal(t, DriverPostgres, cfg.Store.Driver)
}

func TestLoadMissingExplicitFile(t *testing.T) {
	isolate(t)

	_, err := Load(filepath.Join(t.TempDir(), "nope.yaml"))
	assert.Error(t, err)
}

func TestValidate(t *testing.T) {
	tests := []struct {
		name    string
		mutate  func(c *Config)
		wantErr string
	}{
		{name: "bad driver", mutate: func(c *Config) { c.Store.Driver = "sqlite" }, wantErr: "invalid store driver"},
		{name: "postgres without dsn", mutate: func(c *Config) { c.Store.Driver = DriverPostgres }, wantErr: "dsn is required"},
		{name: "bad timezone", mutate: func(c *Config) { c.Timezone = "Mars/Olympus" }, wantErr: "invalid timezone"},
		{name: "bad cron", mutate: func(c *Config) { c.Feed.ResyncCron = "every now and then" }, wantErr: "resync_cron"},
		{name: "bad view", mutate: func(c *Config) { c.Display.View = "calendar" }, wantErr: "display.view"},
		{name: "bad wrap", mutate: func(c *Config) { c.Display.WrapPolicy = "sometimes" }, wantErr: "wrap_policy"},
		{name: "refresh too fast", mutate: func(c *Config) { c.Display.RefreshRate = time.Millisecond }, wantErr: "refresh_rate"},
		{name: "half credentials", mutate: func(c *Config) { c.Server.AdminUser = "admin" }, wantErr: "set together"},
		{name: "bad metrics path", mutate: func(c *Config) { c.Metrics.Enabled = true; c.Metrics.Path = "metrics" }, wantErr: "metrics.path"},
		{name: "bad log format", mutate: func(c *Config) { c.Log.Format = "xml" }, wantErr: "log format"},
		{name: "empty topic", mutate: func(c *Config) { c.Feed.Topic = " " }, wantErr: "feed.topic"},
		{name: "custom postgres topic without migrations", mutate: func(c *Config) {
			c.Store.Driver = DriverPostgres
			c.Store.Postgres.DSN = "postgres://localhost/board"
			c.Store.Postgres.AutoMigrate = false
			c.Feed.Watch = true
			c.Feed.Topic = "board_events"
		}, wantErr: "auto_migrate"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			isolate(t)
			cfg := Default()
			tt.mutate(cfg)
			err := cfg.Validate()
			require.Error(t, err)
			assert.Contains(t, err.Error(), tt.wantErr)
		})
	}
}

func TestValidateCustomPostgresTopic(t *testing.T) {
	isolate(t)
	cfg := Default()
	cfg.Store.Driver = DriverPostgres
	cfg.Store.Postgres.DSN = "postgres://localhost/board"
	cfg.Feed.Topic = "board_events"

	cfg.Store.Postgres.AutoMigrate = true
	cfg.Feed.Watch = true
	assert.NoError(t, cfg.Validate())

	cfg.Store.Postgres.AutoMigrate = false
	cfg.Feed.Watch = false
	assert.NoError(t, cfg.Validate())
}

func TestSaveRoundTrip(t *testing.T) {
	isolate(t)
	path := writeYAML(t, t.TempDir(), validYAML)
	cfg, err := Load(path)
	require.NoError(t, err)

	out := filepath.Join(t.TempDir(), "nested", "saved.yaml")
	require.NoError(t, Save(out, cfg))

	info, err := os.Stat(out)
	require.NoError(t, err)
	assert.Equal(t, os.FileMode(0o600), info.Mode().Perm())

	again, err := Load(out)
	require.NoError(t, err)
	assert.Equal(t, cfg, again)
}

func TestSaveRejectsEmpty(t *testing.T) {
	assert.Error(t, Save("", Default()))
	assert.Error(t, Save(filepath.Join(t.TempDir(), "c.yaml"), nil))
}
