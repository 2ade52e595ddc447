package config

import "time"

// Config is the root application configuration.
type Config struct {
	Timezone string        `yaml:"timezone" env:"BOARD_TIMEZONE" env-default:"Local"`
	Store    StoreConfig   `yaml:"store"`
	Feed     FeedConfig    `yaml:"feed"`
	Display  DisplayConfig `yaml:"display"`
	Server   ServerConfig  `yaml:"server"`
	Metrics  MetricsConfig `yaml:"metrics"`
	Log      LogConfig     `yaml:"log"`
}

// Store drivers.
const (
	DriverFile     = "file"
	DriverPostgres = "postgres"
)

// StoreConfig selects and configures the persistent store.
type StoreConfig struct {
	Driver   string         `yaml:"driver"    env:"BOARD_STORE_DRIVER" env-default:"file"`
	FilePath string         `yaml:"file_path" env:"BOARD_STORE_FILE"   env-default:"~/.go-hackathon-board/schedule.json"`
	Postgres PostgresConfig `yaml:"postgres"`
}

// PostgresConfig holds PostgreSQL connection settings.
type PostgresConfig struct {
	DSN             string        `yaml:"dsn"                env:"BOARD_DATABASE_DSN"`
	MaxConns        int32         `yaml:"max_conns"          env:"BOARD_DATABASE_MAX_CONNS"          env-default:"4"`
	MinConns        int32         `yaml:"min_conns"          env:"BOARD_DATABASE_MIN_CONNS"          env-default:"0"`
	MaxConnLifetime time.Duration `yaml:"max_conn_lifetime"  env:"BOARD_DATABASE_MAX_CONN_LIFETIME"  env-default:"1h"`
	MaxConnIdleTime time.Duration `yaml:"max_conn_idle_time" env:"BOARD_DATABASE_MAX_CONN_IDLE_TIME" env-default:"30m"`
	AutoMigrate     bool          `yaml:"auto_migrate"       env:"BOARD_DATABASE_AUTO_MIGRATE"       env-default:"true"`
}

// DefaultTopic is the notification channel the schema migrations bind the
// postgres change trigger to.
const DefaultTopic = "schedules"

// FeedConfig configures change notifications.
type FeedConfig struct {
	Topic string `yaml:"topic" env:"BOARD_FEED_TOPIC" env-default:"schedules"`
	// Watch enables the store's native feed: fsnotify for files, LISTEN for postgres.
	Watch      bool        `yaml:"watch"       env:"BOARD_FEED_WATCH"  env-default:"true"`
	ResyncCron string      `yaml:"resync_cron" env:"BOARD_RESYNC_CRON" env-default:"@every 5m"`
	Redis      RedisConfig `yaml:"redis"`
}

// RedisConfig enables the cross-process pub/sub feed when Addr is set.
type RedisConfig struct {
	Addr     string `yaml:"addr"     env:"BOARD_REDIS_ADDR"`
	Password string `yaml:"password" env:"BOARD_REDIS_PASSWORD"`
	DB       int    `yaml:"db"       env:"BOARD_REDIS_DB"     env-default:"0"`
	Prefix   string `yaml:"prefix"   env:"BOARD_REDIS_PREFIX" env-default:"hackathon-board"`
}

// DisplayConfig holds terminal board settings.
type DisplayConfig struct {
	View          string        `yaml:"view"           env:"BOARD_VIEW"           env-default:"dashboard"`
	WrapPolicy    string        `yaml:"wrap_policy"    env:"BOARD_WRAP_POLICY"    env-default:"none"`
	RefreshRate   time.Duration `yaml:"refresh_rate"   env:"BOARD_REFRESH_RATE"   env-default:"1s"`
	EventTitle    string        `yaml:"event_title"    env:"BOARD_EVENT_TITLE"    env-default:"Hackathon"`
	ShowSecondary bool          `yaml:"show_secondary" env:"BOARD_SHOW_SECONDARY" env-default:"true"`
	ImportantText string        `yaml:"important_text" env:"BOARD_IMPORTANT_TEXT" env-default:"Important:"`
}

// ServerConfig holds HTTP server settings.
type ServerConfig struct {
	Addr            string        `yaml:"addr"             env:"BOARD_SERVER_ADDR"             env-default:":8080"`
	ReadTimeout     time.Duration `yaml:"read_timeout"     env:"BOARD_SERVER_READ_TIMEOUT"     env-default:"10s"`
	WriteTimeout    time.Duration `yaml:"write_timeout"    env:"BOARD_SERVER_WRITE_TIMEOUT"    env-default:"30s"`
	ShutdownTimeout time.Duration `yaml:"shutdown_timeout" env:"BOARD_SERVER_SHUTDOWN_TIMEOUT" env-default:"10s"`
	AdminUser       string        `yaml:"admin_user"       env:"BOARD_ADMIN_USER"`
	AdminPassword   string        `yaml:"admin_password"   env:"BOARD_ADMIN_PASSWORD"`
}

// MetricsConfig enables the Prometheus sink and /metrics.
type MetricsConfig struct {
	Enabled bool   `yaml:"enabled" env:"BOARD_METRICS_ENABLED" env-default:"false"`
	Path    string `yaml:"path"    env:"BOARD_METRICS_PATH"    env-default:"/metrics"`
}

// LogConfig holds logging settings.
type LogConfig struct {
	Level  string `yaml:"level"  env:"BOARD_LOG_LEVEL"  env-default:"info"`
	File   string `yaml:"file"   env:"BOARD_LOG_FILE"   env-default:"~/.go-hackathon-board/logs/app.log"`
	Format string `yaml:"format" env:"BOARD_LOG_FORMAT" env-default:"text"`
}

// AuthEnabled reports whether mutating HTTP endpoints require basic auth.
func (s ServerConfig) AuthEnabled() bool {
	return s.AdminUser != "" && s.AdminPassword != ""
}
