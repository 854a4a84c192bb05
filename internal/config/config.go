package config

import (
	"time"

	"github.com/spf13/viper"
)

type NotifySink string

const (
	NotifySinkLog   NotifySink = "log"   // Log and sleep, no delivery (default)
	NotifySinkRedis NotifySink = "redis" // Push onto a Redis list for an external mailer
)

type (
	Config struct {
		HTTP
		Global
		Database
		Log
		Notify
		Redis
		Reviews
		Tasks
		OrphanReport
	}

	HTTP struct {
		Port int32
		Host string
	}
	Global struct {
		ShutdownTimeoutInSeconds int
	}
	Database struct {
		Driver       string // sqlite, postgres, mysql
		Path         string // SQLite file, used when Driver is sqlite
		DSN          string // Connection string for postgres/mysql
		LogLevel     string // gorm logger level: silent, error, warn, info
		MaxOpenConns int
	}
	Log struct {
		Level  string // zerolog level name
		Format string // json or console
	}
	Notify struct {
		Recipient string        // Fixed recipient of review confirmations
		Sink      NotifySink    // Where confirmations are delivered
		Delay     time.Duration // Simulated send latency of the log sink
	}
	Redis struct {
		Addr     string
		Password string
		DB       int
		ListKey  string // List the redis sink pushes to
	}
	Reviews struct {
		RequireBook bool // Reject reviews whose book_id references no book
	}
	Tasks struct {
		Enabled         bool
		DatabasePath    string // Defaults to "<database>-tasks.db" next to the SQLite file
		Workers         int
		ReleaseAfter    time.Duration
		CleanupInterval time.Duration
	}
	OrphanReport struct {
		Enabled  bool
		Schedule string // Cron format: "0 3 * * *" = daily at 03:00
	}
)

func NewConfig() *Config {
	v := viper.New()
	v.AutomaticEnv()
	v.SetDefault("port", 8000)
	v.SetDefault("host", "0.0.0.0")
	v.SetDefault("shutdown_timeout_in_seconds", 5)

	// Database defaults
	v.SetDefault("database_driver", DriverSQLite)
	v.SetDefault("database_path", DefaultDatabasePath)
	v.SetDefault("database_dsn", "")
	v.SetDefault("database_log_level", "warn")
	v.SetDefault("database_max_open_conns", 10)

	// Logging defaults
	v.SetDefault("log_level", "info")
	v.SetDefault("log_format", "json")

	// Notification defaults
	v.SetDefault("notify_recipient", DefaultNotifyRecipient)
	v.SetDefault("notify_sink", string(NotifySinkLog))
	v.SetDefault("notify_delay", "5s")

	v.SetDefault("redis_addr", "localhost:6379")
	v.SetDefault("redis_password", "")
	v.SetDefault("redis_db", 0)
	v.SetDefault("redis_list_key", "catalog:notifications")

	v.SetDefault("reviews_require_book", false)

	// Task queue defaults
	v.SetDefault("tasks_enabled", true)
	v.SetDefault("tasks_database_path", "")
	v.SetDefault("task_workers", 2)
	v.SetDefault("task_release_after", "15m")
	v.SetDefault("task_cleanup_interval", "1h")

	v.SetDefault("orphan_report_enabled", false)
	v.SetDefault("orphan_report_schedule", "0 3 * * *") // Daily at 03:00

	return &Config{
		HTTP: HTTP{
			Port: v.GetInt32("PORT"),
			Host: v.GetString("HOST"),
		},
		Global: Global{
			ShutdownTimeoutInSeconds: v.GetInt("SHUTDOWN_TIMEOUT_IN_SECONDS"),
		},
		Database: Database{
			Driver:       v.GetString("DATABASE_DRIVER"),
			Path:         v.GetString("DATABASE_PATH"),
			DSN:          v.GetString("DATABASE_DSN"),
			LogLevel:     v.GetString("DATABASE_LOG_LEVEL"),
			MaxOpenConns: v.GetInt("DATABASE_MAX_OPEN_CONNS"),
		},
		Log: Log{
			Level:  v.GetString("LOG_LEVEL"),
			Format: v.GetString("LOG_FORMAT"),
		},
		Notify: Notify{
			Recipient: v.GetString("NOTIFY_RECIPIENT"),
			Sink:      NotifySink(v.GetString("NOTIFY_SINK")),
			Delay:     v.GetDuration("NOTIFY_DELAY"),
		},
		Redis: Redis{
			Addr:     v.GetString("REDIS_ADDR"),
			Password: v.GetString("REDIS_PASSWORD"),
			DB:       v.GetInt("REDIS_DB"),
			ListKey:  v.GetString("REDIS_LIST_KEY"),
		},
		Reviews: Reviews{
			RequireBook: v.GetBool("REVIEWS_REQUIRE_BOOK"),
		},
		Tasks: Tasks{
			Enabled:         v.GetBool("TASKS_ENABLED"),
			DatabasePath:    v.GetString("TASKS_DATABASE_PATH"),
			Workers:         v.GetInt("TASK_WORKERS"),
			ReleaseAfter:    v.GetDuration("TASK_RELEASE_AFTER"),
			CleanupInterval: v.GetDuration("TASK_CLEANUP_INTERVAL"),
		},
		OrphanReport: OrphanReport{
			Enabled:  v.GetBool("ORPHAN_REPORT_ENABLED"),
			Schedule: v.GetString("ORPHAN_REPORT_SCHEDULE"),
		},
	}
}
