package database

import (
	"fmt"
	"strings"
	"time"

	"github.com/rs/zerolog/log"
	"gorm.io/driver/mysql"
	"gorm.io/driver/postgres"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"

	"github.com/mrlokans/catalog/internal/config"
	"github.com/mrlokans/catalog/internal/entities"
)

// Options describes the single connection target of the process.
type Options struct {
	Driver       string
	Path         string
	DSN          string
	LogLevel     string
	MaxOpenConns int
}

// OptionsFromConfig extracts database options from the application config.
func OptionsFromConfig(cfg config.Database) Options {
	return Options{
		Driver:       cfg.Driver,
		Path:         cfg.Path,
		DSN:          cfg.DSN,
		LogLevel:     cfg.LogLevel,
		MaxOpenConns: cfg.MaxOpenConns,
	}
}

type Database struct {
	DB *gorm.DB
}

// NewDatabase opens a SQLite database at dbPath with default options.
func NewDatabase(dbPath string) (*Database, error) {
	return Open(Options{Driver: config.DriverSQLite, Path: dbPath, LogLevel: "warn"})
}

// Open connects to the configured engine, sizes the pool and migrates the schema.
func Open(opts Options) (*Database, error) {
	dialector, err := Dialector(opts)
	if err != nil {
		return nil, err
	}

	db, err := gorm.Open(dialector, &gorm.Config{
		Logger: logger.Default.LogMode(parseLogLevel(opts.LogLevel)),
		// Reviews may outlive their book, so no FK constraint is created.
		DisableForeignKeyConstraintWhenMigrating: true,
	})
	if err != nil {
		return nil, fmt.Errorf("failed to connect to database: %w", err)
	}

	sqlDB, err := db.DB()
	if err != nil {
		return nil, fmt.Errorf("failed to get sql.DB: %w", err)
	}
	if opts.MaxOpenConns > 0 {
		sqlDB.SetMaxOpenConns(opts.MaxOpenConns)
		sqlDB.SetMaxIdleConns(opts.MaxOpenConns)
	}
	sqlDB.SetConnMaxLifetime(time.Hour)

	if err := db.AutoMigrate(&entities.Book{}, &entities.Review{}); err != nil {
		sqlDB.Close()
		return nil, fmt.Errorf("failed to migrate database: %w", err)
	}

	log.Info().Str("driver", driverName(opts)).Msg("Database initialized successfully")

	return &Database{DB: db}, nil
}

// Dialector selects the gorm dialector for the configured driver.
func Dialector(opts Options) (gorm.Dialector, error) {
	switch driverName(opts) {
	case config.DriverSQLite:
		if opts.Path == "" {
			return nil, fmt.Errorf("database path is required for the sqlite driver")
		}
		return sqlite.Open(sqliteDSN(opts.Path)), nil
	case config.DriverPostgres:
		if opts.DSN == "" {
			return nil, fmt.Errorf("database DSN is required for the postgres driver")
		}
		return postgres.Open(opts.DSN), nil
	case config.DriverMySQL:
		if opts.DSN == "" {
			return nil, fmt.Errorf("database DSN is required for the mysql driver")
		}
		return mysql.Open(opts.DSN), nil
	default:
		return nil, fmt.Errorf("unsupported database driver %q", opts.Driver)
	}
}

func (d *Database) Close() error {
	sqlDB, err := d.DB.DB()
	if err != nil {
		return err
	}
	return sqlDB.Close()
}

// Ping checks that the pool can reach the engine.
func (d *Database) Ping() error {
	sqlDB, err := d.DB.DB()
	if err != nil {
		return err
	}
	return sqlDB.Ping()
}

// Sessions returns the per-request session provider backed by this pool.
func (d *Database) Sessions() *SessionProvider {
	return NewSessionProvider(d.DB)
}

func driverName(opts Options) string {
	if opts.Driver == "" {
		return config.DriverSQLite
	}
	return strings.ToLower(opts.Driver)
}

// sqliteDSN enables WAL and a busy timeout so concurrent request sessions
// wait for the write lock instead of failing.
func sqliteDSN(path string) string {
	if strings.Contains(path, "?") {
		return path
	}
	return path + "?_journal=WAL&_timeout=5000&_busy_timeout=5000"
}

func parseLogLevel(level string) logger.LogLevel {
	switch strings.ToLower(level) {
	case "silent":
		return logger.Silent
	case "error":
		return logger.Error
	case "info":
		return logger.Info
	default:
		return logger.Warn
	}
}
