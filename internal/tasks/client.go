package tasks

import (
	"context"
	"database/sql"
	"fmt"
	"path/filepath"
	"sync"
	"time"

	_ "github.com/mattn/go-sqlite3"
	"github.com/mikestefanello/backlite"
	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"
)

// Client runs deferred catalog work (review confirmations, orphan reports)
// on a backlite queue.
type Client struct {
	client *backlite.Client
	db     *sql.DB
	config Config

	mu      sync.RWMutex
	started bool
}

// DatabasePathFor returns the task database path used alongside a main SQLite file.
// "./catalog.db" becomes "./catalog-tasks.db".
func DatabasePathFor(mainDBPath string) string {
	dir := filepath.Dir(mainDBPath)
	base := filepath.Base(mainDBPath)
	ext := filepath.Ext(base)
	name := base[:len(base)-len(ext)]
	return filepath.Join(dir, name+"-tasks"+ext)
}

// NewClient creates a task queue client on a dedicated SQLite database.
// The queue never shares connections with the catalog store.
func NewClient(tasksDBPath string, cfg Config) (*Client, error) {
	db, err := sql.Open("sqlite3", tasksDBPath+"?_journal=WAL&_busy_timeout=5000")
	if err != nil {
		return nil, fmt.Errorf("open task queue database %s: %w", tasksDBPath, err)
	}

	// Workers plus the dispatcher and the HTTP enqueue path.
	db.SetMaxOpenConns(cfg.Workers + 4)
	db.SetMaxIdleConns(cfg.Workers + 1)
	db.SetConnMaxLifetime(time.Hour)

	queue, err := backlite.NewClient(backlite.ClientConfig{
		DB:              db,
		NumWorkers:      cfg.Workers,
		ReleaseAfter:    cfg.ReleaseAfter,
		CleanupInterval: cfg.CleanupInterval,
		Logger:          &zeroLogger{logger: log.Logger.With().Str("component", "tasks").Logger()},
	})
	if err != nil {
		db.Close()
		return nil, fmt.Errorf("create task queue: %w", err)
	}

	if err := queue.Install(); err != nil {
		db.Close()
		return nil, fmt.Errorf("install task queue schema: %w", err)
	}

	return &Client{
		client: queue,
		db:     db,
		config: cfg,
	}, nil
}

// Register adds queues. Call it before Start.
func (c *Client) Register(queues ...backlite.Queue) {
	for _, q := range queues {
		c.client.Register(q)
	}
}

// Start runs the workers until ctx is done or Stop is called.
// A second call is a no-op.
func (c *Client) Start(ctx context.Context) {
	c.mu.Lock()
	if c.started {
		c.mu.Unlock()
		return
	}
	c.started = true
	c.mu.Unlock()

	log.Info().Int("workers", c.config.Workers).Msg("Deferred task workers running")
	c.client.Start(ctx)
}

// Stop waits for in-flight tasks and reports whether they all finished
// before ctx expired.
func (c *Client) Stop(ctx context.Context) bool {
	c.mu.RLock()
	if !c.started {
		c.mu.RUnlock()
		return true
	}
	c.mu.RUnlock()

	drained := c.client.Stop(ctx)
	if !drained {
		log.Warn().Msg("Deferred tasks still running at shutdown deadline")
		return false
	}
	log.Info().Msg("Deferred task workers drained")
	return true
}

// Close closes the queue database. Call it after Stop.
func (c *Client) Close() error {
	if c.db != nil {
		return c.db.Close()
	}
	return nil
}

// Add begins an enqueue of the given tasks; call Save to persist them.
func (c *Client) Add(tasks ...backlite.Task) *backlite.TaskAddOp {
	return c.client.Add(tasks...)
}

// zeroLogger implements backlite.Logger on top of zerolog.
// backlite passes params as alternating key/value pairs.
type zeroLogger struct {
	logger zerolog.Logger
}

func (l *zeroLogger) Info(message string, params ...any) {
	l.logger.Debug().Fields(params).Msg(message)
}

func (l *zeroLogger) Error(message string, params ...any) {
	l.logger.Error().Fields(params).Msg(message)
}
