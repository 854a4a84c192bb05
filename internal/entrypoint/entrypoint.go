package entrypoint

import (
	"context"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/redis/go-redis/v9"
	"github.com/rs/zerolog/log"

	"github.com/mrlokans/catalog/internal/config"
	"github.com/mrlokans/catalog/internal/database"
	"github.com/mrlokans/catalog/internal/database/reviews"
	http_controllers "github.com/mrlokans/catalog/internal/http"
	"github.com/mrlokans/catalog/internal/logging"
	"github.com/mrlokans/catalog/internal/notify"
	"github.com/mrlokans/catalog/internal/scheduler"
	"github.com/mrlokans/catalog/internal/tasks"
)

// ShutdownFunc is called during graceful shutdown to clean up resources.
type ShutdownFunc func(ctx context.Context)

// App holds the wired service and everything that must be released on exit.
type App struct {
	Router *gin.Engine

	db              *database.Database
	redisClient     *redis.Client
	taskClient      *tasks.Client
	taskCtxCancel   context.CancelFunc
	goDispatcher    *notify.GoroutineDispatcher
	orphanScheduler *scheduler.OrphanReportScheduler
}

func Serve(router *gin.Engine, cfg *config.Config, onShutdown ShutdownFunc) {
	timeout := time.Duration(cfg.Global.ShutdownTimeoutInSeconds) * time.Second

	srv := &http.Server{
		Addr:    fmt.Sprintf("%s:%d", cfg.HTTP.Host, cfg.HTTP.Port),
		Handler: router,
	}

	go func() {
		log.Info().Str("addr", srv.Addr).Msg("Starting server")
		// service connections
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			log.Fatal().Err(err).Msg("listen")
		}
	}()

	// kill (no param) default send syscall.SIGTERM
	// kill -2 is syscall.SIGINT
	// kill -9 is syscall.SIGKILL but can't be caught, so don't need to add it
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit
	log.Info().Dur("timeout", timeout).Msg("Shutdown Server")

	ctx, cancel := context.WithTimeout(context.Background(), timeout)
	defer cancel()

	// Stop accepting requests first so no confirmation is dispatched after
	// the dispatchers have drained.
	if err := srv.Shutdown(ctx); err != nil {
		log.Error().Err(err).Msg("Server Shutdown")
	}

	if onShutdown != nil {
		onShutdown(ctx)
	}

	log.Info().Msg("Server exiting")
}

// Build opens storage and wires the notifier, task queue, scheduler and router.
// Nothing runs in the background until Start is called.
func Build(ctx context.Context, cfg *config.Config, version string) (*App, error) {
	app := &App{}

	db, err := database.Open(database.OptionsFromConfig(cfg.Database))
	if err != nil {
		return nil, fmt.Errorf("failed to initialize database: %w", err)
	}
	app.db = db

	notifier, err := app.newNotifier(ctx, cfg)
	if err != nil {
		app.Close()
		return nil, err
	}

	var dispatcher notify.Dispatcher
	if cfg.Tasks.Enabled {
		tasksDBPath := cfg.Tasks.DatabasePath
		if tasksDBPath == "" {
			tasksDBPath = tasks.DatabasePathFor(cfg.Database.Path)
		}

		app.taskClient, err = tasks.NewClient(tasksDBPath, tasks.Config{
			Workers:         cfg.Tasks.Workers,
			ReleaseAfter:    cfg.Tasks.ReleaseAfter,
			CleanupInterval: cfg.Tasks.CleanupInterval,
		})
		if err != nil {
			app.Close()
			return nil, fmt.Errorf("failed to initialize task queue: %w", err)
		}

		// Register task queues
		app.taskClient.Register(
			tasks.NewSendReviewConfirmationQueue(notifier),
			tasks.NewReportOrphanReviewsQueue(reviews.NewRepository(db.DB)),
		)
		dispatcher = tasks.NewNotificationDispatcher(app.taskClient)

		app.orphanScheduler = scheduler.NewOrphanReportScheduler(
			cfg.OrphanReport.Enabled,
			cfg.OrphanReport.Schedule,
			app.enqueueOrphanReport,
		)
	} else {
		if cfg.OrphanReport.Enabled {
			log.Warn().Msg("Orphan report requires the task queue (TASKS_ENABLED), skipping")
		}
		app.goDispatcher = notify.NewGoroutineDispatcher(notifier)
		dispatcher = app.goDispatcher
	}

	app.Router = http_controllers.NewRouter(http_controllers.RouterConfig{
		Database:        db,
		Sessions:        db.Sessions(),
		Dispatcher:      dispatcher,
		NotifyRecipient: cfg.Notify.Recipient,
		RequireBook:     cfg.Reviews.RequireBook,
		Version:         version,
	})

	return app, nil
}

func (a *App) newNotifier(ctx context.Context, cfg *config.Config) (notify.Notifier, error) {
	switch cfg.Notify.Sink {
	case config.NotifySinkRedis:
		client, err := notify.NewRedisClient(ctx, cfg.Redis.Addr, cfg.Redis.Password, cfg.Redis.DB)
		if err != nil {
			return nil, err
		}
		a.redisClient = client
		return notify.NewRedisNotifier(client, cfg.Redis.ListKey), nil
	case config.NotifySinkLog, "":
		return notify.NewLogNotifier(cfg.Notify.Delay), nil
	default:
		return nil, fmt.Errorf("unsupported notify sink %q", cfg.Notify.Sink)
	}
}

func (a *App) enqueueOrphanReport(ctx context.Context) error {
	_, err := a.taskClient.Add(tasks.ReportOrphanReviewsTask{}).Ctx(ctx).Save()
	return err
}

// Start launches the task workers and the orphan report schedule.
func (a *App) Start(ctx context.Context) error {
	if a.taskClient != nil {
		var taskCtx context.Context
		taskCtx, a.taskCtxCancel = context.WithCancel(ctx)
		go a.taskClient.Start(taskCtx)
	}

	if a.orphanScheduler != nil {
		if err := a.orphanScheduler.Start(ctx); err != nil {
			return fmt.Errorf("failed to start orphan report scheduler: %w", err)
		}
	}

	return nil
}

// Shutdown stops background work, waiting at most until ctx is done.
func (a *App) Shutdown(ctx context.Context) {
	if a.orphanScheduler != nil {
		a.orphanScheduler.Stop()
	}
	if a.taskClient != nil && a.taskCtxCancel != nil {
		a.taskClient.Stop(ctx)
		a.taskCtxCancel()
	}
	if a.goDispatcher != nil && !a.goDispatcher.Wait(ctx) {
		log.Warn().Msg("Shutdown timed out before all confirmations were sent")
	}
}

// Close releases storage and connections. Call after Shutdown.
func (a *App) Close() {
	if a.taskClient != nil {
		if err := a.taskClient.Close(); err != nil {
			log.Error().Err(err).Msg("Error closing task client")
		}
	}
	if a.redisClient != nil {
		if err := a.redisClient.Close(); err != nil {
			log.Error().Err(err).Msg("Error closing redis client")
		}
	}
	if a.db != nil {
		if err := a.db.Close(); err != nil {
			log.Error().Err(err).Msg("Error closing database")
		}
	}
}

func Run(cfg *config.Config, version string) {
	logging.Setup(cfg.Log.Level, cfg.Log.Format, os.Stdout)
	log.Info().Str("version", version).Msg("Starting catalog")

	if cfg.Reviews.RequireBook {
		log.Info().Msg("Reviews must reference an existing book")
	}

	ctx := context.Background()
	app, err := Build(ctx, cfg, version)
	if err != nil {
		log.Fatal().Err(err).Msg("Failed to start")
	}
	defer app.Close()

	if err := app.Start(ctx); err != nil {
		app.Shutdown(ctx)
		app.Close()
		log.Fatal().Err(err).Msg("Failed to start")
	}

	Serve(app.Router, cfg, app.Shutdown)
}
