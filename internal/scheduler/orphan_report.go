package scheduler

import (
	"context"
	"fmt"
	"sync"
	"time"

	"github.com/robfig/cron/v3"
	"github.com/rs/zerolog/log"
)

// cronParser accepts standard five-field cron expressions.
var cronParser = cron.NewParser(cron.Minute | cron.Hour | cron.Dom | cron.Month | cron.Dow)

// ValidateCronSchedule checks if a cron schedule is valid
func ValidateCronSchedule(schedule string) error {
	_, err := cronParser.Parse(schedule)
	return err
}

// OrphanReportScheduler periodically triggers the orphaned review report.
type OrphanReportScheduler struct {
	enabled  bool
	schedule string
	job      func(ctx context.Context) error

	cron       *cron.Cron
	entryID    cron.EntryID
	mu         sync.RWMutex
	isRunning  bool
	cancelFunc context.CancelFunc
}

// NewOrphanReportScheduler creates a new scheduler instance. job is run on
// every tick; the entrypoint passes a function that enqueues the report task.
func NewOrphanReportScheduler(enabled bool, schedule string, job func(ctx context.Context) error) *OrphanReportScheduler {
	return &OrphanReportScheduler{
		enabled:  enabled,
		schedule: schedule,
		job:      job,
		cron:     cron.New(cron.WithParser(cronParser)),
	}
}

// Start begins the scheduler if the report is enabled
func (s *OrphanReportScheduler) Start(ctx context.Context) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.isRunning {
		return nil
	}

	if !s.enabled {
		log.Info().Msg("Orphan report scheduler: disabled")
		return nil
	}

	if s.job == nil {
		return fmt.Errorf("orphan report job not configured")
	}

	if err := ValidateCronSchedule(s.schedule); err != nil {
		return fmt.Errorf("invalid cron schedule '%s': %w", s.schedule, err)
	}

	var cancelCtx context.Context
	cancelCtx, s.cancelFunc = context.WithCancel(ctx)

	entryID, err := s.cron.AddFunc(s.schedule, func() {
		s.run(cancelCtx)
	})
	if err != nil {
		s.cancelFunc()
		s.cancelFunc = nil
		return fmt.Errorf("failed to schedule orphan report: %w", err)
	}
	s.entryID = entryID

	s.cron.Start()
	s.isRunning = true

	log.Info().
		Str("schedule", s.schedule).
		Time("next_run", s.cron.Entry(entryID).Next).
		Msg("Orphan report scheduler: started")

	// Monitor for context cancellation
	go func() {
		<-cancelCtx.Done()
		s.Stop()
	}()

	return nil
}

// Stop gracefully stops the scheduler
func (s *OrphanReportScheduler) Stop() {
	s.mu.Lock()
	defer s.mu.Unlock()

	if !s.isRunning {
		return
	}

	// Stop accepting new jobs and wait for running jobs to complete
	ctx := s.cron.Stop()
	<-ctx.Done()

	s.cron.Remove(s.entryID)
	s.isRunning = false
	if s.cancelFunc != nil {
		s.cancelFunc()
		s.cancelFunc = nil
	}

	log.Info().Msg("Orphan report scheduler: stopped")
}

// IsRunning returns whether the scheduler is active
func (s *OrphanReportScheduler) IsRunning() bool {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.isRunning
}

// NextRunTime returns when the next report will be triggered
func (s *OrphanReportScheduler) NextRunTime() *time.Time {
	s.mu.RLock()
	defer s.mu.RUnlock()

	if !s.isRunning {
		return nil
	}

	next := s.cron.Entry(s.entryID).Next
	return &next
}

func (s *OrphanReportScheduler) run(ctx context.Context) {
	if err := s.job(ctx); err != nil {
		log.Warn().Err(err).Msg("Orphan report: failed to trigger")
	}
}
