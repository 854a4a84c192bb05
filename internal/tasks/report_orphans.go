package tasks

import (
	"context"
	"fmt"
	"time"

	"github.com/mikestefanello/backlite"
	"github.com/rs/zerolog/log"
)

// OrphanReviewCounter counts reviews whose book no longer exists.
type OrphanReviewCounter interface {
	CountOrphans(ctx context.Context) (int64, error)
}

// ReportOrphanReviewsTask logs how many reviews reference a missing book.
// Orphans are allowed; the report only makes them visible.
type ReportOrphanReviewsTask struct{}

// Config returns the queue configuration for orphan report tasks.
func (t ReportOrphanReviewsTask) Config() backlite.QueueConfig {
	return backlite.QueueConfig{
		Name:        "report_orphan_reviews",
		MaxAttempts: 1,
		Backoff:     time.Minute,
		Timeout:     time.Minute,
		Retention: &backlite.Retention{
			Duration:   24 * time.Hour,
			OnlyFailed: false,
			Data:       &backlite.RetainData{OnlyFailed: true},
		},
	}
}

// ReportOrphanReviewsProcessor creates a processor function for ReportOrphanReviewsTask.
func ReportOrphanReviewsProcessor(counter OrphanReviewCounter) backlite.QueueProcessor[ReportOrphanReviewsTask] {
	return func(ctx context.Context, task ReportOrphanReviewsTask) error {
		if counter == nil {
			return fmt.Errorf("orphan review counter not configured")
		}

		count, err := counter.CountOrphans(ctx)
		if err != nil {
			return fmt.Errorf("count orphan reviews: %w", err)
		}

		event := log.Info()
		if count > 0 {
			event = log.Warn()
		}
		event.Int64("orphans", count).Msg("Orphaned review report")
		return nil
	}
}

// NewReportOrphanReviewsQueue creates a backlite queue for orphan report tasks.
func NewReportOrphanReviewsQueue(counter OrphanReviewCounter) backlite.Queue {
	return backlite.NewQueue(ReportOrphanReviewsProcessor(counter))
}
