package tasks

import (
	"context"
	"fmt"
	"time"

	"github.com/mikestefanello/backlite"
	"github.com/rs/zerolog/log"

	"github.com/mrlokans/catalog/internal/notify"
)

// SendReviewConfirmationTask delivers the confirmation for a submitted review.
type SendReviewConfirmationTask struct {
	Recipient string `json:"recipient"`
	Text      string `json:"text"`
}

// Config returns the queue configuration for confirmation tasks.
// A failed send is not retried. A zero Timeout leaves the send without a deadline.
func (t SendReviewConfirmationTask) Config() backlite.QueueConfig {
	return backlite.QueueConfig{
		Name:        "send_review_confirmation",
		MaxAttempts: 1,
		Backoff:     time.Second,
		Retention: &backlite.Retention{
			Duration:   24 * time.Hour,
			OnlyFailed: true,
			Data:       &backlite.RetainData{OnlyFailed: true},
		},
	}
}

// SendReviewConfirmationProcessor creates a processor function for SendReviewConfirmationTask.
func SendReviewConfirmationProcessor(notifier notify.Notifier) backlite.QueueProcessor[SendReviewConfirmationTask] {
	return func(ctx context.Context, task SendReviewConfirmationTask) error {
		if notifier == nil {
			return fmt.Errorf("notifier not configured")
		}

		if err := notifier.Send(ctx, task.Recipient, task.Text); err != nil {
			return fmt.Errorf("send review confirmation to %s: %w", task.Recipient, err)
		}
		return nil
	}
}

// NewSendReviewConfirmationQueue creates a backlite queue for confirmation tasks.
func NewSendReviewConfirmationQueue(notifier notify.Notifier) backlite.Queue {
	return backlite.NewQueue(SendReviewConfirmationProcessor(notifier))
}

// NotificationDispatcher enqueues confirmations on the task queue.
// Enqueue failures are logged and dropped.
type NotificationDispatcher struct {
	client *Client
}

// NewNotificationDispatcher creates a dispatcher backed by the task queue.
func NewNotificationDispatcher(client *Client) *NotificationDispatcher {
	return &NotificationDispatcher{client: client}
}

func (d *NotificationDispatcher) Dispatch(recipient, text string) {
	ids, err := d.client.Add(SendReviewConfirmationTask{Recipient: recipient, Text: text}).Save()
	if err != nil {
		log.Warn().Err(err).Str("recipient", recipient).Msg("Failed to enqueue review confirmation")
		return
	}
	log.Debug().Strs("task_ids", ids).Msg("Review confirmation enqueued")
}
