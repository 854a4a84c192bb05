// Package notify delivers review confirmations outside the request path.
//
// A Notifier performs the (slow) send. A Dispatcher hands the send off to
// another unit of execution and never reports failure back to the caller.
package notify

import (
	"context"
	"sync"
	"time"

	"github.com/rs/zerolog/log"
)

// Notifier sends a text payload to a recipient.
type Notifier interface {
	Send(ctx context.Context, recipient, text string) error
}

// Dispatcher schedules a notification without blocking the caller.
type Dispatcher interface {
	Dispatch(recipient, text string)
}

// LogNotifier simulates an email provider: it logs the message and blocks
// for Delay before completing.
type LogNotifier struct {
	Delay time.Duration
}

// NewLogNotifier creates a LogNotifier with the given send latency.
func NewLogNotifier(delay time.Duration) *LogNotifier {
	return &LogNotifier{Delay: delay}
}

func (n *LogNotifier) Send(ctx context.Context, recipient, text string) error {
	log.Info().Str("recipient", recipient).Str("review", text).Msg("Sending confirmation email")

	if n.Delay > 0 {
		timer := time.NewTimer(n.Delay)
		defer timer.Stop()
		select {
		case <-timer.C:
		case <-ctx.Done():
			return ctx.Err()
		}
	}

	log.Info().Str("recipient", recipient).Msg("Email sent")
	return nil
}

// GoroutineDispatcher runs each send on its own goroutine with a
// background context. Errors are logged and dropped.
type GoroutineDispatcher struct {
	notifier Notifier
	wg       sync.WaitGroup
}

// NewGoroutineDispatcher creates a dispatcher backed by notifier.
func NewGoroutineDispatcher(notifier Notifier) *GoroutineDispatcher {
	return &GoroutineDispatcher{notifier: notifier}
}

func (d *GoroutineDispatcher) Dispatch(recipient, text string) {
	d.wg.Add(1)
	go func() {
		defer d.wg.Done()
		defer func() {
			if r := recover(); r != nil {
				log.Error().Interface("panic", r).Msg("Notification send panicked")
			}
		}()

		if err := d.notifier.Send(context.Background(), recipient, text); err != nil {
			log.Warn().Err(err).Str("recipient", recipient).Msg("Notification failed")
		}
	}()
}

// Wait blocks until in-flight sends finish or ctx is done.
// Returns true if all sends completed.
func (d *GoroutineDispatcher) Wait(ctx context.Context) bool {
	done := make(chan struct{})
	go func() {
		d.wg.Wait()
		close(done)
	}()

	select {
	case <-done:
		return true
	case <-ctx.Done():
		return false
	}
}
