package tasks

import (
	"context"
	"errors"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/mikestefanello/backlite"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newTestClient(t *testing.T) *Client {
	t.Helper()
	cfg := DefaultConfig()
	cfg.Workers = 1

	client, err := NewClient(filepath.Join(t.TempDir(), "test-tasks.db"), cfg)
	require.NoError(t, err)
	t.Cleanup(func() { client.Close() })
	return client
}

func startClient(t *testing.T, client *Client) {
	t.Helper()
	ctx, cancel := context.WithCancel(context.Background())
	t.Cleanup(func() {
		stopCtx, stopCancel := context.WithTimeout(context.Background(), 2*time.Second)
		defer stopCancel()
		client.Stop(stopCtx)
		cancel()
	})
	go client.Start(ctx)
}

type sentMessage struct {
	recipient   string
	text        string
	hasDeadline bool
}

type channelNotifier struct {
	sent chan sentMessage
	err  error
}

func (n *channelNotifier) Send(ctx context.Context, recipient, text string) error {
	_, hasDeadline := ctx.Deadline()
	n.sent <- sentMessage{recipient: recipient, text: text, hasDeadline: hasDeadline}
	return n.err
}

type fixedCounter struct {
	count int64
	err   error
	calls int
}

func (c *fixedCounter) CountOrphans(ctx context.Context) (int64, error) {
	c.calls++
	return c.count, c.err
}

func TestDatabasePathFor(t *testing.T) {
	assert.Equal(t, filepath.Join(".", "catalog-tasks.db"), DatabasePathFor("./catalog.db"))
	assert.Equal(t, filepath.Join("/var/lib", "app-tasks.sqlite"), DatabasePathFor("/var/lib/app.sqlite"))
}

func TestNewClient(t *testing.T) {
	tmpDir := t.TempDir()
	tasksDBPath := filepath.Join(tmpDir, "catalog-tasks.db")

	client, err := NewClient(tasksDBPath, DefaultConfig())
	require.NoError(t, err)
	require.NotNil(t, client)

	_, err = os.Stat(tasksDBPath)
	assert.NoError(t, err, "tasks database should be created")

	assert.NoError(t, client.Close())
}

func TestClientStartStop(t *testing.T) {
	client := newTestClient(t)

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	go client.Start(ctx)

	// Give it time to start
	time.Sleep(50 * time.Millisecond)

	stopCtx, stopCancel := context.WithTimeout(context.Background(), 2*time.Second)
	defer stopCancel()

	assert.True(t, client.Stop(stopCtx), "stop should succeed gracefully")
}

func TestClientStopWithoutStart(t *testing.T) {
	client := newTestClient(t)
	assert.True(t, client.Stop(context.Background()))
}

func TestNotificationDispatcher_DeliversThroughQueue(t *testing.T) {
	client := newTestClient(t)
	notifier := &channelNotifier{sent: make(chan sentMessage, 1)}
	client.Register(NewSendReviewConfirmationQueue(notifier))
	startClient(t, client)

	NewNotificationDispatcher(client).Dispatch("reviews@example.com", "Great book!")

	select {
	case msg := <-notifier.sent:
		assert.Equal(t, "reviews@example.com", msg.recipient)
		assert.Equal(t, "Great book!", msg.text)
		assert.False(t, msg.hasDeadline, "confirmation send should not be time-bounded")
	case <-time.After(5 * time.Second):
		t.Fatal("confirmation was not delivered within timeout")
	}
}

func TestNotificationDispatcher_UnregisteredQueueDoesNotPanic(t *testing.T) {
	client := newTestClient(t)

	assert.NotPanics(t, func() {
		NewNotificationDispatcher(client).Dispatch("reviews@example.com", "Dropped")
	})
}

func TestSendReviewConfirmationProcessor(t *testing.T) {
	t.Run("forwards to the notifier", func(t *testing.T) {
		notifier := &channelNotifier{sent: make(chan sentMessage, 1)}
		process := SendReviewConfirmationProcessor(notifier)

		err := process(context.Background(), SendReviewConfirmationTask{Recipient: "a@example.com", Text: "Nice"})
		require.NoError(t, err)
		assert.Equal(t, sentMessage{recipient: "a@example.com", text: "Nice"}, <-notifier.sent)
	})

	t.Run("wraps notifier errors", func(t *testing.T) {
		notifier := &channelNotifier{sent: make(chan sentMessage, 1), err: errors.New("smtp down")}
		process := SendReviewConfirmationProcessor(notifier)

		err := process(context.Background(), SendReviewConfirmationTask{Recipient: "a@example.com", Text: "Nice"})
		assert.ErrorContains(t, err, "smtp down")
	})

	t.Run("fails without a notifier", func(t *testing.T) {
		process := SendReviewConfirmationProcessor(nil)
		assert.Error(t, process(context.Background(), SendReviewConfirmationTask{}))
	})
}

func TestReportOrphanReviewsProcessor(t *testing.T) {
	t.Run("counts orphans", func(t *testing.T) {
		counter := &fixedCounter{count: 3}
		process := ReportOrphanReviewsProcessor(counter)

		require.NoError(t, process(context.Background(), ReportOrphanReviewsTask{}))
		assert.Equal(t, 1, counter.calls)
	})

	t.Run("propagates counter errors", func(t *testing.T) {
		counter := &fixedCounter{err: errors.New("db gone")}
		process := ReportOrphanReviewsProcessor(counter)

		assert.ErrorContains(t, process(context.Background(), ReportOrphanReviewsTask{}), "db gone")
	})

	t.Run("fails without a counter", func(t *testing.T) {
		process := ReportOrphanReviewsProcessor(nil)
		assert.Error(t, process(context.Background(), ReportOrphanReviewsTask{}))
	})
}

// TestTask is a simple task for testing
type TestTask struct {
	Value string `json:"value"`
}

func (t TestTask) Config() backlite.QueueConfig {
	return backlite.QueueConfig{
		Name:        "test_task",
		MaxAttempts: 1,
		Backoff:     time.Second,
		Timeout:     5 * time.Second,
	}
}

func TestTaskEnqueue(t *testing.T) {
	client := newTestClient(t)

	executed := make(chan string, 1)
	client.Register(backlite.NewQueue(func(ctx context.Context, task TestTask) error {
		executed <- task.Value
		return nil
	}))

	ids, err := client.Add(TestTask{Value: "hello"}).Save()
	require.NoError(t, err)
	require.Len(t, ids, 1)

	startClient(t, client)

	select {
	case val := <-executed:
		assert.Equal(t, "hello", val)
	case <-time.After(5 * time.Second):
		t.Fatal("task was not executed within timeout")
	}
}

func TestTaskConfigs(t *testing.T) {
	confirm := SendReviewConfirmationTask{}.Config()
	assert.Equal(t, "send_review_confirmation", confirm.Name)
	assert.Equal(t, 1, confirm.MaxAttempts)
	assert.Zero(t, confirm.Timeout, "confirmation sends run without a deadline")
	assert.NotNil(t, confirm.Retention)

	report := ReportOrphanReviewsTask{}.Config()
	assert.Equal(t, "report_orphan_reviews", report.Name)
	assert.Equal(t, 1, report.MaxAttempts)
}

func TestDefaultConfig(t *testing.T) {
	cfg := DefaultConfig()

	assert.Equal(t, 2, cfg.Workers)
	assert.Equal(t, 15*time.Minute, cfg.ReleaseAfter)
	assert.Equal(t, time.Hour, cfg.CleanupInterval)
}
