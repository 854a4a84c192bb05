package notify

import (
	"context"
	"encoding/json"
	"errors"
	"sync"
	"testing"
	"time"

	"github.com/alicebob/miniredis/v2"
	"github.com/redis/go-redis/v9"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type recordingNotifier struct {
	mu    sync.Mutex
	calls []Message
	err   error
	block chan struct{}
}

func (n *recordingNotifier) Send(ctx context.Context, recipient, text string) error {
	if n.block != nil {
		<-n.block
	}
	n.mu.Lock()
	defer n.mu.Unlock()
	n.calls = append(n.calls, Message{Recipient: recipient, Text: text})
	return n.err
}

func (n *recordingNotifier) Calls() []Message {
	n.mu.Lock()
	defer n.mu.Unlock()
	return append([]Message(nil), n.calls...)
}

func TestLogNotifier_Send(t *testing.T) {
	t.Run("completes after the delay", func(t *testing.T) {
		n := NewLogNotifier(20 * time.Millisecond)

		start := time.Now()
		err := n.Send(context.Background(), "reviews@example.com", "Great book!")

		require.NoError(t, err)
		assert.GreaterOrEqual(t, time.Since(start), 20*time.Millisecond)
	})

	t.Run("zero delay returns immediately", func(t *testing.T) {
		n := NewLogNotifier(0)
		assert.NoError(t, n.Send(context.Background(), "reviews@example.com", "Quick"))
	})

	t.Run("stops when the context is cancelled", func(t *testing.T) {
		n := NewLogNotifier(time.Minute)
		ctx, cancel := context.WithCancel(context.Background())
		cancel()

		err := n.Send(ctx, "reviews@example.com", "Never sent")
		assert.ErrorIs(t, err, context.Canceled)
	})
}

func TestGoroutineDispatcher_Dispatch(t *testing.T) {
	t.Run("does not block the caller", func(t *testing.T) {
		notifier := &recordingNotifier{block: make(chan struct{})}
		d := NewGoroutineDispatcher(notifier)

		returned := make(chan struct{})
		go func() {
			d.Dispatch("reviews@example.com", "Great book!")
			close(returned)
		}()

		select {
		case <-returned:
		case <-time.After(time.Second):
			t.Fatal("Dispatch blocked on the notifier")
		}

		assert.Empty(t, notifier.Calls())
		close(notifier.block)

		ctx, cancel := context.WithTimeout(context.Background(), time.Second)
		defer cancel()
		require.True(t, d.Wait(ctx))
		assert.Equal(t, []Message{{Recipient: "reviews@example.com", Text: "Great book!"}}, notifier.Calls())
	})

	t.Run("swallows notifier errors", func(t *testing.T) {
		notifier := &recordingNotifier{err: errors.New("smtp down")}
		d := NewGoroutineDispatcher(notifier)

		d.Dispatch("reviews@example.com", "One")
		d.Dispatch("reviews@example.com", "Two")

		ctx, cancel := context.WithTimeout(context.Background(), time.Second)
		defer cancel()
		require.True(t, d.Wait(ctx))
		assert.Len(t, notifier.Calls(), 2)
	})

	t.Run("wait times out on slow sends", func(t *testing.T) {
		notifier := &recordingNotifier{block: make(chan struct{})}
		defer close(notifier.block)
		d := NewGoroutineDispatcher(notifier)

		d.Dispatch("reviews@example.com", "Slow")

		ctx, cancel := context.WithTimeout(context.Background(), 20*time.Millisecond)
		defer cancel()
		assert.False(t, d.Wait(ctx))
	})
}

func setupRedis(t *testing.T) (*miniredis.Miniredis, *redis.Client) {
	t.Helper()
	server := miniredis.RunT(t)

	client, err := NewRedisClient(context.Background(), server.Addr(), "", 0)
	require.NoError(t, err)
	t.Cleanup(func() { client.Close() })
	return server, client
}

func TestRedisNotifier_Send(t *testing.T) {
	t.Run("pushes a JSON message onto the list", func(t *testing.T) {
		server, client := setupRedis(t)
		queuedAt := time.Date(2024, 5, 1, 12, 0, 0, 0, time.UTC)

		n := NewRedisNotifier(client, "catalog:notifications")
		n.now = func() time.Time { return queuedAt }

		require.NoError(t, n.Send(context.Background(), "reviews@example.com", "Great book!"))
		require.NoError(t, n.Send(context.Background(), "reviews@example.com", "Second"))

		items, err := server.List("catalog:notifications")
		require.NoError(t, err)
		require.Len(t, items, 2)
		assert.JSONEq(t, `{"recipient": "reviews@example.com", "text": "Great book!", "queued_at": "2024-05-01T12:00:00Z"}`, items[0])

		var msg Message
		require.NoError(t, json.Unmarshal([]byte(items[1]), &msg))
		assert.Equal(t, "Second", msg.Text)
		assert.True(t, msg.QueuedAt.Equal(queuedAt))
	})

	t.Run("returns push errors", func(t *testing.T) {
		server, client := setupRedis(t)
		require.NoError(t, server.Set("catalog:notifications", "not a list"))

		n := NewRedisNotifier(client, "catalog:notifications")
		err := n.Send(context.Background(), "reviews@example.com", "Great book!")

		assert.ErrorContains(t, err, "push notification to catalog:notifications")
		assert.ErrorContains(t, err, "WRONGTYPE")
	})

	t.Run("returns errors once redis is gone", func(t *testing.T) {
		server, client := setupRedis(t)
		server.Close()

		n := NewRedisNotifier(client, "catalog:notifications")
		assert.Error(t, n.Send(context.Background(), "reviews@example.com", "Great book!"))
	})
}

func TestNewRedisClient(t *testing.T) {
	t.Run("connects to a live server", func(t *testing.T) {
		server := miniredis.RunT(t)

		client, err := NewRedisClient(context.Background(), server.Addr(), "", 0)
		require.NoError(t, err)
		defer client.Close()
		assert.Equal(t, server.Addr(), client.Options().Addr)
	})

	t.Run("fails when the server is unreachable", func(t *testing.T) {
		server := miniredis.RunT(t)
		addr := server.Addr()
		server.Close()

		_, err := NewRedisClient(context.Background(), addr, "", 0)
		assert.ErrorContains(t, err, "failed to connect to redis")
	})
}
