package notify

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"
	"github.com/rs/zerolog/log"
)

// Message is the payload pushed onto the Redis list.
type Message struct {
	Recipient string    `json:"recipient"`
	Text      string    `json:"text"`
	QueuedAt  time.Time `json:"queued_at"`
}

// RedisNotifier hands confirmations to an external mailer through a Redis list.
type RedisNotifier struct {
	client  redis.UniversalClient
	listKey string
	now     func() time.Time
}

// NewRedisNotifier creates a notifier that RPUSHes messages onto listKey.
func NewRedisNotifier(client redis.UniversalClient, listKey string) *RedisNotifier {
	return &RedisNotifier{client: client, listKey: listKey, now: time.Now}
}

// NewRedisClient connects to Redis and verifies the connection.
func NewRedisClient(ctx context.Context, addr, password string, db int) (*redis.Client, error) {
	client := redis.NewClient(&redis.Options{
		Addr:         addr,
		Password:     password,
		DB:           db,
		DialTimeout:  5 * time.Second,
		ReadTimeout:  3 * time.Second,
		WriteTimeout: 3 * time.Second,
	})

	if err := client.Ping(ctx).Err(); err != nil {
		client.Close()
		return nil, fmt.Errorf("failed to connect to redis at %s: %w", addr, err)
	}

	log.Info().Str("addr", addr).Msg("Redis connected")
	return client, nil
}

func (n *RedisNotifier) Send(ctx context.Context, recipient, text string) error {
	payload, err := json.Marshal(Message{
		Recipient: recipient,
		Text:      text,
		QueuedAt:  n.now().UTC(),
	})
	if err != nil {
		return fmt.Errorf("encode notification: %w", err)
	}

	if err := n.client.RPush(ctx, n.listKey, payload).Err(); err != nil {
		return fmt.Errorf("push notification to %s: %w", n.listKey, err)
	}
	return nil
}
