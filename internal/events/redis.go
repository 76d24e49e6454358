package events

import (
	"context"
	"encoding/json"
	"fmt"

	"github.com/redis/go-redis/v9"

	"github.com/yourusername/betkick/internal/config"
	"github.com/yourusername/betkick/internal/metrics"
)

// RedisStreamPublisher appends events to Redis Streams.
// Stream key format: {prefix}.{event type}
type RedisStreamPublisher struct {
	redis  *redis.Client
	prefix string
	maxLen int64
}

// NewRedisClient creates a Redis client from configuration and verifies connectivity
func NewRedisClient(ctx context.Context, cfg *config.RedisConfig) (*redis.Client, error) {
	client := redis.NewClient(&redis.Options{
		Addr:     cfg.Addr,
		Password: cfg.Password,
		DB:       cfg.DB,
	})

	if err := client.Ping(ctx).Err(); err != nil {
		client.Close()
		return nil, fmt.Errorf("failed to ping redis at %s: %w", cfg.Addr, err)
	}

	return client, nil
}

// NewRedisStreamPublisher creates a stream publisher. A maxLen of 0 leaves streams untrimmed.
func NewRedisStreamPublisher(client *redis.Client, prefix string, maxLen int64) *RedisStreamPublisher {
	if prefix == "" {
		prefix = "betkick.events"
	}
	return &RedisStreamPublisher{
		redis:  client,
		prefix: prefix,
		maxLen: maxLen,
	}
}

// StreamKey returns the stream an event type is appended to
func (p *RedisStreamPublisher) StreamKey(t Type) string {
	return fmt.Sprintf("%s.%s", p.prefix, t)
}

// Publish appends the event to its type's stream
func (p *RedisStreamPublisher) Publish(ctx context.Context, event Event) error {
	data, err := json.Marshal(event)
	if err != nil {
		return fmt.Errorf("error marshaling event: %w", err)
	}

	streamKey := p.StreamKey(event.Type)
	args := &redis.XAddArgs{
		Stream: streamKey,
		Values: map[string]interface{}{
			"id":   event.ID,
			"data": string(data),
		},
	}
	if p.maxLen > 0 {
		args.MaxLen = p.maxLen
		args.Approx = true
	}

	if _, err := p.redis.XAdd(ctx, args).Result(); err != nil {
		return fmt.Errorf("error publishing to stream %s: %w", streamKey, err)
	}

	metrics.RecordEventPublished(string(event.Type), "redis")
	return nil
}
