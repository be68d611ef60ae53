package mq

import (
	"context"
	"encoding/json"
	"fmt"
	"log/slog"
	"time"

	"github.com/redis/go-redis/v9"

	"tourdesk/models"
)

// Publisher announces writes so other services (mailers, cache purgers,
// search indexers) can react. Publishing is best effort: callers log
// failures and carry on.
type Publisher interface {
	Emit(ctx context.Context, eventName string, content models.Index) error
}

// RedisPublisher publishes events on a Redis pub/sub channel.
type RedisPublisher struct {
	client  redis.UniversalClient
	channel string
}

func NewRedisPublisher(client redis.UniversalClient, channel string) *RedisPublisher {
	return &RedisPublisher{client: client, channel: channel}
}

type envelope struct {
	Event string       `json:"event"`
	Data  models.Index `json:"data"`
}

func (p *RedisPublisher) Emit(ctx context.Context, eventName string, content models.Index) error {
	if content.At.IsZero() {
		content.At = time.Now().UTC()
	}
	data, err := json.Marshal(envelope{Event: eventName, Data: content})
	if err != nil {
		return fmt.Errorf("marshal event: %w", err)
	}
	if err := p.client.Publish(ctx, p.channel, data).Err(); err != nil {
		return fmt.Errorf("publish to redis: %w", err)
	}
	return nil
}

// LogPublisher only logs events. Used when Redis is not configured.
type LogPublisher struct {
	Log *slog.Logger
}

func (p LogPublisher) Emit(ctx context.Context, eventName string, content models.Index) error {
	p.Log.DebugContext(ctx, "event", "name", eventName, "entity", content.EntityType, "id", content.EntityId)
	return nil
}

// Notify emits and logs any failure. The call is bounded by a short timeout
// so a slow broker never holds up the request.
func Notify(ctx context.Context, pub Publisher, log *slog.Logger, eventName string, content models.Index) {
	if pub == nil {
		return
	}
	ctx, cancel := context.WithTimeout(context.WithoutCancel(ctx), 2*time.Second)
	defer cancel()

	if err := pub.Emit(ctx, eventName, content); err != nil {
		log.WarnContext(ctx, "event publish failed", "event", eventName, "error", err)
	}
}
