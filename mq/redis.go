package mq

import (
	"context"
	"errors"
	"fmt"

	"github.com/redis/go-redis/v9"
)

var ErrEmptyURL = errors.New("mq: redis url is empty")

// Connect parses a redis:// or rediss:// URL and pings the server.
func Connect(ctx context.Context, url string) (*redis.Client, error) {
	if url == "" {
		return nil, ErrEmptyURL
	}
	opts, err := redis.ParseURL(url)
	if err != nil {
		return nil, fmt.Errorf("mq: parse redis url: %w", err)
	}
	client := redis.NewClient(opts)
	if err := client.Ping(ctx).Err(); err != nil {
		_ = client.Close()
		return nil, fmt.Errorf("mq: ping redis: %w", err)
	}
	return client, nil
}
