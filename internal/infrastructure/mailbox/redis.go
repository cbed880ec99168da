// Package mailbox provides Mailbox implementations backed by Redis
// lists (production) and process memory (tests).
package mailbox

import (
	"context"
	"errors"
	"fmt"

	"github.com/redis/go-redis/v9"

	"github.com/example/abc-retail-cloud/internal/mailbox"
)

// Redis implements mailbox.Mailbox on a Redis list. RPUSH/LPOP give
// FIFO order; LRANGE previews without consuming; DEL clears.
type Redis struct {
	client *redis.Client
	key    string
}

// NewRedis returns a mailbox over the list named by channel.
func NewRedis(client *redis.Client, channel string) *Redis {
	return &Redis{client: client, key: "mailbox:" + channel}
}

// NewRedisClient connects a go-redis client with the default options.
func NewRedisClient(addr, password string) *redis.Client {
	return redis.NewClient(&redis.Options{
		Addr:     addr,
		Password: password,
		DB:       0,
	})
}

func (r *Redis) Send(ctx context.Context, payload []byte) error {
	if err := r.client.RPush(ctx, r.key, payload).Err(); err != nil {
		return fmt.Errorf("failed to enqueue message: %w", err)
	}
	return nil
}

func (r *Redis) Receive(ctx context.Context) ([]byte, error) {
	data, err := r.client.LPop(ctx, r.key).Bytes()
	if errors.Is(err, redis.Nil) {
		return nil, mailbox.ErrEmpty
	}
	if err != nil {
		return nil, fmt.Errorf("failed to dequeue message: %w", err)
	}
	return data, nil
}

func (r *Redis) Peek(ctx context.Context, max int) ([][]byte, error) {
	if max <= 0 {
		return nil, nil
	}
	values, err := r.client.LRange(ctx, r.key, 0, int64(max-1)).Result()
	if err != nil {
		return nil, fmt.Errorf("failed to peek messages: %w", err)
	}
	out := make([][]byte, len(values))
	for i, v := range values {
		out[i] = []byte(v)
	}
	return out, nil
}

func (r *Redis) Length(ctx context.Context) (int, error) {
	n, err := r.client.LLen(ctx, r.key).Result()
	if err != nil {
		return 0, fmt.Errorf("failed to get queue length: %w", err)
	}
	return int(n), nil
}

func (r *Redis) Clear(ctx context.Context) error {
	if err := r.client.Del(ctx, r.key).Err(); err != nil {
		return fmt.Errorf("failed to clear queue: %w", err)
	}
	return nil
}
