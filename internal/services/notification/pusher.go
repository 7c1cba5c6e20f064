package notification

import (
	"context"
	"fmt"

	json "github.com/bytedance/sonic"
	"github.com/redis/go-redis/v9"
)

// RedisPusher publishes push messages for the external push worker
type RedisPusher struct {
	client  *redis.Client
	channel string
}

func NewRedisPusher(client *redis.Client, channel string) *RedisPusher {
	return &RedisPusher{client: client, channel: channel}
}

func (p *RedisPusher) Push(ctx context.Context, msg PushMessage) error {
	payload, err := json.Marshal(msg)
	if err != nil {
		return fmt.Errorf("failed to encode push message: %w", err)
	}
	if err := p.client.Publish(ctx, p.channel, payload).Err(); err != nil {
		return fmt.Errorf("failed to publish push message: %w", err)
	}
	return nil
}
