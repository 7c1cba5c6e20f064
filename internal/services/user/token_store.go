package user

import (
	"context"
	"errors"
	"fmt"
	"time"

	json "github.com/bytedance/sonic"
	"github.com/curaious/finca/internal/perrors"
	"github.com/google/uuid"
	"github.com/redis/go-redis/v9"
)

// Token purposes
const (
	PurposePasswordReset = "password_reset"
	PurposeVerification  = "verification"
)

var ErrTokenInvalid = fmt.Errorf("%w: token is invalid or expired", perrors.ErrValidation)

// RedisTokenStore keeps single-use tokens with a TTL so they survive
// restarts and are shared by every instance.
type RedisTokenStore struct {
	client    *redis.Client
	keyPrefix string
}

func NewRedisTokenStore(client *redis.Client, keyPrefix string) *RedisTokenStore {
	if keyPrefix == "" {
		keyPrefix = "finca:token:"
	}
	return &RedisTokenStore{client: client, keyPrefix: keyPrefix}
}

func (r *RedisTokenStore) key(purpose, token string) string {
	return r.keyPrefix + purpose + ":" + token
}

// Save stores token → userID for ttl
func (r *RedisTokenStore) Save(ctx context.Context, purpose, token string, userID uuid.UUID, ttl time.Duration) error {
	if err := r.client.Set(ctx, r.key(purpose, token), userID.String(), ttl).Err(); err != nil {
		return fmt.Errorf("failed to store token: %w", err)
	}
	return nil
}

// Consume returns the user bound to token and deletes it atomically
func (r *RedisTokenStore) Consume(ctx context.Context, purpose, token string) (uuid.UUID, error) {
	val, err := r.client.GetDel(ctx, r.key(purpose, token)).Result()
	if err != nil {
		if errors.Is(err, redis.Nil) {
			return uuid.Nil, ErrTokenInvalid
		}
		return uuid.Nil, fmt.Errorf("failed to read token: %w", err)
	}

	id, err := uuid.Parse(val)
	if err != nil {
		return uuid.Nil, ErrTokenInvalid
	}
	return id, nil
}

// RedisMailer hands mails to the external mail worker over a redis channel
type RedisMailer struct {
	client  *redis.Client
	channel string
}

func NewRedisMailer(client *redis.Client, channel string) *RedisMailer {
	return &RedisMailer{client: client, channel: channel}
}

func (m *RedisMailer) Send(ctx context.Context, mail Mail) error {
	payload, err := json.Marshal(mail)
	if err != nil {
		return fmt.Errorf("failed to encode mail: %w", err)
	}
	if err := m.client.Publish(ctx, m.channel, payload).Err(); err != nil {
		return fmt.Errorf("failed to publish mail: %w", err)
	}
	return nil
}
