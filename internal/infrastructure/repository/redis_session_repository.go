package repository

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"smartfaq-shopify-layer/internal/domain"
	"smartfaq-shopify-layer/internal/ports"

	"github.com/redis/go-redis/v9"
)

const (
	sessionKeyPrefix     = "shopify_session:"
	shopSessionKeyPrefix = "shopify_shop_sessions:"
)

// RedisSessionRepository implements SessionRepository using Redis.
// Each session is a JSON string; a set per shop indexes its session ids.
type RedisSessionRepository struct {
	client *redis.Client
	now    func() time.Time
}

// NewRedisSessionRepository creates a new Redis session repository
func NewRedisSessionRepository(client *redis.Client) ports.SessionRepository {
	return &RedisSessionRepository{
		client: client,
		now:    time.Now,
	}
}

// StoreSession saves or replaces a session, expiring it with the session itself
func (r *RedisSessionRepository) StoreSession(ctx context.Context, session *domain.Session) error {
	data, err := json.Marshal(session)
	if err != nil {
		return fmt.Errorf("failed to encode session: %w", err)
	}

	var ttl time.Duration
	if !session.ExpiresAt.IsZero() {
		ttl = session.ExpiresAt.Sub(r.now())
		if ttl <= 0 {
			return r.deleteSession(ctx, session.ID)
		}
	}

	_, err = r.client.TxPipelined(ctx, func(pipe redis.Pipeliner) error {
		pipe.Set(ctx, sessionKeyPrefix+session.ID, data, ttl)
		pipe.SAdd(ctx, shopSessionKeyPrefix+session.Shop, session.ID)
		return nil
	})
	if err != nil {
		return fmt.Errorf("failed to store session: %w", err)
	}
	return nil
}

// LoadSession retrieves a session by id
func (r *RedisSessionRepository) LoadSession(ctx context.Context, id string) (*domain.Session, error) {
	data, err := r.client.Get(ctx, sessionKeyPrefix+id).Bytes()
	if errors.Is(err, redis.Nil) {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("failed to load session: %w", err)
	}

	var session domain.Session
	if err := json.Unmarshal(data, &session); err != nil {
		return nil, fmt.Errorf("failed to decode session: %w", err)
	}
	return &session, nil
}

// deleteSession drops a session and its shop index entry
func (r *RedisSessionRepository) deleteSession(ctx context.Context, id string) error {
	session, err := r.LoadSession(ctx, id)
	if err != nil {
		return err
	}

	_, err = r.client.TxPipelined(ctx, func(pipe redis.Pipeliner) error {
		pipe.Del(ctx, sessionKeyPrefix+id)
		if session != nil {
			pipe.SRem(ctx, shopSessionKeyPrefix+session.Shop, id)
		}
		return nil
	})
	if err != nil {
		return fmt.Errorf("failed to delete session: %w", err)
	}
	return nil
}

// DeleteSessionsByShop deletes every session of a shop
func (r *RedisSessionRepository) DeleteSessionsByShop(ctx context.Context, shop string) error {
	indexKey := shopSessionKeyPrefix + shop
	ids, err := r.client.SMembers(ctx, indexKey).Result()
	if err != nil {
		return fmt.Errorf("failed to list sessions: %w", err)
	}

	keys := make([]string, 0, len(ids)+1)
	for _, id := range ids {
		keys = append(keys, sessionKeyPrefix+id)
	}
	keys = append(keys, indexKey)

	if err := r.client.Del(ctx, keys...).Err(); err != nil {
		return fmt.Errorf("failed to delete sessions: %w", err)
	}
	return nil
}
