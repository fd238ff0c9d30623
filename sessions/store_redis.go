package sessions

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"

	"sqlworkshop-server/models"
)

// RedisStore shares sessions between replicas. Every save refreshes the TTL,
// so Redis expires idle sessions on its own.
type RedisStore struct {
	client *redis.Client
	prefix string
	ttl    time.Duration
}

// NewRedisStore stores sessions under prefix+"session:"+id with the given TTL.
func NewRedisStore(client *redis.Client, prefix string, ttl time.Duration) *RedisStore {
	return &RedisStore{client: client, prefix: prefix, ttl: ttl}
}

func (s *RedisStore) sessionKey(id string) string {
	return s.prefix + "session:" + id
}

func (s *RedisStore) Get(ctx context.Context, sessionID string) (*models.SessionState, error) {
	data, err := s.client.Get(ctx, s.sessionKey(sessionID)).Bytes()
	if errors.Is(err, redis.Nil) {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("failed to get session from redis: %w", err)
	}

	return decodeState(data)
}

// maxTxAttempts bounds how often Transact retries after a WATCH conflict.
const maxTxAttempts = 10

// Transact watches the session key so a concurrent write from any replica
// aborts the transaction, which is then retried from a fresh read.
func (s *RedisStore) Transact(ctx context.Context, sessionID string, fn TxFunc) error {
	key := s.sessionKey(sessionID)
	txf := func(tx *redis.Tx) error {
		var current *models.SessionState
		data, err := tx.Get(ctx, key).Bytes()
		switch {
		case errors.Is(err, redis.Nil):
		case err != nil:
			return fmt.Errorf("failed to get session from redis: %w", err)
		default:
			if current, err = decodeState(data); err != nil {
				return err
			}
		}

		next, err := fn(current)
		if err != nil {
			return err
		}
		out, err := json.Marshal(next)
		if err != nil {
			return fmt.Errorf("failed to marshal session: %w", err)
		}
		_, err = tx.TxPipelined(ctx, func(pipe redis.Pipeliner) error {
			pipe.Set(ctx, key, out, s.ttl)
			return nil
		})
		return err
	}
	return retryOnTxFailure(maxTxAttempts, func() error {
		return s.client.Watch(ctx, txf, key)
	})
}

func retryOnTxFailure(attempts int, run func() error) error {
	for i := 0; i < attempts; i++ {
		err := run()
		if !errors.Is(err, redis.TxFailedErr) {
			return err
		}
	}
	return ErrConflict
}

func (s *RedisStore) Save(ctx context.Context, sessionID string, state *models.SessionState) error {
	data, err := json.Marshal(state)
	if err != nil {
		return fmt.Errorf("failed to marshal session: %w", err)
	}
	if err := s.client.Set(ctx, s.sessionKey(sessionID), data, s.ttl).Err(); err != nil {
		return fmt.Errorf("failed to save session to redis: %w", err)
	}
	return nil
}

func (s *RedisStore) Delete(ctx context.Context, sessionID string) error {
	if err := s.client.Del(ctx, s.sessionKey(sessionID)).Err(); err != nil {
		return fmt.Errorf("failed to delete session from redis: %w", err)
	}
	return nil
}

// Count scans the key space under the prefix. It is meant for health output,
// not for hot paths.
func (s *RedisStore) Count(ctx context.Context) (int, error) {
	n := 0
	iter := s.client.Scan(ctx, 0, s.sessionKey("*"), 100).Iterator()
	for iter.Next(ctx) {
		n++
	}
	if err := iter.Err(); err != nil {
		return 0, fmt.Errorf("failed to count sessions in redis: %w", err)
	}
	return n, nil
}

// Ping checks the connection at startup.
func (s *RedisStore) Ping(ctx context.Context) error {
	return s.client.Ping(ctx).Err()
}
