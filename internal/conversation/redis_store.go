package conversation

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"
	"github.com/rs/zerolog"
)

const sessionKeyPrefix = "recipe-agent:session:"

// RedisStore keeps each session as a JSON document that expires after ttl
// without activity.
type RedisStore struct {
	client *redis.Client
	ttl    time.Duration
	logger *zerolog.Logger
}

func NewRedisStore(client *redis.Client, ttl time.Duration, logger *zerolog.Logger) *RedisStore {
	return &RedisStore{client: client, ttl: ttl, logger: logger}
}

func sessionKey(sessionID string) string {
	return sessionKeyPrefix + sessionID
}

func (r *RedisStore) Get(ctx context.Context, sessionID string) (*Session, error) {
	data, err := r.client.Get(ctx, sessionKey(sessionID)).Bytes()
	if errors.Is(err, redis.Nil) {
		return nil, ErrSessionNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("failed to load session %s: %w", sessionID, err)
	}

	var s Session
	if err := json.Unmarshal(data, &s); err != nil {
		return nil, fmt.Errorf("failed to decode session %s: %w", sessionID, err)
	}
	return &s, nil
}

// Append updates the session inside a WATCH transaction so concurrent
// requests on the same session do not drop each other's messages.
func (r *RedisStore) Append(ctx context.Context, sessionID string, msgs ...Message) (*Session, error) {
	key := sessionKey(sessionID)
	var updated Session

	txf := func(tx *redis.Tx) error {
		now := time.Now().UTC()
		updated = Session{ID: sessionID, CreatedAt: now}

		data, err := tx.Get(ctx, key).Bytes()
		switch {
		case errors.Is(err, redis.Nil):
		case err != nil:
			return err
		default:
			if err := json.Unmarshal(data, &updated); err != nil {
				return fmt.Errorf("failed to decode session %s: %w", sessionID, err)
			}
		}

		appendBounded(&updated, msgs, now)

		encoded, err := json.Marshal(&updated)
		if err != nil {
			return err
		}

		_, err = tx.TxPipelined(ctx, func(pipe redis.Pipeliner) error {
			pipe.Set(ctx, key, encoded, r.ttl)
			return nil
		})
		return err
	}

	const maxAttempts = 5
	for attempt := range maxAttempts {
		err := r.client.Watch(ctx, txf, key)
		if err == nil {
			return &updated, nil
		}
		if !errors.Is(err, redis.TxFailedErr) {
			return nil, fmt.Errorf("failed to append to session %s: %w", sessionID, err)
		}
		r.logger.Debug().Str("session_id", sessionID).Int("attempt", attempt+1).Msg("session changed concurrently, retrying")
	}

	return nil, fmt.Errorf("failed to append to session %s: too much contention", sessionID)
}

func (r *RedisStore) Delete(ctx context.Context, sessionID string) error {
	n, err := r.client.Del(ctx, sessionKey(sessionID)).Result()
	if err != nil {
		return fmt.Errorf("failed to delete session %s: %w", sessionID, err)
	}
	if n == 0 {
		return ErrSessionNotFound
	}
	return nil
}
