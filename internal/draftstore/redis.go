package draftstore

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"
	"go.uber.org/zap"
	"love-surprise-backend/internal/models"
)

const draftKeyPrefix = "surprise:draft:"

// RedisBackend stores each client's draft as JSON under
// surprise:draft:{clientID} with a sliding TTL.
type RedisBackend struct {
	client *redis.Client
	ttl    time.Duration
	logger *zap.Logger
}

func NewRedisBackend(client *redis.Client, ttl time.Duration, logger *zap.Logger) *RedisBackend {
	return &RedisBackend{
		client: client,
		ttl:    ttl,
		logger: logger.Named("RedisDraftStore"),
	}
}

func (r *RedisBackend) ForClient(clientID string) Store {
	return &redisStore{backend: r, key: draftKeyPrefix + clientID}
}

type redisStore struct {
	backend *RedisBackend
	key     string
}

func (s *redisStore) Get(ctx context.Context) (*models.DraftSurprise, error) {
	raw, err := s.backend.client.Get(ctx, s.key).Bytes()
	if errors.Is(err, redis.Nil) {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("failed to read draft: %w", err)
	}

	var draft models.DraftSurprise
	if err := json.Unmarshal(raw, &draft); err != nil {
		s.backend.logger.Warn("Discarding undecodable draft", zap.String("key", s.key), zap.Error(err))
		return nil, fmt.Errorf("failed to decode draft: %w", err)
	}
	return &draft, nil
}

func (s *redisStore) Set(ctx context.Context, draft models.DraftSurprise) error {
	raw, err := json.Marshal(draft)
	if err != nil {
		return fmt.Errorf("failed to encode draft: %w", err)
	}

	if err := s.backend.client.Set(ctx, s.key, raw, s.backend.ttl).Err(); err != nil {
		return fmt.Errorf("failed to write draft: %w", err)
	}

	s.backend.logger.Debug("Draft persisted",
		zap.String("key", s.key),
		zap.String("draftID", draft.ID.String()),
		zap.Int("photos", len(draft.PhotoRefs)),
	)
	return nil
}

func (s *redisStore) Clear(ctx context.Context) error {
	if err := s.backend.client.Del(ctx, s.key).Err(); err != nil {
		return fmt.Errorf("failed to clear draft: %w", err)
	}
	return nil
}
