package storage

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"github.com/redis/go-redis/v9"

	"github.com/lmarchand/givre/pkg/state"
)

// RedisStore implements Storage using Redis. Snapshots live under the
// save: prefix with no expiry.
type RedisStore struct {
	client *redis.Client
	logger *slog.Logger
}

var _ Storage = (*RedisStore)(nil)

func NewRedisStore(redisURL string, logger *slog.Logger) *RedisStore {
	rdb := redis.NewClient(&redis.Options{
		Addr: redisURL,
	})

	return &RedisStore{
		client: rdb,
		logger: logger,
	}
}

func (r *RedisStore) Ping(ctx context.Context) error {
	if err := r.client.Ping(ctx).Err(); err != nil {
		return fmt.Errorf("redis ping failed: %w", err)
	}
	return nil
}

func (r *RedisStore) Close() error {
	if err := r.client.Close(); err != nil {
		r.logger.Error("Failed to close Redis connection", "error", err)
		return err
	}
	r.logger.Info("Redis connection closed")
	return nil
}

// WaitForConnection waits for Redis to become available during startup.
func (r *RedisStore) WaitForConnection(ctx context.Context) error {
	maxRetries := 30
	retryDelay := 2 * time.Second

	for i := 0; i < maxRetries; i++ {
		if err := r.Ping(ctx); err != nil {
			r.logger.Debug("Redis not ready yet", "error", err, "attempt", i+1)

			select {
			case <-ctx.Done():
				return fmt.Errorf("context cancelled while waiting for redis: %w", ctx.Err())
			case <-time.After(retryDelay):
				continue
			}
		}

		r.logger.Info("Redis connection established")
		return nil
	}

	return fmt.Errorf("redis did not become available after %d attempts", maxRetries)
}

func saveKey(slot string) string {
	return "save:" + slot
}

func (r *RedisStore) SaveSnapshot(ctx context.Context, slot string, snap *state.Snapshot) error {
	data, err := json.Marshal(snap)
	if err != nil {
		r.logger.Error("Failed to marshal snapshot", "slot", slot, "error", err)
		return fmt.Errorf("failed to marshal snapshot: %w", err)
	}

	if err := r.client.Set(ctx, saveKey(slot), string(data), 0).Err(); err != nil {
		r.logger.Error("Failed to save snapshot", "slot", slot, "error", err)
		return fmt.Errorf("failed to save snapshot: %w", err)
	}

	return nil
}

func (r *RedisStore) LoadSnapshot(ctx context.Context, slot string) (*state.Snapshot, error) {
	cmd := r.client.Get(ctx, saveKey(slot))
	if err := cmd.Err(); err != nil {
		if errors.Is(err, redis.Nil) {
			r.logger.Debug("Snapshot not found", "slot", slot)
			return nil, nil
		}
		r.logger.Error("Failed to load snapshot", "slot", slot, "error", err)
		return nil, fmt.Errorf("failed to load snapshot: %w", err)
	}

	var snap state.Snapshot
	if err := json.Unmarshal([]byte(cmd.Val()), &snap); err != nil {
		r.logger.Error("Failed to unmarshal snapshot", "slot", slot, "error", err)
		return nil, fmt.Errorf("failed to unmarshal snapshot: %w", err)
	}

	return &snap, nil
}

func (r *RedisStore) DeleteSnapshot(ctx context.Context, slot string) error {
	if err := r.client.Del(ctx, saveKey(slot)).Err(); err != nil {
		r.logger.Error("Failed to delete snapshot", "slot", slot, "error", err)
		return fmt.Errorf("failed to delete snapshot: %w", err)
	}
	return nil
}
