package assistant

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/go-redis/redis/v8"

	"marta/models"
	"marta/utils"
)

const contextKeyPrefix = "assistant:ctx:"

// ContextStore holds the per-thread appointment state server-side. Callers
// only ever see an opaque token referencing an entry here; the state itself
// never travels to the client.
type ContextStore interface {
	Get(ctx context.Context, id string) (*models.AppointmentState, error)
	Set(ctx context.Context, id string, st *models.AppointmentState) error
	Clear(ctx context.Context, id string) error
}

// RedisContextStore keeps states in Redis under a short TTL, so abandoned
// conversations expire on their own.
type RedisContextStore struct {
	client *redis.Client
	ttl    time.Duration
}

func NewRedisContextStore(client *redis.Client, ttl time.Duration) *RedisContextStore {
	return &RedisContextStore{client: client, ttl: ttl}
}

// Get returns the stored state, or a fresh empty state when the entry is
// missing, expired, or unreadable.
func (r *RedisContextStore) Get(ctx context.Context, id string) (*models.AppointmentState, error) {
	val, err := r.client.Get(ctx, contextKeyPrefix+id).Result()
	if err == redis.Nil {
		return &models.AppointmentState{}, nil
	}
	if err != nil {
		return nil, fmt.Errorf("failed to load conversation state: %w", err)
	}
	var st models.AppointmentState
	if err := json.Unmarshal([]byte(val), &st); err != nil {
		utils.GetLogger().Sugar().Warnw("discarding corrupt conversation state", "id", id, "error", err)
		return &models.AppointmentState{}, nil
	}
	return &st, nil
}

func (r *RedisContextStore) Set(ctx context.Context, id string, st *models.AppointmentState) error {
	data, err := json.Marshal(st)
	if err != nil {
		return fmt.Errorf("failed to encode conversation state: %w", err)
	}
	if err := r.client.Set(ctx, contextKeyPrefix+id, data, r.ttl).Err(); err != nil {
		return fmt.Errorf("failed to store conversation state: %w", err)
	}
	return nil
}

func (r *RedisContextStore) Clear(ctx context.Context, id string) error {
	if err := r.client.Del(ctx, contextKeyPrefix+id).Err(); err != nil {
		return fmt.Errorf("failed to clear conversation state: %w", err)
	}
	return nil
}
