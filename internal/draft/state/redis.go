package state

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"
	"github.com/rs/zerolog/log"

	"github.com/gridchain/fantasydraft/internal/models"
)

// RedisStore persists draft state as one JSON record per draft and fans out
// updates over a pub/sub channel, so every viewer of the same draft re-renders
// from the same record. Per-team queues are stored as their own keys.
type RedisStore struct {
	client *redis.Client
	ttl    time.Duration
}

func NewRedisStore(client *redis.Client) *RedisStore {
	return &RedisStore{
		client: client,
		ttl:    7 * 24 * time.Hour, // drafts are short-lived; state expires after a week
	}
}

func (r *RedisStore) stateKey(draftID string) string {
	return fmt.Sprintf("draft:state:%s", draftID)
}

func (r *RedisStore) channel(draftID string) string {
	return fmt.Sprintf("draft:updates:%s", draftID)
}

func (r *RedisStore) queueKey(teamID string) string {
	return fmt.Sprintf("draft:queue:%s", teamID)
}

func (r *RedisStore) Get(ctx context.Context, draftID string) (*models.DraftState, error) {
	data, err := r.client.Get(ctx, r.stateKey(draftID)).Result()
	if err == redis.Nil {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("get draft state: %w", err)
	}
	var st models.DraftState
	if err := json.Unmarshal([]byte(data), &st); err != nil {
		return nil, fmt.Errorf("decode draft state: %w", err)
	}
	return &st, nil
}

func (r *RedisStore) Put(ctx context.Context, draftID string, state *models.DraftState) error {
	data, err := json.Marshal(state)
	if err != nil {
		return fmt.Errorf("encode draft state: %w", err)
	}
	if err := r.client.Set(ctx, r.stateKey(draftID), data, r.ttl).Err(); err != nil {
		return fmt.Errorf("put draft state: %w", err)
	}
	if err := r.client.Publish(ctx, r.channel(draftID), data).Err(); err != nil {
		// The write landed; a lost notification only delays other viewers
		// until their next read.
		log.Warn().Err(err).Str("draft_id", draftID).Msg("failed to publish state update")
	}
	return nil
}

func (r *RedisStore) Delete(ctx context.Context, draftID string) error {
	return r.client.Del(ctx, r.stateKey(draftID)).Err()
}

func (r *RedisStore) Subscribe(ctx context.Context, draftID string, fn UpdateFunc) (func(), error) {
	sub := r.client.Subscribe(ctx, r.channel(draftID))
	if _, err := sub.Receive(ctx); err != nil {
		sub.Close()
		return nil, fmt.Errorf("subscribe to draft updates: %w", err)
	}

	go func() {
		for msg := range sub.Channel() {
			var st models.DraftState
			if err := json.Unmarshal([]byte(msg.Payload), &st); err != nil {
				log.Warn().Err(err).Str("draft_id", draftID).Msg("dropping malformed state update")
				continue
			}
			fn(&st)
		}
	}()

	return func() { sub.Close() }, nil
}

func (r *RedisStore) QueueFor(ctx context.Context, teamID string) (models.Queue, error) {
	data, err := r.client.Get(ctx, r.queueKey(teamID)).Result()
	if err == redis.Nil {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("get team queue: %w", err)
	}
	var q models.Queue
	if err := json.Unmarshal([]byte(data), &q); err != nil {
		return nil, fmt.Errorf("decode team queue: %w", err)
	}
	return q, nil
}

func (r *RedisStore) SaveQueue(ctx context.Context, teamID string, queue models.Queue) error {
	data, err := json.Marshal(queue)
	if err != nil {
		return fmt.Errorf("encode team queue: %w", err)
	}
	return r.client.Set(ctx, r.queueKey(teamID), data, r.ttl).Err()
}

func (r *RedisStore) Close() error {
	return r.client.Close()
}
