/*
Copyright © 2026 Seednode <seednode@seedno.de>
*/

package snapshot

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/Seednode/quizshow/quiz"
	"github.com/redis/go-redis/v9"
)

// Redis stores snapshots as JSON values that expire after ttl without
// further saves.
type Redis struct {
	client *redis.Client
	ttl    time.Duration
}

func NewRedis(client *redis.Client, ttl time.Duration) *Redis {
	return &Redis{client: client, ttl: ttl}
}

func (r *Redis) Save(ctx context.Context, gameID string, snap quiz.Snapshot) error {
	data, err := json.Marshal(snap)
	if err != nil {
		return fmt.Errorf("encode snapshot %s: %w", gameID, err)
	}

	return r.client.Set(ctx, r.key(gameID), data, r.ttl).Err()
}

func (r *Redis) Load(ctx context.Context, gameID string) (quiz.Snapshot, bool, error) {
	data, err := r.client.Get(ctx, r.key(gameID)).Bytes()
	if errors.Is(err, redis.Nil) {
		return quiz.Snapshot{}, false, nil
	}
	if err != nil {
		return quiz.Snapshot{}, false, err
	}

	var snap quiz.Snapshot
	if err := json.Unmarshal(data, &snap); err != nil {
		return quiz.Snapshot{}, false, fmt.Errorf("decode snapshot %s: %w", gameID, err)
	}

	return snap, true, nil
}

func (r *Redis) Delete(ctx context.Context, gameID string) error {
	return r.client.Del(ctx, r.key(gameID)).Err()
}

func (r *Redis) key(gameID string) string {
	return "quizshow:game:" + gameID
}
