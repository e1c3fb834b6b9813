package redis

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/go-redis/redis/v8"

	"ms-bakery/internal/builder"
)

var ErrSessionNotFound = errors.New("builder session not found or expired")

// Redis persists wizard sessions between requests. Each session is one JSON
// blob under draft_session:<id> with a sliding TTL, so abandoned drafts age
// out on their own.
type Redis struct {
	Client *redis.Client
	TTL    time.Duration
}

func NewRedis(client *redis.Client, ttl time.Duration) *Redis {
	if ttl <= 0 {
		ttl = 2 * time.Hour
	}
	return &Redis{Client: client, TTL: ttl}
}

func sessionKey(sessionID string) string {
	return "draft_session:" + sessionID
}

// Save serializes the flow and refreshes the session TTL.
func (r *Redis) Save(ctx context.Context, sessionID string, flow *builder.Flow) error {
	payload, err := json.Marshal(flow)
	if err != nil {
		return fmt.Errorf("failed to marshal builder session: %w", err)
	}
	if err := r.Client.Set(ctx, sessionKey(sessionID), payload, r.TTL).Err(); err != nil {
		return fmt.Errorf("failed to store builder session: %w", err)
	}
	return nil
}

// Load fetches and deserializes a session's flow.
func (r *Redis) Load(ctx context.Context, sessionID string) (*builder.Flow, error) {
	payload, err := r.Client.Get(ctx, sessionKey(sessionID)).Result()
	if err == redis.Nil {
		return nil, ErrSessionNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("failed to load builder session: %w", err)
	}

	var flow builder.Flow
	if err := json.Unmarshal([]byte(payload), &flow); err != nil {
		return nil, fmt.Errorf("failed to unmarshal builder session: %w", err)
	}
	return &flow, nil
}

// Delete removes a session outright.
func (r *Redis) Delete(ctx context.Context, sessionID string) error {
	return r.Client.Del(ctx, sessionKey(sessionID)).Err()
}
