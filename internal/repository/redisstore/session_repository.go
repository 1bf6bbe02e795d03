package redisstore

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"hr-faq-be/pkg/store"

	"github.com/redis/go-redis/v9"
)

const keyPrefix = "hrfaq:session:"

// SessionRepository stores dialogue state as JSON so several API replicas
// can share one conversation.
type SessionRepository struct {
	client *redis.Client
	ttl    time.Duration
}

func NewSessionRepository(client *redis.Client, ttl time.Duration) *SessionRepository {
	if ttl <= 0 {
		ttl = 30 * time.Minute
	}
	return &SessionRepository{client: client, ttl: ttl}
}

func (r *SessionRepository) Save(ctx context.Context, session *store.Session) error {
	data, err := json.Marshal(session)
	if err != nil {
		return fmt.Errorf("marshal session: %w", err)
	}
	return r.client.Set(ctx, keyPrefix+session.ID, data, r.ttl).Err()
}

func (r *SessionRepository) Get(ctx context.Context, sessionID string) (*store.Session, bool, error) {
	data, err := r.client.Get(ctx, keyPrefix+sessionID).Bytes()
	if errors.Is(err, redis.Nil) {
		return nil, false, nil
	}
	if err != nil {
		return nil, false, err
	}

	var s store.Session
	if err := json.Unmarshal(data, &s); err != nil {
		return nil, false, fmt.Errorf("unmarshal session %s: %w", sessionID, err)
	}
	return &s, true, nil
}

func (r *SessionRepository) Delete(ctx context.Context, sessionID string) error {
	return r.client.Del(ctx, keyPrefix+sessionID).Err()
}
