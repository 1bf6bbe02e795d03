package memory

import (
	"context"
	"time"

	"hr-faq-be/pkg/store"

	"github.com/patrickmn/go-cache"
)

type SessionRepository struct {
	cache *cache.Cache
}

// NewSessionRepository keeps sessions for ttl and purges expired items every
// cleanup interval.
func NewSessionRepository(ttl, cleanup time.Duration) *SessionRepository {
	if ttl <= 0 {
		ttl = 30 * time.Minute
	}
	if cleanup <= 0 {
		cleanup = 10 * time.Minute
	}
	return &SessionRepository{
		cache: cache.New(ttl, cleanup),
	}
}

func (r *SessionRepository) Save(_ context.Context, session *store.Session) error {
	cp := *session
	r.cache.Set(session.ID, &cp, cache.DefaultExpiration)
	return nil
}

func (r *SessionRepository) Get(_ context.Context, sessionID string) (*store.Session, bool, error) {
	if x, found := r.cache.Get(sessionID); found {
		cp := *x.(*store.Session)
		return &cp, true, nil
	}
	return nil, false, nil
}

func (r *SessionRepository) Delete(_ context.Context, sessionID string) error {
	r.cache.Delete(sessionID)
	return nil
}
