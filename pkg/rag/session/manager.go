package session

import (
	"context"
	"sync"
	"time"

	"hr-faq-be/pkg/store"
)

// Store persists dialogue state. Implementations expire entries after their TTL.
type Store interface {
	Get(ctx context.Context, sessionID string) (*store.Session, bool, error)
	Save(ctx context.Context, session *store.Session) error
	Delete(ctx context.Context, sessionID string) error
}

// Manager is the session registry. Turns for one session id are serialised
// with Lock; different ids never contend.
type Manager struct {
	store Store
	now   func() time.Time

	mu    sync.Mutex
	locks map[string]*sessionLock
}

type sessionLock struct {
	mu   sync.Mutex
	refs int
}

func NewManager(s Store) *Manager {
	return &Manager{
		store: s,
		now:   time.Now,
		locks: make(map[string]*sessionLock),
	}
}

// Lock blocks until the caller owns sessionID and returns the release func.
// The per-id entry is dropped once no goroutine holds or waits for it.
func (m *Manager) Lock(sessionID string) func() {
	m.mu.Lock()
	l, ok := m.locks[sessionID]
	if !ok {
		l = &sessionLock{}
		m.locks[sessionID] = l
	}
	l.refs++
	m.mu.Unlock()

	l.mu.Lock()

	var once sync.Once
	return func() {
		once.Do(func() {
			l.mu.Unlock()
			m.mu.Lock()
			l.refs--
			if l.refs == 0 {
				delete(m.locks, sessionID)
			}
			m.mu.Unlock()
		})
	}
}

// Load returns the stored state or nil when the session has none.
func (m *Manager) Load(ctx context.Context, sessionID string) (*store.Session, error) {
	s, found, err := m.store.Get(ctx, sessionID)
	if err != nil {
		return nil, err
	}
	if !found {
		return nil, nil
	}
	return s, nil
}

func (m *Manager) Save(ctx context.Context, s *store.Session) error {
	s.UpdatedAt = m.now()
	return m.store.Save(ctx, s)
}

func (m *Manager) Clear(ctx context.Context, sessionID string) error {
	return m.store.Delete(ctx, sessionID)
}

// held reports how many session ids currently have a lock entry.
func (m *Manager) held() int {
	m.mu.Lock()
	defer m.mu.Unlock()
	return len(m.locks)
}
