package repository

import (
	"context"
	"sync"

	"smartfaq-shopify-layer/internal/domain"
	"smartfaq-shopify-layer/internal/ports"
)

// MemorySessionRepository keeps sessions in process memory.
// Sessions are lost on restart, which forces shops through OAuth again.
type MemorySessionRepository struct {
	mu       sync.RWMutex
	sessions map[string]domain.Session
}

// NewMemorySessionRepository creates an empty in-memory session repository
func NewMemorySessionRepository() ports.SessionRepository {
	return &MemorySessionRepository{
		sessions: make(map[string]domain.Session),
	}
}

// StoreSession saves or replaces a session
func (r *MemorySessionRepository) StoreSession(_ context.Context, session *domain.Session) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.sessions[session.ID] = *session
	return nil
}

// LoadSession retrieves a session by id
func (r *MemorySessionRepository) LoadSession(_ context.Context, id string) (*domain.Session, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	session, ok := r.sessions[id]
	if !ok {
		return nil, nil
	}
	return &session, nil
}

// DeleteSessionsByShop deletes every session of a shop
func (r *MemorySessionRepository) DeleteSessionsByShop(_ context.Context, shop string) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	for id, session := range r.sessions {
		if session.Shop == shop {
			delete(r.sessions, id)
		}
	}
	return nil
}
