package ports

import (
	"context"

	"smartfaq-shopify-layer/internal/domain"
)

// SessionRepository defines the interface for shop session persistence
type SessionRepository interface {
	StoreSession(ctx context.Context, session *domain.Session) error
	// LoadSession returns nil, nil when no session exists for the id
	LoadSession(ctx context.Context, id string) (*domain.Session, error)
	DeleteSessionsByShop(ctx context.Context, shop string) error
}
