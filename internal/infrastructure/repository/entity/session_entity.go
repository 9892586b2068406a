package entity

import (
	"time"

	"smartfaq-shopify-layer/internal/domain"
)

// MongoSessionDoc represents a shop session in MongoDB
type MongoSessionDoc struct {
	ID          string    `bson:"_id"`
	Shop        string    `bson:"shop"`
	State       string    `bson:"state"`
	Scope       string    `bson:"scope"`
	AccessToken string    `bson:"accessToken"`
	IsOnline    bool      `bson:"isOnline"`
	UserID      int64     `bson:"userId,omitempty"`
	ExpiresAt   time.Time `bson:"expiresAt,omitempty"`
	UpdatedAt   time.Time `bson:"updatedAt"`
}

// ToDomain converts the MongoDB document to a domain entity
func (d *MongoSessionDoc) ToDomain() *domain.Session {
	return &domain.Session{
		ID:          d.ID,
		Shop:        d.Shop,
		State:       d.State,
		Scope:       d.Scope,
		AccessToken: d.AccessToken,
		IsOnline:    d.IsOnline,
		UserID:      d.UserID,
		ExpiresAt:   d.ExpiresAt,
	}
}

// MongoSessionDocFromDomain converts a domain entity to a MongoDB document
func MongoSessionDocFromDomain(session *domain.Session) *MongoSessionDoc {
	return &MongoSessionDoc{
		ID:          session.ID,
		Shop:        session.Shop,
		State:       session.State,
		Scope:       session.Scope,
		AccessToken: session.AccessToken,
		IsOnline:    session.IsOnline,
		UserID:      session.UserID,
		ExpiresAt:   session.ExpiresAt,
	}
}
