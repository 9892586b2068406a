package repository

import (
	"context"
	"errors"
	"fmt"
	"time"

	"smartfaq-shopify-layer/internal/domain"
	"smartfaq-shopify-layer/internal/infrastructure/repository/entity"
	"smartfaq-shopify-layer/internal/ports"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
)

// MongoSessionRepository implements SessionRepository using MongoDB
type MongoSessionRepository struct {
	collection *mongo.Collection
}

var _ ports.SessionRepository = (*MongoSessionRepository)(nil)

// NewMongoSessionRepository creates a new MongoDB session repository
func NewMongoSessionRepository(db *mongo.Database) *MongoSessionRepository {
	return &MongoSessionRepository{
		collection: db.Collection("shopify_sessions"),
	}
}

// EnsureIndexes creates the shop lookup index and the expiry TTL index
func (r *MongoSessionRepository) EnsureIndexes(ctx context.Context) error {
	_, err := r.collection.Indexes().CreateMany(ctx, []mongo.IndexModel{
		{Keys: bson.D{{Key: "shop", Value: 1}}},
		{
			Keys: bson.D{{Key: "expiresAt", Value: 1}},
			Options: options.Index().
				SetExpireAfterSeconds(0).
				SetPartialFilterExpression(bson.M{"isOnline": true}),
		},
	})
	if err != nil {
		return fmt.Errorf("failed to create session indexes: %w", err)
	}
	return nil
}

// StoreSession saves or replaces a session
func (r *MongoSessionRepository) StoreSession(ctx context.Context, session *domain.Session) error {
	doc := entity.MongoSessionDocFromDomain(session)
	doc.UpdatedAt = time.Now()

	opts := options.Replace().SetUpsert(true)
	_, err := r.collection.ReplaceOne(ctx, bson.M{"_id": session.ID}, doc, opts)
	if err != nil {
		return fmt.Errorf("failed to store session: %w", err)
	}
	return nil
}

// LoadSession retrieves a session by id
func (r *MongoSessionRepository) LoadSession(ctx context.Context, id string) (*domain.Session, error) {
	var doc entity.MongoSessionDoc
	err := r.collection.FindOne(ctx, bson.M{"_id": id}).Decode(&doc)
	if errors.Is(err, mongo.ErrNoDocuments) {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("failed to load session: %w", err)
	}
	return doc.ToDomain(), nil
}

// DeleteSessionsByShop deletes every session of a shop
func (r *MongoSessionRepository) DeleteSessionsByShop(ctx context.Context, shop string) error {
	if _, err := r.collection.DeleteMany(ctx, bson.M{"shop": shop}); err != nil {
		return fmt.Errorf("failed to delete sessions: %w", err)
	}
	return nil
}
