package repository

import (
	"context"
	"errors"

	"marketplace-app/internal/models"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
)

type ProviderRepository struct {
	collection *mongo.Collection
}

func NewProviderRepository(db *mongo.Database) *ProviderRepository {
	return &ProviderRepository{collection: db.Collection("providers")}
}

func (r *ProviderRepository) GetByProviderID(ctx context.Context, providerID string) (*models.Provider, error) {
	var provider models.Provider
	err := r.collection.FindOne(ctx, bson.M{"provider_id": providerID}).Decode(&provider)
	if errors.Is(err, mongo.ErrNoDocuments) {
		return nil, models.ErrNotFound
	}
	if err != nil {
		return nil, err
	}
	return &provider, nil
}
