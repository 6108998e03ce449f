package repository

import (
	"context"

	"marketplace-app/internal/models"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
)

type ReviewRepository struct {
	collection *mongo.Collection
}

func NewReviewRepository(db *mongo.Database) *ReviewRepository {
	return &ReviewRepository{collection: db.Collection("reviews")}
}

func (r *ReviewRepository) Create(ctx context.Context, review *models.Review) error {
	_, err := r.collection.InsertOne(ctx, review)
	return err
}

// GetByProviderID is the provider-scoped index read the aggregator re-scans
// on every submission.
func (r *ReviewRepository) GetByProviderID(ctx context.Context, providerID string) ([]models.Review, error) {
	cursor, err := r.collection.Find(ctx, bson.M{"provider_id": providerID})
	if err != nil {
		return nil, err
	}
	defer cursor.Close(ctx)

	var reviews []models.Review
	if err := cursor.All(ctx, &reviews); err != nil {
		return nil, err
	}
	return reviews, nil
}
