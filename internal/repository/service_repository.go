package repository

import (
	"context"
	"errors"

	"marketplace-app/internal/models"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
)

type ServiceRepository struct {
	collection *mongo.Collection
}

func NewServiceRepository(db *mongo.Database) *ServiceRepository {
	return &ServiceRepository{collection: db.Collection("services")}
}

func (r *ServiceRepository) GetByServiceID(ctx context.Context, serviceID string) (*models.Service, error) {
	var service models.Service
	err := r.collection.FindOne(ctx, bson.M{"service_id": serviceID}).Decode(&service)
	if errors.Is(err, mongo.ErrNoDocuments) {
		return nil, models.ErrNotFound
	}
	if err != nil {
		return nil, err
	}
	return &service, nil
}

func (r *ServiceRepository) Search(ctx context.Context, category string, maxPrice *float64) ([]models.Service, error) {
	filter := bson.M{"category": category}
	if maxPrice != nil {
		filter["price"] = bson.M{"$lte": *maxPrice}
	}
	cursor, err := r.collection.Find(ctx, filter)
	if err != nil {
		return nil, err
	}
	defer cursor.Close(ctx)

	var services []models.Service
	if err := cursor.All(ctx, &services); err != nil {
		return nil, err
	}
	return services, nil
}

// UpdateRatingSnapshot overwrites the denormalized rating fields in one
// update, conditional on the version the caller aggregated against. A
// concurrent writer bumps the version first and the losing caller gets
// ErrVersionConflict to re-aggregate.
func (r *ServiceRepository) UpdateRatingSnapshot(ctx context.Context, serviceID string, version int64, snap models.RatingSnapshot) error {
	res, err := r.collection.UpdateOne(ctx,
		bson.M{"service_id": serviceID, "rating_version": version},
		bson.M{
			"$set": bson.M{
				"rating":       snap.Rating,
				"review_count": snap.ReviewCount,
				"reviews":      snap.Reviews,
			},
			"$inc": bson.M{"rating_version": 1},
		})
	if err != nil {
		return err
	}
	if res.MatchedCount == 0 {
		return models.ErrVersionConflict
	}
	return nil
}
