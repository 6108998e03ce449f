package repository

import (
	"context"
	"errors"
	"time"

	"marketplace-app/internal/models"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
)

type BookingRepository struct {
	collection *mongo.Collection
}

func NewBookingRepository(db *mongo.Database) *BookingRepository {
	return &BookingRepository{collection: db.Collection("bookings")}
}

func (r *BookingRepository) Create(ctx context.Context, booking *models.Booking) error {
	_, err := r.collection.InsertOne(ctx, booking)
	return err
}

func (r *BookingRepository) GetByID(ctx context.Context, bookingID string) (*models.Booking, error) {
	var booking models.Booking
	err := r.collection.FindOne(ctx, bson.M{"booking_id": bookingID}).Decode(&booking)
	if errors.Is(err, mongo.ErrNoDocuments) {
		return nil, models.ErrNotFound
	}
	if err != nil {
		return nil, err
	}
	return &booking, nil
}

func (r *BookingRepository) GetByCustomerID(ctx context.Context, customerID string) ([]models.Booking, error) {
	return r.find(ctx, bson.M{"customer_id": customerID})
}

func (r *BookingRepository) GetByProviderID(ctx context.Context, providerID string) ([]models.Booking, error) {
	return r.find(ctx, bson.M{"provider_id": providerID})
}

// Filter runs an arbitrary query; the reminder sweep uses it to scan
// completed bookings.
func (r *BookingRepository) Filter(ctx context.Context, filter bson.M) ([]models.Booking, error) {
	return r.find(ctx, filter)
}

func (r *BookingRepository) find(ctx context.Context, filter bson.M) ([]models.Booking, error) {
	cursor, err := r.collection.Find(ctx, filter)
	if err != nil {
		return nil, err
	}
	defer cursor.Close(ctx)

	var bookings []models.Booking
	if err := cursor.All(ctx, &bookings); err != nil {
		return nil, err
	}
	return bookings, nil
}

func (r *BookingRepository) UpdateStatus(ctx context.Context, bookingID string, status models.BookingStatus, updatedBy string) error {
	res, err := r.collection.UpdateOne(ctx, bson.M{"booking_id": bookingID}, bson.M{"$set": bson.M{
		"status":     status,
		"updated_at": time.Now().UTC().Format(time.RFC3339),
		"updated_by": updatedBy,
	}})
	if err != nil {
		return err
	}
	if res.MatchedCount == 0 {
		return models.ErrNotFound
	}
	return nil
}

// MarkReviewed is idempotent: setting the flag on an already-reviewed
// booking is not an error.
func (r *BookingRepository) MarkReviewed(ctx context.Context, bookingID string) error {
	_, err := r.collection.UpdateOne(ctx, bson.M{"booking_id": bookingID},
		bson.M{"$set": bson.M{"is_reviewed": true}})
	return err
}

func (r *BookingRepository) MarkReminderSent(ctx context.Context, bookingID string) error {
	_, err := r.collection.UpdateOne(ctx, bson.M{"booking_id": bookingID},
		bson.M{"$set": bson.M{"reminder_sent": true}})
	return err
}
