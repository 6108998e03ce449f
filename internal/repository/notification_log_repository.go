package repository

import (
	"context"
	"time"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
)

// NotificationLogRepository is the dedup ledger: one document per
// (booking, event) pair that has already produced a notification. Event bus
// delivery is at-least-once, so the dispatcher claims the pair before
// sending anything.
type NotificationLogRepository struct {
	collection *mongo.Collection
}

func NewNotificationLogRepository(db *mongo.Database) *NotificationLogRepository {
	return &NotificationLogRepository{collection: db.Collection("notification_log")}
}

// Claim upserts the (bookingID, eventKey) pair and reports whether this call
// inserted it. false means some earlier delivery already notified.
func (r *NotificationLogRepository) Claim(ctx context.Context, bookingID, eventKey string) (bool, error) {
	res, err := r.collection.UpdateOne(ctx,
		bson.M{"booking_id": bookingID, "event_key": eventKey},
		bson.M{"$setOnInsert": bson.M{"notified_at": time.Now().UTC()}},
		options.Update().SetUpsert(true))
	if err != nil {
		return false, err
	}
	return res.UpsertedCount == 1, nil
}
