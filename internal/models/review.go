package models

import "go.mongodb.org/mongo-driver/bson/primitive"

// Review is immutable once created. CreatedAt is an RFC3339 string so that
// lexicographic ordering matches chronological ordering.
type Review struct {
	ID           primitive.ObjectID `bson:"_id,omitempty" json:"-"`
	ReviewID     string             `bson:"review_id" json:"review_id"`
	BookingID    string             `bson:"booking_id" json:"booking_id"`
	ProviderID   string             `bson:"provider_id" json:"provider_id"`
	ServiceID    string             `bson:"service_id" json:"service_id"`
	Rating       int                `bson:"rating" json:"rating"`
	Comment      string             `bson:"comment,omitempty" json:"comment,omitempty"`
	ReviewerName string             `bson:"reviewer_name" json:"reviewer_name"`
	CreatedAt    string             `bson:"created_at" json:"created_at"`
}

// ReviewDigest is one entry of the bounded snapshot embedded on a service
// record. Date is the date-only part of the review's CreatedAt.
type ReviewDigest struct {
	ReviewerName string `bson:"reviewer_name" json:"reviewer_name"`
	Rating       int    `bson:"rating" json:"rating"`
	Comment      string `bson:"comment,omitempty" json:"comment,omitempty"`
	Date         string `bson:"date" json:"date"`
}
