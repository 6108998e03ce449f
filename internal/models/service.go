package models

import "go.mongodb.org/mongo-driver/bson/primitive"

// Service is a catalog entry owned by a provider. Rating, ReviewCount and
// Reviews form the denormalized snapshot fully overwritten by the aggregator;
// RatingVersion guards that overwrite against concurrent submissions.
type Service struct {
	ID            primitive.ObjectID `bson:"_id,omitempty" json:"-"`
	ServiceID     string             `bson:"service_id" json:"service_id"`
	ProviderID    string             `bson:"provider_id" json:"provider_id"`
	ProviderName  string             `bson:"provider_name" json:"provider_name"`
	Name          string             `bson:"name" json:"name"`
	Category      string             `bson:"category" json:"category"`
	Price         float64            `bson:"price" json:"price"`
	Availability  string             `bson:"availability" json:"availability"`
	Rating        float64            `bson:"rating" json:"rating"`
	ReviewCount   int                `bson:"review_count" json:"review_count"`
	Reviews       []ReviewDigest     `bson:"reviews" json:"reviews"`
	RatingVersion int64              `bson:"rating_version" json:"-"`
}

// RatingSnapshot is what the aggregator writes onto a service record in a
// single update.
type RatingSnapshot struct {
	Rating      float64
	ReviewCount int
	Reviews     []ReviewDigest
}

type Provider struct {
	ID         primitive.ObjectID `bson:"_id,omitempty" json:"-"`
	ProviderID string             `bson:"provider_id" json:"provider_id"`
	Name       string             `bson:"name" json:"name"`
	Email      string             `bson:"email" json:"email"`
	Phone      string             `bson:"phone,omitempty" json:"phone,omitempty"`
	Location   string             `bson:"location,omitempty" json:"location,omitempty"`
}
