package services

import (
	"context"
	"time"

	"marketplace-app/internal/models"

	"go.mongodb.org/mongo-driver/bson"
)

// Collaborator interfaces. Everything a service touches comes in through a
// constructor so tests can substitute in-memory fakes.

type BookingStore interface {
	Create(ctx context.Context, booking *models.Booking) error
	GetByID(ctx context.Context, bookingID string) (*models.Booking, error)
	GetByCustomerID(ctx context.Context, customerID string) ([]models.Booking, error)
	GetByProviderID(ctx context.Context, providerID string) ([]models.Booking, error)
	Filter(ctx context.Context, filter bson.M) ([]models.Booking, error)
	UpdateStatus(ctx context.Context, bookingID string, status models.BookingStatus, updatedBy string) error
	MarkReviewed(ctx context.Context, bookingID string) error
	MarkReminderSent(ctx context.Context, bookingID string) error
}

type ReviewStore interface {
	Create(ctx context.Context, review *models.Review) error
	GetByProviderID(ctx context.Context, providerID string) ([]models.Review, error)
}

type ServiceStore interface {
	GetByServiceID(ctx context.Context, serviceID string) (*models.Service, error)
	UpdateRatingSnapshot(ctx context.Context, serviceID string, version int64, snap models.RatingSnapshot) error
}

type ProviderStore interface {
	GetByProviderID(ctx context.Context, providerID string) (*models.Provider, error)
}

// NotificationLedger records which (booking, event) pairs have already been
// notified, so replayed deliveries send nothing.
type NotificationLedger interface {
	Claim(ctx context.Context, bookingID, eventKey string) (bool, error)
}

type Mailer interface {
	Send(to, subject, htmlBody string) error
}

type DocumentStore interface {
	Put(ctx context.Context, objectKey string, body []byte, contentType string) error
	PresignedURL(ctx context.Context, objectKey string, expiry time.Duration) (string, error)
}

type EventPublisher interface {
	Publish(ctx context.Context, channel string, payload interface{}) error
}
