package services

import (
	"context"
	"encoding/json"
	"fmt"
	"log"
	"time"

	"marketplace-app/internal/models"
	"marketplace-app/internal/utils"

	"github.com/google/uuid"
	"github.com/redis/go-redis/v9"
)

// BookingService owns the booking write path and publishes the bus events
// the dispatcher reacts to. Publishing is best-effort: the stored record is
// the source of truth and a lost event only costs a notification.
type BookingService struct {
	repo      BookingStore
	publisher EventPublisher
	cache     *redis.Client
}

func NewBookingService(repo BookingStore, publisher EventPublisher, cache *redis.Client) *BookingService {
	return &BookingService{repo: repo, publisher: publisher, cache: cache}
}

func (s *BookingService) CreateBooking(ctx context.Context, booking *models.Booking) error {
	if err := booking.Validate(); err != nil {
		return fmt.Errorf("%w: %v", models.ErrValidation, err)
	}

	booking.BookingID = uuid.NewString()
	booking.Status = models.StatusPending
	booking.IsReviewed = false
	booking.ReminderSent = false
	booking.CreatedAt = time.Now().UTC().Format(time.RFC3339)
	if booking.ProviderName == "" {
		booking.ProviderName = "Unknown Provider"
	}
	if booking.ServiceName == "" {
		booking.ServiceName = "Unknown Service"
	}

	if err := s.repo.Create(ctx, booking); err != nil {
		return err
	}
	s.invalidateCustomerCache(ctx, booking.CustomerID)

	event := models.BookingCreatedEvent{
		EventName: models.EventInsert,
		NewImage:  booking.Image(),
	}
	if err := s.publisher.Publish(ctx, BookingEventsChannel, event); err != nil {
		log.Printf("Failed to publish creation event for %s: %v", booking.BookingID, err)
	}
	return nil
}

func (s *BookingService) GetByCustomer(ctx context.Context, customerID string) ([]models.Booking, error) {
	cacheKey := customerBookingsKey(customerID)
	if s.cache != nil {
		if raw, err := utils.GetFromCache(ctx, s.cache, cacheKey); err == nil {
			var bookings []models.Booking
			if err := json.Unmarshal([]byte(raw), &bookings); err == nil {
				return bookings, nil
			}
		}
	}

	bookings, err := s.repo.GetByCustomerID(ctx, customerID)
	if err != nil {
		return nil, err
	}

	if s.cache != nil {
		if raw, err := json.Marshal(bookings); err == nil {
			if err := utils.SetToCache(ctx, s.cache, cacheKey, string(raw), utils.CacheTTL); err != nil {
				log.Printf("Failed to cache bookings for %s: %v", customerID, err)
			}
		}
	}
	return bookings, nil
}

func (s *BookingService) GetByProvider(ctx context.Context, providerID string) ([]models.Booking, error) {
	return s.repo.GetByProviderID(ctx, providerID)
}

// UpdateStatus validates against the closed status set, writes the
// transition and announces it on the bus as a structured event.
func (s *BookingService) UpdateStatus(ctx context.Context, bookingID string, status models.BookingStatus, updatedBy string) error {
	if bookingID == "" || status == "" {
		return fmt.Errorf("%w: bookingId and status are required", models.ErrValidation)
	}
	if !status.Valid() {
		return fmt.Errorf("%w: %q", models.ErrInvalidStatus, status)
	}

	booking, err := s.repo.GetByID(ctx, bookingID)
	if err != nil {
		return err
	}

	if err := s.repo.UpdateStatus(ctx, bookingID, status, updatedBy); err != nil {
		return err
	}
	s.invalidateCustomerCache(ctx, booking.CustomerID)

	event := models.StatusChangedEvent{
		BookingID: bookingID,
		NewStatus: status,
		UpdatedBy: updatedBy,
	}
	if err := s.publisher.Publish(ctx, StatusEventsChannel, event); err != nil {
		log.Printf("Failed to publish status event for %s: %v", bookingID, err)
	}
	return nil
}

func (s *BookingService) invalidateCustomerCache(ctx context.Context, customerID string) {
	if s.cache == nil || customerID == "" {
		return
	}
	if err := utils.DeleteFromCache(ctx, s.cache, customerBookingsKey(customerID)); err != nil {
		log.Printf("Failed to invalidate cache: %v", err)
	}
}

func customerBookingsKey(customerID string) string {
	return fmt.Sprintf("bookings_by_customer:%s", customerID)
}
