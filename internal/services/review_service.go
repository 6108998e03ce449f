package services

import (
	"context"
	"errors"
	"fmt"
	"log"
	"math"
	"sort"
	"strings"
	"time"

	"marketplace-app/internal/models"

	"github.com/google/uuid"
)

const (
	snapshotRetries = 3
	digestSize      = 5
)

// ReviewService persists submitted reviews and keeps the owning service's
// denormalized rating snapshot consistent. Ratings are scoped per service:
// the fetch is provider-wide but only reviews of the triggering service
// count, one provider can carry several independently rated services.
type ReviewService struct {
	reviews  ReviewStore
	bookings BookingStore
	services ServiceStore
}

func NewReviewService(reviews ReviewStore, bookings BookingStore, services ServiceStore) *ReviewService {
	return &ReviewService{reviews: reviews, bookings: bookings, services: services}
}

type SubmitReviewInput struct {
	BookingID string `json:"booking_id"`
	Rating    int    `json:"rating"`
	Comment   string `json:"comment"`
}

// Submit creates the review, flags the booking and recomputes the service
// snapshot. A booking that was already reviewed still accepts another
// review; the flag set is idempotent and the aggregation recounts from the
// review table either way.
func (s *ReviewService) Submit(ctx context.Context, input SubmitReviewInput) (*models.Review, error) {
	if input.BookingID == "" || input.Rating == 0 {
		return nil, fmt.Errorf("%w: booking_id and rating are required", models.ErrValidation)
	}

	booking, err := s.bookings.GetByID(ctx, input.BookingID)
	if err != nil {
		return nil, err
	}

	review := &models.Review{
		ReviewID:     uuid.NewString(),
		BookingID:    input.BookingID,
		ProviderID:   booking.ProviderID,
		ServiceID:    booking.ServiceID,
		Rating:       input.Rating,
		Comment:      input.Comment,
		ReviewerName: orDefault(booking.CustomerName, "Anonymous"),
		CreatedAt:    time.Now().UTC().Format(time.RFC3339),
	}

	if err := s.reviews.Create(ctx, review); err != nil {
		return nil, fmt.Errorf("failed to save review: %w", err)
	}
	if err := s.bookings.MarkReviewed(ctx, input.BookingID); err != nil {
		return nil, fmt.Errorf("failed to flag booking as reviewed: %w", err)
	}

	if err := s.refreshSnapshot(ctx, review); err != nil {
		return nil, err
	}
	return review, nil
}

// refreshSnapshot re-derives the full snapshot and writes it with a
// compare-and-swap on the service's rating version, retrying the whole
// read-aggregate-write cycle on conflict.
func (s *ReviewService) refreshSnapshot(ctx context.Context, review *models.Review) error {
	if review.ServiceID == "" {
		log.Printf("Review %s has no service id, snapshot not updated", review.ReviewID)
		return nil
	}

	for attempt := 0; attempt < snapshotRetries; attempt++ {
		service, err := s.services.GetByServiceID(ctx, review.ServiceID)
		if errors.Is(err, models.ErrNotFound) {
			log.Printf("Service %s not found, snapshot not updated", review.ServiceID)
			return nil
		}
		if err != nil {
			return fmt.Errorf("failed to fetch service %s: %w", review.ServiceID, err)
		}

		all, err := s.reviews.GetByProviderID(ctx, review.ProviderID)
		if err != nil {
			return fmt.Errorf("failed to fetch provider reviews: %w", err)
		}
		// The index read can lag the write we just did.
		found := false
		for _, r := range all {
			if r.ReviewID == review.ReviewID {
				found = true
				break
			}
		}
		if !found {
			all = append(all, *review)
		}

		var scoped []models.Review
		for _, r := range all {
			if r.ServiceID == review.ServiceID {
				scoped = append(scoped, r)
			}
		}

		snap := BuildSnapshot(scoped)
		err = s.services.UpdateRatingSnapshot(ctx, review.ServiceID, service.RatingVersion, snap)
		if errors.Is(err, models.ErrVersionConflict) {
			log.Printf("Snapshot conflict on service %s, retrying", review.ServiceID)
			continue
		}
		if err != nil {
			return fmt.Errorf("failed to update rating snapshot: %w", err)
		}
		return nil
	}
	return fmt.Errorf("%w: service %s", models.ErrVersionConflict, review.ServiceID)
}

// BuildSnapshot computes count, 1-decimal average and the newest-first
// digest of at most five review summaries.
func BuildSnapshot(reviews []models.Review) models.RatingSnapshot {
	count := len(reviews)

	var rating float64
	if count > 0 {
		sum := 0
		for _, r := range reviews {
			sum += r.Rating
		}
		rating = Round1(float64(sum) / float64(count))
	}

	// RFC3339 strings order the same way the timestamps do.
	sorted := make([]models.Review, count)
	copy(sorted, reviews)
	sort.SliceStable(sorted, func(i, j int) bool {
		return sorted[i].CreatedAt > sorted[j].CreatedAt
	})

	limit := digestSize
	if count < limit {
		limit = count
	}
	digest := make([]models.ReviewDigest, 0, limit)
	for _, r := range sorted[:limit] {
		date, _, _ := strings.Cut(r.CreatedAt, "T")
		digest = append(digest, models.ReviewDigest{
			ReviewerName: orDefault(r.ReviewerName, "Customer"),
			Rating:       r.Rating,
			Comment:      r.Comment,
			Date:         date,
		})
	}

	return models.RatingSnapshot{Rating: rating, ReviewCount: count, Reviews: digest}
}

// Round1 rounds to one decimal place.
func Round1(x float64) float64 {
	return math.Round(x*10) / 10
}
