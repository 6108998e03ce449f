package services

import (
	"context"
	"fmt"
	"log"
	"strings"
	"time"

	"marketplace-app/internal/models"

	"go.mongodb.org/mongo-driver/bson"
)

const reminderMinAge = 24 * time.Hour

// ReminderService periodically nudges customers of completed bookings who
// never left a review. The reminder_sent flag makes each booking get at most
// one nudge even though the sweep runs on a schedule.
type ReminderService struct {
	bookings      BookingStore
	mailer        Mailer
	reviewPageURL string
	now           func() time.Time
}

func NewReminderService(bookings BookingStore, mailer Mailer, reviewPageURL string) *ReminderService {
	return &ReminderService{
		bookings:      bookings,
		mailer:        mailer,
		reviewPageURL: reviewPageURL,
		now:           time.Now,
	}
}

func (s *ReminderService) Start(ctx context.Context) {
	go s.startSweepJob(ctx)
}

func (s *ReminderService) startSweepJob(ctx context.Context) {
	ticker := time.NewTicker(24 * time.Hour)
	for {
		select {
		case <-ticker.C:
			if sent, err := s.Sweep(ctx); err != nil {
				log.Println("Review reminder sweep failed:", err)
			} else {
				log.Printf("Review reminder sweep complete, sent %d reminders", sent)
			}
		case <-ctx.Done():
			log.Println("[CRON] Stopping review reminder job")
			ticker.Stop()
			return
		}
	}
}

// Sweep scans completed bookings and reminds eligible customers. Per-item
// problems are logged and skipped; only a failed scan aborts the run.
func (s *ReminderService) Sweep(ctx context.Context) (int, error) {
	// Legacy records carry the status uppercased.
	bookings, err := s.bookings.Filter(ctx, bson.M{
		"status": bson.M{"$in": []string{string(models.StatusCompleted), "COMPLETED"}},
	})
	if err != nil {
		return 0, fmt.Errorf("failed to scan completed bookings: %w", err)
	}

	sent := 0
	for i := range bookings {
		booking := &bookings[i]
		if booking.IsReviewed || booking.ReminderSent {
			continue
		}

		ref := booking.UpdatedAt
		if ref == "" {
			ref = booking.ScheduledDate
		}
		if ref == "" {
			log.Printf("Skipping %s: no reference date", booking.BookingID)
			continue
		}
		refTime, ok := parseFlexibleDate(ref)
		if !ok {
			log.Printf("Skipping %s: cannot parse date %q", booking.BookingID, ref)
			continue
		}
		if s.now().Sub(refTime) < reminderMinAge {
			continue
		}
		if booking.CustomerEmail == "" {
			log.Printf("Skipping %s: no customer email", booking.BookingID)
			continue
		}

		if err := s.sendReminder(booking); err != nil {
			log.Printf("Failed to send reminder for %s: %v", booking.BookingID, err)
			continue
		}
		if err := s.bookings.MarkReminderSent(ctx, booking.BookingID); err != nil {
			log.Printf("Failed to flag reminder for %s: %v", booking.BookingID, err)
		}
		sent++
	}
	return sent, nil
}

func (s *ReminderService) sendReminder(booking *models.Booking) error {
	providerName := orDefault(booking.ProviderName, "The Provider")
	reviewLink := fmt.Sprintf("%s?customerId=%s", s.reviewPageURL, booking.CustomerID)

	subject := fmt.Sprintf("Reminder: How was your experience with %s?", providerName)
	body := fmt.Sprintf(`
        <h2>We'd love your feedback!</h2>
        <p>Hi %s,</p>
        <p>It's been a couple of days since your service with <strong>%s</strong>.</p>
        <p>If you have a moment, please leave a review to help your neighbors find great pros.</p>
        <p style="margin: 20px 0;">
            <a href="%s" style="background:#ff9900;color:white;padding:12px 24px;text-decoration:none;border-radius:5px;font-weight:bold;">
            Leave a Review Now
            </a>
        </p>
        <p><small>Link: %s</small></p>
    `, orDefault(booking.CustomerName, "Customer"), providerName, reviewLink, reviewLink)

	return s.mailer.Send(booking.CustomerEmail, subject, body)
}

// parseFlexibleDate accepts the three formats bookings have carried over
// time: RFC3339, space-separated datetime, and date-only.
func parseFlexibleDate(value string) (time.Time, bool) {
	var layouts []string
	switch {
	case strings.Contains(value, "T"):
		layouts = []string{time.RFC3339, "2006-01-02T15:04:05"}
	case strings.Contains(value, " "):
		layouts = []string{"2006-01-02 15:04:05"}
	default:
		layouts = []string{"2006-01-02"}
	}
	for _, layout := range layouts {
		if t, err := time.Parse(layout, value); err == nil {
			return t, true
		}
	}
	return time.Time{}, false
}
