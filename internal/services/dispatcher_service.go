package services

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"log"
	"time"

	"marketplace-app/internal/models"

	"github.com/redis/go-redis/v9"
)

const (
	BookingEventsChannel = "booking_events"
	StatusEventsChannel  = "booking_status_events"
)

const presignTTL = 72 * time.Hour

// DispatcherService reacts to booking lifecycle events from the notification
// bus and sends the matching transactional emails. Every send and every
// lookup is best-effort: a failure is logged and never aborts the sibling
// send or the rest of the batch.
type DispatcherService struct {
	bookings      BookingStore
	providers     ProviderStore
	ledger        NotificationLedger
	mailer        Mailer
	docs          DocumentStore
	redis         *redis.Client
	reviewPageURL string
}

func NewDispatcherService(bookings BookingStore, providers ProviderStore, ledger NotificationLedger, mailer Mailer, docs DocumentStore, rdb *redis.Client, reviewPageURL string) *DispatcherService {
	return &DispatcherService{
		bookings:      bookings,
		providers:     providers,
		ledger:        ledger,
		mailer:        mailer,
		docs:          docs,
		redis:         rdb,
		reviewPageURL: reviewPageURL,
	}
}

// StartSubscribers consumes the bus channels until the context closes.
func (s *DispatcherService) StartSubscribers(ctx context.Context) {
	channels := []string{BookingEventsChannel, StatusEventsChannel}

	pubsub := s.redis.Subscribe(ctx, channels...)
	defer pubsub.Close()

	log.Printf("Subscribed to bus channels: %v", channels)

	ch := pubsub.Channel()
	for {
		select {
		case msg := <-ch:
			if err := s.ProcessEvent(ctx, msg.Channel, []byte(msg.Payload)); err != nil {
				log.Printf("Error processing event on %s: %v", msg.Channel, err)
			}
		case <-ctx.Done():
			log.Println("Stopping bus subscribers...")
			return
		}
	}
}

// ProcessEvent routes one bus message. Status events are tried as structured
// JSON first; anything else goes through the announcement text shim.
func (s *DispatcherService) ProcessEvent(ctx context.Context, channel string, payload []byte) error {
	switch channel {
	case BookingEventsChannel:
		var ev models.BookingCreatedEvent
		if err := json.Unmarshal(payload, &ev); err != nil {
			return fmt.Errorf("failed to unmarshal creation event: %w", err)
		}
		if ev.EventName != models.EventInsert {
			return nil
		}
		return s.HandleBookingCreated(ctx, ev)

	case StatusEventsChannel:
		var ev models.StatusChangedEvent
		if err := json.Unmarshal(payload, &ev); err == nil && ev.BookingID != "" && ev.NewStatus != "" {
			return s.HandleStatusChange(ctx, ev)
		}
		ev, err := ParseAnnouncement(string(payload))
		if err != nil {
			log.Printf("Dropping announcement: %v", err)
			return nil
		}
		return s.HandleStatusChange(ctx, ev)
	}

	log.Printf("Ignoring message on unknown channel %s", channel)
	return nil
}

// HandleBookingCreated handles the creation entry: flatten the tagged record
// image, notify the provider (when reachable) and confirm to the customer.
// The two sends are independent.
func (s *DispatcherService) HandleBookingCreated(ctx context.Context, ev models.BookingCreatedEvent) error {
	record := models.FlattenImage(ev.NewImage)

	custEmail := stringField(record, "customerEmail")
	providerID := stringField(record, "providerId")
	bookingID := stringField(record, "bookingId")

	if custEmail == "" || providerID == "" {
		log.Printf("Dropping creation event for %q: missing customerEmail or providerId", bookingID)
		return nil
	}

	if bookingID != "" {
		first, err := s.ledger.Claim(ctx, bookingID, "created")
		if err != nil {
			log.Printf("Dedup claim failed for %s, sending anyway: %v", bookingID, err)
		} else if !first {
			log.Printf("Creation of %s already notified, skipping", bookingID)
			return nil
		}
	}

	provider, err := s.providers.GetByProviderID(ctx, providerID)
	if err != nil {
		log.Printf("Provider %s lookup failed: %v", providerID, err)
	} else if provider.Email != "" {
		body := "<h2>New Booking!</h2><p>Please log in to confirm.</p>"
		subject := fmt.Sprintf("New Booking: %s", stringField(record, "serviceName"))
		if err := s.mailer.Send(provider.Email, subject, body); err != nil {
			log.Printf("Failed to send provider email for %s: %v", bookingID, err)
		}
	}

	body := fmt.Sprintf(`
        <h1>Booking Received</h1>
        <p>Customer ID: %s</p>
        <p>Booking ID: %s</p>
        <p>Status: PENDING CONFIRMATION</p>
    `, stringField(record, "customerId"), bookingID)
	if err := s.mailer.Send(custEmail, "Booking Confirmation", body); err != nil {
		log.Printf("Failed to send customer confirmation for %s: %v", bookingID, err)
	}
	return nil
}

// HandleStatusChange is the routing core: one structured transition in, the
// matching branch's side effects out, at most once per (booking, status).
func (s *DispatcherService) HandleStatusChange(ctx context.Context, ev models.StatusChangedEvent) error {
	booking, err := s.bookings.GetByID(ctx, ev.BookingID)
	if errors.Is(err, models.ErrNotFound) {
		log.Printf("Booking %s not found, dropping status event", ev.BookingID)
		return nil
	}
	if err != nil {
		return fmt.Errorf("failed to fetch booking %s: %w", ev.BookingID, err)
	}

	first, err := s.ledger.Claim(ctx, ev.BookingID, string(ev.NewStatus))
	if err != nil {
		log.Printf("Dedup claim failed for %s/%s, sending anyway: %v", ev.BookingID, ev.NewStatus, err)
	} else if !first {
		log.Printf("Transition %s -> %s already notified, skipping", ev.BookingID, ev.NewStatus)
		return nil
	}

	switch ev.NewStatus {
	case models.StatusCompleted:
		s.sendReviewRequest(ctx, booking)
	case models.StatusPaid:
		s.sendInvoice(ctx, booking)
	case models.StatusConfirmed, models.StatusCancelled, models.StatusInProgress:
		s.sendStatusUpdate(booking, ev.NewStatus)
	default:
		log.Printf("Status %q of booking %s triggers no notification", ev.NewStatus, ev.BookingID)
	}
	return nil
}

func (s *DispatcherService) sendReviewRequest(ctx context.Context, booking *models.Booking) {
	if booking.CustomerEmail == "" || booking.CustomerID == "" {
		log.Printf("Skipping review request for %s: no customer email or id", booking.BookingID)
		return
	}

	providerName := orDefault(booking.ProviderName, "The Provider")
	reviewLink := fmt.Sprintf("%s?customerId=%s", s.reviewPageURL, booking.CustomerID)

	subject := fmt.Sprintf("How was your service from %s?", providerName)
	body := fmt.Sprintf(`
        <h2>Service Completed</h2>
        <p>Hi %s,</p>
        <p>Your service with <strong>%s</strong> has been marked as completed.</p>
        <p>We would love to hear about your experience!</p>

        <p style="margin: 20px 0;">
            <a href="%s"
               style="background-color: #ff9900; color: white; padding: 12px 24px; text-decoration: none; border-radius: 5px; font-weight: bold;">
                Rate &amp; Review Service
            </a>
        </p>

        <p><small>Or copy this link: %s</small></p>
        <p><strong>Your Customer ID:</strong> %s</p>
    `, orDefault(booking.CustomerName, "Customer"), providerName, reviewLink, reviewLink, booking.CustomerID)

	if err := s.mailer.Send(booking.CustomerEmail, subject, body); err != nil {
		log.Printf("Failed to send review request for %s: %v", booking.BookingID, err)
	}
}

// sendInvoice stores the receipt unconditionally; the email only goes out
// when the booking has a customer address to send it to.
func (s *DispatcherService) sendInvoice(ctx context.Context, booking *models.Booking) {
	now := time.Now()
	objectKey := receiptObjectKey(booking.BookingID, now)
	html := renderReceiptHTML(booking, now)

	if err := s.docs.Put(ctx, objectKey, []byte(html), "text/html"); err != nil {
		log.Printf("Failed to store receipt for %s: %v", booking.BookingID, err)
		return
	}
	log.Printf("Stored receipt %s", objectKey)

	if booking.CustomerEmail == "" {
		log.Printf("Booking %s has no customer email, receipt stored without send", booking.BookingID)
		return
	}

	url, err := s.docs.PresignedURL(ctx, objectKey, presignTTL)
	if err != nil {
		log.Printf("Failed to presign receipt link for %s: %v", booking.BookingID, err)
		return
	}

	subject := fmt.Sprintf("Receipt for Booking %s", booking.BookingID)
	body := fmt.Sprintf(`
        <h2>Payment Received</h2>
        <p>Thank you! Your payment has been processed.</p>
        <p><a href="%s" style="background:#28a745;color:white;padding:10px 20px;text-decoration:none;border-radius:5px;">Download Official Receipt</a></p>
        <p><small>Link expires in 3 days.</small></p>
    `, url)

	if err := s.mailer.Send(booking.CustomerEmail, subject, body); err != nil {
		log.Printf("Failed to send receipt link for %s: %v", booking.BookingID, err)
	}
}

func (s *DispatcherService) sendStatusUpdate(booking *models.Booking, status models.BookingStatus) {
	if booking.CustomerEmail == "" {
		log.Printf("Skipping status update for %s: no customer email", booking.BookingID)
		return
	}

	label, color := statusDisplay(status)

	subject := fmt.Sprintf("Booking Update: %s", label)
	body := fmt.Sprintf(`
        <html>
        <body style="font-family: Arial, sans-serif;">
            <h2 style="color: #333;">Booking Status Update</h2>
            <p>Hello %s,</p>
            <p>The status of your booking (ID: <b>%s</b>) has been updated.</p>
            <p style="font-size: 18px;">New Status: <strong style="color: %s;">%s</strong></p>
            <br>
            <p>Thank you for using Home Services Marketplace.</p>
        </body>
        </html>
    `, orDefault(booking.CustomerName, "Customer"), booking.BookingID, color, label)

	if err := s.mailer.Send(booking.CustomerEmail, subject, body); err != nil {
		log.Printf("Failed to send status update for %s: %v", booking.BookingID, err)
	}
}

// statusDisplay maps a standard-update status to its human label and accent
// color. Cancellations are red, confirmations green, everything else blue.
func statusDisplay(status models.BookingStatus) (string, string) {
	switch status {
	case models.StatusCancelled:
		return "CANCELLED", "#dc3545"
	case models.StatusConfirmed:
		return "CONFIRMED", "#28a745"
	case models.StatusInProgress:
		return "IN PROGRESS", "#007bff"
	}
	return "UPDATED", "#007bff"
}

func stringField(record map[string]interface{}, key string) string {
	if v, ok := record[key].(string); ok {
		return v
	}
	return ""
}
