package services

import (
	"context"
	"testing"
	"time"

	"marketplace-app/internal/models"
)

var sweepNow = time.Date(2026, 8, 31, 12, 0, 0, 0, time.UTC)

func newTestReminder(bookings *fakeBookingStore, mailer *fakeMailer) *ReminderService {
	s := NewReminderService(bookings, mailer, "https://reviews.example.com")
	s.now = func() time.Time { return sweepNow }
	return s
}

func completedBooking(id string, age time.Duration) *models.Booking {
	return &models.Booking{
		BookingID:     id,
		CustomerID:    "cust-1",
		CustomerName:  "Alice Martin",
		CustomerEmail: "alice@example.com",
		ProviderName:  "Sparkle Cleaning",
		Status:        models.StatusCompleted,
		UpdatedAt:     sweepNow.Add(-age).Format(time.RFC3339),
	}
}

func TestSweep_SendsAfterGracePeriodOnly(t *testing.T) {
	mailer := &fakeMailer{}
	bookings := newFakeBookingStore(
		completedBooking("fresh", 10*time.Hour),
		completedBooking("stale", 30*time.Hour),
	)
	s := newTestReminder(bookings, mailer)

	sent, err := s.Sweep(context.Background())
	if err != nil {
		t.Fatalf("Sweep returned error: %v", err)
	}
	if sent != 1 {
		t.Fatalf("sent = %d, want 1", sent)
	}
	if len(mailer.sent) != 1 {
		t.Fatalf("emails = %d, want 1", len(mailer.sent))
	}
	mail := mailer.sent[0]
	if mail.to != "alice@example.com" {
		t.Errorf("recipient = %q", mail.to)
	}
	if mail.subject != "Reminder: How was your experience with Sparkle Cleaning?" {
		t.Errorf("subject = %q", mail.subject)
	}
	if !bookings.bookings["stale"].ReminderSent {
		t.Error("stale booking not flagged")
	}
	if bookings.bookings["fresh"].ReminderSent {
		t.Error("fresh booking flagged too early")
	}
}

func TestSweep_SecondRunSendsNothing(t *testing.T) {
	mailer := &fakeMailer{}
	s := newTestReminder(newFakeBookingStore(completedBooking("stale", 30*time.Hour)), mailer)

	for i := 0; i < 2; i++ {
		if _, err := s.Sweep(context.Background()); err != nil {
			t.Fatalf("sweep %d returned error: %v", i, err)
		}
	}
	if len(mailer.sent) != 1 {
		t.Errorf("reminder sent %d times across two sweeps, want 1", len(mailer.sent))
	}
}

func TestSweep_SkipsReviewedAndNonCompleted(t *testing.T) {
	reviewed := completedBooking("reviewed", 48*time.Hour)
	reviewed.IsReviewed = true
	pending := completedBooking("pending", 48*time.Hour)
	pending.Status = models.StatusPending

	mailer := &fakeMailer{}
	s := newTestReminder(newFakeBookingStore(reviewed, pending), mailer)

	sent, err := s.Sweep(context.Background())
	if err != nil {
		t.Fatalf("Sweep returned error: %v", err)
	}
	if sent != 0 || len(mailer.sent) != 0 {
		t.Errorf("sent = %d, emails = %d, want 0", sent, len(mailer.sent))
	}
}

func TestSweep_UppercaseLegacyStatus(t *testing.T) {
	legacy := completedBooking("legacy", 48*time.Hour)
	legacy.Status = "COMPLETED"

	mailer := &fakeMailer{}
	s := newTestReminder(newFakeBookingStore(legacy), mailer)

	sent, err := s.Sweep(context.Background())
	if err != nil {
		t.Fatalf("Sweep returned error: %v", err)
	}
	if sent != 1 {
		t.Errorf("sent = %d, want 1", sent)
	}
}

func TestSweep_FallsBackToScheduledDate(t *testing.T) {
	b := completedBooking("date-only", 0)
	b.UpdatedAt = ""
	b.ScheduledDate = "2026-08-25"

	mailer := &fakeMailer{}
	s := newTestReminder(newFakeBookingStore(b), mailer)

	sent, err := s.Sweep(context.Background())
	if err != nil {
		t.Fatalf("Sweep returned error: %v", err)
	}
	if sent != 1 {
		t.Errorf("sent = %d, want 1", sent)
	}
}

func TestSweep_SkipsUnparseableDateAndMissingEmail(t *testing.T) {
	badDate := completedBooking("bad-date", 48*time.Hour)
	badDate.UpdatedAt = "next tuesday"
	noEmail := completedBooking("no-email", 48*time.Hour)
	noEmail.CustomerEmail = ""

	mailer := &fakeMailer{}
	s := newTestReminder(newFakeBookingStore(badDate, noEmail), mailer)

	sent, err := s.Sweep(context.Background())
	if err != nil {
		t.Fatalf("per-item problems must not abort the sweep: %v", err)
	}
	if sent != 0 || len(mailer.sent) != 0 {
		t.Errorf("sent = %d, emails = %d, want 0", sent, len(mailer.sent))
	}
}

func TestSweep_SendFailureLeavesBookingUnflagged(t *testing.T) {
	mailer := &fakeMailer{err: errMailDown}
	bookings := newFakeBookingStore(completedBooking("stale", 30*time.Hour))
	s := newTestReminder(bookings, mailer)

	sent, err := s.Sweep(context.Background())
	if err != nil {
		t.Fatalf("Sweep returned error: %v", err)
	}
	if sent != 0 {
		t.Errorf("sent = %d, want 0", sent)
	}
	if bookings.bookings["stale"].ReminderSent {
		t.Error("booking flagged even though the send failed")
	}
}

func TestParseFlexibleDate(t *testing.T) {
	tests := []struct {
		value string
		ok    bool
	}{
		{"2026-08-25T10:30:00Z", true},
		{"2026-08-25T10:30:00", true},
		{"2026-08-25 10:30:00", true},
		{"2026-08-25", true},
		{"25/08/2026", false},
		{"", false},
	}
	for _, tt := range tests {
		if _, ok := parseFlexibleDate(tt.value); ok != tt.ok {
			t.Errorf("parseFlexibleDate(%q) ok = %v, want %v", tt.value, ok, tt.ok)
		}
	}
}
