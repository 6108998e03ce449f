package services

import (
	"testing"

	"marketplace-app/internal/models"
)

func TestExtractBookingID(t *testing.T) {
	tests := []struct {
		message string
		want    string
		ok      bool
	}{
		{"Booking abc-123 status has been updated.", "abc-123", true},
		{"Booking booking-42 update. New Status: PAID", "booking-42", true},
		{"Status changed for booking-7.", "booking-7", true},
		{"Update for booking-9, please check", "booking-9", true},
		{"Nothing useful in here", "", false},
		{"Booking", "", false},
		{"", "", false},
	}

	for _, tt := range tests {
		got, ok := ExtractBookingID(tt.message)
		if ok != tt.ok || got != tt.want {
			t.Errorf("ExtractBookingID(%q) = (%q, %v), want (%q, %v)", tt.message, got, ok, tt.want, tt.ok)
		}
	}
}

func TestClassifyAnnouncement(t *testing.T) {
	tests := []struct {
		message string
		want    models.BookingStatus
		ok      bool
	}{
		{"Booking b1 update. New Status: COMPLETED", models.StatusCompleted, true},
		{"Booking b1 update. new status: paid", models.StatusPaid, true},
		{"Booking b1 is now CONFIRMED", models.StatusConfirmed, true},
		{"Booking b1 moved to IN_PROGRESS", models.StatusInProgress, true},
		{"Booking b1 CANCELLED", models.StatusCancelled, true},
		// cancelled wins when both keywords appear
		{"CONFIRMED earlier but now CANCELLED", models.StatusCancelled, true},
		{"Booking b1 archived", "", false},
	}

	for _, tt := range tests {
		got, ok := ClassifyAnnouncement(tt.message)
		if ok != tt.ok || got != tt.want {
			t.Errorf("ClassifyAnnouncement(%q) = (%q, %v), want (%q, %v)", tt.message, got, ok, tt.want, tt.ok)
		}
	}
}

func TestParseAnnouncement(t *testing.T) {
	ev, err := ParseAnnouncement("Booking booking-42 update. New Status: PAID")
	if err != nil {
		t.Fatalf("ParseAnnouncement returned error: %v", err)
	}
	if ev.BookingID != "booking-42" || ev.NewStatus != models.StatusPaid {
		t.Errorf("ParseAnnouncement = %+v, want booking-42/paid", ev)
	}

	if _, err := ParseAnnouncement("no id in this text"); err == nil {
		t.Error("expected error for announcement without id")
	}
	if _, err := ParseAnnouncement("Booking b1 archived"); err == nil {
		t.Error("expected error for announcement without status")
	}
}
