package services

import (
	"fmt"
	"strings"

	"marketplace-app/internal/models"
)

// Announcement parsing. Legacy status updates arrive as free text like
// "Booking booking-42 status has been updated. New Status: PAID". This file
// converts them into StatusChangedEvent at the boundary so the routing core
// only ever sees structured input.

// ExtractBookingID pulls a booking id out of announcement text. The token
// after a literal "Booking" wins; otherwise the first token with a
// "booking-" prefix. Trailing punctuation is stripped.
func ExtractBookingID(message string) (string, bool) {
	words := strings.Fields(message)

	var id string
	for i, w := range words {
		if w == "Booking" && i+1 < len(words) {
			id = words[i+1]
			break
		}
	}
	if id == "" {
		for _, w := range words {
			if strings.HasPrefix(w, "booking-") {
				id = w
				break
			}
		}
	}
	if id == "" {
		return "", false
	}
	id = strings.Trim(id, ".,")
	if id == "" {
		return "", false
	}
	return id, true
}

// ClassifyAnnouncement resolves the announced status by substring match on
// the uppercased text. Order matters: the explicit "NEW STATUS:" phrases are
// checked first, then CANCELLED before CONFIRMED so a message carrying both
// resolves to cancelled.
func ClassifyAnnouncement(message string) (models.BookingStatus, bool) {
	upper := strings.ToUpper(message)
	switch {
	case strings.Contains(upper, "NEW STATUS: COMPLETED"):
		return models.StatusCompleted, true
	case strings.Contains(upper, "NEW STATUS: PAID"):
		return models.StatusPaid, true
	case strings.Contains(upper, "CANCELLED"):
		return models.StatusCancelled, true
	case strings.Contains(upper, "CONFIRMED"):
		return models.StatusConfirmed, true
	case strings.Contains(upper, "IN_PROGRESS"):
		return models.StatusInProgress, true
	}
	return "", false
}

// ParseAnnouncement converts announcement text into a structured event.
func ParseAnnouncement(message string) (models.StatusChangedEvent, error) {
	id, ok := ExtractBookingID(message)
	if !ok {
		return models.StatusChangedEvent{}, fmt.Errorf("announcement names no booking id: %q", message)
	}
	status, ok := ClassifyAnnouncement(message)
	if !ok {
		return models.StatusChangedEvent{}, fmt.Errorf("announcement for %s names no recognized status", id)
	}
	return models.StatusChangedEvent{BookingID: id, NewStatus: status}, nil
}
