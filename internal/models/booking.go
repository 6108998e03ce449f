package models

import (
	"errors"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

type BookingStatus string

const (
	StatusPending             BookingStatus = "pending"
	StatusPendingConfirmation BookingStatus = "pending_confirmation"
	StatusConfirmed           BookingStatus = "confirmed"
	StatusInProgress          BookingStatus = "in_progress"
	StatusCompleted           BookingStatus = "completed"
	StatusCancelled           BookingStatus = "cancelled"
	StatusPaid                BookingStatus = "paid"
)

// ValidStatuses is the closed set accepted by the status-update endpoint.
var ValidStatuses = []BookingStatus{
	StatusPendingConfirmation,
	StatusConfirmed,
	StatusInProgress,
	StatusCompleted,
	StatusCancelled,
	StatusPaid,
}

func (s BookingStatus) Valid() bool {
	for _, v := range ValidStatuses {
		if s == v {
			return true
		}
	}
	return false
}

// Booking is the snapshot taken at creation time: customer, provider and
// service fields are denormalized so notifications never need a join.
// ServicePrice stays a string to keep the exact decimal from the request.
// Date fields are strings because scheduled_date arrives from clients in
// more than one format; the reminder sweep parses them best-effort.
type Booking struct {
	ID              primitive.ObjectID `bson:"_id,omitempty" json:"-"`
	BookingID       string             `bson:"booking_id" json:"booking_id"`
	CustomerID      string             `bson:"customer_id" json:"customer_id"`
	CustomerName    string             `bson:"customer_name" json:"customer_name"`
	CustomerEmail   string             `bson:"customer_email" json:"customer_email"`
	CustomerPhone   string             `bson:"customer_phone" json:"customer_phone"`
	CustomerAddress string             `bson:"customer_address" json:"customer_address"`
	ProviderID      string             `bson:"provider_id" json:"provider_id"`
	ProviderName    string             `bson:"provider_name" json:"provider_name"`
	ServiceID       string             `bson:"service_id" json:"service_id"`
	ServiceName     string             `bson:"service_name" json:"service_name"`
	ServicePrice    string             `bson:"service_price" json:"service_price"`
	ScheduledDate   string             `bson:"scheduled_date" json:"scheduled_date"`
	Notes           string             `bson:"notes,omitempty" json:"notes,omitempty"`
	Status          BookingStatus      `bson:"status" json:"status"`
	IsReviewed      bool               `bson:"is_reviewed" json:"is_reviewed"`
	ReminderSent    bool               `bson:"reminder_sent" json:"reminder_sent"`
	CreatedAt       string             `bson:"created_at" json:"created_at"`
	UpdatedAt       string             `bson:"updated_at,omitempty" json:"updated_at,omitempty"`
	UpdatedBy       string             `bson:"updated_by,omitempty" json:"updated_by,omitempty"`
}

func (b *Booking) Validate() error {
	if b.CustomerID == "" || b.ProviderID == "" || b.ServiceID == "" || b.ScheduledDate == "" {
		return errors.New("missing required booking fields")
	}
	return nil
}
