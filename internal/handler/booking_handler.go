package handler

import (
	"errors"
	"net/http"

	"marketplace-app/internal/models"
	"marketplace-app/internal/services"

	"github.com/gin-gonic/gin"
)

type BookingHandler struct {
	service *services.BookingService
}

func NewBookingHandler(service *services.BookingService) *BookingHandler {
	return &BookingHandler{service: service}
}

func (h *BookingHandler) CreateBooking(c *gin.Context) {
	var booking models.Booking
	if err := c.ShouldBindJSON(&booking); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid input"})
		return
	}

	if err := h.service.CreateBooking(c.Request.Context(), &booking); err != nil {
		if errors.Is(err, models.ErrValidation) {
			c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
			return
		}
		c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
		return
	}

	c.JSON(http.StatusCreated, gin.H{
		"message":       "Booking created successfully",
		"booking_id":    booking.BookingID,
		"provider_name": booking.ProviderName,
	})
}

// GetBookings lists by customerId or providerId; one of the two is required.
func (h *BookingHandler) GetBookings(c *gin.Context) {
	customerID := c.Query("customerId")
	providerID := c.Query("providerId")
	if customerID == "" && providerID == "" {
		c.JSON(http.StatusBadRequest, gin.H{"error": "customerId or providerId is required"})
		return
	}

	var (
		bookings []models.Booking
		err      error
	)
	if customerID != "" {
		bookings, err = h.service.GetByCustomer(c.Request.Context(), customerID)
	} else {
		bookings, err = h.service.GetByProvider(c.Request.Context(), providerID)
	}
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "could not fetch bookings"})
		return
	}
	if bookings == nil {
		bookings = []models.Booking{}
	}
	c.JSON(http.StatusOK, gin.H{"bookings": bookings})
}

type updateStatusRequest struct {
	Status    models.BookingStatus `json:"status" binding:"required"`
	UpdatedBy string               `json:"updated_by"`
}

func (h *BookingHandler) UpdateStatus(c *gin.Context) {
	bookingID := c.Param("id")

	var req updateStatusRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "bookingId and status are required"})
		return
	}

	err := h.service.UpdateStatus(c.Request.Context(), bookingID, req.Status, req.UpdatedBy)
	switch {
	case err == nil:
		c.JSON(http.StatusOK, gin.H{
			"message":    "Booking status updated",
			"booking_id": bookingID,
			"status":     req.Status,
		})
	case errors.Is(err, models.ErrValidation), errors.Is(err, models.ErrInvalidStatus):
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
	case errors.Is(err, models.ErrNotFound):
		c.JSON(http.StatusNotFound, gin.H{"error": "Booking not found"})
	default:
		c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
	}
}
