package handler

import (
	"errors"
	"net/http"

	"marketplace-app/internal/models"
	"marketplace-app/internal/services"

	"github.com/gin-gonic/gin"
)

type ReviewHandler struct {
	service *services.ReviewService
}

func NewReviewHandler(service *services.ReviewService) *ReviewHandler {
	return &ReviewHandler{service: service}
}

func (h *ReviewHandler) SubmitReview(c *gin.Context) {
	var input services.SubmitReviewInput
	if err := c.ShouldBindJSON(&input); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid input"})
		return
	}

	review, err := h.service.Submit(c.Request.Context(), input)
	switch {
	case err == nil:
		c.JSON(http.StatusOK, gin.H{
			"message":   "Review submitted and service updated",
			"review_id": review.ReviewID,
		})
	case errors.Is(err, models.ErrValidation):
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
	case errors.Is(err, models.ErrNotFound):
		c.JSON(http.StatusNotFound, gin.H{"error": "Booking not found"})
	default:
		c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
	}
}
