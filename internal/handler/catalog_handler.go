package handler

import (
	"net/http"
	"strconv"
	"strings"

	"marketplace-app/internal/models"
	"marketplace-app/internal/repository"
	"marketplace-app/internal/services"

	"github.com/gin-gonic/gin"
)

// CatalogHandler serves the read-only marketplace surface: service search
// and provider review summaries.
type CatalogHandler struct {
	serviceRepo *repository.ServiceRepository
	reviewRepo  *repository.ReviewRepository
}

func NewCatalogHandler(serviceRepo *repository.ServiceRepository, reviewRepo *repository.ReviewRepository) *CatalogHandler {
	return &CatalogHandler{serviceRepo: serviceRepo, reviewRepo: reviewRepo}
}

func (h *CatalogHandler) SearchServices(c *gin.Context) {
	category := c.Query("category")
	if category == "" {
		c.JSON(http.StatusBadRequest, gin.H{"error": "category is required"})
		return
	}

	var maxPrice *float64
	if raw := c.Query("maxPrice"); raw != "" {
		p, err := strconv.ParseFloat(raw, 64)
		if err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": "invalid maxPrice"})
			return
		}
		maxPrice = &p
	}

	found, err := h.serviceRepo.Search(c.Request.Context(), category, maxPrice)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "could not search services"})
		return
	}

	location := strings.ToLower(c.Query("location"))
	filtered := make([]models.Service, 0, len(found))
	for _, svc := range found {
		if svc.Availability != "available" {
			continue
		}
		if location != "" && !strings.Contains(strings.ToLower(svc.ProviderName), location) {
			continue
		}
		filtered = append(filtered, svc)
	}

	c.JSON(http.StatusOK, gin.H{"services": filtered, "count": len(filtered)})
}

// GetProviderReviews summarizes a provider's full review history: count,
// 1-decimal average and the individual ratings.
func (h *CatalogHandler) GetProviderReviews(c *gin.Context) {
	providerID := c.Query("providerId")
	if providerID == "" {
		c.JSON(http.StatusBadRequest, gin.H{"error": "providerId is required"})
		return
	}

	reviews, err := h.reviewRepo.GetByProviderID(c.Request.Context(), providerID)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "could not fetch reviews"})
		return
	}

	var average float64
	if len(reviews) > 0 {
		sum := 0
		for _, r := range reviews {
			sum += r.Rating
		}
		average = services.Round1(float64(sum) / float64(len(reviews)))
	}

	type reviewEntry struct {
		Rating    int    `json:"rating"`
		Comment   string `json:"comment,omitempty"`
		CreatedAt string `json:"created_at"`
	}
	entries := make([]reviewEntry, 0, len(reviews))
	for _, r := range reviews {
		entries = append(entries, reviewEntry{Rating: r.Rating, Comment: r.Comment, CreatedAt: r.CreatedAt})
	}

	c.JSON(http.StatusOK, gin.H{
		"provider_id":    providerID,
		"review_count":   len(reviews),
		"average_rating": average,
		"reviews":        entries,
	})
}
