package handlers

import (
	"net/http"

	"github.com/gofiber/fiber/v2"

	"github.com/spec-kit/marketplace-service/internal/api/dto"
	"github.com/spec-kit/marketplace-service/internal/service"
)

// AnalyticsHandler exposes catalog statistics to sellers.
type AnalyticsHandler struct {
	analytics *service.AnalyticsService
}

// NewAnalyticsHandler constructs handler.
func NewAnalyticsHandler(analytics *service.AnalyticsService) *AnalyticsHandler {
	return &AnalyticsHandler{analytics: analytics}
}

// ProductsPerCategory GET /api/analytics/products-count-per-category.
func (h *AnalyticsHandler) ProductsPerCategory(c *fiber.Ctx) error {
	rows, err := h.analytics.ProductsPerCategory(c.UserContext())
	if err != nil {
		return err
	}
	return respond(c, http.StatusOK, dto.NewCategoryProductCountResponses(rows))
}

// ProductRatings GET /api/analytics/product-ratings.
func (h *AnalyticsHandler) ProductRatings(c *fiber.Ctx) error {
	rows, err := h.analytics.ProductRatings(c.UserContext())
	if err != nil {
		return err
	}
	return respond(c, http.StatusOK, dto.NewProductRatingResponses(rows))
}

// ProductFavorites GET /api/analytics/product-favorites.
func (h *AnalyticsHandler) ProductFavorites(c *fiber.Ctx) error {
	rows, err := h.analytics.ProductFavorites(c.UserContext())
	if err != nil {
		return err
	}
	return respond(c, http.StatusOK, dto.NewProductFavoritesResponses(rows))
}

// Summary GET /api/analytics/summary.
func (h *AnalyticsHandler) Summary(c *fiber.Ctx) error {
	summary, err := h.analytics.Summary(c.UserContext())
	if err != nil {
		return err
	}
	return respond(c, http.StatusOK, dto.NewSummaryResponse(summary))
}
