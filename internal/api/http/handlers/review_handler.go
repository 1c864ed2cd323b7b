package handlers

import (
	"net/http"

	"github.com/gofiber/fiber/v2"

	"github.com/spec-kit/marketplace-service/internal/api/dto"
	"github.com/spec-kit/marketplace-service/internal/service"
)

// ReviewHandler exposes product reviews.
type ReviewHandler struct {
	reviews *service.ReviewService
}

// NewReviewHandler constructs handler.
func NewReviewHandler(reviews *service.ReviewService) *ReviewHandler {
	return &ReviewHandler{reviews: reviews}
}

// SellerReviews GET /api/reviews/seller.
func (h *ReviewHandler) SellerReviews(c *fiber.Ctx) error {
	user, err := currentUser(c)
	if err != nil {
		return err
	}
	items, err := h.reviews.SellerReviews(c.UserContext(), user.ID)
	if err != nil {
		return err
	}
	return respond(c, http.StatusOK, dto.NewReviewResponses(items))
}

// ProductReviews GET /api/reviews/product/:id.
func (h *ReviewHandler) ProductReviews(c *fiber.Ctx) error {
	items, err := h.reviews.ProductReviews(c.UserContext(), c.Params("id"))
	if err != nil {
		return err
	}
	return respond(c, http.StatusOK, dto.NewReviewResponses(items))
}

// MyProductReviews GET /api/reviews/product/:id/buyer.
func (h *ReviewHandler) MyProductReviews(c *fiber.Ctx) error {
	user, err := currentUser(c)
	if err != nil {
		return err
	}
	items, err := h.reviews.MyProductReviews(c.UserContext(), user.ID, c.Params("id"))
	if err != nil {
		return err
	}
	return respond(c, http.StatusOK, dto.NewReviewResponses(items))
}

// Get GET /api/reviews/:id.
func (h *ReviewHandler) Get(c *fiber.Ctx) error {
	user, err := currentUser(c)
	if err != nil {
		return err
	}
	review, err := h.reviews.Get(c.UserContext(), user.ID, c.Params("id"))
	if err != nil {
		return err
	}
	return respond(c, http.StatusOK, dto.NewReviewResponse(review))
}

// Create POST /api/reviews.
func (h *ReviewHandler) Create(c *fiber.Ctx) error {
	user, err := currentUser(c)
	if err != nil {
		return err
	}
	var req dto.CreateReviewRequest
	if err := parseBody(c, &req); err != nil {
		return err
	}
	review, err := h.reviews.Create(c.UserContext(), user.ID, req.ProductID, req.Rating, req.Comment)
	if err != nil {
		return err
	}
	return respond(c, http.StatusCreated, dto.NewReviewResponse(review))
}

// Update PUT /api/reviews/:id.
func (h *ReviewHandler) Update(c *fiber.Ctx) error {
	user, err := currentUser(c)
	if err != nil {
		return err
	}
	var req dto.UpdateReviewRequest
	if err := parseBody(c, &req); err != nil {
		return err
	}
	review, err := h.reviews.Update(c.UserContext(), user.ID, c.Params("id"), req.Rating, req.Comment)
	if err != nil {
		return err
	}
	return respond(c, http.StatusOK, dto.NewReviewResponse(review))
}

// Delete DELETE /api/reviews/:id.
func (h *ReviewHandler) Delete(c *fiber.Ctx) error {
	user, err := currentUser(c)
	if err != nil {
		return err
	}
	if err := h.reviews.Delete(c.UserContext(), user.ID, c.Params("id")); err != nil {
		return err
	}
	return message(c, http.StatusOK, "review deleted successfully")
}
