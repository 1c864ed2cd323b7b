package handlers

import (
	"net/http"

	"github.com/gofiber/fiber/v2"

	"github.com/spec-kit/marketplace-service/internal/api/dto"
	"github.com/spec-kit/marketplace-service/internal/service"
)

// FavoriteHandler exposes bookmarked products.
type FavoriteHandler struct {
	favorites *service.FavoriteService
}

// NewFavoriteHandler constructs handler.
func NewFavoriteHandler(favorites *service.FavoriteService) *FavoriteHandler {
	return &FavoriteHandler{favorites: favorites}
}

// List GET /api/favorites.
func (h *FavoriteHandler) List(c *fiber.Ctx) error {
	user, err := currentUser(c)
	if err != nil {
		return err
	}
	items, err := h.favorites.List(c.UserContext(), user.ID)
	if err != nil {
		return err
	}
	return respond(c, http.StatusOK, dto.NewProductResponses(items))
}

// Add POST /api/favorites.
func (h *FavoriteHandler) Add(c *fiber.Ctx) error {
	user, err := currentUser(c)
	if err != nil {
		return err
	}
	var req dto.FavoriteRequest
	if err := parseBody(c, &req); err != nil {
		return err
	}
	if err := h.favorites.Add(c.UserContext(), user.ID, req.ProductID); err != nil {
		return err
	}
	return message(c, http.StatusCreated, "favorite created")
}

// Remove DELETE /api/favorites.
func (h *FavoriteHandler) Remove(c *fiber.Ctx) error {
	user, err := currentUser(c)
	if err != nil {
		return err
	}
	var req dto.FavoriteRequest
	if err := parseBody(c, &req); err != nil {
		return err
	}
	if err := h.favorites.Remove(c.UserContext(), user.ID, req.ProductID); err != nil {
		return err
	}
	return message(c, http.StatusOK, "favorite removed")
}
