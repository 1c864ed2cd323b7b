package handlers

import (
	"net/http"

	"github.com/gofiber/fiber/v2"

	"github.com/spec-kit/marketplace-service/internal/api/dto"
	"github.com/spec-kit/marketplace-service/internal/service"
)

// AccountHandler exposes profile and storefront management.
type AccountHandler struct {
	accounts *service.AccountService
}

// NewAccountHandler constructs handler.
func NewAccountHandler(accounts *service.AccountService) *AccountHandler {
	return &AccountHandler{accounts: accounts}
}

// Profile GET /auth/account.
func (h *AccountHandler) Profile(c *fiber.Ctx) error {
	user, err := currentUser(c)
	if err != nil {
		return err
	}
	profile, err := h.accounts.Profile(c.UserContext(), user)
	if err != nil {
		return err
	}
	return respond(c, http.StatusOK, dto.NewProfileResponse(profile))
}

// UpdateProfile PUT /auth/account.
func (h *AccountHandler) UpdateProfile(c *fiber.Ctx) error {
	user, err := currentUser(c)
	if err != nil {
		return err
	}
	var req dto.UpdateProfileRequest
	if err := parseBody(c, &req); err != nil {
		return err
	}
	updated, err := h.accounts.UpdateProfile(c.UserContext(), user, service.UpdateProfileInput{
		Username:  req.Username,
		Email:     req.Email,
		FirstName: req.FirstName,
		LastName:  req.LastName,
		Bio:       req.Bio,
		Website:   req.Website,
	})
	if err != nil {
		return err
	}
	return respond(c, http.StatusOK, dto.NewUserResponse(updated))
}

// UploadProfilePicture POST /auth/account/profile-pic (multipart "file").
func (h *AccountHandler) UploadProfilePicture(c *fiber.Ctx) error {
	user, err := currentUser(c)
	if err != nil {
		return err
	}
	obj, file, err := requireImage(c, "file")
	if err != nil {
		return err
	}
	defer file.Close()

	url, err := h.accounts.UploadProfilePicture(c.UserContext(), user, obj)
	if err != nil {
		return err
	}
	return respond(c, http.StatusOK, dto.UploadResponse{URL: url})
}

// CreateArtistProfile POST /auth/profile.
func (h *AccountHandler) CreateArtistProfile(c *fiber.Ctx) error {
	user, err := currentUser(c)
	if err != nil {
		return err
	}
	var req dto.CreateArtistProfileRequest
	if err := parseBody(c, &req); err != nil {
		return err
	}
	profile, err := h.accounts.CreateArtistProfile(c.UserContext(), user, req.StoreName, req.About)
	if err != nil {
		return err
	}
	return respond(c, http.StatusCreated, dto.NewArtistProfileResponse(profile))
}

// UpdateArtistProfile PUT /auth/profile.
func (h *AccountHandler) UpdateArtistProfile(c *fiber.Ctx) error {
	user, err := currentUser(c)
	if err != nil {
		return err
	}
	var req dto.UpdateArtistProfileRequest
	if err := parseBody(c, &req); err != nil {
		return err
	}
	profile, err := h.accounts.UpdateArtistProfile(c.UserContext(), user, service.UpdateArtistProfileInput{
		StoreName:     req.StoreName,
		About:         req.About,
		PaymentAPIKey: req.PaymentAPIKey,
	})
	if err != nil {
		return err
	}
	return respond(c, http.StatusOK, dto.NewArtistProfileResponse(profile))
}

// UploadBanner POST /auth/profile/banner-pic (multipart "file").
func (h *AccountHandler) UploadBanner(c *fiber.Ctx) error {
	user, err := currentUser(c)
	if err != nil {
		return err
	}
	obj, file, err := requireImage(c, "file")
	if err != nil {
		return err
	}
	defer file.Close()

	url, err := h.accounts.UploadBanner(c.UserContext(), user, obj)
	if err != nil {
		return err
	}
	return respond(c, http.StatusOK, dto.UploadResponse{URL: url})
}
