package handlers

import (
	"fmt"
	"net/http"

	"github.com/gofiber/fiber/v2"

	"github.com/spec-kit/marketplace-service/internal/api/dto"
	"github.com/spec-kit/marketplace-service/internal/auth"
	"github.com/spec-kit/marketplace-service/internal/service"
	apperrors "github.com/spec-kit/marketplace-service/pkg/util/errorutil"
)

// AuthHandler exposes registration, password and login endpoints.
type AuthHandler struct {
	auth *service.AuthService
}

// NewAuthHandler constructs handler.
func NewAuthHandler(authService *service.AuthService) *AuthHandler {
	return &AuthHandler{auth: authService}
}

// BuyerVerification handles POST /auth/email-verification-buyer.
func (h *AuthHandler) BuyerVerification(c *fiber.Ctx) error {
	return h.verification(c, false)
}

// SellerVerification handles POST /auth/email-verification-seller.
func (h *AuthHandler) SellerVerification(c *fiber.Ctx) error {
	return h.verification(c, true)
}

func (h *AuthHandler) verification(c *fiber.Ctx, seller bool) error {
	var req dto.EmailVerificationRequest
	if err := parseBody(c, &req); err != nil {
		return err
	}
	email, err := h.auth.RequestVerification(c.UserContext(), req.Email, seller)
	if err != nil {
		return err
	}
	return message(c, http.StatusAccepted, fmt.Sprintf("a verification email has been sent to %s", email))
}

// CreateAccount handles POST /auth/account?verification_token=.
func (h *AuthHandler) CreateAccount(c *fiber.Ctx) error {
	token := c.Query("verification_token")
	if token == "" {
		return apperrors.NewValidationError("verification_token required", map[string]any{"field": "verification_token"})
	}
	var req dto.CreateAccountRequest
	if err := parseBody(c, &req); err != nil {
		return err
	}
	user, err := h.auth.CreateAccount(c.UserContext(), token, service.CreateAccountInput{
		Username:        req.Username,
		Password:        req.Password,
		ConfirmPassword: req.ConfirmPassword,
		IsArtist:        req.IsArtist,
	})
	if err != nil {
		return err
	}
	return respond(c, http.StatusCreated, dto.NewUserResponse(user))
}

// RequestPasswordReset handles POST /auth/request-password-reset.
func (h *AuthHandler) RequestPasswordReset(c *fiber.Ctx) error {
	var req dto.PasswordResetRequest
	if err := parseBody(c, &req); err != nil {
		return err
	}
	email, err := h.auth.RequestPasswordReset(c.UserContext(), req.Email)
	if err != nil {
		return err
	}
	return message(c, http.StatusAccepted, fmt.Sprintf("a password reset email has been sent to %s", email))
}

// ConfirmPasswordReset handles POST /auth/update_password?reset_token=.
func (h *AuthHandler) ConfirmPasswordReset(c *fiber.Ctx) error {
	token := c.Query("reset_token")
	if token == "" {
		return apperrors.NewValidationError("reset_token required", map[string]any{"field": "reset_token"})
	}
	var req dto.SetPasswordRequest
	if err := parseBody(c, &req); err != nil {
		return err
	}
	if err := h.auth.ConfirmPasswordReset(c.UserContext(), token, req.Password, req.ConfirmPassword); err != nil {
		return err
	}
	return message(c, http.StatusOK, "password updated successfully")
}

// ChangePassword handles POST /auth/change-password.
func (h *AuthHandler) ChangePassword(c *fiber.Ctx) error {
	ac, err := auth.MustFromCtx(c)
	if err != nil {
		return err
	}
	var req dto.ChangePasswordRequest
	if err := parseBody(c, &req); err != nil {
		return err
	}
	if err := h.auth.ChangePassword(c.UserContext(), ac.UserID(), req.CurrentPassword, req.Password, req.ConfirmPassword); err != nil {
		return err
	}
	return message(c, http.StatusOK, "password updated successfully")
}

// Login handles POST /auth/login.
func (h *AuthHandler) Login(c *fiber.Ctx) error {
	return h.login(c, service.LoginAnyRole)
}

// LoginBuyer handles POST /auth/login-buyer.
func (h *AuthHandler) LoginBuyer(c *fiber.Ctx) error {
	return h.login(c, service.LoginBuyer)
}

// LoginSeller handles POST /auth/login-seller.
func (h *AuthHandler) LoginSeller(c *fiber.Ctx) error {
	return h.login(c, service.LoginSeller)
}

func (h *AuthHandler) login(c *fiber.Ctx, scope service.LoginScope) error {
	var req dto.LoginRequest
	if err := parseBody(c, &req); err != nil {
		return err
	}
	if req.Username == "" || req.Password == "" {
		return apperrors.NewValidationError("username and password required", nil)
	}
	result, err := h.auth.Login(c.UserContext(), req.Username, req.Password, scope)
	if err != nil {
		return err
	}
	return respond(c, http.StatusOK, dto.AuthResponse{
		Token:     result.Token,
		ExpiresAt: result.ExpiresAt,
		ID:        result.User.ID,
		Username:  result.User.Username,
		IsArtist:  result.User.IsArtist,
	})
}
