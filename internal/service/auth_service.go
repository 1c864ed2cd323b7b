package service

import (
	"context"
	"errors"
	"net/http"
	"net/url"
	"strings"
	"time"

	"go.uber.org/zap"

	"github.com/spec-kit/marketplace-service/internal/auth"
	"github.com/spec-kit/marketplace-service/internal/config"
	"github.com/spec-kit/marketplace-service/internal/domain"
	"github.com/spec-kit/marketplace-service/internal/events"
	"github.com/spec-kit/marketplace-service/internal/repository"
	"github.com/spec-kit/marketplace-service/pkg/util/errorutil"
)

// LoginScope restricts which role may use a login endpoint.
type LoginScope int

const (
	LoginAnyRole LoginScope = iota
	LoginBuyer
	LoginSeller
)

// LoginResult is returned after successful authentication.
type LoginResult struct {
	Token     string
	ExpiresAt time.Time
	User      *domain.User
}

// CreateAccountInput is the payload for account creation.
type CreateAccountInput struct {
	Username        string
	Password        string
	ConfirmPassword string
	IsArtist        bool
}

// AuthService coordinates registration, password and login flows.
type AuthService struct {
	users      repository.UserRepository
	tokens     *auth.TokenManager
	verifier   *auth.CredentialVerifier
	dispatcher events.Dispatcher
	logger     *zap.Logger
	cfg        config.AuthConfig
	links      config.LinksConfig
}

// AuthDependencies encapsulates requirements for auth service.
type AuthDependencies struct {
	UserRepo   repository.UserRepository
	Tokens     *auth.TokenManager
	Dispatcher events.Dispatcher
	Logger     *zap.Logger
}

// NewAuthService builds the service.
func NewAuthService(cfg config.Config, deps AuthDependencies) *AuthService {
	return &AuthService{
		users:      deps.UserRepo,
		tokens:     deps.Tokens,
		verifier:   auth.NewCredentialVerifier(deps.UserRepo, cfg.Auth.BcryptCost),
		dispatcher: deps.Dispatcher,
		logger:     deps.Logger,
		cfg:        cfg.Auth,
		links:      cfg.Links,
	}
}

// RequestVerification mails a link carrying an email_verification token bound to email.
// Sellers and buyers are sent to different frontends.
func (s *AuthService) RequestVerification(ctx context.Context, email string, seller bool) (string, error) {
	email, err := normalizeEmail(email)
	if err != nil {
		return "", err
	}
	if _, err := s.users.GetByEmail(ctx, email); err == nil {
		return "", errorutil.NewConflict("a user with the same email address already exists", nil)
	} else if !errors.Is(err, domain.ErrNotFound) {
		return "", err
	}

	token, _, err := s.tokens.Issue(email, auth.PurposeEmailVerification, s.cfg.VerificationTokenTTL)
	if err != nil {
		return "", err
	}
	link := s.frontendFor(seller) + "/auth/create-account?verification_token=" + url.QueryEscape(token)

	event := events.New(events.EventVerificationRequested, email, nil, events.VerificationRequestedPayload{
		Email:  email,
		Seller: seller,
		Link:   link,
	})
	if err := s.dispatcher.Publish(ctx, event); err != nil {
		return "", err
	}
	return email, nil
}

// CreateAccount consumes an email_verification token and creates the user it names.
func (s *AuthService) CreateAccount(ctx context.Context, verificationToken string, in CreateAccountInput) (*domain.User, error) {
	claims, err := s.tokens.VerifyFor(verificationToken, auth.PurposeEmailVerification)
	if err != nil {
		return nil, auth.HTTPError(err)
	}

	username := strings.TrimSpace(in.Username)
	if username == "" {
		return nil, errorutil.NewValidationError("username is required", map[string]any{"field": "username"})
	}
	if err := checkNewPassword(in.Password, in.ConfirmPassword); err != nil {
		return nil, err
	}

	exists, err := s.users.ExistsByUsernameOrEmail(ctx, username, claims.Subject)
	if err != nil {
		return nil, err
	}
	if exists {
		return nil, errorutil.NewConflict("username or email already exists", nil)
	}

	hash, err := auth.HashPassword(in.Password, s.cfg.BcryptCost)
	if err != nil {
		return nil, err
	}
	user := &domain.User{
		Username:     username,
		Email:        claims.Subject,
		PasswordHash: hash,
		IsActive:     true,
		IsArtist:     in.IsArtist,
	}
	if err := s.users.Create(ctx, user); err != nil {
		if errors.Is(err, domain.ErrConflict) {
			return nil, errorutil.NewConflict("username or email already exists", nil)
		}
		return nil, err
	}
	s.logger.Info("account created", zap.String("user_id", user.ID), zap.Bool("is_artist", user.IsArtist))
	return user, nil
}

// RequestPasswordReset mails a password_reset token to an active account.
func (s *AuthService) RequestPasswordReset(ctx context.Context, email string) (string, error) {
	email, err := normalizeEmail(email)
	if err != nil {
		return "", err
	}
	user, err := s.users.GetByEmail(ctx, email)
	if errors.Is(err, domain.ErrNotFound) {
		return "", errorutil.NewBadRequest("the email address provided does not exist")
	}
	if err != nil {
		return "", err
	}
	if !user.IsActive {
		return "", errorutil.NewBadRequest("you must be an active user to be able to reset password")
	}

	token, _, err := s.tokens.Issue(user.ID, auth.PurposePasswordReset, s.cfg.PasswordResetTTL)
	if err != nil {
		return "", err
	}
	// The frontend page collects the new password and POSTs it to /auth/update_password.
	link := s.frontendFor(user.IsArtist) + "/auth/update-password?reset_token=" + url.QueryEscape(token)

	event := events.New(events.EventPasswordResetRequested, user.ID, nil, events.PasswordResetRequestedPayload{
		UserID: user.ID,
		Email:  user.Email,
		Link:   link,
	})
	if err := s.dispatcher.Publish(ctx, event); err != nil {
		return "", err
	}
	return email, nil
}

// ConfirmPasswordReset consumes a password_reset token and stores the new password.
func (s *AuthService) ConfirmPasswordReset(ctx context.Context, resetToken, password, confirm string) error {
	claims, err := s.tokens.VerifyFor(resetToken, auth.PurposePasswordReset)
	if err != nil {
		return auth.HTTPError(err)
	}
	if err := checkNewPassword(password, confirm); err != nil {
		return err
	}

	user, err := s.users.GetByID(ctx, claims.Subject)
	if err != nil {
		return notFound("account", err)
	}
	if !user.IsActive {
		return errorutil.NewBadRequest("you must be an active user to be able to reset password")
	}
	return s.setPassword(ctx, user, password)
}

// ChangePassword verifies the current password before storing a new one.
func (s *AuthService) ChangePassword(ctx context.Context, userID, current, password, confirm string) error {
	user, err := s.users.GetByID(ctx, userID)
	if err != nil {
		return notFound("account", err)
	}
	if err := auth.ComparePassword(user.PasswordHash, current); err != nil {
		return errorutil.NewDomainError("INVALID_CREDENTIALS", "current password is incorrect", http.StatusUnauthorized, nil)
	}
	if err := checkNewPassword(password, confirm); err != nil {
		return err
	}
	return s.setPassword(ctx, user, password)
}

// Login verifies credentials and issues a login token. Buyer and seller scoped
// logins reject the other role with the same message as a wrong password.
func (s *AuthService) Login(ctx context.Context, username, password string, scope LoginScope) (*LoginResult, error) {
	user, err := s.verifier.Verify(ctx, strings.TrimSpace(username), password)
	if err != nil {
		return nil, auth.HTTPError(err)
	}
	if !user.IsActive {
		return nil, errorutil.NewDomainError("INACTIVE_ACCOUNT", "inactive account, contact administrator", http.StatusUnauthorized, nil)
	}
	if (scope == LoginBuyer && user.IsArtist) || (scope == LoginSeller && !user.IsArtist) {
		return nil, auth.HTTPError(auth.ErrInvalidCredentials)
	}

	token, claims, err := s.tokens.Issue(user.ID, auth.PurposeLogin, s.cfg.AccessTokenTTL)
	if err != nil {
		return nil, err
	}
	return &LoginResult{Token: token, ExpiresAt: claims.ExpiresAt, User: user}, nil
}

func (s *AuthService) setPassword(ctx context.Context, user *domain.User, password string) error {
	hash, err := auth.HashPassword(password, s.cfg.BcryptCost)
	if err != nil {
		return err
	}
	user.PasswordHash = hash
	if err := s.users.Update(ctx, user); err != nil {
		return err
	}
	s.logger.Info("password updated", zap.String("user_id", user.ID))
	return nil
}

// frontendFor returns the base URL of the buyer or seller frontend.
func (s *AuthService) frontendFor(seller bool) string {
	if seller {
		return strings.TrimSuffix(s.links.SellerFrontendURL, "/")
	}
	return strings.TrimSuffix(s.links.BuyerFrontendURL, "/")
}

func checkNewPassword(password, confirm string) error {
	if err := auth.ValidatePassword(password); err != nil {
		return errorutil.NewValidationError(err.Error(), map[string]any{"field": "password"})
	}
	if password != confirm {
		return errorutil.NewValidationError("passwords provided did not match", map[string]any{"field": "confirm_password"})
	}
	return nil
}
