package dto

import (
	"time"

	"github.com/spec-kit/marketplace-service/internal/domain"
)

// EmailVerificationRequest starts buyer or seller registration.
type EmailVerificationRequest struct {
	Email string `json:"email"`
}

// CreateAccountRequest completes registration with a verification token.
type CreateAccountRequest struct {
	Username        string `json:"username"`
	Password        string `json:"password"`
	ConfirmPassword string `json:"confirm_password"`
	IsArtist        bool   `json:"is_artist"`
}

// PasswordResetRequest payload.
type PasswordResetRequest struct {
	Email string `json:"email"`
}

// SetPasswordRequest confirms a reset.
type SetPasswordRequest struct {
	Password        string `json:"password"`
	ConfirmPassword string `json:"confirm_password"`
}

// ChangePasswordRequest payload for authenticated users.
type ChangePasswordRequest struct {
	CurrentPassword string `json:"current_password"`
	Password        string `json:"password"`
	ConfirmPassword string `json:"confirm_password"`
}

// LoginRequest payload for login.
type LoginRequest struct {
	Username string `json:"username"`
	Password string `json:"password"`
}

// AuthResponse is returned by every login endpoint.
type AuthResponse struct {
	Token     string    `json:"token"`
	ExpiresAt time.Time `json:"expires_at"`
	ID        string    `json:"id"`
	Username  string    `json:"username"`
	IsArtist  bool      `json:"is_artist"`
}

// UpdateProfileRequest carries optional profile fields.
type UpdateProfileRequest struct {
	Username  *string `json:"username"`
	Email     *string `json:"email"`
	FirstName *string `json:"first_name"`
	LastName  *string `json:"last_name"`
	Bio       *string `json:"bio"`
	Website   *string `json:"website"`
}

// CreateArtistProfileRequest payload.
type CreateArtistProfileRequest struct {
	StoreName string `json:"store_name"`
	About     string `json:"about"`
}

// UpdateArtistProfileRequest carries optional storefront fields.
type UpdateArtistProfileRequest struct {
	StoreName     *string `json:"store_name"`
	About         *string `json:"about"`
	PaymentAPIKey *string `json:"payment_api_key"`
}

// UserResponse is the public view of a user.
type UserResponse struct {
	ID                string    `json:"id"`
	Username          string    `json:"username"`
	Email             string    `json:"email"`
	FirstName         string    `json:"first_name"`
	LastName          string    `json:"last_name"`
	Bio               string    `json:"bio"`
	Website           string    `json:"website"`
	ProfilePictureURL string    `json:"profile_picture"`
	IsArtist          bool      `json:"is_artist"`
	IsActive          bool      `json:"is_active"`
	CreatedAt         time.Time `json:"created_at"`
}

// ArtistProfileResponse is the public view of a storefront.
type ArtistProfileResponse struct {
	ID               string `json:"id"`
	StoreName        string `json:"store_name"`
	Slug             string `json:"slug"`
	About            string `json:"about"`
	BannerImageURL   string `json:"banner_image"`
	PaymentKeyStored bool   `json:"payment_key_configured"`
}

// ProfileResponse is the tagged buyer/seller variant.
type ProfileResponse struct {
	Kind   domain.ProfileKind     `json:"kind"`
	User   UserResponse           `json:"user"`
	Artist *ArtistProfileResponse `json:"artist,omitempty"`
}

// UploadResponse reports the stored image location.
type UploadResponse struct {
	URL string `json:"url"`
}

func NewUserResponse(u *domain.User) UserResponse {
	return UserResponse{
		ID:                u.ID,
		Username:          u.Username,
		Email:             u.Email,
		FirstName:         u.FirstName,
		LastName:          u.LastName,
		Bio:               u.Bio,
		Website:           u.Website,
		ProfilePictureURL: u.ProfilePictureURL,
		IsArtist:          u.IsArtist,
		IsActive:          u.IsActive,
		CreatedAt:         u.CreatedAt,
	}
}

func NewArtistProfileResponse(a *domain.ArtistProfile) ArtistProfileResponse {
	return ArtistProfileResponse{
		ID:               a.ID,
		StoreName:        a.StoreName,
		Slug:             a.Slug,
		About:            a.About,
		BannerImageURL:   a.BannerImageURL,
		PaymentKeyStored: a.HasPaymentKey(),
	}
}

// NewProfileResponse renders a profile; the payment key itself is never exposed.
func NewProfileResponse(p domain.Profile) ProfileResponse {
	resp := ProfileResponse{Kind: p.Kind, User: NewUserResponse(p.User)}
	if p.Kind == domain.ProfileKindSeller && p.Artist != nil {
		artist := NewArtistProfileResponse(p.Artist)
		resp.Artist = &artist
	}
	return resp
}
