package service

import (
	"context"
	"errors"
	"strings"

	"go.uber.org/zap"

	"github.com/spec-kit/marketplace-service/internal/domain"
	"github.com/spec-kit/marketplace-service/internal/repository"
	"github.com/spec-kit/marketplace-service/internal/slug"
	"github.com/spec-kit/marketplace-service/internal/storage"
	"github.com/spec-kit/marketplace-service/pkg/util/errorutil"
)

// KeySealer encrypts seller payment keys before they are stored.
type KeySealer interface {
	Seal(plaintext string) ([]byte, error)
}

// UpdateProfileInput carries optional profile fields; blank values are ignored.
type UpdateProfileInput struct {
	Username  *string
	Email     *string
	FirstName *string
	LastName  *string
	Bio       *string
	Website   *string
}

// UpdateArtistProfileInput carries optional storefront fields.
type UpdateArtistProfileInput struct {
	StoreName     *string
	About         *string
	PaymentAPIKey *string
}

// AccountService manages user profiles and seller storefronts.
type AccountService struct {
	users    repository.UserRepository
	artists  repository.ArtistProfileRepository
	uploader storage.Uploader
	sealer   KeySealer
	logger   *zap.Logger
}

// AccountDependencies bundles collaborators for AccountService.
type AccountDependencies struct {
	UserRepo   repository.UserRepository
	ArtistRepo repository.ArtistProfileRepository
	Uploader   storage.Uploader
	Sealer     KeySealer
	Logger     *zap.Logger
}

// NewAccountService builds the service.
func NewAccountService(deps AccountDependencies) *AccountService {
	return &AccountService{
		users:    deps.UserRepo,
		artists:  deps.ArtistRepo,
		uploader: deps.Uploader,
		sealer:   deps.Sealer,
		logger:   deps.Logger,
	}
}

// Profile returns the seller variant when user is an artist with a storefront,
// and the buyer variant otherwise.
func (s *AccountService) Profile(ctx context.Context, user *domain.User) (domain.Profile, error) {
	if !user.IsArtist {
		return domain.NewBuyerProfile(user), nil
	}
	artist, err := s.artists.GetByUserID(ctx, user.ID)
	if errors.Is(err, domain.ErrNotFound) {
		return domain.NewBuyerProfile(user), nil
	}
	if err != nil {
		return domain.Profile{}, err
	}
	return domain.NewSellerProfile(user, artist), nil
}

// UpdateProfile applies the non-blank fields of in.
func (s *AccountService) UpdateProfile(ctx context.Context, user *domain.User, in UpdateProfileInput) (*domain.User, error) {
	updated := *user
	setIfPresent(&updated.Username, in.Username)
	if in.Email != nil && strings.TrimSpace(*in.Email) != "" {
		email, err := normalizeEmail(*in.Email)
		if err != nil {
			return nil, err
		}
		updated.Email = email
	}
	setIfPresent(&updated.FirstName, in.FirstName)
	setIfPresent(&updated.LastName, in.LastName)
	setIfPresent(&updated.Bio, in.Bio)
	setIfPresent(&updated.Website, in.Website)

	if err := s.users.Update(ctx, &updated); err != nil {
		if errors.Is(err, domain.ErrConflict) {
			return nil, errorutil.NewConflict("username or email already in use", nil)
		}
		return nil, err
	}
	return &updated, nil
}

// UploadProfilePicture stores the image and records its URL on the user.
func (s *AccountService) UploadProfilePicture(ctx context.Context, user *domain.User, obj storage.Object) (string, error) {
	obj.Folder = storage.FolderProfilePictures
	url, err := s.upload(ctx, obj)
	if err != nil {
		return "", err
	}
	updated := *user
	updated.ProfilePictureURL = url
	if err := s.users.Update(ctx, &updated); err != nil {
		return "", err
	}
	return url, nil
}

// CreateArtistProfile opens a storefront for a seller. A seller has at most one.
func (s *AccountService) CreateArtistProfile(ctx context.Context, user *domain.User, storeName, about string) (*domain.ArtistProfile, error) {
	storeName = strings.TrimSpace(storeName)
	if storeName == "" {
		return nil, errorutil.NewValidationError("store name is required", map[string]any{"field": "store_name"})
	}
	if _, err := s.artists.GetByUserID(ctx, user.ID); err == nil {
		return nil, errorutil.NewConflict("artist profile already exists", nil)
	} else if !errors.Is(err, domain.ErrNotFound) {
		return nil, err
	}

	storeSlug, err := slug.Unique(slug.Make(storeName), func(candidate string) (bool, error) {
		return s.artists.SlugExists(ctx, candidate)
	})
	if err != nil {
		return nil, err
	}

	profile := &domain.ArtistProfile{
		UserID:    user.ID,
		StoreName: storeName,
		Slug:      storeSlug,
		About:     strings.TrimSpace(about),
	}
	if err := s.artists.Create(ctx, profile); err != nil {
		if errors.Is(err, domain.ErrConflict) {
			return nil, errorutil.NewConflict("artist profile already exists", nil)
		}
		return nil, err
	}
	s.logger.Info("artist profile created", zap.String("user_id", user.ID), zap.String("slug", profile.Slug))
	return profile, nil
}

// UpdateArtistProfile applies storefront changes; a payment key is encrypted before storage.
func (s *AccountService) UpdateArtistProfile(ctx context.Context, user *domain.User, in UpdateArtistProfileInput) (*domain.ArtistProfile, error) {
	profile, err := s.artistFor(ctx, user.ID)
	if err != nil {
		return nil, err
	}
	setIfPresent(&profile.StoreName, in.StoreName)
	setIfPresent(&profile.About, in.About)
	if in.PaymentAPIKey != nil && strings.TrimSpace(*in.PaymentAPIKey) != "" {
		sealed, err := s.sealer.Seal(strings.TrimSpace(*in.PaymentAPIKey))
		if err != nil {
			return nil, err
		}
		profile.PaymentKeyEncrypted = sealed
	}
	if err := s.artists.Update(ctx, profile); err != nil {
		return nil, err
	}
	return profile, nil
}

// UploadBanner stores the storefront banner.
func (s *AccountService) UploadBanner(ctx context.Context, user *domain.User, obj storage.Object) (string, error) {
	profile, err := s.artistFor(ctx, user.ID)
	if err != nil {
		return "", err
	}
	obj.Folder = storage.FolderBanners
	url, err := s.upload(ctx, obj)
	if err != nil {
		return "", err
	}
	profile.BannerImageURL = url
	if err := s.artists.Update(ctx, profile); err != nil {
		return "", err
	}
	return url, nil
}

func (s *AccountService) artistFor(ctx context.Context, userID string) (*domain.ArtistProfile, error) {
	profile, err := s.artists.GetByUserID(ctx, userID)
	if err != nil {
		return nil, notFound("artist profile", err)
	}
	return profile, nil
}

func (s *AccountService) upload(ctx context.Context, obj storage.Object) (string, error) {
	return uploadImage(ctx, s.uploader, obj)
}

// uploadImage rejects non-image content and maps storage failures to 503.
func uploadImage(ctx context.Context, uploader storage.Uploader, obj storage.Object) (string, error) {
	if obj.Body == nil {
		return "", errorutil.NewValidationError("file is required", map[string]any{"field": "file"})
	}
	if !strings.HasPrefix(obj.ContentType, "image/") {
		return "", errorutil.NewValidationError("file must be an image", map[string]any{"content_type": obj.ContentType})
	}
	url, err := uploader.Upload(ctx, obj)
	if errors.Is(err, storage.ErrDisabled) {
		return "", errorutil.NewServiceUnavailable("image uploads are not configured")
	}
	if err != nil {
		return "", err
	}
	return url, nil
}
