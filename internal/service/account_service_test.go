package service

import (
	"context"
	"net/http"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap/zaptest"

	"github.com/spec-kit/marketplace-service/internal/domain"
	"github.com/spec-kit/marketplace-service/internal/secrets"
	"github.com/spec-kit/marketplace-service/internal/storage"
)

func newAccountService(t *testing.T, h *harness) (*AccountService, *secrets.Cipher) {
	t.Helper()
	cipher, err := secrets.NewCipher("credentials-key")
	require.NoError(t, err)
	return NewAccountService(AccountDependencies{
		UserRepo:   h.users,
		ArtistRepo: h.artists,
		Uploader:   h.uploader,
		Sealer:     cipher,
		Logger:     zaptest.NewLogger(t),
	}), cipher
}

func png(name string) storage.Object {
	return storage.Object{Filename: name, ContentType: "image/png", Size: 3, Body: strings.NewReader("png")}
}

func TestProfileVariants(t *testing.T) {
	h := newHarness(t)
	svc, _ := newAccountService(t, h)
	ctx := context.Background()
	buyer := h.addUser(t, "buyer", "password123", true, false)
	seller := h.addUser(t, "seller", "password123", true, true)

	profile, err := svc.Profile(ctx, buyer)
	require.NoError(t, err)
	assert.Equal(t, domain.ProfileKindBuyer, profile.Kind)
	assert.Nil(t, profile.Artist)

	// A seller without a storefront still gets the buyer shape.
	profile, err = svc.Profile(ctx, seller)
	require.NoError(t, err)
	assert.Equal(t, domain.ProfileKindBuyer, profile.Kind)

	_, err = svc.CreateArtistProfile(ctx, seller, "Clay Works", "pots")
	require.NoError(t, err)
	profile, err = svc.Profile(ctx, seller)
	require.NoError(t, err)
	assert.Equal(t, domain.ProfileKindSeller, profile.Kind)
	require.NotNil(t, profile.Artist)
	assert.Equal(t, "clay-works", profile.Artist.Slug)
}

func TestUpdateProfile(t *testing.T) {
	h := newHarness(t)
	svc, _ := newAccountService(t, h)
	alice := h.addUser(t, "alice", "password123", true, false)
	h.addUser(t, "bob", "password123", true, false)

	first, blank := "Alice", " "
	updated, err := svc.UpdateProfile(context.Background(), alice, UpdateProfileInput{FirstName: &first, Bio: &blank})
	require.NoError(t, err)
	assert.Equal(t, "Alice", updated.FirstName)
	assert.Equal(t, "", updated.Bio)
	assert.Equal(t, "alice", updated.Username)

	taken := "bob"
	_, err = svc.UpdateProfile(context.Background(), alice, UpdateProfileInput{Username: &taken})
	requireDomainError(t, err, "CONFLICT", http.StatusConflict)

	bad := "nope"
	_, err = svc.UpdateProfile(context.Background(), alice, UpdateProfileInput{Email: &bad})
	requireDomainError(t, err, "VALIDATION_FAILED", http.StatusBadRequest)
}

func TestUploadProfilePicture(t *testing.T) {
	h := newHarness(t)
	svc, _ := newAccountService(t, h)
	alice := h.addUser(t, "alice", "password123", true, false)

	url, err := svc.UploadProfilePicture(context.Background(), alice, png("me.png"))
	require.NoError(t, err)
	assert.Contains(t, url, storage.FolderProfilePictures)
	stored, err := h.users.GetByID(context.Background(), alice.ID)
	require.NoError(t, err)
	assert.Equal(t, url, stored.ProfilePictureURL)

	_, err = svc.UploadProfilePicture(context.Background(), alice, storage.Object{ContentType: "text/plain", Body: strings.NewReader("x")})
	requireDomainError(t, err, "VALIDATION_FAILED", http.StatusBadRequest)

	h.uploader.err = storage.ErrDisabled
	_, err = svc.UploadProfilePicture(context.Background(), alice, png("me.png"))
	requireDomainError(t, err, "SERVICE_UNAVAILABLE", http.StatusServiceUnavailable)
}

func TestCreateArtistProfile(t *testing.T) {
	h := newHarness(t)
	svc, _ := newAccountService(t, h)
	ctx := context.Background()
	one := h.addUser(t, "one", "password123", true, true)
	two := h.addUser(t, "two", "password123", true, true)

	first, err := svc.CreateArtistProfile(ctx, one, "Café Noir", "")
	require.NoError(t, err)
	assert.Equal(t, "cafe-noir", first.Slug)

	second, err := svc.CreateArtistProfile(ctx, two, "Cafe Noir", "")
	require.NoError(t, err)
	assert.Equal(t, "cafe-noir-2", second.Slug)

	_, err = svc.CreateArtistProfile(ctx, one, "Again", "")
	requireDomainError(t, err, "CONFLICT", http.StatusConflict)

	_, err = svc.CreateArtistProfile(ctx, two, "  ", "")
	requireDomainError(t, err, "VALIDATION_FAILED", http.StatusBadRequest)
}

func TestUpdateArtistProfileSealsPaymentKey(t *testing.T) {
	h := newHarness(t)
	svc, cipher := newAccountService(t, h)
	ctx := context.Background()
	seller := h.addUser(t, "seller", "password123", true, true)

	about, key := "new about", "pdl_sdbx_apikey"
	_, err := svc.UpdateArtistProfile(ctx, seller, UpdateArtistProfileInput{About: &about})
	requireDomainError(t, err, "NOT_FOUND", http.StatusNotFound)

	_, err = svc.CreateArtistProfile(ctx, seller, "Shop", "old")
	require.NoError(t, err)
	profile, err := svc.UpdateArtistProfile(ctx, seller, UpdateArtistProfileInput{About: &about, PaymentAPIKey: &key})
	require.NoError(t, err)
	assert.Equal(t, "new about", profile.About)
	assert.Equal(t, "shop", profile.Slug)
	require.True(t, profile.HasPaymentKey())
	assert.NotContains(t, string(profile.PaymentKeyEncrypted), key)

	plain, err := cipher.Open(profile.PaymentKeyEncrypted)
	require.NoError(t, err)
	assert.Equal(t, key, plain)
}

func TestUploadBanner(t *testing.T) {
	h := newHarness(t)
	svc, _ := newAccountService(t, h)
	ctx := context.Background()
	seller := h.addUser(t, "seller", "password123", true, true)

	_, err := svc.UploadBanner(ctx, seller, png("b.png"))
	requireDomainError(t, err, "NOT_FOUND", http.StatusNotFound)

	_, err = svc.CreateArtistProfile(ctx, seller, "Shop", "")
	require.NoError(t, err)
	url, err := svc.UploadBanner(ctx, seller, png("b.png"))
	require.NoError(t, err)
	assert.Contains(t, url, storage.FolderBanners)

	stored, err := h.artists.GetByUserID(ctx, seller.ID)
	require.NoError(t, err)
	assert.Equal(t, url, stored.BannerImageURL)
}
