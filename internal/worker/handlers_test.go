package worker

import (
	"context"
	"encoding/json"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap/zaptest"

	"github.com/spec-kit/marketplace-service/internal/domain"
	"github.com/spec-kit/marketplace-service/internal/notify"
	"github.com/spec-kit/marketplace-service/internal/payments"
)

type recordingSender struct {
	sent []notify.Email
}

func (s *recordingSender) Send(_ context.Context, email notify.Email) error {
	s.sent = append(s.sent, email)
	return nil
}

func TestSendEmailHandler(t *testing.T) {
	sender := &recordingSender{}
	payload, err := json.Marshal(notify.Email{To: "a@b.c", Subject: "Hi", TextBody: "body"})
	require.NoError(t, err)

	require.NoError(t, SendEmail(sender)(context.Background(), payload))
	require.Len(t, sender.sent, 1)
	assert.Equal(t, "a@b.c", sender.sent[0].To)

	assert.Error(t, SendEmail(sender)(context.Background(), json.RawMessage(`{`)))
}

type fakeProducts struct {
	product    *domain.Product
	providerID string
}

func (f *fakeProducts) GetByID(_ context.Context, id string) (*domain.Product, error) {
	if f.product == nil || f.product.ID != id {
		return nil, domain.ErrNotFound
	}
	return f.product, nil
}

func (f *fakeProducts) SetProviderProductID(_ context.Context, _ string, providerID string) error {
	f.providerID = providerID
	return nil
}

type fakeArtists struct {
	artist *domain.ArtistProfile
}

func (f *fakeArtists) GetByID(context.Context, string) (*domain.ArtistProfile, error) {
	if f.artist == nil {
		return nil, domain.ErrNotFound
	}
	return f.artist, nil
}

type plainOpener struct{}

func (plainOpener) Open(payload []byte) (string, error) {
	if string(payload) == "bad" {
		return "", errors.New("invalid")
	}
	return "key:" + string(payload), nil
}

type fakeCatalog struct {
	createdWith string
	updatedID   string
	updated     payments.Product
}

func (f *fakeCatalog) CreateProduct(_ context.Context, apiKey string, _ payments.Product) (string, error) {
	f.createdWith = apiKey
	return "pro_123", nil
}

func (f *fakeCatalog) UpdateProduct(_ context.Context, _ string, providerID string, product payments.Product) error {
	f.updatedID = providerID
	f.updated = product
	return nil
}

func syncPayload(t *testing.T, id string) json.RawMessage {
	t.Helper()
	raw, err := json.Marshal(SyncProductPayload{ProductID: id})
	require.NoError(t, err)
	return raw
}

func TestProductSyncCreates(t *testing.T) {
	products := &fakeProducts{product: &domain.Product{ID: "p-1", ArtistID: "a-1", Name: "Vase", IsActive: true}}
	catalog := &fakeCatalog{}
	sync := NewProductSync(products, &fakeArtists{artist: &domain.ArtistProfile{ID: "a-1", PaymentKeyEncrypted: []byte("sealed")}},
		plainOpener{}, catalog, zaptest.NewLogger(t))

	require.NoError(t, sync.Handle(context.Background(), syncPayload(t, "p-1")))
	assert.Equal(t, "key:sealed", catalog.createdWith)
	assert.Equal(t, "pro_123", products.providerID)
}

func TestProductSyncUpdatesExisting(t *testing.T) {
	providerID := "pro_9"
	products := &fakeProducts{product: &domain.Product{ID: "p-1", ArtistID: "a-1", Name: "Vase", ProviderProductID: &providerID}}
	catalog := &fakeCatalog{}
	sync := NewProductSync(products, &fakeArtists{artist: &domain.ArtistProfile{ID: "a-1", PaymentKeyEncrypted: []byte("sealed")}},
		plainOpener{}, catalog, zaptest.NewLogger(t))

	require.NoError(t, sync.Handle(context.Background(), syncPayload(t, "p-1")))
	assert.Equal(t, "pro_9", catalog.updatedID)
	assert.False(t, catalog.updated.Active)
	assert.Empty(t, catalog.createdWith)
}

func TestProductSyncSkips(t *testing.T) {
	catalog := &fakeCatalog{}
	logger := zaptest.NewLogger(t)

	gone := NewProductSync(&fakeProducts{}, &fakeArtists{}, plainOpener{}, catalog, logger)
	assert.NoError(t, gone.Handle(context.Background(), syncPayload(t, "missing")))

	noKey := NewProductSync(&fakeProducts{product: &domain.Product{ID: "p-1", ArtistID: "a-1"}},
		&fakeArtists{artist: &domain.ArtistProfile{ID: "a-1"}}, plainOpener{}, catalog, logger)
	assert.NoError(t, noKey.Handle(context.Background(), syncPayload(t, "p-1")))

	assert.Empty(t, catalog.createdWith)
	assert.Empty(t, catalog.updatedID)
}

func TestProductSyncKeyFailure(t *testing.T) {
	sync := NewProductSync(&fakeProducts{product: &domain.Product{ID: "p-1", ArtistID: "a-1"}},
		&fakeArtists{artist: &domain.ArtistProfile{ID: "a-1", PaymentKeyEncrypted: []byte("bad")}},
		plainOpener{}, &fakeCatalog{}, zaptest.NewLogger(t))
	assert.Error(t, sync.Handle(context.Background(), syncPayload(t, "p-1")))
}
