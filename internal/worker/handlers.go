package worker

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"

	"go.uber.org/zap"

	"github.com/spec-kit/marketplace-service/internal/domain"
	"github.com/spec-kit/marketplace-service/internal/notify"
	"github.com/spec-kit/marketplace-service/internal/payments"
)

// SendEmail delivers notify.Email payloads.
func SendEmail(sender notify.Sender) HandlerFunc {
	return func(ctx context.Context, payload json.RawMessage) error {
		var email notify.Email
		if err := json.Unmarshal(payload, &email); err != nil {
			return fmt.Errorf("decode email: %w", err)
		}
		return sender.Send(ctx, email)
	}
}

// ProductStore is what product sync needs from persistence.
type ProductStore interface {
	GetByID(ctx context.Context, id string) (*domain.Product, error)
	SetProviderProductID(ctx context.Context, id, providerID string) error
}

// ArtistStore loads the owning artist.
type ArtistStore interface {
	GetByID(ctx context.Context, id string) (*domain.ArtistProfile, error)
}

// KeyOpener decrypts stored payment keys.
type KeyOpener interface {
	Open(payload []byte) (string, error)
}

// ProductSync mirrors products into the payment provider catalog.
type ProductSync struct {
	products ProductStore
	artists  ArtistStore
	keys     KeyOpener
	catalog  payments.Catalog
	logger   *zap.Logger
}

// NewProductSync wires the sync handler.
func NewProductSync(products ProductStore, artists ArtistStore, keys KeyOpener, catalog payments.Catalog, logger *zap.Logger) *ProductSync {
	return &ProductSync{products: products, artists: artists, keys: keys, catalog: catalog, logger: logger}
}

// Handle creates the provider product on first sync and updates it afterwards.
// Products that were deleted, or whose seller has no api key, are skipped.
func (s *ProductSync) Handle(ctx context.Context, payload json.RawMessage) error {
	var req SyncProductPayload
	if err := json.Unmarshal(payload, &req); err != nil {
		return fmt.Errorf("decode sync payload: %w", err)
	}

	product, err := s.products.GetByID(ctx, req.ProductID)
	if errors.Is(err, domain.ErrNotFound) {
		s.logger.Info("product gone, skipping sync", zap.String("product_id", req.ProductID))
		return nil
	}
	if err != nil {
		return err
	}

	artist, err := s.artists.GetByID(ctx, product.ArtistID)
	if err != nil {
		return fmt.Errorf("load artist %s: %w", product.ArtistID, err)
	}
	if !artist.HasPaymentKey() {
		s.logger.Info("seller has no payment key, skipping sync",
			zap.String("product_id", product.ID), zap.String("artist_id", artist.ID))
		return nil
	}
	apiKey, err := s.keys.Open(artist.PaymentKeyEncrypted)
	if err != nil {
		return fmt.Errorf("open payment key: %w", err)
	}

	item := payments.Product{
		ID:          product.ID,
		Name:        product.Name,
		Description: product.Description,
		Active:      product.IsActive,
	}
	if product.ProviderProductID != nil && *product.ProviderProductID != "" {
		return s.catalog.UpdateProduct(ctx, apiKey, *product.ProviderProductID, item)
	}

	providerID, err := s.catalog.CreateProduct(ctx, apiKey, item)
	if err != nil {
		return err
	}
	return s.products.SetProviderProductID(ctx, product.ID, providerID)
}
