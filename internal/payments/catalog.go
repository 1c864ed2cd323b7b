package payments

import (
	"context"
	"errors"
	"fmt"
	"strings"

	paddle "github.com/PaddleHQ/paddle-go-sdk/v4"
)

// ErrMissingAPIKey is returned when the seller never configured a provider key.
var ErrMissingAPIKey = errors.New("payments: seller has no api key")

// Product is what the provider catalog needs to know about a listing.
type Product struct {
	ID          string
	Name        string
	Description string
	Active      bool
}

// Catalog mirrors marketplace products into the payment provider.
type Catalog interface {
	CreateProduct(ctx context.Context, apiKey string, product Product) (string, error)
	UpdateProduct(ctx context.Context, apiKey, providerID string, product Product) error
}

// ProductsAPI is implemented by *paddle.ProductsClient.
type ProductsAPI interface {
	CreateProduct(ctx context.Context, req *paddle.CreateProductRequest) (*paddle.Product, error)
	UpdateProduct(ctx context.Context, req *paddle.UpdateProductRequest) (*paddle.Product, error)
}

// PaddleCatalog talks to Paddle with the seller's own api key.
type PaddleCatalog struct {
	connect func(apiKey string) (ProductsAPI, error)
}

// NewPaddleCatalog selects the sandbox or live API.
func NewPaddleCatalog(environment string) (*PaddleCatalog, error) {
	var connect func(string) (*paddle.SDK, error)
	switch strings.ToLower(environment) {
	case "sandbox":
		connect = func(key string) (*paddle.SDK, error) { return paddle.NewSandbox(key) }
	case "production", "":
		connect = func(key string) (*paddle.SDK, error) { return paddle.New(key) }
	default:
		return nil, fmt.Errorf("invalid paddle environment: %s", environment)
	}
	return &PaddleCatalog{
		connect: func(key string) (ProductsAPI, error) {
			sdk, err := connect(key)
			if err != nil {
				return nil, err
			}
			return sdk.ProductsClient, nil
		},
	}, nil
}

// CreateProduct returns the provider product id.
func (p *PaddleCatalog) CreateProduct(ctx context.Context, apiKey string, product Product) (string, error) {
	client, err := p.client(apiKey)
	if err != nil {
		return "", err
	}
	req := &paddle.CreateProductRequest{
		Name:        product.Name,
		TaxCategory: paddle.TaxCategoryStandard,
		CustomData:  paddle.CustomData{"marketplace_product_id": product.ID},
	}
	if product.Description != "" {
		req.Description = paddle.PtrTo(product.Description)
	}
	created, err := client.CreateProduct(ctx, req)
	if err != nil {
		return "", fmt.Errorf("create paddle product: %w", err)
	}
	return created.ID, nil
}

// UpdateProduct pushes name, description and status.
func (p *PaddleCatalog) UpdateProduct(ctx context.Context, apiKey, providerID string, product Product) error {
	client, err := p.client(apiKey)
	if err != nil {
		return err
	}
	status := paddle.StatusArchived
	if product.Active {
		status = paddle.StatusActive
	}
	_, err = client.UpdateProduct(ctx, &paddle.UpdateProductRequest{
		ProductID:   providerID,
		Name:        paddle.NewPatchField(product.Name),
		Description: paddle.NewPatchField(paddle.PtrTo(product.Description)),
		Status:      paddle.NewPatchField(status),
	})
	if err != nil {
		return fmt.Errorf("update paddle product %s: %w", providerID, err)
	}
	return nil
}

func (p *PaddleCatalog) client(apiKey string) (ProductsAPI, error) {
	if strings.TrimSpace(apiKey) == "" {
		return nil, ErrMissingAPIKey
	}
	client, err := p.connect(apiKey)
	if err != nil {
		return nil, fmt.Errorf("failed to create paddle client: %w", err)
	}
	return client, nil
}
