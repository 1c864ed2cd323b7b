package service

import (
	"context"
	"math"
	"strings"

	"go.uber.org/zap"

	"github.com/spec-kit/marketplace-service/internal/domain"
	"github.com/spec-kit/marketplace-service/internal/events"
	"github.com/spec-kit/marketplace-service/internal/repository"
	"github.com/spec-kit/marketplace-service/internal/storage"
	"github.com/spec-kit/marketplace-service/pkg/util/errorutil"
)

// CreateProductInput describes a new listing.
type CreateProductInput struct {
	Name        string
	Description string
	Price       float64
	Stock       int
	CategoryID  string
	Image       storage.Object
}

// UpdateProductInput carries optional listing changes.
type UpdateProductInput struct {
	Name        *string
	Description *string
	Price       *float64
	Stock       *int
	IsActive    *bool
	CategoryID  *string
	Image       *storage.Object
}

// CatalogService coordinates categories, products and storefronts.
type CatalogService struct {
	products   repository.ProductRepository
	categories repository.CategoryRepository
	artists    repository.ArtistProfileRepository
	uploader   storage.Uploader
	dispatcher events.Dispatcher
	logger     *zap.Logger
}

// CatalogDependencies bundles collaborators for CatalogService.
type CatalogDependencies struct {
	ProductRepo  repository.ProductRepository
	CategoryRepo repository.CategoryRepository
	ArtistRepo   repository.ArtistProfileRepository
	Uploader     storage.Uploader
	Dispatcher   events.Dispatcher
	Logger       *zap.Logger
}

// NewCatalogService builds the service.
func NewCatalogService(deps CatalogDependencies) *CatalogService {
	return &CatalogService{
		products:   deps.ProductRepo,
		categories: deps.CategoryRepo,
		artists:    deps.ArtistRepo,
		uploader:   deps.Uploader,
		dispatcher: deps.Dispatcher,
		logger:     deps.Logger,
	}
}

func (s *CatalogService) ListCategories(ctx context.Context) ([]domain.Category, error) {
	return s.categories.List(ctx)
}

func (s *CatalogService) ListProducts(ctx context.Context) ([]domain.Product, error) {
	return s.products.List(ctx, repository.ProductFilter{})
}

// FilterProducts returns active products matching search by name and, unless
// category is empty or "all", the category slug.
func (s *CatalogService) FilterProducts(ctx context.Context, search, category string) ([]domain.Product, error) {
	filter := repository.ProductFilter{ActiveOnly: true}
	if term := strings.TrimSpace(search); term != "" {
		filter.SearchTerm = &term
	}
	if c := strings.TrimSpace(category); c != "" && !strings.EqualFold(c, "all") {
		filter.CategorySlug = &c
	}
	return s.products.List(ctx, filter)
}

func (s *CatalogService) ProductsByCategory(ctx context.Context) ([]domain.CategoryWithProducts, error) {
	return s.categories.ListWithProducts(ctx)
}

// Store returns a storefront and its products by slug.
func (s *CatalogService) Store(ctx context.Context, storeSlug string) (*domain.Store, error) {
	artist, err := s.artists.GetBySlug(ctx, strings.TrimSpace(storeSlug))
	if err != nil {
		return nil, notFound("store", err)
	}
	products, err := s.products.List(ctx, repository.ProductFilter{ArtistID: &artist.ID})
	if err != nil {
		return nil, err
	}
	return &domain.Store{Artist: *artist, Products: products}, nil
}

func (s *CatalogService) GetProduct(ctx context.Context, productID string) (*domain.Product, error) {
	id, err := parseID("product_id", productID)
	if err != nil {
		return nil, err
	}
	product, err := s.products.GetByID(ctx, id)
	if err != nil {
		return nil, notFound("product", err)
	}
	return product, nil
}

// SellerProducts lists the products of the caller's storefront.
func (s *CatalogService) SellerProducts(ctx context.Context, userID string) ([]domain.Product, error) {
	artist, err := s.artistFor(ctx, userID)
	if err != nil {
		return nil, err
	}
	return s.products.List(ctx, repository.ProductFilter{ArtistID: &artist.ID})
}

// CreateProduct lists a new product and schedules its payment-provider sync.
func (s *CatalogService) CreateProduct(ctx context.Context, userID string, in CreateProductInput) (*domain.Product, error) {
	artist, err := s.artistFor(ctx, userID)
	if err != nil {
		return nil, err
	}

	name := strings.TrimSpace(in.Name)
	if name == "" {
		return nil, errorutil.NewValidationError("name is required", map[string]any{"field": "name"})
	}
	if err := checkPriceAndStock(in.Price, in.Stock); err != nil {
		return nil, err
	}
	categoryID, err := s.resolveCategory(ctx, in.CategoryID)
	if err != nil {
		return nil, err
	}
	in.Image.Folder = storage.FolderProducts
	imageURL, err := uploadImage(ctx, s.uploader, in.Image)
	if err != nil {
		return nil, err
	}

	product := &domain.Product{
		ArtistID:    artist.ID,
		CategoryID:  &categoryID,
		Name:        name,
		Description: strings.TrimSpace(in.Description),
		Price:       in.Price,
		Stock:       in.Stock,
		IsActive:    true,
		ImageURL:    imageURL,
	}
	if err := s.products.Create(ctx, product); err != nil {
		return nil, err
	}
	s.publish(ctx, events.EventProductCreated, userID, product)
	return product, nil
}

// UpdateProduct applies changes to a product owned by the caller.
func (s *CatalogService) UpdateProduct(ctx context.Context, userID, productID string, in UpdateProductInput) (*domain.Product, error) {
	product, err := s.ownedProduct(ctx, userID, productID)
	if err != nil {
		return nil, err
	}

	if in.Name != nil {
		name := strings.TrimSpace(*in.Name)
		if name == "" {
			return nil, errorutil.NewValidationError("name cannot be empty", map[string]any{"field": "name"})
		}
		product.Name = name
	}
	if in.Description != nil {
		product.Description = strings.TrimSpace(*in.Description)
	}
	if in.Price != nil {
		product.Price = *in.Price
	}
	if in.Stock != nil {
		product.Stock = *in.Stock
	}
	if err := checkPriceAndStock(product.Price, product.Stock); err != nil {
		return nil, err
	}
	if in.IsActive != nil {
		product.IsActive = *in.IsActive
	}
	if in.CategoryID != nil {
		categoryID, err := s.resolveCategory(ctx, *in.CategoryID)
		if err != nil {
			return nil, err
		}
		product.CategoryID = &categoryID
	}
	if in.Image != nil {
		in.Image.Folder = storage.FolderProducts
		imageURL, err := uploadImage(ctx, s.uploader, *in.Image)
		if err != nil {
			return nil, err
		}
		product.ImageURL = imageURL
	}

	if err := s.products.Update(ctx, product); err != nil {
		return nil, notFound("product", err)
	}
	s.publish(ctx, events.EventProductUpdated, userID, product)
	return product, nil
}

// DeleteProduct removes a product owned by the caller.
func (s *CatalogService) DeleteProduct(ctx context.Context, userID, productID string) error {
	artist, err := s.artistFor(ctx, userID)
	if err != nil {
		return err
	}
	id, err := parseID("product_id", productID)
	if err != nil {
		return err
	}
	if err := s.products.Delete(ctx, artist.ID, id); err != nil {
		return notFound("product", err)
	}
	return nil
}

func (s *CatalogService) ownedProduct(ctx context.Context, userID, productID string) (*domain.Product, error) {
	artist, err := s.artistFor(ctx, userID)
	if err != nil {
		return nil, err
	}
	id, err := parseID("product_id", productID)
	if err != nil {
		return nil, err
	}
	product, err := s.products.GetOwned(ctx, artist.ID, id)
	if err != nil {
		return nil, notFound("product", err)
	}
	return product, nil
}

func (s *CatalogService) artistFor(ctx context.Context, userID string) (*domain.ArtistProfile, error) {
	artist, err := s.artists.GetByUserID(ctx, userID)
	if err != nil {
		return nil, notFound("artist profile", err)
	}
	return artist, nil
}

func (s *CatalogService) resolveCategory(ctx context.Context, raw string) (string, error) {
	id, err := parseID("category_id", raw)
	if err != nil {
		return "", err
	}
	if _, err := s.categories.GetByID(ctx, id); err != nil {
		return "", notFound("category", err)
	}
	return id, nil
}

// publish schedules provider sync. The product is already stored, so a queue
// failure is logged rather than returned.
func (s *CatalogService) publish(ctx context.Context, eventType events.EventType, actorID string, product *domain.Product) {
	event := events.New(eventType, product.ID, &actorID, events.ProductChangedPayload{
		ProductID: product.ID,
		ArtistID:  product.ArtistID,
	})
	if err := s.dispatcher.Publish(ctx, event); err != nil {
		s.logger.Warn("product sync not scheduled", zap.String("product_id", product.ID), zap.Error(err))
	}
}

// maxPrice is the first value that no longer fits products.price NUMERIC(12,2).
const maxPrice = 1e10

func checkPriceAndStock(price float64, stock int) error {
	if math.IsNaN(price) || math.IsInf(price, 0) {
		return errorutil.NewValidationError("price must be a finite number", map[string]any{"field": "price"})
	}
	if price < 0 {
		return errorutil.NewValidationError("price must not be negative", map[string]any{"field": "price"})
	}
	if price >= maxPrice {
		return errorutil.NewValidationError("price is too large", map[string]any{"field": "price"})
	}
	if stock < 0 {
		return errorutil.NewValidationError("stock must not be negative", map[string]any{"field": "stock"})
	}
	return nil
}
