package service

import (
	"context"

	"github.com/spec-kit/marketplace-service/internal/domain"
	"github.com/spec-kit/marketplace-service/internal/repository"
)

// FavoriteService manages bookmarked products.
type FavoriteService struct {
	favorites repository.FavoriteRepository
	products  repository.ProductRepository
}

// NewFavoriteService builds the service.
func NewFavoriteService(favorites repository.FavoriteRepository, products repository.ProductRepository) *FavoriteService {
	return &FavoriteService{favorites: favorites, products: products}
}

func (s *FavoriteService) List(ctx context.Context, userID string) ([]domain.Product, error) {
	return s.products.ListFavoritedBy(ctx, userID)
}

// Add bookmarks a product. Adding twice is not an error.
func (s *FavoriteService) Add(ctx context.Context, userID, productID string) error {
	id, err := s.existingProduct(ctx, productID)
	if err != nil {
		return err
	}
	return notFound("product", s.favorites.Add(ctx, userID, id))
}

// Remove drops a bookmark; it is a 404 when the product was not a favorite.
func (s *FavoriteService) Remove(ctx context.Context, userID, productID string) error {
	id, err := s.existingProduct(ctx, productID)
	if err != nil {
		return err
	}
	return notFound("favorite", s.favorites.Remove(ctx, userID, id))
}

func (s *FavoriteService) existingProduct(ctx context.Context, productID string) (string, error) {
	id, err := parseID("product_id", productID)
	if err != nil {
		return "", err
	}
	if _, err := s.products.GetByID(ctx, id); err != nil {
		return "", notFound("product", err)
	}
	return id, nil
}
