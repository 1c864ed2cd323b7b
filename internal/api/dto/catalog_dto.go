package dto

import (
	"time"

	"github.com/spec-kit/marketplace-service/internal/domain"
)

// CategoryResponse represents a category.
type CategoryResponse struct {
	ID   string `json:"id"`
	Name string `json:"name"`
	Slug string `json:"slug"`
}

// ProductResponse represents a listing.
type ProductResponse struct {
	ID          string    `json:"id"`
	ArtistID    string    `json:"artist_id"`
	CategoryID  *string   `json:"category_id"`
	Name        string    `json:"name"`
	Description string    `json:"description"`
	Price       float64   `json:"price"`
	Stock       int       `json:"stock"`
	IsActive    bool      `json:"is_active"`
	ImageURL    string    `json:"image"`
	CreatedAt   time.Time `json:"created_at"`
	UpdatedAt   time.Time `json:"updated_at"`
}

// CategoryWithProductsResponse groups products under their category.
type CategoryWithProductsResponse struct {
	CategoryResponse
	Products []ProductResponse `json:"products"`
}

// StoreResponse is a storefront page.
type StoreResponse struct {
	Artist   ArtistProfileResponse `json:"artist"`
	Products []ProductResponse     `json:"products"`
}

// FilterResponse wraps filtered results.
type FilterResponse struct {
	Results []ProductResponse `json:"results"`
}

func NewCategoryResponse(c domain.Category) CategoryResponse {
	return CategoryResponse{ID: c.ID, Name: c.Name, Slug: c.Slug}
}

func NewCategoryResponses(items []domain.Category) []CategoryResponse {
	out := make([]CategoryResponse, 0, len(items))
	for _, c := range items {
		out = append(out, NewCategoryResponse(c))
	}
	return out
}

func NewProductResponse(p *domain.Product) ProductResponse {
	return ProductResponse{
		ID:          p.ID,
		ArtistID:    p.ArtistID,
		CategoryID:  p.CategoryID,
		Name:        p.Name,
		Description: p.Description,
		Price:       p.Price,
		Stock:       p.Stock,
		IsActive:    p.IsActive,
		ImageURL:    p.ImageURL,
		CreatedAt:   p.CreatedAt,
		UpdatedAt:   p.UpdatedAt,
	}
}

func NewProductResponses(items []domain.Product) []ProductResponse {
	out := make([]ProductResponse, 0, len(items))
	for i := range items {
		out = append(out, NewProductResponse(&items[i]))
	}
	return out
}

func NewCategoryWithProductsResponses(items []domain.CategoryWithProducts) []CategoryWithProductsResponse {
	out := make([]CategoryWithProductsResponse, 0, len(items))
	for _, c := range items {
		out = append(out, CategoryWithProductsResponse{
			CategoryResponse: NewCategoryResponse(c.Category),
			Products:         NewProductResponses(c.Products),
		})
	}
	return out
}

func NewStoreResponse(s *domain.Store) StoreResponse {
	return StoreResponse{
		Artist:   NewArtistProfileResponse(&s.Artist),
		Products: NewProductResponses(s.Products),
	}
}
