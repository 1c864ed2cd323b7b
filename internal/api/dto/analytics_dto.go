package dto

import "github.com/spec-kit/marketplace-service/internal/domain"

// CategoryProductCountResponse row.
type CategoryProductCountResponse struct {
	CategoryID   string `json:"category_id"`
	CategoryName string `json:"category_name"`
	ProductCount int64  `json:"product_count"`
}

// ProductRatingResponse row; average_rating is null without reviews.
type ProductRatingResponse struct {
	ProductID     string   `json:"product_id"`
	ProductName   string   `json:"product_name"`
	AverageRating *float64 `json:"average_rating"`
	ReviewCount   int64    `json:"review_count"`
}

// ProductFavoritesResponse row.
type ProductFavoritesResponse struct {
	ProductID      string `json:"product_id"`
	ProductName    string `json:"product_name"`
	FavoritesCount int64  `json:"favorites_count"`
}

// SummaryResponse holds catalog-wide totals.
type SummaryResponse struct {
	TotalCategories int64 `json:"total_categories"`
	TotalProducts   int64 `json:"total_products"`
	TotalReviews    int64 `json:"total_reviews"`
	TotalFavorites  int64 `json:"total_favorites"`
}

func NewCategoryProductCountResponses(rows []domain.CategoryProductCount) []CategoryProductCountResponse {
	out := make([]CategoryProductCountResponse, 0, len(rows))
	for _, r := range rows {
		out = append(out, CategoryProductCountResponse(r))
	}
	return out
}

func NewProductRatingResponses(rows []domain.ProductRating) []ProductRatingResponse {
	out := make([]ProductRatingResponse, 0, len(rows))
	for _, r := range rows {
		out = append(out, ProductRatingResponse(r))
	}
	return out
}

func NewProductFavoritesResponses(rows []domain.ProductFavorites) []ProductFavoritesResponse {
	out := make([]ProductFavoritesResponse, 0, len(rows))
	for _, r := range rows {
		out = append(out, ProductFavoritesResponse(r))
	}
	return out
}

func NewSummaryResponse(s domain.AnalyticsSummary) SummaryResponse {
	return SummaryResponse(s)
}
