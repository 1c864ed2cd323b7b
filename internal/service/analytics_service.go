package service

import (
	"context"

	"github.com/spec-kit/marketplace-service/internal/domain"
	"github.com/spec-kit/marketplace-service/internal/repository"
)

// AnalyticsService exposes marketplace-wide aggregates to sellers.
type AnalyticsService struct {
	repo repository.AnalyticsRepository
}

// NewAnalyticsService builds the service.
func NewAnalyticsService(repo repository.AnalyticsRepository) *AnalyticsService {
	return &AnalyticsService{repo: repo}
}

func (s *AnalyticsService) ProductsPerCategory(ctx context.Context) ([]domain.CategoryProductCount, error) {
	return s.repo.ProductsPerCategory(ctx)
}

func (s *AnalyticsService) ProductRatings(ctx context.Context) ([]domain.ProductRating, error) {
	return s.repo.ProductRatings(ctx)
}

func (s *AnalyticsService) ProductFavorites(ctx context.Context) ([]domain.ProductFavorites, error) {
	return s.repo.ProductFavorites(ctx)
}

func (s *AnalyticsService) Summary(ctx context.Context) (domain.AnalyticsSummary, error) {
	return s.repo.Summary(ctx)
}
