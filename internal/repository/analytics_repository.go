package repository

import (
	"context"

	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/spec-kit/marketplace-service/internal/domain"
)

// AnalyticsRepository runs aggregate queries over the catalog.
type AnalyticsRepository interface {
	ProductsPerCategory(ctx context.Context) ([]domain.CategoryProductCount, error)
	ProductRatings(ctx context.Context) ([]domain.ProductRating, error)
	ProductFavorites(ctx context.Context) ([]domain.ProductFavorites, error)
	Summary(ctx context.Context) (domain.AnalyticsSummary, error)
}

type analyticsRepository struct {
	pool *pgxpool.Pool
}

// NewAnalyticsRepository constructs repository.
func NewAnalyticsRepository(pool *pgxpool.Pool) AnalyticsRepository {
	return &analyticsRepository{pool: pool}
}

func (r *analyticsRepository) ProductsPerCategory(ctx context.Context) ([]domain.CategoryProductCount, error) {
	rows, err := r.pool.Query(ctx, `
        SELECT c.id, c.name, COUNT(p.id)
        FROM categories c LEFT JOIN products p ON p.category_id = c.id
        GROUP BY c.id, c.name
        ORDER BY c.name`)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	result := []domain.CategoryProductCount{}
	for rows.Next() {
		var item domain.CategoryProductCount
		if err := rows.Scan(&item.CategoryID, &item.CategoryName, &item.ProductCount); err != nil {
			return nil, err
		}
		result = append(result, item)
	}
	return result, rows.Err()
}

func (r *analyticsRepository) ProductRatings(ctx context.Context) ([]domain.ProductRating, error) {
	rows, err := r.pool.Query(ctx, `
        SELECT p.id, p.name, AVG(rv.rating)::float8, COUNT(rv.id)
        FROM products p LEFT JOIN reviews rv ON rv.product_id = p.id
        GROUP BY p.id, p.name
        ORDER BY p.name`)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	result := []domain.ProductRating{}
	for rows.Next() {
		var item domain.ProductRating
		if err := rows.Scan(&item.ProductID, &item.ProductName, &item.AverageRating, &item.ReviewCount); err != nil {
			return nil, err
		}
		result = append(result, item)
	}
	return result, rows.Err()
}

func (r *analyticsRepository) ProductFavorites(ctx context.Context) ([]domain.ProductFavorites, error) {
	rows, err := r.pool.Query(ctx, `
        SELECT p.id, p.name, COUNT(f.user_id)
        FROM products p LEFT JOIN favorites f ON f.product_id = p.id
        GROUP BY p.id, p.name
        ORDER BY p.name`)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	result := []domain.ProductFavorites{}
	for rows.Next() {
		var item domain.ProductFavorites
		if err := rows.Scan(&item.ProductID, &item.ProductName, &item.FavoritesCount); err != nil {
			return nil, err
		}
		result = append(result, item)
	}
	return result, rows.Err()
}

func (r *analyticsRepository) Summary(ctx context.Context) (domain.AnalyticsSummary, error) {
	var s domain.AnalyticsSummary
	err := r.pool.QueryRow(ctx, `
        SELECT
            (SELECT COUNT(*) FROM categories),
            (SELECT COUNT(*) FROM products),
            (SELECT COUNT(*) FROM reviews),
            (SELECT COUNT(*) FROM favorites)`).Scan(
		&s.TotalCategories,
		&s.TotalProducts,
		&s.TotalReviews,
		&s.TotalFavorites,
	)
	return s, err
}
