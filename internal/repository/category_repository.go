package repository

import (
	"context"

	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/spec-kit/marketplace-service/internal/domain"
)

// CategoryRepository reads catalog categories.
type CategoryRepository interface {
	List(ctx context.Context) ([]domain.Category, error)
	GetByID(ctx context.Context, id string) (*domain.Category, error)
	ListWithProducts(ctx context.Context) ([]domain.CategoryWithProducts, error)
}

type categoryRepository struct {
	pool *pgxpool.Pool
}

// NewCategoryRepository constructs repository.
func NewCategoryRepository(pool *pgxpool.Pool) CategoryRepository {
	return &categoryRepository{pool: pool}
}

func (r *categoryRepository) List(ctx context.Context) ([]domain.Category, error) {
	rows, err := r.pool.Query(ctx, `SELECT id, name, slug FROM categories ORDER BY name`)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	result := []domain.Category{}
	for rows.Next() {
		var c domain.Category
		if err := rows.Scan(&c.ID, &c.Name, &c.Slug); err != nil {
			return nil, err
		}
		result = append(result, c)
	}
	return result, rows.Err()
}

func (r *categoryRepository) GetByID(ctx context.Context, id string) (*domain.Category, error) {
	var c domain.Category
	err := r.pool.QueryRow(ctx, `SELECT id, name, slug FROM categories WHERE id=$1`, id).Scan(&c.ID, &c.Name, &c.Slug)
	if err != nil {
		return nil, translate(err)
	}
	return &c, nil
}

// ListWithProducts loads every category and its products in two queries.
func (r *categoryRepository) ListWithProducts(ctx context.Context) ([]domain.CategoryWithProducts, error) {
	categories, err := r.List(ctx)
	if err != nil {
		return nil, err
	}

	rows, err := r.pool.Query(ctx, `SELECT `+productColumns+`
        FROM products p WHERE p.category_id IS NOT NULL
        ORDER BY p.created_at DESC`)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	products, err := scanProducts(rows)
	if err != nil {
		return nil, err
	}

	byCategory := make(map[string][]domain.Product, len(categories))
	for _, p := range products {
		byCategory[*p.CategoryID] = append(byCategory[*p.CategoryID], p)
	}

	result := make([]domain.CategoryWithProducts, 0, len(categories))
	for _, c := range categories {
		items := byCategory[c.ID]
		if items == nil {
			items = []domain.Product{}
		}
		result = append(result, domain.CategoryWithProducts{Category: c, Products: items})
	}
	return result, nil
}
