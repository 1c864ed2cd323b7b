package repository

import (
	"context"
	"fmt"
	"strings"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/spec-kit/marketplace-service/internal/domain"
)

// ProductFilter captures catalog search parameters.
type ProductFilter struct {
	ArtistID     *string
	CategorySlug *string
	SearchTerm   *string
	ActiveOnly   bool
	Limit        int
	Offset       int
}

// ProductRepository encapsulates product persistence.
type ProductRepository interface {
	Create(ctx context.Context, product *domain.Product) error
	Update(ctx context.Context, product *domain.Product) error
	Delete(ctx context.Context, artistID, id string) error
	GetByID(ctx context.Context, id string) (*domain.Product, error)
	GetOwned(ctx context.Context, artistID, id string) (*domain.Product, error)
	List(ctx context.Context, filter ProductFilter) ([]domain.Product, error)
	ListFavoritedBy(ctx context.Context, userID string) ([]domain.Product, error)
	SetProviderProductID(ctx context.Context, id, providerID string) error
}

type productRepository struct {
	pool *pgxpool.Pool
}

// NewProductRepository instantiates repository.
func NewProductRepository(pool *pgxpool.Pool) ProductRepository {
	return &productRepository{pool: pool}
}

const productColumns = `p.id, p.artist_id, p.category_id, p.name, p.description, p.price, p.stock,
        p.is_active, p.image_url, p.provider_product_id, p.created_at, p.updated_at`

func (r *productRepository) Create(ctx context.Context, product *domain.Product) error {
	const query = `
        INSERT INTO products (artist_id, category_id, name, description, price, stock, is_active, image_url)
        VALUES ($1,$2,$3,$4,$5,$6,$7,$8)
        RETURNING id, created_at, updated_at`
	err := r.pool.QueryRow(ctx, query,
		product.ArtistID,
		product.CategoryID,
		product.Name,
		product.Description,
		product.Price,
		product.Stock,
		product.IsActive,
		product.ImageURL,
	).Scan(&product.ID, &product.CreatedAt, &product.UpdatedAt)
	return translate(err)
}

func (r *productRepository) Update(ctx context.Context, product *domain.Product) error {
	const query = `
        UPDATE products SET category_id=$1, name=$2, description=$3, price=$4, stock=$5,
            is_active=$6, image_url=$7, updated_at=NOW()
        WHERE id=$8 AND artist_id=$9
        RETURNING updated_at`
	err := r.pool.QueryRow(ctx, query,
		product.CategoryID,
		product.Name,
		product.Description,
		product.Price,
		product.Stock,
		product.IsActive,
		product.ImageURL,
		product.ID,
		product.ArtistID,
	).Scan(&product.UpdatedAt)
	return translate(err)
}

func (r *productRepository) Delete(ctx context.Context, artistID, id string) error {
	cmd, err := r.pool.Exec(ctx, `DELETE FROM products WHERE id=$1 AND artist_id=$2`, id, artistID)
	if err != nil {
		return err
	}
	if cmd.RowsAffected() == 0 {
		return domain.ErrNotFound
	}
	return nil
}

func (r *productRepository) GetByID(ctx context.Context, id string) (*domain.Product, error) {
	query := `SELECT ` + productColumns + ` FROM products p WHERE p.id=$1`
	return r.fetchSingle(ctx, query, id)
}

func (r *productRepository) GetOwned(ctx context.Context, artistID, id string) (*domain.Product, error) {
	query := `SELECT ` + productColumns + ` FROM products p WHERE p.id=$1 AND p.artist_id=$2`
	return r.fetchSingle(ctx, query, id, artistID)
}

func (r *productRepository) fetchSingle(ctx context.Context, query string, args ...any) (*domain.Product, error) {
	product, err := scanProduct(r.pool.QueryRow(ctx, query, args...))
	if err != nil {
		return nil, translate(err)
	}
	return product, nil
}

func (r *productRepository) List(ctx context.Context, filter ProductFilter) ([]domain.Product, error) {
	base := `SELECT ` + productColumns + ` FROM products p LEFT JOIN categories c ON c.id = p.category_id`
	clauses := []string{"1=1"}
	args := []any{}

	if filter.ArtistID != nil {
		args = append(args, *filter.ArtistID)
		clauses = append(clauses, fmt.Sprintf("p.artist_id=$%d", len(args)))
	}
	if filter.CategorySlug != nil {
		args = append(args, *filter.CategorySlug)
		clauses = append(clauses, fmt.Sprintf("c.slug=$%d", len(args)))
	}
	if filter.ActiveOnly {
		clauses = append(clauses, "p.is_active")
	}
	if filter.SearchTerm != nil && strings.TrimSpace(*filter.SearchTerm) != "" {
		args = append(args, "%"+strings.TrimSpace(*filter.SearchTerm)+"%")
		clauses = append(clauses, fmt.Sprintf("p.name ILIKE $%d", len(args)))
	}

	query := fmt.Sprintf(`%s WHERE %s ORDER BY p.created_at DESC`, base, strings.Join(clauses, " AND "))
	if filter.Limit > 0 {
		offset := filter.Offset
		if offset < 0 {
			offset = 0
		}
		query += fmt.Sprintf(" LIMIT %d OFFSET %d", filter.Limit, offset)
	}

	rows, err := r.pool.Query(ctx, query, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	return scanProducts(rows)
}

func (r *productRepository) ListFavoritedBy(ctx context.Context, userID string) ([]domain.Product, error) {
	query := `SELECT ` + productColumns + `
        FROM products p JOIN favorites f ON f.product_id = p.id
        WHERE f.user_id=$1
        ORDER BY f.created_at DESC`
	rows, err := r.pool.Query(ctx, query, userID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	return scanProducts(rows)
}

func (r *productRepository) SetProviderProductID(ctx context.Context, id, providerID string) error {
	cmd, err := r.pool.Exec(ctx, `UPDATE products SET provider_product_id=$1 WHERE id=$2`, providerID, id)
	if err != nil {
		return err
	}
	if cmd.RowsAffected() == 0 {
		return domain.ErrNotFound
	}
	return nil
}

func scanProduct(row pgx.Row) (*domain.Product, error) {
	var p domain.Product
	if err := row.Scan(
		&p.ID,
		&p.ArtistID,
		&p.CategoryID,
		&p.Name,
		&p.Description,
		&p.Price,
		&p.Stock,
		&p.IsActive,
		&p.ImageURL,
		&p.ProviderProductID,
		&p.CreatedAt,
		&p.UpdatedAt,
	); err != nil {
		return nil, err
	}
	return &p, nil
}

func scanProducts(rows pgx.Rows) ([]domain.Product, error) {
	result := []domain.Product{}
	for rows.Next() {
		p, err := scanProduct(rows)
		if err != nil {
			return nil, err
		}
		result = append(result, *p)
	}
	return result, rows.Err()
}
