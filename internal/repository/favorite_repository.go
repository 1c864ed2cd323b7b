package repository

import (
	"context"

	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/spec-kit/marketplace-service/internal/domain"
)

// FavoriteRepository stores user bookmarks.
type FavoriteRepository interface {
	Add(ctx context.Context, userID, productID string) error
	Remove(ctx context.Context, userID, productID string) error
}

type favoriteRepository struct {
	pool *pgxpool.Pool
}

// NewFavoriteRepository constructs repository.
func NewFavoriteRepository(pool *pgxpool.Pool) FavoriteRepository {
	return &favoriteRepository{pool: pool}
}

// Add is idempotent; a missing product surfaces as domain.ErrNotFound.
func (r *favoriteRepository) Add(ctx context.Context, userID, productID string) error {
	_, err := r.pool.Exec(ctx, `
        INSERT INTO favorites (user_id, product_id) VALUES ($1,$2)
        ON CONFLICT (user_id, product_id) DO NOTHING`, userID, productID)
	return translate(err)
}

func (r *favoriteRepository) Remove(ctx context.Context, userID, productID string) error {
	cmd, err := r.pool.Exec(ctx, `DELETE FROM favorites WHERE user_id=$1 AND product_id=$2`, userID, productID)
	if err != nil {
		return err
	}
	if cmd.RowsAffected() == 0 {
		return domain.ErrNotFound
	}
	return nil
}
