package repository

import (
	"context"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/spec-kit/marketplace-service/internal/domain"
)

// ReviewRepository manages product reviews.
type ReviewRepository interface {
	Create(ctx context.Context, review *domain.Review) error
	Update(ctx context.Context, review *domain.Review) error
	Delete(ctx context.Context, userID, id string) error
	GetOwned(ctx context.Context, userID, id string) (*domain.Review, error)
	ListByProduct(ctx context.Context, productID string) ([]domain.Review, error)
	ListByProductAndUser(ctx context.Context, productID, userID string) ([]domain.Review, error)
	ListForArtist(ctx context.Context, artistID string) ([]domain.Review, error)
}

type reviewRepository struct {
	pool *pgxpool.Pool
}

// NewReviewRepository constructs repository.
func NewReviewRepository(pool *pgxpool.Pool) ReviewRepository {
	return &reviewRepository{pool: pool}
}

const reviewColumns = `r.id, r.product_id, r.user_id, r.rating, r.comment, r.created_at, r.updated_at`

func (r *reviewRepository) Create(ctx context.Context, review *domain.Review) error {
	const query = `
        INSERT INTO reviews (product_id, user_id, rating, comment)
        VALUES ($1,$2,$3,$4)
        RETURNING id, created_at, updated_at`
	err := r.pool.QueryRow(ctx, query,
		review.ProductID,
		review.UserID,
		review.Rating,
		review.Comment,
	).Scan(&review.ID, &review.CreatedAt, &review.UpdatedAt)
	return translate(err)
}

func (r *reviewRepository) Update(ctx context.Context, review *domain.Review) error {
	const query = `
        UPDATE reviews SET rating=$1, comment=$2, updated_at=NOW()
        WHERE id=$3 AND user_id=$4
        RETURNING updated_at`
	err := r.pool.QueryRow(ctx, query, review.Rating, review.Comment, review.ID, review.UserID).Scan(&review.UpdatedAt)
	return translate(err)
}

func (r *reviewRepository) Delete(ctx context.Context, userID, id string) error {
	cmd, err := r.pool.Exec(ctx, `DELETE FROM reviews WHERE id=$1 AND user_id=$2`, id, userID)
	if err != nil {
		return err
	}
	if cmd.RowsAffected() == 0 {
		return domain.ErrNotFound
	}
	return nil
}

func (r *reviewRepository) GetOwned(ctx context.Context, userID, id string) (*domain.Review, error) {
	query := `SELECT ` + reviewColumns + ` FROM reviews r WHERE r.id=$1 AND r.user_id=$2`
	review, err := scanReview(r.pool.QueryRow(ctx, query, id, userID))
	if err != nil {
		return nil, translate(err)
	}
	return review, nil
}

func (r *reviewRepository) ListByProduct(ctx context.Context, productID string) ([]domain.Review, error) {
	query := `SELECT ` + reviewColumns + ` FROM reviews r WHERE r.product_id=$1 ORDER BY r.created_at DESC`
	return r.list(ctx, query, productID)
}

func (r *reviewRepository) ListByProductAndUser(ctx context.Context, productID, userID string) ([]domain.Review, error) {
	query := `SELECT ` + reviewColumns + ` FROM reviews r WHERE r.product_id=$1 AND r.user_id=$2 ORDER BY r.created_at DESC`
	return r.list(ctx, query, productID, userID)
}

func (r *reviewRepository) ListForArtist(ctx context.Context, artistID string) ([]domain.Review, error) {
	query := `SELECT ` + reviewColumns + `
        FROM reviews r JOIN products p ON p.id = r.product_id
        WHERE p.artist_id=$1
        ORDER BY r.created_at DESC`
	return r.list(ctx, query, artistID)
}

func (r *reviewRepository) list(ctx context.Context, query string, args ...any) ([]domain.Review, error) {
	rows, err := r.pool.Query(ctx, query, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	result := []domain.Review{}
	for rows.Next() {
		review, err := scanReview(rows)
		if err != nil {
			return nil, err
		}
		result = append(result, *review)
	}
	return result, rows.Err()
}

func scanReview(row pgx.Row) (*domain.Review, error) {
	var review domain.Review
	if err := row.Scan(
		&review.ID,
		&review.ProductID,
		&review.UserID,
		&review.Rating,
		&review.Comment,
		&review.CreatedAt,
		&review.UpdatedAt,
	); err != nil {
		return nil, err
	}
	return &review, nil
}
