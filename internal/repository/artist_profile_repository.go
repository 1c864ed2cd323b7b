package repository

import (
	"context"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/spec-kit/marketplace-service/internal/domain"
)

// ArtistProfileRepository manages seller storefronts.
type ArtistProfileRepository interface {
	Create(ctx context.Context, profile *domain.ArtistProfile) error
	Update(ctx context.Context, profile *domain.ArtistProfile) error
	GetByID(ctx context.Context, id string) (*domain.ArtistProfile, error)
	GetByUserID(ctx context.Context, userID string) (*domain.ArtistProfile, error)
	GetBySlug(ctx context.Context, slug string) (*domain.ArtistProfile, error)
	SlugExists(ctx context.Context, slug string) (bool, error)
}

type artistProfileRepository struct {
	pool *pgxpool.Pool
}

// NewArtistProfileRepository constructs repository.
func NewArtistProfileRepository(pool *pgxpool.Pool) ArtistProfileRepository {
	return &artistProfileRepository{pool: pool}
}

const artistColumns = `id, user_id, store_name, slug, about, banner_image_url,
        payment_key_encrypted, created_at, updated_at`

func (r *artistProfileRepository) Create(ctx context.Context, profile *domain.ArtistProfile) error {
	const query = `
        INSERT INTO artist_profiles (user_id, store_name, slug, about)
        VALUES ($1,$2,$3,$4)
        RETURNING id, created_at, updated_at`
	err := r.pool.QueryRow(ctx, query,
		profile.UserID,
		profile.StoreName,
		profile.Slug,
		profile.About,
	).Scan(&profile.ID, &profile.CreatedAt, &profile.UpdatedAt)
	return translate(err)
}

func (r *artistProfileRepository) Update(ctx context.Context, profile *domain.ArtistProfile) error {
	const query = `
        UPDATE artist_profiles SET store_name=$1, about=$2, banner_image_url=$3,
            payment_key_encrypted=$4, updated_at=NOW()
        WHERE id=$5
        RETURNING updated_at`
	err := r.pool.QueryRow(ctx, query,
		profile.StoreName,
		profile.About,
		profile.BannerImageURL,
		profile.PaymentKeyEncrypted,
		profile.ID,
	).Scan(&profile.UpdatedAt)
	return translate(err)
}

func (r *artistProfileRepository) GetByID(ctx context.Context, id string) (*domain.ArtistProfile, error) {
	return r.fetchSingle(ctx, `SELECT `+artistColumns+` FROM artist_profiles WHERE id=$1`, id)
}

func (r *artistProfileRepository) GetByUserID(ctx context.Context, userID string) (*domain.ArtistProfile, error) {
	return r.fetchSingle(ctx, `SELECT `+artistColumns+` FROM artist_profiles WHERE user_id=$1`, userID)
}

func (r *artistProfileRepository) GetBySlug(ctx context.Context, slug string) (*domain.ArtistProfile, error) {
	return r.fetchSingle(ctx, `SELECT `+artistColumns+` FROM artist_profiles WHERE slug=$1`, slug)
}

func (r *artistProfileRepository) SlugExists(ctx context.Context, slug string) (bool, error) {
	var exists bool
	err := r.pool.QueryRow(ctx, `SELECT EXISTS (SELECT 1 FROM artist_profiles WHERE slug=$1)`, slug).Scan(&exists)
	return exists, err
}

func (r *artistProfileRepository) fetchSingle(ctx context.Context, query string, arg any) (*domain.ArtistProfile, error) {
	profile, err := scanArtist(r.pool.QueryRow(ctx, query, arg))
	if err != nil {
		return nil, translate(err)
	}
	return profile, nil
}

func scanArtist(row pgx.Row) (*domain.ArtistProfile, error) {
	var p domain.ArtistProfile
	if err := row.Scan(
		&p.ID,
		&p.UserID,
		&p.StoreName,
		&p.Slug,
		&p.About,
		&p.BannerImageURL,
		&p.PaymentKeyEncrypted,
		&p.CreatedAt,
		&p.UpdatedAt,
	); err != nil {
		return nil, err
	}
	return &p, nil
}
