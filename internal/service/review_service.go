package service

import (
	"context"
	"strings"

	"github.com/spec-kit/marketplace-service/internal/domain"
	"github.com/spec-kit/marketplace-service/internal/repository"
	"github.com/spec-kit/marketplace-service/pkg/util/errorutil"
)

// ReviewService manages product reviews.
type ReviewService struct {
	reviews  repository.ReviewRepository
	products repository.ProductRepository
	artists  repository.ArtistProfileRepository
}

// NewReviewService builds the service.
func NewReviewService(reviews repository.ReviewRepository, products repository.ProductRepository, artists repository.ArtistProfileRepository) *ReviewService {
	return &ReviewService{reviews: reviews, products: products, artists: artists}
}

// SellerReviews lists reviews on the caller's products, newest first.
func (s *ReviewService) SellerReviews(ctx context.Context, userID string) ([]domain.Review, error) {
	artist, err := s.artists.GetByUserID(ctx, userID)
	if err != nil {
		return nil, notFound("artist profile", err)
	}
	return s.reviews.ListForArtist(ctx, artist.ID)
}

// ProductReviews lists every review of a product, newest first.
func (s *ReviewService) ProductReviews(ctx context.Context, productID string) ([]domain.Review, error) {
	id, err := s.existingProduct(ctx, productID)
	if err != nil {
		return nil, err
	}
	return s.reviews.ListByProduct(ctx, id)
}

// MyProductReviews lists the caller's reviews of a product.
func (s *ReviewService) MyProductReviews(ctx context.Context, userID, productID string) ([]domain.Review, error) {
	id, err := s.existingProduct(ctx, productID)
	if err != nil {
		return nil, err
	}
	return s.reviews.ListByProductAndUser(ctx, id, userID)
}

// Get returns one of the caller's reviews.
func (s *ReviewService) Get(ctx context.Context, userID, reviewID string) (*domain.Review, error) {
	id, err := parseID("review_id", reviewID)
	if err != nil {
		return nil, err
	}
	review, err := s.reviews.GetOwned(ctx, userID, id)
	if err != nil {
		return nil, notFound("review", err)
	}
	return review, nil
}

// Create records a review of any existing product.
func (s *ReviewService) Create(ctx context.Context, userID, productID string, rating int, comment string) (*domain.Review, error) {
	id, err := s.existingProduct(ctx, productID)
	if err != nil {
		return nil, err
	}
	if err := checkRating(rating); err != nil {
		return nil, err
	}
	review := &domain.Review{
		ProductID: id,
		UserID:    userID,
		Rating:    rating,
		Comment:   strings.TrimSpace(comment),
	}
	if err := s.reviews.Create(ctx, review); err != nil {
		return nil, notFound("product", err)
	}
	return review, nil
}

// Update changes rating and/or comment of one of the caller's reviews.
func (s *ReviewService) Update(ctx context.Context, userID, reviewID string, rating *int, comment *string) (*domain.Review, error) {
	review, err := s.Get(ctx, userID, reviewID)
	if err != nil {
		return nil, err
	}
	if rating != nil {
		if err := checkRating(*rating); err != nil {
			return nil, err
		}
		review.Rating = *rating
	}
	setIfPresent(&review.Comment, comment)
	if err := s.reviews.Update(ctx, review); err != nil {
		return nil, notFound("review", err)
	}
	return review, nil
}

// Delete removes one of the caller's reviews.
func (s *ReviewService) Delete(ctx context.Context, userID, reviewID string) error {
	id, err := parseID("review_id", reviewID)
	if err != nil {
		return err
	}
	return notFound("review", s.reviews.Delete(ctx, userID, id))
}

func (s *ReviewService) existingProduct(ctx context.Context, productID string) (string, error) {
	id, err := parseID("product_id", productID)
	if err != nil {
		return "", err
	}
	if _, err := s.products.GetByID(ctx, id); err != nil {
		return "", notFound("product", err)
	}
	return id, nil
}

func checkRating(rating int) error {
	if rating < domain.MinRating || rating > domain.MaxRating {
		return errorutil.NewValidationError("rating must be between 1 and 5", map[string]any{"field": "rating"})
	}
	return nil
}
