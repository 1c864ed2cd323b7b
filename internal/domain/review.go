package domain

import "time"

const (
	MinRating = 1
	MaxRating = 5
)

// Review is a buyer's rating of a product.
type Review struct {
	ID        string
	ProductID string
	UserID    string
	Rating    int
	Comment   string
	CreatedAt time.Time
	UpdatedAt time.Time
}

// Favorite links a user to a product they bookmarked.
type Favorite struct {
	UserID    string
	ProductID string
	CreatedAt time.Time
}
