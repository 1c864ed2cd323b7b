package domain

import "time"

// Category groups products in the catalog.
type Category struct {
	ID   string
	Name string
	Slug string
}

// Product is an item listed by an artist.
type Product struct {
	ID                string
	ArtistID          string
	CategoryID        *string
	Name              string
	Description       string
	Price             float64
	Stock             int
	IsActive          bool
	ImageURL          string
	ProviderProductID *string
	CreatedAt         time.Time
	UpdatedAt         time.Time
}

// CategoryWithProducts is a category together with its products.
type CategoryWithProducts struct {
	Category
	Products []Product
}

// Store is an artist profile with its listed products.
type Store struct {
	Artist   ArtistProfile
	Products []Product
}
