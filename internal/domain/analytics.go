package domain

// CategoryProductCount is the number of products per category.
type CategoryProductCount struct {
	CategoryID   string
	CategoryName string
	ProductCount int64
}

// ProductRating aggregates review ratings for a product.
type ProductRating struct {
	ProductID     string
	ProductName   string
	AverageRating *float64
	ReviewCount   int64
}

// ProductFavorites counts how many users favorited a product.
type ProductFavorites struct {
	ProductID      string
	ProductName    string
	FavoritesCount int64
}

// AnalyticsSummary holds marketplace-wide totals.
type AnalyticsSummary struct {
	TotalCategories int64
	TotalProducts   int64
	TotalReviews    int64
	TotalFavorites  int64
}
