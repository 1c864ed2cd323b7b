package http

import (
	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/adaptor"

	"github.com/spec-kit/marketplace-service/internal/api/http/handlers"
	"github.com/spec-kit/marketplace-service/internal/auth"
	"github.com/spec-kit/marketplace-service/internal/observability"
)

// RouteConfig bundles dependencies for route registration.
type RouteConfig struct {
	Health         *handlers.HealthHandler
	Auth           *handlers.AuthHandler
	Accounts       *handlers.AccountHandler
	Catalog        *handlers.CatalogHandler
	Reviews        *handlers.ReviewHandler
	Favorites      *handlers.FavoriteHandler
	Analytics      *handlers.AnalyticsHandler
	AuthMiddleware *auth.Middleware
	Metrics        *observability.Metrics
}

// RegisterRoutes wires HTTP routes.
func RegisterRoutes(app *fiber.App, cfg RouteConfig) {
	app.Get("/health/live", cfg.Health.Live)
	app.Get("/health/ready", cfg.Health.Ready)
	if cfg.Metrics != nil {
		app.Get("/metrics", adaptor.HTTPHandler(cfg.Metrics.Handler()))
	}

	protect := cfg.AuthMiddleware.Protect
	active := protect(auth.RequireActive())
	seller := protect(auth.RequireActive(), auth.RequireSeller())
	buyer := protect(auth.RequireActive(), auth.RequireBuyer())

	authGroup := app.Group("/auth")
	authGroup.Post("/email-verification-buyer", cfg.Auth.BuyerVerification)
	authGroup.Post("/email-verification-seller", cfg.Auth.SellerVerification)
	authGroup.Post("/request-password-reset", cfg.Auth.RequestPasswordReset)
	authGroup.Post("/update_password", cfg.Auth.ConfirmPasswordReset)
	authGroup.Post("/login", cfg.Auth.Login)
	authGroup.Post("/login-buyer", cfg.Auth.LoginBuyer)
	authGroup.Post("/login-seller", cfg.Auth.LoginSeller)
	authGroup.Post("/account", cfg.Auth.CreateAccount)

	authGroup.Get("/account", active, cfg.Accounts.Profile)
	authGroup.Put("/account", active, cfg.Accounts.UpdateProfile)
	authGroup.Post("/account/profile-pic", active, cfg.Accounts.UploadProfilePicture)
	authGroup.Post("/change-password", active, cfg.Auth.ChangePassword)
	authGroup.Post("/profile", seller, cfg.Accounts.CreateArtistProfile)
	authGroup.Put("/profile", seller, cfg.Accounts.UpdateArtistProfile)
	authGroup.Post("/profile/banner-pic", seller, cfg.Accounts.UploadBanner)

	api := app.Group("/api")
	api.Get("/categories", cfg.Catalog.ListCategories)
	api.Get("/products", cfg.Catalog.ListProducts)
	api.Get("/products-by-category", cfg.Catalog.ProductsByCategory)
	api.Get("/products/filter", cfg.Catalog.FilterProducts)
	api.Get("/products/store/:slug", cfg.Catalog.Store)
	api.Get("/products/seller", seller, cfg.Catalog.SellerProducts)
	api.Get("/products/:id", cfg.Catalog.GetProduct)
	api.Post("/products", seller, cfg.Catalog.CreateProduct)
	api.Post("/products/:id/update", seller, cfg.Catalog.UpdateProduct)
	api.Delete("/products/:id", seller, cfg.Catalog.DeleteProduct)

	api.Get("/reviews/seller", seller, cfg.Reviews.SellerReviews)
	api.Get("/reviews/product/:id", buyer, cfg.Reviews.ProductReviews)
	api.Get("/reviews/product/:id/buyer", buyer, cfg.Reviews.MyProductReviews)
	api.Get("/reviews/:id", active, cfg.Reviews.Get)
	api.Post("/reviews", buyer, cfg.Reviews.Create)
	api.Put("/reviews/:id", buyer, cfg.Reviews.Update)
	api.Delete("/reviews/:id", buyer, cfg.Reviews.Delete)

	api.Get("/favorites", active, cfg.Favorites.List)
	api.Post("/favorites", active, cfg.Favorites.Add)
	api.Delete("/favorites", active, cfg.Favorites.Remove)

	stats := api.Group("/analytics", seller)
	stats.Get("/products-count-per-category", cfg.Analytics.ProductsPerCategory)
	stats.Get("/product-ratings", cfg.Analytics.ProductRatings)
	stats.Get("/product-favorites", cfg.Analytics.ProductFavorites)
	stats.Get("/summary", cfg.Analytics.Summary)
}
