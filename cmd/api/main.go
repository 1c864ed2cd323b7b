package main

import (
	"context"
	"log"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/gofiber/fiber/v2"
	"go.uber.org/zap"

	httptransport "github.com/spec-kit/marketplace-service/internal/api/http"
	"github.com/spec-kit/marketplace-service/internal/api/http/handlers"
	"github.com/spec-kit/marketplace-service/internal/auth"
	"github.com/spec-kit/marketplace-service/internal/config"
	"github.com/spec-kit/marketplace-service/internal/events"
	"github.com/spec-kit/marketplace-service/internal/notify"
	"github.com/spec-kit/marketplace-service/internal/observability"
	"github.com/spec-kit/marketplace-service/internal/payments"
	"github.com/spec-kit/marketplace-service/internal/persistence"
	"github.com/spec-kit/marketplace-service/internal/repository"
	"github.com/spec-kit/marketplace-service/internal/secrets"
	"github.com/spec-kit/marketplace-service/internal/service"
	"github.com/spec-kit/marketplace-service/internal/storage"
	"github.com/spec-kit/marketplace-service/internal/worker"
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("failed to load config: %v", err)
	}

	logger, err := observability.NewLogger(cfg.Logger)
	if err != nil {
		log.Fatalf("failed to init logger: %v", err)
	}
	defer logger.Sync() //nolint:errcheck

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	pg, err := persistence.NewPostgres(ctx, cfg.Postgres, logger)
	if err != nil {
		logger.Fatal("failed to connect postgres", zap.Error(err))
	}
	defer pg.Close()

	if cfg.Postgres.RunMigrations {
		if err := persistence.RunMigrations(ctx, pg.PoolHandle(), logger); err != nil {
			logger.Fatal("failed to run migrations", zap.Error(err))
		}
	}

	redis := persistence.NewRedis(ctx, cfg.Redis, logger)
	defer redis.Close()

	pool := pg.PoolHandle()
	userRepo := repository.NewUserRepository(pool)
	artistRepo := repository.NewArtistProfileRepository(pool)
	productRepo := repository.NewProductRepository(pool)
	categoryRepo := repository.NewCategoryRepository(pool)

	cipher, err := secrets.NewCipher(cfg.Auth.CredentialsKey)
	if err != nil {
		logger.Fatal("failed to init credentials cipher", zap.Error(err))
	}
	uploader, err := storage.New(ctx, cfg.Storage)
	if err != nil {
		logger.Fatal("failed to init object storage", zap.Error(err))
	}
	catalogSync, err := payments.NewPaddleCatalog(cfg.Payments.PaddleEnvironment)
	if err != nil {
		logger.Fatal("failed to init payment provider", zap.Error(err))
	}

	metrics := observability.NewMetrics()
	dispatcher := events.NewInMemoryDispatcher()
	queue := worker.NewRedisQueue(redis.Client, cfg.Worker.Queue)
	service.NewNotificationService(dispatcher, queue, logger).RegisterHandlers()

	tokens := auth.NewTokenManager(cfg.Auth.JWTSecret)
	authService := service.NewAuthService(*cfg, service.AuthDependencies{
		UserRepo:   userRepo,
		Tokens:     tokens,
		Dispatcher: dispatcher,
		Logger:     logger,
	})
	accountService := service.NewAccountService(service.AccountDependencies{
		UserRepo:   userRepo,
		ArtistRepo: artistRepo,
		Uploader:   uploader,
		Sealer:     cipher,
		Logger:     logger,
	})
	catalogService := service.NewCatalogService(service.CatalogDependencies{
		ProductRepo:  productRepo,
		CategoryRepo: categoryRepo,
		ArtistRepo:   artistRepo,
		Uploader:     uploader,
		Dispatcher:   dispatcher,
		Logger:       logger,
	})
	reviewService := service.NewReviewService(repository.NewReviewRepository(pool), productRepo, artistRepo)
	favoriteService := service.NewFavoriteService(repository.NewFavoriteRepository(pool), productRepo)
	analyticsService := service.NewAnalyticsService(repository.NewAnalyticsRepository(pool))

	workerDone := make(chan struct{})
	if cfg.Worker.Enabled {
		w := worker.New(queue, logger, metrics, cfg.Worker)
		w.Handle(worker.JobSendEmail, worker.SendEmail(notify.NewSender(cfg.Email, logger)))
		w.Handle(worker.JobSyncProduct, worker.NewProductSync(productRepo, artistRepo, cipher, catalogSync, logger).Handle)
		go func() {
			defer close(workerDone)
			if err := w.Run(ctx); err != nil {
				logger.Error("worker stopped", zap.Error(err))
			}
		}()
	} else {
		close(workerDone)
	}

	app := fiber.New(fiber.Config{
		AppName:   cfg.App.Name,
		BodyLimit: cfg.App.BodyLimit(),
	})
	httptransport.RegisterMiddlewares(app, logger, metrics, cfg.App.RequestTimeout)
	httptransport.RegisterRoutes(app, httptransport.RouteConfig{
		Health: handlers.NewHealthHandler(cfg.App.Name, cfg.App.Version, map[string]handlers.Pinger{
			"postgres": pg,
			"redis":    redis,
		}),
		Auth:           handlers.NewAuthHandler(authService),
		Accounts:       handlers.NewAccountHandler(accountService),
		Catalog:        handlers.NewCatalogHandler(catalogService),
		Reviews:        handlers.NewReviewHandler(reviewService),
		Favorites:      handlers.NewFavoriteHandler(favoriteService),
		Analytics:      handlers.NewAnalyticsHandler(analyticsService),
		AuthMiddleware: auth.NewMiddleware(auth.NewAuthenticator(tokens, userRepo)),
		Metrics:        metrics,
	})

	go func() {
		if err := app.Listen(cfg.App.Addr()); err != nil {
			logger.Fatal("fiber listen", zap.Error(err))
		}
	}()

	waitForShutdown(logger)

	if err := app.ShutdownWithTimeout(10 * time.Second); err != nil {
		logger.Warn("http shutdown", zap.Error(err))
	}
	cancel()
	<-workerDone
}

func waitForShutdown(logger *zap.Logger) {
	sigCh := make(chan os.Signal, 1)
	signal.Notify(sigCh, syscall.SIGINT, syscall.SIGTERM)

	sig := <-sigCh
	logger.Info("shutting down", zap.String("signal", sig.String()))
}
