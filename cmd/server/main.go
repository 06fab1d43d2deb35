package main

import (
	"context"
	"errors"
	"fmt"
	"log"
	"net/http"
	"os/signal"
	"syscall"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/joho/godotenv"
	"go.uber.org/zap"
	"google.golang.org/api/option"
	"gorm.io/driver/postgres"
	"gorm.io/gorm"

	"agrimarket.backend/internal/config"
	pgsource "agrimarket.backend/internal/infrastructure/datasources/postgres"
	"agrimarket.backend/internal/infrastructure/metrics"
	"agrimarket.backend/internal/infrastructure/models"
	"agrimarket.backend/internal/infrastructure/notification"
	"agrimarket.backend/internal/infrastructure/repositories"
	"agrimarket.backend/internal/infrastructure/storage"
	"agrimarket.backend/internal/interfaces/http/handlers"
	"agrimarket.backend/internal/interfaces/http/middleware"
	"agrimarket.backend/internal/usecases"
	"agrimarket.backend/pkg/jwt"
	"agrimarket.backend/pkg/logger"
	"agrimarket.backend/pkg/redis"
)

const (
	shutdownTimeout   = 10 * time.Second
	notifyTimeout     = 15 * time.Second
	registrationLocks = "registration:lock:"
)

var (
	loadDotenv = godotenv.Load
	loadCfg    = config.Load
	initLog    = logger.Init
	initRedis  = redis.Init
	openDB     = func(cfg config.DatabaseConfig) (*gorm.DB, error) {
		sqlDB, err := pgsource.NewConnection(cfg)
		if err != nil {
			return nil, err
		}
		return gorm.Open(postgres.New(postgres.Config{
			Conn:                 sqlDB,
			PreferSimpleProtocol: true,
		}), &gorm.Config{
			PrepareStmt: false,
		})
	}
	newSessionStore = redis.NewSessionStore
	newBlobStore    = buildBlobStore
	newNotifier     = buildNotifier
	runServer       = serve
)

func main() {
	if err := runMainProcess(); err != nil {
		log.Fatal(err)
	}
}

func runMainProcess() error {
	if err := loadDotenv(); err != nil {
		log.Println("No .env file found, using environment variables")
	}

	cfg := loadCfg()

	initLog(cfg.Server.Env)
	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()
	logger.Info(ctx, "Logger initialized", zap.String("env", cfg.Server.Env))

	if err := initRedis(cfg.Redis.URL, cfg.Redis.Password); err != nil {
		logger.Error(ctx, "Failed to initialize Redis", zap.Error(err))
		return fmt.Errorf("failed to initialize redis: %w", err)
	}
	logger.Info(ctx, "Redis initialized")

	if cfg.Server.Env == "production" {
		gin.SetMode(gin.ReleaseMode)
	}

	db, err := openDB(cfg.Database)
	if err != nil {
		return fmt.Errorf("failed to connect to database: %w", err)
	}
	if sqlDB, err := db.DB(); err == nil {
		defer sqlDB.Close()
	}
	if cfg.Database.AutoMigrate {
		if err := db.AutoMigrate(models.All()...); err != nil {
			return fmt.Errorf("failed to migrate database: %w", err)
		}
		logger.Info(ctx, "Database schema migrated")
	}

	sessionStore, err := newSessionStore(cfg.Security.SessionEncryptionKey)
	if err != nil {
		return fmt.Errorf("failed to initialize session store: %w", err)
	}

	blobs, closeBlobs, err := newBlobStore(ctx, cfg.Storage)
	if err != nil {
		return fmt.Errorf("failed to initialize blob store: %w", err)
	}
	defer closeBlobs()

	notifier, err := newNotifier(cfg.Mail)
	if err != nil {
		return fmt.Errorf("failed to initialize notifier: %w", err)
	}

	m := metrics.New()
	jwtService := jwt.NewJWTService(cfg.JWT.Secret, cfg.JWT.AccessExpiry, cfg.JWT.RefreshExpiry)

	userRepo := repositories.NewUserRepository(db)
	sellerRepo := repositories.NewSellerRepository(db)
	riderRepo := repositories.NewRiderRepository(db)
	productRepo := repositories.NewProductRepository(db)
	cartRepo := repositories.NewCartRepository(db)
	orderRepo := repositories.NewOrderRepository(db)
	dashboardRepo := repositories.NewDashboardRepository(db)
	uow := repositories.NewUnitOfWork(db)

	onboardingUsecase := usecases.NewOnboardingUsecase(usecases.OnboardingDeps{
		Users:    userRepo,
		Sellers:  sellerRepo,
		Riders:   riderRepo,
		UoW:      uow,
		Cursors:  sessionStore,
		Locker:   redis.NewLocker(registrationLocks),
		Blobs:    blobs,
		Notifier: notifier,
		Metrics:  m,
		Config:   cfg.Registration,
	})
	approvalUsecase := usecases.NewApprovalUsecase(userRepo, sellerRepo, riderRepo, uow, notifier, m)
	authUsecase := usecases.NewAuthUsecase(userRepo, jwtService, sessionStore, cfg.JWT.RefreshExpiry)
	productUsecase := usecases.NewProductUsecase(productRepo, m)
	cartUsecase := usecases.NewCartUsecase(cartRepo, productRepo)
	orderUsecase := usecases.NewOrderUsecase(orderRepo, cartRepo, productRepo, uow, m)
	dashboardUsecase := usecases.NewDashboardUsecase(dashboardRepo)

	r := gin.New()
	r.Use(gin.Recovery())
	r.Use(middleware.RequestIDMiddleware())
	r.Use(middleware.LoggerMiddleware(m))

	applyCORSMiddleware(r, cfg.Server.AllowedOrigins)
	registerHealthRoute(r)
	r.GET("/metrics", gin.WrapH(m.Handler()))
	registerAPIV1Routes(r, routeDeps{
		authHandler:         handlers.NewAuthHandler(authUsecase),
		registrationHandler: handlers.NewRegistrationHandler(onboardingUsecase, cfg.Registration.MaxUploadSize),
		productHandler:      handlers.NewProductHandler(productUsecase),
		cartHandler:         handlers.NewCartHandler(cartUsecase, orderUsecase),
		orderHandler:        handlers.NewOrderHandler(orderUsecase),
		dashboardHandler:    handlers.NewDashboardHandler(dashboardUsecase),
		adminHandler:        handlers.NewAdminHandler(approvalUsecase, authUsecase),
		wizardCursors:       onboardingUsecase,
		authMiddleware:      middleware.AuthMiddleware(jwtService, sessionStore),
		loadUser:            middleware.LoadUser(authUsecase),
		browserSession:      middleware.BrowserSession(cfg.Session),
	})

	logger.Info(ctx, "Agrimarket backend starting",
		zap.String("port", cfg.Server.Port),
		zap.Int("routes", len(r.Routes())),
	)

	if err := runServer(ctx, r, cfg.Server.Port); err != nil {
		return fmt.Errorf("failed to start server: %w", err)
	}
	logger.Info(context.Background(), "Server stopped")
	return nil
}

// serve runs the HTTP server until ctx is cancelled, then drains in-flight requests
func serve(ctx context.Context, handler http.Handler, port string) error {
	srv := &http.Server{
		Addr:              ":" + port,
		Handler:           handler,
		ReadHeaderTimeout: 10 * time.Second,
	}

	errCh := make(chan error, 1)
	go func() { errCh <- srv.ListenAndServe() }()

	select {
	case err := <-errCh:
		if errors.Is(err, http.ErrServerClosed) {
			return nil
		}
		return err
	case <-ctx.Done():
		shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
		defer cancel()
		return srv.Shutdown(shutdownCtx)
	}
}

func buildBlobStore(ctx context.Context, cfg config.StorageConfig) (storage.BlobStore, func() error, error) {
	var (
		inner   storage.BlobStore
		closeFn = func() error { return nil }
	)

	switch cfg.Driver {
	case "", "local":
		local, err := storage.NewLocalBlobStore(cfg.LocalDir)
		if err != nil {
			return nil, nil, err
		}
		inner = local
	case "gcs":
		var opts []option.ClientOption
		if cfg.GCSProjectID != "" {
			opts = append(opts, option.WithQuotaProject(cfg.GCSProjectID))
		}
		gcs, err := storage.NewGCSBlobStore(ctx, cfg.GCSBucket, cfg.GCSCredentials, opts...)
		if err != nil {
			return nil, nil, err
		}
		inner, closeFn = gcs, gcs.Close
	default:
		return nil, nil, fmt.Errorf("unknown storage driver %q", cfg.Driver)
	}

	return storage.NewRetryingBlobStore(inner, cfg.UploadRetries, cfg.UploadRetryWait), closeFn, nil
}

func buildNotifier(cfg config.MailConfig) (notification.Notifier, error) {
	if !cfg.Enabled() {
		return notification.NewAsyncNotifier(notification.LogNotifier{}, notifyTimeout), nil
	}
	sg, err := notification.NewSendGridNotifier(cfg.SendGridAPIKey, cfg.FromEmail, cfg.FromName)
	if err != nil {
		return nil, err
	}
	return notification.NewAsyncNotifier(sg, notifyTimeout), nil
}
