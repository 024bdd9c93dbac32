package app

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"agri-assist-api/internal/config"
	"agri-assist-api/internal/database"
	"agri-assist-api/internal/gemini"
	"agri-assist-api/internal/handler"
	"agri-assist-api/internal/middleware"
	"agri-assist-api/internal/openweather"
	"agri-assist-api/internal/pricecache"
	"agri-assist-api/internal/repository"
	"agri-assist-api/internal/router"
	"agri-assist-api/internal/service"
)

type App struct {
	server       *http.Server
	db           *database.DB
	cleanupFuncs []func()
}

func New() (*App, error) {
	cfg, err := config.Load()
	if err != nil {
		return nil, fmt.Errorf("failed to load config: %w", err)
	}

	slog.Info("connecting to PostgreSQL")
	db, err := database.New(context.Background(), cfg.DatabaseURL, cfg.DBMaxConns, cfg.DBMinConns)
	if err != nil {
		return nil, fmt.Errorf("failed to connect to database: %w", err)
	}

	if err := db.EnsureSchema(context.Background()); err != nil {
		db.Close()
		return nil, fmt.Errorf("failed to ensure database schema: %w", err)
	}

	pool := db.Pool
	accountRepo := repository.NewAccountRepository(pool)
	listingRepo := repository.NewListingRepository(pool)
	equipmentRepo := repository.NewEquipmentRepository(pool)
	slog.Info("database ready")

	authService, err := service.NewAuthService(accountRepo, cfg.JWTSecret, cfg.JWTTTL, cfg.AdminSecret)
	if err != nil {
		db.Close()
		return nil, fmt.Errorf("failed to initialize auth service: %w", err)
	}
	authMiddleware := middleware.NewAuthMiddleware(authService)
	authHandler := handler.NewAuthHandler(authService)

	llm := gemini.NewClient(cfg.GeminiBaseURL, cfg.GeminiAPIKey, cfg.GeminiModel, cfg.UpstreamTimeout)
	weather := openweather.NewClient(cfg.OpenWeatherBaseURL, cfg.OpenWeatherAPIKey, cfg.UpstreamTimeout)

	priceService := service.NewPriceService(llm, pricecache.New(cfg.PriceCacheTTL))
	pricesHandler := handler.NewPricesHandler(priceService)

	marketService := service.NewMarketService(listingRepo, equipmentRepo)
	marketplaceHandler := handler.NewMarketplaceHandler(marketService)
	superuserHandler := handler.NewSuperuserHandler(marketService)
	certificationHandler := handler.NewCertificationHandler(marketService)

	insightHandler := handler.NewInsightHandler(service.NewInsightService(weather))
	weatherHandler := handler.NewWeatherHandler(service.NewWeatherService(weather))
	advisorHandler := handler.NewAdvisorHandler(service.NewAdvisorService(llm))

	appRouter := router.New(cfg, authMiddleware, router.Handlers{
		Auth:          authHandler,
		Prices:        pricesHandler,
		Marketplace:   marketplaceHandler,
		Superuser:     superuserHandler,
		Certification: certificationHandler,
		Insight:       insightHandler,
		Weather:       weatherHandler,
		Advisor:       advisorHandler,
	})

	server := &http.Server{
		Addr:              ":" + cfg.ServerPort,
		Handler:           appRouter,
		ReadHeaderTimeout: cfg.ServerReadTimeout,
		WriteTimeout:      cfg.ServerWriteTimeout,
		IdleTimeout:       cfg.ServerIdleTimeout,
	}

	return &App{
		server: server,
		db:     db,
		cleanupFuncs: []func(){
			func() {
				db.Close()
			},
		},
	}, nil
}

func (a *App) Run() error {
	go func() {
		slog.Info("server starting", "addr", a.server.Addr)
		if serveErr := a.server.ListenAndServe(); serveErr != nil && !errors.Is(serveErr, http.ErrServerClosed) {
			slog.Error("server failed", "error", serveErr)
			os.Exit(1)
		}
	}()

	stop := make(chan os.Signal, 1)
	signal.Notify(stop, syscall.SIGINT, syscall.SIGTERM)
	<-stop

	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	if err := a.server.Shutdown(ctx); err != nil {
		return fmt.Errorf("graceful shutdown failed: %w", err)
	}

	for _, cleanup := range a.cleanupFuncs {
		cleanup()
	}

	slog.Info("server stopped")
	return nil
}
