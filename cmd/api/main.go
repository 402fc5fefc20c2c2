package main

import (
	"context"
	"errors"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/joho/godotenv"
	"go.uber.org/zap"

	"quoteme/internal/config"
	"quoteme/internal/database"
	"quoteme/internal/middleware"
	"quoteme/internal/modules/aggregator"
	"quoteme/internal/modules/matching"
	"quoteme/internal/modules/notification"
	"quoteme/internal/modules/projects"
	"quoteme/internal/modules/provider"
	"quoteme/internal/modules/quotes"
	"quoteme/internal/modules/rating"
	"quoteme/internal/pkg/ai"
	jwtsvc "quoteme/internal/pkg/jwt"
	"quoteme/internal/repository"
)

func main() {
	_ = godotenv.Load()

	cfg, err := config.Load()
	if err != nil {
		zap.NewExample().Fatal("config", zap.Error(err))
	}

	logger := newLogger(cfg.AppEnv)
	defer func() { _ = logger.Sync() }()

	db, err := database.Connect(cfg.DatabaseURL)
	if err != nil {
		logger.Fatal("database connect", zap.Error(err))
	}
	if err := repository.AutoMigrate(db); err != nil {
		logger.Fatal("database migrate", zap.Error(err))
	}

	providerRepo := repository.NewProviderRepository(db)
	projectRepo := repository.NewProjectRepository(db)
	quoteRepo := repository.NewQuoteRepository(db)
	notificationRepo := repository.NewNotificationRepository(db)

	classifier, summarizer := buildAI(cfg, logger)

	jwt := jwtsvc.New(cfg.JWTSecret, cfg.JWTTTL)
	auth := middleware.Auth(jwt)

	hub := notification.NewHub()
	defer hub.Close()

	notificationService := notification.NewService(notificationRepo, hub, logger)
	notificationHandler := notification.NewHandler(notificationService, hub, logger)

	matchingService := matching.NewService(
		matching.Config{RadiusKm: cfg.MatchRadiusKm, Workers: cfg.DispatchWorkers},
		providerRepo,
		notificationService,
		logger,
	)

	ratingService := rating.NewService(providerRepo,
		rating.Config{Floor: cfg.RatingFloor, MinReviews: cfg.RatingMinReviews}, logger)

	providerService := provider.NewService(providerRepo, ratingService, logger)
	providerHandler := provider.NewHandler(providerService, jwt)

	projectService := projects.NewService(projectRepo, classifier, matchingService, logger)
	projectHandler := projects.NewHandler(projectService)

	quoteService := quotes.NewService(quoteRepo, projectRepo, logger)
	quoteHandler := quotes.NewHandler(quoteService)

	aggregatorService := aggregator.NewService(
		aggregator.Config{BidWindow: cfg.BidWindow, ProfileBaseURL: cfg.PublicBaseURL},
		projectRepo, quoteRepo, providerRepo, notificationRepo, summarizer, logger,
	)
	aggregatorHandler := aggregator.NewHandler(aggregatorService)

	sweeper := notification.NewSweeper(projectRepo, quoteRepo, matchingService, notificationService,
		cfg.BidWindow, cfg.ClosingSoonLead, logger)
	if err := sweeper.Start(); err != nil {
		logger.Fatal("sweeper start", zap.Error(err))
	}
	defer sweeper.Stop()

	if cfg.AppEnv != "dev" {
		gin.SetMode(gin.ReleaseMode)
	}
	r := gin.New()
	r.Use(gin.Recovery())
	r.Use(middleware.RequestID())
	r.Use(middleware.RequestLogger(logger))
	r.Use(middleware.CORS())

	v1 := r.Group("/api/v1")
	{
		projectHandler.RegisterRoutes(v1)
		quoteHandler.RegisterRoutes(v1, auth)
		aggregatorHandler.RegisterRoutes(v1)
		providerHandler.RegisterRoutes(v1, auth)
		notificationHandler.RegisterRoutes(v1, auth)
	}

	srv := &http.Server{
		Addr:              cfg.ListenAddr,
		Handler:           r,
		ReadHeaderTimeout: 10 * time.Second,
	}

	go func() {
		logger.Info("listening", zap.String("addr", cfg.ListenAddr), zap.String("env", cfg.AppEnv))
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			logger.Fatal("serve", zap.Error(err))
		}
	}()

	stop := make(chan os.Signal, 1)
	signal.Notify(stop, syscall.SIGINT, syscall.SIGTERM)
	<-stop

	logger.Info("shutting down")
	shutdownCtx, cancel := context.WithTimeout(context.Background(), 15*time.Second)
	defer cancel()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		logger.Error("shutdown", zap.Error(err))
	}
}

// buildAI wires the Anthropic-backed classifier and summarizer when an
// API key is configured, and the deterministic offline fallbacks when it
// is not.
func buildAI(cfg *config.Config, logger *zap.Logger) (ai.TradeClassifier, ai.Summarizer) {
	if cfg.AnthropicAPIKey == "" {
		logger.Warn("ANTHROPIC_API_KEY not set, using offline classification and summaries")
		return ai.KeywordClassifier{}, ai.StaticSummarizer{}
	}
	client := ai.NewClient(cfg.AnthropicAPIKey)
	return ai.NewAnthropicClassifier(client, cfg.AITimeout, cfg.AIMaxRetries, logger),
		ai.NewAnthropicSummarizer(client, cfg.AITimeout, cfg.AIMaxRetries)
}

func newLogger(env string) *zap.Logger {
	if env == "dev" {
		l, err := zap.NewDevelopment()
		if err != nil {
			panic(err)
		}
		return l
	}
	l, err := zap.NewProduction()
	if err != nil {
		panic(err)
	}
	return l
}
