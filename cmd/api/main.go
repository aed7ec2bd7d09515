package main

import (
	"context"
	"log"
	"os"
	"os/signal"
	"strconv"
	"syscall"
	"time"

	"utbk-prep/internal/adapter"
	"utbk-prep/internal/cache"
	"utbk-prep/internal/config"
	"utbk-prep/internal/database"
	"utbk-prep/internal/domain"
	"utbk-prep/internal/handler"
	"utbk-prep/internal/logger"
	"utbk-prep/internal/middleware"
	"utbk-prep/internal/repository"
	"utbk-prep/internal/service"

	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/cors"
	"github.com/gofiber/fiber/v2/middleware/recover"
	"go.uber.org/zap"
)

// requestLogger is a middleware that logs HTTP requests
func requestLogger() fiber.Handler {
	return func(c *fiber.Ctx) error {
		start := time.Now()
		path := c.Path()
		method := c.Method()

		err := c.Next()

		duration := time.Since(start)
		status := c.Response().StatusCode()

		logger.Get().Info("HTTP Request",
			zap.String("method", method),
			zap.String("path", path),
			zap.Int("status", status),
			zap.Duration("duration", duration),
			zap.String("ip", c.IP()),
			zap.String("user_agent", c.Get("User-Agent")),
		)

		return err
	}
}

func main() {
	// Load configuration
	cfg, err := config.LoadConfig()
	if err != nil {
		log.Fatalf("Failed to load config: %v", err)
	}

	// Initialize logger
	if err := logger.Initialize(cfg.Logger); err != nil {
		panic(err)
	}
	appLogger := logger.Get()
	defer logger.Sync()

	// Connect to database
	db, err := database.NewSQLXPostgresDB(cfg.GetDSN())
	if err != nil {
		appLogger.Fatal("Failed to connect to database", zap.Error(err))
	}

	// Initialize repositories
	questionRepository := repository.NewSQLXQuestionRepository(db)
	sessionRepository := repository.NewSQLXSessionRepository(db)
	submissionRepository := repository.NewSQLXSubmissionRepository(db)
	ledgerRepository := repository.NewSQLXLedgerRepository(db)
	idempotencyChecker := repository.NewLedgerIdempotencyChecker(ledgerRepository)
	txManager := repository.NewTransactionManagerAdapter(db)

	// Initialize Redis. The question pool cache is optional; the service
	// runs without it when Redis is unreachable.
	var poolCache domain.Cache
	redisClient, err := cache.NewRedisClient(cfg.Redis)
	if err != nil {
		appLogger.Warn("Failed to connect to Redis, question pool caching disabled", zap.Error(err))
	} else {
		appLogger.Info("Successfully connected to Redis")
		poolCache = adapter.NewRedisCacheAdapter(redisClient)
	}

	// Initialize services
	sampler := service.NewQuestionSampler(questionRepository, poolCache, cfg.Cache.QuestionPoolTTL)
	assessmentService := service.NewAssessmentService(sampler, sessionRepository)
	ledgerService := service.NewLedgerService(ledgerRepository, idempotencyChecker, txManager)
	submissionService := service.NewSubmissionService(questionRepository, sessionRepository, submissionRepository, txManager, ledgerService)

	authService, err := service.NewAuthService(cfg)
	if err != nil {
		appLogger.Fatal("Failed to create AuthService", zap.Error(err))
	}
	appLogger.Info("AuthService initialized")

	// Initialize handlers
	assessmentHandler := handler.NewAssessmentHandler(assessmentService, submissionService)
	catalogHandler := handler.NewCatalogHandler()
	walletHandler := handler.NewWalletHandler(ledgerService)
	validationMiddleware := middleware.NewValidationMiddleware()

	// Create Fiber app
	app := fiber.New(fiber.Config{
		ReadTimeout:  cfg.Server.ReadTimeout,
		WriteTimeout: cfg.Server.WriteTimeout,
		IdleTimeout:  20 * time.Second,
		BodyLimit:    10 * 1024 * 1024,
		ErrorHandler: middleware.ErrorHandler(),
	})

	app.Use(requestLogger())
	app.Use(cors.New(cors.Config{AllowOrigins: "*", AllowMethods: "GET,POST,PUT,DELETE,OPTIONS", AllowHeaders: "Origin,Content-Type,Accept,Authorization", MaxAge: 300}))
	app.Use(recover.New())

	// API group
	apiGroup := app.Group("/api")

	// Catalog routes
	apiGroup.Get("/subtests", catalogHandler.GetSubtests)

	// Assessment routes. Sessions can be started and scored anonymously;
	// a valid token attaches persistence and rewards.
	apiGroup.Post("/assessments/:mode/start",
		middleware.OptionalAuth(authService),
		validationMiddleware.ValidateAssessmentMode(),
		assessmentHandler.StartAssessment)
	apiGroup.Post("/assessments/:mode/submit",
		middleware.OptionalAuth(authService),
		validationMiddleware.ValidateAssessmentMode(),
		assessmentHandler.SubmitAssessment)
	// Session metadata is owner-scoped, so the route requires a token.
	apiGroup.Get("/sessions/:id", middleware.Protected(authService), assessmentHandler.GetSession)

	// User routes (all protected)
	userGroup := apiGroup.Group("/users", middleware.Protected(authService))
	userGroup.Get("/me/wallet", walletHandler.GetMyWallet)
	userGroup.Get("/me/wallet/transactions", walletHandler.GetMyTransactions)
	userGroup.Post("/me/wallet/spend", walletHandler.SpendCoins)

	// Start server
	go func() {
		appLogger.Info("Starting server", zap.Int("port", cfg.Server.Port), zap.String("env", os.Getenv("ENV")))
		if err := app.Listen(":" + strconv.Itoa(cfg.Server.Port)); err != nil {
			appLogger.Fatal("Failed to start server", zap.Error(err))
		}
	}()

	// Graceful shutdown
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit
	appLogger.Info("Shutting down server...")
	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	if err := app.ShutdownWithContext(ctx); err != nil {
		appLogger.Fatal("Server forced to shutdown", zap.Error(err))
	}
	appLogger.Info("Server exited gracefully")
}
