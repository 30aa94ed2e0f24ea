package main

import (
	"context"
	"errors"
	"fmt"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/cors"
	"github.com/gofiber/fiber/v2/middleware/logger"
	"github.com/gofiber/fiber/v2/middleware/recover"
	"github.com/redis/go-redis/v9"
	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"

	"alfredoptarigan/resume-analyzer/internal/config"
	"alfredoptarigan/resume-analyzer/internal/handlers"
	"alfredoptarigan/resume-analyzer/internal/models"
	"alfredoptarigan/resume-analyzer/internal/repositories"
	"alfredoptarigan/resume-analyzer/internal/services"
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		log.Fatal().Err(err).Msg("❌ Failed to load config")
	}
	appLogger := config.NewLogger(cfg.Log)
	appLogger.Info().Str("env", cfg.Server.Env).Msg("✅ Config loaded successfully")

	ctx := context.Background()

	db, err := config.InitDatabase(cfg, appLogger)
	if err != nil {
		appLogger.Fatal().Err(err).Msg("❌ Failed to initialize database")
	}

	analysisRepo := repositories.NewAnalysisRepository(db)
	appLogger.Info().Msg("✅ Repositories initialized successfully")

	storage, err := newStorage(cfg, appLogger)
	if err != nil {
		appLogger.Fatal().Err(err).Msg("❌ Failed to initialize storage")
	}
	if err := storage.EnsureReady(ctx); err != nil {
		appLogger.Fatal().Err(err).Str("driver", cfg.Storage.Driver).Msg("❌ Storage is not ready")
	}
	appLogger.Info().Str("driver", cfg.Storage.Driver).Msg("✅ Storage initialized successfully")

	geminiService, err := services.NewGeminiService(ctx, services.GeminiOptions{
		APIKey:            cfg.Gemini.APIKey,
		Model:             cfg.Gemini.Model,
		Temperature:       cfg.Gemini.Temperature,
		Timeout:           cfg.Gemini.Timeout,
		MaxAttempts:       cfg.Worker.RetryMaxAttempts,
		RetryInitialDelay: cfg.Worker.RetryInitialDelay,
	}, appLogger)
	if err != nil {
		appLogger.Fatal().Err(err).Msg("❌ Failed to initialize Gemini AI")
	}
	appLogger.Info().Str("model", geminiService.ModelName()).Msg("✅ Gemini AI initialized successfully")

	evaluatorService := services.NewEvaluatorService(geminiService, appLogger)
	analyzerService := services.NewAnalyzerService(
		storage,
		services.NewTextExtractor(),
		evaluatorService,
		analysisRepo,
		appLogger,
	)
	batchAnalyzer := services.NewBatchAnalyzer(analyzerService, cfg.Worker.Concurrency, appLogger)

	limiter, closeLimiter := newRateLimiter(ctx, cfg, appLogger)
	defer closeLimiter()
	appLogger.Info().Msg("✅ Services initialized successfully")

	uploadHandler := handlers.NewUploadHandler(
		analyzerService,
		batchAnalyzer,
		limiter,
		cfg.Storage.MaxFileSize,
		cfg.Storage.MaxBatchFiles,
		appLogger,
	)
	resultHandler := handlers.NewResultHandler(analyzerService, appLogger)
	appLogger.Info().Msg("✅ Handlers initialized")

	// Batches carry several files in one body; one extra file's worth covers multipart framing.
	bodyLimit := int(cfg.Storage.MaxFileSize) * (cfg.Storage.MaxBatchFiles + 1)
	app := fiber.New(fiber.Config{
		AppName:      "Resume Analyzer API",
		ReadTimeout:  30 * time.Second,
		WriteTimeout: cfg.Gemini.Timeout + 30*time.Second,
		BodyLimit:    bodyLimit,
		ErrorHandler: customErrorHandler,
	})

	app.Use(recover.New())
	app.Use(logger.New(logger.Config{
		Format:     "[${time}] ${status} - ${latency} ${method} ${path}\n",
		TimeFormat: "2006-01-02 15:04:05",
	}))
	app.Use(cors.New(cors.Config{
		AllowOrigins: "*",
		AllowMethods: "GET,POST,DELETE,OPTIONS",
		AllowHeaders: "Origin, Content-Type, Accept, Authorization",
	}))

	if cfg.Storage.Driver == config.StorageDriverLocal {
		app.Static(services.LocalFilesRoute, cfg.Storage.UploadPath)
	}

	api := app.Group("/api/v1")
	handlers.RegisterRoutes(api, handlers.NewAuthMiddleware(cfg.Auth.JWTSecret), uploadHandler, resultHandler)

	app.Get("/", func(c *fiber.Ctx) error {
		return c.JSON(fiber.Map{
			"message": "Resume Analyzer API",
			"version": "1.0.0",
			"prompt":  services.PromptVersion,
			"endpoints": []string{
				"GET /api/v1/health",
				"POST /api/v1/analyses",
				"POST /api/v1/analyses/batch",
				"GET /api/v1/analyses",
				"GET /api/v1/analyses/:id",
				"DELETE /api/v1/analyses/:id",
			},
		})
	})

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)

	go func() {
		<-quit
		appLogger.Info().Msg("🛑 Shutting down server...")
		if err := app.ShutdownWithTimeout(cfg.Gemini.Timeout); err != nil {
			appLogger.Error().Err(err).Msg("❌ Server forced to shutdown")
		}
	}()

	addr := fmt.Sprintf(":%s", cfg.Server.Port)
	appLogger.Info().Str("addr", addr).Msg("🚀 Server starting")

	if err := app.Listen(addr); err != nil {
		appLogger.Fatal().Err(err).Msg("❌ Failed to start server")
	}
}

func newStorage(cfg *config.Config, logger zerolog.Logger) (services.ObjectStorage, error) {
	switch cfg.Storage.Driver {
	case config.StorageDriverMinIO:
		return services.NewMinIOStorage(services.MinIOOptions{
			Endpoint:      cfg.MinIO.Endpoint,
			AccessKey:     cfg.MinIO.AccessKey,
			SecretKey:     cfg.MinIO.SecretKey,
			Bucket:        cfg.MinIO.Bucket,
			Location:      cfg.MinIO.Location,
			UseSSL:        cfg.MinIO.UseSSL,
			PublicBaseURL: cfg.Storage.PublicBaseURL,
		}, logger)
	default:
		return services.NewLocalStorage(cfg.Storage.UploadPath, cfg.Storage.PublicBaseURL), nil
	}
}

// newRateLimiter returns the Redis limiter, or a no-op one when Redis is not configured.
func newRateLimiter(ctx context.Context, cfg *config.Config, logger zerolog.Logger) (services.RateLimiter, func()) {
	if cfg.Redis.Addr == "" || cfg.Redis.RateLimitPerMinute == 0 {
		logger.Info().Msg("ℹ️ Rate limiting disabled")
		return services.NewNoopRateLimiter(), func() {}
	}

	client := redis.NewClient(&redis.Options{
		Addr:     cfg.Redis.Addr,
		Password: cfg.Redis.Password,
		DB:       cfg.Redis.DB,
	})
	if err := client.Ping(ctx).Err(); err != nil {
		logger.Warn().Err(err).Str("addr", cfg.Redis.Addr).Msg("⚠️ Redis unreachable, limiter will fail open")
	}

	logger.Info().Int("per_minute", cfg.Redis.RateLimitPerMinute).Msg("✅ Rate limiter initialized")
	return services.NewRedisRateLimiter(client, cfg.Redis.RateLimitPerMinute, time.Minute), func() {
		_ = client.Close()
	}
}

func customErrorHandler(c *fiber.Ctx, err error) error {
	code := fiber.StatusInternalServerError

	var e *fiber.Error
	if errors.As(err, &e) {
		code = e.Code
	}

	return c.Status(code).JSON(models.ErrorResponse{
		Error: err.Error(),
		Code:  code,
	})
}
