// @title Topic Quiz API
// @version 1.0
// @description Generates multiple-choice quizzes about any topic with a large language model.
// @host localhost:8000
// @BasePath /
// @schemes http https
package main

import (
	"context"
	"log"
	"os"
	"os/signal"
	"strconv"
	"syscall"
	"time"

	"topic-quiz/internal/adapter"
	"topic-quiz/internal/adapter/quizgen"
	"topic-quiz/internal/cache"
	"topic-quiz/internal/config"
	"topic-quiz/internal/domain"
	"topic-quiz/internal/handler"
	"topic-quiz/internal/llm"
	"topic-quiz/internal/logger"
	"topic-quiz/internal/service"

	_ "topic-quiz/cmd/api/docs"

	"github.com/redis/go-redis/v9"
	"go.uber.org/zap"
)

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

	ctx := context.Background()

	// Initialize LLM provider
	provider, err := llm.NewProvider(ctx, cfg.LLM, appLogger.Named("llm"))
	if err != nil {
		appLogger.Fatal("Failed to create LLM provider", zap.String("provider", cfg.LLM.Provider), zap.Error(err))
	}
	appLogger.Info("LLM provider initialized",
		zap.String("provider", cfg.LLM.Provider),
		zap.String("model", provider.ModelID()),
	)

	generator, err := quizgen.NewLLMQuizGenerator(provider, cfg.LLM.Timeout, cfg.LLM.MaxTokens, appLogger.Named("quizgen"))
	if err != nil {
		appLogger.Fatal("Failed to create quiz generator", zap.Error(err))
	}

	// Initialize Redis Client when the response cache is enabled
	var resultCache domain.Cache
	if cfg.Cache.Enabled {
		var redisClient *redis.Client
		redisClient, err = cache.NewRedisClient(ctx, cfg.Redis)
		if err != nil {
			appLogger.Fatal("Failed to connect to Redis", zap.Error(err))
		}
		defer redisClient.Close()
		appLogger.Info("Successfully connected to Redis", zap.String("address", cfg.Redis.Address))
		resultCache = adapter.NewRedisCacheAdapter(redisClient)
	}

	// Initialize services and handlers
	quizService := service.NewQuizService(generator, resultCache, cfg.Cache)
	quizHandler := handler.NewQuizHandler(quizService)
	healthHandler := handler.NewHealthHandler(resultCache)

	app := newApp(cfg.Server, quizHandler, healthHandler)

	// Start server
	go func() {
		appLogger.Info("Starting server", zap.Int("port", cfg.Server.Port), zap.String("env", cfg.Logger.Env))
		if err := app.Listen(":" + strconv.Itoa(cfg.Server.Port)); err != nil {
			appLogger.Fatal("Failed to start server", zap.Error(err))
		}
	}()

	// Graceful shutdown
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit
	appLogger.Info("Shutting down server...")
	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	if err := app.ShutdownWithContext(shutdownCtx); err != nil {
		appLogger.Fatal("Server forced to shutdown", zap.Error(err))
	}
	appLogger.Info("Server exited gracefully")
}
