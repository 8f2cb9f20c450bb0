package main

import (
	"context"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"

	"github.com/joho/godotenv"
	"github.com/prometheus/client_golang/prometheus"
	goredis "github.com/redis/go-redis/v9"
	"github.com/rs/zerolog/log"

	httpAdapter "github.com/iho/tinyledger/internal/adapter/http"
	"github.com/iho/tinyledger/internal/adapter/http/handler"
	"github.com/iho/tinyledger/internal/adapter/http/middleware"
	"github.com/iho/tinyledger/internal/adapter/repository/memory"
	redisRepo "github.com/iho/tinyledger/internal/adapter/repository/redis"
	"github.com/iho/tinyledger/internal/infrastructure/config"
	"github.com/iho/tinyledger/internal/infrastructure/eventpublisher"
	"github.com/iho/tinyledger/internal/infrastructure/logger"
	"github.com/iho/tinyledger/internal/infrastructure/metrics"
	"github.com/iho/tinyledger/internal/infrastructure/redis"
	"github.com/iho/tinyledger/internal/usecase"
)

func main() {
	// Load .env if present; environment variables win either way
	_ = godotenv.Load()

	cfg, err := config.Load()
	if err != nil {
		log.Fatal().Err(err).Msg("failed to load configuration")
	}

	appLogger := logger.New(logger.Config{
		Level:  cfg.LogLevel,
		Format: cfg.LogFormat,
	})
	log.Logger = appLogger

	ctx := context.Background()

	// Core ledger state lives in process memory
	movementLog := memory.NewMovementLog()
	balanceTracker := memory.NewBalanceTracker()
	idempotencyIndex := memory.NewIdempotencyIndex()

	// Movement events go to Kafka when brokers are configured, otherwise
	// to the log at debug level
	var publisher usecase.EventPublisher
	if brokers := cfg.KafkaBrokerList(); len(brokers) > 0 {
		kafkaPublisher := eventpublisher.NewKafkaPublisher(brokers, cfg.KafkaTopic, appLogger)
		defer kafkaPublisher.Close()
		publisher = kafkaPublisher
		appLogger.Info().Strs("brokers", brokers).Str("topic", cfg.KafkaTopic).Msg("publishing movement events to kafka")
	} else {
		publisher = eventpublisher.NewLogPublisher(appLogger)
	}

	ledgerUC := usecase.NewLedgerUseCase(movementLog, balanceTracker, idempotencyIndex, publisher)

	appMetrics := metrics.New(prometheus.DefaultRegisterer)

	// Redis response replay cache is optional
	var idempotencyStore usecase.IdempotencyStore
	redisClient, err := setupRedis(ctx, cfg.RedisURL)
	if err != nil {
		log.Fatal().Err(err).Msg("failed to connect to redis")
	}
	if redisClient != nil {
		defer redisClient.Close()
		idempotencyStore = redisRepo.NewIdempotencyStore(redisClient)
		appLogger.Info().Msg("connected to redis")
	}

	ledgerHandler := handler.NewLedgerHandler(ledgerUC, appMetrics)
	healthHandler := handler.NewHealthHandler(redisClient)

	router := httpAdapter.NewRouter(httpAdapter.RouterConfig{
		LedgerHandler:    ledgerHandler,
		HealthHandler:    healthHandler,
		Logger:           appLogger,
		RateLimiter:      middleware.NewRateLimiter(cfg.RateLimitRPS, cfg.RateLimitBurst),
		IdempotencyStore: idempotencyStore,
	})

	server := &http.Server{
		Addr:         fmt.Sprintf(":%s", cfg.HTTPPort),
		Handler:      router,
		ReadTimeout:  cfg.HTTPReadTimeout,
		WriteTimeout: cfg.HTTPWriteTimeout,
		IdleTimeout:  cfg.HTTPIdleTimeout,
	}

	go func() {
		appLogger.Info().Str("port", cfg.HTTPPort).Msg("starting server")
		if err := server.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			log.Fatal().Err(err).Msg("server failed")
		}
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	appLogger.Info().Msg("shutting down server...")

	shutdownCtx, cancel := context.WithTimeout(context.Background(), cfg.HTTPShutdownTimeout)
	defer cancel()

	if err := server.Shutdown(shutdownCtx); err != nil {
		log.Fatal().Err(err).Msg("server forced to shutdown")
	}

	appLogger.Info().Msg("server stopped")
}

func setupRedis(ctx context.Context, url string) (*goredis.Client, error) {
	if url == "" {
		return nil, nil
	}

	return redis.NewClient(ctx, url)
}
