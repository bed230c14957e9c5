package main

import (
	"context"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"voucher-settlement-gateway/config"
	httpHandler "voucher-settlement-gateway/internal/adapter/http/handler"
	pgStorage "voucher-settlement-gateway/internal/adapter/storage/postgres"
	redisStorage "voucher-settlement-gateway/internal/adapter/storage/redis"
	"voucher-settlement-gateway/internal/core/ports"
	"voucher-settlement-gateway/internal/service"
	"voucher-settlement-gateway/pkg/logger"
)

func main() {
	// Load configuration
	cfg, err := config.Load("")
	if err != nil {
		fmt.Fprintf(os.Stderr, "failed to load config: %v\n", err)
		os.Exit(1)
	}

	// Initialize logger
	log := logger.New(cfg.Log.Level, cfg.Log.Pretty)

	log.Info().
		Str("mode", cfg.Server.Mode).
		Int("port", cfg.Server.Port).
		Msg("Starting Voucher Settlement Gateway")

	ctx := context.Background()

	// Initialize PostgreSQL pool
	pool, err := pgStorage.NewPool(ctx, cfg.Database, log)
	if err != nil {
		log.Fatal().Err(err).Msg("Failed to connect to PostgreSQL")
	}
	defer pool.Close()
	log.Info().Msg("PostgreSQL connected")

	// Initialize Redis client
	rdb, err := redisStorage.NewClient(ctx, cfg.Redis, log)
	if err != nil {
		log.Fatal().Err(err).Msg("Failed to connect to Redis")
	}
	defer rdb.Close()
	log.Info().Msg("Redis connected")

	// Initialize repositories
	voucherRepo := pgStorage.NewVoucherRepo(pool)
	identityKeyRepo := pgStorage.NewIdentityKeyRepo(pool)
	walletRepo := pgStorage.NewWalletRepo(pool)
	movementRepo := pgStorage.NewMovementRepo(pool)
	userRepo := pgStorage.NewUserRepo(pool)
	auditRepo := pgStorage.NewAuditRepository(pool)
	transactor := pgStorage.NewTransactor(pool)

	// Initialize Redis stores
	keyCache := redisStorage.NewKeyCache(rdb)
	dedupCache := redisStorage.NewDedupCache(rdb)
	rateLimitStore := redisStorage.NewRateLimitStore(rdb)

	// Initialize core services
	hashSvc := service.NewArgon2HashService()
	tokenSvc := service.NewJWTTokenService(cfg.JWT.Secret, cfg.JWT.Expiry, cfg.JWT.Issuer)
	payloadBuilder := service.NewCanonicalPayloadBuilder()
	verifier := service.NewSecp256k1Verifier()
	keyResolver := service.NewKeyResolver(identityKeyRepo, keyCache, cfg.Settlement.KeyCacheTTL, log)

	// Initialize business services
	settlementSvc := service.NewSettlementService(
		voucherRepo,
		keyResolver,
		payloadBuilder,
		verifier,
		dedupCache,
		cfg.Settlement.DedupTTL,
		log,
	)
	balanceSvc := service.NewBalanceService(
		walletRepo,
		movementRepo,
		transactor,
		cfg.Balance.MaxTopupAmount,
		cfg.Balance.HistoryLimit,
		log,
	)
	authSvc := service.NewAuthService(userRepo, walletRepo, hashSvc, tokenSvc)
	reportingSvc := service.NewReportingService(voucherRepo)
	auditSvc := service.NewAuditService(auditRepo, log)

	// Initialize health checkers
	pgHealth := pgStorage.NewHealthCheck(pool)
	redisHealth := redisStorage.NewHealthCheck(rdb)

	// Load OpenAPI spec for Swagger UI
	if specBytes, err := os.ReadFile("docs/api/openapi.yaml"); err == nil {
		httpHandler.SetSwaggerSpec(specBytes)
		log.Info().Msg("OpenAPI spec loaded for Swagger UI at /swagger")
	} else {
		log.Warn().Err(err).Msg("OpenAPI spec not found, Swagger UI will be unavailable")
	}

	// Setup Gin router with all routes
	router := httpHandler.SetupRouter(httpHandler.RouterDeps{
		SettlementSvc:  settlementSvc,
		BalanceSvc:     balanceSvc,
		AuthSvc:        authSvc,
		ReportingSvc:   reportingSvc,
		TokenSvc:       tokenSvc,
		MaxBatchSize:   cfg.Settlement.MaxBatchSize,
		RateLimitStore: rateLimitStore,
		HealthCheckers: []ports.HealthChecker{pgHealth, redisHealth},
		AuditSvc:       auditSvc,
		Logger:         log,
	})

	// HTTP Server with graceful shutdown
	addr := fmt.Sprintf("%s:%d", cfg.Server.Host, cfg.Server.Port)
	srv := &http.Server{
		Addr:    addr,
		Handler: router,
	}

	// Start server in goroutine
	go func() {
		log.Info().Str("addr", addr).Msg("HTTP server listening")
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			log.Fatal().Err(err).Msg("HTTP server failed")
		}
	}()

	// Graceful shutdown
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit
	log.Info().Msg("Shutting down server...")

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	if err := srv.Shutdown(shutdownCtx); err != nil {
		log.Error().Err(err).Msg("Server forced to shutdown")
	}

	log.Info().Msg("Server exited")
}
