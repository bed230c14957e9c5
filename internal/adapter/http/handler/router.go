package handler

import (
	"voucher-settlement-gateway/internal/adapter/http/middleware"
	redisStore "voucher-settlement-gateway/internal/adapter/storage/redis"
	"voucher-settlement-gateway/internal/core/ports"

	"github.com/gin-gonic/gin"
	"github.com/rs/zerolog"
)

// RouterDeps holds all dependencies needed to set up routes.
type RouterDeps struct {
	SettlementSvc  ports.SettlementService
	BalanceSvc     ports.BalanceService
	AuthSvc        ports.AuthService
	ReportingSvc   ports.ReportingService
	TokenSvc       ports.TokenService
	MaxBatchSize   int
	RateLimitStore *redisStore.RateLimitStore // nil = rate limiting disabled
	HealthCheckers []ports.HealthChecker
	AuditSvc       ports.AuditService // nil = audit logging disabled
	Logger         zerolog.Logger
}

// SetupRouter initialises the Gin engine with all routes and middleware.
func SetupRouter(deps RouterDeps) *gin.Engine {
	gin.SetMode(gin.ReleaseMode)
	r := gin.New()

	// Global middleware
	r.Use(middleware.Recovery(deps.Logger))
	r.Use(middleware.RequestLogger(deps.Logger))
	r.Use(middleware.MaxBodySize(2 << 20)) // 2 MB request body limit, sized for max batches

	// Audit logging (after response)
	if deps.AuditSvc != nil {
		r.Use(middleware.AuditLog(deps.AuditSvc))
	}

	// Health check (deep — verifies PostgreSQL + Redis)
	r.GET("/health", HealthCheck(deps.HealthCheckers...))

	// Swagger documentation
	swagger := r.Group("/swagger")
	{
		swagger.GET("", SwaggerUI)
		swagger.GET("/spec", SwaggerSpec)
	}

	// Rate limit rules
	rules := middleware.DefaultRateLimitRules()

	// Helper: return rate limiter middleware if store is available, else noop.
	rl := func(group string) gin.HandlerFunc {
		if deps.RateLimitStore == nil {
			return func(c *gin.Context) { c.Next() }
		}
		rule, ok := rules[group]
		if !ok {
			return func(c *gin.Context) { c.Next() }
		}
		return middleware.RateLimiter(deps.RateLimitStore, group, rule, deps.Logger)
	}

	// API v1 routes
	v1 := r.Group("/api/v1")

	// --- Voucher sync (no session auth; vouchers carry their own signatures) ---
	syncHandler := NewSyncHandler(deps.SettlementSvc, deps.MaxBatchSize)
	v1.POST("/sync", rl("sync"), syncHandler.Sync)

	// --- Public routes (no auth) ---
	authHandler := NewAuthHandler(deps.AuthSvc)
	auth := v1.Group("/auth")
	{
		auth.POST("/register", rl("auth_register"), authHandler.Register)
		auth.POST("/login", rl("auth_login"), authHandler.Login)
	}

	// --- JWT-authenticated routes ---
	jwtAuth := middleware.JWTAuth(deps.TokenSvc, deps.Logger)
	walletHandler := NewWalletHandler(deps.BalanceSvc)
	dashboardHandler := NewDashboardHandler(deps.ReportingSvc)

	wallets := v1.Group("/wallets", jwtAuth)
	{
		wallets.GET("/balance", rl("wallets"), walletHandler.GetBalance)
		wallets.POST("/topup", rl("wallets"), walletHandler.Topup)
		wallets.POST("/pay", rl("wallets"), walletHandler.Pay)
	}

	// --- Merchant reporting (JWT + MERCHANT role) ---
	merchantOnly := middleware.RequireMerchant()

	dashboard := v1.Group("/dashboard", jwtAuth, merchantOnly)
	{
		dashboard.GET("/stats", rl("dashboard"), dashboardHandler.GetStats)
	}

	vouchers := v1.Group("/vouchers", jwtAuth, merchantOnly)
	{
		vouchers.GET("", rl("dashboard"), dashboardHandler.ListVouchers)
	}

	return r
}
