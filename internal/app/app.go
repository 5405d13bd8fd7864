package app

import (
	"context"
	"database/sql"
	"fmt"
	"log"
	"net/http"
	"os/signal"
	"syscall"
	"time"

	"bouncer/internal/audit"
	"bouncer/internal/config"
	"bouncer/internal/handlers"
	"bouncer/internal/middleware"
	"bouncer/internal/ratelimit"
	"bouncer/internal/repositories"
	"bouncer/internal/routes"
	"bouncer/internal/services"
	"bouncer/internal/utils"

	"github.com/gin-gonic/gin"
	_ "github.com/lib/pq"
	"github.com/redis/go-redis/v9"
	"go.uber.org/zap"
	"golang.org/x/time/rate"

	_ "bouncer/docs"
	swaggerFiles "github.com/swaggo/files"
	ginSwagger "github.com/swaggo/gin-swagger"
)

func Run() {
	cfg := config.LoadConfig()

	logger, err := audit.NewLogger(cfg.Logging.Level)
	if err != nil {
		log.Fatal("audit logger init: ", err)
	}
	defer func() { _ = logger.Sync() }()

	ctx, cancel := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer cancel()

	// === DB ===
	db, err := sql.Open("postgres", cfg.Database.DSN)
	if err != nil {
		log.Fatal("db open: ", err)
	}
	defer func() {
		if err := db.Close(); err != nil {
			logger.Warn("[shutdown] db close", zap.Error(err))
		}
	}()

	// === Rate limit store ===
	var store ratelimit.Store
	if cfg.RateLimit.Enabled {
		if cfg.RateLimit.Redis.Enabled {
			rdb := redis.NewClient(&redis.Options{
				Addr:     cfg.RateLimit.Redis.Addr,
				Password: cfg.RateLimit.Redis.Password,
				DB:       cfg.RateLimit.Redis.DB,
			})
			defer func() { _ = rdb.Close() }()

			pingCtx, pingCancel := context.WithTimeout(ctx, 2*time.Second)
			_, err := rdb.Ping(pingCtx).Result()
			pingCancel()
			if err != nil {
				log.Fatal("redis ping: ", err)
			}
			store = ratelimit.NewRedisStore(rdb, cfg.RateLimitWindow(), cfg.RateLimit.Max, logger)
		} else {
			mem := ratelimit.NewMemoryStore(cfg.RateLimitWindow(), cfg.RateLimit.Max)
			mem.StartJanitor(ctx)
			store = mem
		}
	}

	// === Repos / services ===
	waitlistRepo := repositories.NewWaitlistRepository(db)
	if n, err := waitlistRepo.Count(ctx); err == nil {
		// internal visibility only; the size is never exposed over HTTP
		logger.Info("[startup] waitlist size", zap.Int64("count", n))
	}

	var alerts *services.AlertService
	if cfg.Telegram.Enabled {
		alerts = services.NewAlertService(cfg.Telegram.Token, cfg.Telegram.ChatID, logger)
	}

	var challenge *services.ChallengeService
	if cfg.Challenge.Enabled {
		client := utils.NewTurnstileClient(cfg.Challenge.Secret, cfg.Challenge.VerifyURL, cfg.ChallengeTimeout())
		challenge = services.NewChallengeService(client, logger)
	}

	signupService := services.NewSignupService(waitlistRepo, alerts, logger)

	// operational safety net: a placeholder secret must never reach prod
	if cfg.Challenge.Enabled && cfg.Challenge.Secret == config.PlaceholderSecret && cfg.IsProduction() {
		logger.Warn("[startup] challenge secret is the known placeholder value in a production deployment")
		alerts.Notify("bouncer: challenge secret is still the placeholder value in production")
	}

	// === Handlers ===
	subscribeHandler := handlers.NewSubscribeHandler(signupService, challenge, logger)
	healthHandler := handlers.NewHealthHandler(cfg)

	// === Gin ===
	router := gin.New()
	router.Use(gin.Logger())
	router.Use(gin.CustomRecovery(func(c *gin.Context, recovered any) {
		logger.Error("[audit][panic] unexpected failure", zap.Any("panic", recovered))
		c.AbortWithStatusJSON(http.StatusInternalServerError, gin.H{"error": "Internal security error"})
	}))
	router.Use(middleware.CORS())

	// Swagger
	router.GET("/swagger/*any", ginSwagger.WrapHandler(swaggerFiles.Handler))

	// abuse-mitigation chain, subscribe route only
	var guards []gin.HandlerFunc
	if cfg.Flood.RPS > 0 {
		guards = append(guards, middleware.FloodGuard(rate.NewLimiter(rate.Limit(cfg.Flood.RPS), cfg.Flood.Burst)))
	}
	if store != nil {
		guards = append(guards, middleware.RateLimit(store, logger))
	}

	routes.SetupRoutes(router, subscribeHandler, healthHandler, guards)

	// === Run ===
	listenAddr := fmt.Sprintf(":%d", cfg.Server.Port)
	logger.Info("[startup] bouncer listening",
		zap.String("addr", listenAddr),
		zap.Bool("ratelimit", cfg.RateLimit.Enabled),
		zap.Bool("ratelimit_redis", cfg.RateLimit.Redis.Enabled),
		zap.Bool("challenge", cfg.Challenge.Enabled))
	if err := router.Run(listenAddr); err != nil {
		log.Fatal("server: ", err)
	}
}
