package main

import (
	"context"
	"errors"
	"log"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/joho/godotenv"
	"go.uber.org/zap"

	"cartel47-backend/internal/catalog"
	"cartel47-backend/internal/config"
	cronrunner "cartel47-backend/internal/cron"
	"cartel47-backend/internal/handlers"
	"cartel47-backend/internal/logger"
	"cartel47-backend/internal/services"
)

func main() {
	if err := godotenv.Load(); err != nil {
		log.Println("No .env file found, using environment variables")
	}

	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("Failed to load config: %v", err)
	}

	zl, err := logger.New(cfg.Log)
	if err != nil {
		log.Fatalf("Failed to build logger: %v", err)
	}
	defer zl.Sync()

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	store, limiter, closeStore, err := openStore(ctx, cfg, zl)
	if err != nil {
		zl.Fatal("failed to open bet store", zap.String("driver", cfg.StoreDriver), zap.Error(err))
	}
	defer closeStore()

	if cfg.JWTSecret == "" {
		zl.Warn("JWT_SECRET is empty, using the development secret")
	}
	jwtService := services.NewJWTService(cfg)

	games := catalog.Default()
	nonces := services.NewNonceRegistry(cfg.NonceTTL)
	engine := services.NewSettlementEngine(store, games, cfg.HouseEdge, zl)
	betService := services.NewBetService(store, games, nonces, engine, zl)

	wsHandler := handlers.NewWebSocketHandler(zl)
	defer wsHandler.Close()
	betService.SetBroadcaster(wsHandler)

	runner := cronrunner.New(zl, ctx)
	if _, err := runner.AddSweep(cfg.NonceSweepSchedule, "nonces", nonces.Sweep); err != nil {
		zl.Fatal("invalid nonce sweep schedule", zap.String("schedule", cfg.NonceSweepSchedule), zap.Error(err))
	}
	if local, ok := limiter.(*services.LocalRateLimiter); ok {
		if _, err := runner.AddSweep("@every 1m", "rate_limits", local.Sweep); err != nil {
			zl.Fatal("failed to schedule rate limit sweep", zap.Error(err))
		}
	}
	runner.Start()
	defer runner.Stop()

	if cfg.Env == "production" {
		gin.SetMode(gin.ReleaseMode)
	}

	router := handlers.NewRouter(handlers.RouterConfig{
		Bets:        betService,
		Games:       games,
		JWT:         jwtService,
		RateLimiter: limiter,
		Store:       store,
		StoreDriver: cfg.StoreDriver,
		WebSocket:   wsHandler,
		Log:         zl,
	})

	srv := &http.Server{
		Addr:              ":" + cfg.Port,
		Handler:           router,
		ReadHeaderTimeout: 10 * time.Second,
	}

	go func() {
		zl.Info("server starting",
			zap.String("port", cfg.Port),
			zap.String("store", cfg.StoreDriver),
			zap.Duration("nonce_ttl", cfg.NonceTTL),
			zap.String("house_edge", cfg.HouseEdge.String()),
		)
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			zl.Fatal("failed to start server", zap.Error(err))
		}
	}()

	<-ctx.Done()
	zl.Info("shutting down")

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		zl.Error("server shutdown failed", zap.Error(err))
	}
}

// openStore builds the bet store named by STORE_DRIVER together with the
// bet rate limiter that fits it.
func openStore(ctx context.Context, cfg *config.Config, zl *zap.Logger) (services.BetStore, services.RateLimiter, func(), error) {
	switch cfg.StoreDriver {
	case config.StoreRedis:
		redisService, err := services.NewRedisService(cfg)
		if err != nil {
			return nil, nil, nil, err
		}
		closeFn := func() {
			if err := redisService.Close(); err != nil {
				zl.Warn("failed to close redis", zap.Error(err))
			}
		}
		return redisService, services.NewRedisRateLimiter(redisService, cfg.BetRateLimit), closeFn, nil

	case config.StorePostgres:
		pingCtx, cancel := context.WithTimeout(ctx, 10*time.Second)
		defer cancel()

		pg, err := services.OpenPostgresStore(pingCtx, cfg.PostgresDSN)
		if err != nil {
			return nil, nil, nil, err
		}
		if err := pg.Migrate(pingCtx); err != nil {
			pg.Close()
			return nil, nil, nil, err
		}
		closeFn := func() {
			if err := pg.Close(); err != nil {
				zl.Warn("failed to close postgres", zap.Error(err))
			}
		}
		return pg, services.NewLocalRateLimiter(cfg.BetRateLimit), closeFn, nil

	default:
		zl.Warn("using the in-memory bet store, bets are lost on restart")
		return services.NewMemoryStore(), services.NewLocalRateLimiter(cfg.BetRateLimit), func() {}, nil
	}
}
