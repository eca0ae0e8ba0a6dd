package handlers

import (
	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"cartel47-backend/internal/catalog"
	"cartel47-backend/internal/middleware"
	"cartel47-backend/internal/services"
)

type RouterConfig struct {
	Bets        *services.BetService
	Games       *catalog.Catalog
	JWT         *services.JWTService
	RateLimiter services.RateLimiter
	Store       Pinger
	StoreDriver string
	WebSocket   *WebSocketHandler
	Log         *zap.Logger
}

func NewRouter(cfg RouterConfig) *gin.Engine {
	log := cfg.Log
	if log == nil {
		log = zap.NewNop()
	}

	authHandler := NewAuthHandler(cfg.Bets, log)
	betHandler := NewBetHandler(cfg.Bets, cfg.Games, log)
	gameHandler := NewGameHandler(cfg.Games)
	userHandler := NewUserHandler(cfg.Bets, log)
	healthHandler := NewHealthHandler(cfg.Store, cfg.StoreDriver, log)

	router := gin.New()
	router.Use(gin.Recovery())
	router.Use(middleware.RequestLogger(log))
	router.Use(middleware.CORS())

	router.GET("/health", healthHandler.Health)

	public := router.Group("/api")
	{
		public.POST("/auth/nonce", authHandler.IssueNonce)

		public.GET("/games", gameHandler.ListGames)
		public.GET("/games/:gameId", gameHandler.GetGame)

		public.POST("/bets/verify", betHandler.VerifyProof)
	}

	protected := router.Group("/api")
	protected.Use(middleware.AuthMiddleware(cfg.JWT))
	{
		protected.GET("/me", userHandler.GetCurrentUser)

		if cfg.WebSocket != nil {
			protected.GET("/ws", cfg.WebSocket.HandleWebSocket)
		}

		bets := protected.Group("/bets")
		{
			place := []gin.HandlerFunc{betHandler.PlaceBet}
			if cfg.RateLimiter != nil {
				place = append([]gin.HandlerFunc{middleware.RateLimitMiddleware(cfg.RateLimiter, "bet", log)}, place...)
			}
			bets.POST("/place", place...)

			bets.GET("/user/:userId", userHandler.GetBetHistory)
			bets.GET("/:betId", betHandler.GetBet)
			bets.POST("/:betId/settle", betHandler.SettleBet)
			bets.GET("/:betId/audit", betHandler.AuditBet)
		}
	}

	return router
}
