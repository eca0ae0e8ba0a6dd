package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"cartel47-backend/internal/catalog"
	"cartel47-backend/internal/middleware"
	"cartel47-backend/internal/models"
	"cartel47-backend/internal/services"
)

type BetHandler struct {
	bets  *services.BetService
	games *catalog.Catalog
	log   *zap.Logger
}

func NewBetHandler(bets *services.BetService, games *catalog.Catalog, log *zap.Logger) *BetHandler {
	return &BetHandler{
		bets:  bets,
		games: games,
		log:   log,
	}
}

func (h *BetHandler) PlaceBet(c *gin.Context) {
	userID := c.GetString(middleware.ContextUserID)

	var req models.PlaceBetRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respondBindError(c, err)
		return
	}

	bet, err := h.bets.PlaceBet(c.Request.Context(), userID, req)
	if err != nil {
		respondError(c, h.log, err)
		return
	}

	game, _ := h.games.Get(bet.GameID)

	c.JSON(http.StatusCreated, gin.H{
		"success": true,
		"bet":     bet,
		"game":    gameSummary(game),
	})
}

func (h *BetHandler) GetBet(c *gin.Context) {
	userID := c.GetString(middleware.ContextUserID)

	bet, proof, err := h.bets.GetBet(c.Request.Context(), c.Param("betId"), userID)
	if err != nil {
		respondError(c, h.log, err)
		return
	}

	game, _ := h.games.Get(bet.GameID)

	c.JSON(http.StatusOK, gin.H{
		"bet":   bet,
		"game":  gameSummary(game),
		"proof": proof,
	})
}

func (h *BetHandler) SettleBet(c *gin.Context) {
	userID := c.GetString(middleware.ContextUserID)

	bet, settlement, proof, err := h.bets.SettleBet(c.Request.Context(), c.Param("betId"), userID)
	if err != nil {
		respondError(c, h.log, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"success":    true,
		"bet":        bet,
		"settlement": settlement,
		"proof":      proof,
	})
}

func (h *BetHandler) AuditBet(c *gin.Context) {
	userID := c.GetString(middleware.ContextUserID)
	isAdmin := c.GetBool(middleware.ContextIsAdmin)

	audit, err := h.bets.AuditBet(c.Request.Context(), c.Param("betId"), userID, isAdmin)
	if err != nil {
		respondError(c, h.log, err)
		return
	}

	c.JSON(http.StatusOK, audit)
}

// VerifyProof is public: anyone holding a nonce and client seed can
// recompute the roll.
func (h *BetHandler) VerifyProof(c *gin.Context) {
	var req models.VerifyRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respondBindError(c, err)
		return
	}

	resp, err := h.bets.VerifyProof(req)
	if err != nil {
		respondError(c, h.log, err)
		return
	}

	c.JSON(http.StatusOK, resp)
}

func gameSummary(g catalog.Game) gin.H {
	return gin.H{
		"id":         g.ID,
		"name":       g.Name,
		"category":   g.Category,
		"rtp":        g.RTP,
		"volatility": g.Volatility,
		"min_bet":    g.MinBet,
		"max_bet":    g.MaxBet,
	}
}
