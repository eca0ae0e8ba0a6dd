package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"cartel47-backend/internal/services"
)

type AuthHandler struct {
	bets *services.BetService
	log  *zap.Logger
}

func NewAuthHandler(bets *services.BetService, log *zap.Logger) *AuthHandler {
	return &AuthHandler{bets: bets, log: log}
}

// IssueNonce hands out a fresh single-use nonce.
func (h *AuthHandler) IssueNonce(c *gin.Context) {
	nonce, err := h.bets.IssueNonce()
	if err != nil {
		respondError(c, h.log, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"nonce":      nonce.Value,
		"expires_in": nonce.TTL(),
		"issued_at":  nonce.CreatedAt,
	})
}
