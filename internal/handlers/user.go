package handlers

import (
	"net/http"
	"strconv"
	"strings"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"cartel47-backend/internal/middleware"
	"cartel47-backend/internal/models"
	"cartel47-backend/internal/services"
)

type UserHandler struct {
	bets *services.BetService
	log  *zap.Logger
}

func NewUserHandler(bets *services.BetService, log *zap.Logger) *UserHandler {
	return &UserHandler{
		bets: bets,
		log:  log,
	}
}

func (h *UserHandler) GetCurrentUser(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{
		"user_id":        c.GetString(middleware.ContextUserID),
		"wallet_address": c.GetString(middleware.ContextWalletAddress),
		"is_admin":       c.GetBool(middleware.ContextIsAdmin),
	})
}

// GetBetHistory serves ?status=PENDING|SETTLED&limit=&offset=.
func (h *UserHandler) GetBetHistory(c *gin.Context) {
	actorID := c.GetString(middleware.ContextUserID)

	q := models.BetQuery{UserID: c.Param("userId")}

	if raw := c.Query("status"); raw != "" {
		status := models.BetStatus(strings.ToUpper(raw))
		q.Status = &status
	}

	var err error
	if q.Limit, err = intQuery(c, "limit"); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid limit", "details": err.Error()})
		return
	}
	if q.Offset, err = intQuery(c, "offset"); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid offset", "details": err.Error()})
		return
	}

	page, err := h.bets.ListBets(c.Request.Context(), actorID, q)
	if err != nil {
		respondError(c, h.log, err)
		return
	}

	c.JSON(http.StatusOK, page)
}

func intQuery(c *gin.Context, key string) (int, error) {
	raw := c.Query(key)
	if raw == "" {
		return 0, nil
	}
	return strconv.Atoi(raw)
}
