package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"cartel47-backend/internal/catalog"
)

type GameHandler struct {
	games *catalog.Catalog
}

func NewGameHandler(games *catalog.Catalog) *GameHandler {
	return &GameHandler{games: games}
}

// ListGames returns the catalog, optionally filtered by ?category=.
func (h *GameHandler) ListGames(c *gin.Context) {
	games := h.games.All()
	if category := c.Query("category"); category != "" {
		games = h.games.ByCategory(catalog.Category(category))
	}
	if games == nil {
		games = []catalog.Game{}
	}

	c.JSON(http.StatusOK, gin.H{
		"total": len(games),
		"games": games,
	})
}

func (h *GameHandler) GetGame(c *gin.Context) {
	game, ok := h.games.Get(c.Param("gameId"))
	if !ok {
		c.JSON(http.StatusNotFound, gin.H{"error": "Game not found"})
		return
	}

	c.JSON(http.StatusOK, game)
}
