// Package handler exposes the service layer over HTTP with gin.
package handler

import (
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"

	"github.com/polymatrix/tracker/internal/service"
)

type MarketHandler struct {
	marketService *service.MarketService
}

func NewMarketHandler(marketService *service.MarketService) *MarketHandler {
	return &MarketHandler{marketService: marketService}
}

// GetOverview serves the market dashboard payload: overview totals, top
// movers, and the full coin list.
func (h *MarketHandler) GetOverview(c *gin.Context) {
	overview, err := h.marketService.Overview(c.Request.Context())
	if err != nil {
		respondError(c, http.StatusInternalServerError, "MARKET_OVERVIEW_ERROR", err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"data": overview})
}

// GetHistory serves the historical price series for one symbol.
func (h *MarketHandler) GetHistory(c *gin.Context) {
	symbol := c.Param("symbol")
	limit, _ := strconv.Atoi(c.Query("limit"))

	points, err := h.marketService.History(c.Request.Context(), symbol, limit)
	if err != nil {
		respondError(c, http.StatusInternalServerError, "MARKET_HISTORY_ERROR", err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"data": points, "count": len(points)})
}

// respondError writes the shared error envelope.
func respondError(c *gin.Context, status int, code string, err error) {
	c.JSON(status, gin.H{
		"error": gin.H{
			"code":    code,
			"message": err.Error(),
		},
	})
}
