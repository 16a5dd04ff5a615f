package handler

import (
	"errors"
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"

	"github.com/polymatrix/tracker/internal/apperr"
	"github.com/polymatrix/tracker/internal/service"
)

type WalletHandler struct {
	walletService *service.WalletService
}

func NewWalletHandler(walletService *service.WalletService) *WalletHandler {
	return &WalletHandler{walletService: walletService}
}

// GetRanking serves the leaderboard: wallets ordered by ROI descending.
func (h *WalletHandler) GetRanking(c *gin.Context) {
	limit, _ := strconv.Atoi(c.Query("limit"))

	wallets, err := h.walletService.Ranking(c.Request.Context(), limit)
	if err != nil {
		respondError(c, http.StatusInternalServerError, "WALLETS_RANKING_ERROR", err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"data": wallets, "count": len(wallets)})
}

// GetDetails serves the metrics snapshot for one wallet, recomputed from its
// transaction history.
func (h *WalletHandler) GetDetails(c *gin.Context) {
	address := c.Param("address")

	wallet, err := h.walletService.Details(c.Request.Context(), address)
	if errors.Is(err, apperr.ErrNotFound) {
		respondError(c, http.StatusNotFound, "WALLET_DETAILS_ERROR", errors.New("Wallet not found"))
		return
	}
	if err != nil {
		respondError(c, http.StatusInternalServerError, "WALLET_DETAILS_ERROR", err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"data": wallet})
}

// GetHistory serves a wallet's transactions, newest first.
func (h *WalletHandler) GetHistory(c *gin.Context) {
	address := c.Param("address")
	limit, _ := strconv.Atoi(c.Query("limit"))

	txs, err := h.walletService.History(c.Request.Context(), address, limit)
	if err != nil {
		respondError(c, http.StatusInternalServerError, "WALLET_HISTORY_ERROR", err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"data": txs, "count": len(txs)})
}

// GetFeed serves the newest transactions across all wallets.
func (h *WalletHandler) GetFeed(c *gin.Context) {
	limit, _ := strconv.Atoi(c.Query("limit"))

	txs, err := h.walletService.Feed(c.Request.Context(), limit)
	if err != nil {
		respondError(c, http.StatusInternalServerError, "FEED_ERROR", err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"data": txs, "count": len(txs)})
}
