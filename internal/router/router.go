package router

import (
	"github.com/gin-gonic/gin"

	"github.com/polymatrix/tracker/internal/handler"
)

type Config struct {
	MarketHandler *handler.MarketHandler
	WalletHandler *handler.WalletHandler
	AlertHandler  *handler.AlertHandler
	FeedHandler   *handler.FeedHandler
}

func NewRouter(cfg *Config) *gin.Engine {
	router := gin.Default()

	api := router.Group("/v1/")
	registerMarketRoutes(api, cfg.MarketHandler)
	registerWalletRoutes(api, cfg.WalletHandler)
	registerAlertRoutes(api, cfg.AlertHandler)

	if cfg.FeedHandler != nil {
		api.GET("/ws/feed", cfg.FeedHandler.Stream)
	}

	return router
}
