package router

import (
	"github.com/gin-gonic/gin"

	"github.com/polymatrix/tracker/internal/handler"
)

func registerMarketRoutes(router *gin.RouterGroup, marketHandler *handler.MarketHandler) {
	market := router.Group("/market")
	{
		market.GET("/overview", marketHandler.GetOverview)
		market.GET("/history/:symbol", marketHandler.GetHistory)
	}
}

func registerWalletRoutes(router *gin.RouterGroup, walletHandler *handler.WalletHandler) {
	wallets := router.Group("/wallets")
	{
		wallets.GET("/ranking", walletHandler.GetRanking)
		wallets.GET("/:address", walletHandler.GetDetails)
		wallets.GET("/:address/history", walletHandler.GetHistory)
	}
	router.GET("/feed", walletHandler.GetFeed)
}

func registerAlertRoutes(router *gin.RouterGroup, alertHandler *handler.AlertHandler) {
	alerts := router.Group("/alerts")
	{
		alerts.POST("", alertHandler.Create)
		alerts.GET("", alertHandler.List)
		alerts.DELETE("/:id", alertHandler.Deactivate)
	}
}
