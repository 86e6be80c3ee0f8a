package main

import (
	"net/http"

	"giftroom.backend/internal/interfaces/http/handlers"
	"giftroom.backend/internal/interfaces/http/middleware"
	"github.com/gin-gonic/gin"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

type routeDeps struct {
	giftHandler    *handlers.GiftHandler
	walletHandler  *handlers.WalletHandler
	grantHandler   *handlers.GrantHandler
	adminHandler   *handlers.AdminHandler
	authMiddleware gin.HandlerFunc
}

func applyCORSMiddleware(r *gin.Engine) {
	r.Use(func(c *gin.Context) {
		c.Writer.Header().Set("Access-Control-Allow-Origin", "*")
		c.Writer.Header().Set("Access-Control-Allow-Methods", "GET, POST, PUT, DELETE, OPTIONS")
		c.Writer.Header().Set("Access-Control-Allow-Headers", "Authorization, Content-Type, X-Request-ID")

		if c.Request.Method == http.MethodOptions {
			c.AbortWithStatus(http.StatusNoContent)
			return
		}
		c.Next()
	})
}

func registerHealthRoute(r *gin.Engine) {
	r.GET("/health", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{
			"status":  "ok",
			"service": "giftroom-backend",
			"version": "0.1.0",
		})
	})
}

func registerMetricsRoute(r *gin.Engine) {
	r.GET("/metrics", gin.WrapH(promhttp.Handler()))
}

func registerAPIV1Routes(r *gin.Engine, d routeDeps) {
	v1 := r.Group("/api/v1")
	{
		// Gift routes
		gifts := v1.Group("/gifts")
		{
			gifts.GET("", d.giftHandler.ListGifts)
			gifts.POST("/send", d.authMiddleware, d.giftHandler.SendGift)
		}

		// Wallet routes (protected)
		wallet := v1.Group("/wallet")
		wallet.Use(d.authMiddleware)
		{
			wallet.GET("", d.walletHandler.GetWallet)
			wallet.GET("/history", d.walletHandler.GetHistory)
			wallet.POST("/topup", d.walletHandler.TopUp)
		}

		// Grant routes (protected)
		grants := v1.Group("/grants")
		grants.Use(d.authMiddleware)
		{
			grants.POST("/purchase", d.grantHandler.Purchase)
			grants.GET("/:type", d.grantHandler.GetStatus)
		}

		// Admin routes (protected)
		admin := v1.Group("/admin")
		admin.Use(d.authMiddleware, middleware.RequireAdmin())
		{
			admin.POST("/grants", d.adminHandler.GrantPrivilege)
			admin.DELETE("/grants", d.adminHandler.RevokePrivilege)
			admin.POST("/wallets/adjust", d.adminHandler.AdjustWallet)

			admin.GET("/sweeps", d.adminHandler.ListSweeps)
			admin.POST("/sweeps/run", d.adminHandler.RunSweeps)
			admin.POST("/sweeps/:name/start", d.adminHandler.StartSweep)
			admin.POST("/sweeps/:name/stop", d.adminHandler.StopSweep)
		}
	}
}
