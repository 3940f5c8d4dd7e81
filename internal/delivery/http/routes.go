package http

import (
	"github.com/gin-gonic/gin"

	"github.com/floramarket/storefront/config"
)

// SetupRouter creates and configures the Gin router
func SetupRouter(cfg *config.Config, handler *Handler) *gin.Engine {
	if cfg.Server.Environment == "production" {
		gin.SetMode(gin.ReleaseMode)
	}

	router := gin.New()

	router.Use(RecoveryMiddleware())
	router.Use(LoggerMiddleware())
	router.Use(CORSMiddleware(cfg.Server.AllowedOrigins))

	router.GET("/health", handler.HealthCheck)

	v1 := router.Group("/api/v1")
	{
		catalog := v1.Group("/catalog")
		{
			catalog.GET("", handler.GetCatalog)
			catalog.POST("/refresh", handler.RefreshCatalog)
		}

		cart := v1.Group("/cart")
		{
			cart.GET("", handler.GetCart)
			cart.POST("/items", handler.AddCartItem)
			cart.DELETE("/items/:id", handler.RemoveCartItem)
			cart.DELETE("", handler.ClearCart)
		}

		compare := v1.Group("/compare")
		{
			compare.GET("", handler.GetCompare)
			compare.POST("/:id", handler.AddCompareItem)
			compare.DELETE("/:id", handler.RemoveCompareItem)
			compare.DELETE("", handler.ClearCompare)
		}

		favorites := v1.Group("/favorites")
		{
			favorites.GET("", handler.GetFavorites)
			favorites.POST("/:id/toggle", handler.ToggleFavorite)
			favorites.POST("/reload", handler.ReloadFavorites)
		}

		v1.POST("/orders", handler.Checkout)
	}

	return router
}
