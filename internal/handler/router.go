package handler

import (
	"time"

	"github.com/gin-gonic/gin"

	"github.com/flicky/go-shop/internal/cache"
	"github.com/flicky/go-shop/internal/middleware"
	"github.com/flicky/go-shop/internal/service"
)

type RouterConfig struct {
	Shop         *service.Shop
	ProductCache *cache.ProductCache
	Health       *HealthHandler
	JWTSecret    string
	JWTExpiry    time.Duration
}

func NewRouter(cfg RouterConfig) *gin.Engine {
	authH := NewAuthHandler(cfg.Shop, cfg.JWTSecret, cfg.JWTExpiry)
	accountH := NewAccountHandler(cfg.Shop)
	productH := NewProductHandler(cfg.Shop, cfg.ProductCache)
	cartH := NewCartHandler(cfg.Shop)
	orderH := NewOrderHandler(cfg.Shop)
	adminH := NewAdminHandler(cfg.Shop)
	requireAuth := middleware.AuthMiddleware(cfg.JWTSecret, cfg.Shop)

	router := gin.Default()
	if cfg.Health != nil {
		router.GET("/healthz", cfg.Health.Healthz)
		router.GET("/readyz", cfg.Health.Readyz)
	}

	v1 := router.Group("/api/v1")
	{
		auth := v1.Group("/auth")
		auth.POST("/register", authH.Register)
		auth.POST("/login", authH.Login)
		auth.POST("/logout", requireAuth, authH.Logout)

		products := v1.Group("/products")
		products.GET("", productH.List)
		products.GET("/search", productH.Search)
		products.GET("/:id", productH.GetByID)
		products.POST("/:id/rating", requireAuth, productH.Rate)

		v1.GET("/recommendations", requireAuth, productH.Recommendations)

		account := v1.Group("/account", requireAuth)
		account.GET("", accountH.Me)
		account.PUT("/username", accountH.Rename)
		account.PUT("/password", accountH.ChangePassword)

		cart := v1.Group("/cart", requireAuth)
		cart.GET("", cartH.GetCart)
		cart.POST("/items", cartH.AddItem)
		cart.DELETE("/items/:product_id", cartH.RemoveItem)

		orders := v1.Group("/orders", requireAuth)
		orders.POST("", orderH.CreateOrder)
		orders.GET("", orderH.ListOrders)
		orders.GET("/:id", orderH.GetOrder)
		orders.POST("/:id/return", orderH.ReturnOrder)

		admin := v1.Group("/admin", requireAuth, middleware.AdminOnly())
		admin.GET("/users", adminH.ListUsers)
		admin.GET("/orders", adminH.ListOrders)
		admin.PUT("/orders/:id/status", adminH.SetOrderStatus)
	}

	return router
}
