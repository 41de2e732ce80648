package api

import (
	"keepify/internal/domain"     // Role constants
	"keepify/internal/middleware" // Auth and role gates
	"keepify/internal/service"    // Service layer

	"github.com/gin-gonic/gin"     // Gin web framework
	"github.com/redis/go-redis/v9" // Redis client
)

// RegisterRoutes mounts the full HTTP surface on the given engine. Role
// requirements are declared here, per group, and enforced by a single
// middleware; endpoints without a declared role rely on authentication
// alone.
func RegisterRoutes(r *gin.Engine, auth *service.AuthService, orders *service.OrderService, rdb *redis.Client) {
	// Public auth routes
	authGroup := r.Group("/auth")
	authGroup.POST("/register", RegisterHandler(auth))
	authGroup.POST("/login", LoginHandler(auth))
	authGroup.GET("/profile", middleware.JWTAuthMiddleware(auth), ProfileHandler())

	// Order routes (any authenticated user)
	itemsGroup := r.Group("/items")
	itemsGroup.Use(middleware.JWTAuthMiddleware(auth))
	itemsGroup.POST("", CreateOrderHandler(orders, rdb))
	itemsGroup.GET("/my-items", MyOrdersHandler(orders))
	itemsGroup.GET("/summary/my-summary", MySummaryHandler(orders, rdb))
	itemsGroup.GET("/:id", OrderByIDHandler(orders))

	// Admin routes (admin role only)
	adminGroup := r.Group("/admin")
	adminGroup.Use(middleware.JWTAuthMiddleware(auth), middleware.RequireRoles(domain.RoleAdmin))
	adminGroup.GET("/orders", OrdersByStatusHandler(orders, rdb))
	adminGroup.POST("/orders/:id/complete-pickup", CompletePickupHandler(orders, rdb))
	adminGroup.GET("/dashboard/summary", DashboardSummaryHandler(orders, rdb))
}
