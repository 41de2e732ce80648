package api

import (
	"context"                  // Context for Redis operations
	"keepify/internal/domain"  // Domain models
	"keepify/internal/service" // Order operations
	"keepify/internal/utils"   // Cache helpers
	"net/http"                 // HTTP status codes
	"strconv"                  // String conversion

	"github.com/gin-gonic/gin"     // Gin web framework
	"github.com/redis/go-redis/v9" // Redis client
)

// OrdersByStatusHandler lists all orders in a given status for triage
func OrdersByStatusHandler(orders *service.OrderService, rdb *redis.Client) gin.HandlerFunc {
	return func(c *gin.Context) {
		status := c.Query("status")
		if status == "" {
			c.JSON(http.StatusBadRequest, gin.H{"error": "Query parameter \"status\" is required"})
			return
		}
		ctx := context.Background()
		cacheKey := adminOrdersKey(status)
		var cached []domain.EntrustmentOrder
		if found, err := utils.GetCache(ctx, rdb, cacheKey, &cached); err == nil && found {
			c.JSON(http.StatusOK, gin.H{"success": true, "data": cached, "cached": true})
			return
		}
		list, err := orders.OrdersByStatus(status)
		if err != nil {
			respondError(c, err)
			return
		}
		_ = utils.SetCache(ctx, rdb, cacheKey, list, summaryCacheTTL)
		c.JSON(http.StatusOK, gin.H{"success": true, "data": list, "cached": false})
	}
}

// CompletePickupRequest carries the courier signature captured on pickup
type CompletePickupRequest struct {
	SignatureImage string `json:"signatureImage" binding:"required"` // Base64-encoded image
}

// CompletePickupHandler transitions an order to PICKED_UP and records the
// signature artifact
func CompletePickupHandler(orders *service.OrderService, rdb *redis.Client) gin.HandlerFunc {
	return func(c *gin.Context) {
		id, err := strconv.ParseUint(c.Param("id"), 10, 64)
		if err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid order id"})
			return
		}
		var req CompletePickupRequest
		if err := c.ShouldBindJSON(&req); err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": "signatureImage is required"})
			return
		}
		order, err := orders.CompletePickup(uint(id), req.SignatureImage)
		if err != nil {
			respondError(c, err)
			return
		}
		// Both status lists changed, as did the owner's summary
		invalidateOrderCaches(rdb, order.OwnerID, domain.StatusPendingPickup, domain.StatusPickedUp)
		c.JSON(http.StatusOK, gin.H{
			"success": true,
			"message": "Pickup completed successfully",
			"data":    order,
		})
	}
}

// DashboardSummaryHandler returns system-wide counts, cached briefly
func DashboardSummaryHandler(orders *service.OrderService, rdb *redis.Client) gin.HandlerFunc {
	return func(c *gin.Context) {
		ctx := context.Background()
		var cached service.DashboardSummary
		if found, err := utils.GetCache(ctx, rdb, adminDashboardKey, &cached); err == nil && found {
			c.JSON(http.StatusOK, gin.H{"success": true, "data": cached, "cached": true})
			return
		}
		summary, err := orders.DashboardSummary()
		if err != nil {
			respondError(c, err)
			return
		}
		_ = utils.SetCache(ctx, rdb, adminDashboardKey, summary, summaryCacheTTL)
		c.JSON(http.StatusOK, gin.H{"success": true, "data": summary, "cached": false})
	}
}
