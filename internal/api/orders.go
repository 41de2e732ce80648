package api

import (
	"context"                     // Context for Redis operations
	"encoding/json"               // entrustedItems payload decoding
	"keepify/internal/domain"     // Domain models
	"keepify/internal/middleware" // Current-user lookup
	"keepify/internal/service"    // Order operations
	"keepify/internal/utils"      // Cache and upload helpers
	"net/http"                    // HTTP status codes
	"strconv"                     // String conversion
	"time"                        // Cache TTL

	"github.com/gin-gonic/gin"     // Gin web framework
	"github.com/redis/go-redis/v9" // Redis client
)

// summaryCacheTTL bounds how stale the cached summaries may be.
const summaryCacheTTL = 60 * time.Second

func ownerSummaryKey(ownerID uint) string {
	return "summary:user:" + strconv.Itoa(int(ownerID))
}

func adminOrdersKey(status string) string {
	return "admin:orders:status=" + status
}

const adminDashboardKey = "admin:dashboard"

// invalidateOrderCaches drops every cache entry a change to the given
// owner's orders can affect.
func invalidateOrderCaches(rdb *redis.Client, ownerID uint, statuses ...string) {
	ctx := context.Background()
	_ = utils.DeleteCache(ctx, rdb, ownerSummaryKey(ownerID))
	_ = utils.DeleteCache(ctx, rdb, adminDashboardKey)
	for _, status := range statuses {
		_ = utils.DeleteCache(ctx, rdb, adminOrdersKey(status))
	}
}

// CreateOrderHandler creates an entrustment order with its items from a
// multipart payload: scalar order fields, a JSON array of items under
// "entrustedItems", and an optional "image" file.
func CreateOrderHandler(orders *service.OrderService, rdb *redis.Client) gin.HandlerFunc {
	return func(c *gin.Context) {
		user, ok := middleware.CurrentUser(c)
		if !ok {
			c.JSON(http.StatusUnauthorized, gin.H{"error": "Unauthorized"})
			return
		}
		var items []service.ItemInput
		if raw := c.PostForm("entrustedItems"); raw != "" {
			if err := json.Unmarshal([]byte(raw), &items); err != nil {
				c.JSON(http.StatusBadRequest, gin.H{"error": "entrustedItems must be a JSON array"})
				return
			}
		}
		input := service.CreateOrderInput{
			AllowChecks:           c.PostForm("allowChecks") == "true",
			MonitoringFrequency:   c.PostForm("monitoringFrequency"),
			PickupRequestedDate:   c.PostForm("pickupRequestedDate"),
			PickupAddress:         c.PostForm("pickupAddress"),
			ContactPhone:          c.PostForm("contactPhone"),
			ExpectedRetrievalDate: c.PostForm("expectedRetrievalDate"),
			Items:                 items,
		}
		// Store the optional photo before opening the transaction
		if file, err := c.FormFile("image"); err == nil && file != nil {
			path, err := utils.SaveOrderImage(c, file, orders.UploadDir)
			if err != nil {
				respondError(c, err)
				return
			}
			input.ImagePath = path
		}
		order, err := orders.Create(user.ID, input)
		if err != nil {
			respondError(c, err)
			return
		}
		invalidateOrderCaches(rdb, user.ID, domain.StatusPendingPickup)
		c.JSON(http.StatusCreated, gin.H{
			"success": true,
			"message": "Entrustment order created successfully",
			"data":    order,
		})
	}
}

// MyOrdersHandler lists the caller's orders, newest first
func MyOrdersHandler(orders *service.OrderService) gin.HandlerFunc {
	return func(c *gin.Context) {
		user, ok := middleware.CurrentUser(c)
		if !ok {
			c.JSON(http.StatusUnauthorized, gin.H{"error": "Unauthorized"})
			return
		}
		list, err := orders.OrdersForOwner(user.ID)
		if err != nil {
			respondError(c, err)
			return
		}
		c.JSON(http.StatusOK, gin.H{"success": true, "data": list})
	}
}

// OrderByIDHandler fetches one of the caller's orders. Foreign orders are
// indistinguishable from missing ones.
func OrderByIDHandler(orders *service.OrderService) gin.HandlerFunc {
	return func(c *gin.Context) {
		user, ok := middleware.CurrentUser(c)
		if !ok {
			c.JSON(http.StatusUnauthorized, gin.H{"error": "Unauthorized"})
			return
		}
		id, err := strconv.ParseUint(c.Param("id"), 10, 64)
		if err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid order id"})
			return
		}
		order, err := orders.OrderForOwner(uint(id), user.ID)
		if err != nil {
			respondError(c, err)
			return
		}
		c.JSON(http.StatusOK, gin.H{"success": true, "data": order})
	}
}

// MySummaryHandler returns the caller's aggregate order summary, cached
// for a short interval
func MySummaryHandler(orders *service.OrderService, rdb *redis.Client) gin.HandlerFunc {
	return func(c *gin.Context) {
		user, ok := middleware.CurrentUser(c)
		if !ok {
			c.JSON(http.StatusUnauthorized, gin.H{"error": "Unauthorized"})
			return
		}
		ctx := context.Background()
		cacheKey := ownerSummaryKey(user.ID)
		var cached service.OwnerSummary
		if found, err := utils.GetCache(ctx, rdb, cacheKey, &cached); err == nil && found {
			c.JSON(http.StatusOK, gin.H{"success": true, "data": cached, "cached": true})
			return
		}
		summary, err := orders.OwnerSummary(user.ID)
		if err != nil {
			respondError(c, err)
			return
		}
		_ = utils.SetCache(ctx, rdb, cacheKey, summary, summaryCacheTTL)
		c.JSON(http.StatusOK, gin.H{"success": true, "data": summary, "cached": false})
	}
}
