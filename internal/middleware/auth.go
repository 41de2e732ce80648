package middleware

import (
	"keepify/internal/domain"  // Domain models
	"keepify/internal/service" // User lookup
	"keepify/internal/utils"   // JWT utility functions
	"net/http"                 // HTTP status codes
	"strings"                  // String manipulation

	"github.com/gin-gonic/gin" // Gin web framework
)

// CurrentUserKey is the context key the authenticated user is stored under.
const CurrentUserKey = "currentUser"

// JWTAuthMiddleware validates the bearer token and resolves the current
// user from the database, so role and active-status changes take effect on
// the next request rather than at token expiry.
func JWTAuthMiddleware(auth *service.AuthService) gin.HandlerFunc {
	return func(c *gin.Context) {
		authHeader := c.GetHeader("Authorization") // Get Authorization header
		if authHeader == "" || !strings.HasPrefix(authHeader, "Bearer ") {
			c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{"error": "Missing or invalid Authorization header"})
			return
		}
		tokenStr := strings.TrimPrefix(authHeader, "Bearer ")
		claims, err := utils.ParseJWT(tokenStr, auth.JWTSecret)
		if err != nil {
			c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{"error": "Invalid or expired token"})
			return
		}
		user, err := auth.UserByID(claims.UserID)
		if err != nil || !user.IsActive {
			c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{"error": "Invalid or expired token"})
			return
		}
		c.Set(CurrentUserKey, user) // Attach the resolved user to the request
		c.Next()
	}
}

// CurrentUser returns the authenticated user attached by JWTAuthMiddleware.
func CurrentUser(c *gin.Context) (*domain.User, bool) {
	v, exists := c.Get(CurrentUserKey)
	if !exists {
		return nil, false
	}
	user, ok := v.(*domain.User)
	return user, ok
}
