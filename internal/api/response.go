package api

import (
	"errors"
	"keepify/internal/service" // Error taxonomy
	"keepify/internal/utils"   // Upload validation error
	"net/http"                 // HTTP status codes

	"github.com/gin-gonic/gin"   // Gin web framework
	"github.com/sirupsen/logrus" // Logging library
)

// respondError maps a service error onto its HTTP status. Unrecognized
// errors are logged and hidden behind a generic 500.
func respondError(c *gin.Context, err error) {
	switch {
	case service.IsValidation(err):
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
	case errors.Is(err, utils.ErrInvalidImage):
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
	case errors.Is(err, service.ErrInvalidCredentials):
		c.JSON(http.StatusUnauthorized, gin.H{"error": err.Error()})
	case errors.Is(err, service.ErrNotFound):
		c.JSON(http.StatusNotFound, gin.H{"error": "Entrustment order not found"})
	case errors.Is(err, service.ErrEmailTaken), errors.Is(err, service.ErrPickupAlreadyDone):
		c.JSON(http.StatusConflict, gin.H{"error": err.Error()})
	default:
		logrus.WithFields(logrus.Fields{
			"path":  c.FullPath(),
			"error": err.Error(),
		}).Error("Request failed")
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Internal server error"})
	}
}
