package api

import (
	"errors"   // Error matching
	"net/http" // HTTP status codes
	"strconv"  // Path ids

	"opportunity_hub/internal/domain"     // Error kinds
	"opportunity_hub/internal/middleware" // Request scoped logger

	"github.com/gin-gonic/gin"   // Gin web framework
	"github.com/sirupsen/logrus" // Logrus for structured logging
)

// respondError writes the HTTP response for a service error
func respondError(c *gin.Context, err error) {
	var verr *domain.ValidationError
	if errors.As(err, &verr) {
		c.JSON(http.StatusBadRequest, gin.H{"errors": verr.Errors}) // Field level detail
		return
	}
	var derr *domain.Error
	if errors.As(err, &derr) {
		c.JSON(statusOf(derr.Kind), gin.H{"msg": derr.Msg})
		return
	}
	// Anything else is a store or programming failure; the cause stays in the log
	entry := middleware.Logger(c).WithFields(logrus.Fields{
		"method": c.Request.Method, // HTTP method
		"path":   c.FullPath(),     // Route pattern
		"error":  err.Error(),      // Cause
	})
	var serr *domain.StoreError
	if errors.As(err, &serr) {
		entry = entry.WithField("op", serr.Op) // Failing store operation
	}
	entry.Error("Server error")
	c.JSON(http.StatusInternalServerError, gin.H{"msg": "Server Error"})
}

// statusOf maps an error kind to its HTTP status
func statusOf(kind error) int {
	switch kind {
	case domain.ErrNotFound:
		return http.StatusNotFound
	case domain.ErrUnauthenticated, domain.ErrForbidden:
		return http.StatusUnauthorized
	case domain.ErrProfileRequired, domain.ErrDuplicateApplication:
		return http.StatusBadRequest
	case domain.ErrRateLimited:
		return http.StatusTooManyRequests
	}
	return http.StatusInternalServerError
}

// pathID parses the :id segment. Malformed ids are reported as missing resources.
func pathID(c *gin.Context, resource string) (uint, error) {
	id, err := strconv.ParseUint(c.Param("id"), 10, 64)
	if err != nil || id == 0 {
		return 0, domain.NotFound(resource)
	}
	return uint(id), nil
}

// bindJSON decodes the request body, reporting malformed JSON as a validation error
func bindJSON(c *gin.Context, dest any) error {
	if err := c.ShouldBindJSON(dest); err != nil {
		return domain.Invalid("body", "Invalid request body")
	}
	return nil
}

// identity returns the caller resolved by the auth middleware
func identity(c *gin.Context) (domain.Identity, error) {
	id, ok := middleware.IdentityFrom(c)
	if !ok {
		return domain.Identity{}, domain.Unauthenticated("No token, authorization denied")
	}
	return id, nil
}
