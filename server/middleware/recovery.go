// Package middleware provides the gin middleware chain: panic recovery,
// request IDs, request logging, CORS and the authentication gate.
package middleware

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/skillsenselab/identity/errors"
	"github.com/skillsenselab/identity/logger"
)

// Recovery converts panics into opaque 500 responses and logs the cause.
func Recovery(log *logger.Logger) gin.HandlerFunc {
	log = log.WithComponent("recovery")
	return func(c *gin.Context) {
		defer func() {
			if r := recover(); r != nil {
				log.Error("panic recovered", map[string]interface{}{
					"panic":          r,
					logger.FieldPath: c.Request.URL.Path,
				})
				appErr := errors.Internal(nil)
				c.AbortWithStatusJSON(http.StatusInternalServerError, appErr.ToResponse())
			}
		}()
		c.Next()
	}
}
