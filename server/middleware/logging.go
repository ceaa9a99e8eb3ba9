package middleware

import (
	"time"

	"github.com/gin-gonic/gin"

	"github.com/skillsenselab/identity/logger"
)

// Logging emits one structured line per request.
func Logging(log *logger.Logger) gin.HandlerFunc {
	log = log.WithComponent("http")
	return func(c *gin.Context) {
		start := time.Now()
		c.Next()

		fields := map[string]interface{}{
			logger.FieldMethod:    c.Request.Method,
			logger.FieldPath:      c.Request.URL.Path,
			logger.FieldStatus:    c.Writer.Status(),
			"duration":            time.Since(start).String(),
			logger.FieldRequestID: c.GetString(ContextKeyRequestID),
		}
		if len(c.Errors) > 0 {
			fields[logger.FieldError] = c.Errors.String()
		}

		switch {
		case c.Writer.Status() >= 500:
			log.Error("request", fields)
		case c.Writer.Status() >= 400:
			log.Warn("request", fields)
		default:
			log.Info("request", fields)
		}
	}
}
