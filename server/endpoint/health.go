// Package endpoint holds the unauthenticated operational endpoints.
package endpoint

import (
	"context"
	"net/http"

	"github.com/gin-gonic/gin"
)

// Pinger reports whether a dependency is reachable.
type Pinger interface {
	Ping(ctx context.Context) error
}

// Health returns a liveness/readiness handler. A nil pinger makes the
// endpoint a pure liveness probe.
func Health(db Pinger) gin.HandlerFunc {
	return func(c *gin.Context) {
		status := "ok"
		httpStatus := http.StatusOK
		checks := gin.H{}

		if db != nil {
			if err := db.Ping(c.Request.Context()); err != nil {
				status = "degraded"
				httpStatus = http.StatusServiceUnavailable
				checks["database"] = "down"
			} else {
				checks["database"] = "up"
			}
		}

		c.JSON(httpStatus, gin.H{"status": status, "checks": checks})
	}
}
