package middleware

import (
	"context"
	"net/http"

	"github.com/atelier/marketplace/internal/interfaces/http/dto"
	"github.com/gin-gonic/gin"
)

// MaintenanceChecker reports the runtime maintenance switch
type MaintenanceChecker interface {
	MaintenanceMode(ctx context.Context) bool
}

// Maintenance answers 503 MAINTENANCE to mutating requests while the
// maintenance switch is on. Reads and admin callers pass through, so it must
// run after Authenticate on protected groups.
func Maintenance(checker MaintenanceChecker, adminRole string) gin.HandlerFunc {
	return func(c *gin.Context) {
		switch c.Request.Method {
		case http.MethodGet, http.MethodHead, http.MethodOptions:
			c.Next()
			return
		}
		if GetRole(c) == adminRole || !checker.MaintenanceMode(c.Request.Context()) {
			c.Next()
			return
		}
		c.Header("Retry-After", "300")
		abortWithError(c, http.StatusServiceUnavailable, dto.ErrCodeMaintenance,
			"The marketplace is under maintenance, please try again later")
	}
}
