package middleware

import (
	"context"
	"strings"

	"github.com/atelier/marketplace/internal/infrastructure/telemetry"
	"github.com/gin-gonic/gin"
)

// Profiling label keys
const (
	ProfilingLabelRoute  = "route"
	ProfilingLabelMethod = "method"
	ProfilingLabelArea   = "area"
)

// Profiling runs the rest of the chain under pprof labels (route, method and
// API area) so continuous profiles can be sliced per endpoint.
func Profiling() gin.HandlerFunc {
	return func(c *gin.Context) {
		route := c.FullPath()
		if route == "" || route == "/health" || route == "/ready" {
			c.Next()
			return
		}
		labels := map[string]string{
			ProfilingLabelRoute:  route,
			ProfilingLabelMethod: c.Request.Method,
			ProfilingLabelArea:   apiArea(route),
		}
		telemetry.WithLabels(c.Request.Context(), labels, func(ctx context.Context) {
			c.Request = c.Request.WithContext(ctx)
			c.Next()
		})
	}
}

// apiArea returns the first segment after the version, e.g.
// "/api/v1/pro/products/:id" gives "pro"
func apiArea(route string) string {
	segments := strings.Split(strings.Trim(route, "/"), "/")
	for _, s := range segments {
		if s == "api" || s == "" || isVersionSegment(s) {
			continue
		}
		if strings.HasPrefix(s, ":") || strings.HasPrefix(s, "*") {
			return ""
		}
		return s
	}
	return ""
}

func isVersionSegment(s string) bool {
	if len(s) < 2 || s[0] != 'v' {
		return false
	}
	for _, r := range s[1:] {
		if r < '0' || r > '9' {
			return false
		}
	}
	return true
}
