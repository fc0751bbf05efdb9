package middleware

import (
	"context"
	"encoding/json"
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"
)

// AuditRecorder persists one audit entry; failures are the recorder's concern
type AuditRecorder interface {
	Record(ctx context.Context, action, resourceType, resourceID, details string)
}

// AuditMutations records every successful mutating request of the group it
// is mounted on. The route pattern is the resource type and the :id (or first)
// path parameter the resource ID.
func AuditMutations(recorder AuditRecorder) gin.HandlerFunc {
	return func(c *gin.Context) {
		c.Next()

		switch c.Request.Method {
		case http.MethodGet, http.MethodHead, http.MethodOptions:
			return
		}
		status := c.Writer.Status()
		if status >= http.StatusBadRequest || c.IsAborted() {
			return
		}

		details, _ := json.Marshal(map[string]any{
			"status":     status,
			"path":       c.Request.URL.Path,
			"request_id": GetRequestID(c),
		})
		recorder.Record(c.Request.Context(),
			"http."+strings.ToLower(c.Request.Method),
			c.FullPath(),
			resourceParam(c),
			string(details),
		)
	}
}

func resourceParam(c *gin.Context) string {
	if id := c.Param("id"); id != "" {
		return id
	}
	if len(c.Params) > 0 {
		return c.Params[0].Value
	}
	return ""
}
