package middleware

import (
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
)

func swaggerRouter(cfg SwaggerConfig, authenticate gin.HandlerFunc) *gin.Engine {
	router := gin.New()
	router.GET("/swagger/*any", SwaggerProtection(cfg, authenticate), func(c *gin.Context) {
		c.String(http.StatusOK, "docs")
	})
	return router
}

func serveSwagger(router *gin.Engine, remoteAddr string) *httptest.ResponseRecorder {
	w := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodGet, "/swagger/index.html", nil)
	req.RemoteAddr = remoteAddr
	router.ServeHTTP(w, req)
	return w
}

func TestSwaggerProtection(t *testing.T) {
	gin.SetMode(gin.TestMode)

	denyAll := func(c *gin.Context) {
		c.AbortWithStatus(http.StatusUnauthorized)
	}

	tests := []struct {
		name         string
		cfg          SwaggerConfig
		authenticate gin.HandlerFunc
		remoteAddr   string
		wantStatus   int
	}{
		{
			name:       "disabled answers not found",
			cfg:        SwaggerConfig{Enabled: false},
			remoteAddr: "127.0.0.1:1234",
			wantStatus: http.StatusNotFound,
		},
		{
			name:       "enabled without restrictions",
			cfg:        SwaggerConfig{Enabled: true},
			remoteAddr: "203.0.113.9:1234",
			wantStatus: http.StatusOK,
		},
		{
			name:       "listed ip passes",
			cfg:        SwaggerConfig{Enabled: true, AllowedIPs: []string{"127.0.0.1"}},
			remoteAddr: "127.0.0.1:1234",
			wantStatus: http.StatusOK,
		},
		{
			name:       "cidr range passes",
			cfg:        SwaggerConfig{Enabled: true, AllowedIPs: []string{"10.0.0.0/8"}},
			remoteAddr: "10.20.30.40:1234",
			wantStatus: http.StatusOK,
		},
		{
			name:       "unlisted ip is forbidden",
			cfg:        SwaggerConfig{Enabled: true, AllowedIPs: []string{"10.0.0.0/8", "not-an-ip"}},
			remoteAddr: "192.168.1.5:1234",
			wantStatus: http.StatusForbidden,
		},
		{
			name:         "require auth runs the auth middleware",
			cfg:          SwaggerConfig{Enabled: true, RequireAuth: true},
			authenticate: denyAll,
			remoteAddr:   "127.0.0.1:1234",
			wantStatus:   http.StatusUnauthorized,
		},
		{
			name:         "auth middleware ignored when not required",
			cfg:          SwaggerConfig{Enabled: true},
			authenticate: denyAll,
			remoteAddr:   "127.0.0.1:1234",
			wantStatus:   http.StatusOK,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			w := serveSwagger(swaggerRouter(tt.cfg, tt.authenticate), tt.remoteAddr)
			assert.Equal(t, tt.wantStatus, w.Code)
		})
	}
}
