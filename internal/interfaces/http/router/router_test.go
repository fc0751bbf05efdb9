package router

import (
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func init() {
	gin.SetMode(gin.TestMode)
}

func ok(c *gin.Context) { c.String(http.StatusOK, c.FullPath()) }

func hit(engine *gin.Engine, method, path string) *httptest.ResponseRecorder {
	rec := httptest.NewRecorder()
	engine.ServeHTTP(rec, httptest.NewRequest(method, path, nil))
	return rec
}

func TestNewRouter(t *testing.T) {
	r := NewRouter(gin.New())
	assert.Equal(t, "v1", r.apiVersion)
	assert.Empty(t, r.registrars)

	r = NewRouter(gin.New(), WithAPIVersion("v2"))
	assert.Equal(t, "v2", r.apiVersion)
}

func TestRouter_SetupMountsUnderVersion(t *testing.T) {
	engine := gin.New()
	products := NewDomainGroup("products", "/products")
	products.GET("", ok)
	products.GET("/:id", ok)
	orders := NewDomainGroup("orders", "/orders")
	orders.POST("", ok)

	NewRouter(engine).Register(products).Register(orders).Setup()

	assert.Equal(t, http.StatusOK, hit(engine, http.MethodGet, "/api/v1/products").Code)
	assert.Equal(t, "/api/v1/products/:id", hit(engine, http.MethodGet, "/api/v1/products/abc").Body.String())
	assert.Equal(t, http.StatusOK, hit(engine, http.MethodPost, "/api/v1/orders").Code)
	assert.Equal(t, http.StatusNotFound, hit(engine, http.MethodGet, "/products").Code)
}

func TestDomainGroup(t *testing.T) {
	t.Run("accessors", func(t *testing.T) {
		dg := NewDomainGroup("wishlist", "/wishlist")
		assert.Equal(t, "wishlist", dg.Name())
		assert.Equal(t, "/wishlist", dg.Prefix())
	})

	t.Run("nil middleware is skipped", func(t *testing.T) {
		engine := gin.New()
		dg := NewDomainGroup("cart", "/cart").Use(nil)
		dg.GET("", nil, ok)
		dg.RegisterRoutes(engine.Group(""))

		assert.Empty(t, dg.middleware)
		assert.Len(t, dg.routes[0].handlers, 1)
		assert.Equal(t, http.StatusOK, hit(engine, http.MethodGet, "/cart").Code)
	})

	t.Run("subgroups inherit middleware", func(t *testing.T) {
		engine := gin.New()
		var trail []string
		mark := func(name string) gin.HandlerFunc {
			return func(c *gin.Context) {
				trail = append(trail, name)
				c.Next()
			}
		}

		pro := NewDomainGroup("pro", "/pro").Use(mark("pro"))
		pro.Group("orders", "/orders").Use(mark("orders")).POST("/:id/ship", ok)
		pro.RegisterRoutes(engine.Group("/api/v1"))

		rec := hit(engine, http.MethodPost, "/api/v1/pro/orders/42/ship")
		require.Equal(t, http.StatusOK, rec.Code)
		assert.Equal(t, []string{"pro", "orders"}, trail)
	})

	t.Run("route middleware runs before the handler", func(t *testing.T) {
		engine := gin.New()
		deny := func(c *gin.Context) { c.AbortWithStatus(http.StatusTooManyRequests) }
		dg := NewDomainGroup("auth", "/auth")
		dg.POST("/login", deny, ok)
		dg.POST("/refresh", ok)
		dg.RegisterRoutes(engine.Group(""))

		assert.Equal(t, http.StatusTooManyRequests, hit(engine, http.MethodPost, "/auth/login").Code)
		assert.Equal(t, http.StatusOK, hit(engine, http.MethodPost, "/auth/refresh").Code)
	})
}

func TestDomainGroup_Methods(t *testing.T) {
	engine := gin.New()
	dg := NewDomainGroup("zones", "/zones")
	dg.GET("", ok)
	dg.POST("", ok)
	dg.PUT("/:id", ok)
	dg.DELETE("/:id", ok)
	dg.RegisterRoutes(engine.Group(""))

	assert.Equal(t, http.StatusOK, hit(engine, http.MethodGet, "/zones").Code)
	assert.Equal(t, http.StatusOK, hit(engine, http.MethodPost, "/zones").Code)
	assert.Equal(t, http.StatusOK, hit(engine, http.MethodPut, "/zones/eu").Code)
	assert.Equal(t, http.StatusOK, hit(engine, http.MethodDelete, "/zones/eu").Code)
}
