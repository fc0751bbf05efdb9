package handler

import (
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/atelier/marketplace/internal/interfaces/http/dto"
	"github.com/atelier/marketplace/internal/interfaces/http/middleware"
	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// The requests below are rejected before the order service is reached,
// so the handler runs without one.
func TestOrderHandler_RejectsBeforeService(t *testing.T) {
	h := NewOrderHandler(nil)
	router := gin.New()
	router.POST("/orders", h.PlaceOrder)
	router.POST("/orders/:id/cancel", h.Cancel)
	router.POST("/admin/orders/:id/resolve", h.ResolveDispute)

	t.Run("oversized idempotency key", func(t *testing.T) {
		req := httptest.NewRequest(http.MethodPost, "/orders", strings.NewReader(`{"address_id":"`+uuid.NewString()+`"}`))
		req.Header.Set("Content-Type", "application/json")
		req.Header.Set(middleware.IdempotencyKeyHeader, strings.Repeat("k", 129))
		rec := httptest.NewRecorder()
		router.ServeHTTP(rec, req)

		require.Equal(t, http.StatusBadRequest, rec.Code)
		assert.Equal(t, "INVALID_IDEMPOTENCY_KEY", decode(t, rec).Error.Code)
	})

	t.Run("missing address", func(t *testing.T) {
		rec := serve(router, http.MethodPost, "/orders", `{"note":"gift wrap"}`)

		require.Equal(t, http.StatusBadRequest, rec.Code)
		resp := decode(t, rec)
		assert.Equal(t, dto.ErrCodeValidation, resp.Error.Code)
		assert.Equal(t, "address_id", resp.Error.Details[0].Field)
	})

	t.Run("cancel needs a reason", func(t *testing.T) {
		rec := serve(router, http.MethodPost, "/orders/"+uuid.NewString()+"/cancel", `{"reason":""}`)
		assert.Equal(t, http.StatusBadRequest, rec.Code)
	})

	t.Run("bad order id", func(t *testing.T) {
		rec := serve(router, http.MethodPost, "/orders/ORD-1/cancel", `{"reason":"changed my mind"}`)
		assert.Equal(t, "INVALID_ID", decode(t, rec).Error.Code)
	})

	t.Run("unknown resolution", func(t *testing.T) {
		rec := serve(router, http.MethodPost, "/admin/orders/"+uuid.NewString()+"/resolve", `{"resolution":"split"}`)

		require.Equal(t, http.StatusBadRequest, rec.Code)
		assert.Equal(t, "resolution", decode(t, rec).Error.Details[0].Field)
	})
}
