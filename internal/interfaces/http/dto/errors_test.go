package dto

import (
	"encoding/json"
	"net/http"
	"testing"

	"github.com/atelier/marketplace/internal/domain/shared"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestGetHTTPStatus(t *testing.T) {
	tests := []struct {
		code     string
		expected int
	}{
		{"NOT_FOUND", http.StatusNotFound},
		{"COUPON_NOT_FOUND", http.StatusNotFound},
		{"CUSTOMER_NOT_FOUND", http.StatusNotFound},
		{"VALIDATION_ERROR", http.StatusBadRequest},
		{"INVALID_QUANTITY", http.StatusBadRequest},
		{"INVALID_RANGE", http.StatusBadRequest},
		{"INVALID_SETTING_VALUE", http.StatusBadRequest},
		{"UNAUTHORIZED", http.StatusUnauthorized},
		{"TOKEN_REVOKED", http.StatusUnauthorized},
		{"FORBIDDEN", http.StatusForbidden},
		{"ALREADY_EXISTS", http.StatusConflict},
		{"EMAIL_TAKEN", http.StatusConflict},
		{"CONCURRENCY_CONFLICT", http.StatusConflict},
		{"IDEMPOTENCY_IN_PROGRESS", http.StatusConflict},
		{"EMPTY_CART", http.StatusUnprocessableEntity},
		{"INSUFFICIENT_STOCK", http.StatusUnprocessableEntity},
		{"PRODUCT_UNAVAILABLE", http.StatusUnprocessableEntity},
		{"CURRENCY_MISMATCH", http.StatusUnprocessableEntity},
		{"NO_SHIPPING_ZONE", http.StatusUnprocessableEntity},
		{"DISPUTE_WINDOW_CLOSED", http.StatusUnprocessableEntity},
		{"INVALID_STATE", http.StatusConflict},
		{"UNSUPPORTED_MEDIA_TYPE", http.StatusUnsupportedMediaType},
		{"RATE_LIMITED", http.StatusTooManyRequests},
		{"BODY_TOO_LARGE", http.StatusRequestEntityTooLarge},
		{"MAINTENANCE", http.StatusServiceUnavailable},
		{"INTERNAL_ERROR", http.StatusInternalServerError},
		{"", http.StatusInternalServerError},
	}

	for _, tt := range tests {
		t.Run(tt.code, func(t *testing.T) {
			assert.Equal(t, tt.expected, GetHTTPStatus(tt.code))
		})
	}
}

func TestNewErrorResponse(t *testing.T) {
	resp := NewErrorResponse("EMPTY_CART", "Cart is empty", "req-1")

	assert.False(t, resp.Success)
	require.NotNil(t, resp.Error)
	assert.Equal(t, "EMPTY_CART", resp.Error.Code)
	assert.Equal(t, "req-1", resp.Error.RequestID)
	assert.Nil(t, resp.Data)
}

func TestNewValidationErrorResponse(t *testing.T) {
	resp := NewValidationErrorResponse("Request validation failed", "req-2", []ValidationDetail{
		{Field: "email", Message: "Invalid email format"},
	})

	require.NotNil(t, resp.Error)
	assert.Equal(t, ErrCodeValidation, resp.Error.Code)
	require.Len(t, resp.Error.Details, 1)
	assert.Equal(t, "email", resp.Error.Details[0].Field)
}

func TestResponseJSON(t *testing.T) {
	t.Run("error envelope", func(t *testing.T) {
		raw, err := json.Marshal(NewErrorResponse("NOT_FOUND", "Order not found", "abc"))
		require.NoError(t, err)
		assert.JSONEq(t, `{"success":false,"error":{"code":"NOT_FOUND","message":"Order not found","request_id":"abc"}}`, string(raw))
	})

	t.Run("paged envelope", func(t *testing.T) {
		page := shared.NewPaginated([]string{"a", "b"}, 5, 1, 2)
		raw, err := json.Marshal(NewPagedResponse(&page))
		require.NoError(t, err)
		assert.JSONEq(t, `{"success":true,"data":["a","b"],"meta":{"total":5,"page":1,"page_size":2,"total_pages":3}}`, string(raw))
	})

	t.Run("empty page renders an empty list", func(t *testing.T) {
		page := shared.NewPaginated[string](nil, 0, 1, 20)
		raw, err := json.Marshal(NewPagedResponse(&page))
		require.NoError(t, err)
		assert.Contains(t, string(raw), `"data":[]`)
	})
}
