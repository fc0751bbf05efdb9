package handler

import (
	"bytes"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/atelier/marketplace/internal/domain/shared"
	"github.com/atelier/marketplace/internal/interfaces/http/dto"
	"github.com/atelier/marketplace/internal/interfaces/http/middleware"
	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func init() {
	gin.SetMode(gin.TestMode)
	middleware.SetupValidator()
}

func decode(t *testing.T, rec *httptest.ResponseRecorder) dto.Response {
	t.Helper()
	var resp dto.Response
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &resp))
	return resp
}

func serve(router *gin.Engine, method, path string, body string) *httptest.ResponseRecorder {
	req := httptest.NewRequest(method, path, strings.NewReader(body))
	if body != "" {
		req.Header.Set("Content-Type", "application/json")
	}
	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, req)
	return rec
}

func TestHandleError(t *testing.T) {
	tests := []struct {
		name   string
		err    error
		status int
		code   string
	}{
		{"not found", shared.ErrNotFound, http.StatusNotFound, "NOT_FOUND"},
		{"wrapped not found", fmt.Errorf("load order: %w", shared.ErrNotFound), http.StatusNotFound, "NOT_FOUND"},
		{"invalid state", shared.ErrInvalidState, http.StatusConflict, "INVALID_STATE"},
		{"invalid input", shared.ErrInvalidInput, http.StatusBadRequest, "INVALID_INPUT"},
		{"concurrency", shared.ErrConcurrencyConflict, http.StatusConflict, "CONCURRENCY_CONFLICT"},
		{"forbidden", shared.ErrForbidden, http.StatusForbidden, "FORBIDDEN"},
		{"business rule", shared.ErrInsufficientStock, http.StatusUnprocessableEntity, "INSUFFICIENT_STOCK"},
		{"coupon lookup", shared.NewDomainError("COUPON_NOT_FOUND", "Unknown coupon"), http.StatusNotFound, "COUPON_NOT_FOUND"},
		{"plain error", errors.New("connection refused"), http.StatusInternalServerError, dto.ErrCodeInternal},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			h := &BaseHandler{}
			router := gin.New()
			router.Use(middleware.RequestID(nil))
			router.GET("/test", func(c *gin.Context) { h.HandleError(c, tt.err) })

			rec := serve(router, http.MethodGet, "/test", "")

			assert.Equal(t, tt.status, rec.Code)
			resp := decode(t, rec)
			assert.False(t, resp.Success)
			require.NotNil(t, resp.Error)
			assert.Equal(t, tt.code, resp.Error.Code)
			assert.NotEmpty(t, resp.Error.RequestID)
		})
	}

	t.Run("internal errors hide the cause", func(t *testing.T) {
		h := &BaseHandler{}
		router := gin.New()
		router.GET("/test", func(c *gin.Context) { h.HandleError(c, errors.New("pq: password authentication failed")) })

		rec := serve(router, http.MethodGet, "/test", "")
		assert.NotContains(t, rec.Body.String(), "password")
	})
}

type bindTarget struct {
	Email    string `json:"email" binding:"required,email"`
	Quantity int    `json:"quantity" binding:"min=1,max=99"`
}

func TestBindJSON(t *testing.T) {
	h := &BaseHandler{}
	router := gin.New()
	router.Use(middleware.BodyLimit(64))
	router.POST("/test", func(c *gin.Context) {
		var req bindTarget
		if !h.BindJSON(c, &req) {
			return
		}
		h.Created(c, req)
	})

	t.Run("valid body", func(t *testing.T) {
		rec := serve(router, http.MethodPost, "/test", `{"email":"a@b.co","quantity":2}`)
		assert.Equal(t, http.StatusCreated, rec.Code)
		assert.True(t, decode(t, rec).Success)
	})

	t.Run("field errors are itemised", func(t *testing.T) {
		rec := serve(router, http.MethodPost, "/test", `{"email":"nope","quantity":0}`)
		require.Equal(t, http.StatusBadRequest, rec.Code)

		resp := decode(t, rec)
		assert.Equal(t, dto.ErrCodeValidation, resp.Error.Code)
		fields := make([]string, 0, len(resp.Error.Details))
		for _, d := range resp.Error.Details {
			fields = append(fields, d.Field)
		}
		assert.ElementsMatch(t, []string{"email", "quantity"}, fields)
	})

	t.Run("oversized body", func(t *testing.T) {
		body := `{"email":"` + strings.Repeat("a", 80) + `@b.co","quantity":1}`
		req := httptest.NewRequest(http.MethodPost, "/test", bytes.NewBufferString(body))
		req.Header.Set("Content-Type", "application/json")
		req.ContentLength = -1
		rec := httptest.NewRecorder()
		router.ServeHTTP(rec, req)

		assert.Equal(t, http.StatusRequestEntityTooLarge, rec.Code)
		assert.Equal(t, dto.ErrCodeBodyTooLarge, decode(t, rec).Error.Code)
	})
}

func TestPathUUID(t *testing.T) {
	h := &BaseHandler{}
	var got uuid.UUID
	router := gin.New()
	router.GET("/orders/:id", func(c *gin.Context) {
		id, ok := h.PathUUID(c, "id")
		if !ok {
			return
		}
		got = id
		c.Status(http.StatusOK)
	})

	id := uuid.New()
	assert.Equal(t, http.StatusOK, serve(router, http.MethodGet, "/orders/"+id.String(), "").Code)
	assert.Equal(t, id, got)

	rec := serve(router, http.MethodGet, "/orders/42", "")
	assert.Equal(t, http.StatusBadRequest, rec.Code)
	assert.Equal(t, "INVALID_ID", decode(t, rec).Error.Code)
}

func TestQueryUUID(t *testing.T) {
	h := &BaseHandler{}
	var got *uuid.UUID
	router := gin.New()
	router.GET("/products", func(c *gin.Context) {
		id, ok := h.QueryUUID(c, "vendor_id")
		if !ok {
			return
		}
		got = id
		c.Status(http.StatusOK)
	})

	assert.Equal(t, http.StatusOK, serve(router, http.MethodGet, "/products", "").Code)
	assert.Nil(t, got)

	id := uuid.New()
	assert.Equal(t, http.StatusOK, serve(router, http.MethodGet, "/products?vendor_id="+id.String(), "").Code)
	require.NotNil(t, got)
	assert.Equal(t, id, *got)

	rec := serve(router, http.MethodGet, "/products?vendor_id=maison", "")
	require.Equal(t, http.StatusBadRequest, rec.Code)
	resp := decode(t, rec)
	assert.Equal(t, dto.ErrCodeValidation, resp.Error.Code)
	require.Len(t, resp.Error.Details, 1)
	assert.Equal(t, "vendor_id", resp.Error.Details[0].Field)
}

func TestPaged(t *testing.T) {
	router := gin.New()
	router.GET("/list", func(c *gin.Context) {
		page := shared.NewPaginated([]string{"a", "b"}, 12, 2, 2)
		Paged(c, &page)
	})

	resp := decode(t, serve(router, http.MethodGet, "/list", ""))
	assert.True(t, resp.Success)
	assert.Equal(t, []any{"a", "b"}, resp.Data)
	require.NotNil(t, resp.Meta)
	assert.Equal(t, int64(12), resp.Meta.Total)
	assert.Equal(t, 2, resp.Meta.Page)
	assert.Equal(t, 6, resp.Meta.TotalPages)
}
