package middleware

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/atelier/marketplace/internal/interfaces/http/dto"
	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type addressInput struct {
	City     string   `json:"city" binding:"required,max=10"`
	Country  string   `json:"country" binding:"required,country"`
	Currency string   `json:"currency" binding:"omitempty,currency"`
	Tags     []string `json:"tags" binding:"omitempty,max=2"`
	Kind     string   `json:"kind" binding:"omitempty,oneof=home work"`
}

func bindRouter() *gin.Engine {
	SetupValidator()
	gin.SetMode(gin.TestMode)
	router := gin.New()
	router.POST("/addresses", func(c *gin.Context) {
		var in addressInput
		if err := c.ShouldBindJSON(&in); err != nil {
			HandleValidationError(c, err)
			return
		}
		c.Status(http.StatusNoContent)
	})
	return router
}

func postJSON(router *gin.Engine, body string) *httptest.ResponseRecorder {
	req := httptest.NewRequest(http.MethodPost, "/addresses", strings.NewReader(body))
	req.Header.Set("Content-Type", "application/json")
	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, req)
	return rec
}

func details(t *testing.T, rec *httptest.ResponseRecorder) map[string]string {
	t.Helper()
	require.Equal(t, http.StatusBadRequest, rec.Code)
	var resp dto.Response
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &resp))
	require.NotNil(t, resp.Error)
	assert.Equal(t, dto.ErrCodeValidation, resp.Error.Code)
	out := make(map[string]string, len(resp.Error.Details))
	for _, d := range resp.Error.Details {
		out[d.Field] = d.Message
	}
	return out
}

func TestSetupValidator_MarketplaceTags(t *testing.T) {
	router := bindRouter()

	tests := []struct {
		name   string
		body   string
		field  string
		expect string
	}{
		{"missing city", `{"country":"FR"}`, "city", "This field is required"},
		{"long city", `{"city":"Aix-en-Provence","country":"FR"}`, "city", "Must be at most 10 characters"},
		{"numeric country", `{"city":"Lyon","country":"12"}`, "country", "Must be a two-letter country code"},
		{"three letter country", `{"city":"Lyon","country":"FRA"}`, "country", "Must be a two-letter country code"},
		{"bad currency", `{"city":"Lyon","country":"FR","currency":"EURO"}`, "currency", "Must be a three-letter currency code"},
		{"too many tags", `{"city":"Lyon","country":"FR","tags":["a","b","c"]}`, "tags", "Must be at most 2 entries"},
		{"unknown kind", `{"city":"Lyon","country":"FR","kind":"office"}`, "kind", "Must be one of: home work"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := details(t, postJSON(router, tt.body))
			assert.Equal(t, tt.expect, got[tt.field])
		})
	}

	t.Run("lower case codes pass", func(t *testing.T) {
		rec := postJSON(router, `{"city":"Lyon","country":"fr","currency":"eur"}`)
		assert.Equal(t, http.StatusNoContent, rec.Code)
	})
}

func TestHandleValidationError_MalformedBody(t *testing.T) {
	got := details(t, postJSON(bindRouter(), `{"city":`))
	assert.Equal(t, map[string]string{"body": "Malformed request"}, got)
}
