package dto

import (
	"net/http"
	"strings"
)

// Transport-level error codes. Domain codes pass through unchanged.
const (
	ErrCodeInternal     = "INTERNAL_ERROR"
	ErrCodeValidation   = "VALIDATION_ERROR"
	ErrCodeBadRequest   = "BAD_REQUEST"
	ErrCodeUnauthorized = "UNAUTHORIZED"
	ErrCodeForbidden    = "FORBIDDEN"
	ErrCodeNotFound     = "NOT_FOUND"
	ErrCodeRateLimited  = "RATE_LIMITED"
	ErrCodeBodyTooLarge = "BODY_TOO_LARGE"
	ErrCodeMaintenance  = "MAINTENANCE"
	ErrCodeTokenExpired = "TOKEN_EXPIRED"
	ErrCodeTokenInvalid = "TOKEN_INVALID"
	ErrCodeTokenRevoked = "TOKEN_REVOKED"
)

// ErrorCodeHTTPStatus maps error codes whose status is not implied by their name
var ErrorCodeHTTPStatus = map[string]int{
	ErrCodeInternal:     http.StatusInternalServerError,
	ErrCodeValidation:   http.StatusBadRequest,
	ErrCodeBadRequest:   http.StatusBadRequest,
	ErrCodeRateLimited:  http.StatusTooManyRequests,
	ErrCodeBodyTooLarge: http.StatusRequestEntityTooLarge,
	ErrCodeMaintenance:  http.StatusServiceUnavailable,

	// auth
	ErrCodeUnauthorized: http.StatusUnauthorized,
	ErrCodeTokenExpired: http.StatusUnauthorized,
	ErrCodeTokenInvalid: http.StatusUnauthorized,
	ErrCodeTokenRevoked: http.StatusUnauthorized,
	"TOKEN_MAX_REFRESH": http.StatusUnauthorized,
	ErrCodeForbidden:    http.StatusForbidden,

	// conflicts
	"ALREADY_EXISTS":          http.StatusConflict,
	"EMAIL_TAKEN":             http.StatusConflict,
	"CONCURRENCY_CONFLICT":    http.StatusConflict,
	"INVALID_STATE":           http.StatusConflict,
	"INVALID_TRANSITION":      http.StatusConflict,
	"IDEMPOTENCY_IN_PROGRESS": http.StatusConflict,
	"CATEGORY_IN_USE":         http.StatusConflict,
	"COUPON_IN_USE":           http.StatusConflict,
	"SLUG_EXHAUSTED":          http.StatusConflict,

	// lookups by a client supplied code or slug
	ErrCodeNotFound:    http.StatusNotFound,
	"COUPON_NOT_FOUND": http.StatusNotFound,
	"ITEM_NOT_FOUND":   http.StatusNotFound,

	// request shape
	"UNSUPPORTED_MEDIA_TYPE": http.StatusUnsupportedMediaType,
}

// GetHTTPStatus returns the HTTP status for an error code.
// INVALID_* codes are input errors (400), *_NOT_FOUND are 404 and every
// other domain code is a business rule violation (422).
func GetHTTPStatus(code string) int {
	if status, ok := ErrorCodeHTTPStatus[code]; ok {
		return status
	}
	switch {
	case code == "":
		return http.StatusInternalServerError
	case strings.HasPrefix(code, "INVALID_"):
		return http.StatusBadRequest
	case strings.HasSuffix(code, "_NOT_FOUND"):
		return http.StatusNotFound
	default:
		return http.StatusUnprocessableEntity
	}
}
