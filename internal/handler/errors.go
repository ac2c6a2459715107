package handler

import (
	"errors"
	"net/http"

	"github.com/Adelodunpeter25/url-shortener/internal/service"
)

// Error kind identifiers exposed in the machine-readable "kind" field.
const (
	KindInvalidURL          = "invalid_url"
	KindRejectedURL         = "rejected_url"
	KindInvalidExpiry       = "invalid_expiry"
	KindInvalidAlias        = "invalid_alias"
	KindDuplicateCode       = "duplicate_code"
	KindAllocationExhausted = "allocation_exhausted"
	KindNotFound            = "not_found"
	KindExpired             = "expired"
	KindPasswordRequired    = "password_required"
	KindPasswordMismatch    = "password_mismatch"
	KindStoreUnavailable    = "store_unavailable"
	KindInternal            = "internal"
)

// classify maps a service error to its HTTP status and kind. Every failure
// path gets a distinguishable response; nothing is swallowed.
func classify(err error) (int, string) {
	switch {
	case errors.Is(err, service.ErrInvalidURL):
		return http.StatusBadRequest, KindInvalidURL
	case errors.Is(err, service.ErrRejectedURL):
		return http.StatusBadRequest, KindRejectedURL
	case errors.Is(err, service.ErrInvalidExpiry):
		return http.StatusBadRequest, KindInvalidExpiry
	case errors.Is(err, service.ErrInvalidAlias):
		return http.StatusBadRequest, KindInvalidAlias
	case errors.Is(err, service.ErrDuplicateCode):
		return http.StatusConflict, KindDuplicateCode
	case errors.Is(err, service.ErrAllocationExhausted):
		return http.StatusInternalServerError, KindAllocationExhausted
	case errors.Is(err, service.ErrNotFound):
		return http.StatusNotFound, KindNotFound
	case errors.Is(err, service.ErrExpired):
		return http.StatusGone, KindExpired
	case errors.Is(err, service.ErrPasswordRequired):
		return http.StatusUnauthorized, KindPasswordRequired
	case errors.Is(err, service.ErrPasswordMismatch):
		return http.StatusForbidden, KindPasswordMismatch
	case errors.Is(err, service.ErrStoreUnavailable):
		return http.StatusServiceUnavailable, KindStoreUnavailable
	default:
		return http.StatusInternalServerError, KindInternal
	}
}
