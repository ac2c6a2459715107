package service

import "errors"

// Link submission and redirect error kinds. Handlers match these with
// errors.Is and map each to a distinct HTTP response.
var (
	ErrInvalidURL          = errors.New("invalid url")
	ErrRejectedURL         = errors.New("url rejected by safety checks")
	ErrInvalidExpiry       = errors.New("expiry must be between 1 and 365 days")
	ErrInvalidAlias        = errors.New("custom alias must be 3-20 alphanumeric characters")
	ErrDuplicateCode       = errors.New("short code already taken")
	ErrAllocationExhausted = errors.New("unable to allocate a unique short code")
	ErrNotFound            = errors.New("link not found")
	ErrExpired             = errors.New("link expired")
	ErrPasswordRequired    = errors.New("password required")
	ErrPasswordMismatch    = errors.New("password mismatch")
	ErrStoreUnavailable    = errors.New("store unavailable")
)

// Account and API key error kinds.
var (
	ErrUserExists      = errors.New("user already exists")
	ErrUserNotFound    = errors.New("user not found")
	ErrInvalidPassword = errors.New("invalid password")
	ErrInvalidToken    = errors.New("invalid token")
	ErrKeyLimit        = errors.New("maximum number of active api keys reached")
	ErrKeyNotFound     = errors.New("api key not found")
	ErrInvalidRole     = errors.New("role must be user or admin")
	ErrSelfDemotion    = errors.New("cannot remove admin role from yourself")
)
