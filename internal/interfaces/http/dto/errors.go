package dto

import (
	"net/http"
	"strings"
)

// Error code constants organized by category
// Format: ERR_<CATEGORY>_<DESCRIPTION>

// General error codes
const (
	// ErrCodeUnknown is used when the error type is unknown
	ErrCodeUnknown = "ERR_UNKNOWN"
	// ErrCodeInternal is used for internal server errors
	ErrCodeInternal = "ERR_INTERNAL"
)

// Input error codes
const (
	// ErrCodeBadRequest is used for malformed requests
	ErrCodeBadRequest = "ERR_BAD_REQUEST"
	// ErrCodeInvalidInput is used for invalid input data
	ErrCodeInvalidInput = "ERR_INVALID_INPUT"
	// ErrCodeValidation is the base code for validation errors
	ErrCodeValidation = "ERR_VALIDATION"
	// ErrCodeAddressing is used when no usable variant key could be resolved
	ErrCodeAddressing = "ERR_ADDRESSING"
)

// Resource error codes
const (
	// ErrCodeNotFound is used when a resource is not found
	ErrCodeNotFound = "ERR_NOT_FOUND"
	// ErrCodeAlreadyExists is used when trying to create a duplicate resource
	ErrCodeAlreadyExists = "ERR_ALREADY_EXISTS"
	// ErrCodeConflict is used for general resource conflicts
	ErrCodeConflict = "ERR_CONFLICT"
	// ErrCodeTransactionAborted is used when the store rejected a write transaction
	ErrCodeTransactionAborted = "ERR_TRANSACTION_ABORTED"
)

// Business rule error codes
const (
	// ErrCodeInvalidState is used when an operation is invalid for current state
	ErrCodeInvalidState = "ERR_INVALID_STATE"
	// ErrCodeInsufficientStock is used when stock is insufficient
	ErrCodeInsufficientStock = "ERR_INSUFFICIENT_STOCK"
)

// Infrastructure error codes
const (
	// ErrCodeCacheUnavailable is used when the cache store is unreachable
	ErrCodeCacheUnavailable = "ERR_CACHE_UNAVAILABLE"
)

// ErrorCodeHTTPStatus maps error codes to HTTP status codes
var ErrorCodeHTTPStatus = map[string]int{
	ErrCodeUnknown:  http.StatusInternalServerError,
	ErrCodeInternal: http.StatusInternalServerError,

	// Input errors -> 400 Bad Request
	ErrCodeBadRequest:   http.StatusBadRequest,
	ErrCodeInvalidInput: http.StatusBadRequest,
	ErrCodeValidation:   http.StatusBadRequest,
	ErrCodeAddressing:   http.StatusBadRequest,

	// Resource errors
	ErrCodeNotFound:           http.StatusNotFound,
	ErrCodeAlreadyExists:      http.StatusConflict,
	ErrCodeConflict:           http.StatusConflict,
	ErrCodeTransactionAborted: http.StatusConflict,

	// Business rule errors -> 422 Unprocessable Entity
	ErrCodeInvalidState:      http.StatusUnprocessableEntity,
	ErrCodeInsufficientStock: http.StatusUnprocessableEntity,

	// Infrastructure errors
	ErrCodeCacheUnavailable: http.StatusServiceUnavailable,
}

// GetHTTPStatus returns the HTTP status code for an error code.
// Returns 500 Internal Server Error if the error code is not found
func GetHTTPStatus(code string) int {
	if status, ok := ErrorCodeHTTPStatus[code]; ok {
		return status
	}
	return http.StatusInternalServerError
}

// DomainErrorCodeMapping maps domain error codes to wire-level codes
var DomainErrorCodeMapping = map[string]string{
	"NOT_FOUND":           ErrCodeNotFound,
	"ALREADY_EXISTS":      ErrCodeAlreadyExists,
	"INVALID_INPUT":       ErrCodeInvalidInput,
	"INVALID_STATE":       ErrCodeInvalidState,
	"ADDRESSING_ERROR":    ErrCodeAddressing,
	"INSUFFICIENT_STOCK":  ErrCodeInsufficientStock,
	"CACHE_UNAVAILABLE":   ErrCodeCacheUnavailable,
	"TRANSACTION_ABORTED": ErrCodeTransactionAborted,

	// Reservation lifecycle faults are state errors on the wire
	"RESERVATION_EXPIRED":     ErrCodeInvalidState,
	"RESERVATION_NOT_EXPIRED": ErrCodeInvalidState,
}

// NormalizeErrorCode converts a domain error code to the wire-level format.
// Validation-style domain codes (INVALID_LABEL, DUPLICATE_LABEL, ...) all
// collapse to ERR_VALIDATION.
func NormalizeErrorCode(code string) string {
	if wireCode, ok := DomainErrorCodeMapping[code]; ok {
		return wireCode
	}
	if strings.HasPrefix(code, "INVALID_") || strings.HasPrefix(code, "DUPLICATE_") {
		return ErrCodeValidation
	}
	return code
}
