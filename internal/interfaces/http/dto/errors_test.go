package dto

import (
	"net/http"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestNormalizeErrorCode(t *testing.T) {
	tests := []struct {
		name     string
		domain   string
		expected string
	}{
		{"not found", "NOT_FOUND", ErrCodeNotFound},
		{"addressing", "ADDRESSING_ERROR", ErrCodeAddressing},
		{"insufficient stock", "INSUFFICIENT_STOCK", ErrCodeInsufficientStock},
		{"transaction aborted", "TRANSACTION_ABORTED", ErrCodeTransactionAborted},
		{"reservation expired", "RESERVATION_EXPIRED", ErrCodeInvalidState},
		{"reservation not expired", "RESERVATION_NOT_EXPIRED", ErrCodeInvalidState},
		{"invalid prefix collapses", "INVALID_QUANTITY", ErrCodeValidation},
		{"duplicate prefix collapses", "DUPLICATE_LABEL", ErrCodeValidation},
		{"unknown passes through", "SOMETHING_ELSE", "SOMETHING_ELSE"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.expected, NormalizeErrorCode(tt.domain))
		})
	}
}

func TestGetHTTPStatus(t *testing.T) {
	assert.Equal(t, http.StatusBadRequest, GetHTTPStatus(ErrCodeAddressing))
	assert.Equal(t, http.StatusNotFound, GetHTTPStatus(ErrCodeNotFound))
	assert.Equal(t, http.StatusUnprocessableEntity, GetHTTPStatus(ErrCodeInsufficientStock))
	assert.Equal(t, http.StatusConflict, GetHTTPStatus(ErrCodeTransactionAborted))
	assert.Equal(t, http.StatusServiceUnavailable, GetHTTPStatus(ErrCodeCacheUnavailable))
	assert.Equal(t, http.StatusInternalServerError, GetHTTPStatus("ERR_NOBODY_KNOWS"))
}
