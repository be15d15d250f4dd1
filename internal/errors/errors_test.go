package errors

import (
	"errors"
	"fmt"
	"net/http"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestMapErrorToHTTP(t *testing.T) {
	tests := []struct {
		err          error
		expectedCode int
		expectedKey  string
	}{
		{ErrUserExists, http.StatusConflict, "USER_ALREADY_EXISTS"},
		{ErrInvalidRole, http.StatusBadRequest, "INVALID_ROLE"},
		{ErrUserNotFound, http.StatusNotFound, "USER_NOT_FOUND"},
		{ErrInvalidCredentials, http.StatusUnauthorized, "INVALID_CREDENTIALS"},
		{ErrAccountPending, http.StatusForbidden, "ACCOUNT_PENDING"},
		{ErrAccountRejected, http.StatusForbidden, "ACCOUNT_REJECTED"},
		{ErrApprovalResolved, http.StatusConflict, "APPROVAL_ALREADY_RESOLVED"},
		{ErrForbidden, http.StatusForbidden, "FORBIDDEN"},
		{ErrPatientNotFound, http.StatusNotFound, "PATIENT_NOT_FOUND"},
		{ErrReportNotFound, http.StatusNotFound, "REPORT_NOT_FOUND"},
		{ErrInvalidFileType, http.StatusBadRequest, "INVALID_FILE"},
		{ErrFileTooLarge, http.StatusBadRequest, "FILE_TOO_LARGE"},
	}

	for _, tt := range tests {
		t.Run(tt.expectedKey, func(t *testing.T) {
			httpErr := MapErrorToHTTP(tt.err)
			assert.Equal(t, tt.expectedCode, httpErr.StatusCode)
			assert.Equal(t, tt.expectedKey, httpErr.Code)
			assert.Equal(t, tt.err.Error(), httpErr.Message)
		})
	}
}

func TestMapErrorToHTTP_WrappedErrors(t *testing.T) {
	wrapped := fmt.Errorf("register: %w", ErrUserExists)
	httpErr := MapErrorToHTTP(wrapped)
	assert.Equal(t, http.StatusConflict, httpErr.StatusCode)
	assert.Equal(t, "USER_ALREADY_EXISTS", httpErr.Code)
}

func TestMapErrorToHTTP_UnknownErrorIsOpaque(t *testing.T) {
	httpErr := MapErrorToHTTP(errors.New("dial tcp: connection refused"))
	assert.Equal(t, http.StatusInternalServerError, httpErr.StatusCode)
	assert.Equal(t, "INTERNAL_ERROR", httpErr.Code)
	assert.Equal(t, "internal server error", httpErr.Message)
}
