package errors

import (
	"errors"
	"net/http"
)

var (
	// ErrUserExists is returned when the email or phone is already registered.
	ErrUserExists = errors.New("user with this email or phone already exists")
	// ErrUserNotFound is returned when no account matches the lookup.
	ErrUserNotFound = errors.New("no user found with this phone number and role")
	// ErrInvalidCredentials is returned on a password mismatch. It must not
	// reveal whether the phone number existed.
	ErrInvalidCredentials = errors.New("invalid credentials")
	// ErrAccountPending is returned when a doctor or lab account has not
	// been approved yet.
	ErrAccountPending = errors.New("account is pending admin approval")
	// ErrAccountRejected is returned when a doctor or lab account was
	// rejected by the admin.
	ErrAccountRejected = errors.New("account has been rejected")
	// ErrApprovalResolved is returned when approving or rejecting an
	// account that is no longer pending.
	ErrApprovalResolved = errors.New("account approval already resolved")
	// ErrInvalidRole is returned when registration names a role that
	// cannot self-register.
	ErrInvalidRole = errors.New("invalid role")
	// ErrForbidden is returned when an authenticated caller lacks the role
	// or ownership for the operation.
	ErrForbidden = errors.New("unauthorized access")
	// ErrPatientNotFound is returned when no patient record matches.
	ErrPatientNotFound = errors.New("patient not found")
	// ErrReportNotFound is returned when a report is missing or belongs to
	// another lab.
	ErrReportNotFound = errors.New("report not found")
	// ErrInvalidFileType is returned when an uploaded report is not a PDF,
	// JPEG or PNG.
	ErrInvalidFileType = errors.New("invalid file type, only PDF, JPEG and PNG are allowed")
	// ErrFileTooLarge is returned when an uploaded report exceeds the
	// configured size limit.
	ErrFileTooLarge = errors.New("file exceeds the maximum allowed size")
)

// ErrorResponse represents a standardized error response.
type ErrorResponse struct {
	Error string `json:"error"`
	Code  string `json:"code"`
}

// HTTPError represents an HTTP error with status code.
type HTTPError struct {
	StatusCode int
	Message    string
	Code       string
}

func (e *HTTPError) Error() string {
	return e.Message
}

// NewHTTPError creates a new HTTP error.
func NewHTTPError(statusCode int, message, code string) *HTTPError {
	return &HTTPError{
		StatusCode: statusCode,
		Message:    message,
		Code:       code,
	}
}

// ToErrorResponse converts an HTTPError to ErrorResponse.
func (e *HTTPError) ToErrorResponse() ErrorResponse {
	return ErrorResponse{
		Error: e.Message,
		Code:  e.Code,
	}
}

// MapErrorToHTTP maps domain errors to HTTP errors. Pending and rejected
// accounts map to 403 rather than 401 so clients can tell "wait for the
// admin" apart from "wrong password".
func MapErrorToHTTP(err error) *HTTPError {
	switch {
	case errors.Is(err, ErrUserExists):
		return NewHTTPError(http.StatusConflict, err.Error(), "USER_ALREADY_EXISTS")
	case errors.Is(err, ErrInvalidRole):
		return NewHTTPError(http.StatusBadRequest, err.Error(), "INVALID_ROLE")
	case errors.Is(err, ErrUserNotFound):
		return NewHTTPError(http.StatusNotFound, err.Error(), "USER_NOT_FOUND")
	case errors.Is(err, ErrInvalidCredentials):
		return NewHTTPError(http.StatusUnauthorized, err.Error(), "INVALID_CREDENTIALS")
	case errors.Is(err, ErrAccountPending):
		return NewHTTPError(http.StatusForbidden, err.Error(), "ACCOUNT_PENDING")
	case errors.Is(err, ErrAccountRejected):
		return NewHTTPError(http.StatusForbidden, err.Error(), "ACCOUNT_REJECTED")
	case errors.Is(err, ErrApprovalResolved):
		return NewHTTPError(http.StatusConflict, err.Error(), "APPROVAL_ALREADY_RESOLVED")
	case errors.Is(err, ErrForbidden):
		return NewHTTPError(http.StatusForbidden, err.Error(), "FORBIDDEN")
	case errors.Is(err, ErrPatientNotFound):
		return NewHTTPError(http.StatusNotFound, err.Error(), "PATIENT_NOT_FOUND")
	case errors.Is(err, ErrReportNotFound):
		return NewHTTPError(http.StatusNotFound, err.Error(), "REPORT_NOT_FOUND")
	case errors.Is(err, ErrInvalidFileType):
		return NewHTTPError(http.StatusBadRequest, err.Error(), "INVALID_FILE")
	case errors.Is(err, ErrFileTooLarge):
		return NewHTTPError(http.StatusBadRequest, err.Error(), "FILE_TOO_LARGE")
	default:
		return NewHTTPError(http.StatusInternalServerError, "internal server error", "INTERNAL_ERROR")
	}
}
