package errors

import (
	"errors"
	"net/http"
)

var (
	// ErrResidentNotFound is returned when a resident is not found.
	ErrResidentNotFound = errors.New("resident not found")
	// ErrResidentInactive is returned when creating an order for an inactive resident.
	ErrResidentInactive = errors.New("cannot create order for inactive resident")
	// ErrOrderNotFound is returned when a meal order is not found.
	ErrOrderNotFound = errors.New("meal order not found")
	// ErrInvalidTransition is returned on a disallowed order status change.
	ErrInvalidTransition = errors.New("invalid order status transition")
	// ErrAlertNotFound is returned when an alert is not found.
	ErrAlertNotFound = errors.New("alert not found")
	// ErrAlertAcknowledged is returned when acknowledging an alert twice.
	ErrAlertAcknowledged = errors.New("alert already acknowledged")
	// ErrUserNotFound is returned when a user is not found.
	ErrUserNotFound = errors.New("user not found")
	// ErrEmailTaken is returned when creating a user with an existing email.
	ErrEmailTaken = errors.New("email already in use")
	// ErrValidation is returned when request data fails domain validation.
	ErrValidation = errors.New("validation failed")
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

// MapErrorToHTTP maps domain errors to HTTP errors.
func MapErrorToHTTP(err error) *HTTPError {
	switch {
	case errors.Is(err, ErrResidentNotFound):
		return NewHTTPError(http.StatusNotFound, err.Error(), "RESIDENT_NOT_FOUND")
	case errors.Is(err, ErrResidentInactive):
		return NewHTTPError(http.StatusBadRequest, err.Error(), "RESIDENT_INACTIVE")
	case errors.Is(err, ErrOrderNotFound):
		return NewHTTPError(http.StatusNotFound, err.Error(), "ORDER_NOT_FOUND")
	case errors.Is(err, ErrInvalidTransition):
		return NewHTTPError(http.StatusBadRequest, err.Error(), "INVALID_TRANSITION")
	case errors.Is(err, ErrAlertNotFound):
		return NewHTTPError(http.StatusNotFound, err.Error(), "ALERT_NOT_FOUND")
	case errors.Is(err, ErrAlertAcknowledged):
		return NewHTTPError(http.StatusConflict, err.Error(), "ALERT_ACKNOWLEDGED")
	case errors.Is(err, ErrUserNotFound):
		return NewHTTPError(http.StatusNotFound, err.Error(), "USER_NOT_FOUND")
	case errors.Is(err, ErrEmailTaken):
		return NewHTTPError(http.StatusConflict, err.Error(), "EMAIL_TAKEN")
	case errors.Is(err, ErrValidation):
		return NewHTTPError(http.StatusBadRequest, err.Error(), "VALIDATION_FAILED")
	default:
		return NewHTTPError(http.StatusInternalServerError, "internal server error", "INTERNAL_ERROR")
	}
}
