package rest

import "net/http"

// APIError is the JSON shape returned for every non-2xx response. This
// API has very few failure modes (bad group id, ledger I/O failure), so
// there is no translation table, just the constants below.
type APIError struct {
	Code       string `json:"code"`
	Message    string `json:"message"`
	HTTPStatus int    `json:"-"`
}

// Error implements the error interface.
func (e *APIError) Error() string { return e.Message }

// NewAPIError creates a new APIError.
func NewAPIError(code, message string, httpStatus int) *APIError {
	return &APIError{Code: code, Message: message, HTTPStatus: httpStatus}
}

var (
	ErrInvalidGroup = NewAPIError("INVALID_GROUP", "group id out of range", http.StatusBadRequest)
	ErrInternal     = NewAPIError("INTERNAL_ERROR", "internal server error", http.StatusInternalServerError)
)
