package certificates

import (
	"errors"
	"net/http"
)

// Sentinel errors for certificate operations.
var (
	ErrNotFound       = errors.New("certificate not found")
	ErrDuplicate      = errors.New("certificate already exists")
	ErrInvalidName    = errors.New("certificate name is required")
	ErrInvalidFile    = errors.New("file content is empty or unreadable")
	ErrFileTooLarge   = errors.New("file exceeds the maximum upload size")
	ErrBatched        = errors.New("certificate belongs to a batch")
	ErrNotExtractable = errors.New("certificate is not in a re-queueable state")

	ErrAccessDenied       = errors.New("access key does not match")
	ErrDetailsUnavailable = errors.New("full details have not been extracted")
)

// MapHTTPStatus translates certificate errors into HTTP status codes.
func MapHTTPStatus(err error) int {
	switch {
	case errors.Is(err, ErrNotFound):
		return http.StatusNotFound
	case errors.Is(err, ErrDuplicate):
		return http.StatusConflict
	case errors.Is(err, ErrBatched):
		return http.StatusConflict
	case errors.Is(err, ErrNotExtractable):
		return http.StatusConflict
	case errors.Is(err, ErrFileTooLarge):
		return http.StatusRequestEntityTooLarge
	case errors.Is(err, ErrAccessDenied):
		return http.StatusForbidden
	case errors.Is(err, ErrDetailsUnavailable):
		return http.StatusUnprocessableEntity
	case errors.Is(err, ErrInvalidName), errors.Is(err, ErrInvalidFile):
		return http.StatusBadRequest
	default:
		return http.StatusInternalServerError
	}
}
