package batches

import (
	"errors"
	"net/http"
)

// Sentinel errors for batch operations.
var (
	ErrNotFound            = errors.New("batch not found")
	ErrCertificateNotFound = errors.New("certificate not found")
	ErrDuplicate           = errors.New("batch already exists")
	ErrNoEligible          = errors.New("no completed unbatched certificates")
	ErrIneligible          = errors.New("certificate is not completed or already batched")
	ErrNotBatched          = errors.New("certificate is not part of a batch")
	ErrRootMismatch        = errors.New("recomputed root does not match the anchored root")
)

// MapHTTPStatus translates batch errors into HTTP status codes.
func MapHTTPStatus(err error) int {
	switch {
	case errors.Is(err, ErrNotFound), errors.Is(err, ErrCertificateNotFound), errors.Is(err, ErrNotBatched):
		return http.StatusNotFound
	case errors.Is(err, ErrDuplicate):
		return http.StatusConflict
	case errors.Is(err, ErrNoEligible), errors.Is(err, ErrIneligible):
		return http.StatusUnprocessableEntity
	case errors.Is(err, ErrRootMismatch):
		return http.StatusInternalServerError
	default:
		return http.StatusInternalServerError
	}
}
