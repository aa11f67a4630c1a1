package styles

import (
	"errors"
	"net/http"
)

var (
	ErrInvalidPageID    = errors.New("page id must be a positive integer")
	ErrInvalidTemplates = errors.New("invalid templates list")
	ErrNotFound         = errors.New("page has no styles")
	ErrAttach           = errors.New("failed to attach page styles")
	ErrDetach           = errors.New("failed to detach page styles")
	ErrCompose          = errors.New("failed to compose page styles")
)

// HTTPError pairs a status code with a stable machine readable key.
type HTTPError struct {
	Code int
	Key  string
}

func (e HTTPError) Error() string {
	return e.Key
}

var (
	errBadRequest     = HTTPError{Code: http.StatusBadRequest, Key: "bad_request"}
	errNotFound       = HTTPError{Code: http.StatusNotFound, Key: "not_found"}
	errEntityTooLarge = HTTPError{Code: http.StatusRequestEntityTooLarge, Key: "request_entity_too_large"}
	errInternal       = HTTPError{Code: http.StatusInternalServerError, Key: "internal_error"}
)

// classify maps a service error to its HTTP form.
func classify(err error) HTTPError {
	var maxBytes *http.MaxBytesError
	switch {
	case errors.As(err, &maxBytes):
		return errEntityTooLarge
	case errors.Is(err, ErrInvalidPageID), errors.Is(err, ErrInvalidTemplates):
		return errBadRequest
	case errors.Is(err, ErrNotFound):
		return errNotFound
	default:
		return errInternal
	}
}
