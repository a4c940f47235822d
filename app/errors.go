package app

import (
	"catalog/app/catalog"
	"catalog/pkg/httperror"
	"errors"
	"net/http"
)

// fromCatalog converts a service error into an HTTP error. Conflicts are
// reported as 400 to match the established client contract. Unclassified
// errors become a 500 with the given code and message; the cause stays in
// the server log.
func fromCatalog(err error, code, message string) error {
	var catalogErr *catalog.Error
	if !errors.As(err, &catalogErr) {
		return &wrappedHTTPError{
			response: httperror.InternalServerError(code, message, nil),
			cause:    err,
		}
	}

	status := http.StatusInternalServerError
	switch catalogErr.Kind {
	case catalog.KindNotFound:
		status = http.StatusNotFound
	case catalog.KindConflict:
		status = http.StatusBadRequest
	case catalog.KindValidation:
		status = http.StatusUnprocessableEntity
	case catalog.KindForbidden:
		status = http.StatusForbidden
	}

	return httperror.New(status, catalogErr.Code, catalogErr.Message, catalogErr.Details)
}

// wrappedHTTPError keeps the internal cause reachable for logging while the
// client only sees response.
type wrappedHTTPError struct {
	response *httperror.Error
	cause    error
}

func (e *wrappedHTTPError) Error() string {
	return e.response.Error() + ": " + e.cause.Error()
}

func (e *wrappedHTTPError) Unwrap() []error {
	return []error{e.response, e.cause}
}
