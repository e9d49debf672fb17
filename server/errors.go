package server

import (
	"context"
	"net/http"

	"github.com/teranos/plaszyme/errors"
	"github.com/teranos/plaszyme/search"
	"github.com/teranos/plaszyme/substrate"
)

// statusFor maps an error to an HTTP status code.
// Search failures of any kind are 400, matching the search response contract.
func statusFor(err error) int {
	switch {
	case errors.IsNotFoundError(err):
		return http.StatusNotFound
	case errors.IsInvalidRequestError(err), search.IsInputError(err):
		return http.StatusBadRequest
	case errors.Is(err, substrate.ErrNoCatalog), errors.IsServiceUnavailableError(err):
		return http.StatusServiceUnavailable
	case errors.Is(err, context.DeadlineExceeded), errors.Is(err, errors.ErrTimeout):
		return http.StatusGatewayTimeout
	default:
		return http.StatusInternalServerError
	}
}

// errNoStats is reported when the server runs without a statistics source.
var errNoStats = errors.Wrap(errors.ErrServiceUnavailable, "statistics require a database-backed corpus")

// errNoRecords is reported when dataset counts have no record source.
var errNoRecords = errors.Wrap(errors.ErrServiceUnavailable, "dataset counts require a database-backed corpus")
