package gh

import (
	"errors"
	"fmt"
)

// ErrMissingData is returned inside a FetchError when the API responded
// without a usable data section and without a classified error.
var ErrMissingData = errors.New("response has no data section")

// ErrorClass categorizes request failures for logging and metrics.
type ErrorClass string

const (
	// ErrorClassTransport covers timeouts, connection failures and
	// non-2xx HTTP statuses.
	ErrorClassTransport ErrorClass = "transport"

	// ErrorClassGraphQL covers application-level errors reported in the
	// response error list.
	ErrorClassGraphQL ErrorClass = "graphql"

	// ErrorClassRateLimit covers GraphQL errors whose message signals a
	// rate-limit condition.
	ErrorClassRateLimit ErrorClass = "rate_limit"
)

// FetchError is returned when a request could not be completed within the
// retry budget. It wraps the last underlying cause.
type FetchError struct {
	Class    ErrorClass
	Attempts int
	Err      error
}

// Error implements the error interface.
func (e *FetchError) Error() string {
	return fmt.Sprintf("fetch failed (%s) after %d attempts: %v", e.Class, e.Attempts, e.Err)
}

// Unwrap implements error unwrapping for errors.Is/As.
func (e *FetchError) Unwrap() error {
	return e.Err
}

// IsFetchError reports whether err is (or wraps) a FetchError.
func IsFetchError(err error) bool {
	var fe *FetchError
	return errors.As(err, &fe)
}
