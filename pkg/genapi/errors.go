package genapi

import (
	"errors"
	"fmt"
	"time"
)

// Rate-limit codes returned by the generation endpoint.
const (
	CodeGlobalLimit = "GLOBAL_LIMIT_REACHED"
	CodeClientLimit = "IP_LIMIT_REACHED"
)

var (
	// ErrUnavailable wraps transport-level failures (connectivity, DNS,
	// timeouts) where no response was decoded.
	ErrUnavailable = errors.New("genapi: generation endpoint unavailable")

	// ErrInvalidBaseURL indicates the client was built with an unusable
	// endpoint.
	ErrInvalidBaseURL = errors.New("genapi: invalid base url")
)

// APIError is a decoded non-2xx response from the generation endpoint.
type APIError struct {
	StatusCode int
	Code       string
	Message    string
	RetryAfter time.Duration
	Limit      int
}

func (e *APIError) Error() string {
	if e.Code != "" {
		return fmt.Sprintf("generation endpoint returned %d (%s): %s", e.StatusCode, e.Code, e.Message)
	}
	return fmt.Sprintf("generation endpoint returned %d: %s", e.StatusCode, e.Message)
}

// IsGlobalLimit reports whether err carries the global-capacity code.
func IsGlobalLimit(err error) bool {
	var apiErr *APIError
	return errors.As(err, &apiErr) && apiErr.Code == CodeGlobalLimit
}

// IsClientLimit reports whether err carries the per-client limit code.
func IsClientLimit(err error) bool {
	var apiErr *APIError
	return errors.As(err, &apiErr) && apiErr.Code == CodeClientLimit
}

// AsAPIError unwraps err into an *APIError if one is present.
func AsAPIError(err error) (*APIError, bool) {
	var apiErr *APIError
	ok := errors.As(err, &apiErr)
	return apiErr, ok
}
