package notion

import "errors"

var (
	// ErrMissingConfig is returned when the token or database ID is not set.
	ErrMissingConfig = errors.New("notion: missing configuration")

	// ErrUnauthorized is returned when the API rejects the integration token.
	ErrUnauthorized = errors.New("notion: unauthorized")
)
