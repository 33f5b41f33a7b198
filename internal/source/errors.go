package source

import "errors"

var (
	// ErrInvalidSpec is returned when a source spec string or its
	// parameters are malformed.
	ErrInvalidSpec = errors.New("invalid source spec")

	// ErrUnsupported is returned for unknown source types.
	ErrUnsupported = errors.New("unsupported source type")

	// ErrNoSources is returned when no source is configured.
	ErrNoSources = errors.New("no sources specified")
)
