package source

import "errors"

// Sentinel kinds for source errors.
var (
	ErrUnsupportedFormat = errors.New("unsupported data format")
	ErrMissingColumn     = errors.New("missing column")
	ErrMalformedRow      = errors.New("malformed row")
)
