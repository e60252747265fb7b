package repository

import "errors"

// Sentinel kinds for artifact store errors.
var (
	ErrNotFound    = errors.New("artifact not found")
	ErrInvalidPath = errors.New("invalid artifact path")
	ErrNilArtifact = errors.New("nil artifact")
)
