package loadtest

import "errors"

// Sentinel errors.
var (
	ErrUnhealthy     = errors.New("service health check failed")
	ErrNoModel       = errors.New("service has no model loaded")
	ErrInvalidConfig = errors.New("invalid load test configuration")
)
