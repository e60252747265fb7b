package config

import (
	"errors"
)

// Sentinel error kinds for configuration. Load and Validate wrap these.
var (
	ErrInvalidConfig = errors.New("invalid config")
	ErrLoadConfig    = errors.New("load config failed")
)
