package loadtest

import "time"

// Default configuration constants.
const (
	DefaultRequests    = 10000
	DefaultTimeout     = 30 * time.Second
	DefaultVerifyShare = 0.05
)

// Worker configuration constants.
const (
	WorkerChannelMultiplier = 2
	progressInterval        = time.Second
)

// Result codes for transport failures.
const (
	codeTransport = "transport"
	codeDecode    = "decode"
)

// PercentageMultiplier converts ratios to percentages.
const PercentageMultiplier = 100
