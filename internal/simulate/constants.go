package simulate

import "time"

// Worker configuration constants.
const (
	WorkerChannelMultiplier = 2
)

// Runner configuration constants.
const (
	PercentageMultiplier = 100
	pollInterval         = 20 * time.Millisecond
	rateLimitBackoff     = time.Second
	maxRateLimitRetries  = 3
	scoreScale           = 10
)

// File permission constants.
const (
	directoryPermission = 0750
	logFilePermission   = 0600
)
