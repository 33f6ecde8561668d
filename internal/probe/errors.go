package probe

import "errors"

// Sentinel kinds for probe failures.
var (
	ErrUnhealthy        = errors.New("service unhealthy")
	ErrUnexpectedStatus = errors.New("unexpected status")
	ErrBadLine          = errors.New("malformed totals line")
	ErrInconsistent     = errors.New("roster and totals disagree")
	ErrUnranked         = errors.New("totals not ranked")
)
