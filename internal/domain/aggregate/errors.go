package aggregate

import "errors"

// Sentinel kinds for aggregation errors.
var (
	// ErrNoMatchingData reports that the events loaded fine but none of them
	// can be attributed to the requested participant.
	ErrNoMatchingData = errors.New("no matching data")
)
