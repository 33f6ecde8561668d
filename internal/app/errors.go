package service

import "errors"

// Sentinel kinds for service errors.
var (
	// ErrGameDataUnavailable wraps every failure to obtain the game's events.
	ErrGameDataUnavailable = errors.New("game data unavailable")
	ErrNoEventSource       = errors.New("no event source configured")
)
