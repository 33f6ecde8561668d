package feed

import "errors"

// Sentinel kinds for upstream feed errors. All of them mean the game data is unavailable.
var (
	ErrFetch         = errors.New("feed fetch failed")
	ErrMalformedFeed = errors.New("malformed feed")
	ErrEmptyFeed     = errors.New("feed has no game actions")
)
