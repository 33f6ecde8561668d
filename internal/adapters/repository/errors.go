package repository

import "errors"

// Sentinel kinds for feed cache errors.
var (
	ErrNotFound     = errors.New("feed not cached")
	ErrInvalidKey   = errors.New("invalid game id")
	ErrStoreFailure = errors.New("feed cache failure")
)
