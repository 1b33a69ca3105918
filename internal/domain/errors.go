package domain

import "errors"

// Sentinel errors for domain operations
var (
	// ErrGridFull indicates no empty cell is left on the board
	ErrGridFull = errors.New("grid is full")

	// ErrHistoryUnavailable indicates the URL history database could not be used
	ErrHistoryUnavailable = errors.New("url history is unavailable")
)
