package coins

import "errors"

var (
	// ErrInvalidAmount is returned when a holding amount is not strictly positive.
	ErrInvalidAmount = errors.New("amount must be greater than 0")
	// ErrAlreadyWatched is returned when watching a coin twice.
	ErrAlreadyWatched = errors.New("coin is already in the watchlist")
	ErrNotWatched     = errors.New("coin is not in the watchlist")
	ErrNotHeld        = errors.New("coin is not in the portfolio")
	ErrEmptyCoinID    = errors.New("coin id is required")
	// ErrUnknownSession is returned by Sessions for an id it never issued.
	ErrUnknownSession = errors.New("unknown session")
)
