package contract

import "errors"

var (
	// ErrNotFound is returned by targeted mutations whose row no longer exists.
	ErrNotFound = errors.New("record not found")

	// ErrInsufficientCredits is returned by DecrementCredits when the balance
	// does not cover the requested amount.
	ErrInsufficientCredits = errors.New("insufficient credits")
)
