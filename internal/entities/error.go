package entities

import "errors"

var (
	// ErrPageUnavailable marks a fetch that exhausted its retry budget.
	ErrPageUnavailable = errors.New("source page unavailable")

	ErrSubscriptionNotFound = errors.New("subscription not found")
)
