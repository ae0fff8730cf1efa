package errors

import "errors"

var (
	ErrAlreadyExists      = errors.New("already exists")
	ErrNotFound           = errors.New("not found")
	ErrInvalidCredentials = errors.New("invalid credentials")
	ErrInvalidSlots       = errors.New("invalid slot count")
	ErrInvalidName        = errors.New("invalid name")

	// ErrInvariantViolation marks a card state no valid write path can
	// produce; it signals a programmer error, not user input.
	ErrInvariantViolation = errors.New("card invariant violation")

	ErrOverCapacity    = errors.New("stamp delta exceeds card capacity")
	ErrEmptyCommit     = errors.New("commit without pending stamps")
	ErrNotReady        = errors.New("card is not ready to redeem")
	ErrAlreadyRedeemed = errors.New("reward already redeemed")
	ErrStaleAttempt    = errors.New("claim attempt is stale")
	ErrVersionConflict = errors.New("concurrent modification")
	ErrTimeout         = errors.New("operation timed out")
)
