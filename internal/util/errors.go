// internal/util/errors.go
package util

import "errors"

// Common application-specific errors.
var (
	ErrNotFound             = errors.New("resource not found")
	ErrInvalidInput         = errors.New("invalid input provided")
	ErrInsufficientFunds    = errors.New("insufficient funds")
	ErrSameCardTransfer     = errors.New("cannot transfer to the same card")
	ErrCardNotFound         = errors.New("card not found")
	ErrUserNotFound         = errors.New("user not found")
	ErrCardActionNotAllowed = errors.New("card action not allowed")
	ErrEncryptionFailure    = errors.New("card number encryption failure")
	ErrVersionConflict      = errors.New("card was modified concurrently")
)

// IsError reports whether err matches the given sentinel anywhere in its chain.
func IsError(err, target error) bool {
	return errors.Is(err, target)
}
