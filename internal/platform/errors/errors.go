// Package apperrors holds the sentinel errors shared by every module. Callers
// wrap them with fmt.Errorf("...: %w") and test with errors.Is; the HTTP layer
// maps each to a status code in httpx.StatusFor.
package apperrors

import "errors"

var (
	ErrInvalidInput = errors.New("invalid input")

	// Timer state.
	ErrNoActiveSession     = errors.New("no active session")
	ErrActiveSessionExists = errors.New("active session already exists")

	// ErrFreezeUnavailable means the weekly freeze was used less than seven
	// days ago.
	ErrFreezeUnavailable = errors.New("streak freeze already used this week")
	ErrInvalidWindow     = errors.New("calendar window out of range")
)
