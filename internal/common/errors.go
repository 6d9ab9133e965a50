// Package common defines shared constants and sentinel errors used across
// profilekeeper components. Callers should use errors.Is to match these values.
package common

import "errors"

var (
	// Repository-level errors.
	ErrorNotFound = errors.New("not found")

	// Staged photo errors.
	ErrCaptureFailed = errors.New("capture failed")
	ErrCommitFailed  = errors.New("commit failed")
	ErrSessionClosed = errors.New("editing session closed")

	// Profile record validation errors.
	ErrInvalidGender = errors.New("invalid gender")
	ErrUnknownField  = errors.New("unknown profile field")
)
