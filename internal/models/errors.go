package models

import "errors"

// Engine error taxonomy. Every engine package wraps one of these sentinels so
// callers can distinguish "fix your input" from "refresh your snapshot" from
// "not your asset" without string matching.
var (
	// ErrInvalidInput marks failures the caller must not retry without
	// changing the input (e.g. empty candidate pool).
	ErrInvalidInput = errors.New("invalid input")

	// ErrInvalidState marks failures caused by stale or conflicting draft
	// state (pick already made, trade not pending, draft not active).
	ErrInvalidState = errors.New("invalid state")

	// ErrNotAuthorized marks failures where the acting participant does not
	// control the asset or action in question.
	ErrNotAuthorized = errors.New("not authorized")

	// ErrNotFound marks lookups that miss; never silently defaulted.
	ErrNotFound = errors.New("not found")
)
