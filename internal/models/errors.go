package models

import (
	"errors"
	"fmt"
)

// Sentinel errors shared by services and repositories. Handlers translate them
// to HTTP status codes with errors.Is at the request boundary.
var (
	// ErrValidation marks bad input: malformed fields, out-of-range values,
	// reserved usernames, duplicate reviews.
	ErrValidation = errors.New("validation failed")
	// ErrConflict marks a signup that collides with an existing account
	// (same username with a different email, or vice versa).
	ErrConflict = errors.New("conflicting registration")
	// ErrAuthentication marks a failed credential check (bad confirmation code).
	ErrAuthentication = errors.New("authentication failed")
	// ErrForbidden marks a denied operation for an authenticated requester.
	ErrForbidden = errors.New("permission denied")
	// ErrNotFound marks a missing row.
	ErrNotFound = errors.New("not found")
)

// ErrAlreadyReviewed rejects a second review for the same (title, author)
// pair. It chains to ErrValidation so the boundary maps it to 400.
var ErrAlreadyReviewed = fmt.Errorf("you have already reviewed this title: %w", ErrValidation)

