// Package store implements the persistence and identity core of the blog:
// posts with their tags and comment threads, user accounts with credential
// checks, and login sessions. Each store is constructed around an injected
// backing handle and holds no other mutable state; callers are expected to
// invoke stores concurrently, one call per inbound request.
package store

import "errors"

var (
	// ErrNotFound is the normal negative result for lookups by permalink or
	// session token.
	ErrNotFound = errors.New("not found")
	// ErrDuplicateUsername is returned when the username is already registered.
	ErrDuplicateUsername = errors.New("username already exists")
	// ErrDuplicatePermalink is returned when a new post derives a permalink
	// that is already taken.
	ErrDuplicatePermalink = errors.New("permalink already exists")
	// ErrInvalidCredentials is the uniform login failure. It deliberately does
	// not distinguish an unknown username from a wrong password.
	ErrInvalidCredentials = errors.New("invalid username or password")
	// ErrStorage wraps failures of the backing store. Check with errors.Is.
	ErrStorage = errors.New("storage unavailable")
)
