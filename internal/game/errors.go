package game

import "errors"

var (
	// ErrValidation covers empty nicknames, oversized fields and empty
	// answers. Returned to the originating connection only.
	ErrValidation = errors.New("validation failed")

	// ErrSessionNotFound means the session id is unknown or expired.
	ErrSessionNotFound = errors.New("session not found")

	// ErrNotMember means the connection does not belong to the session.
	ErrNotMember = errors.New("not a session member")
)
