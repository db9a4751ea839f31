package forum

import "errors"

// Sentinel errors returned by the store and checked by the handlers.
var (
	// ErrNotFound is returned when a looked-up record does not exist.
	ErrNotFound = errors.New("record not found")

	// ErrDuplicateUsername is returned when a registration collides with an
	// existing username. The store's unique constraint is the source of
	// truth so concurrent registrations cannot both succeed.
	ErrDuplicateUsername = errors.New("username already taken")

	// ErrInvalidCredentials covers both an unknown username and a wrong
	// password, so the login page never reveals which one it was.
	ErrInvalidCredentials = errors.New("invalid username or password")

	// ErrNotOwner is returned when a user tries to mutate a topic they do
	// not own.
	ErrNotOwner = errors.New("not the topic owner")
)
