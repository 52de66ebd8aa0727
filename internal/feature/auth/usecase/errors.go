// Package usecase implements the business logic for the auth feature.
package usecase

import "errors"

var (
	// ErrUserNotFound is returned when a user cannot be found by username or ID.
	ErrUserNotFound = errors.New("user not found")

	// ErrUserAlreadyExists is returned when signing up with a username or email
	// that is already taken.
	ErrUserAlreadyExists = errors.New("username or email already exists")

	// ErrInvalidCredentials is returned when login fails. It deliberately does
	// not distinguish an unknown username from a wrong password.
	ErrInvalidCredentials = errors.New("invalid username or password")

	// ErrSessionNotFound is returned when a session cannot be found by ID.
	ErrSessionNotFound = errors.New("session not found")

	// ErrSessionInvalid is returned when a session exists but is expired or revoked.
	ErrSessionInvalid = errors.New("session expired or revoked")
)
