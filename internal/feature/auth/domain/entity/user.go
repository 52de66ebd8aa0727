// Package entity defines the domain entities for the auth feature.
package entity

import "time"

// User represents a registered author in the system.
// It carries the authentication credentials and the public identity
// (username) under which the user's posts are listed.
type User struct {
	// ID is the unique identifier for the user.
	ID uint `gorm:"primaryKey"`

	// Username is the public, URL-visible identity of the user.
	// It must be unique across all users.
	Username string `gorm:"uniqueIndex;size:150;not null"`

	// Email is the user's email address used for account recovery.
	// It must be unique across all users.
	Email string `gorm:"uniqueIndex;size:255;not null"`

	// Password is the bcrypt hash of the user's password.
	// This never stores plaintext passwords.
	Password string `gorm:"size:255;not null"`

	// CreatedAt is the timestamp when the user was created.
	CreatedAt time.Time

	// UpdatedAt is the timestamp when the user was last updated.
	UpdatedAt time.Time
}
