// Package usecase implements the business logic for the posts feature.
package usecase

import "errors"

var (
	// ErrPostNotFound is returned when a post cannot be found by ID.
	ErrPostNotFound = errors.New("post not found")

	// ErrGroupNotFound is returned when a group cannot be found by slug.
	ErrGroupNotFound = errors.New("group not found")

	// ErrAuthorNotFound is returned when a profile's user cannot be found by username.
	ErrAuthorNotFound = errors.New("author not found")

	// ErrNotAuthor is returned when a user other than the post's author attempts
	// an edit. Handlers translate this into a silent redirect to the post's
	// detail page rather than an error response.
	ErrNotAuthor = errors.New("only the author may edit a post")
)

// ValidationError reports field-level form validation failures.
// It carries one message per offending field so the form can be re-rendered
// with errors next to the fields, without any state change.
type ValidationError struct {
	Fields map[string]string
}

// Error satisfies the error interface.
func (e *ValidationError) Error() string {
	return "form validation failed"
}
