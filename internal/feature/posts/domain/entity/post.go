package entity

import (
	"time"

	authentity "yatube_backend/internal/feature/auth/domain/entity"
)

// Post represents a single authored entry.
//
// A post has exactly one author, set at creation and never changed;
// deleting the author deletes their posts. The group reference is optional
// and may be reassigned by the author; deleting a group nulls the reference
// on its posts instead of deleting them. All listings order posts
// newest-first by publication timestamp.
type Post struct {
	// ID is the unique identifier for the post.
	ID uint `gorm:"primaryKey"`

	// Text is the post body. It is required and never blank.
	Text string `gorm:"type:text;not null"`

	// PubDate is the publication timestamp, set once at creation and
	// immutable thereafter.
	PubDate time.Time `gorm:"autoCreateTime;index;not null"`

	// AuthorID references the authoring user.
	AuthorID uint `gorm:"index;not null"`

	// Author is the authoring user, loaded for listings and detail views.
	Author authentity.User `gorm:"constraint:OnDelete:CASCADE"`

	// GroupID references the post's group, if any.
	GroupID *uint `gorm:"index"`

	// Group is the post's group, loaded when GroupID is set.
	Group *Group `gorm:"constraint:OnDelete:SET NULL"`
}
