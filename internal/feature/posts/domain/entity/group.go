// Package entity defines the domain entities for the posts feature.
package entity

// Group represents a named community that posts can be assigned to.
// Groups are created out-of-band (there is no creation route); posts
// only reference them.
type Group struct {
	// ID is the unique identifier for the group.
	ID uint `gorm:"primaryKey"`

	// Title is the group's display name.
	Title string `gorm:"size:200;not null"`

	// Slug is the unique, URL-safe identifier used in group feed URLs.
	Slug string `gorm:"uniqueIndex;size:50;not null"`

	// Description is a free-text description of the group.
	Description string `gorm:"type:text"`
}
