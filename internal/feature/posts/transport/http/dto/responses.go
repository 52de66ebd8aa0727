package dto

import "time"

// GroupRef identifies a post's group in listings and detail views.
type GroupRef struct {
	Title string `json:"title"`
	Slug  string `json:"slug"`
}

// PostItem is one post in a feed or detail response.
type PostItem struct {
	ID      uint      `json:"id"`
	Text    string    `json:"text"`
	PubDate time.Time `json:"pub_date"`
	Author  string    `json:"author"`
	Group   *GroupRef `json:"group,omitempty"`
}

// PageMeta carries pagination metadata for a feed page.
type PageMeta struct {
	Number      int   `json:"number"`
	TotalPages  int   `json:"total_pages"`
	TotalItems  int64 `json:"total_items"`
	HasNext     bool  `json:"has_next"`
	HasPrevious bool  `json:"has_previous"`
}

// FeedResponse is the template context for the global feed page.
type FeedResponse struct {
	Posts []PostItem `json:"posts"`
	Page  PageMeta   `json:"page"`
}

// GroupInfo is the group metadata shown on a group feed page.
type GroupInfo struct {
	Title       string `json:"title"`
	Slug        string `json:"slug"`
	Description string `json:"description"`
}

// GroupFeedResponse is the template context for a group feed page.
type GroupFeedResponse struct {
	Group GroupInfo  `json:"group"`
	Posts []PostItem `json:"posts"`
	Page  PageMeta   `json:"page"`
}

// ProfileResponse is the template context for an author's profile page.
type ProfileResponse struct {
	Author    string     `json:"author"`
	PostCount int64      `json:"post_count"`
	Posts     []PostItem `json:"posts"`
	Page      PageMeta   `json:"page"`
}

// PostDetailResponse is the template context for a post detail page.
type PostDetailResponse struct {
	Post PostItem `json:"post"`
}

// GroupChoice is one selectable group in the post form.
type GroupChoice struct {
	ID    uint   `json:"id"`
	Title string `json:"title"`
}

// FormResponse is the template context for the post creation/edit form.
// Errors is populated only when validation failed and the form is re-rendered.
type FormResponse struct {
	Form   PostForm          `json:"form"`
	Groups []GroupChoice     `json:"groups"`
	Errors map[string]string `json:"errors,omitempty"`
}
