// Package dto defines data transfer objects for the posts feature's HTTP transport layer.
package dto

// PostForm represents the submitted values of the post creation/edit form.
// It deliberately has no author field: the author is always taken from the
// authenticated session, never from client input.
//
// Group is bound as a string because a blank <select> option submits
// `group=` — an empty value, not an absent field. The handler converts it:
// empty means no group, anything else is parsed as a group ID.
type PostForm struct {
	Text  string `form:"text" json:"text"`
	Group string `form:"group" json:"group"`
}
