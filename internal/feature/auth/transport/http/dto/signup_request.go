// Package dto defines data transfer objects for the auth feature's HTTP transport layer.
package dto

// SignupReq represents the request body for the /auth/signup/ endpoint.
// It uses Gin's binding tags for validation (required fields, email format,
// password length).
type SignupReq struct {
	Username string `form:"username" json:"username" binding:"required,max=150"`
	Email    string `form:"email" json:"email" binding:"required,email"`
	Password string `form:"password" json:"password" binding:"required,min=8"`
}
