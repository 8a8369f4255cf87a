package models

import "github.com/golang-jwt/jwt/v5"

// Claims is the JWT payload issued by the identity provider.
// The subject claim identifies the account that owns folders and files.
type Claims struct {
	jwt.RegisteredClaims
	Email string `json:"email"`
	Role  string `json:"role"`
}

// GetUserID returns the owner id carried in the token subject
func (c *Claims) GetUserID() string {
	return c.Subject
}
