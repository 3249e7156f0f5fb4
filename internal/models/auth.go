package models

import "github.com/golang-jwt/jwt/v5"

// AccessClaims are the claims carried by access tokens issued by the hosted
// identity provider. The subject is the user ID used as the profile key.
type AccessClaims struct {
	Email string `json:"email,omitempty"`
	jwt.RegisteredClaims
}

// Identity is the resolved caller attached to the request context after
// access resolution: verified token subject plus the matching profile row.
type Identity struct {
	UserID string
	Email  string
	Role   UserRole
	Name   string
}
