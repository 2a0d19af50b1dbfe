package models

import "github.com/golang-jwt/jwt/v5"

// SessionClaims is the payload of the role-selection session token.
type SessionClaims struct {
	UserID string `json:"user_id"`
	Role   Role   `json:"role"`
	Name   string `json:"name"`
	jwt.RegisteredClaims
}

// Session is returned after selecting a role.
type Session struct {
	Token     string `json:"token"`
	ExpiresIn int64  `json:"expires_in"`
	User      User   `json:"user"`
}
