package model

import "github.com/golang-jwt/jwt/v5"

// ClientClaims are JWT claims for API clients of the analyze endpoints
type ClientClaims struct {
	ClientID string `json:"clientId"`
	jwt.RegisteredClaims
}

// LoginRequest is the request body for client login
type LoginRequest struct {
	Username string `json:"username"`
	Password string `json:"password"`
}

// LoginResponse is returned after successful login
type LoginResponse struct {
	Token     string `json:"token"`
	ClientID  string `json:"clientId"`
	ExpiresAt int64  `json:"expiresAt"`
}
