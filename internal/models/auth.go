package models

import (
	"time"

	"github.com/golang-jwt/jwt/v5"
)

// LoginRequest holds credentials for authenticating a user.
type LoginRequest struct {
	Username string `json:"username" validate:"required"`
	Password string `json:"password" validate:"required"`
}

// LoginResponse returns the issued access token and user info.
type LoginResponse struct {
	AccessToken string    `json:"access_token"`
	ExpiresIn   int64     `json:"expires_in"`
	UserID      int64     `json:"user_id"`
	Role        UserRole  `json:"role"`
	IssuedAt    time.Time `json:"issued_at"`
}

// JWTClaims carries the authenticated identity inside access tokens.
type JWTClaims struct {
	UserID int64    `json:"uid"`
	Role   UserRole `json:"role"`
	jwt.RegisteredClaims
}
